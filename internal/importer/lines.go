package importer

import (
	"bufio"
	"errors"
	"io"
)

// lineReader yields lines including their terminator. The final line of a
// file without a trailing newline is returned as-is; the next call reports
// io.EOF.
type lineReader struct {
	r   *bufio.Reader
	eof bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 256*1024)}
}

func (lr *lineReader) next() (string, error) {
	if lr.eof {
		return "", io.EOF
	}
	line, err := lr.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			lr.eof = true
			if line == "" {
				return "", io.EOF
			}
			return line, nil
		}
		return line, err
	}
	return line, nil
}

// atLineStart reports whether off is the first byte of a line, i.e. it is
// zero or the byte before it is a newline.
func atLineStart(r io.ReaderAt, off int64) (bool, error) {
	if off <= 0 {
		return true, nil
	}
	var b [1]byte
	if _, err := r.ReadAt(b[:], off-1); err != nil {
		return false, err
	}
	return b[0] == '\n', nil
}
