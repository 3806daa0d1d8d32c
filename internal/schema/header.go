package schema

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\uFEFF"

// ErrHeader marks every failure to obtain a usable header.
var ErrHeader = errors.New("header")

// Column is one header field: its cleaned name, the raw hint code (0 when the
// token had none) and the resulting Type.
type Column struct {
	Name string
	Code byte
	Type Type
}

// Header is the ordered column layout shared read-only by all workers.
type Header struct {
	Columns []Column
}

// Len returns the number of columns.
func (h Header) Len() int { return len(h.Columns) }

// Names returns the column names in header order.
func (h Header) Names() []string {
	out := make([]string, len(h.Columns))
	for i, c := range h.Columns {
		out[i] = c.Name
	}
	return out
}

// ReadHeaderFile opens path and parses its first line.
func ReadHeaderFile(path string, sep byte) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("%w: open %s: %w", ErrHeader, path, err)
	}
	defer f.Close()
	return ReadHeader(f, sep)
}

// ReadHeader reads exactly one line from r and parses it.
func ReadHeader(r io.Reader, sep byte) (Header, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Header{}, fmt.Errorf("%w: read: %w", ErrHeader, err)
	}
	return ParseHeader(line, sep)
}

// ParseHeader splits line on sep and resolves each token's type hint. A UTF-8
// BOM and the line terminator are stripped. Empty or duplicate column names
// (compared case-insensitively) are rejected.
func ParseHeader(line string, sep byte) (Header, error) {
	line = strings.TrimPrefix(line, utf8BOM)
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Header{}, fmt.Errorf("%w: empty header line", ErrHeader)
	}

	tokens := strings.Split(line, string(sep))
	h := Header{Columns: make([]Column, 0, len(tokens))}
	seen := make(map[string]int, len(tokens))

	for i, tok := range tokens {
		name, code := splitHint(strings.TrimSpace(tok))
		if name == "" {
			return Header{}, fmt.Errorf("%w: column %d has no name", ErrHeader, i+1)
		}
		key := strings.ToLower(name)
		if prev, dup := seen[key]; dup {
			return Header{}, fmt.Errorf("%w: column %d %q duplicates column %d", ErrHeader, i+1, name, prev+1)
		}
		seen[key] = i
		h.Columns = append(h.Columns, Column{Name: name, Code: code, Type: TypeFromCode(code)})
	}
	return h, nil
}

// splitHint separates a trailing "(X)" hint from tok, where X is a single
// letter, digit or underscore.
func splitHint(tok string) (string, byte) {
	n := len(tok)
	if n < 3 || tok[n-1] != ')' || tok[n-3] != '(' || !isWordByte(tok[n-2]) {
		return tok, 0
	}
	return strings.TrimSpace(tok[:n-3]), tok[n-2]
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
