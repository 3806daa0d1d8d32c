//go:build linux

package importer

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential hints the kernel that [off, off+n) will be read once,
// front to back.
func adviseSequential(f *os.File, off, n int64) error {
	return unix.Fadvise(int(f.Fd()), off, n, unix.FADV_SEQUENTIAL)
}
