package lib

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// WaitForKey blocks until one byte is read from f. It returns immediately
// when f is not a terminal.
func WaitForKey(f *os.File) bool {
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false
	}

	if state, err := term.MakeRaw(int(fd)); err == nil {
		defer term.Restore(int(fd), state)
	}
	buf := make([]byte, 1)
	_, err := f.Read(buf)
	return err == nil
}
