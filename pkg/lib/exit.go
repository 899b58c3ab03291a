// Package lib holds small helpers shared by the command and the pickers.
package lib

import (
	"fmt"
	"io"
	"os"
)

// Exit prints the error and exits the program with code 1
func Exit(err error) {
	PrintError(os.Stderr, err)
	os.Exit(1)
}

// PrintError writes err the way Exit reports it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
}

// PressAnyKeyAndExit reports err, waits for a key when a terminal is
// attached and exits with code 1. It is used when the picker cannot start
// inside a popup that would otherwise close before the message is read.
func PressAnyKeyAndExit(err error) {
	PrintError(os.Stderr, err)
	fmt.Fprint(os.Stderr, "Press any key to exit...")
	WaitForKey(os.Stdin)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}
