//go:build !windows

package applog

import (
	"os"

	"golang.org/x/term"
)

// enableColorOutput checks whether stream is a terminal that can take
// colorized output.
func enableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
