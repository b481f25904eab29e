package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is any writer that exposes a file descriptor, like os.File.
type fdWriter interface{ Fd() uintptr }

// IsTTY reports whether the writer is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether the writer should receive ANSI color codes.
// Color is disabled for non-terminals, when NO_COLOR is set
// (https://no-color.org), or when TERM is "dumb".
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(_ io.Writer, isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
