package ui

import (
	"io"
	"os"
	"time"

	"commitaid/internal/debug"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Spin runs fn while a spinner with the given suffix animates on out. The
// spinner is skipped when out is not a terminal or debug output is on.
func Spin(out io.Writer, suffix string, fn func() error) error {
	if !IsTerminal(out) || debug.Enabled {
		return fn()
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn()
}
