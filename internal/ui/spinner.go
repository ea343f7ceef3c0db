package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/portal-erp/erptable/internal/ui/styles"
)

// Spinner shows an animated line on stderr while records load outside the
// interactive view, so stdout stays clean for piping.
type Spinner struct {
	message string
	out     io.Writer
	done    chan struct{}
	stopped sync.WaitGroup
	active  bool
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		out:     os.Stderr,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation in the background
func (s *Spinner) Start() {
	// Accessible mode or non-TTY stderr: just print static message
	if styles.IsAccessible() || !term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintln(s.out, s.message+"...")
		return
	}

	s.active = true
	s.stopped.Add(1)
	go func() {
		defer s.stopped.Done()
		frames := spinner.Dot.Frames
		style := lipgloss.NewStyle().Foreground(styles.Accent)
		i := 0
		ticker := time.NewTicker(spinner.Dot.FPS)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := styles.Render(style, frames[i%len(frames)])
				fmt.Fprintf(s.out, "\r%s %s", frame, s.message)
				i++
			}
		}
	}()
}

// Stop stops the spinner and waits for its line to be cleared
func (s *Spinner) Stop() {
	close(s.done)
	if s.active {
		s.stopped.Wait()
	}
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.ErrorMsg(msg))
}
