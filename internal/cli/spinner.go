package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// spinnerFrames cycle on stderr while a remote render is in flight.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// elapsedAfter is how long a spinner runs before it starts appending
// elapsed seconds. Renders of large schemas can take a while.
const elapsedAfter = 2 * time.Second

// Spinner is a stderr progress indicator for render-server fetches.
// It stops on Stop or when its parent context is cancelled.
type Spinner struct {
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	width   int
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	inner, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
		width:   len(message) + 2,
	}
}

// Start begins the animation. Call Stop before writing anything else
// to stderr.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		start := time.Now()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				line := s.message
				if el := time.Since(start); el >= elapsedAfter {
					line = fmt.Sprintf("%s (%ds)", s.message, int(el.Seconds()))
				}
				if len(line)+2 > s.width {
					s.width = len(line) + 2
				}
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
			}
		}
	}()
}

// Stop halts the animation and clears the line. Calling it more than
// once is safe.
func (s *Spinner) Stop() {
	s.cancel()
	<-s.stopped
	s.clearLine()
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended the spinner.
// A plain Stop does not count.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

func (s *Spinner) clearLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", s.width))
}
