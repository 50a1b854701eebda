package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StatusWriter prints a spinning status line to a writer while a child
// process runs. With no message it draws a single rotating glyph. It only
// writes to its console, so captured process output is never touched.
type StatusWriter struct {
	console    *Console
	frames     []string
	interval   time.Duration
	mu         sync.Mutex
	message    string
	phaseStart time.Time
	done       chan struct{}
	finished   chan struct{}
	running    bool
}

// NewStatusWriter returns an idle status writer using the bubbles line
// spinner, which advances every 100ms. Pass the *Console that other output
// goes through so those writes clear the status line first.
func NewStatusWriter(w io.Writer) *StatusWriter {
	console, ok := w.(*Console)
	if !ok {
		console = NewConsole(w)
	}
	return &StatusWriter{
		console:  console,
		frames:   spinner.Line.Frames,
		interval: spinner.Line.FPS,
	}
}

// Update changes the status message shown next to the spinner and resets
// the phase timer so elapsed time restarts from zero.
func (sw *StatusWriter) Update(msg string) {
	sw.mu.Lock()
	sw.message = msg
	sw.phaseStart = time.Now()
	sw.mu.Unlock()
}

// Start begins rendering in the background. Calling Start on a running
// writer does nothing.
func (sw *StatusWriter) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.running {
		return
	}
	sw.running = true
	sw.phaseStart = time.Now()
	sw.done = make(chan struct{})
	sw.finished = make(chan struct{})
	go sw.loop(sw.done, sw.finished)
}

// Stop clears the status line and stops the spinner. It returns after the
// last frame has been written.
func (sw *StatusWriter) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = false
	done, finished := sw.done, sw.finished
	sw.mu.Unlock()

	close(done)
	<-finished
	sw.console.clearStatus()
}

func (sw *StatusWriter) loop(done, finished chan struct{}) {
	defer close(finished)
	tick := 0
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			sw.mu.Lock()
			msg := sw.message
			start := sw.phaseStart
			sw.mu.Unlock()

			frame := sw.frames[tick%len(sw.frames)]
			tick++
			if msg == "" {
				sw.console.drawStatus(frame)
				continue
			}
			sw.console.drawStatus(fmt.Sprintf("%s %s (%s)", frame, msg, formatElapsed(time.Since(start))))
		}
	}
}

// formatElapsed formats a duration for display in the status line.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
