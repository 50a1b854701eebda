package tui

import (
	"io"
	"sync"
)

const clearLine = "\r\033[K"

// Console serializes status-line redraws and ordinary output on one stream.
// A write clears any status line first, so log lines never share a row with
// a spinner frame.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	dirty bool
}

// NewConsole wraps w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty {
		if _, err := io.WriteString(c.w, clearLine); err != nil {
			return 0, err
		}
		c.dirty = false
	}
	return c.w.Write(p)
}

// drawStatus replaces the status line with line.
func (c *Console) drawStatus(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.w, clearLine+line)
	c.dirty = line != ""
}

// clearStatus erases the status line.
func (c *Console) clearStatus() {
	c.drawStatus("")
}
