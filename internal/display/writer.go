package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/lox/headsup/internal/game"
)

// Writer is an observer that prints every event to an io.Writer.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	format *Formatter
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer, f *Formatter) *Writer {
	return &Writer{w: w, format: f}
}

// OnEvent prints the event's lines. Write errors are dropped.
func (w *Writer) OnEvent(e game.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, line := range w.format.Event(e) {
		_, _ = fmt.Fprintln(w.w, line)
	}
}
