package pipeline

import (
	"fmt"
	"io"
	"sync/atomic"
)

// ProgressSink receives batch progress. Implementations must tolerate
// concurrent Advance calls when the pipeline runs with workers.
type ProgressSink interface {
	Begin(total int)
	Advance(n int)
}

// NopProgress satisfies silent-mode callers.
type NopProgress struct{}

func (NopProgress) Begin(int)   {}
func (NopProgress) Advance(int) {}

// ConsoleProgress prints "processed/total" lines to a writer.
type ConsoleProgress struct {
	w     io.Writer
	total int64
	done  atomic.Int64
}

// NewConsoleProgress creates a console progress reporter writing to w.
func NewConsoleProgress(w io.Writer) *ConsoleProgress {
	return &ConsoleProgress{w: w}
}

func (c *ConsoleProgress) Begin(total int) {
	c.total = int64(total)
	c.done.Store(0)
	fmt.Fprintf(c.w, "processing %d assets\n", total)
}

func (c *ConsoleProgress) Advance(n int) {
	done := c.done.Add(int64(n))
	fmt.Fprintf(c.w, "[%d/%d]\n", done, c.total)
}
