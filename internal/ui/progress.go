package ui

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Progress reports finished usage scans as "[n/total] mark label" lines.
// A nil *Progress discards everything.
type Progress struct {
	out       io.Writer
	total     int
	completed atomic.Int32
	mu        sync.Mutex
}

// NewProgress creates a progress tracker for n scans.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Done marks one scan as finished. ok selects the mark printed before label.
func (p *Progress) Done(label string, ok bool) {
	if p == nil {
		return
	}
	n := int(p.completed.Add(1))
	mark := "ok"
	if !ok {
		mark = "--"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s %s\n", n, p.total, mark, label)
}

// Completed returns how many scans have been marked done.
func (p *Progress) Completed() int {
	if p == nil {
		return 0
	}
	return int(p.completed.Load())
}

// Log prints an informational message between progress lines.
func (p *Progress) Log(format string, args ...any) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
