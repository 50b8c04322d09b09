package logging

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

// teeWriter fans log lines out to several outputs (stdout and the rotated file). A failing
// output does not stop the others; its error is reported and the line still counts as
// written when at least one output took it, so logrus does not retry or drop it.
type teeWriter struct {
	mu      sync.Mutex
	writers []io.Writer
}

func newTeeWriter(writers ...io.Writer) *teeWriter {
	tw := &teeWriter{}
	for _, w := range writers {
		if w != nil {
			tw.writers = append(tw.writers, w)
		}
	}
	return tw
}

func (tw *teeWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	var errs error
	written := false
	for _, w := range tw.writers {
		if _, err := w.Write(p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		written = true
	}
	if !written {
		return 0, errs
	}
	return len(p), errs
}
