package resource

import (
	"context"
	"io"
)

// ThrottledWriter wraps an io.Writer so every write draws on the
// governor's IO budget.
type ThrottledWriter struct {
	ctx context.Context
	g   *Governor
	w   io.Writer
}

// NewThrottledWriter creates a writer throttled by g.
func NewThrottledWriter(ctx context.Context, g *Governor, w io.Writer) *ThrottledWriter {
	return &ThrottledWriter{
		ctx: ctx,
		g:   g,
		w:   w,
	}
}

func (t *ThrottledWriter) Write(p []byte) (int, error) {
	if err := t.g.WaitIO(t.ctx, len(p)); err != nil {
		return 0, err
	}
	return t.w.Write(p)
}

// ThrottledReader wraps an io.Reader so every read draws on the
// governor's IO budget.
type ThrottledReader struct {
	ctx context.Context
	g   *Governor
	r   io.Reader
}

// NewThrottledReader creates a reader throttled by g.
func NewThrottledReader(ctx context.Context, g *Governor, r io.Reader) *ThrottledReader {
	return &ThrottledReader{
		ctx: ctx,
		g:   g,
		r:   r,
	}
}

func (t *ThrottledReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		// Charge after the read so only bytes actually delivered count
		// against the budget.
		if waitErr := t.g.WaitIO(t.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}
