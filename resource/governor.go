// Package resource bounds the concurrency and throughput of background
// archive transfers, so shipping a finished run off the node does not
// starve a simulation that is still running.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds transfer limits.
type Config struct {
	// MaxTransfers is the maximum number of concurrent uploads or
	// downloads. If 0, defaults to 4.
	MaxTransfers int64

	// IOBytesPerSec caps aggregate transfer throughput.
	// If 0, unlimited.
	IOBytesPerSec int64
}

// Governor manages transfer slots and IO budget.
// A nil *Governor is valid and enforces no limits.
type Governor struct {
	cfg Config

	transferSem *semaphore.Weighted
	inFlight    atomic.Int64

	ioLimiter *rate.Limiter // nil if unlimited
}

// NewGovernor creates a new transfer governor.
func NewGovernor(cfg Config) *Governor {
	if cfg.MaxTransfers <= 0 {
		cfg.MaxTransfers = 4
	}

	g := &Governor{
		cfg:         cfg,
		transferSem: semaphore.NewWeighted(cfg.MaxTransfers),
	}

	if cfg.IOBytesPerSec > 0 {
		g.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOBytesPerSec), int(cfg.IOBytesPerSec))
	}

	return g
}

// AcquireTransfer reserves a transfer slot.
// Blocks until a slot is free or ctx is canceled.
func (g *Governor) AcquireTransfer(ctx context.Context) error {
	if g == nil {
		return nil
	}
	if err := g.transferSem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.inFlight.Add(1)
	return nil
}

// TryAcquireTransfer reserves a transfer slot without blocking.
func (g *Governor) TryAcquireTransfer() bool {
	if g == nil {
		return true
	}
	if !g.transferSem.TryAcquire(1) {
		return false
	}
	g.inFlight.Add(1)
	return true
}

// ReleaseTransfer releases a transfer slot.
func (g *Governor) ReleaseTransfer() {
	if g == nil {
		return
	}
	g.transferSem.Release(1)
	g.inFlight.Add(-1)
}

// InFlight returns the number of transfers currently holding a slot.
func (g *Governor) InFlight() int64 {
	if g == nil {
		return 0
	}
	return g.inFlight.Load()
}

// WaitIO waits until the IO budget allows n more bytes. Requests larger
// than the limiter burst are split, so n may exceed one second's budget.
func (g *Governor) WaitIO(ctx context.Context, n int) error {
	if g == nil || g.ioLimiter == nil {
		return nil
	}

	burst := g.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := g.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
