package engine

import (
	"context"
	"log/slog"

	"github.com/hupe1980/kmcgo/core"
)

// Event describes one fired step.
type Event struct {
	// Step is the step counter after the event fired.
	Step uint64

	// TimeDelta is the exponential waiting time consumed by the event.
	TimeDelta float64

	// Process identifies the fired process.
	Process core.ProcessID

	// Anchor is the anchor site the process fired at.
	Anchor core.Site

	// Writes lists the occupations the event changed, in window order.
	// Updates that matched the prior occupation are omitted.
	Writes []core.SiteWrite
}

// Until bounds a run. Zero fields leave the bound open. Bounds compare
// against the cumulative counters, so resumed runs continue toward the
// same totals.
type Until struct {
	MaxSteps uint64
	MaxTime  float64
}

// Step selects and fires one event. It returns ErrExhausted when no
// process is eligible anywhere on the lattice.
func (e *Engine) Step() (*Event, error) {
	total := e.tree.Total()
	if total <= 0 {
		return nil, ErrExhausted
	}

	a, rem := e.tree.Find(e.rng.Float64() * total)
	pid, ok := e.pickProcess(a, rem)
	if !ok {
		// Accumulated float drift can point at an anchor without
		// candidates; take the next one that has any.
		a, pid, ok = e.nextEligible(a)
		if !ok {
			return nil, ErrExhausted
		}
	}

	dt := e.rng.ExpFloat64() / total
	e.steps++
	e.time += dt

	p := e.procs.At(pid)
	anchor := core.Site(a * e.basis)

	win, err := e.m.AppendNeighbors(e.winBuf[:0], anchor, p.Shells)
	if err != nil {
		return nil, err
	}
	e.winBuf = win

	e.writeBuf = e.writeBuf[:0]
	e.siteBuf = e.siteBuf[:0]
	for i, tp := range p.After {
		if tp == core.WildcardType {
			continue
		}
		site := win[i]
		if e.state.set(site, tp) {
			e.writeBuf = append(e.writeBuf, core.SiteWrite{Site: site, Type: tp})
			e.siteBuf = append(e.siteBuf, site)
		}
	}

	if len(e.siteBuf) > 0 {
		if err := e.rematchAround(e.siteBuf); err != nil {
			return nil, err
		}
	}

	return &Event{
		Step:      e.steps,
		TimeDelta: dt,
		Process:   pid,
		Anchor:    anchor,
		Writes:    append([]core.SiteWrite(nil), e.writeBuf...),
	}, nil
}

// rematchAround recomputes every anchor whose window can see one of the
// changed sites.
func (e *Engine) rematchAround(changed []core.Site) error {
	affected, err := e.m.NeighborUnionWithin(changed, e.maxShells)
	if err != nil {
		return err
	}

	// The union is ascending, so sites of one cell are adjacent.
	last := -1
	for _, s := range affected {
		a := int(s) / e.basis
		if a == last {
			continue
		}
		last = a

		total, err := e.matchAnchor(a, &e.winBuf)
		if err != nil {
			return err
		}
		e.tree.Set(a, total)
	}
	return nil
}

// pickProcess walks the candidate list of anchor a with the residual
// cumulative value.
func (e *Engine) pickProcess(a int, rem float64) (core.ProcessID, bool) {
	list := e.eligible[a]
	if len(list) == 0 {
		return 0, false
	}
	for _, pid := range list[:len(list)-1] {
		r := e.procs.At(pid).Rate
		if rem < r {
			return pid, true
		}
		rem -= r
	}
	return list[len(list)-1], true
}

// nextEligible scans cyclically from a for the next anchor with
// candidates.
func (e *Engine) nextEligible(a int) (int, core.ProcessID, bool) {
	for off := 1; off <= e.numCells; off++ {
		b := (a + off) % e.numCells
		if list := e.eligible[b]; len(list) > 0 {
			return b, list[0], true
		}
	}
	return 0, 0, false
}

// Run fires events until a bound of until is reached, the context is
// canceled, or the lattice exhausts. Without bounds it runs until
// cancellation or exhaustion. The onEvent callback, if non-nil, sees
// every event in order; a callback error stops the run. Run returns the
// number of events fired by this call.
func (e *Engine) Run(ctx context.Context, until Until, onEvent func(*Event) error) (uint64, error) {
	var fired uint64
	for {
		if err := ctx.Err(); err != nil {
			return fired, err
		}
		if until.MaxSteps > 0 && e.steps >= until.MaxSteps {
			return fired, nil
		}
		if until.MaxTime > 0 && e.time >= until.MaxTime {
			return fired, nil
		}

		ev, err := e.Step()
		if err != nil {
			return fired, err
		}
		fired++

		if onEvent != nil {
			if err := onEvent(ev); err != nil {
				return fired, err
			}
		}

		if e.progress.Allow() {
			e.logger.Debug("run progress",
				slog.Uint64("steps", e.steps),
				slog.Float64("time", e.time),
				slog.Float64("total_rate", e.tree.Total()),
			)
		}
	}
}
