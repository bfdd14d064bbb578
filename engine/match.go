package engine

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmcgo/core"
)

// matchAll recomputes the eligible lists of every anchor in parallel and
// rebuilds the rate tree.
func (e *Engine) matchAll(workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > e.numCells {
		workers = e.numCells
	}

	rates := make([]float64, e.numCells)

	// Workers own disjoint anchor ranges, so eligible and rates writes
	// never overlap.
	var g errgroup.Group
	chunk := (e.numCells + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, e.numCells)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			buf := make([]core.Site, 0, e.m.MaxNeighbors(e.maxShells))
			for a := lo; a < hi; a++ {
				total, err := e.matchAnchor(a, &buf)
				if err != nil {
					return err
				}
				rates[a] = total
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.tree.Build(rates)
	return nil
}

// matchAnchor recomputes the eligible list of anchor a and returns its
// total rate.
func (e *Engine) matchAnchor(a int, buf *[]core.Site) (float64, error) {
	anchor := core.Site(a * e.basis)
	list := e.eligible[a][:0]

	var total float64
	for _, r := range e.radii {
		win, err := e.m.AppendNeighbors((*buf)[:0], anchor, r)
		if err != nil {
			return 0, err
		}
		*buf = win

		// A window clipped by a bounded axis hosts no events.
		if len(win) != e.m.MaxNeighbors(r) {
			continue
		}

		for _, pid := range e.procs.WithShells(r) {
			p := e.procs.At(pid)
			if e.windowMatches(p.Before, win) {
				list = append(list, pid)
				total += p.Rate
			}
		}
	}

	e.eligible[a] = list
	return total, nil
}

func (e *Engine) windowMatches(pattern []core.TypeID, win []core.Site) bool {
	for i, want := range pattern {
		if want == core.WildcardType {
			continue
		}
		if e.state.types[win[i]] != want {
			return false
		}
	}
	return true
}
