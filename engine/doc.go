// Package engine implements the kinetic Monte Carlo event loop.
//
// The engine couples a lattice index map, a process table and the site
// occupation state. It keeps a candidate process list per anchor cell and
// the per-anchor total rates in a Fenwick tree, so selecting an event and
// repairing rates after it are both logarithmic in the cell count.
//
// # Event loop
//
// Each step draws a cumulative rate value, locates the anchor and process
// it falls on, advances the clock by an exponential waiting time, applies
// the process update, and rematches exactly the anchors whose windows can
// see a changed site.
//
// # Anchors and windows
//
// Processes anchor at the first basis site of each cell. A process is
// eligible at an anchor only when its full window exists; cells clipped
// by a bounded axis host no events. On a periodic axis the largest
// process radius must not exceed the axis extent.
//
// # Determinism
//
// Equal lattice, table, initial state and seed produce identical
// trajectories. The Engine is not safe for concurrent use; callers
// serialize access.
package engine
