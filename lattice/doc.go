// Package lattice implements the site index map for a periodic three
// dimensional lattice.
//
// A lattice is a cuboid grid of unit cells, each holding a fixed number of
// basis sites. Sites are numbered densely: the a axis varies slowest, then
// b, then c, and the basis offset varies fastest. The map is pure index
// arithmetic; it knows nothing about spatial coordinates.
//
// # Numbering
//
// For a cell (i, j, k) on a lattice with repetitions (Ra, Rb, Rc) and B
// basis sites, the first site of the cell is
//
//	((i*Rb + j)*Rc + k) * B
//
// and the cell's sites occupy B consecutive indices from there. CellOf and
// SitesOfCell invert each other over every valid site.
//
// # Neighbor windows
//
// Neighbors enumerates the sites of the cubic cell window of a given shell
// radius around a site's cell, in the same a, b, c iteration order. Along a
// periodic axis, window cells outside the grid wrap by exactly one period;
// along a bounded axis they are dropped. When a periodic extent is smaller
// than the window edge the same cell enters the window more than once and
// its sites repeat in the result. NeighborUnion flattens such windows for
// many sites at once into a sorted, duplicate free site list.
//
// All Map methods are safe for concurrent use; the Map itself is immutable
// after New.
package lattice
