// Package testutil provides deterministic test data generators for
// lattice simulations.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and generators for
// initial occupations, rate constants and site picks.
//
// # Random Occupations
//
//	rng := testutil.NewRNG(seed)
//	types := rng.CoverageOccupation(4096, 0.3) // ~30% occupied
//	types = rng.Occupation(4096, 3)            // uniform over 3 types
//
// # Rate Constants
//
// Physical rate constants span many orders of magnitude, so rates are
// drawn log-uniformly:
//
//	rates := rng.Rates(8, 1e-3, 1e3)
package testutil
