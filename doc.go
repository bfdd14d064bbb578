// Package kmcgo provides an embedded kinetic Monte Carlo (KMC) simulator
// for periodic three-dimensional lattices.
//
// Kmcgo maps lattice sites to dense indices and drives a variable step
// size method (VSSM) event loop over them, with production-ready
// features including:
//
//   - Periodic lattice index maps with constant-time neighbor lookup
//   - Declarative processes: occupation patterns over neighbor windows
//   - Fenwick-tree event selection with incremental rate repair
//   - Deterministic, seedable trajectories for reproducible runs
//   - Append-only trajectory journals with optional zstd compression
//   - Checksummed snapshot files for suspend and resume
//   - Run archival to local directories, Amazon S3 or MinIO
//   - Transfer slot and bandwidth governance for archive traffic
//
// # Quick Start
//
// Build a lattice, declare processes, and run:
//
//	cfg := lattice.Config{
//	    Basis:       1,
//	    Repetitions: [3]int{16, 16, 16},
//	    Periodic:    [3]bool{true, true, true},
//	}
//
//	procs, err := process.NewTable(1, process.Process{
//	    Name:   "desorption",
//	    Rate:   2.5,
//	    Shells: 0,
//	    Before: []core.TypeID{1},
//	    After:  []core.TypeID{0},
//	})
//	if err != nil {
//	    panic(err)
//	}
//
//	initial := make([]core.TypeID, 16*16*16)
//	for i := range initial {
//	    initial[i] = 1
//	}
//
//	sim, err := kmcgo.New(cfg, procs, initial, kmcgo.WithSeed(42))
//	if err != nil {
//	    panic(err)
//	}
//	defer sim.Close()
//
//	steps, err := sim.Run(ctx, kmcgo.Until{MaxSteps: 10000})
//
// # Suspend and Resume
//
// Snapshots capture the occupation and the simulation clock. A restored
// simulation continues the trajectory where the snapshot was taken:
//
//	if err := sim.WriteSnapshot("run.kmcs"); err != nil {
//	    panic(err)
//	}
//
//	sim2, err := kmcgo.NewFromSnapshot("run.kmcs", procs)
//
// With journaling enabled, every fired event is also appended to a
// trajectory log that can be replayed event by event:
//
//	sim, err := kmcgo.New(cfg, procs, initial,
//	    kmcgo.WithJournal("./data", func(o *journal.Options) {
//	        o.Compress = true
//	    }))
//
// # Archival
//
// Finished runs (snapshot plus journal) can be pushed to an object
// store under a run prefix, with checksums verified on fetch. See the
// archive package.
//
// # Package Map
//
//   - lattice: periodic index map, neighbor queries, site sets
//   - process: process tables binding patterns to rates
//   - engine: the VSSM stepping loop
//   - journal: append-only trajectory log
//   - snapshot: occupation and clock serialization
//   - archive: pushing and fetching runs on object stores
//   - blobstore: storage backends (local, memory, S3, MinIO)
//   - resource: transfer slots and I/O throttling
package kmcgo
