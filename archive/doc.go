// Package archive ships finished simulation runs to a blob store and
// fetches them back for analysis or resumption.
//
// A run is archived under a single prefix:
//
//	<run-id>/snapshot.kmcs     final occupation snapshot
//	<run-id>/trajectory.kmcj   event journal (optional)
//	<run-id>/manifest.json     shape, counters and per-file checksums
//
// The manifest is uploaded last, so a prefix with a readable manifest
// always names complete artifacts. Transfers run in parallel and respect
// the limits of an optional resource.Governor:
//
//	arc := archive.New(store, func(o *archive.Options) {
//		o.Governor = gov
//	})
//
//	manifest, err := arc.Push(ctx, "run-042", archive.Run{
//		Meta:         meta,
//		SnapshotPath: "out/snapshot.kmcs",
//		JournalPath:  "out/trajectory.kmcj",
//	})
//
// Fetch verifies the size and CRC32 of every artifact against the
// manifest and fails with ErrCorruptArtifact on a mismatch.
package archive
