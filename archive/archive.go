package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmcgo/blobstore"
	"github.com/hupe1980/kmcgo/resource"
	"github.com/hupe1980/kmcgo/snapshot"
)

// Registry records committed runs in an external index. *s3.RunRegistry
// satisfies it.
type Registry interface {
	// Commit registers manifestKey as the next version of experiment and
	// returns the assigned version.
	Commit(ctx context.Context, experiment, runID, manifestKey string) (uint64, error)
}

// Options contains configuration for the archiver.
type Options struct {
	// Governor bounds transfer concurrency and bandwidth. Nil means
	// unlimited.
	Governor *resource.Governor

	// Registry, when set, receives a commit for every pushed run.
	Registry Registry

	// Experiment is the registry partition runs are committed under.
	Experiment string

	// Logger receives transfer progress output. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns default archiver options.
var DefaultOptions = Options{}

// Run names the local artifacts of a finished run.
type Run struct {
	// Meta carries the lattice shape and final counters, as recorded in
	// the snapshot header.
	Meta snapshot.Meta

	// SnapshotPath is the local path of the occupation snapshot.
	SnapshotPath string

	// JournalPath is the local path of the trajectory journal. Empty
	// means the run was not journaled.
	JournalPath string
}

// Archiver copies runs between local files and a blobstore.Store.
type Archiver struct {
	store      blobstore.Store
	governor   *resource.Governor
	registry   Registry
	experiment string
	logger     *slog.Logger
}

// New creates an archiver on top of store.
func New(store blobstore.Store, optFns ...func(o *Options)) *Archiver {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Archiver{
		store:      store,
		governor:   opts.Governor,
		registry:   opts.Registry,
		experiment: opts.Experiment,
		logger:     logger,
	}
}

// Push uploads the run's artifacts and finally its manifest. The
// manifest is stored only after every artifact upload succeeded, so
// readers never observe a manifest naming missing blobs. When a
// registry is configured the run is committed after the manifest is
// stored.
func (a *Archiver) Push(ctx context.Context, runID string, run Run) (*Manifest, error) {
	if err := validateRunID(runID); err != nil {
		return nil, err
	}
	if run.SnapshotPath == "" {
		return nil, ErrNoSnapshot
	}

	type artifact struct {
		name, path string
	}

	artifacts := []artifact{{SnapshotName, run.SnapshotPath}}
	if run.JournalPath != "" {
		artifacts = append(artifacts, artifact{JournalName, run.JournalPath})
	}

	files := make([]File, len(artifacts))

	g, gctx := errgroup.WithContext(ctx)
	for i, art := range artifacts {
		g.Go(func() error {
			file, err := a.uploadFile(gctx, runKey(runID, art.name), art.path)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", art.name, err)
			}

			file.Name = art.name
			files[i] = file

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Manifest{
		Version:     manifestVersion,
		RunID:       runID,
		CreatedAt:   time.Now().UTC(),
		Basis:       run.Meta.Basis,
		Repetitions: run.Meta.Repetitions,
		Periodic:    run.Meta.Periodic,
		Steps:       run.Meta.Step,
		Time:        run.Meta.Time,
		Files:       files,
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	manifestKey := runKey(runID, ManifestName)
	if err := a.store.Put(ctx, manifestKey, data); err != nil {
		return nil, fmt.Errorf("failed to store manifest: %w", err)
	}

	a.logger.Debug("run pushed",
		slog.String("run_id", runID),
		slog.Int("files", len(files)),
	)

	if a.registry != nil {
		version, err := a.registry.Commit(ctx, a.experiment, runID, manifestKey)
		if err != nil {
			return nil, fmt.Errorf("failed to commit run: %w", err)
		}

		a.logger.Debug("run committed",
			slog.String("experiment", a.experiment),
			slog.Uint64("version", version),
		)
	}

	return m, nil
}

func (a *Archiver) uploadFile(ctx context.Context, key, localPath string) (File, error) {
	if err := a.governor.AcquireTransfer(ctx); err != nil {
		return File{}, err
	}
	defer a.governor.ReleaseTransfer()

	src, err := os.Open(localPath) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return File{}, err
	}
	defer src.Close()

	dst, err := a.store.Create(ctx, key)
	if err != nil {
		return File{}, err
	}

	cw := snapshot.NewChecksumWriter(dst)

	size, err := io.Copy(cw, resource.NewThrottledReader(ctx, a.governor, src))
	if err != nil {
		_ = dst.Abort()
		return File{}, err
	}

	if err := dst.Close(); err != nil {
		return File{}, err
	}

	return File{Size: size, CRC32: cw.Sum()}, nil
}

// Fetch downloads the run named runID into destDir, verifying the size
// and checksum of every artifact against the manifest.
func (a *Archiver) Fetch(ctx context.Context, runID, destDir string) (*Manifest, error) {
	m, err := a.Manifest(ctx, runID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, file := range m.Files {
		g.Go(func() error {
			if err := a.fetchFile(gctx, runID, file, destDir); err != nil {
				return fmt.Errorf("failed to fetch %s: %w", file.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug("run fetched",
		slog.String("run_id", runID),
		slog.String("dest", destDir),
	)

	return m, nil
}

func (a *Archiver) fetchFile(ctx context.Context, runID string, file File, destDir string) error {
	if err := a.governor.AcquireTransfer(ctx); err != nil {
		return err
	}
	defer a.governor.ReleaseTransfer()

	blob, err := a.store.Open(ctx, runKey(runID, file.Name))
	if err != nil {
		return err
	}
	defer blob.Close()

	if blob.Size() != file.Size {
		return fmt.Errorf("artifact %s has size %d, manifest records %d", file.Name, blob.Size(), file.Size)
	}

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return err
	}
	defer rc.Close()

	localPath := filepath.Join(destDir, file.Name)

	dst, err := os.OpenFile(localPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return err
	}

	cw := snapshot.NewChecksumWriter(resource.NewThrottledWriter(ctx, a.governor, dst))

	if _, err := io.Copy(cw, rc); err != nil {
		_ = dst.Close()
		_ = os.Remove(localPath)

		return err
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(localPath)
		return err
	}

	if sum := cw.Sum(); sum != file.CRC32 {
		_ = os.Remove(localPath)
		return &ErrCorruptArtifact{Name: file.Name, Expected: file.CRC32, Actual: sum}
	}

	return nil
}

// Manifest reads and validates the stored manifest of a run.
func (a *Archiver) Manifest(ctx context.Context, runID string) (*Manifest, error) {
	if err := validateRunID(runID); err != nil {
		return nil, err
	}

	blob, err := a.store.Open(ctx, runKey(runID, ManifestName))
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported manifest version: %d (expected %d)", m.Version, manifestVersion)
	}

	for _, f := range m.Files {
		// Artifact names are flat file names. Anything else would escape
		// the run prefix on fetch.
		if f.Name == "" || f.Name == "." || f.Name == ".." || strings.ContainsAny(f.Name, `/\`) {
			return nil, fmt.Errorf("manifest lists invalid artifact name %q", f.Name)
		}
	}

	return &m, nil
}

// Runs returns the ids of all archived runs, sorted. Only runs whose
// manifest upload completed are listed.
func (a *Archiver) Runs(ctx context.Context) ([]string, error) {
	names, err := a.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, name := range names {
		id, ok := strings.CutSuffix(name, "/"+ManifestName)
		if ok && !strings.Contains(id, "/") {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// Delete removes every blob of the run named runID. Deleting an unknown
// run is not an error.
func (a *Archiver) Delete(ctx context.Context, runID string) error {
	if err := validateRunID(runID); err != nil {
		return err
	}

	names, err := a.store.List(ctx, runID+"/")
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := a.store.Delete(ctx, name); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
	}

	return nil
}

func runKey(runID, name string) string {
	return path.Join(runID, name)
}

func validateRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return ErrInvalidRunID
	}
	return nil
}
