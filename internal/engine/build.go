package engine

import (
	"fmt"
	"log/slog"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/discovery"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/refs"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/shared"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/snapshot"
)

// Paths locates the inputs and the snapshot of a run on the local disk.
type Paths struct {
	Root     string
	Config   string
	Snapshot string
}

// NewOS wires an engine for profile p against the local filesystem.
func NewOS(p Profile, paths Paths, dopts discovery.Options, logger *slog.Logger) (*Engine, Options, error) {
	rootFS, err := shared.RootFS(paths.Root)
	if err != nil {
		return nil, Options{}, fmt.Errorf("rule root: %w", err)
	}
	disc, err := discovery.New(p.Strategy, rootFS, dopts)
	if err != nil {
		return nil, Options{}, err
	}

	cfgFS, cfgName := shared.FileFS(paths.Config)
	snapFS, snapName := shared.FileFS(paths.Snapshot)

	e := &Engine{
		Profile:    p,
		Discoverer: disc,
		References: refs.Source{FS: cfgFS, Path: cfgName, Format: p.ConfigFormat},
		Store:      snapshot.NewStore(snapFS, snapName),
		Logger:     logger,
	}
	opts := Options{
		Root:        ".",
		RootLabel:   paths.Root,
		ConfigLabel: paths.Config,
	}
	return e, opts, nil
}
