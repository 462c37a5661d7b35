// Package engine runs the audit pipeline: discover, diff against the
// snapshot, match against configuration, report, persist.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/discovery"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/drift"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/match"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/refs"
	"github.com/faktore-git/fe-skeleton-coding-standards/internal/reporting"
)

// Stage is a pipeline state. The pipeline is linear:
// start → discovering → discovered → diffing → matching → reporting →
// (persisting | dry_run_skipped) → done, or failed from any fallible stage.
type Stage string

const (
	StageStart         Stage = "start"
	StageDiscovering   Stage = "discovering"
	StageDiscovered    Stage = "discovered"
	StageDiffing       Stage = "diffing"
	StageMatching      Stage = "matching"
	StageReporting     Stage = "reporting"
	StagePersisting    Stage = "persisting"
	StageDryRunSkipped Stage = "dry_run_skipped"
	StageDone          Stage = "done"
	StageFailed        Stage = "failed"
)

// StageError is a fatal failure and the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// ReferenceSource yields the enabled references of the project configuration.
type ReferenceSource interface {
	References() ([]string, error)
}

// SnapshotStore loads and persists the baseline registry.
type SnapshotStore interface {
	Path() string
	Load() (*ir.Snapshot, error)
	Persist(reg *ir.Registry) error
}

// Options are the per-run knobs.
type Options struct {
	ID              string // run id, generated when empty
	Root            string // directory handed to the discoverer
	RootLabel       string // root as shown in reports, defaults to Root
	ConfigLabel     string // configuration path as shown in reports
	DryRun          bool   // never touch the snapshot file
	DeferPersist    bool   // leave the snapshot write to Commit
	RevealAll       bool
	RevealUnmatched bool
}

// Console derives the console sections for these options under profile p.
func (o Options) Console(p Profile) reporting.ConsoleOptions {
	return reporting.ConsoleOptions{
		CountRules:      p.CountRules,
		RevealAll:       o.RevealAll,
		RevealMetadata:  p.RevealMetadata,
		RevealUnmatched: o.RevealUnmatched,
	}
}

// Engine wires the pipeline components. References may be nil, which is
// handled like a missing configuration file.
type Engine struct {
	Profile    Profile
	Discoverer discovery.Discoverer
	References ReferenceSource
	Store      SnapshotStore
	Logger     *slog.Logger

	trace   []Stage
	pending *ir.Registry
}

// Stage is the current pipeline state.
func (e *Engine) Stage() Stage {
	if len(e.trace) == 0 {
		return StageStart
	}
	return e.trace[len(e.trace)-1]
}

// Trace lists the stages of the last run in order.
func (e *Engine) Trace() []Stage { return append([]Stage(nil), e.trace...) }

func (e *Engine) enter(s Stage) {
	e.trace = append(e.trace, s)
	e.logger().Debug("stage", "profile", e.Profile.Name, "stage", string(s))
}

func (e *Engine) fail(err error) error {
	stage := e.Stage()
	e.enter(StageFailed)
	return &StageError{Stage: stage, Err: err}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Run executes one audit. On error no result is produced and the snapshot
// file is left as it was. With DeferPersist the run stops in the reporting
// stage until Commit is called.
func (e *Engine) Run(opts Options) (reporting.Result, error) {
	log := e.logger()
	e.trace = nil
	e.pending = nil
	e.enter(StageStart)

	e.enter(StageDiscovering)
	reg, diags, err := e.Discoverer.Discover(opts.Root)
	if err != nil {
		return reporting.Result{}, e.fail(err)
	}
	for _, w := range diags.Warnings {
		log.Warn("skipping rule file", "err", w)
	}
	for _, p := range diags.Skipped {
		log.Debug("excluded rule set", "path", p)
	}
	e.enter(StageDiscovered)
	log.Info("rules discovered", "profile", e.Profile.Name, "count", reg.Len())

	e.enter(StageDiffing)
	prev, err := e.Store.Load()
	if err != nil {
		return reporting.Result{}, e.fail(err)
	}
	d := drift.Diff(reg, prev)
	if d.Baseline {
		log.Info("drift", "added", len(d.Added), "removed", len(d.Removed))
	} else {
		log.Info("no previous snapshot, recording baseline", "snapshot", e.Store.Path())
	}

	e.enter(StageMatching)
	m, err := e.match(reg)
	if err != nil {
		return reporting.Result{}, e.fail(err)
	}

	e.enter(StageReporting)
	res := reporting.Build(reg, d, m)
	res.ID = opts.ID
	if res.ID == "" {
		res.ID = "run-" + uuid.NewString()
	}
	res.Variant = e.Profile.Name
	res.Root = opts.RootLabel
	if res.Root == "" {
		res.Root = opts.Root
	}
	res.Config = opts.ConfigLabel
	res.Warnings = append(res.Warnings, diags.Messages()...)
	res.Snapshot.Path = e.Store.Path()

	switch {
	case opts.DryRun:
		e.enter(StageDryRunSkipped)
		res.Snapshot.DryRun = true
	case opts.DeferPersist:
		// Written reports the outcome of a successful Commit.
		e.pending = reg
		res.Snapshot.Written = true
		return res, nil
	default:
		e.enter(StagePersisting)
		if err := e.Store.Persist(reg); err != nil {
			return reporting.Result{}, e.fail(err)
		}
		res.Snapshot.Written = true
	}
	e.enter(StageDone)
	return res, nil
}

// Commit persists the registry of a Run made with DeferPersist. It is a
// no-op when nothing is pending.
func (e *Engine) Commit() error {
	if e.pending == nil {
		return nil
	}
	reg := e.pending
	e.pending = nil
	e.enter(StagePersisting)
	if err := e.Store.Persist(reg); err != nil {
		return e.fail(err)
	}
	e.enter(StageDone)
	return nil
}

func (e *Engine) match(reg *ir.Registry) (match.Report, error) {
	if e.References == nil {
		return match.Skipped(reg, e.Profile.Policy), nil
	}
	list, err := e.References.References()
	if err != nil {
		var nf *refs.ConfigNotFoundError
		if errors.As(err, &nf) {
			e.logger().Warn("configuration not found, skipping matching", "path", nf.Path)
			return match.Skipped(reg, e.Profile.Policy), nil
		}
		return match.Report{}, err
	}
	m := match.Match(reg, list, e.Profile.Policy)
	for _, ref := range m.UnmatchedReferences {
		e.logger().Debug("reference matches no rule", "reference", ref)
	}
	return m, nil
}
