// Package anim sequences the three reorganization phases: exit of affected
// items, structural apply, and staggered re-entry. It owns only the
// sequencing contract and the transient per-item visual state, not how
// movement is rendered.
package anim

import (
	"context"
	"sort"
	"sync"
	"time"

	"binder/internal/engine/reorg"
)

// Phase of one reorganization run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseExiting
	PhaseApplying
	PhaseEntering
)

func (p Phase) String() string {
	switch p {
	case PhaseExiting:
		return "exiting"
	case PhaseApplying:
		return "applying"
	case PhaseEntering:
		return "entering"
	default:
		return "idle"
	}
}

// Clock abstracts awaited delays so tests can fast-forward a virtual clock
// instead of sleeping.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on the wall clock, honoring context cancellation.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Config carries the phase timings.
type Config struct {
	ExitDuration  time.Duration
	EnterDuration time.Duration
	// Stagger is the fixed per-item increment applied to each entering
	// item so simultaneous insertions cascade instead of popping in.
	Stagger time.Duration
}

// ApplyFunc executes the structural mutations of the apply phase and
// returns the ids of any newly created folders.
type ApplyFunc func(ctx context.Context) ([]string, error)

// Entry is one staggered reveal in the enter phase.
type Entry struct {
	ID    string        `json:"id"`
	Delay time.Duration `json:"delay"`
}

// Timeline is the sequencing record of one completed run, for callers that
// render the cascade client-side.
type Timeline struct {
	Exiting []string      `json:"exiting"`
	Entries []Entry       `json:"entries"`
	Total   time.Duration `json:"total"`
}

// Orchestrator runs reorganization phases and tracks the transient visual
// state of every affected item. Safe for concurrent readers while a run is
// in flight.
type Orchestrator struct {
	clock Clock
	cfg   Config

	mu       sync.Mutex
	phase    Phase
	exiting  map[string]struct{}
	hidden   map[string]struct{}
	entering map[string]struct{}
}

// New creates an orchestrator. A nil clock uses the wall clock.
func New(clock Clock, cfg Config) *Orchestrator {
	if clock == nil {
		clock = RealClock{}
	}
	return &Orchestrator{clock: clock, cfg: cfg}
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Exiting reports whether the item is currently marked exiting.
func (o *Orchestrator) Exiting(id string) bool { return o.inSet(id, &o.exiting) }

// Hidden reports whether the item is held invisible between its exit and
// its re-entry, so it does not replay the exit animation at its new spot.
func (o *Orchestrator) Hidden(id string) bool { return o.inSet(id, &o.hidden) }

// Entering reports whether the item is currently marked entering.
func (o *Orchestrator) Entering(id string) bool { return o.inSet(id, &o.entering) }

func (o *Orchestrator) inSet(id string, set *map[string]struct{}) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := (*set)[id]
	return ok
}

// Run drives one reorganization: exit of moving and deleting items, the
// structural apply, then the staggered entrance of created folders and
// moved documents. Each phase is a precondition for the next. All
// transient sets are cleared on every outcome, success or failure, so no
// item is left stuck in an exiting or hidden state.
func (o *Orchestrator) Run(ctx context.Context, d *reorg.Diff, apply ApplyFunc) (*Timeline, error) {
	defer o.reset()

	exitingIDs := affectedIDs(d)
	o.setPhase(PhaseExiting, func() {
		o.exiting = idSet(exitingIDs)
	})
	if err := o.clock.Sleep(ctx, o.cfg.ExitDuration); err != nil {
		return nil, err
	}

	o.setPhase(PhaseApplying, func() {
		o.exiting = nil
		o.hidden = idSet(movingIDs(d))
	})
	createdIDs, err := apply(ctx)
	if err != nil {
		return nil, err
	}

	enterIDs := append(append([]string(nil), createdIDs...), movingIDs(d)...)
	entries := make([]Entry, len(enterIDs))
	for i, id := range enterIDs {
		entries[i] = Entry{ID: id, Delay: time.Duration(i) * o.cfg.Stagger}
	}

	o.setPhase(PhaseEntering, func() {
		o.hidden = nil
		o.entering = idSet(enterIDs)
	})

	// The enter phase completes once the last item's entrance has played.
	var enterTotal time.Duration
	if len(entries) > 0 {
		enterTotal = entries[len(entries)-1].Delay + o.cfg.EnterDuration
	}
	if err := o.clock.Sleep(ctx, enterTotal); err != nil {
		return nil, err
	}

	return &Timeline{
		Exiting: exitingIDs,
		Entries: entries,
		Total:   o.cfg.ExitDuration + enterTotal,
	}, nil
}

func (o *Orchestrator) setPhase(p Phase, update func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phase = p
	if update != nil {
		update()
	}
}

func (o *Orchestrator) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phase = PhaseIdle
	o.exiting = nil
	o.hidden = nil
	o.entering = nil
}

// affectedIDs lists every id that exits: moving documents in payload order,
// then deleting folders.
func affectedIDs(d *reorg.Diff) []string {
	ids := movingIDs(d)
	deleting := make([]string, 0, len(d.DeletingFolderIDs))
	for id := range d.DeletingFolderIDs {
		deleting = append(deleting, id)
	}
	sort.Strings(deleting)
	return append(ids, deleting...)
}

// movingIDs lists the effective move ids in payload order.
func movingIDs(d *reorg.Diff) []string {
	ids := make([]string, 0, len(d.Moves))
	for _, mv := range d.Moves {
		ids = append(ids, mv.DocumentID)
	}
	return ids
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
