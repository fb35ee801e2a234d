package anim

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"binder/internal/engine/reorg"
)

// virtualClock records requested sleeps and lets the test observe the
// orchestrator's state at each suspension point.
type virtualClock struct {
	sleeps  []time.Duration
	onSleep func(n int)
}

func (c *virtualClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	if c.onSleep != nil {
		c.onSleep(len(c.sleeps))
	}
	return nil
}

func strptr(s string) *string { return &s }

func testDiff() *reorg.Diff {
	return &reorg.Diff{
		MovingDocIDs:      map[string]struct{}{"d1": {}, "d2": {}},
		DeletingFolderIDs: map[string]struct{}{"fG": {}},
		CreatingFolders:   []string{"Biology"},
		Moves: []reorg.DocumentMove{
			{DocumentID: "d1", TargetFolderID: strptr(reorg.PendingID("Biology"))},
			{DocumentID: "d2", TargetFolderID: nil},
		},
	}
}

func testConfig() Config {
	return Config{
		ExitDuration:  300 * time.Millisecond,
		EnterDuration: 250 * time.Millisecond,
		Stagger:       60 * time.Millisecond,
	}
}

func TestRunTimeline(t *testing.T) {
	clock := &virtualClock{}
	o := New(clock, testConfig())

	apply := func(context.Context) ([]string, error) {
		return []string{"folder-1"}, nil
	}

	tl, err := o.Run(context.Background(), testDiff(), apply)
	if err != nil {
		t.Fatalf("Run(): %v", err)
	}

	if !reflect.DeepEqual(tl.Exiting, []string{"d1", "d2", "fG"}) {
		t.Errorf("Exiting = %v", tl.Exiting)
	}

	wantEntries := []Entry{
		{ID: "folder-1", Delay: 0},
		{ID: "d1", Delay: 60 * time.Millisecond},
		{ID: "d2", Delay: 120 * time.Millisecond},
	}
	if !reflect.DeepEqual(tl.Entries, wantEntries) {
		t.Errorf("Entries = %v, want %v", tl.Entries, wantEntries)
	}

	// Exit delay, then last entrance delay plus entrance duration.
	wantSleeps := []time.Duration{300 * time.Millisecond, 370 * time.Millisecond}
	if !reflect.DeepEqual(clock.sleeps, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", clock.sleeps, wantSleeps)
	}
	if tl.Total != 670*time.Millisecond {
		t.Errorf("Total = %v, want 670ms", tl.Total)
	}

	if o.Phase() != PhaseIdle {
		t.Errorf("phase after run = %v, want idle", o.Phase())
	}
}

func TestRunPhaseSequencing(t *testing.T) {
	clock := &virtualClock{}
	o := New(clock, testConfig())

	var phaseAtExit, phaseAtEnter Phase
	var exitingAtExit, hiddenAtApply, enteringAtEnter bool

	clock.onSleep = func(n int) {
		switch n {
		case 1: // exit delay
			phaseAtExit = o.Phase()
			exitingAtExit = o.Exiting("d1") && o.Exiting("fG")
		case 2: // enter delay
			phaseAtEnter = o.Phase()
			enteringAtEnter = o.Entering("d1") && o.Entering("folder-1")
		}
	}

	apply := func(context.Context) ([]string, error) {
		// Moved items are hidden while mutations land, so they do not
		// replay the exit animation at their new location.
		hiddenAtApply = o.Hidden("d1") && o.Hidden("d2") && !o.Hidden("fG")
		if o.Phase() != PhaseApplying {
			t.Errorf("phase during apply = %v, want applying", o.Phase())
		}
		if o.Exiting("d1") {
			t.Error("d1 still exiting during apply")
		}
		return []string{"folder-1"}, nil
	}

	if _, err := o.Run(context.Background(), testDiff(), apply); err != nil {
		t.Fatalf("Run(): %v", err)
	}

	if phaseAtExit != PhaseExiting || !exitingAtExit {
		t.Errorf("exit phase: phase=%v exiting=%v", phaseAtExit, exitingAtExit)
	}
	if !hiddenAtApply {
		t.Error("moving docs not hidden (or deleting folder hidden) during apply")
	}
	if phaseAtEnter != PhaseEntering || !enteringAtEnter {
		t.Errorf("enter phase: phase=%v entering=%v", phaseAtEnter, enteringAtEnter)
	}
}

func TestRunFailOpenOnApplyError(t *testing.T) {
	clock := &virtualClock{}
	o := New(clock, testConfig())

	applyErr := errors.New("organizer backend down")
	_, err := o.Run(context.Background(), testDiff(), func(context.Context) ([]string, error) {
		return nil, applyErr
	})
	if !errors.Is(err, applyErr) {
		t.Fatalf("Run() err = %v, want %v", err, applyErr)
	}

	// Fail-open: nothing stays stuck in a transient state.
	for _, id := range []string{"d1", "d2", "fG", "folder-1"} {
		if o.Exiting(id) || o.Hidden(id) || o.Entering(id) {
			t.Errorf("item %s left in transient state after failure", id)
		}
	}
	if o.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", o.Phase())
	}
}

func TestRunEmptyEnterSkipsDelay(t *testing.T) {
	clock := &virtualClock{}
	o := New(clock, testConfig())

	d := &reorg.Diff{
		DeletingFolderIDs: map[string]struct{}{"fEmpty": {}},
	}

	tl, err := o.Run(context.Background(), d, func(context.Context) ([]string, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Run(): %v", err)
	}

	if len(tl.Entries) != 0 {
		t.Errorf("Entries = %v, want none", tl.Entries)
	}
	wantSleeps := []time.Duration{300 * time.Millisecond, 0}
	if !reflect.DeepEqual(clock.sleeps, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", clock.sleeps, wantSleeps)
	}
}

func TestRealClockHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RealClock{}.Sleep(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep() err = %v, want context.Canceled", err)
	}
}
