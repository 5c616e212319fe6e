package main

import (
	"errors"
	"testing"
)

func identityAssignments() []puzzleAssignment {
	out := make([]puzzleAssignment, 0, len(workshopPairs))
	for _, p := range workshopPairs {
		out = append(out, puzzleAssignment{LeftID: p.ID, RightID: p.ID})
	}
	return out
}

func TestApplyBatchAllCorrect(t *testing.T) {
	b := newPuzzleBoard(workshopPairs)

	result := b.applyBatch(identityAssignments())

	if !result.Success {
		t.Fatal("expected success for the identity assignment")
	}
	if result.CorrectCount != len(workshopPairs) {
		t.Errorf("correct count = %d, want %d", result.CorrectCount, len(workshopPairs))
	}
	if !result.justSolved {
		t.Error("first solving batch must report justSolved")
	}
	if !b.Solved {
		t.Error("board must be solved")
	}
}

func TestApplyBatchWrongPermutation(t *testing.T) {
	b := newPuzzleBoard(workshopPairs)

	// rotate every right id by one: all assignments present, none correct
	assignments := identityAssignments()
	for i := range assignments {
		assignments[i].RightID = assignments[(i+1)%len(assignments)].LeftID
	}

	result := b.applyBatch(assignments)

	if result.Success || result.justSolved || b.Solved {
		t.Fatal("rotated permutation must not solve the board")
	}
	if result.CorrectCount != 0 {
		t.Errorf("correct count = %d, want 0", result.CorrectCount)
	}
	if len(b.Assignments) != len(workshopPairs) {
		t.Errorf("persisted %d assignments, want %d", len(b.Assignments), len(workshopPairs))
	}
	if b.lockedCount() != 0 {
		t.Errorf("locked %d items, want 0", b.lockedCount())
	}
}

func TestApplyBatchPartialLocks(t *testing.T) {
	b := newPuzzleBoard(workshopPairs)

	partial := []puzzleAssignment{
		{LeftID: "web-dev", RightID: "web-dev"},
		{LeftID: "ux-designer", RightID: "backend-dev"},
	}

	result := b.applyBatch(partial)

	if result.Success {
		t.Fatal("partial submission must not succeed")
	}
	if result.CorrectCount != 1 {
		t.Errorf("correct count = %d, want 1", result.CorrectCount)
	}
	if !b.Locks["web-dev"] {
		t.Error("correct assignment must lock its left item")
	}
	if b.Locks["ux-designer"] {
		t.Error("wrong assignment must not lock")
	}
}

func TestApplyChoiceLifecycle(t *testing.T) {
	b := newPuzzleBoard(workshopPairs)

	// wrong selection: recorded, not locked
	progress, err := b.applyChoice("web-dev", "backend-dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.IsCorrectSelection || progress.JustLocked {
		t.Error("wrong selection must not lock")
	}
	if b.Assignments["web-dev"] != "backend-dev" {
		t.Error("selection must be recorded")
	}

	// clearing with an empty right id
	if _, err := b.applyChoice("web-dev", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.Assignments["web-dev"]; ok {
		t.Error("empty right id must clear the selection")
	}

	// correct selection locks
	progress, err = b.applyChoice("web-dev", "web-dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !progress.IsCorrectSelection || !progress.JustLocked {
		t.Error("correct selection must lock")
	}

	// locked items reject further choices
	if _, err := b.applyChoice("web-dev", "ux-designer"); !errors.Is(err, errPuzzleLocked) {
		t.Errorf("got %v, want errPuzzleLocked", err)
	}

	// unknown left id
	if _, err := b.applyChoice("nonsense", "web-dev"); !errors.Is(err, errPuzzleUnknownItem) {
		t.Errorf("got %v, want errPuzzleUnknownItem", err)
	}
}

func TestApplyChoiceSolvesOnLastLock(t *testing.T) {
	b := newPuzzleBoard(workshopPairs)

	for i, p := range workshopPairs {
		progress, err := b.applyChoice(p.ID, p.ID)
		if err != nil {
			t.Fatalf("choice %d: %v", i, err)
		}

		last := i == len(workshopPairs)-1
		if progress.Success != last {
			t.Errorf("choice %d: success = %t, want %t", i, progress.Success, last)
		}
		if progress.justSolved != last {
			t.Errorf("choice %d: justSolved = %t, want %t", i, progress.justSolved, last)
		}
	}

	if !b.Solved {
		t.Fatal("board must be solved after all items locked")
	}
	if _, err := b.applyChoice("web-dev", "web-dev"); !errors.Is(err, errPuzzleSolved) {
		t.Errorf("got %v, want errPuzzleSolved", err)
	}
}

func TestMarkSolvedOnce(t *testing.T) {
	b := newPuzzleBoard(workshopPairs)

	if !b.markSolved() {
		t.Error("first markSolved must report the transition")
	}
	if b.markSolved() {
		t.Error("second markSolved must not report the transition")
	}
}
