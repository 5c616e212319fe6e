package main

import "errors"

var (
	errPuzzleSolved      = errors.New("puzzle already solved")
	errPuzzleLocked      = errors.New("left item already locked")
	errPuzzleUnknownItem = errors.New("unknown left item")
)

type puzzleItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type puzzleAssignment struct {
	LeftID  string `json:"leftId"`
	RightID string `json:"rightId"`
}

type puzzleDetail struct {
	LeftID          string `json:"leftId"`
	ExpectedRightID string `json:"expectedRightId"`
	ChosenRightID   string `json:"chosenRightId,omitempty"`
	Correct         bool   `json:"isCorrect"`
}

// puzzleBoard tracks a many-to-one matching assignment of left items (jobs)
// to right items (tools). Left and right sides of a correct pair share one
// id, so correctness is chosenRightID == leftID; labels never participate.
type puzzleBoard struct {
	leftIDs     []string
	Assignments map[string]string `json:"assignments"`
	Locks       map[string]bool   `json:"locks"`
	Solved      bool              `json:"solved"`
}

func newPuzzleBoard(pairs []pair) *puzzleBoard {
	b := &puzzleBoard{
		Assignments: make(map[string]string),
		Locks:       make(map[string]bool),
	}
	for _, p := range pairs {
		b.leftIDs = append(b.leftIDs, p.ID)
	}
	return b
}

func (b *puzzleBoard) total() int {
	return len(b.leftIDs)
}

func (b *puzzleBoard) lockedCount() int {
	n := 0
	for _, locked := range b.Locks {
		if locked {
			n++
		}
	}
	return n
}

func (b *puzzleBoard) knownLeft(leftID string) bool {
	for _, id := range b.leftIDs {
		if id == leftID {
			return true
		}
	}
	return false
}

// markSolved flips the board to solved and reports whether this call did the
// flipping, so the caller unlocks the next stage exactly once.
func (b *puzzleBoard) markSolved() bool {
	if b.Solved {
		return false
	}
	b.Solved = true
	return true
}

type puzzleBatchResult struct {
	Details      []puzzleDetail `json:"details"`
	CorrectCount int            `json:"correctCount"`
	Total        int            `json:"total"`
	Success      bool           `json:"success"`

	justSolved bool
}

// applyBatch grades a full (or partial) assignment submission. Only the
// submitted pairs are persisted; every correctly assigned left item locks.
func (b *puzzleBoard) applyBatch(assignments []puzzleAssignment) puzzleBatchResult {
	chosen := make(map[string]string)
	for _, a := range assignments {
		if a.LeftID == "" || a.RightID == "" {
			continue
		}
		chosen[a.LeftID] = a.RightID
	}

	result := puzzleBatchResult{Total: b.total()}
	next := make(map[string]string)

	for _, leftID := range b.leftIDs {
		rightID := chosen[leftID]
		detail := puzzleDetail{
			LeftID:          leftID,
			ExpectedRightID: leftID,
			ChosenRightID:   rightID,
			Correct:         rightID == leftID,
		}
		result.Details = append(result.Details, detail)

		if rightID != "" {
			next[leftID] = rightID
		}
		if detail.Correct {
			result.CorrectCount++
			b.Locks[leftID] = true
		}
	}

	b.Assignments = next
	result.Success = result.CorrectCount == result.Total

	if result.Success || b.lockedCount() == b.total() {
		result.justSolved = b.markSolved()
	}

	return result
}

type puzzleProgress struct {
	Assignments        []puzzleAssignment `json:"assignments"`
	Locks              map[string]bool    `json:"puzzleLocks"`
	LeftID             string             `json:"leftId"`
	RightID            string             `json:"rightId"`
	JustLocked         bool               `json:"justLocked"`
	IsCorrectSelection bool               `json:"isCorrectSelection"`
	CorrectCount       int                `json:"correctCount"`
	Total              int                `json:"total"`
	Success            bool               `json:"success"`

	justSolved bool
}

// applyChoice records a single left→right selection. An empty rightID clears
// the selection. A correct selection locks its left item; the board is
// solved the first time every left item is locked.
func (b *puzzleBoard) applyChoice(leftID, rightID string) (puzzleProgress, error) {
	if b.Solved {
		return puzzleProgress{}, errPuzzleSolved
	}
	if !b.knownLeft(leftID) {
		return puzzleProgress{}, errPuzzleUnknownItem
	}
	if b.Locks[leftID] {
		return puzzleProgress{}, errPuzzleLocked
	}

	if rightID == "" {
		delete(b.Assignments, leftID)
	} else {
		b.Assignments[leftID] = rightID
	}

	progress := puzzleProgress{
		LeftID:             leftID,
		RightID:            rightID,
		IsCorrectSelection: rightID != "" && rightID == leftID,
		Total:              b.total(),
	}

	if progress.IsCorrectSelection {
		b.Locks[leftID] = true
		progress.JustLocked = true
	}

	progress.CorrectCount = b.lockedCount()
	if progress.CorrectCount == b.total() {
		progress.Success = true
		progress.justSolved = b.markSolved()
	}

	progress.Assignments = b.assignmentList()
	progress.Locks = b.Locks

	return progress, nil
}

func (b *puzzleBoard) assignmentList() []puzzleAssignment {
	list := make([]puzzleAssignment, 0, len(b.Assignments))
	for _, leftID := range b.leftIDs {
		if rightID, ok := b.Assignments[leftID]; ok {
			list = append(list, puzzleAssignment{LeftID: leftID, RightID: rightID})
		}
	}
	return list
}
