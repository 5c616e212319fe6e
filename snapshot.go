package main

import "time"

// The session snapshot is sent to every client on register and after each
// state change. Phase timing is expressed as start time plus duration plus
// remaining, all in milliseconds, so a reconnecting client can resume its
// countdown mid-phase.

type phaseSnapshot struct {
	Kind          phaseKind `json:"kind"`
	QuestionIndex int       `json:"questionIndex"`
	StartTime     int64     `json:"startTime"`
	Duration      int64     `json:"duration"`
	Remaining     int64     `json:"remaining"`
}

type timedStageSnapshot struct {
	Unlocked         bool          `json:"unlocked"`
	Started          bool          `json:"started"`
	Running          bool          `json:"running"`
	Phase            phaseSnapshot `json:"phase"`
	Score            int           `json:"score"`
	ChosenIndex      *int          `json:"chosenIndex"`
	CorrectIndex     *int          `json:"correctIndex"`
	Ended            bool          `json:"ended"`
	Success          bool          `json:"success"`
	ActivePlayerID   int64         `json:"activePlayerId,omitempty"`
	ActivePlayerName string        `json:"activePlayerName,omitempty"`
	StartedAt        *int64        `json:"startedAt,omitempty"`
	CompletedAt      *int64        `json:"completedAt,omitempty"`
}

type workshopSnapshot struct {
	Unlocked       bool               `json:"unlocked"`
	EntryOpened    bool               `json:"entryOpened"`
	IntroAccepted  bool               `json:"introAccepted"`
	WordEntries    []wordEntry        `json:"wordEntries,omitempty"`
	ValidatedWords []string           `json:"validatedWords,omitempty"`
	WordsSolved    bool               `json:"wordsSolved"`
	LeftItems      []puzzleItem       `json:"leftItems,omitempty"`
	RightItems     []puzzleItem       `json:"rightItems,omitempty"`
	Assignments    []puzzleAssignment `json:"assignments,omitempty"`
	Locks          map[string]bool    `json:"locks,omitempty"`
	PuzzleSolved   bool               `json:"puzzleSolved"`
	StartedAt      *int64             `json:"startedAt,omitempty"`
	CompletedAt    *int64             `json:"completedAt,omitempty"`
}

type riddlesSnapshot struct {
	Unlocked         bool           `json:"unlocked"`
	IntroAccepted    bool           `json:"introAccepted"`
	CurrentIndex     int            `json:"currentIndex"`
	Total            int            `json:"total"`
	Clue             string         `json:"clue,omitempty"`
	Completed        bool           `json:"completed"`
	Solved           []solvedRiddle `json:"solved,omitempty"`
	ActivePlayerID   int64          `json:"activePlayerId,omitempty"`
	ActivePlayerName string         `json:"activePlayerName,omitempty"`
	StartedAt        *int64         `json:"startedAt,omitempty"`
	CompletedAt      *int64         `json:"completedAt,omitempty"`
}

type sessionSnapshot struct {
	Type         string              `json:"type"` // "session_state"
	RoomCode     string              `json:"roomCode"`
	HasSession   bool                `json:"hasSession"`
	OwnerID      int64               `json:"ownerId,omitempty"`
	Players      []playerInfo        `json:"players,omitempty"`
	Quiz         *timedStageSnapshot `json:"quiz,omitempty"`
	Workshop     *workshopSnapshot   `json:"workshop,omitempty"`
	Riddles      *riddlesSnapshot    `json:"riddles,omitempty"`
	Finale       *timedStageSnapshot `json:"finale,omitempty"`
	FinalResults *finalResults       `json:"finalResults,omitempty"`
}

func unixMilliPtr(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func snapshotPhase(p phaseRecord, now time.Time) phaseSnapshot {
	return phaseSnapshot{
		Kind:          p.Kind,
		QuestionIndex: p.QuestionIndex,
		StartTime:     p.EnteredAt.UnixMilli(),
		Duration:      p.Duration.Milliseconds(),
		Remaining:     p.remaining(now).Milliseconds(),
	}
}

func snapshotTimedStage(s *timedStage, now time.Time) *timedStageSnapshot {
	return &timedStageSnapshot{
		Unlocked:         s.Unlocked,
		Started:          s.Started,
		Running:          s.Running,
		Phase:            snapshotPhase(s.Phase, now),
		Score:            s.Score,
		ChosenIndex:      s.Chosen,
		CorrectIndex:     s.Correct,
		Ended:            s.Ended,
		Success:          s.Success,
		ActivePlayerID:   s.ActivePlayerID,
		ActivePlayerName: s.ActivePlayerName,
		StartedAt:        unixMilliPtr(s.StartedAt),
		CompletedAt:      unixMilliPtr(s.CompletedAt),
	}
}

// snapshot builds the full session_state message. Called only from the hub
// loop, so reads are unsynchronized by construction.
func (h *Hub) snapshot() sessionSnapshot {
	snap := sessionSnapshot{
		Type:     "session_state",
		RoomCode: h.code,
	}

	st := h.state
	if st == nil {
		return snap
	}

	now := time.Now()

	snap.HasSession = true
	snap.OwnerID = st.OwnerID
	snap.Players = st.Players

	snap.Quiz = snapshotTimedStage(&st.Quiz, now)
	snap.Quiz.Unlocked = true
	snap.Finale = snapshotTimedStage(&st.Finale, now)

	w := &st.Workshop
	snap.Workshop = &workshopSnapshot{
		Unlocked:       w.Unlocked,
		EntryOpened:    w.EntryOpened,
		IntroAccepted:  w.IntroAccepted,
		WordEntries:    w.WordEntries,
		ValidatedWords: w.ValidatedWords,
		WordsSolved:    w.WordsSolved,
		LeftItems:      w.LeftItems,
		RightItems:     w.RightItems,
		Assignments:    w.Board.assignmentList(),
		Locks:          w.Board.Locks,
		PuzzleSolved:   w.Board.Solved,
		StartedAt:      unixMilliPtr(w.StartedAt),
		CompletedAt:    unixMilliPtr(w.CompletedAt),
	}

	r := &st.Riddles
	activeID, activeName := r.Turns.active()
	rs := &riddlesSnapshot{
		Unlocked:         r.Unlocked,
		IntroAccepted:    r.IntroAccepted,
		CurrentIndex:     r.CurrentIndex,
		Total:            len(riddleList),
		Completed:        r.Completed,
		Solved:           r.Solved,
		ActivePlayerID:   activeID,
		ActivePlayerName: activeName,
		StartedAt:        unixMilliPtr(r.StartedAt),
		CompletedAt:      unixMilliPtr(r.CompletedAt),
	}
	if r.Unlocked && !r.Completed && r.CurrentIndex < len(riddleList) {
		rs.Clue = riddleList[r.CurrentIndex].Clue
	}
	snap.Riddles = rs

	snap.FinalResults = st.Results

	return snap
}
