// Escapade session orchestrator.
//
// One Hub per room code. Every connected socket belongs to exactly one hub;
// all session state mutation happens inside the hub's run loop, fed by
// channels, so handlers never race. Timed stages are driven by a scheduler
// goroutine that posts phase advances into the same loop.
//
// The four stages unlock strictly in order:
// quiz → workshop (words, then matching puzzle) → riddles → finale.

package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const ownerOnlyMessage = "Only the room owner can start this step."

type playerInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// timedStage holds the shared quiz/finale substate. The quiz ignores
// Unlocked (it is the entry stage); the finale ignores nothing.
type timedStage struct {
	Unlocked         bool
	Started          bool
	Running          bool
	Phase            phaseRecord
	Score            int
	Chosen           *int
	Correct          *int
	Ended            bool
	Success          bool
	StartedAt        time.Time
	CompletedAt      time.Time
	ActivePlayerID   int64
	ActivePlayerName string
}

type workshopState struct {
	Unlocked       bool
	EntryOpened    bool
	IntroAccepted  bool
	StartedAt      time.Time
	CompletedAt    time.Time
	WordInputs     []string
	WordEntries    []wordEntry
	ValidatedWords []string
	WordsSolved    bool
	Board          *puzzleBoard
	LeftItems      []puzzleItem
	RightItems     []puzzleItem
}

type solvedRiddle struct {
	RiddleID    int    `json:"riddleId"`
	Answer      string `json:"answer"`
	EnteredWord string `json:"enteredWord"`
	ByPlayerID  int64  `json:"byPlayerId"`
}

type riddlesState struct {
	Unlocked      bool
	IntroAccepted bool
	StartedAt     time.Time
	CompletedAt   time.Time
	CurrentIndex  int
	Turns         turnCoordinator
	Completed     bool
	Solved        []solvedRiddle
}

// sessionState is the orchestrator's complete mutable state for one room.
// Created on the first quiz start; the player snapshot never changes after
// that.
type sessionState struct {
	OwnerID  int64
	Players  []playerInfo
	Quiz     timedStage
	Workshop workshopState
	Riddles  riddlesState
	Finale   timedStage
	Results  *finalResults
}

func newSessionState(ownerID int64, players []playerInfo, now time.Time) *sessionState {
	left := make([]puzzleItem, 0, len(workshopPairs))
	right := make([]puzzleItem, 0, len(workshopPairs))
	for _, p := range workshopPairs {
		left = append(left, puzzleItem{ID: p.ID, Label: p.LeftLabel})
		right = append(right, puzzleItem{ID: p.ID, Label: p.RightLabel})
	}
	shuffleItems(right)

	return &sessionState{
		OwnerID: ownerID,
		Players: players,
		Quiz: timedStage{
			Phase: phaseRecord{Kind: phaseIntro, EnteredAt: now},
		},
		Workshop: workshopState{
			Board:      newPuzzleBoard(workshopPairs),
			LeftItems:  left,
			RightItems: right,
		},
		Riddles: riddlesState{
			Turns: newTurnCoordinator(players),
		},
		Finale: timedStage{
			Phase: phaseRecord{Kind: phaseIdle},
		},
	}
}

// Fisher-Yates shuffle using crypto/rand
func shuffleItems(items []puzzleItem) {
	for i := len(items) - 1; i > 0; i-- {
		var b [1]byte
		if _, err := rand.Read(b[:]); err != nil {
			continue
		}
		j := int(b[0]) % (i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type inboundEvent struct {
	client *Client
	msg    clientMessage
}

type phaseAdvance struct {
	stage  string // "quiz" or "finale"
	record phaseRecord
}

type Hub struct {
	code string
	cfg  *Config
	dir  Directory

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	events   chan inboundEvent
	advances chan phaseAdvance
	done     chan struct{}

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time

	matcher *wordMatcher
	state   *sessionState
}

func newHub(cfg *Config, dir Directory, code string) *Hub {
	now := time.Now()
	return &Hub{
		code:       code,
		cfg:        cfg,
		dir:        dir,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		events:     make(chan inboundEvent, 16),
		advances:   make(chan phaseAdvance, 4),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
		matcher:    newWordMatcher(workshopPairs),
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.touch()
			h.clients[c] = true

			// join → snapshot: a (re)connecting client always gets the
			// authoritative current state, whatever it missed.
			c.send <- h.snapshot()

		case c := <-h.unreg:
			h.touch()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case ev := <-h.events:
			h.touch()
			h.handleEvent(ev)

		case adv := <-h.advances:
			h.applyAdvance(adv)

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastActive
}

// broadcast fans a message out to every connected client. Sends are
// fire-and-forget; a client whose buffer is full is dropped and will
// resynchronize from the snapshot when it reconnects.
func (h *Hub) broadcast(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// reply sends to the requester only, used for every precondition failure.
func (h *Hub) reply(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastSnapshot() {
	h.broadcast(h.snapshot())
}

func (h *Hub) isOwner(playerID int64) bool {
	if playerID == 0 {
		return false
	}
	if h.state != nil {
		return h.state.OwnerID == playerID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	room, err := h.dir.Room(ctx, h.code)
	if err != nil || room == nil {
		return false
	}
	return room.OwnerID == playerID
}

func (h *Hub) denyOwnerOnly(c *Client) {
	h.reply(c, simpleMessage{Type: "owner_action_denied", Message: ownerOnlyMessage})
}

// handleEvent dispatches one inbound event. Unknown types and events whose
// preconditions fail are ignored or answered to the requester only; the
// loop itself never fails.
func (h *Hub) handleEvent(ev inboundEvent) {
	switch ev.msg.Type {
	case evStartQuiz:
		h.handleStartQuiz(ev)
	case evQuizIntroStart:
		h.handleQuizIntroStart(ev)
	case evQuizAnswer:
		h.handleQuizAnswer(ev)
	case evWorkshopEntryOpen:
		h.handleWorkshopGate(ev, "workshop_entry_opened", func(w *workshopState) { w.EntryOpened = true })
	case evWorkshopIntroStart:
		h.handleWorkshopGate(ev, "workshop_intro_started", func(w *workshopState) { w.IntroAccepted = true })
	case evWorkshopWords:
		h.handleWorkshopWords(ev)
	case evWorkshopPuzzle:
		h.handleWorkshopPuzzle(ev)
	case evWorkshopPuzzleChoice:
		h.handleWorkshopPuzzleChoice(ev)
	case evRiddlesIntroStart:
		h.handleRiddlesIntroStart(ev)
	case evRiddleWord:
		h.handleRiddleWord(ev)
	case evStartFinale:
		h.handleStartFinale(ev)
	case evFinaleAnswer:
		h.handleFinaleAnswer(ev)
	default:
		// ignore unknown types
	}
}

// handleStartQuiz creates the session. The player snapshot is taken here,
// once, from the directory; it stays immutable for the session's lifetime.
// A second start for an existing session is a no-op beyond resending the
// snapshot.
func (h *Hub) handleStartQuiz(ev inboundEvent) {
	if h.state != nil {
		h.reply(ev.client, h.snapshot())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	room, err := h.dir.Room(ctx, h.code)
	if err != nil {
		logf(h.cfg, "ROOMS: directory lookup for %q failed: %v", h.code, err)
		return
	}
	if room == nil {
		return
	}

	players, err := h.dir.PlayersForRoom(ctx, room.ID)
	if err != nil {
		logf(h.cfg, "ROOMS: player lookup for %q failed: %v", h.code, err)
		return
	}
	if len(players) == 0 {
		return
	}

	h.state = newSessionState(room.OwnerID, players, time.Now())
	logf(h.cfg, "ROOMS: Session started in %s with %d players", h.code, len(players))

	h.broadcast(simpleMessage{Type: "game_start"})
	h.broadcast(phaseMessage{
		Type:      "quiz_phase",
		Phase:     phaseIntro,
		StartTime: time.Now().UnixMilli(),
	})
	h.broadcastSnapshot()
}

func (h *Hub) handleQuizIntroStart(ev inboundEvent) {
	st := h.state
	if st == nil || st.Quiz.Ended {
		return
	}
	if st.Quiz.Phase.Kind != phaseIntro || st.Quiz.Running {
		return
	}
	if !h.isOwner(ev.msg.PlayerID) {
		h.denyOwnerOnly(ev.client)
		return
	}

	st.Quiz.Started = true
	st.Quiz.Running = true
	st.Quiz.StartedAt = time.Now()

	go h.runSchedule("quiz", len(quizQuestions), quizPhaseDurations)
}

// handleQuizAnswer records the room's chosen answer. The cutoff is the
// ANSWER phase itself: once the scheduler has moved the question to RESULT
// its correctness is already captured, and a late answer is ignored like
// any other stale message.
func (h *Hub) handleQuizAnswer(ev inboundEvent) {
	st := h.state
	if st == nil || st.Quiz.Ended || ev.msg.ChosenIndex == nil {
		return
	}
	if st.Quiz.Phase.Kind != phaseAnswer {
		return
	}

	st.Quiz.Chosen = ev.msg.ChosenIndex

	h.broadcast(answerResultMessage{
		Type:        "quiz_answer_result",
		ChosenIndex: st.Quiz.Chosen,
	})
	h.broadcastSnapshot()
}

func (h *Hub) handleWorkshopGate(ev inboundEvent, announce string, apply func(*workshopState)) {
	st := h.state
	if st == nil || !st.Workshop.Unlocked {
		return
	}
	if !h.isOwner(ev.msg.PlayerID) {
		h.denyOwnerOnly(ev.client)
		return
	}

	apply(&st.Workshop)
	h.broadcast(simpleMessage{Type: announce})
	h.broadcastSnapshot()
}

func (h *Hub) handleWorkshopWords(ev inboundEvent) {
	st := h.state
	if st == nil || !st.Workshop.Unlocked {
		h.reply(ev.client, wordsResultMessage{
			Type:  "workshop_words_result",
			Error: "workshop is not available yet",
		})
		return
	}

	validation := h.matcher.validateWords(ev.msg.Words)

	w := &st.Workshop
	w.WordInputs = make([]string, 0, len(validation.Entries))
	for _, entry := range validation.Entries {
		w.WordInputs = append(w.WordInputs, entry.Input)
	}
	w.WordEntries = validation.Entries
	w.EntryOpened = true
	w.IntroAccepted = true
	w.ValidatedWords = w.ValidatedWords[:0]
	for _, entry := range validation.Entries {
		if entry.Status == wordStatusValid {
			w.ValidatedWords = append(w.ValidatedWords, entry.Normalized)
		}
	}
	w.WordsSolved = validation.Success

	h.broadcast(wordsResultMessage{
		Type:              "workshop_words_result",
		Success:           validation.Success,
		Entries:           validation.Entries,
		ValidatedCount:    len(validation.MatchedPairIDs),
		MissingLeftLabels: validation.MissingLabels,
		CanStartPuzzle:    validation.Success,
		ValidatedWords:    w.ValidatedWords,
	})
	h.broadcastSnapshot()
}

func (h *Hub) handleWorkshopPuzzle(ev inboundEvent) {
	st := h.state
	if st == nil || !st.Workshop.Unlocked {
		h.reply(ev.client, puzzleResultMessage{
			Type:  "workshop_puzzle_result",
			Error: "workshop is not available yet",
		})
		return
	}
	if !st.Workshop.WordsSolved {
		h.reply(ev.client, puzzleResultMessage{
			Type:  "workshop_puzzle_result",
			Error: "all six words must be validated before the puzzle",
		})
		return
	}

	board := st.Workshop.Board
	if board.Solved {
		// duplicate submission after solve: acknowledge, change nothing
		h.reply(ev.client, puzzleResultMessage{
			Type: "workshop_puzzle_result",
			puzzleBatchResult: puzzleBatchResult{
				CorrectCount: board.total(),
				Total:        board.total(),
				Success:      true,
			},
		})
		return
	}

	result := board.applyBatch(ev.msg.Assignments)

	h.broadcast(puzzleResultMessage{
		Type:              "workshop_puzzle_result",
		puzzleBatchResult: result,
	})

	if result.justSolved {
		h.completeWorkshop()
	}
	h.broadcastSnapshot()
}

func (h *Hub) handleWorkshopPuzzleChoice(ev inboundEvent) {
	st := h.state
	if st == nil || !st.Workshop.Unlocked || !st.Workshop.WordsSolved {
		return
	}

	progress, err := st.Workshop.Board.applyChoice(ev.msg.LeftID, ev.msg.RightID)
	switch err {
	case nil:
	case errPuzzleLocked:
		h.reply(ev.client, puzzleProgressMessage{
			Type:  "workshop_puzzle_progress",
			Error: "that item is already locked in",
		})
		return
	default:
		// solved board or unknown left id: stale client state, ignore
		return
	}

	h.broadcast(puzzleProgressMessage{
		Type:           "workshop_puzzle_progress",
		puzzleProgress: progress,
	})

	if progress.justSolved {
		h.completeWorkshop()
	}
	h.broadcastSnapshot()
}

// completeWorkshop stamps the workshop and unlocks the riddle stage.
// Callers fire it only on the solve transition, so the unlock happens
// exactly once.
func (h *Hub) completeWorkshop() {
	st := h.state
	now := time.Now()

	st.Workshop.CompletedAt = now
	h.broadcast(simpleMessage{Type: "workshop_complete"})

	st.Riddles.Unlocked = true
	st.Riddles.IntroAccepted = false
	st.Riddles.StartedAt = now
	h.broadcast(simpleMessage{Type: "riddles_unlocked"})

	logf(h.cfg, "ROOMS: Workshop solved in %s", h.code)
}

func (h *Hub) handleRiddlesIntroStart(ev inboundEvent) {
	st := h.state
	if st == nil || !st.Riddles.Unlocked {
		return
	}
	if !h.isOwner(ev.msg.PlayerID) {
		h.denyOwnerOnly(ev.client)
		return
	}

	st.Riddles.IntroAccepted = true
	h.broadcast(simpleMessage{Type: "riddles_intro_started"})
	h.broadcastSnapshot()
}

func (h *Hub) handleRiddleWord(ev inboundEvent) {
	st := h.state
	if st == nil || !st.Riddles.Unlocked {
		h.reply(ev.client, riddleProgressMessage{
			Type:  "riddles_progress",
			Error: "riddles are not available yet",
		})
		return
	}

	r := &st.Riddles
	if r.Completed {
		h.reply(ev.client, riddleProgressMessage{
			Type:  "riddles_progress",
			Error: "riddles are already completed",
		})
		return
	}

	activeID, activeName := r.Turns.active()
	if !r.Turns.allowed(ev.msg.PlayerID) {
		h.reply(ev.client, riddleProgressMessage{
			Type:             "riddles_progress",
			Error:            fmt.Sprintf("It is not your turn. %s is up.", activeName),
			CurrentIndex:     r.CurrentIndex,
			Total:            len(riddleList),
			ActivePlayerID:   activeID,
			ActivePlayerName: activeName,
		})
		return
	}

	if r.CurrentIndex >= len(riddleList) {
		h.reply(ev.client, riddleProgressMessage{
			Type:  "riddles_progress",
			Error: "no riddle in progress",
		})
		return
	}
	current := riddleList[r.CurrentIndex]

	normalized := normalizeWord(ev.msg.Word)
	if !matchesAny(normalized, current.Accepted) {
		// a wrong word is shared with the room; the same player retries
		h.broadcast(riddleProgressMessage{
			Type:             "riddles_progress",
			CurrentIndex:     r.CurrentIndex,
			Total:            len(riddleList),
			Message:          "Wrong word, try again.",
			ActivePlayerID:   activeID,
			ActivePlayerName: activeName,
		})
		return
	}

	r.Solved = append(r.Solved, solvedRiddle{
		RiddleID:    current.ID,
		Answer:      current.Answer,
		EnteredWord: ev.msg.Word,
		ByPlayerID:  ev.msg.PlayerID,
	})

	if r.CurrentIndex == len(riddleList)-1 {
		r.Completed = true
		r.CompletedAt = time.Now()

		h.broadcast(riddleProgressMessage{
			Type:             "riddles_progress",
			Success:          true,
			Completed:        true,
			CurrentIndex:     r.CurrentIndex,
			Total:            len(riddleList),
			Message:          "Well done, all riddles solved.",
			ActivePlayerID:   activeID,
			ActivePlayerName: activeName,
		})
		h.broadcast(simpleMessage{Type: "riddles_complete"})

		st.Finale.Unlocked = true
		h.broadcast(simpleMessage{Type: "finale_unlocked"})

		logf(h.cfg, "ROOMS: Riddles completed in %s", h.code)
		h.broadcastSnapshot()
		return
	}

	r.CurrentIndex++
	r.IntroAccepted = true
	r.Turns.advance()
	nextID, nextName := r.Turns.active()

	h.broadcast(riddleProgressMessage{
		Type:             "riddles_progress",
		Success:          true,
		CurrentIndex:     r.CurrentIndex,
		Total:            len(riddleList),
		Message:          "Correct. Next riddle.",
		ActivePlayerID:   nextID,
		ActivePlayerName: nextName,
	})
	h.broadcastSnapshot()
}

func (h *Hub) handleStartFinale(ev inboundEvent) {
	st := h.state
	if st == nil || !st.Finale.Unlocked || st.Finale.Started {
		return
	}
	if !h.isOwner(ev.msg.PlayerID) {
		h.denyOwnerOnly(ev.client)
		return
	}

	st.Finale.Started = true
	st.Finale.Running = true
	st.Finale.StartedAt = time.Now()
	st.Finale.Ended = false
	st.Finale.Score = 0
	st.Finale.Chosen = nil
	st.Finale.Correct = nil

	h.broadcast(simpleMessage{Type: "finale_started"})
	h.broadcastSnapshot()

	go h.runSchedule("finale", len(finaleQuestions), finalePhaseDurations)
}

// handleFinaleAnswer is the turn-gated variant: only the round-robin
// responder for the current question may answer, and only during ANSWER.
func (h *Hub) handleFinaleAnswer(ev inboundEvent) {
	st := h.state
	if st == nil || !st.Finale.Started || st.Finale.Ended || ev.msg.ChosenIndex == nil {
		return
	}
	if st.Finale.Phase.Kind != phaseAnswer {
		return
	}
	if ev.msg.PlayerID != st.Finale.ActivePlayerID {
		h.reply(ev.client, simpleMessage{
			Type:    "not_your_turn",
			Message: fmt.Sprintf("It is not your turn. %s is up.", st.Finale.ActivePlayerName),
		})
		return
	}

	st.Finale.Chosen = ev.msg.ChosenIndex

	h.broadcast(answerResultMessage{
		Type:        "finale_answer_result",
		ChosenIndex: st.Finale.Chosen,
	})
	h.broadcastSnapshot()
}

// applyAdvance applies one scheduler step to the session inside the loop.
func (h *Hub) applyAdvance(adv phaseAdvance) {
	st := h.state
	if st == nil {
		return
	}

	var (
		stage     *timedStage
		questions []question
		msgPrefix string
	)
	switch adv.stage {
	case "quiz":
		stage, questions, msgPrefix = &st.Quiz, quizQuestions, "quiz"
	case "finale":
		stage, questions, msgPrefix = &st.Finale, finaleQuestions, "finale"
	default:
		return
	}

	stage.Phase = adv.record

	msg := phaseMessage{
		Type:          msgPrefix + "_phase",
		Phase:         adv.record.Kind,
		QuestionIndex: adv.record.QuestionIndex,
		Duration:      adv.record.Duration.Milliseconds(),
		StartTime:     adv.record.EnteredAt.UnixMilli(),
	}

	switch adv.record.Kind {
	case phaseLoading:
		stage.Chosen = nil
		stage.Correct = nil
		stage.ActivePlayerID = 0
		stage.ActivePlayerName = ""

		q := questions[adv.record.QuestionIndex]
		h.broadcast(msg)
		h.broadcast(questionMessage{
			Type:         msgPrefix + "_question",
			QuestionText: q.Text,
			Answers:      q.Answers,
			ImageURL:     q.ImageURL,
		})

	case phaseThink:
		h.broadcast(msg)

	case phaseAnswer:
		// fixed round-robin: the responder for question i is players[i mod n]
		responder := st.Players[adv.record.QuestionIndex%len(st.Players)]
		stage.ActivePlayerID = responder.ID
		stage.ActivePlayerName = responder.FirstName

		msg.ActivePlayerID = responder.ID
		msg.ActivePlayerName = responder.FirstName
		h.broadcast(msg)

	case phaseResult:
		q := questions[adv.record.QuestionIndex]
		correct := q.CorrectIndex
		stage.Correct = &correct
		if stage.Chosen != nil && *stage.Chosen == correct {
			stage.Score++
		}

		msg.CorrectIndex = &correct
		h.broadcast(msg)
		h.broadcast(answerResultMessage{
			Type:         msgPrefix + "_answer_result",
			ChosenIndex:  stage.Chosen,
			CorrectIndex: &correct,
		})

	case phaseEnd:
		h.endTimedStage(adv.stage, stage, len(questions))
	}

	h.broadcastSnapshot()
}

// success requires a majority of the questions answered correctly
func successThreshold(total int) int {
	return total/2 + 1
}

func (h *Hub) endTimedStage(stageName string, stage *timedStage, total int) {
	st := h.state

	stage.Ended = true
	stage.Running = false
	stage.Success = stage.Score >= successThreshold(total)
	stage.CompletedAt = time.Now()

	logf(h.cfg, "ROOMS: %s ended in %s with score %d/%d", stageName, h.code, stage.Score, total)

	if stageName == "quiz" {
		h.broadcast(stageEndMessage{
			Type:    "quiz_end",
			Score:   stage.Score,
			Total:   total,
			Success: stage.Success,
		})

		st.Workshop.Unlocked = true
		st.Workshop.EntryOpened = false
		st.Workshop.IntroAccepted = false
		st.Workshop.StartedAt = time.Now()
		h.broadcast(simpleMessage{Type: "workshop_unlocked"})
		return
	}

	st.Results = buildFinalResults(st)
	h.broadcast(stageEndMessage{
		Type:         "finale_end",
		Score:        stage.Score,
		Total:        total,
		Success:      stage.Success,
		FinalResults: st.Results,
	})
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.events <- inboundEvent{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// closeAll disconnects all clients of this hub. Called only from the run
// loop, on shutdown, so the clients map stays loop-owned like every other
// access.
func (h *Hub) closeAll() {
	for c := range h.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, c)
	}
}
