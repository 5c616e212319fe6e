package main

import "time"

// Timed stages step through LOADING→THINK→ANSWER→RESULT for each question,
// then END. The server broadcasts each phase once, with its start time and
// duration; clients render their own countdowns from that, so no per-tick
// traffic is needed. Remaining time is always recomputable from the phase
// record, which is what reconnecting clients get in their snapshot.

type phaseKind string

const (
	phaseIdle    phaseKind = "IDLE"
	phaseIntro   phaseKind = "INTRO"
	phaseLoading phaseKind = "LOADING"
	phaseThink   phaseKind = "THINK"
	phaseAnswer  phaseKind = "ANSWER"
	phaseResult  phaseKind = "RESULT"
	phaseEnd     phaseKind = "END"
)

type phaseDurations struct {
	Loading time.Duration
	Think   time.Duration
	Answer  time.Duration
	Result  time.Duration
}

var quizPhaseDurations = phaseDurations{
	Loading: 800 * time.Millisecond,
	Think:   10 * time.Second,
	Answer:  20 * time.Second,
	Result:  5 * time.Second,
}

var finalePhaseDurations = phaseDurations{
	Loading: 800 * time.Millisecond,
	Think:   10 * time.Second,
	Answer:  20 * time.Second,
	Result:  5 * time.Second,
}

func (d phaseDurations) of(kind phaseKind) time.Duration {
	switch kind {
	case phaseLoading:
		return d.Loading
	case phaseThink:
		return d.Think
	case phaseAnswer:
		return d.Answer
	case phaseResult:
		return d.Result
	}
	return 0
}

// phaseRecord is the authoritative description of the current phase.
type phaseRecord struct {
	Kind          phaseKind
	QuestionIndex int
	EnteredAt     time.Time
	Duration      time.Duration
}

func (p phaseRecord) remaining(now time.Time) time.Duration {
	if p.Duration == 0 {
		return 0
	}
	return max(0, p.Duration-now.Sub(p.EnteredAt))
}

func firstStep(d phaseDurations, now time.Time) phaseRecord {
	return phaseRecord{
		Kind:      phaseLoading,
		EnteredAt: now,
		Duration:  d.Loading,
	}
}

// nextStep is the pure phase transition function. Within a question the
// order is LOADING, THINK, ANSWER, RESULT; after the last question's RESULT
// the sequence terminates with END.
func nextStep(cur phaseRecord, questionCount int, d phaseDurations, now time.Time) phaseRecord {
	next := phaseRecord{QuestionIndex: cur.QuestionIndex, EnteredAt: now}

	switch cur.Kind {
	case phaseLoading:
		next.Kind = phaseThink
	case phaseThink:
		next.Kind = phaseAnswer
	case phaseAnswer:
		next.Kind = phaseResult
	case phaseResult:
		if cur.QuestionIndex+1 >= questionCount {
			next.Kind = phaseEnd
		} else {
			next.Kind = phaseLoading
			next.QuestionIndex = cur.QuestionIndex + 1
		}
	default:
		next.Kind = phaseEnd
	}

	next.Duration = d.of(next.Kind)
	return next
}

// runSchedule drives one timed stage to completion. It owns no session
// state: every step is posted into the hub loop, which applies it. A start
// handler's idempotency guard ensures at most one driver per stage, and an
// evicted hub stops its driver via the done channel. No phase is entered
// before the previous phase's full duration has elapsed.
func (h *Hub) runSchedule(stage string, questionCount int, d phaseDurations) {
	rec := firstStep(d, time.Now())

	for {
		select {
		case h.advances <- phaseAdvance{stage: stage, record: rec}:
		case <-h.done:
			return
		}

		if rec.Kind == phaseEnd {
			return
		}

		timer := time.NewTimer(rec.Duration)
		select {
		case <-timer.C:
		case <-h.done:
			timer.Stop()
			return
		}

		rec = nextStep(rec, questionCount, d, time.Now())
	}
}
