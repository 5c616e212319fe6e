package main

import (
	"testing"
	"time"
)

func TestPhaseDurationsOf(t *testing.T) {
	d := quizPhaseDurations

	cases := []struct {
		kind phaseKind
		want time.Duration
	}{
		{phaseLoading, 800 * time.Millisecond},
		{phaseThink, 10 * time.Second},
		{phaseAnswer, 20 * time.Second},
		{phaseResult, 5 * time.Second},
		{phaseEnd, 0},
		{phaseIntro, 0},
	}

	for _, c := range cases {
		if got := d.of(c.kind); got != c.want {
			t.Errorf("of(%s) = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestNextStepSequence(t *testing.T) {
	now := time.Now()
	d := quizPhaseDurations
	questionCount := 2

	rec := firstStep(d, now)
	if rec.Kind != phaseLoading || rec.QuestionIndex != 0 {
		t.Fatalf("firstStep = %s q%d, want LOADING q0", rec.Kind, rec.QuestionIndex)
	}

	wantSequence := []struct {
		kind          phaseKind
		questionIndex int
	}{
		{phaseThink, 0},
		{phaseAnswer, 0},
		{phaseResult, 0},
		{phaseLoading, 1},
		{phaseThink, 1},
		{phaseAnswer, 1},
		{phaseResult, 1},
		{phaseEnd, 1},
	}

	for i, want := range wantSequence {
		rec = nextStep(rec, questionCount, d, now)
		if rec.Kind != want.kind || rec.QuestionIndex != want.questionIndex {
			t.Fatalf("step %d: got %s q%d, want %s q%d",
				i, rec.Kind, rec.QuestionIndex, want.kind, want.questionIndex)
		}
		if rec.Duration != d.of(rec.Kind) {
			t.Errorf("step %d: duration = %v, want %v", i, rec.Duration, d.of(rec.Kind))
		}
	}
}

func TestNextStepTerminates(t *testing.T) {
	// from any phase, repeated stepping must reach END within one full
	// question cycle per question plus one
	now := time.Now()
	d := finalePhaseDurations

	rec := firstStep(d, now)
	for i := 0; i < len(finaleQuestions)*4+1; i++ {
		if rec.Kind == phaseEnd {
			return
		}
		rec = nextStep(rec, len(finaleQuestions), d, now)
	}

	t.Fatalf("schedule did not terminate, stuck at %s q%d", rec.Kind, rec.QuestionIndex)
}

func TestPhaseRemaining(t *testing.T) {
	entered := time.Now()
	rec := phaseRecord{
		Kind:      phaseAnswer,
		EnteredAt: entered,
		Duration:  20 * time.Second,
	}

	if got := rec.remaining(entered); got != 20*time.Second {
		t.Errorf("remaining at entry = %v, want 20s", got)
	}
	if got := rec.remaining(entered.Add(12 * time.Second)); got != 8*time.Second {
		t.Errorf("remaining mid-phase = %v, want 8s", got)
	}
	if got := rec.remaining(entered.Add(time.Minute)); got != 0 {
		t.Errorf("remaining past end = %v, want 0", got)
	}

	idle := phaseRecord{Kind: phaseIntro, EnteredAt: entered}
	if got := idle.remaining(entered.Add(time.Hour)); got != 0 {
		t.Errorf("remaining on untimed phase = %v, want 0", got)
	}
}
