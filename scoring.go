package main

import (
	"math"
	"time"
)

// Final score composition, out of 100:
// quiz and finale contribute up to 40 points each, proportional to correct
// answers; the workshop and riddle stages contribute up to 10 points each,
// based on how fast the team finished them.
const (
	stagePointsMax = 40

	workshopTimePointsMax = 10
	workshopTargetSec     = 180
	workshopMaxSec        = 900

	riddleTimePointsMax = 10
	riddleTargetSec     = 240
	riddleMaxSec        = 1200
)

type scoreBreakdown struct {
	QuizPoints         int `json:"quizPoints"`
	FinalePoints       int `json:"finalePoints"`
	WorkshopTimePoints int `json:"workshopTimePoints"`
	RiddleTimePoints   int `json:"riddleTimePoints"`
}

type rawScores struct {
	QuizScore           int  `json:"quizScore"`
	QuizTotal           int  `json:"quizTotal"`
	FinaleScore         int  `json:"finaleScore"`
	FinaleTotal         int  `json:"finaleTotal"`
	WorkshopDurationSec *int `json:"workshopDurationSec"`
	RiddleDurationSec   *int `json:"riddleDurationSec"`
}

type finalResults struct {
	Total     int            `json:"total"`
	Breakdown scoreBreakdown `json:"breakdown"`
	Raw       rawScores      `json:"raw"`
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// durationSec returns the whole seconds between the two timestamps, floored
// at zero, or nil when either timestamp is missing.
func durationSec(startedAt, completedAt time.Time) *int {
	if startedAt.IsZero() || completedAt.IsZero() {
		return nil
	}
	d := max(0, int(completedAt.Sub(startedAt)/time.Second))
	return &d
}

// timePoints awards maxPoints up to targetSec, nothing from maxSec onwards,
// and interpolates linearly in between. Missing timestamps score zero.
func timePoints(startedAt, completedAt time.Time, maxPoints, targetSec, maxSec int) int {
	d := durationSec(startedAt, completedAt)
	if d == nil {
		return 0
	}

	switch {
	case *d <= targetSec:
		return maxPoints
	case *d >= maxSec:
		return 0
	}

	ratio := 1 - float64(*d-targetSec)/float64(maxSec-targetSec)
	ratio = math.Max(0, math.Min(1, ratio))
	return int(math.Round(ratio * float64(maxPoints)))
}

func proportionalPoints(score, total, maxPoints int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * float64(maxPoints)))
}

func buildFinalResults(st *sessionState) *finalResults {
	quizPoints := proportionalPoints(st.Quiz.Score, len(quizQuestions), stagePointsMax)
	finalePoints := proportionalPoints(st.Finale.Score, len(finaleQuestions), stagePointsMax)

	workshopTime := timePoints(st.Workshop.StartedAt, st.Workshop.CompletedAt,
		workshopTimePointsMax, workshopTargetSec, workshopMaxSec)
	riddleTime := timePoints(st.Riddles.StartedAt, st.Riddles.CompletedAt,
		riddleTimePointsMax, riddleTargetSec, riddleMaxSec)

	return &finalResults{
		Total: clamp(quizPoints+finalePoints+workshopTime+riddleTime, 0, 100),
		Breakdown: scoreBreakdown{
			QuizPoints:         quizPoints,
			FinalePoints:       finalePoints,
			WorkshopTimePoints: workshopTime,
			RiddleTimePoints:   riddleTime,
		},
		Raw: rawScores{
			QuizScore:           st.Quiz.Score,
			QuizTotal:           len(quizQuestions),
			FinaleScore:         st.Finale.Score,
			FinaleTotal:         len(finaleQuestions),
			WorkshopDurationSec: durationSec(st.Workshop.StartedAt, st.Workshop.CompletedAt),
			RiddleDurationSec:   durationSec(st.Riddles.StartedAt, st.Riddles.CompletedAt),
		},
	}
}
