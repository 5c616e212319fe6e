package main

// clientMessage is the single typed schema for inbound events. Every event
// carries only the fields its type needs; everything else stays zero.
type clientMessage struct {
	Type        string             `json:"type"`
	PlayerID    int64              `json:"playerId,omitempty"`
	ChosenIndex *int               `json:"chosenIndex,omitempty"`
	Words       []string           `json:"words,omitempty"`
	Assignments []puzzleAssignment `json:"assignments,omitempty"`
	LeftID      string             `json:"leftId,omitempty"`
	RightID     string             `json:"rightId,omitempty"`
	Word        string             `json:"word,omitempty"`
}

// Inbound event types.
const (
	evStartQuiz            = "start_quiz"
	evQuizIntroStart       = "quiz_intro_start"
	evQuizAnswer           = "quiz_answer"
	evWorkshopEntryOpen    = "workshop_entry_open"
	evWorkshopIntroStart   = "workshop_intro_start"
	evWorkshopWords        = "workshop_words"
	evWorkshopPuzzle       = "workshop_puzzle"
	evWorkshopPuzzleChoice = "workshop_puzzle_choice"
	evRiddlesIntroStart    = "riddles_intro_start"
	evRiddleWord           = "riddle_word"
	evStartFinale          = "start_finale"
	evFinaleAnswer         = "finale_answer"
)

// SimpleMessage is for generic notifications ("workshop_unlocked",
// "owner_action_denied", etc.)
type simpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// phaseMessage announces a phase change for a timed stage. Clients derive
// their local countdown from StartTime and Duration.
type phaseMessage struct {
	Type             string    `json:"type"` // "quiz_phase" or "finale_phase"
	Phase            phaseKind `json:"phase"`
	QuestionIndex    int       `json:"questionIndex"`
	Duration         int64     `json:"duration"`  // milliseconds
	StartTime        int64     `json:"startTime"` // unix milliseconds
	ActivePlayerID   int64     `json:"activePlayerId,omitempty"`
	ActivePlayerName string    `json:"activePlayerName,omitempty"`
	CorrectIndex     *int      `json:"correctIndex,omitempty"`
}

// questionMessage carries question content without its correct index.
type questionMessage struct {
	Type         string   `json:"type"` // "quiz_question" or "finale_question"
	QuestionText string   `json:"questionText"`
	Answers      []string `json:"answers"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

type answerResultMessage struct {
	Type         string `json:"type"` // "quiz_answer_result" or "finale_answer_result"
	ChosenIndex  *int   `json:"chosenIndex"`
	CorrectIndex *int   `json:"correctIndex"`
}

type stageEndMessage struct {
	Type         string        `json:"type"` // "quiz_end" or "finale_end"
	Score        int           `json:"score"`
	Total        int           `json:"total"`
	Success      bool          `json:"success"`
	FinalResults *finalResults `json:"finalResults,omitempty"`
}

type wordsResultMessage struct {
	Type              string      `json:"type"` // "workshop_words_result"
	Success           bool        `json:"success"`
	Error             string      `json:"error,omitempty"`
	Entries           []wordEntry `json:"entries,omitempty"`
	ValidatedCount    int         `json:"validatedCount"`
	MissingLeftLabels []string    `json:"missingLeftLabels,omitempty"`
	CanStartPuzzle    bool        `json:"canStartPuzzle"`
	ValidatedWords    []string    `json:"validatedWords,omitempty"`
}

type puzzleResultMessage struct {
	Type string `json:"type"` // "workshop_puzzle_result"
	puzzleBatchResult
	Error string `json:"error,omitempty"`
}

type puzzleProgressMessage struct {
	Type string `json:"type"` // "workshop_puzzle_progress"
	puzzleProgress
	Error string `json:"error,omitempty"`
}

type riddleProgressMessage struct {
	Type             string `json:"type"` // "riddles_progress"
	Success          bool   `json:"success"`
	Completed        bool   `json:"completed"`
	CurrentIndex     int    `json:"currentIndex"`
	Total            int    `json:"total"`
	Message          string `json:"message,omitempty"`
	Error            string `json:"error,omitempty"`
	ActivePlayerID   int64  `json:"activePlayerId,omitempty"`
	ActivePlayerName string `json:"activePlayerName,omitempty"`
}
