package models

// TestAttemptResult is the scored outcome of one submitted test. It is
// computed on demand from a (questions, answers) pair and never persisted;
// results and solutions views re-derive it from the same inputs.
type TestAttemptResult struct {
	TotalQuestions      int  `json:"totalQuestions"`
	CorrectAnswers      int  `json:"correctAnswers"`
	IncorrectAnswers    int  `json:"incorrectAnswers"`
	UnansweredQuestions int  `json:"unansweredQuestions"`
	EarnedMarks         int  `json:"earnedMarks"`
	TotalMarks          int  `json:"totalMarks"`
	Percentage          int  `json:"percentage"`
	Passed              bool `json:"passed"`
	Stars               int  `json:"stars"`
}
