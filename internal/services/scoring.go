package services

import (
	"fmt"
	"math"

	"github.com/exam-sarathi/learning-service/internal/models"
)

// ScoringPolicy holds the grading thresholds. Current content is uniform, so
// every caller uses DefaultScoringPolicy, but the thresholds are carried as
// data so they can vary per exam without touching the engine.
type ScoringPolicy struct {
	PassPercent  int // minimum percentage to pass
	OneStar      int
	TwoStar      int
	ThreeStar    int
	DefaultMarks int // marks assumed when a question omits them
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		PassPercent:  60,
		OneStar:      60,
		TwoStar:      70,
		ThreeStar:    85,
		DefaultMarks: models.DefaultQuestionMarks,
	}
}

// Stars maps a percentage score to a 0-3 star rating. This is the only
// score-to-stars mapping in the service; chapter cards, results and
// solutions all go through it.
func (p ScoringPolicy) Stars(score int) int {
	switch {
	case score >= p.ThreeStar:
		return 3
	case score >= p.TwoStar:
		return 2
	case score >= p.OneStar:
		return 1
	default:
		return 0
	}
}

// ScoreTest grades a submitted attempt. It is a pure function: identical
// (questions, answers, policy) inputs always produce an identical result,
// so results and solutions views can re-derive the same numbers after a
// reload instead of relying on an in-memory handoff.
//
// An answer index outside [0, len(questions)) is a caller bug and fails
// loudly with ErrInvalidAnswerState.
func ScoreTest(questions []models.Question, answers models.AnswerMap, policy ScoringPolicy) (*models.TestAttemptResult, error) {
	for idx := range answers {
		if idx < 0 || idx >= len(questions) {
			return nil, fmt.Errorf("%w: answer index %d outside [0,%d)", ErrInvalidAnswerState, idx, len(questions))
		}
	}

	result := &models.TestAttemptResult{
		TotalQuestions: len(questions),
	}

	for i, question := range questions {
		marks := question.Marks
		if marks <= 0 {
			marks = policy.DefaultMarks
		}
		result.TotalMarks += marks

		selected, answered := answers[i]
		if !answered || selected == nil {
			continue
		}
		if *selected == question.CorrectAnswer {
			result.CorrectAnswers++
			result.EarnedMarks += marks
		} else {
			result.IncorrectAnswers++
		}
	}

	result.UnansweredQuestions = result.TotalQuestions - result.CorrectAnswers - result.IncorrectAnswers
	result.Percentage = percentageOf(result.EarnedMarks, result.TotalMarks)
	result.Passed = result.Percentage >= policy.PassPercent
	result.Stars = policy.Stars(result.Percentage)

	return result, nil
}

// percentageOf rounds earned/total to an integer percentage, 0 on an empty
// denominator.
func percentageOf(earned, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(earned) / float64(total) * 100))
}
