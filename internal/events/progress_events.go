package events

import (
	"time"
)

// ProgressEventType identifies the progress stream event kinds.
type ProgressEventType string

const (
	EventTutorialCompleted ProgressEventType = "tutorial.completed"
	EventTestSubmitted     ProgressEventType = "test.submitted"
	EventExamStarted       ProgressEventType = "exam.started"
)

// ProgressEvent is the envelope published to the progress topic after a
// successful progress-store write. Consumers (notifications, analytics)
// live outside this service.
type ProgressEvent struct {
	ID        string            `json:"id"`
	Type      ProgressEventType `json:"type"`
	Source    string            `json:"source"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`

	UserID    string `json:"user_id"`
	ExamID    string `json:"exam_id"`
	SubjectID string `json:"subject_id,omitempty"`
	ChapterID string `json:"chapter_id,omitempty"`

	// Test submissions only
	Score  *int  `json:"score,omitempty"`
	Passed *bool `json:"passed,omitempty"`
	Stars  *int  `json:"stars,omitempty"`
}
