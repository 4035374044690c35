package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates the progress store's per-record repositories.
type Repository interface {
	Exam() ExamProgressRepository
	Chapter() ChapterProgressRepository
}

// ChapterKey identifies one chapter progress record.
type ChapterKey struct {
	UserID    string
	ExamID    string
	ChapterID string
}

// ChapterMeta carries the immutable identifiers written on first creation
// of a chapter record.
type ChapterMeta struct {
	ChapterName string
	SubjectID   string
}

// IsNotFoundError checks if error represents a record-not-found condition
// from the underlying store.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
