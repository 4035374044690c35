package models

import (
	"time"
)

// ExamProgress is one per (user, exam). It owns the exam's chapter records;
// neither is ever deleted by the service.
type ExamProgress struct {
	ID             uint       `json:"-" gorm:"primaryKey"`
	UserID         string     `json:"userId" gorm:"not null;size:128;uniqueIndex:idx_exam_progress_user_exam"`
	ExamID         string     `json:"examId" gorm:"not null;size:64;uniqueIndex:idx_exam_progress_user_exam"`
	ExamName       string     `json:"examName" gorm:"size:200"`
	StartedAt      *time.Time `json:"startedAt"`
	LastAccessedAt *time.Time `json:"lastAccessedAt"`
	TotalTimeSpent int        `json:"totalTimeSpent" gorm:"not null;default:0"` // minutes
}

func (ExamProgress) TableName() string {
	return "exam_progress"
}

// ChapterProgress is one per (user, exam, chapter). Counters only ever
// increment and BestScore only ever rises; LastAttempt fields are
// last-write-wins. All timestamps are assigned by the database.
type ChapterProgress struct {
	ID                  uint       `json:"-" gorm:"primaryKey"`
	UserID              string     `json:"userId" gorm:"not null;size:128;uniqueIndex:idx_chapter_progress_key"`
	ExamID              string     `json:"examId" gorm:"not null;size:64;uniqueIndex:idx_chapter_progress_key"`
	ChapterID           string     `json:"chapterId" gorm:"not null;size:64;uniqueIndex:idx_chapter_progress_key"`
	ChapterName         string     `json:"chapterName" gorm:"size:200"`
	SubjectID           string     `json:"subjectId" gorm:"not null;size:64;index"`
	TutorialCompleted   bool       `json:"tutorialCompleted" gorm:"not null;default:false"`
	TutorialCompletedAt *time.Time `json:"tutorialCompletedAt"`
	TestsAttempted      int        `json:"testsAttempted" gorm:"not null;default:0"`
	BestScore           int        `json:"bestScore" gorm:"not null;default:0"`       // percentage 0-100
	LastAttemptScore    int        `json:"lastAttemptScore" gorm:"not null;default:0"` // percentage 0-100
	LastAttemptAt       *time.Time `json:"lastAttemptAt"`
	TimeSpent           int        `json:"timeSpent" gorm:"not null;default:0"` // minutes
	Notes               string     `json:"notes" gorm:"type:text"`
}

func (ChapterProgress) TableName() string {
	return "chapter_progress"
}

// ChapterState is the derived unlock state of a chapter within its subject.
type ChapterState string

const (
	ChapterLocked    ChapterState = "locked"
	ChapterCurrent   ChapterState = "current"
	ChapterCompleted ChapterState = "completed"
)

// ActivityType distinguishes recent-activity events.
type ActivityType string

const (
	ActivityTutorial ActivityType = "tutorial"
	ActivityTest     ActivityType = "test"
)

// ActivityEvent is a derived feed entry; never persisted.
type ActivityEvent struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	ExamID      string       `json:"examId"`
	ExamName    string       `json:"examName"`
	ChapterID   string       `json:"chapterId"`
	ChapterName string       `json:"chapterName"`
	Score       int          `json:"score,omitempty"`
	Stars       int          `json:"stars,omitempty"`
	Date        *time.Time   `json:"date"`
}

// UserStatistics aggregates a user's activity across all exams.
type UserStatistics struct {
	TotalExams             int `json:"totalExams"`
	TotalChaptersCompleted int `json:"totalChaptersCompleted"`
	TotalTestsAttempted    int `json:"totalTestsAttempted"`
	AverageScore           int `json:"averageScore"`
	TotalStudyTime         int `json:"totalStudyTime"` // minutes
	ThreeStarTests         int `json:"threeStarTests"`
}
