package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/exam-sarathi/learning-service/internal/content"
	"github.com/exam-sarathi/learning-service/internal/models"
)

// JourneyService joins the static syllabus tree with a user's stored
// progress into the navigable journey view: which subjects are open,
// which chapter is current, and how far along everything is.
type JourneyService interface {
	GetExamJourney(ctx context.Context, userID, examID string) (*ExamJourney, error)
	GetSubjectJourney(ctx context.Context, userID, examID, subjectID string) (*SubjectJourney, error)
}

// ExamJourney is the full per-exam view returned to the client.
type ExamJourney struct {
	ExamID            string           `json:"examId"`
	ExamName          string           `json:"examName"`
	OverallPercentage int              `json:"overallPercentage"`
	Subjects          []SubjectJourney `json:"subjects"`
}

type SubjectJourney struct {
	SubjectID   string           `json:"subjectId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Unlocked    bool             `json:"unlocked"`
	Progress    SubjectProgress  `json:"progress"`
	Chapters    []ChapterJourney `json:"chapters"`
}

type ChapterJourney struct {
	ChapterID         string              `json:"chapterId"`
	Name              string              `json:"name"`
	Order             int                 `json:"order"`
	Topics            []string            `json:"topics"`
	Status            models.ChapterState `json:"status"`
	TutorialCompleted bool                `json:"tutorialCompleted"`
	TestsAttempted    int                 `json:"testsAttempted"`
	BestScore         int                 `json:"bestScore"`
	Stars             int                 `json:"stars"`
}

type journeyService struct {
	contentClient content.Client
	progress      ProgressService
	logger        *slog.Logger
	policy        ScoringPolicy
}

func NewJourneyService(contentClient content.Client, progress ProgressService, logger *slog.Logger) JourneyService {
	return &journeyService{
		contentClient: contentClient,
		progress:      progress,
		logger:        logger,
		policy:        DefaultScoringPolicy(),
	}
}

func (s *journeyService) GetExamJourney(ctx context.Context, userID, examID string) (*ExamJourney, error) {
	syllabus, progressByChapterID, err := s.load(ctx, userID, examID)
	if err != nil {
		return nil, err
	}

	journey := &ExamJourney{
		ExamID:            syllabus.ExamID,
		ExamName:          syllabus.ExamName,
		OverallPercentage: CalculateOverallExamProgress(syllabus, progressByChapterID),
		Subjects:          make([]SubjectJourney, 0, len(syllabus.Subjects)),
	}

	for i, subject := range syllabus.Subjects {
		view, err := s.buildSubject(syllabus.Subjects, progressByChapterID, i)
		if err != nil {
			return nil, fmt.Errorf("failed to build journey for subject %s: %w", subject.SubjectID, err)
		}
		journey.Subjects = append(journey.Subjects, *view)
	}
	return journey, nil
}

func (s *journeyService) GetSubjectJourney(ctx context.Context, userID, examID, subjectID string) (*SubjectJourney, error) {
	syllabus, progressByChapterID, err := s.load(ctx, userID, examID)
	if err != nil {
		return nil, err
	}

	for i, subject := range syllabus.Subjects {
		if subject.SubjectID == subjectID {
			return s.buildSubject(syllabus.Subjects, progressByChapterID, i)
		}
	}
	return nil, ErrContentNotFound
}

// load fetches the syllabus and all of the user's chapter records for the
// exam. A user with no stored progress is a valid fresh-start state, not
// an error.
func (s *journeyService) load(ctx context.Context, userID, examID string) (*models.Syllabus, map[string]*models.ChapterProgress, error) {
	syllabus, err := s.contentClient.GetSyllabus(ctx, examID)
	if err != nil {
		if content.IsNotFoundError(err) {
			return nil, nil, ErrContentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load syllabus: %w", err)
	}

	progressByChapterID, err := s.progress.ListChapterProgress(ctx, userID, examID)
	if err != nil {
		return nil, nil, err
	}
	return syllabus, progressByChapterID, nil
}

func (s *journeyService) buildSubject(subjects []models.SyllabusSubject, progressByChapterID map[string]*models.ChapterProgress, index int) (*SubjectJourney, error) {
	subject := subjects[index]
	view := &SubjectJourney{
		SubjectID:   subject.SubjectID,
		Name:        subject.Name,
		Description: subject.Description,
		Unlocked:    IsSubjectUnlocked(subjects, progressByChapterID, index),
		Progress:    CalculateSubjectProgress(subject, progressByChapterID),
		Chapters:    make([]ChapterJourney, 0, len(subject.Chapters)),
	}

	for i, chapter := range subject.Chapters {
		status, err := DeriveChapterStatus(subject.Chapters, progressByChapterID, i, s.policy)
		if err != nil {
			return nil, err
		}

		entry := ChapterJourney{
			ChapterID: chapter.ChapterID,
			Name:      chapter.Name,
			Order:     chapter.Order,
			Topics:    chapter.Topics,
			Status:    status,
		}
		if progress := progressByChapterID[chapter.ChapterID]; progress != nil {
			entry.TutorialCompleted = progress.TutorialCompleted
			entry.TestsAttempted = progress.TestsAttempted
			entry.BestScore = progress.BestScore
			entry.Stars = s.policy.Stars(progress.BestScore)
		}
		view.Chapters = append(view.Chapters, entry)
	}
	return view, nil
}
