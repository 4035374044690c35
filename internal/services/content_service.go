package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/exam-sarathi/learning-service/internal/content"
	"github.com/exam-sarathi/learning-service/internal/models"
)

// ContentService exposes the read-only study material: exam catalogs,
// syllabi and tutorial decks. Test papers live on TestService because
// they participate in the scoring flow.
type ContentService interface {
	GetExamCatalog(ctx context.Context, level string) (*models.ExamCatalog, error)
	GetSyllabus(ctx context.Context, examID string) (*models.Syllabus, error)
	GetTutorial(ctx context.Context, examID, subjectID, chapterID string) (*models.Tutorial, error)
}

type contentService struct {
	client content.Client
	logger *slog.Logger
}

func NewContentService(client content.Client, logger *slog.Logger) ContentService {
	return &contentService{client: client, logger: logger}
}

func (s *contentService) GetExamCatalog(ctx context.Context, level string) (*models.ExamCatalog, error) {
	catalog, err := s.client.GetExamCatalog(ctx, level)
	if err != nil {
		if content.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load exam catalog: %w", err)
	}
	return catalog, nil
}

func (s *contentService) GetSyllabus(ctx context.Context, examID string) (*models.Syllabus, error) {
	syllabus, err := s.client.GetSyllabus(ctx, examID)
	if err != nil {
		if content.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load syllabus: %w", err)
	}
	return syllabus, nil
}

func (s *contentService) GetTutorial(ctx context.Context, examID, subjectID, chapterID string) (*models.Tutorial, error) {
	tutorial, err := s.client.GetTutorial(ctx, examID, subjectID, chapterID)
	if err != nil {
		if content.IsNotFoundError(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load tutorial: %w", err)
	}
	if len(tutorial.Slides) == 0 {
		return nil, ErrEmptyContent
	}
	return tutorial, nil
}
