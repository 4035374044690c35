package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/exam-sarathi/learning-service/internal/models"
	"github.com/exam-sarathi/learning-service/internal/repositories"
)

// ReportService renders a user's progress into downloadable files. The
// report is a snapshot of stored progress only; it never touches the
// content repository.
type ReportService interface {
	ExportProgressToExcel(ctx context.Context, userID string) ([]byte, error)
	ExportProgressToCSV(ctx context.Context, userID string) ([]byte, error)
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	policy ScoringPolicy
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
		policy: DefaultScoringPolicy(),
	}
}

var progressReportHeaders = []string{
	"Exam", "Subject", "Chapter", "Tutorial Completed", "Tests Attempted",
	"Best Score", "Last Score", "Stars", "Result", "Time Spent (minutes)",
}

func (s *reportService) ExportProgressToExcel(ctx context.Context, userID string) ([]byte, error) {
	exams, chaptersByExamID, err := s.loadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Progress"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range progressReportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	rowNum := 2
	for _, exam := range exams {
		for _, chapter := range chaptersByExamID[exam.ExamID] {
			for colIndex, value := range s.chapterRow(exam, chapter) {
				cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowNum)
				f.SetCellValue(sheetName, cell, value)
			}
			rowNum++
		}
	}

	s.writeSummarySheet(f, exams, chaptersByExamID)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Progress report exported",
		"user_id", userID,
		"format", "xlsx",
		"rows", rowNum-2)

	return buf.Bytes(), nil
}

func (s *reportService) ExportProgressToCSV(ctx context.Context, userID string) ([]byte, error) {
	exams, chaptersByExamID, err := s.loadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(progressReportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, exam := range exams {
		for _, chapter := range chaptersByExamID[exam.ExamID] {
			record := make([]string, 0, len(progressReportHeaders))
			for _, value := range s.chapterRow(exam, chapter) {
				record = append(record, fmt.Sprintf("%v", value))
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return []byte(buf.String()), nil
}

func (s *reportService) loadProgress(ctx context.Context, userID string) ([]*models.ExamProgress, map[string][]*models.ChapterProgress, error) {
	exams, err := s.repo.Exam().ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exam progress: %w", err)
	}

	chapters, err := s.repo.Chapter().ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list chapter progress: %w", err)
	}

	chaptersByExamID := make(map[string][]*models.ChapterProgress)
	for _, chapter := range chapters {
		chaptersByExamID[chapter.ExamID] = append(chaptersByExamID[chapter.ExamID], chapter)
	}
	return exams, chaptersByExamID, nil
}

func (s *reportService) chapterRow(exam *models.ExamProgress, chapter *models.ChapterProgress) []interface{} {
	result := "Not Attempted"
	if chapter.TestsAttempted > 0 {
		if chapter.BestScore >= s.policy.PassPercent {
			result = "Pass"
		} else {
			result = "Fail"
		}
	}

	return []interface{}{
		exam.ExamName,
		chapter.SubjectID,
		chapter.ChapterName,
		strconv.FormatBool(chapter.TutorialCompleted),
		chapter.TestsAttempted,
		chapter.BestScore,
		chapter.LastAttemptScore,
		s.policy.Stars(chapter.BestScore),
		result,
		chapter.TimeSpent,
	}
}

func (s *reportService) writeSummarySheet(f *excelize.File, exams []*models.ExamProgress, chaptersByExamID map[string][]*models.ChapterProgress) {
	stats := AggregateStatistics(exams, chaptersByExamID, s.policy)

	sheetName := "Summary"
	if _, err := f.NewSheet(sheetName); err != nil {
		return
	}

	rows := [][]interface{}{
		{"Exams Started", stats.TotalExams},
		{"Chapters Completed", stats.TotalChaptersCompleted},
		{"Tests Attempted", stats.TotalTestsAttempted},
		{"Average Score", stats.AverageScore},
		{"Three-Star Tests", stats.ThreeStarTests},
		{"Study Time (minutes)", stats.TotalStudyTime},
	}
	for i, row := range rows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", i+1), row[1])
	}
}
