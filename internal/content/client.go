package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/exam-sarathi/learning-service/internal/models"
)

// Content documents live behind a static file host and are addressed by
// path convention over exam/subject/chapter identifiers. The client is
// read-only: it fetches, validates shape, normalizes defaults and caches.

var (
	// ErrNotFound means the document does not exist at the repository.
	ErrNotFound = errors.New("content document not found")
)

// IsNotFoundError checks if error represents a missing content document.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Client reads content documents from the repository.
type Client interface {
	GetExamCatalog(ctx context.Context, level string) (*models.ExamCatalog, error)
	GetSyllabus(ctx context.Context, examID string) (*models.Syllabus, error)
	GetTutorial(ctx context.Context, examID, subjectID, chapterID string) (*models.Tutorial, error)
	GetTestPaper(ctx context.Context, examID, subjectID, chapterID string) (*models.TestPaper, error)
}

type httpClient struct {
	baseURL  string
	client   *http.Client
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewClient creates a content client over the repository at baseURL.
func NewClient(baseURL string, cache Cache, cacheTTL time.Duration, logger *slog.Logger) Client {
	if cache == nil {
		cache = NoopCache{}
	}
	return &httpClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 15 * time.Second},
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (c *httpClient) GetExamCatalog(ctx context.Context, level string) (*models.ExamCatalog, error) {
	path := fmt.Sprintf("exams/%s.json", level)

	var catalog models.ExamCatalog
	if err := c.fetch(ctx, path, &catalog); err != nil {
		return nil, err
	}
	if catalog.Level == "" {
		catalog.Level = level
	}
	return &catalog, nil
}

func (c *httpClient) GetSyllabus(ctx context.Context, examID string) (*models.Syllabus, error) {
	path := fmt.Sprintf("syllabi/%s-syllabus.json", examID)

	var syllabus models.Syllabus
	if err := c.fetch(ctx, path, &syllabus); err != nil {
		return nil, err
	}
	return &syllabus, nil
}

func (c *httpClient) GetTutorial(ctx context.Context, examID, subjectID, chapterID string) (*models.Tutorial, error) {
	path := fmt.Sprintf("tutorials/%s/%s/%s.json", examID, subjectID, chapterID)

	var tutorial models.Tutorial
	if err := c.fetch(ctx, path, &tutorial); err != nil {
		return nil, err
	}
	return &tutorial, nil
}

func (c *httpClient) GetTestPaper(ctx context.Context, examID, subjectID, chapterID string) (*models.TestPaper, error) {
	path := fmt.Sprintf("questions/%s/%s/%s/test-questions.json", examID, subjectID, chapterID)

	var paper models.TestPaper
	if err := c.fetch(ctx, path, &paper); err != nil {
		return nil, err
	}

	normalizeTestPaper(&paper)
	return &paper, nil
}

// fetch reads one document, preferring the cache. Any cache problem
// degrades to a direct origin read.
func (c *httpClient) fetch(ctx context.Context, path string, dest interface{}) error {
	if data, ok := c.cache.Get(ctx, cacheKey(path)); ok {
		if err := json.Unmarshal(data, dest); err == nil {
			return nil
		}
		c.logger.Warn("discarding undecodable cached document", "path", path)
	}

	data, err := c.get(ctx, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("content %s: malformed document: %w", path, err)
	}

	c.cache.Set(ctx, cacheKey(path), data, c.cacheTTL)
	return nil
}

func (c *httpClient) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content %s: fetch failed: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("content %s: %w", path, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("content %s: unexpected status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("content %s: reading body: %w", path, err)
	}
	return data, nil
}

func cacheKey(path string) string {
	return "content:" + path
}

// normalizeTestPaper fills the defaults the authoring side may omit:
// sequential question numbers, default marks and difficulty, and the
// paper-level totals.
func normalizeTestPaper(paper *models.TestPaper) {
	totalMarks := 0
	for i := range paper.Questions {
		q := &paper.Questions[i]
		if q.QuestionNumber == 0 {
			q.QuestionNumber = i + 1
		}
		if q.Marks <= 0 {
			q.Marks = models.DefaultQuestionMarks
		}
		if q.Difficulty == "" {
			q.Difficulty = models.DifficultyMedium
		}
		totalMarks += q.Marks
	}

	paper.TotalQuestions = len(paper.Questions)
	if paper.TotalMarks == 0 {
		paper.TotalMarks = totalMarks
	}
}
