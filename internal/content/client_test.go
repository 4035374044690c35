package content

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exam-sarathi/learning-service/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryCache is a trivial in-process Cache for asserting cache behavior.
type memoryCache struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.store[key]
	return data, ok
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	m.sets++
}

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestClient_GetSyllabus(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/syllabi/jee-syllabus.json": `{
			"examId": "jee",
			"examName": "JEE Main",
			"subjects": [
				{"subjectId": "physics", "name": "Physics", "chapters": [
					{"chapterId": "ch-1", "name": "Kinematics", "order": 1},
					{"chapterId": "ch-2", "name": "Laws of Motion", "order": 2}
				]}
			]
		}`,
	})
	defer server.Close()

	client := NewClient(server.URL, nil, time.Minute, discardLogger())

	syllabus, err := client.GetSyllabus(context.Background(), "jee")
	require.NoError(t, err)

	assert.Equal(t, "jee", syllabus.ExamID)
	require.Len(t, syllabus.Subjects, 1)
	assert.Len(t, syllabus.Subjects[0].Chapters, 2)
	assert.Equal(t, 2, syllabus.TotalChapters())
}

func TestClient_MissingDocumentIsNotFound(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	client := NewClient(server.URL, nil, time.Minute, discardLogger())

	_, err := client.GetSyllabus(context.Background(), "unknown")
	assert.True(t, IsNotFoundError(err))
}

func TestClient_ServerErrorIsNotNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, time.Minute, discardLogger())

	// A failing repository must stay distinguishable from a missing
	// document; callers branch on that difference.
	_, err := client.GetTestPaper(context.Background(), "jee", "physics", "ch-1")
	require.Error(t, err)
	assert.False(t, IsNotFoundError(err))
}

func TestClient_MalformedDocument(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/tutorials/jee/physics/ch-1.json": `{"chapterId": "ch-1", "slides": [`,
	})
	defer server.Close()

	client := NewClient(server.URL, nil, time.Minute, discardLogger())

	_, err := client.GetTutorial(context.Background(), "jee", "physics", "ch-1")
	require.Error(t, err)
	assert.False(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "malformed")
}

func TestClient_GetTestPaper_EmptyQuestionsIsValid(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/questions/jee/physics/ch-9/test-questions.json": `{
			"examId": "jee", "subjectId": "physics", "chapterId": "ch-9",
			"questions": []
		}`,
	})
	defer server.Close()

	client := NewClient(server.URL, nil, time.Minute, discardLogger())

	// An authored-but-empty paper is a valid document, not an error.
	paper, err := client.GetTestPaper(context.Background(), "jee", "physics", "ch-9")
	require.NoError(t, err)
	assert.Empty(t, paper.Questions)
	assert.Equal(t, 0, paper.TotalQuestions)
}

func TestClient_GetTestPaper_Normalization(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/questions/jee/physics/ch-1/test-questions.json": `{
			"examId": "jee", "subjectId": "physics", "chapterId": "ch-1",
			"questions": [
				{"questionText": "q1", "options": ["a","b"], "correctAnswer": 0},
				{"questionNumber": 7, "questionText": "q2", "options": ["a","b"], "correctAnswer": 1, "marks": 4, "difficulty": "hard"}
			]
		}`,
	})
	defer server.Close()

	client := NewClient(server.URL, nil, time.Minute, discardLogger())

	paper, err := client.GetTestPaper(context.Background(), "jee", "physics", "ch-1")
	require.NoError(t, err)

	require.Len(t, paper.Questions, 2)
	assert.Equal(t, 1, paper.Questions[0].QuestionNumber)
	assert.Equal(t, models.DefaultQuestionMarks, paper.Questions[0].Marks)
	assert.Equal(t, models.DifficultyMedium, paper.Questions[0].Difficulty)

	assert.Equal(t, 7, paper.Questions[1].QuestionNumber)
	assert.Equal(t, 4, paper.Questions[1].Marks)
	assert.Equal(t, models.DifficultyHard, paper.Questions[1].Difficulty)

	assert.Equal(t, 2, paper.TotalQuestions)
	assert.Equal(t, models.DefaultQuestionMarks+4, paper.TotalMarks)
}

func TestClient_CachesFetchedDocuments(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"examId": "jee", "examName": "JEE Main", "subjects": []}`))
	}))
	defer server.Close()

	cache := newMemoryCache()
	client := NewClient(server.URL, cache, time.Minute, discardLogger())

	_, err := client.GetSyllabus(context.Background(), "jee")
	require.NoError(t, err)
	_, err = client.GetSyllabus(context.Background(), "jee")
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, cache.sets)
}

func TestClient_GetExamCatalog_FillsLevel(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/exams/undergraduate.json": `{"exams": [{"id": "jee", "name": "JEE Main", "popular": true}]}`,
	})
	defer server.Close()

	client := NewClient(server.URL, nil, time.Minute, discardLogger())

	catalog, err := client.GetExamCatalog(context.Background(), "undergraduate")
	require.NoError(t, err)
	assert.Equal(t, "undergraduate", catalog.Level)
	require.Len(t, catalog.Exams, 1)
	assert.True(t, catalog.Exams[0].Popular)
}
