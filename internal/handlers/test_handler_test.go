package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/exam-sarathi/learning-service/internal/middleware"
	"github.com/exam-sarathi/learning-service/internal/models"
	"github.com/exam-sarathi/learning-service/internal/services"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

// MockTestService is a mock implementation of services.TestService
type MockTestService struct {
	mock.Mock
}

func (m *MockTestService) GetTestPaper(ctx context.Context, examID, subjectID, chapterID string) (*models.TestPaper, error) {
	args := m.Called(ctx, examID, subjectID, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestPaper), args.Error(1)
}

func (m *MockTestService) SubmitTest(ctx context.Context, userID string, req *services.TestSubmissionRequest) (*models.TestAttemptResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestAttemptResult), args.Error(1)
}

func (m *MockTestService) RescoreTest(ctx context.Context, examID, subjectID, chapterID string, answers models.AnswerMap) (*models.TestAttemptResult, error) {
	args := m.Called(ctx, examID, subjectID, chapterID, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestAttemptResult), args.Error(1)
}

func newTestRouter(testService services.TestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewDefaultLogger()
	handler := NewTestHandler(testService, logger)

	router := gin.New()
	router.GET("/tests/:exam_id/:subject_id/:chapter_id", handler.GetTestPaper)

	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware(middleware.StaticAuthenticator{}, utils.ToSlogLogger(logger)))
	authed.POST("/tests/submit", handler.SubmitTest)
	authed.POST("/tests/rescore/:exam_id/:subject_id/:chapter_id", handler.RescoreTest)
	return router
}

func TestTestHandler_GetTestPaper_EmptyPaper(t *testing.T) {
	testService := &MockTestService{}
	testService.On("GetTestPaper", mock.Anything, "jee", "physics", "ch-9").
		Return(&models.TestPaper{ChapterID: "ch-9"}, nil)

	router := newTestRouter(testService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tests/jee/physics/ch-9", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["available"])
	assert.NotContains(t, body, "test")
}

func TestTestHandler_GetTestPaper_NotFound(t *testing.T) {
	testService := &MockTestService{}
	testService.On("GetTestPaper", mock.Anything, "jee", "physics", "ch-404").
		Return(nil, services.ErrContentNotFound)

	router := newTestRouter(testService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tests/jee/physics/ch-404", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTestHandler_SubmitTest_RequiresAuth(t *testing.T) {
	router := newTestRouter(&MockTestService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tests/submit", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTestHandler_SubmitTest(t *testing.T) {
	result := &models.TestAttemptResult{
		TotalQuestions: 3,
		CorrectAnswers: 2,
		Percentage:     67,
		Passed:         true,
		Stars:          1,
	}

	testService := &MockTestService{}
	testService.On("SubmitTest", mock.Anything, "user-1", mock.MatchedBy(func(req *services.TestSubmissionRequest) bool {
		return req.ExamID == "jee" && req.ChapterID == "ch-1"
	})).Return(result, nil)

	router := newTestRouter(testService)

	payload := `{
		"examId": "jee",
		"subjectId": "physics",
		"chapterId": "ch-1",
		"answers": {"0": 0, "1": 1, "2": null}
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tests/submit", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer user-1")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Recorded bool                     `json:"recorded"`
		Result   models.TestAttemptResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Recorded)
	assert.Equal(t, 67, body.Result.Percentage)

	testService.AssertExpectations(t)
}

func TestTestHandler_SubmitTest_NoQuestions(t *testing.T) {
	testService := &MockTestService{}
	testService.On("SubmitTest", mock.Anything, "user-1", mock.Anything).
		Return(nil, services.ErrNoQuestions)

	router := newTestRouter(testService)

	payload := `{"examId": "jee", "subjectId": "physics", "chapterId": "ch-9", "answers": {}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tests/submit", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer user-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTestHandler_RescoreTest_NoQuestions(t *testing.T) {
	testService := &MockTestService{}
	testService.On("RescoreTest", mock.Anything, "jee", "physics", "ch-9", mock.Anything).
		Return(nil, services.ErrNoQuestions)

	router := newTestRouter(testService)

	payload := `{"answers": {"0": 1}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tests/rescore/jee/physics/ch-9", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer user-1")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Content is not available yet", body.Message)
}
