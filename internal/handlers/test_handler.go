package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exam-sarathi/learning-service/internal/models"
	"github.com/exam-sarathi/learning-service/internal/services"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

type TestHandler struct {
	BaseHandler
	testService services.TestService
}

func NewTestHandler(testService services.TestService, logger utils.Logger) *TestHandler {
	return &TestHandler{
		BaseHandler: NewBaseHandler(logger),
		testService: testService,
	}
}

// RescoreRequest re-runs scoring for a saved answer map.
type RescoreRequest struct {
	Answers models.AnswerMap `json:"answers"`
}

// GetTestPaper returns one chapter's test. A paper that exists but has
// no questions yet comes back as available=false with a 200, which is a
// different condition from the paper being missing (404) or the content
// repository failing (500).
func (h *TestHandler) GetTestPaper(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	subjectID := ParseStringIDParam(c, "subject_id")
	chapterID := ParseStringIDParam(c, "chapter_id")
	if examID == "" || subjectID == "" || chapterID == "" {
		return
	}

	h.LogRequest(c, "Getting test paper", "exam_id", examID, "chapter_id", chapterID)

	paper, err := h.testService.GetTestPaper(c.Request.Context(), examID, subjectID, chapterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if len(paper.Questions) == 0 {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": true, "test": paper})
}

// SubmitTest scores a finished sitting and records the attempt. When the
// result was computed but could not be stored, the result still goes back
// to the client with recorded=false so the sitting is not lost.
func (h *TestHandler) SubmitTest(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req services.TestSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting test", "exam_id", req.ExamID, "chapter_id", req.ChapterID)

	result, err := h.testService.SubmitTest(c.Request.Context(), userID, &req)
	if err != nil {
		if services.IsWriteFailure(err) && result != nil {
			c.JSON(http.StatusOK, gin.H{"recorded": false, "result": result})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": true, "result": result})
}

// RescoreTest recomputes a result without touching progress.
func (h *TestHandler) RescoreTest(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	subjectID := ParseStringIDParam(c, "subject_id")
	chapterID := ParseStringIDParam(c, "chapter_id")
	if examID == "" || subjectID == "" || chapterID == "" {
		return
	}

	var req RescoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.testService.RescoreTest(c.Request.Context(), examID, subjectID, chapterID, req.Answers)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
