package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exam-sarathi/learning-service/internal/services"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
	validator       *utils.Validator
}

func NewProgressHandler(
	progressService services.ProgressService,
	validator *utils.Validator,
	logger utils.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
		validator:       validator,
	}
}

// StartExamRequest begins tracking one exam for the caller.
type StartExamRequest struct {
	ExamName string `json:"examName"`
}

// AddTimeRequest adds study minutes to an exam or chapter.
type AddTimeRequest struct {
	Minutes int `json:"minutes" validate:"required,min=1"`
}

// UpdateNotesRequest replaces the caller's notes on a chapter.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// StartExam creates (or refreshes) the caller's record for an exam.
func (h *ProgressHandler) StartExam(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req StartExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting exam", "exam_id", examID)

	if err := h.progressService.InitializeExamProgress(c.Request.Context(), userID, examID, req.ExamName); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Exam started"})
}

// ListExamProgress returns every exam record for the caller.
func (h *ProgressHandler) ListExamProgress(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	progress, err := h.progressService.ListExamProgress(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetExamProgress returns the caller's record for one exam.
func (h *ProgressHandler) GetExamProgress(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	progress, err := h.progressService.GetExamProgress(c.Request.Context(), userID, examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// AddExamTime adds study minutes to an exam record.
func (h *ProgressHandler) AddExamTime(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req AddTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.progressService.AddExamTime(c.Request.Context(), userID, examID, req.Minutes); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Time recorded"})
}

// ListChapterProgress returns the caller's chapter records for one exam,
// keyed by chapter id.
func (h *ProgressHandler) ListChapterProgress(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	progress, err := h.progressService.ListChapterProgress(c.Request.Context(), userID, examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetChapterProgress returns one chapter record.
func (h *ProgressHandler) GetChapterProgress(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	chapterID := ParseStringIDParam(c, "chapter_id")
	if examID == "" || chapterID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	progress, err := h.progressService.GetChapterProgress(c.Request.Context(), userID, examID, chapterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// CompleteTutorial marks one chapter's tutorial as finished.
func (h *ProgressHandler) CompleteTutorial(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req services.TutorialCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Completing tutorial", "exam_id", req.ExamID, "chapter_id", req.ChapterID)

	if err := h.progressService.MarkTutorialComplete(c.Request.Context(), userID, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Tutorial completed"})
}

// RecordTestAttempt folds an externally scored attempt into progress.
// The regular flow goes through test submission; this endpoint exists
// for clients that scored offline and sync later.
func (h *ProgressHandler) RecordTestAttempt(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req services.TestAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Recording test attempt", "exam_id", req.ExamID, "chapter_id", req.ChapterID)

	score, err := h.progressService.RecordTestAttempt(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"percentageScore": score})
}

// AddChapterTime adds study minutes to a chapter record.
func (h *ProgressHandler) AddChapterTime(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	chapterID := ParseStringIDParam(c, "chapter_id")
	if examID == "" || chapterID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req AddTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.progressService.AddChapterTime(c.Request.Context(), userID, examID, chapterID, req.Minutes); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Time recorded"})
}

// UpdateChapterNotes replaces the caller's notes on an existing chapter
// record.
func (h *ProgressHandler) UpdateChapterNotes(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	chapterID := ParseStringIDParam(c, "chapter_id")
	if examID == "" || chapterID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.progressService.UpdateChapterNotes(c.Request.Context(), userID, examID, chapterID, req.Notes); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Notes updated"})
}

// GetStatistics returns the caller's aggregated profile statistics.
func (h *ProgressHandler) GetStatistics(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	stats, err := h.progressService.GetUserStatistics(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns the caller's newest study events.
func (h *ProgressHandler) GetRecentActivity(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	limit := ParseIntQuery(c, "limit", 10)

	activity, err := h.progressService.GetRecentActivity(c.Request.Context(), userID, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// GetExamCompletion returns the strict completion percentage for one exam.
func (h *ProgressHandler) GetExamCompletion(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	totalChapters := ParseIntQuery(c, "total_chapters", 0)
	if totalChapters <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "total_chapters query parameter is required",
		})
		return
	}

	completion, err := h.progressService.CalculateExamCompletion(c.Request.Context(), userID, examID, totalChapters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completionPercentage": completion})
}
