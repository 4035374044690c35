package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exam-sarathi/learning-service/internal/services"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

type ContentHandler struct {
	BaseHandler
	contentService services.ContentService
	journeyService services.JourneyService
}

func NewContentHandler(
	contentService services.ContentService,
	journeyService services.JourneyService,
	logger utils.Logger,
) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
		journeyService: journeyService,
	}
}

// GetExamCatalog returns the exam list for one education level.
func (h *ContentHandler) GetExamCatalog(c *gin.Context) {
	level := ParseStringIDParam(c, "level")
	if level == "" {
		return
	}

	h.LogRequest(c, "Getting exam catalog", "level", level)

	catalog, err := h.contentService.GetExamCatalog(c.Request.Context(), level)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// GetSyllabus returns the subject/chapter tree for one exam.
func (h *ContentHandler) GetSyllabus(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	h.LogRequest(c, "Getting syllabus", "exam_id", examID)

	syllabus, err := h.contentService.GetSyllabus(c.Request.Context(), examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, syllabus)
}

// GetTutorial returns one chapter's slide deck. A deck that exists but
// has no slides yet comes back as available=false, not as an error.
func (h *ContentHandler) GetTutorial(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	subjectID := ParseStringIDParam(c, "subject_id")
	chapterID := ParseStringIDParam(c, "chapter_id")
	if examID == "" || subjectID == "" || chapterID == "" {
		return
	}

	h.LogRequest(c, "Getting tutorial", "exam_id", examID, "chapter_id", chapterID)

	tutorial, err := h.contentService.GetTutorial(c.Request.Context(), examID, subjectID, chapterID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			c.JSON(http.StatusOK, gin.H{"available": false})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": true, "tutorial": tutorial})
}

// GetExamJourney returns the merged syllabus-plus-progress view.
func (h *ContentHandler) GetExamJourney(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting exam journey", "exam_id", examID)

	journey, err := h.journeyService.GetExamJourney(c.Request.Context(), userID, examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, journey)
}

// GetSubjectJourney returns one subject's slice of the journey view.
func (h *ContentHandler) GetSubjectJourney(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	subjectID := ParseStringIDParam(c, "subject_id")
	if examID == "" || subjectID == "" {
		return
	}

	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting subject journey", "exam_id", examID, "subject_id", subjectID)

	journey, err := h.journeyService.GetSubjectJourney(c.Request.Context(), userID, examID, subjectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, journey)
}
