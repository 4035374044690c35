package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	svcerrors "github.com/exam-sarathi/learning-service/internal/errors"
	"github.com/exam-sarathi/learning-service/internal/services"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// ParseIntQuery reads an optional integer query parameter, falling back
// to the default on absence or garbage.
func ParseIntQuery(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// handleServiceError translates service sentinel errors into HTTP
// responses. Handlers call this for any error they do not deal with
// themselves.
func handleServiceError(c *gin.Context, err error) {
	var validationErrors svcerrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrContentNotFound),
		errors.Is(err, services.ErrExamProgressNotFound),
		errors.Is(err, services.ErrChapterProgressNotFound),
		errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, services.ErrInvalidAnswerState):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid answers",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNoQuestions),
		errors.Is(err, services.ErrEmptyContent):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Content is not available yet",
		})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrProgressWriteFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Progress could not be saved",
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Details: err.Error(),
		})
	}
}
