package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exam-sarathi/learning-service/internal/services"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// ExportProgress streams the caller's progress report in the requested
// format. Supported formats are xlsx (default) and csv.
func (h *ReportHandler) ExportProgress(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "xlsx")
	filename := fmt.Sprintf("progress-%s.%s", time.Now().Format("2006-01-02"), format)

	h.LogRequest(c, "Exporting progress report", "format", format)

	switch format {
	case "xlsx":
		data, err := h.reportService.ExportProgressToExcel(c.Request.Context(), userID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	case "csv":
		data, err := h.reportService.ExportProgressToCSV(c.Request.Context(), userID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "text/csv", data)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported format",
			Details: "format must be xlsx or csv",
		})
	}
}
