package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/exam-sarathi/learning-service/internal/middleware"
	"github.com/exam-sarathi/learning-service/internal/services"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

type HandlerManager struct {
	contentHandler  *ContentHandler
	progressHandler *ProgressHandler
	testHandler     *TestHandler
	reportHandler   *ReportHandler
	authenticator   middleware.Authenticator
	logger          utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authenticator middleware.Authenticator,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		contentHandler:  NewContentHandler(serviceManager.Content(), serviceManager.Journey(), logger),
		progressHandler: NewProgressHandler(serviceManager.Progress(), validator, logger),
		testHandler:     NewTestHandler(serviceManager.Test(), logger),
		reportHandler:   NewReportHandler(serviceManager.Report(), logger),
		authenticator:   authenticator,
		logger:          logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "learning-service",
		})
	})

	v1 := router.Group("/api/v1")

	// Content routes are public: the catalog and syllabi render before
	// sign-in on the client.
	content := v1.Group("/content")
	{
		content.GET("/exams/:level", hm.contentHandler.GetExamCatalog)
		content.GET("/syllabi/:exam_id", hm.contentHandler.GetSyllabus)
		content.GET("/tutorials/:exam_id/:subject_id/:chapter_id", hm.contentHandler.GetTutorial)
		content.GET("/tests/:exam_id/:subject_id/:chapter_id", hm.testHandler.GetTestPaper)
	}

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(hm.authenticator, utils.ToSlogLogger(hm.logger)))
	{
		// Journey views
		authed.GET("/journey/:exam_id", hm.contentHandler.GetExamJourney)
		authed.GET("/journey/:exam_id/subjects/:subject_id", hm.contentHandler.GetSubjectJourney)

		// Test submission
		tests := authed.Group("/tests")
		{
			tests.POST("/submit", hm.testHandler.SubmitTest)
			tests.POST("/rescore/:exam_id/:subject_id/:chapter_id", hm.testHandler.RescoreTest)
		}

		// Progress
		progress := authed.Group("/progress")
		{
			progress.GET("/exams", hm.progressHandler.ListExamProgress)
			progress.POST("/exams/:exam_id/start", hm.progressHandler.StartExam)
			progress.GET("/exams/:exam_id", hm.progressHandler.GetExamProgress)
			progress.POST("/exams/:exam_id/time", hm.progressHandler.AddExamTime)
			progress.GET("/exams/:exam_id/completion", hm.progressHandler.GetExamCompletion)

			progress.GET("/exams/:exam_id/chapters", hm.progressHandler.ListChapterProgress)
			progress.GET("/exams/:exam_id/chapters/:chapter_id", hm.progressHandler.GetChapterProgress)
			progress.POST("/exams/:exam_id/chapters/:chapter_id/time", hm.progressHandler.AddChapterTime)
			progress.PUT("/exams/:exam_id/chapters/:chapter_id/notes", hm.progressHandler.UpdateChapterNotes)

			progress.POST("/tutorials/complete", hm.progressHandler.CompleteTutorial)
			progress.POST("/tests/attempts", hm.progressHandler.RecordTestAttempt)

			progress.GET("/statistics", hm.progressHandler.GetStatistics)
			progress.GET("/activity", hm.progressHandler.GetRecentActivity)
		}

		// Reports
		authed.GET("/reports/progress", hm.reportHandler.ExportProgress)
	}
}
