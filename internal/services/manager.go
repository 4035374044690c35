package services

import (
	"log/slog"

	"github.com/exam-sarathi/learning-service/internal/content"
	"github.com/exam-sarathi/learning-service/internal/events"
	"github.com/exam-sarathi/learning-service/internal/repositories"
	"github.com/exam-sarathi/learning-service/internal/utils"
)

// ServiceManager hands out the service layer as one unit so the wiring
// in main and in handlers stays flat.
type ServiceManager interface {
	Content() ContentService
	Journey() JourneyService
	Progress() ProgressService
	Test() TestService
	Report() ReportService
}

type serviceManager struct {
	contentService  ContentService
	journeyService  JourneyService
	progressService ProgressService
	testService     TestService
	reportService   ReportService
}

func NewServiceManager(
	repo repositories.Repository,
	contentClient content.Client,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) ServiceManager {
	progressService := NewProgressService(repo, publisher, logger, validator)

	return &serviceManager{
		contentService:  NewContentService(contentClient, logger),
		journeyService:  NewJourneyService(contentClient, progressService, logger),
		progressService: progressService,
		testService:     NewTestService(contentClient, progressService, logger, validator),
		reportService:   NewReportService(repo, logger),
	}
}

func (m *serviceManager) Content() ContentService   { return m.contentService }
func (m *serviceManager) Journey() JourneyService   { return m.journeyService }
func (m *serviceManager) Progress() ProgressService { return m.progressService }
func (m *serviceManager) Test() TestService         { return m.testService }
func (m *serviceManager) Report() ReportService     { return m.reportService }
