package pkg

import (
	"fmt"

	"github.com/exam-sarathi/learning-service/internal/config"
	"github.com/exam-sarathi/learning-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.ExamProgress{}, &models.ChapterProgress{}); err != nil {
		return nil, fmt.Errorf("failed to migrate progress tables: %w", err)
	}

	return db, nil
}
