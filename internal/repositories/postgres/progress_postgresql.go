package postgres

import (
	"context"

	"github.com/exam-sarathi/learning-service/internal/models"
	"github.com/exam-sarathi/learning-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type progressRepository struct {
	exam    repositories.ExamProgressRepository
	chapter repositories.ChapterProgressRepository
}

func NewProgressRepository(db *gorm.DB) repositories.Repository {
	return &progressRepository{
		exam:    &ExamProgressPostgreSQL{db: db},
		chapter: &ChapterProgressPostgreSQL{db: db},
	}
}

func (r *progressRepository) Exam() repositories.ExamProgressRepository {
	return r.exam
}

func (r *progressRepository) Chapter() repositories.ChapterProgressRepository {
	return r.chapter
}

// ===== EXAM PROGRESS =====

type ExamProgressPostgreSQL struct {
	db *gorm.DB
}

func NewExamProgressPostgreSQL(db *gorm.DB) repositories.ExamProgressRepository {
	return &ExamProgressPostgreSQL{db: db}
}

func (r *ExamProgressPostgreSQL) Touch(ctx context.Context, userID, examID, examName string) error {
	row := map[string]interface{}{
		"user_id":          userID,
		"exam_id":          examID,
		"exam_name":        examName,
		"started_at":       gorm.Expr("NOW()"),
		"last_accessed_at": gorm.Expr("NOW()"),
		"total_time_spent": 0,
	}

	return r.db.WithContext(ctx).
		Model(&models.ExamProgress{}).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "exam_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				// Rows first created by a tutorial or test write carry an
				// empty name until the exam is opened with its real one.
				"exam_name":        gorm.Expr("COALESCE(NULLIF(EXCLUDED.exam_name, ''), exam_progress.exam_name)"),
				"last_accessed_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(row).Error
}

func (r *ExamProgressPostgreSQL) Get(ctx context.Context, userID, examID string) (*models.ExamProgress, error) {
	var progress models.ExamProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND exam_id = ?", userID, examID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ExamProgressPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.ExamProgress, error) {
	var progress []*models.ExamProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC NULLS LAST").
		Find(&progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *ExamProgressPostgreSQL) AddTime(ctx context.Context, userID, examID string, minutes int) error {
	return r.db.WithContext(ctx).
		Model(&models.ExamProgress{}).
		Where("user_id = ? AND exam_id = ?", userID, examID).
		UpdateColumns(map[string]interface{}{
			"total_time_spent": gorm.Expr("total_time_spent + ?", minutes),
			"last_accessed_at": gorm.Expr("NOW()"),
		}).Error
}

// ===== CHAPTER PROGRESS =====

type ChapterProgressPostgreSQL struct {
	db *gorm.DB
}

func NewChapterProgressPostgreSQL(db *gorm.DB) repositories.ChapterProgressRepository {
	return &ChapterProgressPostgreSQL{db: db}
}

func (r *ChapterProgressPostgreSQL) Get(ctx context.Context, key repositories.ChapterKey) (*models.ChapterProgress, error) {
	var progress models.ChapterProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND exam_id = ? AND chapter_id = ?", key.UserID, key.ExamID, key.ChapterID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ChapterProgressPostgreSQL) ListByExam(ctx context.Context, userID, examID string) ([]*models.ChapterProgress, error) {
	var progress []*models.ChapterProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND exam_id = ?", userID, examID).
		Find(&progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *ChapterProgressPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.ChapterProgress, error) {
	var progress []*models.ChapterProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *ChapterProgressPostgreSQL) MarkTutorialComplete(ctx context.Context, key repositories.ChapterKey, meta repositories.ChapterMeta) error {
	return r.merge(ctx, key, meta,
		map[string]interface{}{
			"tutorial_completed":    true,
			"tutorial_completed_at": gorm.Expr("NOW()"),
		},
		map[string]interface{}{
			"tutorial_completed":    true,
			"tutorial_completed_at": gorm.Expr("NOW()"),
		})
}

func (r *ChapterProgressPostgreSQL) RecordAttempt(ctx context.Context, key repositories.ChapterKey, meta repositories.ChapterMeta, percentageScore int) error {
	return r.merge(ctx, key, meta,
		map[string]interface{}{
			"tests_attempted":    1,
			"best_score":         percentageScore,
			"last_attempt_score": percentageScore,
			"last_attempt_at":    gorm.Expr("NOW()"),
		},
		map[string]interface{}{
			"tests_attempted":    gorm.Expr("chapter_progress.tests_attempted + 1"),
			"best_score":         gorm.Expr("GREATEST(chapter_progress.best_score, ?)", percentageScore),
			"last_attempt_score": percentageScore,
			"last_attempt_at":    gorm.Expr("NOW()"),
		})
}

func (r *ChapterProgressPostgreSQL) AddTime(ctx context.Context, key repositories.ChapterKey, minutes int) error {
	return r.db.WithContext(ctx).
		Model(&models.ChapterProgress{}).
		Where("user_id = ? AND exam_id = ? AND chapter_id = ?", key.UserID, key.ExamID, key.ChapterID).
		UpdateColumn("time_spent", gorm.Expr("time_spent + ?", minutes)).Error
}

func (r *ChapterProgressPostgreSQL) UpdateNotes(ctx context.Context, key repositories.ChapterKey, notes string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ChapterProgress{}).
		Where("user_id = ? AND exam_id = ? AND chapter_id = ?", key.UserID, key.ExamID, key.ChapterID).
		Update("notes", notes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// merge is the single upsert-or-create primitive behind every chapter
// mutation. The insert map holds the fields of the first write on top of a
// zeroed record; the update map holds the conflict assignments. Timestamps
// and counter arithmetic stay inside the statement so concurrent sessions
// merge instead of overwriting each other.
func (r *ChapterProgressPostgreSQL) merge(ctx context.Context, key repositories.ChapterKey, meta repositories.ChapterMeta, insert, update map[string]interface{}) error {
	row := map[string]interface{}{
		"user_id":            key.UserID,
		"exam_id":            key.ExamID,
		"chapter_id":         key.ChapterID,
		"chapter_name":       meta.ChapterName,
		"subject_id":         meta.SubjectID,
		"tutorial_completed": false,
		"tests_attempted":    0,
		"best_score":         0,
		"last_attempt_score": 0,
		"time_spent":         0,
		"notes":              "",
	}
	for column, value := range insert {
		row[column] = value
	}

	return r.db.WithContext(ctx).
		Model(&models.ChapterProgress{}).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "exam_id"}, {Name: "chapter_id"}},
			DoUpdates: clause.Assignments(update),
		}).
		Create(row).Error
}
