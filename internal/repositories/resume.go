package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-insight/internal/models"
)

var ErrResumeNotFound = errors.New("resume not found")

type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error)
	// ClaimForProcessing moves a queued resume to processing. It reports false when
	// another worker already claimed it.
	ClaimForProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateResult(ctx context.Context, id uuid.UUID, result *ResumeResultData) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	UpdateComparison(ctx context.Context, id uuid.UUID, comparison *models.MatchResult) error
	FindPendingJobs(ctx context.Context, limit int) ([]models.Resume, error)
}

type ResumeResultData struct {
	TextContent string
	Keywords    []string
	Analysis    *models.Analysis
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	if resume.UserID == "" {
		resume.UserID = models.DefaultUserID
	}
	if resume.Status == "" {
		resume.Status = models.StatusQueued
	}
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

func (r *resumeRepository) ClaimForProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim resume: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// UpdateResult stores the analysis and marks the resume completed. Struct updates
// are used so the jsonb serializers apply.
func (r *resumeRepository) UpdateResult(ctx context.Context, id uuid.UUID, data *ResumeResultData) error {
	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", id).
		Select("status", "text_content", "keywords", "analysis", "error_message", "updated_at").
		Updates(&models.Resume{
			Status:      models.StatusCompleted,
			TextContent: data.TextContent,
			Keywords:    data.Keywords,
			Analysis:    data.Analysis,
			UpdatedAt:   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}

	return nil
}

func (r *resumeRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}

	return nil
}

func (r *resumeRepository) UpdateComparison(ctx context.Context, id uuid.UUID, comparison *models.MatchResult) error {
	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", id).
		Select("jd_comparison", "updated_at").
		Updates(&models.Resume{
			JDComparison: comparison,
			UpdatedAt:    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update comparison: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}

	return nil
}

func (r *resumeRepository) FindPendingJobs(ctx context.Context, limit int) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&resumes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return resumes, nil
}
