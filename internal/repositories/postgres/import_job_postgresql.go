package postgres

import (
	"context"
	"fmt"

	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type ImportJobPostgreSQL struct {
	db *gorm.DB
}

func NewImportJobPostgreSQL(db *gorm.DB) repositories.ImportJobRepository {
	return &ImportJobPostgreSQL{db: db}
}

func (j *ImportJobPostgreSQL) Create(ctx context.Context, job *models.ImportJob) error {
	if err := j.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}
	return nil
}

func (j *ImportJobPostgreSQL) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	var job models.ImportJob
	if err := j.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *ImportJobPostgreSQL) Update(ctx context.Context, job *models.ImportJob) error {
	if err := j.db.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("failed to update import job: %w", err)
	}
	return nil
}

func (j *ImportJobPostgreSQL) GetByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ImportJob, int64, error) {
	query := j.db.WithContext(ctx).Model(&models.ImportJob{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count import jobs: %w", err)
	}

	query = query.Order("created_at DESC")
	query = applyPaging(query, limit, offset)

	var jobs []*models.ImportJob
	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list import jobs: %w", err)
	}
	return jobs, total, nil
}
