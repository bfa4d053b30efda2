package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	if err := a.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, id string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByIDWithAnswers(ctx context.Context, id string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := a.db.WithContext(ctx).
		Preload("Answers").
		Preload("Note").
		Where("id = ?", id).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) Update(ctx context.Context, attempt *models.QuizAttempt) error {
	if err := a.db.WithContext(ctx).Save(attempt).Error; err != nil {
		return fmt.Errorf("failed to update attempt: %w", err)
	}
	return nil
}

func (a *AttemptPostgreSQL) Delete(ctx context.Context, id string) error {
	result := a.db.WithContext(ctx).Where("id = ?", id).Delete(&models.QuizAttempt{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete attempt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.QuizAttempt{})
	query = a.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}

	query = query.Order("started_at DESC")
	query = applyPaging(query, filters.Limit, filters.Offset)

	var attempts []*models.QuizAttempt
	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, total, nil
}

func (a *AttemptPostgreSQL) GetByUser(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	filters.UserID = &userID
	return a.List(ctx, filters)
}

func (a *AttemptPostgreSQL) GetByNote(ctx context.Context, noteID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	filters.NoteID = &noteID
	return a.List(ctx, filters)
}

func (a *AttemptPostgreSQL) GetActiveAttempt(ctx context.Context, userID string, noteID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND note_id = ? AND status = ?", userID, noteID, models.AttemptInProgress).
		Order("started_at DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) HasActiveAttempt(ctx context.Context, userID string, noteID uint) (bool, error) {
	_, err := a.GetActiveAttempt(ctx, userID, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *AttemptPostgreSQL) CompleteAttempt(ctx context.Context, id string, completedAt time.Time, score float64, correct, total int) error {
	result := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("id = ? AND status = ?", id, models.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":        models.AttemptCompleted,
			"completed_at":  completedAt,
			"score":         score,
			"correct_count": correct,
			"total_count":   total,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete attempt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *AttemptPostgreSQL) CreateAnswer(ctx context.Context, answer *models.AttemptAnswer) error {
	if err := a.db.WithContext(ctx).Create(answer).Error; err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}

func (a *AttemptPostgreSQL) GetAnswers(ctx context.Context, attemptID string) ([]*models.AttemptAnswer, error) {
	var answers []*models.AttemptAnswer
	err := a.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt answers: %w", err)
	}
	return answers, nil
}

func (a *AttemptPostgreSQL) GetNoteAttemptStats(ctx context.Context, noteID uint) (*repositories.AttemptStats, error) {
	type row struct {
		Status models.AttemptStatus
		Count  int
	}
	var rows []row
	err := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Select("status, COUNT(*) as count").
		Where("note_id = ?", noteID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute attempt stats: %w", err)
	}

	stats := &repositories.AttemptStats{
		StatusBreakdown: make(map[models.AttemptStatus]int),
	}
	for _, r := range rows {
		stats.StatusBreakdown[r.Status] = r.Count
		stats.TotalAttempts += r.Count
	}
	if stats.TotalAttempts > 0 {
		stats.CompletionRate = float64(stats.StatusBreakdown[models.AttemptCompleted]) / float64(stats.TotalAttempts)
	}

	var avg *float64
	err = a.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("note_id = ? AND status = ?", noteID, models.AttemptCompleted).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute average score: %w", err)
	}
	if avg != nil {
		stats.AverageScore = *avg
	}

	return stats, nil
}

func (a *AttemptPostgreSQL) applyFilters(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.NoteID != nil {
		query = query.Where("note_id = ?", *filters.NoteID)
	}
	if filters.DateFrom != nil {
		query = query.Where("started_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("started_at <= ?", *filters.DateTo)
	}
	return query
}
