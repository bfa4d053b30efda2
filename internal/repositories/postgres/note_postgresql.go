package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type NotePostgreSQL struct {
	db *gorm.DB
}

func NewNotePostgreSQL(db *gorm.DB) repositories.NoteRepository {
	return &NotePostgreSQL{db: db}
}

// Create creates a new note after checking path uniqueness.
func (n *NotePostgreSQL) Create(ctx context.Context, note *models.Note) error {
	return n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := n.ExistsByPath(ctx, note.Path)
		if err != nil {
			return fmt.Errorf("failed to check path uniqueness: %w", err)
		}
		if exists {
			return fmt.Errorf("note with path '%s' already exists", note.Path)
		}

		note.Status = models.NoteStatusActive
		if err := tx.Create(note).Error; err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
		return nil
	})
}

func (n *NotePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	if err := n.db.WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (n *NotePostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	err := n.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order" ASC`)
		}).
		First(&note, id).Error
	if err != nil {
		return nil, err
	}
	note.QuestionCount = len(note.Questions)
	return &note, nil
}

func (n *NotePostgreSQL) GetByPath(ctx context.Context, path string) (*models.Note, error) {
	var note models.Note
	if err := n.db.WithContext(ctx).Where("path = ?", path).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (n *NotePostgreSQL) Update(ctx context.Context, note *models.Note) error {
	if err := n.db.WithContext(ctx).Save(note).Error; err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

func (n *NotePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := n.db.WithContext(ctx).Delete(&models.Note{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (n *NotePostgreSQL) List(ctx context.Context, filters repositories.NoteFilters) ([]*models.Note, int64, error) {
	query := n.db.WithContext(ctx).Model(&models.Note{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.PathPrefix != "" {
		query = query.Where("path LIKE ?", filters.PathPrefix+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "title": true, "path": true,
	})
	query = applyPaging(query, filters.Limit, filters.Offset)

	var notes []*models.Note
	if err := query.Find(&notes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, total, nil
}

func (n *NotePostgreSQL) Search(ctx context.Context, search string, filters repositories.NoteFilters) ([]*models.Note, int64, error) {
	query := n.db.WithContext(ctx).Model(&models.Note{}).
		Where("title ILIKE ? OR path ILIKE ?", "%"+search+"%", "%"+search+"%")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "title": true, "path": true,
	})
	query = applyPaging(query, filters.Limit, filters.Offset)

	var notes []*models.Note
	if err := query.Find(&notes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search notes: %w", err)
	}
	return notes, total, nil
}

func (n *NotePostgreSQL) UpdateContent(ctx context.Context, id uint, content, contentHash string) error {
	result := n.db.WithContext(ctx).Model(&models.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":      content,
			"content_hash": contentHash,
			"status":       models.NoteStatusStale,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update note content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (n *NotePostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.NoteStatus) error {
	result := n.db.WithContext(ctx).Model(&models.Note{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update note status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (n *NotePostgreSQL) ExistsByPath(ctx context.Context, path string) (bool, error) {
	var count int64
	err := n.db.WithContext(ctx).Model(&models.Note{}).
		Where("path = ?", path).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (n *NotePostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.NoteStats, error) {
	stats := &repositories.NoteStats{}

	var questionCount int64
	if err := n.db.WithContext(ctx).Model(&models.Question{}).
		Where("note_id = ?", id).
		Count(&questionCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	stats.QuestionCount = int(questionCount)

	var totalAttempts, completedAttempts int64
	if err := n.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("note_id = ?", id).
		Count(&totalAttempts).Error; err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	stats.TotalAttempts = int(totalAttempts)

	if err := n.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("note_id = ? AND status = ?", id, models.AttemptCompleted).
		Count(&completedAttempts).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed attempts: %w", err)
	}
	stats.CompletedAttempts = int(completedAttempts)

	var avg *float64
	err := n.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("note_id = ? AND status = ?", id, models.AttemptCompleted).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to compute average score: %w", err)
	}
	if avg != nil {
		stats.AverageScore = *avg
	}

	return stats, nil
}
