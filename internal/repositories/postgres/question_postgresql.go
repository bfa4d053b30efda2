package postgres

import (
	"context"
	"fmt"

	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetByHash(ctx context.Context, hash string) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).Where("hash = ?", hash).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	if err := q.db.WithContext(ctx).CreateInBatches(questions, 100).Error; err != nil {
		return fmt.Errorf("failed to create questions batch: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by ids: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) DeleteByNote(ctx context.Context, noteID uint) error {
	if err := q.db.WithContext(ctx).Where("note_id = ?", noteID).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("failed to delete questions for note: %w", err)
	}
	return nil
}

// ReplaceForNote swaps a note's question set atomically: a re-parse of the
// note always replaces the previous parse results in one transaction.
func (q *QuestionPostgreSQL) ReplaceForNote(ctx context.Context, noteID uint, questions []*models.Question) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", noteID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous questions: %w", err)
		}
		if len(questions) == 0 {
			return nil
		}
		for i, question := range questions {
			question.NoteID = &noteID
			question.Order = i
		}
		if err := tx.CreateInBatches(questions, 100).Error; err != nil {
			return fmt.Errorf("failed to insert parsed questions: %w", err)
		}
		return nil
	})
}

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = q.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "type": true, "difficulty": true,
	})
	query = applyPaging(query, filters.Limit, filters.Offset)

	var questions []*models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

func (q *QuestionPostgreSQL) GetByNote(ctx context.Context, noteID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order(`"order" ASC`).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for note: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) GetByType(ctx context.Context, questionType models.QuestionType, filters repositories.QuestionFilters) ([]*models.Question, error) {
	filters.Type = &questionType
	questions, _, err := q.List(ctx, filters)
	return questions, err
}

func (q *QuestionPostgreSQL) Search(ctx context.Context, search string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{}).
		Where("text ILIKE ?", "%"+search+"%")
	query = q.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	query = applyPaging(query, filters.Limit, filters.Offset)

	var questions []*models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search questions: %w", err)
	}
	return questions, total, nil
}

func (q *QuestionPostgreSQL) GetTypeBreakdown(ctx context.Context, createdBy string) (*repositories.QuestionTypeBreakdown, error) {
	type row struct {
		Type  models.QuestionType
		Count int
	}
	var rows []row
	err := q.db.WithContext(ctx).Model(&models.Question{}).
		Select("type, COUNT(*) as count").
		Where("created_by = ?", createdBy).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute type breakdown: %w", err)
	}

	breakdown := &repositories.QuestionTypeBreakdown{
		QuestionsByType: make(map[models.QuestionType]int),
	}
	for _, r := range rows {
		breakdown.QuestionsByType[r.Type] = r.Count
		breakdown.TotalQuestions += r.Count
	}
	return breakdown, nil
}

func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.NoteID != nil {
		query = query.Where("note_id = ?", *filters.NoteID)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	return query
}
