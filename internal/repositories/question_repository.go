package repositories

import (
	"context"

	"github.com/quizvault/vault-quiz-service/internal/models"
)

// QuestionRepository interface for question-specific operations
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByHash(ctx context.Context, hash string) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	// Bulk operations
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
	DeleteByNote(ctx context.Context, noteID uint) error
	ReplaceForNote(ctx context.Context, noteID uint, questions []*models.Question) error

	// Query operations
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	GetByNote(ctx context.Context, noteID uint) ([]*models.Question, error)
	GetByType(ctx context.Context, questionType models.QuestionType, filters QuestionFilters) ([]*models.Question, error)
	Search(ctx context.Context, query string, filters QuestionFilters) ([]*models.Question, int64, error)

	// Statistics
	GetTypeBreakdown(ctx context.Context, createdBy string) (*QuestionTypeBreakdown, error)
}
