package repositories

import (
	"context"

	"github.com/quizvault/vault-quiz-service/internal/models"
)

// NoteRepository interface for note-specific operations
type NoteRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uint) (*models.Note, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Note, error)
	GetByPath(ctx context.Context, path string) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters NoteFilters) ([]*models.Note, int64, error)
	Search(ctx context.Context, query string, filters NoteFilters) ([]*models.Note, int64, error)

	// Content management
	UpdateContent(ctx context.Context, id uint, content, contentHash string) error
	UpdateStatus(ctx context.Context, id uint, status models.NoteStatus) error

	// Validation and checks
	ExistsByPath(ctx context.Context, path string) (bool, error)

	// Statistics
	GetStats(ctx context.Context, id uint) (*NoteStats, error)
}
