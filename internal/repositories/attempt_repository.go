package repositories

import (
	"context"
	"time"

	"github.com/quizvault/vault-quiz-service/internal/models"
)

// AttemptRepository interface for quiz attempt operations
type AttemptRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id string) (*models.QuizAttempt, error)
	GetByIDWithAnswers(ctx context.Context, id string) (*models.QuizAttempt, error)
	Update(ctx context.Context, attempt *models.QuizAttempt) error
	Delete(ctx context.Context, id string) error

	// Query operations
	List(ctx context.Context, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	GetByUser(ctx context.Context, userID string, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	GetByNote(ctx context.Context, noteID uint, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)

	// Active attempt management
	GetActiveAttempt(ctx context.Context, userID string, noteID uint) (*models.QuizAttempt, error)
	HasActiveAttempt(ctx context.Context, userID string, noteID uint) (bool, error)

	// Completion
	CompleteAttempt(ctx context.Context, id string, completedAt time.Time, score float64, correct, total int) error

	// Answers
	CreateAnswer(ctx context.Context, answer *models.AttemptAnswer) error
	GetAnswers(ctx context.Context, attemptID string) ([]*models.AttemptAnswer, error)

	// Statistics
	GetNoteAttemptStats(ctx context.Context, noteID uint) (*AttemptStats, error)
}

// ImportJobRepository interface for import job tracking
type ImportJobRepository interface {
	Create(ctx context.Context, job *models.ImportJob) error
	GetByID(ctx context.Context, id string) (*models.ImportJob, error)
	Update(ctx context.Context, job *models.ImportJob) error
	GetByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ImportJob, int64, error)
}
