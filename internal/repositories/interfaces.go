package repositories

import (
	"time"

	"github.com/quizvault/vault-quiz-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type NoteFilters struct {
	Status     *models.NoteStatus `json:"status"`
	CreatedBy  *string            `json:"created_by"`
	PathPrefix string             `json:"path_prefix"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
	SortBy     string             `json:"sort_by"`    // "created_at", "title", "path"
	SortOrder  string             `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	Type       *models.QuestionType    `json:"type"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	NoteID     *uint                   `json:"note_id"`
	CreatedBy  *string                 `json:"created_by"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
	SortBy     string                  `json:"sort_by"`
	SortOrder  string                  `json:"sort_order"`
}

type AttemptFilters struct {
	Status   models.AttemptStatus `json:"status"`
	UserID   *string              `json:"user_id"`
	NoteID   *uint                `json:"note_id"`
	DateFrom *time.Time           `json:"date_from"`
	DateTo   *time.Time           `json:"date_to"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type NoteStats struct {
	QuestionCount     int     `json:"question_count"`
	TotalAttempts     int     `json:"total_attempts"`
	CompletedAttempts int     `json:"completed_attempts"`
	AverageScore      float64 `json:"average_score"`
}

type QuestionTypeBreakdown struct {
	TotalQuestions  int                         `json:"total_questions"`
	QuestionsByType map[models.QuestionType]int `json:"questions_by_type"`
}

type AttemptStats struct {
	TotalAttempts   int                          `json:"total_attempts"`
	StatusBreakdown map[models.AttemptStatus]int `json:"status_breakdown"`
	AverageScore    float64                      `json:"average_score"`
	CompletionRate  float64                      `json:"completion_rate"`
}

// Repository aggregates the per-model repositories behind one constructor so
// services take a single dependency.
type Repository interface {
	Note() NoteRepository
	Question() QuestionRepository
	Attempt() AttemptRepository
	ImportJob() ImportJobRepository
}
