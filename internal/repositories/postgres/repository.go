package postgres

import (
	"fmt"

	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	notes     repositories.NoteRepository
	questions repositories.QuestionRepository
	attempts  repositories.AttemptRepository
	jobs      repositories.ImportJobRepository
}

// NewRepository wires all PostgreSQL repositories behind the aggregate
// interface.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		notes:     NewNotePostgreSQL(db),
		questions: NewQuestionPostgreSQL(db),
		attempts:  NewAttemptPostgreSQL(db),
		jobs:      NewImportJobPostgreSQL(db),
	}
}

func (r *repository) Note() repositories.NoteRepository           { return r.notes }
func (r *repository) Question() repositories.QuestionRepository   { return r.questions }
func (r *repository) Attempt() repositories.AttemptRepository     { return r.attempts }
func (r *repository) ImportJob() repositories.ImportJobRepository { return r.jobs }

// AutoMigrate creates or updates the schema for all persisted models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Note{},
		&models.Question{},
		&models.QuizAttempt{},
		&models.AttemptAnswer{},
		&models.ImportJob{},
	); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}

// applySort appends a deterministic ORDER BY from filter fields, falling back
// to creation time descending.
func applySort(db *gorm.DB, sortBy, sortOrder string, allowed map[string]bool) *gorm.DB {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return db.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}

func applyPaging(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}
	return db
}
