package services

import (
	"log/slog"

	"github.com/quizvault/vault-quiz-service/internal/cache"
	"github.com/quizvault/vault-quiz-service/internal/events"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/quizvault/vault-quiz-service/internal/validator"
)

// ServiceManager bundles the service layer behind a single constructor so
// transport code does not have to know the wiring order.
type ServiceManager interface {
	Note() NoteService
	Quiz() QuizService
	Attempt() AttemptService
	ImportExport() ImportExportService
}

type serviceManager struct {
	note         NoteService
	quiz         QuizService
	attempt      AttemptService
	importExport ImportExportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	note := NewNoteService(repo, publisher, logger, validator)
	return &serviceManager{
		note:         note,
		quiz:         NewQuizService(repo, cacheService, publisher, logger, validator),
		attempt:      NewAttemptService(repo, note, publisher, logger, validator),
		importExport: NewImportExportService(repo, publisher, logger, validator),
	}
}

func (m *serviceManager) Note() NoteService                 { return m.note }
func (m *serviceManager) Quiz() QuizService                 { return m.quiz }
func (m *serviceManager) Attempt() AttemptService           { return m.attempt }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
