package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quizvault/vault-quiz-service/internal/callout"
	"github.com/quizvault/vault-quiz-service/internal/events"
	"github.com/quizvault/vault-quiz-service/internal/history"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/quizvault/vault-quiz-service/internal/validator"
)

// eventSource identifies this service in published events.
const eventSource = "vault-quiz-service"

// NoteService manages markdown notes: their content, their encoded quiz
// blocks, and the attempt history carried in their frontmatter.
type NoteService interface {
	// CRUD
	Create(ctx context.Context, req *CreateNoteRequest, userID string) (*models.Note, error)
	GetByID(ctx context.Context, id uint) (*models.Note, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Note, error)
	GetByPath(ctx context.Context, path string) (*models.Note, error)
	UpdateContent(ctx context.Context, id uint, content string, userID string) (*models.Note, error)
	Archive(ctx context.Context, id uint, userID string) error
	Delete(ctx context.Context, id uint, userID string) error

	// Query
	List(ctx context.Context, filters repositories.NoteFilters) ([]*models.Note, int64, error)
	Search(ctx context.Context, query string, filters repositories.NoteFilters) ([]*models.Note, int64, error)
	GetStats(ctx context.Context, id uint) (*repositories.NoteStats, error)

	// Quiz block management
	SaveQuestions(ctx context.Context, noteID uint, questions []callout.Question, userID string) (*models.Note, error)

	// Attempt history frontmatter
	GetHistory(ctx context.Context, noteID uint) ([]history.Record, error)
	AppendHistory(ctx context.Context, noteID uint, records []history.Record) error
}

type CreateNoteRequest struct {
	Path    string `json:"path" validate:"required,max=500"`
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content"`
}

type noteService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewNoteService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) NoteService {
	return &noteService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== CRUD =====

func (s *noteService) Create(ctx context.Context, req *CreateNoteRequest, userID string) (*models.Note, error) {
	s.logger.Info("Creating note", "path", req.Path, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := s.repo.Note().ExistsByPath(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to check note path: %w", err)
	}
	if exists {
		return nil, ErrNotePathExists
	}

	note := &models.Note{
		Path:        req.Path,
		Title:       req.Title,
		Content:     req.Content,
		ContentHash: contentHash(req.Content),
		Status:      models.NoteStatusActive,
		CreatedBy:   userID,
	}

	if err := s.repo.Note().Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Info("Note created", "note_id", note.ID, "path", note.Path)
	return note, nil
}

func (s *noteService) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	note, err := s.repo.Note().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

func (s *noteService) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Note, error) {
	note, err := s.repo.Note().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note with questions: %w", err)
	}
	return note, nil
}

func (s *noteService) GetByPath(ctx context.Context, path string) (*models.Note, error) {
	note, err := s.repo.Note().GetByPath(ctx, path)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note by path: %w", err)
	}
	return note, nil
}

// UpdateContent replaces the note's markdown and marks it Stale so the next
// parse refreshes its question set.
func (s *noteService) UpdateContent(ctx context.Context, id uint, content string, userID string) (*models.Note, error) {
	note, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Status == models.NoteStatusArchived {
		return nil, ErrNoteArchived
	}

	hash := contentHash(content)
	if hash == note.ContentHash {
		return note, nil
	}

	if err := s.repo.Note().UpdateContent(ctx, id, content, hash); err != nil {
		return nil, fmt.Errorf("failed to update note content: %w", err)
	}

	s.publishEvent(ctx, events.EventNoteStale, &events.NoteStaleEvent{
		NoteID:      note.ID,
		NotePath:    note.Path,
		ContentHash: hash,
		ChangedAt:   time.Now(),
	})

	return s.GetByID(ctx, id)
}

func (s *noteService) Archive(ctx context.Context, id uint, userID string) error {
	note, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Note().UpdateStatus(ctx, id, models.NoteStatusArchived); err != nil {
		return fmt.Errorf("failed to archive note: %w", err)
	}

	s.publishEvent(ctx, events.EventNoteArchived, &events.NoteArchivedEvent{
		NoteID:     note.ID,
		NotePath:   note.Path,
		ArchivedAt: time.Now(),
	})

	s.logger.Info("Note archived", "note_id", id, "user_id", userID)
	return nil
}

func (s *noteService) Delete(ctx context.Context, id uint, userID string) error {
	note, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if note.CreatedBy != userID {
		return NewPermissionError(userID, "note", "delete", "not the note owner")
	}

	if err := s.repo.Note().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.logger.Info("Note deleted", "note_id", id, "user_id", userID)
	return nil
}

// ===== QUERY =====

func (s *noteService) List(ctx context.Context, filters repositories.NoteFilters) ([]*models.Note, int64, error) {
	notes, total, err := s.repo.Note().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, total, nil
}

func (s *noteService) Search(ctx context.Context, query string, filters repositories.NoteFilters) ([]*models.Note, int64, error) {
	notes, total, err := s.repo.Note().Search(ctx, query, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search notes: %w", err)
	}
	return notes, total, nil
}

func (s *noteService) GetStats(ctx context.Context, id uint) (*repositories.NoteStats, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	stats, err := s.repo.Note().GetStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get note stats: %w", err)
	}
	return stats, nil
}

// ===== QUIZ BLOCK MANAGEMENT =====

// SaveQuestions encodes the questions into callout blocks and appends them to
// the note content, replacing nothing: saving is additive, the way a quiz is
// written back into a vault note.
func (s *noteService) SaveQuestions(ctx context.Context, noteID uint, questions []callout.Question, userID string) (*models.Note, error) {
	s.logger.Info("Saving questions to note", "note_id", noteID, "count", len(questions))

	note, err := s.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.Status == models.NoteStatusArchived {
		return nil, ErrNoteArchived
	}

	for _, q := range questions {
		if err := s.validator.Question().ValidateCallout(q); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuestionInvalidContent, err)
		}
	}

	content := note.Content
	if content != "" && content[len(content)-1] != '\n' {
		content += "\n"
	}
	if content != "" {
		content += "\n"
	}
	content += callout.EncodeAll(questions)

	hash := contentHash(content)
	if err := s.repo.Note().UpdateContent(ctx, noteID, content, hash); err != nil {
		return nil, fmt.Errorf("failed to save questions: %w", err)
	}

	s.publishEvent(ctx, events.EventQuizSaved, &events.QuizSavedEvent{
		NoteID:        note.ID,
		NotePath:      note.Path,
		QuestionCount: len(questions),
		SavedBy:       userID,
		SavedAt:       time.Now(),
	})

	return s.GetByID(ctx, noteID)
}

// ===== ATTEMPT HISTORY FRONTMATTER =====

func (s *noteService) GetHistory(ctx context.Context, noteID uint) ([]history.Record, error) {
	note, err := s.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	records, err := history.ParseNote(note.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse note history: %w", err)
	}
	return records, nil
}

// AppendHistory splices new attempt records into the note's frontmatter
// without disturbing other frontmatter keys.
func (s *noteService) AppendHistory(ctx context.Context, noteID uint, records []history.Record) error {
	note, err := s.GetByID(ctx, noteID)
	if err != nil {
		return err
	}

	existing, err := history.ParseNote(note.Content)
	if err != nil {
		return fmt.Errorf("failed to parse note history: %w", err)
	}
	for _, r := range records {
		existing = history.Append(existing, r)
	}

	updated, err := history.UpdateNote(note.Content, existing)
	if err != nil {
		return fmt.Errorf("failed to update note history: %w", err)
	}

	// History rewrites keep the note's parse status: only the frontmatter
	// changed, not the question blocks.
	note.Content = updated
	note.ContentHash = contentHash(updated)
	if err := s.repo.Note().Update(ctx, note); err != nil {
		return fmt.Errorf("failed to persist note history: %w", err)
	}
	return nil
}

// ===== HELPERS =====

func (s *noteService) publishEvent(ctx context.Context, eventType events.EventType, data interface{}) {
	event := &events.QuizEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", eventType, "error", err)
	}
}

// contentHash fingerprints note content with the same compact fnv-1a format
// used for question hashes.
func contentHash(content string) string {
	h := fnv.New64a()
	h.Write([]byte(content))
	return fmt.Sprintf("%016x", h.Sum64())
}
