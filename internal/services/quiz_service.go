package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quizvault/vault-quiz-service/internal/cache"
	"github.com/quizvault/vault-quiz-service/internal/callout"
	"github.com/quizvault/vault-quiz-service/internal/events"
	"github.com/quizvault/vault-quiz-service/internal/history"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/quizvault/vault-quiz-service/internal/validator"
)

const questionCacheTTL = 15 * time.Minute

// QuizService turns note markdown into persisted questions and back. Parsing
// is skip-on-malformed: blocks that do not decode are dropped, never fatal.
type QuizService interface {
	// Parsing
	ParseNote(ctx context.Context, noteID uint, userID string) (*ParseResult, error)
	Preview(ctx context.Context, markdown string) ([]*models.Question, error)

	// Question access
	GetNoteQuestions(ctx context.Context, noteID uint) ([]*models.Question, error)
	GetQuestion(ctx context.Context, id uint) (*models.Question, error)
	GetQuestionByHash(ctx context.Context, hash string) (*models.Question, error)
	ListQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error)
	SearchQuestions(ctx context.Context, query string, filters repositories.QuestionFilters) ([]*models.Question, int64, error)
	GetTypeBreakdown(ctx context.Context, createdBy string) (*repositories.QuestionTypeBreakdown, error)

	// Rendering
	RenderQuestion(ctx context.Context, id uint) (string, error)
	RenderNoteQuiz(ctx context.Context, noteID uint) (string, error)
}

// ParseResult summarizes one parse run over a note.
type ParseResult struct {
	NoteID        uint                        `json:"note_id"`
	QuestionCount int                         `json:"question_count"`
	TypeCounts    map[models.QuestionType]int `json:"type_counts"`
	ContentHash   string                      `json:"content_hash"`
	Questions     []*models.Question          `json:"questions"`
}

type quizService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
}

func NewQuizService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) QuizService {
	return &quizService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		ops:       NewServiceLogger(logger, LogConfig{Service: eventSource, Component: "quiz"}),
		validator: validator,
	}
}

// ===== PARSING =====

// ParseNote decodes the note's callout blocks and replaces its persisted
// question set in one transaction. The note is marked Active afterwards: its
// stored questions again match its content.
func (s *quizService) ParseNote(ctx context.Context, noteID uint, userID string) (*ParseResult, error) {
	var result *ParseResult
	err := s.ops.TimedOperation(ctx, "parse_note", userID, fmt.Sprintf("note/%d", noteID), func() error {
		var err error
		result, err = s.parseNote(ctx, noteID, userID)
		return err
	})
	return result, err
}

func (s *quizService) parseNote(ctx context.Context, noteID uint, userID string) (*ParseResult, error) {
	note, err := s.repo.Note().GetByID(ctx, noteID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note.Status == models.NoteStatusArchived {
		return nil, ErrNoteArchived
	}

	decoded := callout.Decode(note.Content)
	questions, err := s.toModels(decoded, note, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Question().ReplaceForNote(ctx, noteID, questions); err != nil {
		return nil, fmt.Errorf("failed to replace note questions: %w", err)
	}
	if err := s.repo.Note().UpdateStatus(ctx, noteID, models.NoteStatusActive); err != nil {
		return nil, fmt.Errorf("failed to mark note active: %w", err)
	}

	if err := s.cache.DeletePattern(ctx, fmt.Sprintf("note:%d:questions:*", noteID)); err != nil {
		s.logger.Warn("Failed to invalidate question cache", "note_id", noteID, "error", err)
	}

	result := &ParseResult{
		NoteID:        noteID,
		QuestionCount: len(questions),
		TypeCounts:    typeCounts(questions),
		ContentHash:   note.ContentHash,
		Questions:     questions,
	}

	s.publishEvent(ctx, events.EventNoteParsed, &events.NoteParsedEvent{
		NoteID:        noteID,
		NotePath:      note.Path,
		QuestionCount: result.QuestionCount,
		TypeCounts:    result.TypeCounts,
		ContentHash:   note.ContentHash,
		ParsedAt:      time.Now(),
	})

	s.logger.Info("Note parsed",
		"note_id", noteID,
		"question_count", result.QuestionCount)

	return result, nil
}

// Preview decodes markdown into questions without persisting anything.
func (s *quizService) Preview(ctx context.Context, markdown string) ([]*models.Question, error) {
	decoded := callout.Decode(markdown)
	questions := make([]*models.Question, 0, len(decoded))
	for i, q := range decoded {
		m, err := models.FromCallout(q, history.QuestionHash(q))
		if err != nil {
			return nil, fmt.Errorf("failed to map question %d: %w", i, err)
		}
		m.Order = i
		questions = append(questions, m)
	}
	return questions, nil
}

// ===== QUESTION ACCESS =====

// GetNoteQuestions reads through the cache keyed by the note's content hash,
// so a stale cache entry can never outlive a content change.
func (s *quizService) GetNoteQuestions(ctx context.Context, noteID uint) ([]*models.Question, error) {
	note, err := s.repo.Note().GetByID(ctx, noteID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	key := fmt.Sprintf("note:%d:questions:%s", noteID, note.ContentHash)

	var cached []*models.Question
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Question cache read failed", "note_id", noteID, "error", err)
	}

	questions, err := s.repo.Question().GetByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note questions: %w", err)
	}

	if err := s.cache.Set(ctx, key, questions, questionCacheTTL); err != nil {
		s.logger.Warn("Question cache write failed", "note_id", noteID, "error", err)
	}

	return questions, nil
}

func (s *quizService) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *quizService) GetQuestionByHash(ctx context.Context, hash string) (*models.Question, error) {
	question, err := s.repo.Question().GetByHash(ctx, hash)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question by hash: %w", err)
	}
	return question, nil
}

func (s *quizService) ListQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

func (s *quizService) SearchQuestions(ctx context.Context, query string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	questions, total, err := s.repo.Question().Search(ctx, query, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search questions: %w", err)
	}
	return questions, total, nil
}

func (s *quizService) GetTypeBreakdown(ctx context.Context, createdBy string) (*repositories.QuestionTypeBreakdown, error) {
	breakdown, err := s.repo.Question().GetTypeBreakdown(ctx, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to get type breakdown: %w", err)
	}
	return breakdown, nil
}

// ===== RENDERING =====

func (s *quizService) RenderQuestion(ctx context.Context, id uint) (string, error) {
	question, err := s.GetQuestion(ctx, id)
	if err != nil {
		return "", err
	}
	q, err := question.ToCallout()
	if err != nil {
		return "", fmt.Errorf("failed to reconstruct question: %w", err)
	}
	return callout.Encode(q), nil
}

// RenderNoteQuiz re-encodes every question of a note into one markdown
// document, in stored order.
func (s *quizService) RenderNoteQuiz(ctx context.Context, noteID uint) (string, error) {
	questions, err := s.GetNoteQuestions(ctx, noteID)
	if err != nil {
		return "", err
	}
	if len(questions) == 0 {
		return "", ErrNoteHasNoQuestions
	}

	decoded := make([]callout.Question, 0, len(questions))
	for _, m := range questions {
		q, err := m.ToCallout()
		if err != nil {
			return "", fmt.Errorf("failed to reconstruct question %d: %w", m.ID, err)
		}
		decoded = append(decoded, q)
	}
	return callout.EncodeAll(decoded), nil
}

// ===== HELPERS =====

func (s *quizService) toModels(decoded []callout.Question, note *models.Note, userID string) ([]*models.Question, error) {
	questions := make([]*models.Question, 0, len(decoded))
	for i, q := range decoded {
		m, err := models.FromCallout(q, history.QuestionHash(q))
		if err != nil {
			return nil, fmt.Errorf("failed to map question %d: %w", i, err)
		}
		m.NoteID = &note.ID
		m.Order = i
		m.CreatedBy = userID
		questions = append(questions, m)
	}
	return questions, nil
}

func typeCounts(questions []*models.Question) map[models.QuestionType]int {
	counts := make(map[models.QuestionType]int)
	for _, q := range questions {
		counts[q.Type]++
	}
	return counts
}

func (s *quizService) publishEvent(ctx context.Context, eventType events.EventType, data interface{}) {
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
