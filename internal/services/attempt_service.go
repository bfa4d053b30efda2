package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quizvault/vault-quiz-service/internal/events"
	"github.com/quizvault/vault-quiz-service/internal/history"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/quizvault/vault-quiz-service/internal/validator"
	"gorm.io/datatypes"
)

// AttemptService runs quiz attempts: one pass of a user through a note's
// questions, graded on submit and recorded into the note's history
// frontmatter.
type AttemptService interface {
	Start(ctx context.Context, noteID uint, userID string) (*models.QuizAttempt, error)
	SubmitAnswer(ctx context.Context, attemptID string, req *SubmitAnswerRequest, userID string) (*AnswerResult, error)
	Submit(ctx context.Context, attemptID string, userID string) (*models.QuizAttempt, error)
	Abandon(ctx context.Context, attemptID string, userID string) error

	GetByID(ctx context.Context, id string, userID string) (*models.QuizAttempt, error)
	List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error)
	GetByUser(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error)
	GetNoteStats(ctx context.Context, noteID uint) (*repositories.AttemptStats, error)
}

type SubmitAnswerRequest struct {
	QuestionHash string          `json:"question_hash" validate:"required,len=16"`
	Response     json.RawMessage `json:"response" validate:"required"`
	TimeSpent    int             `json:"time_spent" validate:"gte=0"`
}

// AnswerResult reports the grading outcome for a single answer.
type AnswerResult struct {
	QuestionHash string `json:"question_hash"`
	Correct      bool   `json:"correct"`
	Streak       int    `json:"streak"`
}

type noteHistoryWriter interface {
	AppendHistory(ctx context.Context, noteID uint, records []history.Record) error
}

type attemptService struct {
	repo      repositories.Repository
	notes     noteHistoryWriter
	publisher events.EventPublisher
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
}

func NewAttemptService(
	repo repositories.Repository,
	notes NoteService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) AttemptService {
	return &attemptService{
		repo:      repo,
		notes:     notes,
		publisher: publisher,
		logger:    logger,
		ops:       NewServiceLogger(logger, LogConfig{Service: eventSource, Component: "attempt"}),
		validator: validator,
	}
}

// ===== LIFECYCLE =====

func (s *attemptService) Start(ctx context.Context, noteID uint, userID string) (*models.QuizAttempt, error) {
	s.logger.Info("Starting quiz attempt", "note_id", noteID, "user_id", userID)

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

	questions, err := s.repo.Question().GetByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoteHasNoQuestions
	}

	active, err := s.repo.Attempt().HasActiveAttempt(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active attempts: %w", err)
	}
	if active {
		return nil, ErrAttemptAlreadyActive
	}

	attempt := &models.QuizAttempt{
		ID:         uuid.NewString(),
		NoteID:     noteID,
		UserID:     userID,
		Status:     models.AttemptInProgress,
		TotalCount: len(questions),
		StartedAt:  time.Now(),
	}
	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.publishEvent(ctx, events.EventAttemptStarted, &events.AttemptStartedEvent{
		AttemptID:     attempt.ID,
		NoteID:        noteID,
		NotePath:      note.Path,
		UserID:        userID,
		QuestionCount: len(questions),
		StartedAt:     attempt.StartedAt,
	})

	s.logger.Info("Quiz attempt started", "attempt_id", attempt.ID, "question_count", len(questions))
	return attempt, nil
}

// SubmitAnswer grades a single answer immediately and records it. The streak
// in the result counts consecutive correct answers for this question across
// all attempts, current answer included.
func (s *attemptService) SubmitAnswer(ctx context.Context, attemptID string, req *SubmitAnswerRequest, userID string) (*AnswerResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	attempt, err := s.getOwnedAttempt(ctx, attemptID, userID, "submit_answer")
	if err != nil {
		return nil, err
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, ErrAttemptNotActive
	}

	question, err := s.repo.Question().GetByHash(ctx, req.QuestionHash)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptUnknownQuestion
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question.NoteID == nil || *question.NoteID != attempt.NoteID {
		return nil, ErrAttemptUnknownQuestion
	}

	correct, err := gradeAnswer(question, req.Response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuestionInvalidContent, err)
	}

	answer := &models.AttemptAnswer{
		AttemptID:    attemptID,
		QuestionHash: req.QuestionHash,
		Response:     datatypes.JSON(req.Response),
		Correct:      correct,
		TimeSpent:    req.TimeSpent,
	}
	if err := s.repo.Attempt().CreateAnswer(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	streak := 0
	if records, err := s.noteHistory(ctx, attempt.NoteID); err == nil {
		streak = history.Streak(append(records, history.Record{
			Hash:      req.QuestionHash,
			Correct:   correct,
			Timestamp: time.Now().UnixMilli(),
		}), req.QuestionHash)
	}

	return &AnswerResult{
		QuestionHash: req.QuestionHash,
		Correct:      correct,
		Streak:       streak,
	}, nil
}

// Submit completes the attempt: the recorded answers are tallied into a
// score, history records are appended to the note frontmatter, and the
// submission event is published.
func (s *attemptService) Submit(ctx context.Context, attemptID string, userID string) (*models.QuizAttempt, error) {
	var submitted *models.QuizAttempt
	err := s.ops.TimedOperation(ctx, "submit_attempt", userID, "attempt/"+attemptID, func() error {
		var err error
		submitted, err = s.submit(ctx, attemptID, userID)
		return err
	})
	return submitted, err
}

func (s *attemptService) submit(ctx context.Context, attemptID string, userID string) (*models.QuizAttempt, error) {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, userID, "submit")
	if err != nil {
		return nil, err
	}
	if attempt.Status == models.AttemptCompleted {
		return nil, ErrAttemptAlreadySubmitted
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, ErrAttemptNotActive
	}

	answers, err := s.repo.Attempt().GetAnswers(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt answers: %w", err)
	}

	// A question answered more than once counts its latest answer.
	latest := make(map[string]*models.AttemptAnswer, len(answers))
	for _, a := range answers {
		latest[a.QuestionHash] = a
	}

	correct := 0
	records := make([]history.Record, 0, len(latest))
	now := time.Now().UnixMilli()
	for hash, a := range latest {
		if a.Correct {
			correct++
		}
		records = append(records, history.Record{
			Hash:      hash,
			Correct:   a.Correct,
			Timestamp: now,
		})
	}

	total := attempt.TotalCount
	if total == 0 {
		total = len(latest)
	}
	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}

	completedAt := time.Now()
	if err := s.repo.Attempt().CompleteAttempt(ctx, attemptID, completedAt, score, correct, total); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptAlreadySubmitted
		}
		return nil, fmt.Errorf("failed to complete attempt: %w", err)
	}

	if len(records) > 0 {
		if err := s.notes.AppendHistory(ctx, attempt.NoteID, records); err != nil {
			s.logger.Error("Failed to append attempt history",
				"attempt_id", attemptID,
				"note_id", attempt.NoteID,
				"error", err)
		}
	}

	note, err := s.repo.Note().GetByID(ctx, attempt.NoteID)
	notePath := ""
	if err == nil {
		notePath = note.Path
	}
	s.publishEvent(ctx, events.EventAttemptSubmitted, &events.AttemptSubmittedEvent{
		AttemptID:    attemptID,
		NoteID:       attempt.NoteID,
		NotePath:     notePath,
		UserID:       userID,
		Score:        score,
		CorrectCount: correct,
		TotalCount:   total,
		SubmittedAt:  completedAt,
	})

	s.logger.Info("Quiz attempt submitted",
		"attempt_id", attemptID,
		"score", score,
		"correct", correct,
		"total", total)

	return s.repo.Attempt().GetByIDWithAnswers(ctx, attemptID)
}

func (s *attemptService) Abandon(ctx context.Context, attemptID string, userID string) error {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, userID, "abandon")
	if err != nil {
		return err
	}
	if attempt.Status != models.AttemptInProgress {
		return ErrAttemptNotActive
	}

	attempt.Status = models.AttemptAbandoned
	if err := s.repo.Attempt().Update(ctx, attempt); err != nil {
		return fmt.Errorf("failed to abandon attempt: %w", err)
	}

	s.publishEvent(ctx, events.EventAttemptAbandoned, &events.AttemptAbandonedEvent{
		AttemptID:   attemptID,
		NoteID:      attempt.NoteID,
		UserID:      userID,
		AbandonedAt: time.Now(),
	})
	return nil
}

// ===== QUERIES =====

func (s *attemptService) GetByID(ctx context.Context, id string, userID string) (*models.QuizAttempt, error) {
	return s.getOwnedAttemptWithAnswers(ctx, id, userID)
}

func (s *attemptService) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	attempts, total, err := s.repo.Attempt().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, total, nil
}

func (s *attemptService) GetByUser(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	attempts, total, err := s.repo.Attempt().GetByUser(ctx, userID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get attempts by user: %w", err)
	}
	return attempts, total, nil
}

func (s *attemptService) GetNoteStats(ctx context.Context, noteID uint) (*repositories.AttemptStats, error) {
	stats, err := s.repo.Attempt().GetNoteAttemptStats(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt stats: %w", err)
	}
	return stats, nil
}

// ===== HELPERS =====

func (s *attemptService) getOwnedAttempt(ctx context.Context, id, userID, action string) (*models.QuizAttempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.UserID != userID {
		permErr := NewPermissionError(userID, "attempt", action, "not the attempt owner")
		s.ops.LogPermissionDenied(ctx, action, permErr)
		return nil, permErr
	}
	return attempt, nil
}

func (s *attemptService) getOwnedAttemptWithAnswers(ctx context.Context, id, userID string) (*models.QuizAttempt, error) {
	attempt, err := s.repo.Attempt().GetByIDWithAnswers(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.UserID != userID {
		return nil, NewPermissionError(userID, "attempt", "read", "not the attempt owner")
	}
	return attempt, nil
}

func (s *attemptService) noteHistory(ctx context.Context, noteID uint) ([]history.Record, error) {
	note, err := s.repo.Note().GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return history.ParseNote(note.Content)
}

func (s *attemptService) publishEvent(ctx context.Context, eventType events.EventType, data interface{}) {
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
