package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/quizvault/vault-quiz-service/internal/events"
	"github.com/quizvault/vault-quiz-service/internal/history"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubHistoryWriter records AppendHistory calls without touching a note.
type stubHistoryWriter struct {
	noteID  uint
	records []history.Record
	calls   int
}

func (s *stubHistoryWriter) AppendHistory(ctx context.Context, noteID uint, records []history.Record) error {
	s.noteID = noteID
	s.records = records
	s.calls++
	return nil
}

func newTestAttemptService(repo *mockRepository, notes noteHistoryWriter) (*attemptService, *events.MockEventPublisher) {
	logger := slog.Default()
	publisher := events.NewMockEventPublisher(logger)
	svc := &attemptService{
		repo:      repo,
		notes:     notes,
		publisher: publisher,
		logger:    logger,
		ops:       NewServiceLogger(logger, LogConfig{Service: eventSource, Component: "attempt"}),
		validator: validator.New(),
	}
	return svc, publisher
}

func TestStartAttempt(t *testing.T) {
	repo := newMockRepository()
	svc, publisher := newTestAttemptService(repo, &stubHistoryWriter{})

	note := &models.Note{ID: 1, Path: "quiz.md", Status: models.NoteStatusActive}
	questions := []*models.Question{{ID: 1}, {ID: 2}, {ID: 3}}
	repo.notes.On("GetByID", mock.Anything, uint(1)).Return(note, nil)
	repo.questions.On("GetByNote", mock.Anything, uint(1)).Return(questions, nil)
	repo.attempts.On("HasActiveAttempt", mock.Anything, "user-1", uint(1)).Return(false, nil)
	repo.attempts.On("Create", mock.Anything, mock.MatchedBy(func(a *models.QuizAttempt) bool {
		return a.NoteID == 1 && a.UserID == "user-1" && a.TotalCount == 3 && a.Status == models.AttemptInProgress
	})).Return(nil)

	attempt, err := svc.Start(context.Background(), 1, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, 3, attempt.TotalCount)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAttemptStarted, published[0].Type)
}

func TestStartAttemptRequiresQuestions(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestAttemptService(repo, &stubHistoryWriter{})

	note := &models.Note{ID: 2, Status: models.NoteStatusActive}
	repo.notes.On("GetByID", mock.Anything, uint(2)).Return(note, nil)
	repo.questions.On("GetByNote", mock.Anything, uint(2)).Return([]*models.Question{}, nil)

	_, err := svc.Start(context.Background(), 2, "user-1")
	assert.ErrorIs(t, err, ErrNoteHasNoQuestions)
}

func TestStartAttemptRejectsSecondActive(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestAttemptService(repo, &stubHistoryWriter{})

	note := &models.Note{ID: 3, Status: models.NoteStatusActive}
	repo.notes.On("GetByID", mock.Anything, uint(3)).Return(note, nil)
	repo.questions.On("GetByNote", mock.Anything, uint(3)).Return([]*models.Question{{ID: 1}}, nil)
	repo.attempts.On("HasActiveAttempt", mock.Anything, "user-1", uint(3)).Return(true, nil)

	_, err := svc.Start(context.Background(), 3, "user-1")
	assert.ErrorIs(t, err, ErrAttemptAlreadyActive)
}

func TestSubmitAnswerRejectsForeignQuestion(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestAttemptService(repo, &stubHistoryWriter{})

	attempt := &models.QuizAttempt{ID: "a1", NoteID: 1, UserID: "user-1", Status: models.AttemptInProgress}
	otherNote := uint(99)
	question := &models.Question{ID: 5, NoteID: &otherNote, Hash: "0123456789abcdef"}
	repo.attempts.On("GetByID", mock.Anything, "a1").Return(attempt, nil)
	repo.questions.On("GetByHash", mock.Anything, "0123456789abcdef").Return(question, nil)

	_, err := svc.SubmitAnswer(context.Background(), "a1", &SubmitAnswerRequest{
		QuestionHash: "0123456789abcdef",
		Response:     []byte(`{"answer":true}`),
	}, "user-1")
	assert.ErrorIs(t, err, ErrAttemptUnknownQuestion)
}

func TestSubmitAnswerRejectsNonOwner(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestAttemptService(repo, &stubHistoryWriter{})

	attempt := &models.QuizAttempt{ID: "a2", NoteID: 1, UserID: "owner", Status: models.AttemptInProgress}
	repo.attempts.On("GetByID", mock.Anything, "a2").Return(attempt, nil)

	_, err := svc.SubmitAnswer(context.Background(), "a2", &SubmitAnswerRequest{
		QuestionHash: "0123456789abcdef",
		Response:     []byte(`{"answer":true}`),
	}, "intruder")
	var pe *PermissionError
	assert.ErrorAs(t, err, &pe)
}

func TestSubmitScoresAndRecordsHistory(t *testing.T) {
	repo := newMockRepository()
	writer := &stubHistoryWriter{}
	svc, publisher := newTestAttemptService(repo, writer)

	attempt := &models.QuizAttempt{
		ID:         "a3",
		NoteID:     1,
		UserID:     "user-1",
		Status:     models.AttemptInProgress,
		TotalCount: 2,
		StartedAt:  time.Now(),
	}
	answers := []*models.AttemptAnswer{
		{AttemptID: "a3", QuestionHash: "hash-one", Correct: true},
		{AttemptID: "a3", QuestionHash: "hash-two", Correct: false},
	}

	repo.attempts.On("GetByID", mock.Anything, "a3").Return(attempt, nil)
	repo.attempts.On("GetAnswers", mock.Anything, "a3").Return(answers, nil)
	repo.attempts.On("CompleteAttempt", mock.Anything, "a3", mock.Anything, 50.0, 1, 2).Return(nil)
	repo.notes.On("GetByID", mock.Anything, uint(1)).Return(&models.Note{ID: 1, Path: "quiz.md"}, nil)

	completed := &models.QuizAttempt{ID: "a3", Status: models.AttemptCompleted, Score: 50}
	repo.attempts.On("GetByIDWithAnswers", mock.Anything, "a3").Return(completed, nil)

	result, err := svc.Submit(context.Background(), "a3", "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.AttemptCompleted, result.Status)

	assert.Equal(t, 1, writer.calls)
	assert.Equal(t, uint(1), writer.noteID)
	assert.Len(t, writer.records, 2)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAttemptSubmitted, published[0].Type)
}

func TestSubmitCountsLatestAnswerPerQuestion(t *testing.T) {
	repo := newMockRepository()
	writer := &stubHistoryWriter{}
	svc, _ := newTestAttemptService(repo, writer)

	attempt := &models.QuizAttempt{
		ID: "a4", NoteID: 1, UserID: "user-1",
		Status: models.AttemptInProgress, TotalCount: 1,
	}
	// Same question answered twice; the later answer wins.
	answers := []*models.AttemptAnswer{
		{AttemptID: "a4", QuestionHash: "hash-one", Correct: false},
		{AttemptID: "a4", QuestionHash: "hash-one", Correct: true},
	}

	repo.attempts.On("GetByID", mock.Anything, "a4").Return(attempt, nil)
	repo.attempts.On("GetAnswers", mock.Anything, "a4").Return(answers, nil)
	repo.attempts.On("CompleteAttempt", mock.Anything, "a4", mock.Anything, 100.0, 1, 1).Return(nil)
	repo.notes.On("GetByID", mock.Anything, uint(1)).Return(&models.Note{ID: 1}, nil)
	repo.attempts.On("GetByIDWithAnswers", mock.Anything, "a4").Return(attempt, nil)

	_, err := svc.Submit(context.Background(), "a4", "user-1")
	require.NoError(t, err)
}

func TestSubmitRejectsDoubleSubmit(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestAttemptService(repo, &stubHistoryWriter{})

	attempt := &models.QuizAttempt{ID: "a5", UserID: "user-1", Status: models.AttemptCompleted}
	repo.attempts.On("GetByID", mock.Anything, "a5").Return(attempt, nil)

	_, err := svc.Submit(context.Background(), "a5", "user-1")
	assert.ErrorIs(t, err, ErrAttemptAlreadySubmitted)
}

func TestAbandonAttempt(t *testing.T) {
	repo := newMockRepository()
	svc, publisher := newTestAttemptService(repo, &stubHistoryWriter{})

	attempt := &models.QuizAttempt{ID: "a6", NoteID: 2, UserID: "user-1", Status: models.AttemptInProgress}
	repo.attempts.On("GetByID", mock.Anything, "a6").Return(attempt, nil)
	repo.attempts.On("Update", mock.Anything, mock.MatchedBy(func(a *models.QuizAttempt) bool {
		return a.Status == models.AttemptAbandoned
	})).Return(nil)

	err := svc.Abandon(context.Background(), "a6", "user-1")
	require.NoError(t, err)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAttemptAbandoned, published[0].Type)
}
