package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/quizvault/vault-quiz-service/internal/events"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleQuiz = "> [!question] What is the capital of France?\n" +
	"> a) Paris\n" +
	"> b) London\n" +
	">> [!success]\n" +
	">> a) Paris\n" +
	"\n" +
	"> [!question] The sky is blue\n" +
	">> [!success]\n" +
	">> True\n" +
	"\n"

func newTestQuizService(repo *mockRepository) (QuizService, *events.MockEventPublisher) {
	logger := slog.Default()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewQuizService(repo, noopCache{}, publisher, logger, validator.New())
	return svc, publisher
}

func TestParseNoteReplacesQuestionsAndPublishes(t *testing.T) {
	repo := newMockRepository()
	svc, publisher := newTestQuizService(repo)

	note := &models.Note{
		ID:          7,
		Path:        "biology/cells.md",
		Content:     sampleQuiz,
		ContentHash: "abc123",
		Status:      models.NoteStatusStale,
	}
	repo.notes.On("GetByID", mock.Anything, uint(7)).Return(note, nil)
	repo.questions.On("ReplaceForNote", mock.Anything, uint(7), mock.MatchedBy(func(qs []*models.Question) bool {
		return len(qs) == 2
	})).Return(nil)
	repo.notes.On("UpdateStatus", mock.Anything, uint(7), models.NoteStatusActive).Return(nil)

	result, err := svc.ParseNote(context.Background(), 7, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.QuestionCount)
	assert.Equal(t, 1, result.TypeCounts[models.MultipleChoice])
	assert.Equal(t, 1, result.TypeCounts[models.TrueFalse])
	assert.Equal(t, 0, result.Questions[0].Order)
	assert.Equal(t, 1, result.Questions[1].Order)
	assert.Equal(t, "user-1", result.Questions[0].CreatedBy)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventNoteParsed, published[0].Type)

	repo.notes.AssertExpectations(t)
	repo.questions.AssertExpectations(t)
}

func TestParseNoteSkipsMalformedBlocks(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestQuizService(repo)

	// Second block has an answer letter outside the option range and is
	// dropped silently.
	content := sampleQuiz +
		"> [!question] Broken\n" +
		"> a) Only\n" +
		">> [!success]\n" +
		">> z) Only\n" +
		"\n"

	note := &models.Note{ID: 8, Path: "x.md", Content: content, Status: models.NoteStatusActive}
	repo.notes.On("GetByID", mock.Anything, uint(8)).Return(note, nil)
	repo.questions.On("ReplaceForNote", mock.Anything, uint(8), mock.MatchedBy(func(qs []*models.Question) bool {
		return len(qs) == 2
	})).Return(nil)
	repo.notes.On("UpdateStatus", mock.Anything, uint(8), models.NoteStatusActive).Return(nil)

	result, err := svc.ParseNote(context.Background(), 8, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.QuestionCount)
}

func TestParseNoteRejectsArchivedNote(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestQuizService(repo)

	note := &models.Note{ID: 9, Status: models.NoteStatusArchived}
	repo.notes.On("GetByID", mock.Anything, uint(9)).Return(note, nil)

	_, err := svc.ParseNote(context.Background(), 9, "user-1")
	assert.ErrorIs(t, err, ErrNoteArchived)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestQuizService(repo)

	questions, err := svc.Preview(context.Background(), sampleQuiz)
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	// No repository calls at all
	repo.questions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	repo.questions.AssertNotCalled(t, "ReplaceForNote", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetNoteQuestionsFallsThroughCacheMiss(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestQuizService(repo)

	note := &models.Note{ID: 3, ContentHash: "hash3"}
	stored := []*models.Question{{ID: 1, Type: models.TrueFalse}}
	repo.notes.On("GetByID", mock.Anything, uint(3)).Return(note, nil)
	repo.questions.On("GetByNote", mock.Anything, uint(3)).Return(stored, nil)

	questions, err := svc.GetNoteQuestions(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, stored, questions)
}

func TestRenderNoteQuizRoundTrips(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestQuizService(repo)

	preview, err := svc.Preview(context.Background(), sampleQuiz)
	require.NoError(t, err)

	note := &models.Note{ID: 4, ContentHash: "h"}
	repo.notes.On("GetByID", mock.Anything, uint(4)).Return(note, nil)
	repo.questions.On("GetByNote", mock.Anything, uint(4)).Return(preview, nil)

	markdown, err := svc.RenderNoteQuiz(context.Background(), 4)
	require.NoError(t, err)

	reparsed, err := svc.Preview(context.Background(), markdown)
	require.NoError(t, err)
	require.Len(t, reparsed, 2)
	assert.Equal(t, preview[0].Hash, reparsed[0].Hash)
	assert.Equal(t, preview[1].Hash, reparsed[1].Hash)
}

func TestRenderNoteQuizEmptyNote(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestQuizService(repo)

	note := &models.Note{ID: 5, ContentHash: "h"}
	repo.notes.On("GetByID", mock.Anything, uint(5)).Return(note, nil)
	repo.questions.On("GetByNote", mock.Anything, uint(5)).Return([]*models.Question{}, nil)

	_, err := svc.RenderNoteQuiz(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNoteHasNoQuestions)
}
