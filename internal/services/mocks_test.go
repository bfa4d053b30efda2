package services

import (
	"context"
	"time"

	"github.com/quizvault/vault-quiz-service/internal/cache"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockNoteRepository is a mock implementation of NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteRepository) GetByPath(ctx context.Context, path string) (*models.Note, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteRepository) Update(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNoteRepository) List(ctx context.Context, filters repositories.NoteFilters) ([]*models.Note, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Note), args.Get(1).(int64), args.Error(2)
}

func (m *MockNoteRepository) Search(ctx context.Context, query string, filters repositories.NoteFilters) ([]*models.Note, int64, error) {
	args := m.Called(ctx, query, filters)
	return args.Get(0).([]*models.Note), args.Get(1).(int64), args.Error(2)
}

func (m *MockNoteRepository) UpdateContent(ctx context.Context, id uint, content, contentHash string) error {
	args := m.Called(ctx, id, content, contentHash)
	return args.Error(0)
}

func (m *MockNoteRepository) UpdateStatus(ctx context.Context, id uint, status models.NoteStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockNoteRepository) ExistsByPath(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockNoteRepository) GetStats(ctx context.Context, id uint) (*repositories.NoteStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.NoteStats), args.Error(1)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByHash(ctx context.Context, hash string) (*models.Question, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) DeleteByNote(ctx context.Context, noteID uint) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}

func (m *MockQuestionRepository) ReplaceForNote(ctx context.Context, noteID uint, questions []*models.Question) error {
	args := m.Called(ctx, noteID, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetByNote(ctx context.Context, noteID uint) ([]*models.Question, error) {
	args := m.Called(ctx, noteID)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByType(ctx context.Context, questionType models.QuestionType, filters repositories.QuestionFilters) ([]*models.Question, error) {
	args := m.Called(ctx, questionType, filters)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Search(ctx context.Context, query string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, query, filters)
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetTypeBreakdown(ctx context.Context, createdBy string) (*repositories.QuestionTypeBreakdown, error) {
	args := m.Called(ctx, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.QuestionTypeBreakdown), args.Error(1)
}

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id string) (*models.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByIDWithAnswers(ctx context.Context, id string) (*models.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) Update(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttemptRepository) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) GetByUser(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	args := m.Called(ctx, userID, filters)
	return args.Get(0).([]*models.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) GetByNote(ctx context.Context, noteID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	args := m.Called(ctx, noteID, filters)
	return args.Get(0).([]*models.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) GetActiveAttempt(ctx context.Context, userID string, noteID uint) (*models.QuizAttempt, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) HasActiveAttempt(ctx context.Context, userID string, noteID uint) (bool, error) {
	args := m.Called(ctx, userID, noteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptRepository) CompleteAttempt(ctx context.Context, id string, completedAt time.Time, score float64, correct, total int) error {
	args := m.Called(ctx, id, completedAt, score, correct, total)
	return args.Error(0)
}

func (m *MockAttemptRepository) CreateAnswer(ctx context.Context, answer *models.AttemptAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetAnswers(ctx context.Context, attemptID string) ([]*models.AttemptAnswer, error) {
	args := m.Called(ctx, attemptID)
	return args.Get(0).([]*models.AttemptAnswer), args.Error(1)
}

func (m *MockAttemptRepository) GetNoteAttemptStats(ctx context.Context, noteID uint) (*repositories.AttemptStats, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.AttemptStats), args.Error(1)
}

// MockImportJobRepository is a mock implementation of ImportJobRepository
type MockImportJobRepository struct {
	mock.Mock
}

func (m *MockImportJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportJobRepository) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) Update(ctx context.Context, job *models.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportJobRepository) GetByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ImportJob, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.ImportJob), args.Get(1).(int64), args.Error(2)
}

// mockRepository aggregates the per-model mocks behind the Repository
// interface.
type mockRepository struct {
	notes     *MockNoteRepository
	questions *MockQuestionRepository
	attempts  *MockAttemptRepository
	jobs      *MockImportJobRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		notes:     new(MockNoteRepository),
		questions: new(MockQuestionRepository),
		attempts:  new(MockAttemptRepository),
		jobs:      new(MockImportJobRepository),
	}
}

func (r *mockRepository) Note() repositories.NoteRepository           { return r.notes }
func (r *mockRepository) Question() repositories.QuestionRepository   { return r.questions }
func (r *mockRepository) Attempt() repositories.AttemptRepository     { return r.attempts }
func (r *mockRepository) ImportJob() repositories.ImportJobRepository { return r.jobs }

// noopCache is an in-memory CacheService that never hits.
type noopCache struct{}

func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (noopCache) Delete(ctx context.Context, key string) error { return nil }

func (noopCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
