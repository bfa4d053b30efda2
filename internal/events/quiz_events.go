package events

import (
	"time"

	"github.com/quizvault/vault-quiz-service/internal/models"
)

// EventType represents different types of quiz events
type EventType string

const (
	// Note events
	EventNoteParsed   EventType = "note.parsed"
	EventNoteStale    EventType = "note.stale"
	EventNoteArchived EventType = "note.archived"

	// Quiz events
	EventQuizSaved EventType = "quiz.saved"

	// Attempt events
	EventAttemptStarted   EventType = "attempt.started"
	EventAttemptSubmitted EventType = "attempt.submitted"
	EventAttemptAbandoned EventType = "attempt.abandoned"

	// Import events
	EventImportCompleted EventType = "import.completed"
	EventImportFailed    EventType = "import.failed"
)

// QuizEvent is the base event structure for all published events
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Note event payloads

type NoteParsedEvent struct {
	NoteID        uint                        `json:"note_id"`
	NotePath      string                      `json:"note_path"`
	QuestionCount int                         `json:"question_count"`
	TypeCounts    map[models.QuestionType]int `json:"type_counts"`
	ContentHash   string                      `json:"content_hash"`
	ParsedAt      time.Time                   `json:"parsed_at"`
}

type NoteStaleEvent struct {
	NoteID      uint      `json:"note_id"`
	NotePath    string    `json:"note_path"`
	ContentHash string    `json:"content_hash"`
	ChangedAt   time.Time `json:"changed_at"`
}

type NoteArchivedEvent struct {
	NoteID     uint      `json:"note_id"`
	NotePath   string    `json:"note_path"`
	ArchivedAt time.Time `json:"archived_at"`
}

// Quiz event payloads

type QuizSavedEvent struct {
	NoteID        uint      `json:"note_id"`
	NotePath      string    `json:"note_path"`
	QuestionCount int       `json:"question_count"`
	SavedBy       string    `json:"saved_by"`
	SavedAt       time.Time `json:"saved_at"`
}

// Attempt event payloads

type AttemptStartedEvent struct {
	AttemptID     string    `json:"attempt_id"`
	NoteID        uint      `json:"note_id"`
	NotePath      string    `json:"note_path"`
	UserID        string    `json:"user_id"`
	QuestionCount int       `json:"question_count"`
	StartedAt     time.Time `json:"started_at"`
}

type AttemptSubmittedEvent struct {
	AttemptID    string    `json:"attempt_id"`
	NoteID       uint      `json:"note_id"`
	NotePath     string    `json:"note_path"`
	UserID       string    `json:"user_id"`
	Score        float64   `json:"score"`
	CorrectCount int       `json:"correct_count"`
	TotalCount   int       `json:"total_count"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type AttemptAbandonedEvent struct {
	AttemptID   string    `json:"attempt_id"`
	NoteID      uint      `json:"note_id"`
	UserID      string    `json:"user_id"`
	AbandonedAt time.Time `json:"abandoned_at"`
}

// Import event payloads

type ImportCompletedEvent struct {
	JobID        string    `json:"job_id"`
	UserID       string    `json:"user_id"`
	FileName     string    `json:"file_name"`
	TotalBlocks  int       `json:"total_blocks"`
	SuccessCount int       `json:"success_count"`
	ErrorCount   int       `json:"error_count"`
	CompletedAt  time.Time `json:"completed_at"`
}

type ImportFailedEvent struct {
	JobID    string    `json:"job_id"`
	UserID   string    `json:"user_id"`
	FileName string    `json:"file_name"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}
