package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// QuizAttempt is one pass of a user through the questions of a note.
type QuizAttempt struct {
	ID     string        `json:"id" gorm:"primaryKey;size:36"` // UUID
	NoteID uint          `json:"note_id" gorm:"not null;index"`
	UserID string        `json:"user_id" gorm:"not null;index;size:255"`
	Status AttemptStatus `json:"status" gorm:"default:in_progress;index"`

	// Scoring
	Score        float64 `json:"score" gorm:"default:0"` // 0-100
	CorrectCount int     `json:"correct_count" gorm:"default:0"`
	TotalCount   int     `json:"total_count" gorm:"default:0"`

	// Timestamps
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Note    Note            `json:"note" gorm:"foreignKey:NoteID"`
	Answers []AttemptAnswer `json:"answers" gorm:"foreignKey:AttemptID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AttemptAnswer records the submitted response for one question within an
// attempt. Response carries the per-type payload from answer.go as JSONB.
type AttemptAnswer struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	AttemptID    string `json:"attempt_id" gorm:"not null;index;size:36"`
	QuestionHash string `json:"question_hash" gorm:"not null;index;size:16"`

	Response  datatypes.JSON `json:"response" gorm:"type:jsonb"`
	Correct   bool           `json:"correct" gorm:"default:false"`
	TimeSpent int            `json:"time_spent" gorm:"default:0"` // seconds

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Attempt QuizAttempt `json:"attempt" gorm:"foreignKey:AttemptID"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
