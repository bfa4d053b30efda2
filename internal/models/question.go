package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	SelectAll      QuestionType = "select_all"
	FillInBlank    QuestionType = "fill_blank"
	Matching       QuestionType = "matching"
	ShortAnswer    QuestionType = "short_answer"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Question is the persisted form of a callout question. Content and Answer
// are stored as JSONB with a shape per question type (see answer.go); Hash is
// the stable content hash used to join attempt-history records back to the
// question across re-parses of the source note.
type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	NoteID *uint        `json:"note_id" gorm:"index"` // null for questions not yet saved to a note
	Type   QuestionType `json:"type" gorm:"not null;index" validate:"required,question_type"`
	Text   string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Hash   string       `json:"hash" gorm:"not null;index;size:16"`
	Order  int          `json:"order" gorm:"default:0"`

	// Content stored as JSONB for flexibility across question types
	Content datatypes.JSON `json:"content" gorm:"type:jsonb"`
	Answer  datatypes.JSON `json:"answer" gorm:"type:jsonb"` // correct answer for the question

	// Categorization
	Difficulty DifficultyLevel `json:"difficulty" gorm:"default:medium;index" validate:"omitempty,difficulty_level"`
	Tags       datatypes.JSON  `json:"tags" gorm:"type:jsonb"` // []string

	// Metadata
	Explanation *string   `json:"explanation" gorm:"type:text"`
	CreatedBy   string    `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Note *Note `json:"note" gorm:"foreignKey:NoteID"`

	// Statistics (computed)
	AttemptCount int     `json:"attempt_count" gorm:"-"`
	CorrectRate  float64 `json:"correct_rate" gorm:"-"`
}

func (Question) TableName() string {
	return "questions"
}
