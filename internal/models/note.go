package models

import (
	"time"

	"gorm.io/gorm"
)

type NoteStatus string

const (
	NoteStatusActive   NoteStatus = "Active"
	NoteStatusStale    NoteStatus = "Stale" // content changed since last parse
	NoteStatusArchived NoteStatus = "Archived"
)

// Note is a markdown document that carries quiz question blocks in the
// callout format, plus attempt history in its frontmatter.
type Note struct {
	ID      uint       `json:"id" gorm:"primaryKey"`
	Path    string     `json:"path" gorm:"not null;size:500;uniqueIndex" validate:"required,max=500"`
	Title   string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Content string     `json:"content" gorm:"type:text"`
	Status  NoteStatus `json:"status" gorm:"default:Active;index" validate:"omitempty,oneof=Active Stale Archived"`

	// ContentHash fingerprints Content; the parse cache and the Stale status
	// both key off it.
	ContentHash string `json:"content_hash" gorm:"size:16;index"`

	// Metadata
	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question    `json:"questions" gorm:"foreignKey:NoteID"`
	Attempts  []QuizAttempt `json:"attempts" gorm:"foreignKey:NoteID"`

	// Computed fields (not stored)
	QuestionCount int `json:"question_count" gorm:"-"`
	AttemptCount  int `json:"attempt_count" gorm:"-"`
}

func (Note) TableName() string {
	return "notes"
}
