package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportJobStatus string

const (
	ImportPending          ImportJobStatus = "pending"
	ImportProcessing       ImportJobStatus = "processing"
	ImportCompleted        ImportJobStatus = "completed"
	ImportFailed           ImportJobStatus = "failed"
	ImportValidationFailed ImportJobStatus = "validation_failed"
)

// ImportJob tracks a markdown import run: a note's text is decoded into
// questions and the per-block outcomes recorded here.
type ImportJob struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"` // UUID
	NoteID *uint  `json:"note_id" gorm:"index"`
	UserID string `json:"user_id" gorm:"not null;index;size:255"`

	// Source info
	FileName string `json:"file_name" gorm:"not null;size:255"`
	FileSize int64  `json:"file_size" gorm:"not null"`

	// Job status
	Status ImportJobStatus `json:"status" gorm:"default:pending;index"`

	// Processing info
	TotalBlocks  int `json:"total_blocks"`
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`

	// Results
	Errors datatypes.JSON `json:"errors" gorm:"type:jsonb"` // []ImportValidationError

	// Timestamps
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	Note *Note `json:"note" gorm:"foreignKey:NoteID"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}

type ImportValidationError struct {
	Block   int    `json:"block"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
}
