package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quizvault/vault-quiz-service/internal/callout"
	"github.com/quizvault/vault-quiz-service/internal/events"
	"github.com/quizvault/vault-quiz-service/internal/history"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/quizvault/vault-quiz-service/internal/validator"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// ImportExportService moves questions between the database and external
// files: markdown in the callout format, plus CSV and Excel for bulk editing.
type ImportExportService interface {
	// Import operations
	ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string, userID string) (*ImportResult, error)
	ImportQuestionsFromMarkdown(ctx context.Context, reader io.Reader, filename string, userID string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error)

	// Export operations
	ExportQuestionsToMarkdown(ctx context.Context, questionIDs []uint) ([]byte, error)
	ExportQuestionsToCSV(ctx context.Context, questionIDs []uint) ([]byte, error)
	ExportQuestionsToExcel(ctx context.Context, questionIDs []uint) ([]byte, error)

	// Job management
	GetImportJob(ctx context.Context, jobID string) (*models.ImportJob, error)
	GetImportJobs(ctx context.Context, userID string, limit, offset int) ([]*models.ImportJob, int64, error)
}

type importExportService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ImportExportService {
	return &importExportService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

type ImportResult struct {
	JobID        string                         `json:"job_id"`
	TotalBlocks  int                            `json:"total_blocks"`
	SuccessCount int                            `json:"success_count"`
	ErrorCount   int                            `json:"error_count"`
	Errors       []models.ImportValidationError `json:"errors"`
	Questions    []*models.Question             `json:"questions,omitempty"`
	Status       models.ImportJobStatus         `json:"status"`
}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string, userID string) (*ImportResult, error) {
	s.logger.Info("Starting file import", "filename", filename, "user_id", userID)

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".md", ".markdown":
		return s.ImportQuestionsFromMarkdown(ctx, file, filename, userID)
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, file, userID)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, file, userID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrImportUnsupportedFile, ext)
	}
}

// questionHeader counts callout question blocks in raw markdown, so blocks
// the decoder skipped can be reported as errors.
var questionHeader = regexp.MustCompile(`(?im)^\s*>\s*\[!question\]`)

func (s *importExportService) ImportQuestionsFromMarkdown(ctx context.Context, reader io.Reader, filename string, userID string) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown: %w", err)
	}

	text := string(data)
	totalBlocks := len(questionHeader.FindAllString(text, -1))
	if totalBlocks == 0 {
		return nil, ErrImportEmptyFile
	}

	decoded := callout.Decode(text)

	questions := make([]*models.Question, 0, len(decoded))
	var importErrors []models.ImportValidationError
	for i, q := range decoded {
		m, err := models.FromCallout(q, history.QuestionHash(q))
		if err != nil {
			importErrors = append(importErrors, models.ImportValidationError{
				Block:   i + 1,
				Field:   "question",
				Message: err.Error(),
			})
			continue
		}
		m.Order = i
		m.CreatedBy = userID
		questions = append(questions, m)
	}

	skipped := totalBlocks - len(decoded)
	for i := 0; i < skipped; i++ {
		importErrors = append(importErrors, models.ImportValidationError{
			Block:   len(decoded) + i + 1,
			Field:   "block",
			Message: "question block is malformed and was skipped",
		})
	}

	return s.finishImport(ctx, filename, int64(len(data)), totalBlocks, questions, importErrors, userID)
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, NewValidationError("file", "CSV must have header row and at least one data row", len(records))
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	for _, col := range []string{"question_type", "question_text", "correct_answer"} {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	var questions []*models.Question
	var importErrors []models.ImportValidationError

	for rowIndex, record := range records[1:] {
		question, rowErrors := s.parseTabularRow(record, headerMap, rowIndex+2, userID)
		if len(rowErrors) > 0 {
			importErrors = append(importErrors, rowErrors...)
			continue
		}
		questions = append(questions, question)
	}

	return s.finishImport(ctx, "questions.csv", 0, len(records)-1, questions, importErrors, userID)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, NewValidationError("file", "sheet must have header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	var questions []*models.Question
	var importErrors []models.ImportValidationError

	for rowIndex, record := range rows[1:] {
		question, rowErrors := s.parseTabularRow(record, headerMap, rowIndex+2, userID)
		if len(rowErrors) > 0 {
			importErrors = append(importErrors, rowErrors...)
			continue
		}
		questions = append(questions, question)
	}

	return s.finishImport(ctx, "questions.xlsx", 0, len(rows)-1, questions, importErrors, userID)
}

// finishImport persists the questions, records the job, and publishes the
// outcome event.
func (s *importExportService) finishImport(
	ctx context.Context,
	filename string,
	fileSize int64,
	totalBlocks int,
	questions []*models.Question,
	importErrors []models.ImportValidationError,
	userID string,
) (*ImportResult, error) {
	now := time.Now()
	job := &models.ImportJob{
		ID:          uuid.NewString(),
		UserID:      userID,
		FileName:    filename,
		FileSize:    fileSize,
		Status:      models.ImportProcessing,
		TotalBlocks: totalBlocks,
		StartedAt:   &now,
	}
	if err := s.repo.ImportJob().Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
			s.failJob(ctx, job, err)
			return nil, fmt.Errorf("failed to persist imported questions: %w", err)
		}
	}

	completedAt := time.Now()
	job.SuccessCount = len(questions)
	job.ErrorCount = len(importErrors)
	job.CompletedAt = &completedAt
	job.Status = models.ImportCompleted
	if len(questions) == 0 && len(importErrors) > 0 {
		job.Status = models.ImportValidationFailed
	}
	if len(importErrors) > 0 {
		if data, err := marshalJSON(importErrors); err == nil {
			job.Errors = data
		}
	}
	if err := s.repo.ImportJob().Update(ctx, job); err != nil {
		s.logger.Error("Failed to update import job", "job_id", job.ID, "error", err)
	}

	s.publishEvent(ctx, events.EventImportCompleted, &events.ImportCompletedEvent{
		JobID:        job.ID,
		UserID:       userID,
		FileName:     filename,
		TotalBlocks:  totalBlocks,
		SuccessCount: job.SuccessCount,
		ErrorCount:   job.ErrorCount,
		CompletedAt:  completedAt,
	})

	s.logger.Info("Import finished",
		"job_id", job.ID,
		"success", job.SuccessCount,
		"errors", job.ErrorCount)

	return &ImportResult{
		JobID:        job.ID,
		TotalBlocks:  totalBlocks,
		SuccessCount: job.SuccessCount,
		ErrorCount:   job.ErrorCount,
		Errors:       importErrors,
		Questions:    questions,
		Status:       job.Status,
	}, nil
}

func (s *importExportService) failJob(ctx context.Context, job *models.ImportJob, cause error) {
	now := time.Now()
	job.Status = models.ImportFailed
	job.CompletedAt = &now
	if err := s.repo.ImportJob().Update(ctx, job); err != nil {
		s.logger.Error("Failed to mark import job failed", "job_id", job.ID, "error", err)
	}
	s.publishEvent(ctx, events.EventImportFailed, &events.ImportFailedEvent{
		JobID:    job.ID,
		UserID:   job.UserID,
		FileName: job.FileName,
		Reason:   cause.Error(),
		FailedAt: now,
	})
}

// ===== TABULAR ROW PARSING =====

// Tabular columns: question_type, question_text, options (pipe-separated),
// correct_answer. Answer syntax per type: a letter for multiple choice,
// comma-separated letters for select-all, true/false, pipe-separated blank
// answers, "left -> right" pairs joined with pipes for matching, free text
// for short answer.
func (s *importExportService) parseTabularRow(record []string, headerMap map[string]int, rowNum int, userID string) (*models.Question, []models.ImportValidationError) {
	var rowErrors []models.ImportValidationError

	getField := func(name string) string {
		if idx, exists := headerMap[name]; exists && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	text := getField("question_text")
	if text == "" {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Block: rowNum, Field: "question_text", Message: "is required",
		})
	}

	typeField := strings.ToLower(getField("question_type"))
	answerField := getField("correct_answer")
	options := splitOptions(getField("options"))

	q, err := buildCalloutQuestion(typeField, text, options, answerField)
	if err != nil {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Block: rowNum, Field: "correct_answer", Message: err.Error(), Value: answerField,
		})
	}
	if len(rowErrors) > 0 {
		return nil, rowErrors
	}

	if err := s.validator.Question().ValidateCallout(q); err != nil {
		return nil, []models.ImportValidationError{{
			Block: rowNum, Field: "question", Message: err.Error(),
		}}
	}

	m, err := models.FromCallout(q, history.QuestionHash(q))
	if err != nil {
		return nil, []models.ImportValidationError{{
			Block: rowNum, Field: "question", Message: err.Error(),
		}}
	}
	m.CreatedBy = userID

	if difficulty := strings.ToLower(getField("difficulty")); difficulty != "" {
		m.Difficulty = models.DifficultyLevel(difficulty)
	}
	if explanation := getField("explanation"); explanation != "" {
		m.Explanation = &explanation
	}

	return m, nil
}

func buildCalloutQuestion(typeField, text string, options []string, answer string) (callout.Question, error) {
	switch models.QuestionType(typeField) {
	case models.MultipleChoice:
		idx, err := parseAnswerLetter(answer, len(options))
		if err != nil {
			return nil, err
		}
		return callout.MultipleChoice{Question: text, Options: options, Answer: idx}, nil
	case models.SelectAll:
		var indexes []int
		for _, part := range strings.Split(answer, ",") {
			idx, err := parseAnswerLetter(strings.TrimSpace(part), len(options))
			if err != nil {
				return nil, err
			}
			indexes = append(indexes, idx)
		}
		return callout.SelectAll{Question: text, Options: options, Answers: indexes}, nil
	case models.TrueFalse:
		switch strings.ToLower(answer) {
		case "true":
			return callout.TrueFalse{Question: text, Answer: true}, nil
		case "false":
			return callout.TrueFalse{Question: text, Answer: false}, nil
		default:
			return nil, fmt.Errorf("true/false answer must be 'true' or 'false', got %q", answer)
		}
	case models.FillInBlank:
		answers := splitOptions(answer)
		if len(answers) == 0 {
			return nil, fmt.Errorf("fill-blank answer must list one value per blank")
		}
		return callout.FillBlank{Question: text, Answers: answers}, nil
	case models.Matching:
		var pairs []callout.Pair
		for _, part := range splitOptions(answer) {
			sides := strings.SplitN(part, "->", 2)
			if len(sides) != 2 {
				return nil, fmt.Errorf("matching pair %q must use 'left -> right'", part)
			}
			pairs = append(pairs, callout.Pair{
				Left:  strings.TrimSpace(sides[0]),
				Right: strings.TrimSpace(sides[1]),
			})
		}
		return callout.Matching{Question: text, Pairs: pairs}, nil
	case models.ShortAnswer:
		return callout.ShortAnswer{Question: text, Answer: answer}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", typeField)
	}
}

func parseAnswerLetter(s string, optionCount int) (int, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("answer must be a single letter, got %q", s)
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	if c < 'a' || c > 'z' {
		return 0, fmt.Errorf("answer must be a letter a-z, got %q", s)
	}
	idx := int(c - 'a')
	if idx >= optionCount {
		return 0, fmt.Errorf("answer letter %q is outside the %d options", s, optionCount)
	}
	return idx, nil
}

func splitOptions(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportQuestionsToMarkdown(ctx context.Context, questionIDs []uint) ([]byte, error) {
	questions, err := s.loadQuestions(ctx, questionIDs)
	if err != nil {
		return nil, err
	}

	decoded := make([]callout.Question, 0, len(questions))
	for _, m := range questions {
		q, err := m.ToCallout()
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct question %d: %w", m.ID, err)
		}
		decoded = append(decoded, q)
	}
	return []byte(callout.EncodeAll(decoded)), nil
}

func (s *importExportService) ExportQuestionsToCSV(ctx context.Context, questionIDs []uint) ([]byte, error) {
	questions, err := s.loadQuestions(ctx, questionIDs)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader()); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, q := range questions {
		row, err := exportRow(q)
		if err != nil {
			return nil, err
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, questionIDs []uint) ([]byte, error) {
	questions, err := s.loadQuestions(ctx, questionIDs)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Questions"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range exportHeader() {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, q := range questions {
		row, err := exportRow(q)
		if err != nil {
			return nil, err
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportHeader() []string {
	return []string{"question_type", "question_text", "options", "correct_answer", "difficulty", "explanation"}
}

func exportRow(m *models.Question) ([]string, error) {
	q, err := m.ToCallout()
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct question %d: %w", m.ID, err)
	}

	var options, answer string
	switch q := q.(type) {
	case callout.MultipleChoice:
		options = strings.Join(q.Options, " | ")
		answer = string(rune('a' + q.Answer))
	case callout.SelectAll:
		options = strings.Join(q.Options, " | ")
		letters := make([]string, 0, len(q.Answers))
		for _, idx := range q.Answers {
			letters = append(letters, string(rune('a'+idx)))
		}
		answer = strings.Join(letters, ",")
	case callout.TrueFalse:
		answer = fmt.Sprintf("%t", q.Answer)
	case callout.FillBlank:
		answer = strings.Join(q.Answers, " | ")
	case callout.Matching:
		pairs := make([]string, 0, len(q.Pairs))
		for _, p := range q.Pairs {
			pairs = append(pairs, fmt.Sprintf("%s -> %s", p.Left, p.Right))
		}
		answer = strings.Join(pairs, " | ")
	case callout.ShortAnswer:
		answer = q.Answer
	}

	explanation := ""
	if m.Explanation != nil {
		explanation = *m.Explanation
	}

	return []string{
		string(m.Type),
		m.Text,
		options,
		answer,
		string(m.Difficulty),
		explanation,
	}, nil
}

// ===== JOB MANAGEMENT =====

func (s *importExportService) GetImportJob(ctx context.Context, jobID string) (*models.ImportJob, error) {
	job, err := s.repo.ImportJob().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrImportJobNotFound
		}
		return nil, fmt.Errorf("failed to get import job: %w", err)
	}
	return job, nil
}

func (s *importExportService) GetImportJobs(ctx context.Context, userID string, limit, offset int) ([]*models.ImportJob, int64, error) {
	jobs, total, err := s.repo.ImportJob().GetByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list import jobs: %w", err)
	}
	return jobs, total, nil
}

// ===== HELPERS =====

func (s *importExportService) loadQuestions(ctx context.Context, questionIDs []uint) ([]*models.Question, error) {
	if len(questionIDs) == 0 {
		return nil, NewValidationError("question_ids", "at least one question is required", nil)
	}
	questions, err := s.repo.Question().GetByIDs(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrQuestionNotFound
	}
	return questions, nil
}

func marshalJSON(v interface{}) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func (s *importExportService) publishEvent(ctx context.Context, eventType events.EventType, data interface{}) {
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
