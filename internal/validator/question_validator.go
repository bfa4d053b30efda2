package validator

import (
	"encoding/json"
	"fmt"

	"github.com/quizvault/vault-quiz-service/internal/callout"
	"github.com/quizvault/vault-quiz-service/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.Text == "" {
		return fmt.Errorf("question text is required")
	}
	return v.ValidatePayload(question.Type, question.Content, question.Answer)
}

// ValidatePayload validates the Content/Answer JSONB pair against the rules
// of the question type: option and pair counts stay within the letter
// alphabets, answer indexes stay in range, and answer sets are non-empty.
func (v *QuestionValidator) ValidatePayload(questionType models.QuestionType, content, answer []byte) error {
	switch questionType {
	case models.MultipleChoice:
		return v.validateMultipleChoice(content, answer)
	case models.TrueFalse:
		return v.validateTrueFalse(answer)
	case models.SelectAll:
		return v.validateSelectAll(content, answer)
	case models.FillInBlank:
		return v.validateFillBlank(answer)
	case models.Matching:
		return v.validateMatching(answer)
	case models.ShortAnswer:
		return v.validateShortAnswer(answer)
	default:
		return fmt.Errorf("unsupported question type: %s", questionType)
	}
}

// ValidateCallout validates a decoded callout question before it is encoded
// or persisted.
func (v *QuestionValidator) ValidateCallout(q callout.Question) error {
	if q.Prompt() == "" {
		return fmt.Errorf("question text is required")
	}

	switch q := q.(type) {
	case callout.MultipleChoice:
		if err := checkOptionCount(len(q.Options)); err != nil {
			return err
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return fmt.Errorf("answer index %d out of range for %d options", q.Answer, len(q.Options))
		}
	case callout.SelectAll:
		if err := checkOptionCount(len(q.Options)); err != nil {
			return err
		}
		if len(q.Answers) == 0 {
			return fmt.Errorf("select-all question must have at least one correct answer")
		}
		seen := make(map[int]bool, len(q.Answers))
		for _, idx := range q.Answers {
			if idx < 0 || idx >= len(q.Options) {
				return fmt.Errorf("answer index %d out of range for %d options", idx, len(q.Options))
			}
			if seen[idx] {
				return fmt.Errorf("duplicate answer index %d", idx)
			}
			seen[idx] = true
		}
	case callout.FillBlank:
		blanks := callout.CountBlankMarkers(q.Question)
		if blanks == 0 {
			return fmt.Errorf("fill-blank question text must contain a blank marker")
		}
		if len(q.Answers) != blanks {
			return fmt.Errorf("fill-blank question has %d blanks but %d answers", blanks, len(q.Answers))
		}
	case callout.Matching:
		if len(q.Pairs) == 0 {
			return fmt.Errorf("matching question must have at least one pair")
		}
		if len(q.Pairs) > callout.MaxPairs {
			return fmt.Errorf("matching question has %d pairs, maximum is %d", len(q.Pairs), callout.MaxPairs)
		}
	case callout.ShortAnswer:
		if q.Answer == "" {
			return fmt.Errorf("short-answer question must have an answer")
		}
	case callout.TrueFalse:
		// Nothing beyond the prompt to check.
	default:
		return fmt.Errorf("unsupported question kind: %s", q.Kind())
	}

	return nil
}

func checkOptionCount(n int) error {
	if n < 2 {
		return fmt.Errorf("choice question must have at least 2 options, got %d", n)
	}
	if n > callout.MaxOptions {
		return fmt.Errorf("choice question has %d options, maximum is %d", n, callout.MaxOptions)
	}
	return nil
}

func (v *QuestionValidator) validateMultipleChoice(content, answer []byte) error {
	var c models.ChoiceContent
	if err := unmarshalPayload(content, &c); err != nil {
		return fmt.Errorf("invalid multiple-choice content: %w", err)
	}
	if err := checkOptionCount(len(c.Options)); err != nil {
		return err
	}

	var a models.MultipleChoiceAnswer
	if err := unmarshalPayload(answer, &a); err != nil {
		return fmt.Errorf("invalid multiple-choice answer: %w", err)
	}
	if a.Selected < 0 || a.Selected >= len(c.Options) {
		return fmt.Errorf("answer index %d out of range for %d options", a.Selected, len(c.Options))
	}
	return nil
}

func (v *QuestionValidator) validateTrueFalse(answer []byte) error {
	var a models.TrueFalseAnswer
	if err := unmarshalPayload(answer, &a); err != nil {
		return fmt.Errorf("invalid true-false answer: %w", err)
	}
	return nil
}

func (v *QuestionValidator) validateSelectAll(content, answer []byte) error {
	var c models.ChoiceContent
	if err := unmarshalPayload(content, &c); err != nil {
		return fmt.Errorf("invalid select-all content: %w", err)
	}
	if err := checkOptionCount(len(c.Options)); err != nil {
		return err
	}

	var a models.SelectAllAnswer
	if err := unmarshalPayload(answer, &a); err != nil {
		return fmt.Errorf("invalid select-all answer: %w", err)
	}
	if len(a.Selected) == 0 {
		return fmt.Errorf("select-all question must have at least one correct answer")
	}
	for _, idx := range a.Selected {
		if idx < 0 || idx >= len(c.Options) {
			return fmt.Errorf("answer index %d out of range for %d options", idx, len(c.Options))
		}
	}
	return nil
}

func (v *QuestionValidator) validateFillBlank(answer []byte) error {
	var a models.FillBlankAnswer
	if err := unmarshalPayload(answer, &a); err != nil {
		return fmt.Errorf("invalid fill-blank answer: %w", err)
	}
	if len(a.Answers) == 0 {
		return fmt.Errorf("fill-blank question must have at least one answer")
	}
	return nil
}

func (v *QuestionValidator) validateMatching(answer []byte) error {
	var a models.MatchingAnswer
	if err := unmarshalPayload(answer, &a); err != nil {
		return fmt.Errorf("invalid matching answer: %w", err)
	}
	if len(a.Pairs) == 0 {
		return fmt.Errorf("matching question must have at least one pair")
	}
	if len(a.Pairs) > callout.MaxPairs {
		return fmt.Errorf("matching question has %d pairs, maximum is %d", len(a.Pairs), callout.MaxPairs)
	}
	for i, p := range a.Pairs {
		if p.Left == "" || p.Right == "" {
			return fmt.Errorf("matching pair %d has an empty side", i)
		}
	}
	return nil
}

func (v *QuestionValidator) validateShortAnswer(answer []byte) error {
	var a models.ShortAnswerResponse
	if err := unmarshalPayload(answer, &a); err != nil {
		return fmt.Errorf("invalid short-answer payload: %w", err)
	}
	if a.Text == "" {
		return fmt.Errorf("short-answer question must have an answer")
	}
	return nil
}

func unmarshalPayload(data []byte, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("payload is empty")
	}
	return json.Unmarshal(data, v)
}
