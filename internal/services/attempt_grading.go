package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quizvault/vault-quiz-service/internal/models"
)

// gradeAnswer compares a submitted response against the question's stored
// answer. Text comparisons are case-insensitive and whitespace-trimmed; set
// comparisons (select-all, matching) ignore order.
func gradeAnswer(question *models.Question, response json.RawMessage) (bool, error) {
	switch question.Type {
	case models.MultipleChoice:
		return gradeMultipleChoice(question.Answer, response)
	case models.TrueFalse:
		return gradeTrueFalse(question.Answer, response)
	case models.SelectAll:
		return gradeSelectAll(question.Answer, response)
	case models.FillInBlank:
		return gradeFillBlank(question.Answer, response)
	case models.Matching:
		return gradeMatching(question.Answer, response)
	case models.ShortAnswer:
		return gradeShortAnswer(question.Answer, response)
	default:
		return false, fmt.Errorf("cannot grade question type %q", question.Type)
	}
}

func gradeMultipleChoice(answer, response []byte) (bool, error) {
	var want, got models.MultipleChoiceAnswer
	if err := unmarshalBoth(answer, &want, response, &got); err != nil {
		return false, err
	}
	return got.Selected == want.Selected, nil
}

func gradeTrueFalse(answer, response []byte) (bool, error) {
	var want, got models.TrueFalseAnswer
	if err := unmarshalBoth(answer, &want, response, &got); err != nil {
		return false, err
	}
	return got.Answer == want.Answer, nil
}

func gradeSelectAll(answer, response []byte) (bool, error) {
	var want, got models.SelectAllAnswer
	if err := unmarshalBoth(answer, &want, response, &got); err != nil {
		return false, err
	}
	if len(got.Selected) != len(want.Selected) {
		return false, nil
	}
	wantSet := make(map[int]bool, len(want.Selected))
	for _, idx := range want.Selected {
		wantSet[idx] = true
	}
	for _, idx := range got.Selected {
		if !wantSet[idx] {
			return false, nil
		}
	}
	return true, nil
}

// gradeFillBlank requires every blank to match its answer, position by
// position.
func gradeFillBlank(answer, response []byte) (bool, error) {
	var want, got models.FillBlankAnswer
	if err := unmarshalBoth(answer, &want, response, &got); err != nil {
		return false, err
	}
	if len(got.Answers) != len(want.Answers) {
		return false, nil
	}
	for i := range want.Answers {
		if normalizeText(got.Answers[i]) != normalizeText(want.Answers[i]) {
			return false, nil
		}
	}
	return true, nil
}

func gradeMatching(answer, response []byte) (bool, error) {
	var want, got models.MatchingAnswer
	if err := unmarshalBoth(answer, &want, response, &got); err != nil {
		return false, err
	}
	if len(got.Pairs) != len(want.Pairs) {
		return false, nil
	}
	wantPairs := make(map[string]string, len(want.Pairs))
	for _, p := range want.Pairs {
		wantPairs[normalizeText(p.Left)] = normalizeText(p.Right)
	}
	for _, p := range got.Pairs {
		if wantPairs[normalizeText(p.Left)] != normalizeText(p.Right) {
			return false, nil
		}
	}
	return true, nil
}

func gradeShortAnswer(answer, response []byte) (bool, error) {
	var want, got models.ShortAnswerResponse
	if err := unmarshalBoth(answer, &want, response, &got); err != nil {
		return false, err
	}
	return normalizeText(got.Text) == normalizeText(want.Text), nil
}

func unmarshalBoth(answer []byte, want interface{}, response []byte, got interface{}) error {
	if len(answer) == 0 {
		return fmt.Errorf("question has no stored answer")
	}
	if err := json.Unmarshal(answer, want); err != nil {
		return fmt.Errorf("invalid stored answer: %w", err)
	}
	if len(response) == 0 {
		return fmt.Errorf("empty response")
	}
	if err := json.Unmarshal(response, got); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
