package models

import (
	"encoding/json"
	"fmt"

	"github.com/quizvault/vault-quiz-service/internal/callout"
	"gorm.io/datatypes"
)

// FromCallout maps a decoded callout question onto the persisted model.
func FromCallout(q callout.Question, hash string) (*Question, error) {
	m := &Question{
		Text: q.Prompt(),
		Hash: hash,
	}

	switch q := q.(type) {
	case callout.TrueFalse:
		m.Type = TrueFalse
		if err := setJSON(&m.Answer, TrueFalseAnswer{Answer: q.Answer}); err != nil {
			return nil, err
		}
	case callout.MultipleChoice:
		m.Type = MultipleChoice
		if err := setJSON(&m.Content, ChoiceContent{Options: q.Options}); err != nil {
			return nil, err
		}
		if err := setJSON(&m.Answer, MultipleChoiceAnswer{Selected: q.Answer}); err != nil {
			return nil, err
		}
	case callout.SelectAll:
		m.Type = SelectAll
		if err := setJSON(&m.Content, ChoiceContent{Options: q.Options}); err != nil {
			return nil, err
		}
		if err := setJSON(&m.Answer, SelectAllAnswer{Selected: q.Answers}); err != nil {
			return nil, err
		}
	case callout.FillBlank:
		m.Type = FillInBlank
		if err := setJSON(&m.Answer, FillBlankAnswer{Answers: q.Answers}); err != nil {
			return nil, err
		}
	case callout.Matching:
		m.Type = Matching
		pairs := make([]MatchPair, 0, len(q.Pairs))
		for _, p := range q.Pairs {
			pairs = append(pairs, MatchPair{Left: p.Left, Right: p.Right})
		}
		if err := setJSON(&m.Answer, MatchingAnswer{Pairs: pairs}); err != nil {
			return nil, err
		}
	case callout.ShortAnswer:
		m.Type = ShortAnswer
		if err := setJSON(&m.Answer, ShortAnswerResponse{Text: q.Answer}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported question kind %q", q.Kind())
	}

	return m, nil
}

// ToCallout reconstructs the callout question from the persisted model.
func (q *Question) ToCallout() (callout.Question, error) {
	switch q.Type {
	case TrueFalse:
		var a TrueFalseAnswer
		if err := getJSON(q.Answer, &a); err != nil {
			return nil, err
		}
		return callout.TrueFalse{Question: q.Text, Answer: a.Answer}, nil
	case MultipleChoice:
		var c ChoiceContent
		var a MultipleChoiceAnswer
		if err := getJSON(q.Content, &c); err != nil {
			return nil, err
		}
		if err := getJSON(q.Answer, &a); err != nil {
			return nil, err
		}
		return callout.MultipleChoice{Question: q.Text, Options: c.Options, Answer: a.Selected}, nil
	case SelectAll:
		var c ChoiceContent
		var a SelectAllAnswer
		if err := getJSON(q.Content, &c); err != nil {
			return nil, err
		}
		if err := getJSON(q.Answer, &a); err != nil {
			return nil, err
		}
		return callout.SelectAll{Question: q.Text, Options: c.Options, Answers: a.Selected}, nil
	case FillInBlank:
		var a FillBlankAnswer
		if err := getJSON(q.Answer, &a); err != nil {
			return nil, err
		}
		return callout.FillBlank{Question: q.Text, Answers: a.Answers}, nil
	case Matching:
		var a MatchingAnswer
		if err := getJSON(q.Answer, &a); err != nil {
			return nil, err
		}
		pairs := make([]callout.Pair, 0, len(a.Pairs))
		for _, p := range a.Pairs {
			pairs = append(pairs, callout.Pair{Left: p.Left, Right: p.Right})
		}
		return callout.Matching{Question: q.Text, Pairs: pairs}, nil
	case ShortAnswer:
		var a ShortAnswerResponse
		if err := getJSON(q.Answer, &a); err != nil {
			return nil, err
		}
		return callout.ShortAnswer{Question: q.Text, Answer: a.Text}, nil
	default:
		return nil, fmt.Errorf("unsupported question type %q", q.Type)
	}
}

func setJSON(dst *datatypes.JSON, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal question payload: %w", err)
	}
	*dst = datatypes.JSON(data)
	return nil
}

func getJSON(src datatypes.JSON, v interface{}) error {
	if len(src) == 0 {
		return fmt.Errorf("empty question payload")
	}
	if err := json.Unmarshal(src, v); err != nil {
		return fmt.Errorf("failed to unmarshal question payload: %w", err)
	}
	return nil
}
