package services

import (
	"encoding/json"
	"testing"

	"github.com/quizvault/vault-quiz-service/internal/callout"
	"github.com/quizvault/vault-quiz-service/internal/history"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionFor(t *testing.T, q callout.Question) *models.Question {
	t.Helper()
	m, err := models.FromCallout(q, history.QuestionHash(q))
	require.NoError(t, err)
	return m
}

func respond(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestGradeMultipleChoice(t *testing.T) {
	q := questionFor(t, callout.MultipleChoice{
		Question: "Capital of France?",
		Options:  []string{"Paris", "London", "Berlin"},
		Answer:   0,
	})

	correct, err := gradeAnswer(q, respond(t, models.MultipleChoiceAnswer{Selected: 0}))
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = gradeAnswer(q, respond(t, models.MultipleChoiceAnswer{Selected: 2}))
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestGradeTrueFalse(t *testing.T) {
	q := questionFor(t, callout.TrueFalse{Question: "The sky is blue", Answer: true})

	correct, err := gradeAnswer(q, respond(t, models.TrueFalseAnswer{Answer: true}))
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = gradeAnswer(q, respond(t, models.TrueFalseAnswer{Answer: false}))
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestGradeSelectAllIgnoresOrder(t *testing.T) {
	q := questionFor(t, callout.SelectAll{
		Question: "Primary colors?",
		Options:  []string{"Red", "Green", "Blue", "Yellow"},
		Answers:  []int{0, 2, 3},
	})

	correct, err := gradeAnswer(q, respond(t, models.SelectAllAnswer{Selected: []int{3, 0, 2}}))
	require.NoError(t, err)
	assert.True(t, correct)

	// Subset is not enough
	correct, err = gradeAnswer(q, respond(t, models.SelectAllAnswer{Selected: []int{0, 2}}))
	require.NoError(t, err)
	assert.False(t, correct)

	// Superset is wrong too
	correct, err = gradeAnswer(q, respond(t, models.SelectAllAnswer{Selected: []int{0, 1, 2, 3}}))
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestGradeFillBlankIsPositional(t *testing.T) {
	q := questionFor(t, callout.FillBlank{
		Question: "The `_` jumped over the `_`",
		Answers:  []string{"cow", "moon"},
	})

	correct, err := gradeAnswer(q, respond(t, models.FillBlankAnswer{Answers: []string{"  Cow ", "MOON"}}))
	require.NoError(t, err)
	assert.True(t, correct, "comparison should trim and ignore case")

	correct, err = gradeAnswer(q, respond(t, models.FillBlankAnswer{Answers: []string{"moon", "cow"}}))
	require.NoError(t, err)
	assert.False(t, correct, "blanks are graded by position")
}

func TestGradeMatchingIgnoresPairOrder(t *testing.T) {
	q := questionFor(t, callout.Matching{
		Question: "Match countries to capitals",
		Pairs: []callout.Pair{
			{Left: "France", Right: "Paris"},
			{Left: "Japan", Right: "Tokyo"},
		},
	})

	correct, err := gradeAnswer(q, respond(t, models.MatchingAnswer{Pairs: []models.MatchPair{
		{Left: "Japan", Right: "Tokyo"},
		{Left: "France", Right: "Paris"},
	}}))
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = gradeAnswer(q, respond(t, models.MatchingAnswer{Pairs: []models.MatchPair{
		{Left: "Japan", Right: "Paris"},
		{Left: "France", Right: "Tokyo"},
	}}))
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestGradeShortAnswerNormalizes(t *testing.T) {
	q := questionFor(t, callout.ShortAnswer{Question: "Who wrote Hamlet?", Answer: "Shakespeare"})

	correct, err := gradeAnswer(q, respond(t, models.ShortAnswerResponse{Text: "  shakespeare "}))
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = gradeAnswer(q, respond(t, models.ShortAnswerResponse{Text: "Marlowe"}))
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestGradeRejectsMalformedResponse(t *testing.T) {
	q := questionFor(t, callout.TrueFalse{Question: "x", Answer: true})

	_, err := gradeAnswer(q, json.RawMessage(`{invalid`))
	assert.Error(t, err)

	_, err = gradeAnswer(q, nil)
	assert.Error(t, err)
}
