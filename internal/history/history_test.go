package history

import (
	"strings"
	"testing"

	"github.com/quizvault/vault-quiz-service/internal/callout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoteCompactFormat(t *testing.T) {
	note := "---\n" +
		"title: Biology\n" +
		`quiz-history: '[{"h":"abc123","c":true,"t":1700000000},{"h":"def456","c":false,"t":1700000100}]'` + "\n" +
		"---\n" +
		"# Body\n"

	records, err := ParseNote(note)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{Hash: "abc123", Correct: true, Timestamp: 1700000000}, records[0])
	assert.Equal(t, Record{Hash: "def456", Correct: false, Timestamp: 1700000100}, records[1])
}

func TestParseNoteLegacyFallback(t *testing.T) {
	note := "---\n" +
		"quiz-attempts:\n" +
		"  - hash: abc123\n" +
		"    correct: true\n" +
		"    timestamp: 1600000000\n" +
		"  - hash: def456\n" +
		"    correct: false\n" +
		"    timestamp: 1600000500\n" +
		"---\n" +
		"Body text.\n"

	records, err := ParseNote(note)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "abc123", records[0].Hash)
	assert.True(t, records[0].Correct)
	assert.EqualValues(t, 1600000500, records[1].Timestamp)
}

func TestParseNoteCompactWinsOverLegacy(t *testing.T) {
	note := "---\n" +
		`quiz-history: '[{"h":"new","c":true,"t":1}]'` + "\n" +
		"quiz-attempts:\n" +
		"  - hash: old\n" +
		"    correct: false\n" +
		"    timestamp: 0\n" +
		"---\n"

	records, err := ParseNote(note)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].Hash)
}

func TestParseNoteWithoutFrontmatter(t *testing.T) {
	records, err := ParseNote("# No frontmatter here\n")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseNoteRejectsCorruptCompactValue(t *testing.T) {
	note := "---\nquiz-history: 'not json'\n---\n"
	_, err := ParseNote(note)
	assert.Error(t, err)
}

func TestUpdateNoteCreatesFrontmatter(t *testing.T) {
	updated, err := UpdateNote("# Fresh note\n", []Record{{Hash: "abc", Correct: true, Timestamp: 42}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated, "---\n"))
	assert.Contains(t, updated, "# Fresh note\n")

	records, err := ParseNote(updated)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{Hash: "abc", Correct: true, Timestamp: 42}, records[0])
}

func TestUpdateNotePreservesOtherKeysAndMigratesLegacy(t *testing.T) {
	note := "---\n" +
		"title: Chemistry\n" +
		"tags: [quiz, science]\n" +
		"quiz-attempts:\n" +
		"  - hash: old\n" +
		"    correct: true\n" +
		"    timestamp: 1\n" +
		"---\n" +
		"Body.\n"

	updated, err := UpdateNote(note, []Record{{Hash: "old", Correct: true, Timestamp: 1}, {Hash: "old", Correct: false, Timestamp: 2}})
	require.NoError(t, err)

	assert.Contains(t, updated, "title: Chemistry\n")
	assert.Contains(t, updated, "tags: [quiz, science]\n")
	assert.NotContains(t, updated, "quiz-attempts")
	assert.Contains(t, updated, "Body.\n")

	records, err := ParseNote(updated)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.False(t, records[1].Correct)
}

func TestUpdateNoteIsIdempotentOnRewrite(t *testing.T) {
	recs := []Record{{Hash: "h1", Correct: true, Timestamp: 10}}
	first, err := UpdateNote("---\ntitle: X\n---\nbody\n", recs)
	require.NoError(t, err)
	second, err := UpdateNote(first, recs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStreakCountsTrailingCorrectRun(t *testing.T) {
	records := []Record{
		{Hash: "q1", Correct: true, Timestamp: 1},
		{Hash: "q2", Correct: true, Timestamp: 2},
		{Hash: "q1", Correct: false, Timestamp: 3},
		{Hash: "q1", Correct: true, Timestamp: 4},
		{Hash: "q1", Correct: true, Timestamp: 5},
	}

	assert.Equal(t, 2, Streak(records, "q1"))
	assert.Equal(t, 1, Streak(records, "q2"))
	assert.Equal(t, 0, Streak(records, "unknown"))
}

func TestQuestionHashIsStable(t *testing.T) {
	q := callout.MultipleChoice{
		Question: "Capital of France?",
		Options:  []string{"Paris", "Lyon"},
		Answer:   0,
	}
	assert.Equal(t, QuestionHash(q), QuestionHash(q))

	other := callout.MultipleChoice{
		Question: "Capital of France?",
		Options:  []string{"Paris", "Lyon"},
		Answer:   1,
	}
	assert.NotEqual(t, QuestionHash(q), QuestionHash(other))
}

func TestQuestionHashIgnoresAnswerOrderWhereAnswerIsASet(t *testing.T) {
	a := callout.SelectAll{Question: "Q", Options: []string{"x", "y", "z"}, Answers: []int{0, 2}}
	b := callout.SelectAll{Question: "Q", Options: []string{"x", "y", "z"}, Answers: []int{2, 0}}
	assert.Equal(t, QuestionHash(a), QuestionHash(b))

	m1 := callout.Matching{Question: "Q", Pairs: []callout.Pair{{Left: "a", Right: "1"}, {Left: "b", Right: "2"}}}
	m2 := callout.Matching{Question: "Q", Pairs: []callout.Pair{{Left: "b", Right: "2"}, {Left: "a", Right: "1"}}}
	assert.Equal(t, QuestionHash(m1), QuestionHash(m2))
}

func TestQuestionHashSurvivesEncodeDecode(t *testing.T) {
	q := callout.Matching{
		Question: "Match.",
		Pairs:    []callout.Pair{{Left: "A", Right: "1"}, {Left: "B", Right: "2"}},
	}

	decoded := callout.Decode(callout.Encode(q))
	require.Len(t, decoded, 1)
	assert.Equal(t, QuestionHash(q), QuestionHash(decoded[0]))
}
