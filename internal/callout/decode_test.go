package callout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMultipleChoiceBlock(t *testing.T) {
	doc := "# Geography\n\n" +
		"> [!question] Capital of France?\n" +
		"> a) Paris\n" +
		"> b) Lyon\n" +
		"> c) Nice\n" +
		">> [!success]\n" +
		">> a) Paris\n\n" +
		"Some trailing prose.\n"

	questions := Decode(doc)
	require.Len(t, questions, 1)
	assert.Equal(t, MultipleChoice{
		Question: "Capital of France?",
		Options:  []string{"Paris", "Lyon", "Nice"},
		Answer:   0,
	}, questions[0])
}

func TestDecodeSelectAllKeepsAnswerLetterOrder(t *testing.T) {
	// Answer letters appear out of ascending order; the decoded indices keep
	// the order of appearance in the success block.
	doc := "> [!question] Which are mammals?\n" +
		"> a) Trout\n" +
		"> b) Whale\n" +
		"> c) Bat\n" +
		">> [!success]\n" +
		">> c) Bat\n" +
		">> b) Whale\n\n"

	questions := Decode(doc)
	require.Len(t, questions, 1)
	q, ok := questions[0].(SelectAll)
	require.True(t, ok)
	assert.Equal(t, []int{2, 1}, q.Answers)
}

func TestDecodeMatchingResolvesLettersToText(t *testing.T) {
	doc := "> [!question] Match the capitals.\n" +
		">> [!example] Group A\n" +
		">> a) Italy\n" +
		">> b) France\n" +
		">> [!example] Group B\n" +
		">> n) Paris\n" +
		">> o) Rome\n" +
		">> [!success]\n" +
		">> a) -> o)\n" +
		">> b) -> n)\n\n"

	questions := Decode(doc)
	require.Len(t, questions, 1)
	q, ok := questions[0].(Matching)
	require.True(t, ok)
	assert.ElementsMatch(t, []Pair{
		{Left: "Italy", Right: "Rome"},
		{Left: "France", Right: "Paris"},
	}, q.Pairs)
}

func TestDecodeTrueFalseIsCaseInsensitive(t *testing.T) {
	doc := "> [!question] The earth orbits the sun.\n>> [!success]\n>> TRUE\n\n"
	questions := Decode(doc)
	require.Len(t, questions, 1)
	assert.Equal(t, TrueFalse{Question: "The earth orbits the sun.", Answer: true}, questions[0])
}

func TestDecodeFillBlankSplitsOnCommaWhitespace(t *testing.T) {
	doc := "> [!question] `___` discovered `___`.\n>> [!success]\n>> Curie, radium\n\n"
	questions := Decode(doc)
	require.Len(t, questions, 1)
	assert.Equal(t, FillBlank{
		Question: "`___` discovered `___`.",
		Answers:  []string{"Curie", "radium"},
	}, questions[0])
}

func TestDecodeShortAnswer(t *testing.T) {
	doc := "> [!question] Define entropy.\n>> [!success]\n>> A measure of disorder.\n\n"
	questions := Decode(doc)
	require.Len(t, questions, 1)
	assert.Equal(t, ShortAnswer{Question: "Define entropy.", Answer: "A measure of disorder."}, questions[0])
}

// The variant is classified by content, not by a type tag. A short-answer
// block whose model answer is literally "True" decodes as true/false. Pinned
// so any future format change shows up as a deliberate diff.
func TestDecodeClassificationAmbiguityIsPreserved(t *testing.T) {
	doc := "> [!question] Answer with the word printed on the card.\n>> [!success]\n>> True\n\n"
	questions := Decode(doc)
	require.Len(t, questions, 1)
	assert.Equal(t, TrueFalse{Question: "Answer with the word printed on the card.", Answer: true}, questions[0])
}

func TestDecodeSkipsMalformedMatchingBlock(t *testing.T) {
	// Three left options, two right options, two pair lines: count mismatch.
	doc := "> [!question] Broken matching.\n" +
		">> [!example] Group A\n" +
		">> a) one\n" +
		">> b) two\n" +
		">> c) three\n" +
		">> [!example] Group B\n" +
		">> n) uno\n" +
		">> o) dos\n" +
		">> [!success]\n" +
		">> a) -> n)\n" +
		">> b) -> o)\n\n" +
		"> [!question] Still fine?\n" +
		">> [!success]\n" +
		">> True\n\n"

	questions := Decode(doc)
	require.Len(t, questions, 1)
	assert.Equal(t, TrueFalseType, questions[0].Kind())
}

func TestDecodeSkipsChoiceBlockWithMoreAnswersThanOptions(t *testing.T) {
	doc := "> [!question] Too many answers.\n" +
		"> a) one\n" +
		">> [!success]\n" +
		">> a) one\n" +
		">> b) two\n\n"
	assert.Empty(t, Decode(doc))
}

func TestDecodeSkipsChoiceBlockWithoutAnswer(t *testing.T) {
	doc := "> [!question] No answer here.\n> a) one\n> b) two\n>> [!success]\n\n"
	assert.Empty(t, Decode(doc))
}

func TestDecodeSkipsAnswerLetterOutsideOptions(t *testing.T) {
	doc := "> [!question] Out of range.\n> a) one\n> b) two\n>> [!success]\n>> d) four\n\n"
	assert.Empty(t, Decode(doc))
}

func TestDecodeResultsFollowDocumentOrder(t *testing.T) {
	doc := "> [!question] First is short answer.\n>> [!success]\n>> An answer.\n\n" +
		"> [!question] Second is multiple choice.\n> a) x\n> b) y\n>> [!success]\n>> b) y\n\n" +
		"> [!question] Third is true/false.\n>> [!success]\n>> False\n\n"

	questions := Decode(doc)
	require.Len(t, questions, 3)
	assert.Equal(t, ShortAnswerType, questions[0].Kind())
	assert.Equal(t, MultipleChoiceType, questions[1].Kind())
	assert.Equal(t, TrueFalseType, questions[2].Kind())
}

func TestDecodeToleratesSpacedMarkersAndCase(t *testing.T) {
	doc := "> [!Question]- Capital of Spain?\n" +
		"> A) Madrid\n" +
		"> b) Seville\n" +
		"> > [!SUCCESS]\n" +
		"> > a) Madrid\n\n"

	questions := Decode(doc)
	require.Len(t, questions, 1)
	q, ok := questions[0].(MultipleChoice)
	require.True(t, ok)
	assert.Equal(t, 0, q.Answer)
	assert.Equal(t, []string{"Madrid", "Seville"}, q.Options)
}

func TestDecodeTakesAnswerFromSuccessHeaderTrailingText(t *testing.T) {
	// Hand-edited notes sometimes put the answer on the header line itself.
	doc := "> [!question] Is this tolerated?\n>> [!success] True\n\n"
	questions := Decode(doc)
	require.Len(t, questions, 1)
	assert.Equal(t, TrueFalse{Question: "Is this tolerated?", Answer: true}, questions[0])
}

func TestDecodeIgnoresDocumentsWithoutQuestionCallouts(t *testing.T) {
	assert.Empty(t, Decode("# Just a note\n\n> [!note] A plain callout\n> with content\n"))
	assert.Empty(t, Decode(""))
}

func TestDecodeIsReferentiallyTransparent(t *testing.T) {
	doc := "> [!question] Stable?\n>> [!success]\n>> True\n\n"
	first := Decode(doc)
	second := Decode(doc)
	assert.Equal(t, first, second)
}
