package callout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		q    Question
	}{
		{"true_false_true", TrueFalse{Question: "Go has generics.", Answer: true}},
		{"true_false_false", TrueFalse{Question: "Go has inheritance.", Answer: false}},
		{"multiple_choice", MultipleChoice{
			Question: "Largest planet?",
			Options:  []string{"Mars", "Jupiter", "Venus", "Saturn"},
			Answer:   1,
		}},
		{"multiple_choice_last_option", MultipleChoice{
			Question: "Smallest prime?",
			Options:  []string{"0", "1", "2"},
			Answer:   2,
		}},
		{"select_all", SelectAll{
			Question: "Which are even?",
			Options:  []string{"1", "2", "3", "4"},
			Answers:  []int{1, 3},
		}},
		{"fill_blank_single", FillBlank{
			Question: "Water boils at `___` degrees Celsius.",
			Answers:  []string{"100"},
		}},
		{"fill_blank_multiple", FillBlank{
			Question: "`__` plus `__` equals `____`.",
			Answers:  []string{"one", "two", "three"},
		}},
		{"short_answer", ShortAnswer{
			Question: "What does DNS stand for?",
			Answer:   "Domain Name System",
		}},
		{"escaped_paragraph_break", ShortAnswer{
			Question: `Read the passage.\nWhat is the theme?`,
			Answer:   "Perseverance",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded := Decode(Encode(tc.q))
			require.Len(t, decoded, 1)
			assert.Equal(t, tc.q, decoded[0])
		})
	}
}

// The matching encoder shuffles both columns for display, so letters get
// reassigned on every encode. The decoded pair set must still equal the
// original pair set.
func TestMatchingRoundTripUpToRelabeling(t *testing.T) {
	q := Matching{
		Question: "Match element to symbol.",
		Pairs: []Pair{
			{Left: "Gold", Right: "Au"},
			{Left: "Iron", Right: "Fe"},
			{Left: "Lead", Right: "Pb"},
			{Left: "Tin", Right: "Sn"},
		},
	}

	// Repeat to cover many shuffle outcomes.
	for i := 0; i < 50; i++ {
		decoded := Decode(Encode(q))
		require.Len(t, decoded, 1)
		got, ok := decoded[0].(Matching)
		require.True(t, ok)
		assert.Equal(t, q.Question, got.Question)
		assert.ElementsMatch(t, q.Pairs, got.Pairs)
	}
}

func TestMatchingRoundTripAtPairBound(t *testing.T) {
	q := Matching{Question: "Thirteen pairs."}
	for i := 0; i < MaxPairs; i++ {
		q.Pairs = append(q.Pairs, Pair{
			Left:  string(rune('A' + i)),
			Right: string(rune('0' + i)),
		})
	}

	decoded := Decode(Encode(q))
	require.Len(t, decoded, 1)
	got, ok := decoded[0].(Matching)
	require.True(t, ok)
	assert.ElementsMatch(t, q.Pairs, got.Pairs)
}

func TestChoiceRoundTripAtOptionBound(t *testing.T) {
	q := SelectAll{Question: "All twenty-six."}
	for i := 0; i < MaxOptions; i++ {
		q.Options = append(q.Options, string(optionLetter(i))+"-option")
	}
	q.Answers = []int{0, 12, 25}

	decoded := Decode(Encode(q))
	require.Len(t, decoded, 1)
	got, ok := decoded[0].(SelectAll)
	require.True(t, ok)
	assert.Equal(t, q.Options, got.Options)
	assert.ElementsMatch(t, q.Answers, got.Answers)
}
