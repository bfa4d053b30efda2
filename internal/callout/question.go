package callout

import "regexp"

// Type identifies one of the question variants supported by the callout format.
type Type string

const (
	TrueFalseType      Type = "true_false"
	MultipleChoiceType Type = "multiple_choice"
	SelectAllType      Type = "select_all"
	FillBlankType      Type = "fill_blank"
	MatchingType       Type = "matching"
	ShortAnswerType    Type = "short_answer"
)

// Question is the closed set of question variants that can be encoded into and
// decoded from callout markdown. The prompt text may embed literal `\n` escape
// sequences for paragraph breaks and, for fill-in-the-blank questions, one or
// more blank markers (underscores wrapped in backticks).
type Question interface {
	Kind() Type
	Prompt() string
}

// TrueFalse is a statement graded against a boolean answer.
type TrueFalse struct {
	Question string
	Answer   bool
}

func (q TrueFalse) Kind() Type     { return TrueFalseType }
func (q TrueFalse) Prompt() string { return q.Question }

// MultipleChoice has a single correct option, identified by its zero-based
// index into Options. Options is bounded to 26 entries by the a-z labeling.
type MultipleChoice struct {
	Question string
	Options  []string
	Answer   int
}

func (q MultipleChoice) Kind() Type     { return MultipleChoiceType }
func (q MultipleChoice) Prompt() string { return q.Question }

// SelectAll has one or more correct options. Answers holds zero-based indices
// into Options; order is not significant.
type SelectAll struct {
	Question string
	Options  []string
	Answers  []int
}

func (q SelectAll) Kind() Type     { return SelectAllType }
func (q SelectAll) Prompt() string { return q.Question }

// FillBlank holds one answer per blank marker in the prompt, in left-to-right
// marker order.
type FillBlank struct {
	Question string
	Answers  []string
}

func (q FillBlank) Kind() Type     { return FillBlankType }
func (q FillBlank) Prompt() string { return q.Question }

// Pair is a stable left/right association in a matching question, independent
// of any display or storage order.
type Pair struct {
	Left  string
	Right string
}

// Matching associates up to 13 pairs, bounded by the two-alphabet labeling
// (a-m for the left column, n-z for the right).
type Matching struct {
	Question string
	Pairs    []Pair
}

func (q Matching) Kind() Type     { return MatchingType }
func (q Matching) Prompt() string { return q.Question }

// ShortAnswer carries a free-text model answer.
type ShortAnswer struct {
	Question string
	Answer   string
}

func (q ShortAnswer) Kind() Type     { return ShortAnswerType }
func (q ShortAnswer) Prompt() string { return q.Question }

// blankMarker matches the fill-in-the-blank placeholder: one or more
// underscores wrapped in single backticks.
var blankMarker = regexp.MustCompile("`_+`")

// HasBlankMarker reports whether text contains at least one blank marker.
func HasBlankMarker(text string) bool {
	return blankMarker.MatchString(text)
}

// CountBlankMarkers returns the number of blank markers in text.
func CountBlankMarkers(text string) int {
	return len(blankMarker.FindAllString(text, -1))
}
