package models

// Per-type JSONB payload shapes for Question.Content / Question.Answer and
// AttemptAnswer.Response.

// ChoiceContent holds the option list for multiple-choice and select-all
// questions. At most 26 options: the callout format labels them a-z.
type ChoiceContent struct {
	Options []string `json:"options"`
}

type MultipleChoiceAnswer struct {
	Selected  int `json:"selected"` // zero-based index into options
	TimeSpent int `json:"time_spent"`
}

type SelectAllAnswer struct {
	Selected  []int `json:"selected"` // set of zero-based indices, order-independent
	TimeSpent int   `json:"time_spent"`
}

type TrueFalseAnswer struct {
	Answer    bool `json:"answer"`
	TimeSpent int  `json:"time_spent"`
}

type FillBlankAnswer struct {
	Answers   []string `json:"answers"` // one per blank marker, left to right
	TimeSpent int      `json:"time_spent"`
}

type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MatchingAnswer holds pair associations by option text, independent of the
// shuffled display letters. At most 13 pairs: the left column labels a-m, the
// right column n-z.
type MatchingAnswer struct {
	Pairs     []MatchPair `json:"pairs"`
	TimeSpent int         `json:"time_spent"`
}

type ShortAnswerResponse struct {
	Text      string `json:"text"`
	TimeSpent int    `json:"time_spent"`
}
