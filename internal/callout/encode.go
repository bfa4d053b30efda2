package callout

import (
	"fmt"
	"strings"
)

// Callout header tokens as rendered by the host application.
const (
	questionHeader = "[!question]"
	successHeader  = "[!success]"
	exampleHeader  = "[!example]"
)

// Encode renders a question as a nested-blockquote callout block, terminated
// by a blank line. It is total: a question outside the closed variant set
// (possible only through a foreign Question implementation) produces a visible
// placeholder block instead of failing, so one bad record never corrupts the
// rest of a save operation.
//
// Preconditions (not runtime-checked): at most 26 options for multiple-choice
// and select-all, at most 13 pairs for matching. The letter alphabets cannot
// label anything beyond that.
func Encode(q Question) string {
	switch q := q.(type) {
	case TrueFalse:
		return encodeTrueFalse(q)
	case MultipleChoice:
		return encodeMultipleChoice(q)
	case SelectAll:
		return encodeSelectAll(q)
	case FillBlank:
		return encodeFillBlank(q)
	case Matching:
		return encodeMatching(q)
	case ShortAnswer:
		return encodeShortAnswer(q)
	default:
		return "> [!failure] Unrecognized question type\n\n"
	}
}

// EncodeAll renders a sequence of questions as consecutive callout blocks.
func EncodeAll(questions []Question) string {
	var b strings.Builder
	for _, q := range questions {
		b.WriteString(Encode(q))
	}
	return b.String()
}

func encodeTrueFalse(q TrueFalse) string {
	answer := "False"
	if q.Answer {
		answer = "True"
	}
	var b strings.Builder
	writeQuestionLine(&b, q.Question)
	b.WriteString(">> " + successHeader + "\n")
	b.WriteString(">> " + answer + "\n\n")
	return b.String()
}

func encodeMultipleChoice(q MultipleChoice) string {
	var b strings.Builder
	writeQuestionLine(&b, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "> %c) %s\n", optionLetter(i), opt)
	}
	b.WriteString(">> " + successHeader + "\n")
	fmt.Fprintf(&b, ">> %c) %s\n\n", optionLetter(q.Answer), q.Options[q.Answer])
	return b.String()
}

func encodeSelectAll(q SelectAll) string {
	var b strings.Builder
	writeQuestionLine(&b, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "> %c) %s\n", optionLetter(i), opt)
	}
	b.WriteString(">> " + successHeader + "\n")
	for _, idx := range q.Answers {
		fmt.Fprintf(&b, ">> %c) %s\n", optionLetter(idx), q.Options[idx])
	}
	b.WriteString("\n")
	return b.String()
}

func encodeFillBlank(q FillBlank) string {
	var b strings.Builder
	writeQuestionLine(&b, q.Question)
	b.WriteString(">> " + successHeader + "\n")
	b.WriteString(">> " + strings.Join(q.Answers, ", ") + "\n\n")
	return b.String()
}

// encodeMatching shuffles each column independently for display; the pair
// lines letter the shuffled positions, sorted by left position ascending. The
// underlying associations are unaffected, which is why the decoder resolves
// letters back to option text rather than keeping them.
func encodeMatching(q Matching) string {
	n := len(q.Pairs)
	leftOrder := Permutation(n)  // display position -> pair index
	rightOrder := Permutation(n)

	rightPos := make([]int, n) // pair index -> display position
	for pos, pair := range rightOrder {
		rightPos[pair] = pos
	}

	var b strings.Builder
	writeQuestionLine(&b, q.Question)
	b.WriteString(">> " + exampleHeader + " Group A\n")
	for pos, pair := range leftOrder {
		fmt.Fprintf(&b, ">> %c) %s\n", leftLetter(pos), q.Pairs[pair].Left)
	}
	b.WriteString(">> " + exampleHeader + " Group B\n")
	for pos, pair := range rightOrder {
		fmt.Fprintf(&b, ">> %c) %s\n", rightLetter(pos), q.Pairs[pair].Right)
	}
	b.WriteString(">> " + successHeader + "\n")
	for pos, pair := range leftOrder {
		fmt.Fprintf(&b, ">> %c) -> %c)\n", leftLetter(pos), rightLetter(rightPos[pair]))
	}
	b.WriteString("\n")
	return b.String()
}

func encodeShortAnswer(q ShortAnswer) string {
	var b strings.Builder
	writeQuestionLine(&b, q.Question)
	b.WriteString(">> " + successHeader + "\n")
	b.WriteString(">> " + q.Answer + "\n\n")
	return b.String()
}

// writeQuestionLine emits the question callout header. Raw newlines are
// stored as the literal two-character `\n` escape so the whole question
// survives as one logical line inside the block.
func writeQuestionLine(b *strings.Builder, text string) {
	text = strings.ReplaceAll(text, "\n", `\n`)
	b.WriteString("> " + questionHeader + " " + text + "\n")
}
