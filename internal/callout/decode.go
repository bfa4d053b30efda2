package callout

import (
	"regexp"
	"strings"
)

// answerSep splits a fill-in-the-blank answer body: comma plus whitespace.
var answerSep = regexp.MustCompile(`,\s+`)

// Decode scans a whole document for callout question blocks and reconstructs
// them in order of appearance. It never fails: a block that does not satisfy
// its category's structure is dropped and the scan continues, so one malformed
// question in a long, hand-edited note cannot take the rest down with it.
//
// The variant is re-derived from the shape of the matched answer, not from an
// explicit type tag. Two consequences are inherent to the format and kept
// deliberately: a short-answer block whose answer body reads exactly "true" or
// "false" decodes as true/false, and one whose prompt happens to contain a
// blank marker decodes as fill-in-the-blank.
func Decode(text string) []Question {
	lines := scan(text)
	var out []Question

	for i := 0; i < len(lines); i++ {
		if lines[i].kind != lineQuestion || lines[i].depth < 1 {
			continue
		}
		end := i + 1
		for end < len(lines) && lines[end].depth >= 1 && lines[end].kind != lineQuestion {
			end++
		}
		if q, ok := decodeBlock(lines[i], lines[i+1:end]); ok {
			out = append(out, q)
		}
		i = end - 1
	}

	return out
}

type optionEntry struct {
	letter byte
	text   string
}

// decodeBlock reconstructs one question from a question header and the block
// lines that follow it. ok is false on any structural or count-consistency
// violation.
func decodeBlock(header scannedLine, body []scannedLine) (Question, bool) {
	prompt := strings.TrimSpace(header.text)
	if prompt == "" {
		return nil, false
	}

	var (
		options []optionEntry   // lettered lines before any nested callout
		groups  [][]optionEntry // matching columns, one per example callout
		success []string        // text lines inside the success callout
		section = 0             // 0 question body, 1 example group, 2 success
	)

	for _, line := range body {
		switch line.kind {
		case lineBlank:
			continue
		case lineExample:
			groups = append(groups, nil)
			section = 1
		case lineSuccess:
			section = 2
			if t := strings.TrimSpace(line.text); t != "" {
				success = append(success, t)
			}
		case lineText:
			switch section {
			case 0:
				if m := optionLine.FindStringSubmatch(line.text); m != nil {
					options = append(options, optionEntry{letter: m[1][0], text: m[2]})
				}
			case 1:
				if m := optionLine.FindStringSubmatch(line.text); m != nil {
					g := len(groups) - 1
					groups[g] = append(groups[g], optionEntry{letter: m[1][0], text: m[2]})
				}
			case 2:
				success = append(success, line.text)
			}
		}
	}

	switch {
	case len(groups) > 0:
		return decodeMatching(prompt, groups, success)
	case len(options) > 0:
		return decodeChoice(prompt, options, success)
	default:
		return decodeTextAnswer(prompt, success)
	}
}

func decodeChoice(prompt string, entries []optionEntry, success []string) (Question, bool) {
	options := make([]string, 0, len(entries))
	for i, e := range entries {
		idx, ok := optionIndex(e.letter)
		if !ok || idx != i {
			return nil, false
		}
		options = append(options, e.text)
	}

	// Answer letters keep their order of appearance in the success block.
	var answers []int
	seen := make(map[int]bool)
	for _, line := range success {
		m := optionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx, ok := optionIndex(m[1][0])
		if !ok || idx >= len(options) {
			return nil, false
		}
		if seen[idx] {
			return nil, false
		}
		seen[idx] = true
		answers = append(answers, idx)
	}

	if len(answers) == 0 || len(answers) > len(options) {
		return nil, false
	}
	if len(answers) == 1 {
		return MultipleChoice{Question: prompt, Options: options, Answer: answers[0]}, true
	}
	return SelectAll{Question: prompt, Options: options, Answers: answers}, true
}

// decodeMatching resolves each pair line's letters back to option text using
// each column's own alphabet, so the reconstructed answer is independent of
// the display shuffle the encoder applied.
func decodeMatching(prompt string, groups [][]optionEntry, success []string) (Question, bool) {
	if len(groups) != 2 {
		return nil, false
	}

	left, ok := columnTexts(groups[0], leftIndex)
	if !ok {
		return nil, false
	}
	right, ok := columnTexts(groups[1], rightIndex)
	if !ok {
		return nil, false
	}
	if len(left) == 0 || len(left) != len(right) {
		return nil, false
	}

	var pairs []Pair
	for _, line := range success {
		m := pairLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		li, ok := leftIndex(m[1][0])
		if !ok || li >= len(left) {
			return nil, false
		}
		ri, ok := rightIndex(m[2][0])
		if !ok || ri >= len(right) {
			return nil, false
		}
		pairs = append(pairs, Pair{Left: left[li], Right: right[ri]})
	}

	if len(pairs) != len(left) {
		return nil, false
	}
	return Matching{Question: prompt, Pairs: pairs}, true
}

func columnTexts(entries []optionEntry, index func(byte) (int, bool)) ([]string, bool) {
	texts := make([]string, 0, len(entries))
	for i, e := range entries {
		idx, ok := index(e.letter)
		if !ok || idx != i {
			return nil, false
		}
		texts = append(texts, e.text)
	}
	return texts, true
}

// decodeTextAnswer classifies the true-false / fill-blank / short-answer
// category by content, after the fact.
func decodeTextAnswer(prompt string, success []string) (Question, bool) {
	if len(success) == 0 {
		return nil, false
	}
	body := strings.TrimSpace(success[0])
	if body == "" {
		return nil, false
	}

	switch {
	case strings.EqualFold(body, "true"):
		return TrueFalse{Question: prompt, Answer: true}, true
	case strings.EqualFold(body, "false"):
		return TrueFalse{Question: prompt, Answer: false}, true
	case HasBlankMarker(prompt):
		return FillBlank{Question: prompt, Answers: answerSep.Split(body, -1)}, true
	default:
		return ShortAnswer{Question: prompt, Answer: body}, true
	}
}
