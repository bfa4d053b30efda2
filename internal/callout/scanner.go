package callout

import (
	"regexp"
	"strings"
)

// The decoder works on a line-oriented view of the document instead of the
// usual giant-regex approach: every line is reduced to its blockquote depth,
// callout kind, and remaining text, and blocks are reassembled from that. This
// keeps option and pair lists unbounded in the grammar itself; the 26/13 caps
// only exist where the letter alphabets run out.

type lineKind int

const (
	lineText lineKind = iota
	lineBlank
	lineQuestion
	lineSuccess
	lineExample
)

type scannedLine struct {
	depth int // leading '>' count
	kind  lineKind
	text  string // content after blockquote markers and any callout header
}

// Header token, case-insensitive, optionally followed by a fold marker (+/-)
// and trailing text on the same line.
var calloutHeader = regexp.MustCompile(`(?i)^\[!(question|success|example)\][+-]?\s*(.*)$`)

// Option line: a single ASCII letter immediately followed by ')'.
var optionLine = regexp.MustCompile(`^([A-Za-z])\)\s*(.*)$`)

// Matching pair line: "leftletter) -> rightletter)" with the arrow rendered as
// one or more hyphens then '>'.
var pairLine = regexp.MustCompile(`^([A-Za-z])\)\s*-+>\s*([A-Za-z])\)`)

func scan(text string) []scannedLine {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]scannedLine, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, scanLine(line))
	}
	return lines
}

func scanLine(line string) scannedLine {
	depth := 0
	rest := line
	for {
		trimmed := strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(trimmed, ">") {
			depth++
			rest = trimmed[1:]
			continue
		}
		rest = trimmed
		break
	}

	if rest == "" {
		return scannedLine{depth: depth, kind: lineBlank}
	}

	if m := calloutHeader.FindStringSubmatch(rest); m != nil {
		kind := lineText
		switch strings.ToLower(m[1]) {
		case "question":
			kind = lineQuestion
		case "success":
			kind = lineSuccess
		case "example":
			kind = lineExample
		}
		return scannedLine{depth: depth, kind: kind, text: m[2]}
	}

	return scannedLine{depth: depth, kind: lineText, text: rest}
}
