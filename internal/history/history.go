// Package history encodes per-question attempt outcomes in note frontmatter.
// The current format is a compact JSON array stored as a string under the
// "quiz-history" key; a legacy YAML list under "quiz-attempts" is still parsed
// for notes written before the compact format existed. Writers always emit the
// compact form.
package history

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/quizvault/vault-quiz-service/internal/callout"
	"gopkg.in/yaml.v3"
)

const (
	// CompactKey holds the JSON-array-as-string encoding.
	CompactKey = "quiz-history"
	// LegacyKey holds the YAML list encoding; read-only fallback.
	LegacyKey = "quiz-attempts"
)

// Record is one attempt outcome: h identifies the question, c whether the
// answer was correct, t the unix timestamp of the attempt.
type Record struct {
	Hash      string `json:"h"`
	Correct   bool   `json:"c"`
	Timestamp int64  `json:"t"`
}

type frontmatterDoc struct {
	Compact string         `yaml:"quiz-history"`
	Legacy  []legacyRecord `yaml:"quiz-attempts"`
}

type legacyRecord struct {
	Hash      string `yaml:"hash"`
	Correct   bool   `yaml:"correct"`
	Timestamp int64  `yaml:"timestamp"`
}

// ParseNote extracts attempt records from a note's frontmatter. A note with
// no frontmatter or no history keys yields an empty slice. The compact key
// wins when both encodings are present.
func ParseNote(text string) ([]Record, error) {
	fm, _, ok := splitFrontmatter(text)
	if !ok {
		return nil, nil
	}

	var doc frontmatterDoc
	if err := yaml.Unmarshal([]byte(fm), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	if doc.Compact != "" {
		var records []Record
		if err := json.Unmarshal([]byte(doc.Compact), &records); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", CompactKey, err)
		}
		return records, nil
	}

	if len(doc.Legacy) > 0 {
		records := make([]Record, 0, len(doc.Legacy))
		for _, r := range doc.Legacy {
			records = append(records, Record{Hash: r.Hash, Correct: r.Correct, Timestamp: r.Timestamp})
		}
		return records, nil
	}

	return nil, nil
}

// UpdateNote writes records into the note's frontmatter under the compact
// key, creating a frontmatter block when the note has none. Other keys are
// spliced around line-by-line rather than re-marshaled, so their formatting
// survives. A legacy list present in the note is removed; its contents are
// expected to already be merged into records by the caller.
func UpdateNote(text string, records []Record) (string, error) {
	encoded, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode attempt history: %w", err)
	}
	keyLine := CompactKey + ": '" + string(encoded) + "'"

	fm, rest, ok := splitFrontmatter(text)
	if !ok {
		return "---\n" + keyLine + "\n---\n" + text, nil
	}

	var kept []string
	inLegacy := false
	for _, line := range strings.Split(strings.TrimRight(fm, "\n"), "\n") {
		if line == "" {
			continue
		}
		if isKeyLine(line, CompactKey) {
			continue
		}
		if isKeyLine(line, LegacyKey) {
			inLegacy = true
			continue
		}
		if inLegacy && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "-")) {
			continue
		}
		inLegacy = false
		kept = append(kept, line)
	}
	kept = append(kept, keyLine)

	return "---\n" + strings.Join(kept, "\n") + "\n---\n" + rest, nil
}

// Append merges a new record into an existing history, replacing nothing:
// history is append-only, newest last.
func Append(records []Record, record Record) []Record {
	return append(records, record)
}

// ForQuestion filters records for one question hash, oldest first.
func ForQuestion(records []Record, hash string) []Record {
	var out []Record
	for _, r := range records {
		if r.Hash == hash {
			out = append(out, r)
		}
	}
	return out
}

// Streak returns the length of the trailing run of correct attempts for one
// question hash.
func Streak(records []Record, hash string) int {
	forQ := ForQuestion(records, hash)
	streak := 0
	for i := len(forQ) - 1; i >= 0; i-- {
		if !forQ[i].Correct {
			break
		}
		streak++
	}
	return streak
}

// QuestionHash derives a stable identifier for a question from its content.
// The canonical string is order-normalized where the answer itself is
// order-independent (select-all indices, matching pairs), so re-parsing the
// same saved note always yields the same hash.
func QuestionHash(q callout.Question) string {
	h := fnv.New64a()
	h.Write([]byte(canonicalString(q)))
	return fmt.Sprintf("%016x", h.Sum64())
}

func canonicalString(q callout.Question) string {
	var b strings.Builder
	b.WriteString(string(q.Kind()))
	b.WriteString("|")
	b.WriteString(q.Prompt())

	switch q := q.(type) {
	case callout.TrueFalse:
		fmt.Fprintf(&b, "|%t", q.Answer)
	case callout.MultipleChoice:
		for _, opt := range q.Options {
			b.WriteString("|" + opt)
		}
		fmt.Fprintf(&b, "|#%d", q.Answer)
	case callout.SelectAll:
		for _, opt := range q.Options {
			b.WriteString("|" + opt)
		}
		answers := append([]int(nil), q.Answers...)
		sort.Ints(answers)
		for _, a := range answers {
			fmt.Fprintf(&b, "|#%d", a)
		}
	case callout.FillBlank:
		for _, a := range q.Answers {
			b.WriteString("|" + a)
		}
	case callout.Matching:
		pairs := make([]string, 0, len(q.Pairs))
		for _, p := range q.Pairs {
			pairs = append(pairs, p.Left+"->"+p.Right)
		}
		sort.Strings(pairs)
		for _, p := range pairs {
			b.WriteString("|" + p)
		}
	case callout.ShortAnswer:
		b.WriteString("|" + q.Answer)
	}

	return b.String()
}

// splitFrontmatter separates a leading YAML frontmatter block from the note
// body. ok is false when the note has no frontmatter.
func splitFrontmatter(text string) (fm, rest string, ok bool) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return "", "", false
	}
	body := normalized[len("---\n"):]
	end := strings.Index(body, "\n---")
	if end < 0 {
		return "", "", false
	}
	fm = body[:end+1]
	rest = body[end+len("\n---"):]
	rest = strings.TrimPrefix(rest, "\n")
	return fm, rest, true
}

func isKeyLine(line, key string) bool {
	return strings.HasPrefix(line, key+":")
}
