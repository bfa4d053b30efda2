package callout

// Option positions map to single-letter labels. A flat option list uses a-z.
// Matching questions split the alphabet in two so a pair line like "a) -> n)"
// is unambiguous about which column each letter belongs to: the left column
// labels from 'a' (a-m), the right column from 'n' (n-z).

const (
	// MaxOptions bounds multiple-choice and select-all option lists (a-z).
	MaxOptions = 26
	// MaxPairs bounds matching questions (13 slots per column).
	MaxPairs = 13

	flatBase  = 'a'
	rightBase = 'n'
)

// optionLetter returns the label for position i in a flat option list.
// Valid for i in [0, 25].
func optionLetter(i int) byte {
	return byte(flatBase + i)
}

// optionIndex inverts optionLetter, tolerating upper-case letters in
// user-edited text. ok is false when the letter is not an ASCII letter or the
// resulting position is out of the a-z range.
func optionIndex(letter byte) (int, bool) {
	i := int(lower(letter)) - flatBase
	if i < 0 || i >= MaxOptions {
		return 0, false
	}
	return i, true
}

// leftLetter returns the left-column label for position i in [0, 12].
func leftLetter(i int) byte {
	return byte(flatBase + i)
}

// leftIndex inverts leftLetter. ok is false outside a-m.
func leftIndex(letter byte) (int, bool) {
	i := int(lower(letter)) - flatBase
	if i < 0 || i >= MaxPairs {
		return 0, false
	}
	return i, true
}

// rightLetter returns the right-column label for position i in [0, 12].
func rightLetter(i int) byte {
	return byte(rightBase + i)
}

// rightIndex inverts rightLetter. ok is false outside n-z.
func rightIndex(letter byte) (int, bool) {
	i := int(lower(letter)) - rightBase
	if i < 0 || i >= MaxPairs {
		return 0, false
	}
	return i, true
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
