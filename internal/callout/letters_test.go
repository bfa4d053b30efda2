package callout

import "testing"

func TestOptionLetterRoundTrip(t *testing.T) {
	for i := 0; i < MaxOptions; i++ {
		letter := optionLetter(i)
		idx, ok := optionIndex(letter)
		if !ok {
			t.Fatalf("optionIndex(%c) not ok", letter)
		}
		if idx != i {
			t.Errorf("optionIndex(optionLetter(%d)) = %d", i, idx)
		}
	}
}

func TestMatchingLettersRoundTrip(t *testing.T) {
	for i := 0; i < MaxPairs; i++ {
		if idx, ok := leftIndex(leftLetter(i)); !ok || idx != i {
			t.Errorf("leftIndex(leftLetter(%d)) = %d, %v", i, idx, ok)
		}
		if idx, ok := rightIndex(rightLetter(i)); !ok || idx != i {
			t.Errorf("rightIndex(rightLetter(%d)) = %d, %v", i, idx, ok)
		}
	}
}

func TestLetterDecodingIsCaseInsensitive(t *testing.T) {
	if idx, ok := optionIndex('C'); !ok || idx != 2 {
		t.Errorf("optionIndex('C') = %d, %v", idx, ok)
	}
	if idx, ok := rightIndex('N'); !ok || idx != 0 {
		t.Errorf("rightIndex('N') = %d, %v", idx, ok)
	}
}

func TestLetterRangesAreDisjoint(t *testing.T) {
	// 'n' belongs to the right column, not the left one.
	if _, ok := leftIndex('n'); ok {
		t.Error("leftIndex('n') should be out of range")
	}
	if _, ok := rightIndex('m'); ok {
		t.Error("rightIndex('m') should be out of range")
	}
	if _, ok := optionIndex('1'); ok {
		t.Error("optionIndex('1') should be out of range")
	}
}
