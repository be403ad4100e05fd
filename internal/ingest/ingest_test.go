package ingest

import (
	"reflect"
	"testing"
)

func TestSentences(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "two paragraphs three sentences",
			raw:      "Cats are mammals. Cats can purr.\n\nDogs bark.",
			expected: []string{"Cats are mammals.", "Cats can purr.", "Dogs bark."},
		},
		{
			name:     "question and exclamation terminators",
			raw:      "Is water wet? Yes! It really is.",
			expected: []string{"Is water wet?", "Yes!", "It really is."},
		},
		{
			name:     "blank lines with spaces still separate paragraphs",
			raw:      "First.\n   \nSecond.",
			expected: []string{"First.", "Second."},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			raw:      "  \n\n\t ",
			expected: nil,
		},
		{
			name:     "sentence without terminal punctuation kept whole",
			raw:      "No terminator here",
			expected: []string{"No terminator here"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Sentences(tc.raw)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Sentences(%q) = %v, want %v", tc.raw, got, tc.expected)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		sentence string
		expected []int
	}{
		{
			name:     "two longest tokens over four chars",
			sentence: "Mitochondria produce cellular energy.",
			// "Mitochondria"(12) then "cellular"(8); "produce"(7) and
			// "energy."(7) lose to them.
			expected: []int{0, 2},
		},
		{
			name:     "short tokens are never selected",
			sentence: "Cats can sit.",
			expected: []int{},
		},
		{
			name:     "single qualifying token",
			sentence: "The elephant ran.",
			expected: []int{1},
		},
		{
			name:     "empty sentence",
			sentence: "",
			expected: []int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Keywords(tc.sentence)
			if len(got) != len(tc.expected) {
				t.Fatalf("Keywords(%q) = %v, want %v", tc.sentence, got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Keywords(%q) = %v, want %v", tc.sentence, got, tc.expected)
					break
				}
			}
		})
	}
}

func TestKeywordsAtMostTwo(t *testing.T) {
	t.Parallel()

	got := Keywords("photosynthesis respiration transpiration germination")
	if len(got) != 2 {
		t.Errorf("Expected at most 2 keywords, got %d: %v", len(got), got)
	}
}
