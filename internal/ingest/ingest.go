// Package ingest turns raw pasted text into the sentences and keyword
// indices that become cards. Segmentation is deliberately simple: blank
// lines separate paragraphs, sentence-terminal punctuation followed by
// whitespace separates sentences.
package ingest

import (
	"regexp"
	"sort"
	"strings"
)

var (
	paragraphSep = regexp.MustCompile(`\n\s*\n`)
	sentenceEnd  = regexp.MustCompile(`([.!?])\s+`)
)

// minKeywordLen is the exclusive length floor for keyword candidates.
const minKeywordLen = 4

// maxKeywords caps how many token indices Keywords selects.
const maxKeywords = 2

// Sentences splits raw text into trimmed sentences, paragraph by paragraph.
// Empty fragments are discarded. Paragraph boundaries do not survive in the
// output; they only prevent sentences from spanning a blank line.
func Sentences(raw string) []string {
	var out []string
	for _, para := range paragraphSep.Split(raw, -1) {
		if strings.TrimSpace(para) == "" {
			continue
		}
		// Keep the terminal punctuation with its sentence by splitting
		// just after it.
		marked := sentenceEnd.ReplaceAllString(para, "$1\x00")
		for _, sentence := range strings.Split(marked, "\x00") {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			out = append(out, sentence)
		}
	}
	return out
}

// Keywords picks the indices of up to two of the longest whitespace tokens
// longer than four characters, ordered by descending token length. Ties are
// resolved by the sort's ordering, not by token position.
func Keywords(sentence string) []int {
	tokens := strings.Fields(sentence)

	candidates := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		if len(tok) > minKeywordLen {
			candidates = append(candidates, i)
		}
	}

	sort.Slice(candidates, func(a, b int) bool {
		return len(tokens[candidates[a]]) > len(tokens[candidates[b]])
	})

	if len(candidates) > maxKeywords {
		candidates = candidates[:maxKeywords]
	}
	return candidates
}
