package analytics

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	keywordLimit     = 12
	minKeywordLength = 3
)

type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "was": {}, "were": {}, "are": {},
	"but": {}, "not": {}, "this": {}, "that": {}, "then": {}, "than": {}, "had": {},
	"has": {}, "have": {}, "his": {}, "her": {}, "she": {}, "him": {}, "they": {},
	"them": {}, "their": {}, "you": {}, "your": {}, "our": {}, "from": {}, "into": {},
	"after": {}, "before": {}, "about": {}, "just": {}, "very": {}, "too": {},
	"all": {}, "any": {}, "some": {}, "out": {}, "off": {}, "over": {}, "again": {},
	"did": {}, "does": {}, "got": {}, "get": {}, "can": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "been": {}, "being": {}, "more": {}, "much": {},
	"when": {}, "what": {}, "which": {}, "who": {}, "its": {}, "also": {}, "now": {},
	"today": {}, "baby": {},
}

func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// ExtractKeywords ranks the words used across notes by frequency. Words are
// lowercased with punctuation removed; short words and stop words are skipped.
// Ties are broken alphabetically. limit <= 0 returns every word.
func ExtractKeywords(notes []NoteEntry, limit int) []Keyword {
	counts := make(map[string]int)
	for _, n := range notes {
		for _, token := range tokenize(n.Text) {
			if utf8.RuneCountInString(token) < minKeywordLength || IsStopWord(token) {
				continue
			}
			counts[token]++
		}
	}

	keywords := make([]Keyword, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, Keyword{Word: word, Count: count})
	}
	slices.SortFunc(keywords, func(a, b Keyword) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})
	if limit > 0 && len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)
	return strings.Fields(cleaned)
}
