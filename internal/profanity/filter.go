// Package profanity masks words from a block list with asterisks while
// leaving the rest of the text untouched.
package profanity

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
	"unicode"
)

//go:embed words.txt
var defaultWords []byte

// Filter replaces every listed word with a run of '*' of equal length.
// Matching is case-insensitive and token-based, so "Shell" stays intact
// while "hell" is masked.
type Filter struct {
	words map[string]struct{}
}

// New builds a Filter from the embedded default word list.
func New() *Filter {
	var words []string
	scanner := bufio.NewScanner(bytes.NewReader(defaultWords))
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	return NewWithWords(words)
}

// NewWithWords builds a Filter from an explicit list.
func NewWithWords(words []string) *Filter {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Filter{words: set}
}

// Clean returns text with every blocked word masked.
func (f *Filter) Clean(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	var word []rune
	flush := func() {
		if len(word) == 0 {
			return
		}
		if _, blocked := f.words[strings.ToLower(string(word))]; blocked {
			out.WriteString(strings.Repeat("*", len(word)))
		} else {
			out.WriteString(string(word))
		}
		word = word[:0]
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word = append(word, r)
			continue
		}
		flush()
		out.WriteRune(r)
	}
	flush()
	return out.String()
}
