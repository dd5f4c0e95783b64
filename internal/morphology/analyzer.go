// Package morphology reduces text to normalized word stems and their counts.
package morphology

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"github.com/kljensen/snowball/russian"
)

const (
	Russian = "russian"
	English = "english"
)

// Analyzer turns text into lemma counts for one language.
// It holds no mutable state and may be shared between goroutines.
type Analyzer struct {
	language string
	inAlpha  func(r rune) bool
	fold     func(r rune) rune
	stem     func(word string, stemStopWords bool) string
	function map[string]struct{}
}

// New returns an Analyzer for language ("russian" or "english").
func New(language string) (*Analyzer, error) {
	switch strings.ToLower(language) {
	case Russian:
		return &Analyzer{
			language: Russian,
			inAlpha:  func(r rune) bool { return r >= 'а' && r <= 'я' },
			fold: func(r rune) rune {
				if r == 'ё' {
					return 'е'
				}
				return r
			},
			stem:     russian.Stem,
			function: russianFunctionWords,
		}, nil
	case English:
		return &Analyzer{
			language: English,
			inAlpha:  func(r rune) bool { return r >= 'a' && r <= 'z' },
			fold:     func(r rune) rune { return r },
			stem:     english.Stem,
			function: englishFunctionWords,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported morphology language %q", language)
	}
}

// Language returns the analyzer's language name.
func (a *Analyzer) Language() string { return a.language }

// Analyze returns how often each lemma occurs in text. Function words and
// tokens that reduce to nothing are skipped.
func (a *Analyzer) Analyze(text string) map[string]int {
	lemmas := make(map[string]int)
	for _, token := range strings.Fields(a.normalize(text)) {
		if lemma, ok := a.lemmaOf(token); ok {
			lemmas[lemma]++
		}
	}
	return lemmas
}

// LemmaSet returns the distinct lemmas of text.
func (a *Analyzer) LemmaSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for lemma := range a.Analyze(text) {
		set[lemma] = struct{}{}
	}
	return set
}

// Lemma returns the lemma of a single word as it appears in running text.
// Characters outside the alphabet are dropped before stemming.
func (a *Analyzer) Lemma(word string) (string, bool) {
	token := strings.Join(strings.Fields(a.normalize(word)), "")
	return a.lemmaOf(token)
}

func (a *Analyzer) lemmaOf(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	if _, ok := a.function[token]; ok {
		return "", false
	}
	lemma := a.stem(token, true)
	if lemma == "" {
		return "", false
	}
	return lemma, true
}

// normalize lowercases text, keeps alphabet letters and whitespace, and drops everything else.
func (a *Analyzer) normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		r = a.fold(unicode.ToLower(r))
		switch {
		case a.inAlpha(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
