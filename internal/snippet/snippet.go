// Package snippet builds short highlighted excerpts of page text for search results.
package snippet

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultMaxLength = 240
	ellipsis         = "..."
	leadingContext   = 6 // words kept before the first match
)

// Lemmatizer resolves a word to its lemma.
type Lemmatizer interface {
	Lemma(word string) (string, bool)
}

// Builder produces excerpts in which words matching the query lemmas are wrapped in <b>.
// All text is escaped, so the only markup in an excerpt is the highlighting.
type Builder struct {
	lemmatizer Lemmatizer
	maxLength  int
	policy     *bluemonday.Policy
}

// New creates a Builder. maxLength is measured in runes of visible text; non-positive means DefaultMaxLength.
func New(l Lemmatizer, maxLength int) *Builder {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Builder{
		lemmatizer: l,
		maxLength:  maxLength,
		policy:     bluemonday.StrictPolicy(),
	}
}

// Build returns the excerpt of text that covers the most distinct query lemmas.
// Without any match it returns the beginning of the text.
func (b *Builder) Build(text string, lemmas map[string]struct{}) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	hits := make([]string, len(words))
	var first []int
	for i, w := range words {
		lemma, ok := b.lemmatizer.Lemma(w)
		if !ok {
			continue
		}
		if _, want := lemmas[lemma]; want {
			hits[i] = lemma
			first = append(first, i)
		}
	}

	start, bestCover := 0, 0
	for _, i := range first {
		s := max(i-leadingContext, 0)
		end := b.windowEnd(words, s)
		for end <= i {
			s++
			end = b.windowEnd(words, s)
		}
		if c := cover(hits[s:end]); c > bestCover {
			start, bestCover = s, c
		}
	}
	end := b.windowEnd(words, start)

	var sb strings.Builder
	if start > 0 {
		sb.WriteString(ellipsis)
	}
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteByte(' ')
		}
		word := b.policy.Sanitize(words[i])
		if hits[i] != "" {
			sb.WriteString("<b>")
			sb.WriteString(word)
			sb.WriteString("</b>")
		} else {
			sb.WriteString(word)
		}
	}
	if end < len(words) {
		sb.WriteString(ellipsis)
	}
	return sb.String()
}

// windowEnd returns the exclusive end of the longest run of words from start that fits maxLength.
// At least one word is always included.
func (b *Builder) windowEnd(words []string, start int) int {
	length := 0
	end := start
	for end < len(words) {
		n := utf8.RuneCountInString(words[end])
		if end > start {
			n++
		}
		if length+n > b.maxLength && end > start {
			break
		}
		length += n
		end++
	}
	return end
}

func cover(hits []string) int {
	seen := make(map[string]struct{})
	for _, h := range hits {
		if h != "" {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}
