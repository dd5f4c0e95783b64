package usecase

import "github.com/user/search-engine/internal/repository"

// Store groups the repositories the indexing and search usecases share.
type Store struct {
	Sites    repository.SiteRepository
	Pages    repository.PageRepository
	Lemmas   repository.LemmaRepository
	Index    repository.IndexRepository
	Failures repository.FetchFailureRepository
}

// Analyzer turns text into lemmas.
type Analyzer interface {
	// Analyze returns how often each lemma occurs in text.
	Analyze(text string) map[string]int
	// LemmaSet returns the distinct lemmas of text.
	LemmaSet(text string) map[string]struct{}
}
