package entity

// Lemma mirrors the `lemmas` PostgreSQL table schema.
// Frequency is the number of occurrences of the lemma over all indexed pages of the site.
type Lemma struct {
	ID        int64
	SiteID    int64
	Lemma     string
	Frequency int
}

// IndexEntry mirrors the `search_index` table: one lemma on one page.
// Rank is the occurrence count of the lemma on the page at index time.
type IndexEntry struct {
	ID      int64
	PageID  int64
	LemmaID int64
	Rank    float64
}

// IndexMatch is an index entry joined with the lemma it references.
type IndexMatch struct {
	IndexEntry
	Lemma Lemma
}
