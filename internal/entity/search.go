package entity

// SearchQuery is the input of the ranking engine.
type SearchQuery struct {
	Query  string
	Site   string // optional base URL of a configured site
	Offset int
	Limit  int
}

// SearchItem is one ranked page in a search response.
type SearchItem struct {
	Site      string  `json:"site"`
	SiteName  string  `json:"siteName"`
	URI       string  `json:"uri"`
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	Relevance float64 `json:"relevance"`
}

// SearchResult is the output of the ranking engine.
type SearchResult struct {
	Count int          `json:"count"`
	Items []SearchItem `json:"data"`
}
