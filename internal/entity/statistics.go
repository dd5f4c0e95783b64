package entity

// TotalStatistics aggregates over every configured site.
type TotalStatistics struct {
	Sites    int  `json:"sites"`
	Pages    int  `json:"pages"`
	Lemmas   int  `json:"lemmas"`
	Indexing bool `json:"indexing"`
}

// DetailedStatistics describes a single configured site.
type DetailedStatistics struct {
	URL        string `json:"url"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	StatusTime int64  `json:"statusTime"`
	Error      string `json:"error,omitempty"`
	Pages      int    `json:"pages"`
	Lemmas     int    `json:"lemmas"`
	Failures   int    `json:"failures"`
}

// Statistics is the read-only report served by the statistics endpoint.
type Statistics struct {
	Total    TotalStatistics      `json:"total"`
	Detailed []DetailedStatistics `json:"detailed"`
}
