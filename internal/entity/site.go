package entity

import "time"

// SiteStatus is the indexing state of a configured site.
type SiteStatus string

const (
	StatusIndexing SiteStatus = "INDEXING"
	StatusIndexed  SiteStatus = "INDEXED"
	StatusFailed   SiteStatus = "FAILED"
)

// Site mirrors the `sites` PostgreSQL table schema.
type Site struct {
	ID         int64
	URL        string
	Name       string
	Status     SiteStatus
	StatusTime time.Time
	LastError  *string
}

// SiteConfig is one entry of the configured site list.
type SiteConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}
