package entity

import "time"

// FetchFailure mirrors the `fetch_failures` PostgreSQL table schema.
type FetchFailure struct {
	ID                   int64
	SiteID               int64
	URL                  string
	FailureReason        string
	HTTPStatusCode       int
	Attempts             int
	LastAttemptTimestamp time.Time
}
