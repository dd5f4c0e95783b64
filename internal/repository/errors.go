package repository

import "errors"

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicatePath is returned when a page with the same path is already stored.
	ErrDuplicatePath = errors.New("page path already exists")
	// ErrUnsupportedContent is returned by fetchers for non-HTML responses.
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrDisallowedByRobots is returned by fetchers when robots.txt forbids the URL.
	ErrDisallowedByRobots = errors.New("disallowed by robots.txt")
)
