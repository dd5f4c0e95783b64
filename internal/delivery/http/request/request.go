package request

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/user/search-engine/internal/entity"
)

var ErrInvalidParam = errors.New("invalid request parameter")

// IndexPageRequest is the input of POST /api/indexPage. The url may come from the form body or the query string.
type IndexPageRequest struct {
	URL string
}

func ParseIndexPage(r *http.Request) (IndexPageRequest, error) {
	raw := strings.TrimSpace(r.FormValue("url"))
	if raw == "" {
		return IndexPageRequest{}, fmt.Errorf("%w: url is required", ErrInvalidParam)
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return IndexPageRequest{}, fmt.Errorf("%w: url %q is not an absolute http(s) address", ErrInvalidParam, raw)
	}
	return IndexPageRequest{URL: raw}, nil
}

// ParseSearch reads GET /api/search?query=&site=&offset=&limit=. Missing numbers are zero.
func ParseSearch(r *http.Request) (entity.SearchQuery, error) {
	q := r.URL.Query()
	offset, err := intParam(q, "offset")
	if err != nil {
		return entity.SearchQuery{}, err
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		return entity.SearchQuery{}, err
	}
	return entity.SearchQuery{
		Query:  q.Get("query"),
		Site:   strings.TrimSpace(q.Get("site")),
		Offset: offset,
		Limit:  limit,
	}, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidParam, name)
	}
	return n, nil
}
