package response

import "github.com/user/search-engine/internal/entity"

// Result is the envelope of every API response.
type Result struct {
	Result bool   `json:"result"`
	Error  string `json:"error,omitempty"`
}

// SearchResponse always carries a data array, empty on failure.
type SearchResponse struct {
	Result bool                `json:"result"`
	Error  string              `json:"error,omitempty"`
	Count  int                 `json:"count"`
	Data   []entity.SearchItem `json:"data"`
}

type StatisticsResponse struct {
	Result     bool              `json:"result"`
	Statistics entity.Statistics `json:"statistics"`
}

// HealthResponse maps each dependency to "healthy" or "unhealthy".
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

func OK() Result { return Result{Result: true} }

func Fail(msg string) Result { return Result{Error: msg} }
