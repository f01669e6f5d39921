package http

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aussiebroadwan/taskboard/internal/api/domain"
)

// parseQuery reads page, size, sort and q. Anything else in the query
// string is ignored.
func parseQuery(r *http.Request) (domain.Query, error) {
	v := r.URL.Query()

	page, err := intParam(v, "page")
	if err != nil {
		return domain.Query{}, err
	}
	size, err := intParam(v, "size")
	if err != nil {
		return domain.Query{}, err
	}

	q := domain.Query{
		Page:   page,
		Size:   size,
		Sort:   v.Get("sort"),
		Search: v.Get("q"),
	}.Normalized()
	// page*size must fit the int64 offset the stores skip by.
	if int64(q.Page) > math.MaxInt64/int64(q.Size) {
		return domain.Query{}, badRequest("page is too large")
	}
	return q, nil
}

func intParam(v url.Values, key string) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest(key + " must be a non-negative integer")
	}
	return n, nil
}

// parseFilter turns every query parameter into an equality condition. Only
// the first value of a repeated parameter is used.
func parseFilter(r *http.Request) domain.Filter {
	v := r.URL.Query()
	f := make(domain.Filter, len(v))
	for k := range v {
		f[k] = v.Get(k)
	}
	return f
}
