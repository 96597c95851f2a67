package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/youtweet/backend/internal/query"
)

// pageFromRequest reads the page and limit query parameters. Unparseable
// values fall back to the defaults applied by Normalize.
func pageFromRequest(r *http.Request) query.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return query.PageRequest{Number: page, Size: limit}.Normalize()
}

// sortFromRequest reads the sortBy and sortType query parameters. sortType
// accepts the numeric 1/-1 convention as well as asc/desc keywords; any other
// token is InvalidArgument.
func sortFromRequest(r *http.Request) (query.Sort, error) {
	sort := query.Sort{Field: strings.TrimSpace(r.URL.Query().Get("sortBy"))}

	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sortType")))
	switch raw {
	case "", "asc", "ascending":
		sort.Direction = query.Ascending
	case "desc", "descending":
		sort.Direction = query.Descending
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query.Sort{}, fmt.Errorf("%w: unsupported sort direction %q", query.ErrInvalidArgument, raw)
		}
		sort.Direction = query.ParseDirection(n)
	}

	if sort.Field == "" {
		// Callers that do not ask for an ordering get the newest-first feed.
		sort = query.Sort{}
	}
	return sort, nil
}
