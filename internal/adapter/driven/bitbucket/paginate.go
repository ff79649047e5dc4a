package bitbucket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// page is the Bitbucket paginated response envelope. Each page carries the
// absolute URL of the next page; the last page omits it.
type page[T any] struct {
	Values []T    `json:"values"`
	Next   string `json:"next"`
}

// fetchAll follows next-page links starting from path until the server stops
// returning one, concatenating values in server order. The first request uses
// a caller-constructed relative path; subsequent requests use the absolute
// URLs the server hands back, which Transport.Do validates against the API
// host. Page fetches are strictly sequential since each next URL is only
// known after the previous page resolves.
func fetchAll[T any](ctx context.Context, t *Transport, path string) ([]T, error) {
	var all []T
	for next := path; next != ""; {
		body, err := t.Do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}

		var p page[T]
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decoding page: %w", err)
		}

		all = append(all, p.Values...)
		next = p.Next
	}
	return all, nil
}
