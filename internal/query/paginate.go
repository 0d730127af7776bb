package query

import (
	"fmt"
	"net/url"

	"offsetsdb/internal/domain"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 100
	MaxPerPage     = 200
)

// PageRequest carries validated pagination parameters.
type PageRequest struct {
	CurrentPage int
	PerPage     int
}

func (p PageRequest) Validate() error {
	if p.CurrentPage < 1 {
		return domain.ValidationError{Field: "current_page", Msg: "must be >= 1"}
	}
	if p.PerPage < 1 || p.PerPage > MaxPerPage {
		return domain.ValidationError{Field: "per_page", Msg: fmt.Sprintf("must be between 1 and %d", MaxPerPage)}
	}
	return nil
}

func (p PageRequest) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}

// Page is the pagination envelope returned with every listing.
type Page struct {
	TotalEntries int     `json:"total_entries"`
	CurrentPage  int     `json:"current_page"`
	TotalPages   int     `json:"total_pages"`
	NextPage     *string `json:"next_page"`
}

// TotalPages is ceil(total/perPage); zero when the result set is empty.
func TotalPages(total, perPage int) int {
	return (total + perPage - 1) / perPage
}

// NewPage assembles the envelope. NextPage re-serializes the request's own
// query parameters with current_page incremented, and only exists while
// further pages remain.
func NewPage(req PageRequest, total int, scheme, host, path string, params url.Values) Page {
	page := Page{
		TotalEntries: total,
		CurrentPage:  req.CurrentPage,
		TotalPages:   TotalPages(total, req.PerPage),
	}
	if req.CurrentPage < page.TotalPages {
		next := NextPageURL(scheme, host, path, params, req)
		page.NextPage = &next
	}
	return page
}

// NextPageURL rebuilds the request URL for the following page. List-valued
// parameters are re-emitted as repeated keys, not comma-joined, so the link
// round-trips through the same parser.
func NextPageURL(scheme, host, path string, params url.Values, req PageRequest) string {
	next := url.Values{}
	for key, vals := range params {
		for _, v := range vals {
			next.Add(key, v)
		}
	}
	next.Set("current_page", fmt.Sprintf("%d", req.CurrentPage+1))
	next.Set("per_page", fmt.Sprintf("%d", req.PerPage))

	u := url.URL{Scheme: scheme, Host: host, Path: path, RawQuery: next.Encode()}
	return u.String()
}
