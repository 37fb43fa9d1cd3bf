package query

import (
	"net/url"
	"strconv"

	"github.com/garnizeh/jobhunt/internal/apperr"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is an offset window over a result set.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit and offset from q. Missing values take defaults and
// limit is clamped to max; malformed or negative values are reported as an
// *apperr.ValidationError.
func ParsePage(q url.Values, max int) (Page, error) {
	if max <= 0 {
		max = MaxLimit
	}
	p := Page{Limit: min(DefaultLimit, max)}
	verr := &apperr.ValidationError{}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			verr.Add("limit", "must be a positive integer")
		} else {
			p.Limit = min(n, max)
		}
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			verr.Add("offset", "must be a non-negative integer")
		} else {
			p.Offset = n
		}
	}

	if err := verr.OrNil(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Next returns the offset of the following page, or -1 when total is exhausted.
func (p Page) Next(total int64) int {
	next := p.Offset + p.Limit
	if int64(next) >= total {
		return -1
	}
	return next
}

// FilterFromValues builds a Filter from the /jobs/all query parameters.
func FilterFromValues(q url.Values) Filter {
	return Filter{
		Company:         q.Get("company"),
		Title:           q.Get("job_title"),
		Location:        q.Get("location"),
		ContractType:    q.Get("contract_type"),
		WorkType:        q.Get("work_type"),
		ExperienceLevel: q.Get("experience_level"),
		Sector:          q.Get("sector"),
	}
}
