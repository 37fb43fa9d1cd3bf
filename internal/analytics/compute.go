package analytics

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/pkg/models"
)

var skillRe = regexp.MustCompile(`(?i)` + SkillPattern)

type counter struct {
	order []any
	n     map[any]int64
}

func newCounter() *counter { return &counter{n: map[any]int64{}} }

func (c *counter) add(key any) {
	if _, ok := c.n[key]; !ok {
		c.order = append(c.order, key)
	}
	c.n[key]++
}

func (c *counter) facet() []models.FacetCount {
	out := make([]models.FacetCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, models.FacetCount{ID: k, Count: c.n[k]})
	}
	sortFacet(out)
	return out
}

// Compute aggregates jobs in process with the same semantics as Pipeline.
func Compute(jobs []models.Job) (*models.JobStats, error) {
	if len(jobs) == 0 {
		return nil, apperr.ErrNoData
	}

	var (
		contract, work, exp, sector = newCounter(), newCounter(), newCounter(), newCounter()
		loc, hist, month, skill     = newCounter(), newCounter(), newCounter(), newCounter()
		title, company              = newCounter(), newCounter()
	)

	for i := range jobs {
		j := &jobs[i]
		contract.add(key(string(j.ContractType)))
		work.add(key(string(j.WorkType)))
		exp.add(key(string(j.ExperienceLevel)))
		sector.add(key(j.Sector))
		title.add(key(j.Title))
		company.add(key(j.CompanyName))
		loc.add(key(LocationKey(j.Location)))
		month.add(MonthKey(j.PublishedAt))

		if n, ok := j.ApplicationsCount.Int(); ok && n >= 0 {
			hist.add(Bucket(n))
		}
		for _, m := range skillRe.FindAllString(j.Title, -1) {
			skill.add(strings.ToLower(m))
		}
	}

	return &models.JobStats{
		ContractTypes:         contract.facet(),
		WorkTypes:             work.facet(),
		ExperienceLevels:      exp.facet(),
		Sectors:               sector.facet(),
		Locations:             loc.facet(),
		ApplicationsHistogram: hist.facet(),
		TrendsOverTime:        month.facet(),
		TopSkills:             skill.facet(),
		Titles:                title.facet(),
		CompanyNames:          company.facet(),
		Total:                 int64(len(jobs)),
	}, nil
}

// key maps an absent value to nil, the id Mongo groups missing fields under.
func key(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// LocationKey returns the text before the first comma.
func LocationKey(loc string) string {
	city, _, _ := strings.Cut(loc, ",")
	return city
}

// MonthKey returns the trend bucket of a published date: the year of a parsed
// date, the raw text otherwise, nil when missing.
func MonthKey(p models.PublishedAt) any {
	switch {
	case p.Parsed():
		return strconv.Itoa(p.Time.Year())
	case p.Source == models.DateRaw:
		return p.Raw
	}
	return nil
}

// Bucket returns the histogram bucket of a non-negative count: the lower
// boundary as int64, or HistogramOverflow.
func Bucket(n int64) any {
	last := HistogramBoundaries[len(HistogramBoundaries)-1]
	if n >= last {
		return HistogramOverflow
	}
	i, found := slices.BinarySearch(HistogramBoundaries, n)
	if !found {
		i--
	}
	return HistogramBoundaries[i]
}

// sortFacet orders by count descending then id ascending, ranking ids the
// way BSON compares mixed types: null, numbers, strings.
func sortFacet(f []models.FacetCount) {
	slices.SortStableFunc(f, func(a, b models.FacetCount) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		return compareID(a.ID, b.ID)
	})
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int64, int32, int, float64:
		return 1
	case string:
		return 2
	}
	return 3
}

func compareID(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case int64:
		if y, ok := b.(int64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
		}
	}
	return 0
}
