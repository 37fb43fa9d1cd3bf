package analytics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/garnizeh/jobhunt/internal/analytics"
	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/pkg/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func job(title, company, loc string, count models.ApplicationsCount, pub models.PublishedAt) models.Job {
	return models.Job{
		Title:             title,
		CompanyName:       company,
		Location:          loc,
		ContractType:      models.ContractFullTime,
		WorkType:          models.WorkRemote,
		ExperienceLevel:   models.ExperienceSenior,
		Sector:            "Technology",
		ApplicationsCount: count,
		PublishedAt:       pub,
	}
}

func find(f []models.FacetCount, id any) (int64, bool) {
	for _, c := range f {
		if c.ID == id {
			return c.Count, true
		}
	}
	return 0, false
}

func TestBucket(t *testing.T) {
	cases := []struct {
		n    int64
		want any
	}{
		{0, int64(0)},
		{49, int64(0)},
		{50, int64(50)},
		{99, int64(50)},
		{100, int64(100)},
		{499, int64(200)},
		{500, "500+"},
		{10000, "500+"},
	}
	for _, c := range cases {
		if got := analytics.Bucket(c.n); got != c.want {
			t.Fatalf("Bucket(%d): want %v got %v", c.n, c.want, got)
		}
	}
}

func TestCompute(t *testing.T) {
	d2021 := models.DateOf(time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC))
	jobs := []models.Job{
		job("ML Engineer", "Acme", "Paris, France", models.CountOf(50), d2021),
		job("Data Scientist", "Acme", "Paris", models.CountOf(12), models.PublishedAt{Raw: "March 2021", Source: models.DateRaw}),
		job("AI Research Engineer", "Globex", "London, UK", models.ApplicationsCount{Raw: "many", Source: models.CountRaw}, models.PublishedAt{}),
		job("Accountant", "Initech", "", models.CountOf(800), d2021),
	}

	st, err := analytics.Compute(jobs)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if st.Total != 4 {
		t.Fatalf("total: %d", st.Total)
	}

	// the non-numeric count is excluded from the histogram only
	if n, _ := find(st.ApplicationsHistogram, int64(50)); n != 1 {
		t.Fatalf("count of exactly 50 should land in the 50 bucket: %v", st.ApplicationsHistogram)
	}
	if n, _ := find(st.ApplicationsHistogram, "500+"); n != 1 {
		t.Fatalf("overflow bucket: %v", st.ApplicationsHistogram)
	}
	if n, _ := find(st.CompanyNames, "Globex"); n != 1 {
		t.Fatalf("non-numeric count job missing from other facets")
	}

	if n, _ := find(st.Locations, "Paris"); n != 2 {
		t.Fatalf("locations should group on text before comma: %v", st.Locations)
	}
	if _, ok := find(st.Locations, nil); !ok {
		t.Fatalf("missing location should group under null: %v", st.Locations)
	}

	if n, _ := find(st.TrendsOverTime, "2021"); n != 2 {
		t.Fatalf("trends: %v", st.TrendsOverTime)
	}
	if n, _ := find(st.TrendsOverTime, "March 2021"); n != 1 {
		t.Fatalf("raw date should be its own bucket: %v", st.TrendsOverTime)
	}

	if n, _ := find(st.TopSkills, "engineer"); n != 2 {
		t.Fatalf("skills: %v", st.TopSkills)
	}
	if n, _ := find(st.TopSkills, "ai"); n != 1 {
		t.Fatalf("skills: %v", st.TopSkills)
	}

	if st.CompanyNames[0].ID != "Acme" || st.CompanyNames[0].Count != 2 {
		t.Fatalf("facets should be sorted by count desc: %v", st.CompanyNames)
	}
	if st.CompanyNames[1].ID != "Globex" || st.CompanyNames[2].ID != "Initech" {
		t.Fatalf("ties should sort by id: %v", st.CompanyNames)
	}
}

func TestCompute_Empty(t *testing.T) {
	if _, err := analytics.Compute(nil); !errors.Is(err, apperr.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestPipeline_Facets(t *testing.T) {
	p := analytics.Pipeline()
	if len(p) != 2 || p[1][0].Key != "$facet" {
		t.Fatalf("unexpected pipeline shape: %v", p)
	}
	facets := p[1][0].Value.(bson.D)
	want := []string{
		"contractTypes", "workTypes", "experienceLevels", "sectors", "locations",
		"applicationsHistogram", "trendsOverTime", "topSkills", "titles", "companyNames", "total",
	}
	if len(facets) != len(want) {
		t.Fatalf("facet count: want %d got %d", len(want), len(facets))
	}
	for i, k := range want {
		if facets[i].Key != k {
			t.Fatalf("facet %d: want %s got %s", i, k, facets[i].Key)
		}
	}
}

func TestDecode(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "contractTypes", Value: bson.A{bson.D{{Key: "_id", Value: "Full-time"}, {Key: "count", Value: int32(3)}}}},
		{Key: "applicationsHistogram", Value: bson.A{
			bson.D{{Key: "_id", Value: "500+"}, {Key: "count", Value: int32(1)}},
			bson.D{{Key: "_id", Value: int32(50)}, {Key: "count", Value: int32(2)}},
		}},
		{Key: "total", Value: bson.A{bson.D{{Key: "n", Value: int32(3)}}}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	st, err := analytics.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if st.Total != 3 {
		t.Fatalf("total: %d", st.Total)
	}
	if st.ApplicationsHistogram[0].ID != int64(50) || st.ApplicationsHistogram[0].Count != 2 {
		t.Fatalf("histogram ids should widen and sort: %v", st.ApplicationsHistogram)
	}
	if st.Sectors == nil {
		t.Fatalf("absent facets should decode as empty")
	}
}

func TestDecode_Empty(t *testing.T) {
	raw, _ := bson.Marshal(bson.D{{Key: "contractTypes", Value: bson.A{}}, {Key: "total", Value: bson.A{}}})
	if _, err := analytics.Decode(raw); !errors.Is(err, apperr.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
