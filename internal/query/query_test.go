package query_test

import (
	"net/url"
	"testing"

	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/pkg/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFilter_BSON(t *testing.T) {
	f := query.Filter{Company: "Acme", Title: "ML Engineer (Remote)", WorkType: "Remote"}
	got := f.BSON()

	if len(got) != 3 {
		t.Fatalf("expected 3 criteria, got %v", got)
	}
	company, ok := got["companyName"].(bson.M)
	if !ok || company["$regex"] != "^Acme$" || company["$options"] != "i" {
		t.Fatalf("company criterion: %v", got["companyName"])
	}
	title := got["title"].(bson.M)
	if title["$regex"] != `^ML Engineer \(Remote\)$` {
		t.Fatalf("title should be escaped, got %v", title["$regex"])
	}
	if got["workType"] != "Remote" {
		t.Fatalf("workType should be equality, got %v", got["workType"])
	}

	if len(query.Filter{}.BSON()) != 0 {
		t.Fatalf("empty filter should yield empty document")
	}
}

func TestFilter_SQL(t *testing.T) {
	where, args := query.Filter{Company: "Acme", Sector: "Tech"}.SQL()
	if where != "casefold(company_name) = casefold(?) AND sector = ?" {
		t.Fatalf("unexpected where: %s", where)
	}
	if len(args) != 2 || args[0] != "Acme" || args[1] != "Tech" {
		t.Fatalf("unexpected args: %v", args)
	}

	where, args = query.Filter{}.SQL()
	if where != "1=1" || args != nil {
		t.Fatalf("empty filter: %s %v", where, args)
	}
}

func TestFilter_Match(t *testing.T) {
	job := &models.Job{
		Title:        "ML Engineer",
		CompanyName:  "Acme",
		Location:     "Paris, France",
		ContractType: models.ContractFullTime,
		WorkType:     models.WorkRemote,
	}

	cases := []struct {
		name string
		f    query.Filter
		want bool
	}{
		{"Empty", query.Filter{}, true},
		{"CaseInsensitiveCompany", query.Filter{Company: "acme"}, true},
		{"WholeValueOnly", query.Filter{Company: "Acm"}, false},
		{"RegexCharsAreLiteral", query.Filter{Title: "ML.*"}, false},
		{"Both", query.Filter{Company: "ACME", Title: "ml engineer"}, true},
		{"ExactEnum", query.Filter{ContractType: "Full-time"}, true},
		{"ExactEnumCase", query.Filter{ContractType: "full-time"}, false},
		{"OtherWorkType", query.Filter{WorkType: "Hybrid"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.f.Match(job); got != c.want {
				t.Fatalf("Match: want %v got %v", c.want, got)
			}
		})
	}
}

func TestFilterFromValues(t *testing.T) {
	q := url.Values{"company": {"Acme"}, "job_title": {"ML Engineer"}, "contract_type": {"Full-time"}}
	f := query.FilterFromValues(q)
	if f.Company != "Acme" || f.Title != "ML Engineer" || f.ContractType != "Full-time" {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if f.Empty() {
		t.Fatalf("filter should not be empty")
	}
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		name    string
		q       url.Values
		want    query.Page
		wantErr bool
	}{
		{"Defaults", url.Values{}, query.Page{Limit: 20}, false},
		{"Explicit", url.Values{"limit": {"5"}, "offset": {"10"}}, query.Page{Limit: 5, Offset: 10}, false},
		{"Clamped", url.Values{"limit": {"500"}}, query.Page{Limit: 100}, false},
		{"ZeroLimit", url.Values{"limit": {"0"}}, query.Page{}, true},
		{"NegativeOffset", url.Values{"offset": {"-1"}}, query.Page{}, true},
		{"Garbage", url.Values{"limit": {"ten"}}, query.Page{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := query.ParsePage(c.q, query.MaxLimit)
			if (err != nil) != c.wantErr {
				t.Fatalf("err: %v", err)
			}
			if !c.wantErr && got != c.want {
				t.Fatalf("want %+v got %+v", c.want, got)
			}
		})
	}
}

func TestPage_Next(t *testing.T) {
	p := query.Page{Limit: 20, Offset: 0}
	if p.Next(45) != 20 {
		t.Fatalf("expected next offset 20")
	}
	if (query.Page{Limit: 20, Offset: 40}).Next(45) != -1 {
		t.Fatalf("expected last page")
	}
}

func TestFold(t *testing.T) {
	cases := []struct{ a, b string }{
		{"Société Générale", "SOCIÉTÉ GÉNÉRALE"},
		{"Straße", "STRAßE"},
		{"Ωmega", "ωMEGA"},
		{"Acme", "aCmE"},
	}
	for _, c := range cases {
		if query.Fold(c.a) != query.Fold(c.b) {
			t.Fatalf("%q and %q should fold together", c.a, c.b)
		}
		if !(query.Filter{Company: c.b}).Match(&models.Job{CompanyName: c.a}) {
			t.Fatalf("Match(%q, %q) should hold", c.a, c.b)
		}
	}
	if query.Fold("École") == query.Fold("Ecole") {
		t.Fatalf("accents are significant")
	}
}
