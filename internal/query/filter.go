// Package query builds store queries from job search criteria. One Filter is
// rendered as a Mongo filter document, as a SQLite WHERE clause, or evaluated
// in memory, all with the same semantics: text fields match the whole value
// case-insensitively, enum-like fields match exactly, empty criteria are
// omitted.
package query

import (
	"regexp"
	"strings"

	"github.com/garnizeh/jobhunt/pkg/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Filter struct {
	Company         string
	Title           string
	Location        string
	ContractType    string
	WorkType        string
	ExperienceLevel string
	Sector          string
}

// FoldSQLFunc is the SQLite scalar function SQL() applies to text columns.
// The SQLite gateway registers it with Fold as its body.
const FoldSQLFunc = "casefold"

// Fold maps s to a case-insensitive comparison key. Unlike SQLite's LOWER it
// covers all of Unicode, so "ÉCOLE" and "école" compare equal.
func Fold(s string) string {
	return strings.ToLower(strings.ToUpper(s))
}

// Empty reports whether the filter matches every document.
func (f Filter) Empty() bool {
	return f == Filter{}
}

type textField struct {
	key   string
	value string
	get   func(*models.Job) string
}

type exactField struct {
	key   string
	value string
	get   func(*models.Job) string
}

func (f Filter) textFields() []textField {
	return []textField{
		{"companyName", f.Company, func(j *models.Job) string { return j.CompanyName }},
		{"title", f.Title, func(j *models.Job) string { return j.Title }},
		{"location", f.Location, func(j *models.Job) string { return j.Location }},
	}
}

func (f Filter) exactFields() []exactField {
	return []exactField{
		{"contractType", f.ContractType, func(j *models.Job) string { return string(j.ContractType) }},
		{"workType", f.WorkType, func(j *models.Job) string { return string(j.WorkType) }},
		{"experienceLevel", f.ExperienceLevel, func(j *models.Job) string { return string(j.ExperienceLevel) }},
		{"sector", f.Sector, func(j *models.Job) string { return j.Sector }},
	}
}

// BSON returns the Mongo filter document. Text values are regex-escaped and
// anchored so they match the full field.
func (f Filter) BSON() bson.M {
	q := bson.M{}
	for _, t := range f.textFields() {
		if t.value == "" {
			continue
		}
		q[t.key] = bson.M{"$regex": "^" + regexp.QuoteMeta(t.value) + "$", "$options": "i"}
	}
	for _, e := range f.exactFields() {
		if e.value == "" {
			continue
		}
		q[e.key] = e.value
	}
	return q
}

// sqlColumns maps document keys to jobs table columns.
var sqlColumns = map[string]string{
	"companyName":     "company_name",
	"title":           "title",
	"location":        "location",
	"contractType":    "contract_type",
	"workType":        "work_type",
	"experienceLevel": "experience_level",
	"sector":          "sector",
}

// SQL returns a WHERE clause (without the keyword, "1=1" when empty) and its
// positional arguments.
func (f Filter) SQL() (string, []any) {
	var conds []string
	var args []any
	for _, t := range f.textFields() {
		if t.value == "" {
			continue
		}
		conds = append(conds, FoldSQLFunc+"("+sqlColumns[t.key]+") = "+FoldSQLFunc+"(?)")
		args = append(args, t.value)
	}
	for _, e := range f.exactFields() {
		if e.value == "" {
			continue
		}
		conds = append(conds, sqlColumns[e.key]+" = ?")
		args = append(args, e.value)
	}
	if len(conds) == 0 {
		return "1=1", nil
	}
	return strings.Join(conds, " AND "), args
}

// Match evaluates the filter against a job in memory.
func (f Filter) Match(j *models.Job) bool {
	for _, t := range f.textFields() {
		if t.value != "" && Fold(t.get(j)) != Fold(t.value) {
			return false
		}
	}
	for _, e := range f.exactFields() {
		if e.value != "" && e.get(j) != e.value {
			return false
		}
	}
	return true
}
