// Package normalize turns raw, loosely typed job records (spreadsheet rows,
// JSON objects) into canonical models.Job values.
//
// Low-stakes fields degrade gracefully: applications count, published date and
// experience level never fail. Core text fields and enums are validated, and
// every violation is reported in a single apperr.ValidationError.
package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/pkg/models"
	"github.com/qri-io/jsonschema"
)

// Report tells which coercion path each lenient field took.
type Report struct {
	ApplicationsCount models.CountSource
	PublishedAt       models.DateSource
	// ExperienceMatched is false when the input fell back to Not Applicable.
	ExperienceMatched bool
}

// Raw key aliases; the first is the spreadsheet header, the rest are accepted
// for records produced by other tools.
var (
	keyTitle       = []string{"title", "job_title"}
	keyCompany     = []string{"companyName", "company", "company_name"}
	keyLocation    = []string{"location"}
	keyContract    = []string{"contractType", "job_type", "contract_type"}
	keyExperience  = []string{"experienceLevel", "experience_level"}
	keySector      = []string{"sector", "industry"}
	keyDescription = []string{"description"}
	keyApplicants  = []string{"applicationsCount", "applications_count"}
	keyPublished   = []string{"publishedAt", "published_at"}
	keyWorkType    = []string{"workType", "work_type"}
	keySkills      = []string{"skillsRequired", "skills_required", "skills"}
	keySalary      = []string{"salaryRange", "salary_range"}
	keyActive      = []string{"isActive", "is_active"}
)

// requiredFields are rejected when absent; the rest are checked only when present.
var requiredFields = []struct {
	name string
	keys []string
}{
	{"title", keyTitle},
	{"companyName", keyCompany},
}

var experienceTable = map[string]models.ExperienceLevel{
	"entry level":      models.ExperienceEntry,
	"mid-senior level": models.ExperienceMidSenior,
	"mid senior level": models.ExperienceMidSenior,
	"senior level":     models.ExperienceSenior,
	"internship":       models.ExperienceInternship,
	"not applicable":   models.ExperienceNotApplicable,
	"associate":        models.ExperienceAssociate,
	"executive":        models.ExperienceExecutive,
	"director":         models.ExperienceDirector,
}

var digitRun = regexp.MustCompile(`\d+`)

type Normalizer struct {
	schema *jsonschema.Schema
}

func New() (*Normalizer, error) {
	s, err := compileJobSchema()
	if err != nil {
		return nil, err
	}
	return &Normalizer{schema: s}, nil
}

// Normalize converts raw into a Job. On failure the error is an
// *apperr.ValidationError listing every violated field.
func (n *Normalizer) Normalize(ctx context.Context, raw map[string]any) (*models.Job, *Report, error) {
	verr := &apperr.ValidationError{}
	for _, f := range requiredFields {
		if v, ok := lookup(raw, f.keys); !ok || isBlank(v) {
			verr.Add(f.name, "value is required")
		}
	}

	job := &models.Job{
		Title:       text(raw, keyTitle),
		CompanyName: text(raw, keyCompany),
		Location:    text(raw, keyLocation),
		Sector:      text(raw, keySector),
		Description: text(raw, keyDescription),
		IsActive:    true,
	}
	report := &Report{}

	job.ContractType = models.ContractType(canonical(text(raw, keyContract), models.ContractTypes))
	job.WorkType = models.WorkType(canonical(text(raw, keyWorkType), models.WorkTypes))
	if s := text(raw, keySalary); s != "" {
		sr := models.SalaryRange(canonical(s, models.SalaryRanges))
		job.SalaryRange = &sr
	}

	v, _ := lookup(raw, keyExperience)
	job.ExperienceLevel, report.ExperienceMatched = ExperienceLevel(v)

	v, _ = lookup(raw, keyApplicants)
	job.ApplicationsCount = ApplicationsCount(v)
	report.ApplicationsCount = job.ApplicationsCount.Source

	v, _ = lookup(raw, keyPublished)
	job.PublishedAt = PublishedAt(v)
	report.PublishedAt = job.PublishedAt.Source

	v, _ = lookup(raw, keySkills)
	job.SkillsRequired = skills(v)

	if v, ok := lookup(raw, keyActive); ok && !isBlank(v) {
		active, err := boolean(v)
		if err != nil {
			verr.Add("isActive", err.Error())
		} else {
			job.IsActive = active
		}
	}

	if err := n.checkConstraints(ctx, job, verr); err != nil {
		return nil, nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, nil, err
	}

	return job, report, nil
}

// checkConstraints validates the populated fields against the job schema and
// appends each failure to verr.
func (n *Normalizer) checkConstraints(ctx context.Context, job *models.Job, verr *apperr.ValidationError) error {
	doc := map[string]any{"skillsRequired": job.SkillsRequired}
	put := func(k, v string) {
		if v != "" && !verr.Has(k) {
			doc[k] = v
		}
	}
	put("title", job.Title)
	put("companyName", job.CompanyName)
	put("location", job.Location)
	put("sector", job.Sector)
	put("description", job.Description)
	put("contractType", string(job.ContractType))
	put("experienceLevel", string(job.ExperienceLevel))
	put("workType", string(job.WorkType))
	if job.SalaryRange != nil {
		put("salaryRange", string(*job.SalaryRange))
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	kerrs, err := n.schema.ValidateBytes(ctx, b)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	for _, ke := range kerrs {
		field := strings.TrimPrefix(ke.PropertyPath, "/")
		if i := strings.IndexByte(field, '/'); i >= 0 {
			field = field[:i]
		}
		if field == "" {
			field = "record"
		}
		verr.Add(field, ke.Message)
	}

	return nil
}

// ApplicationsCount coerces v: nil stays null, integers pass through, strings
// yield their first run of digits or are kept verbatim when none exists. A
// run too large for int64 is also kept verbatim, tagged CountOverflow.
func ApplicationsCount(v any) models.ApplicationsCount {
	switch n := v.(type) {
	case nil:
		return models.ApplicationsCount{}
	case int:
		return models.CountOf(int64(n))
	case int32:
		return models.CountOf(int64(n))
	case int64:
		return models.CountOf(n)
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return models.CountOf(int64(n))
		}
		return models.ApplicationsCount{Raw: strconv.FormatFloat(n, 'f', -1, 64), Source: models.CountRaw}
	case string:
		run := digitRun.FindString(n)
		if run == "" {
			return models.ApplicationsCount{Raw: n, Source: models.CountRaw}
		}
		parsed, err := strconv.ParseInt(run, 10, 64)
		if err != nil {
			return models.ApplicationsCount{Raw: n, Source: models.CountOverflow}
		}
		return models.ApplicationsCount{Value: parsed, Source: models.CountExtracted}
	}
	return models.ApplicationsCount{Raw: fmt.Sprint(v), Source: models.CountRaw}
}

// ExperienceLevel maps free text onto the canonical levels. Anything it does
// not recognise becomes Not Applicable; the bool reports a table hit.
func ExperienceLevel(v any) (models.ExperienceLevel, bool) {
	s, ok := v.(string)
	if !ok {
		return models.ExperienceNotApplicable, false
	}
	lvl, ok := experienceTable[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return models.ExperienceNotApplicable, false
	}
	return lvl, true
}

// PublishedAt parses "YYYY-MM-DD HH:MM:SS" then "YYYY-MM-DD"; any other
// string is retained unparsed.
func PublishedAt(v any) models.PublishedAt {
	switch t := v.(type) {
	case nil:
		return models.PublishedAt{}
	case time.Time:
		return models.DateOf(t)
	case string:
		if t == "" {
			return models.PublishedAt{}
		}
		if p, err := time.Parse(models.DateTimeLayout, t); err == nil {
			return models.PublishedAt{Time: p, Source: models.DateTimeForm}
		}
		if p, err := time.Parse(models.DateLayout, t); err == nil {
			return models.PublishedAt{Time: p, Source: models.DateOnlyForm}
		}
		return models.PublishedAt{Raw: t, Source: models.DateRaw}
	case float64:
		return models.PublishedAt{Raw: strconv.FormatFloat(t, 'f', -1, 64), Source: models.DateRaw}
	}
	return models.PublishedAt{Raw: fmt.Sprint(v), Source: models.DateRaw}
}

func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func text(raw map[string]any, keys []string) string {
	v, ok := lookup(raw, keys)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// canonical returns the allowed value equal to s ignoring case, or s unchanged
// so the schema check reports it.
func canonical[T ~string](s string, allowed []T) string {
	for _, a := range allowed {
		if strings.EqualFold(s, string(a)) {
			return string(a)
		}
	}
	return s
}

func skills(v any) []string {
	out := []string{}
	switch s := v.(type) {
	case []string:
		for _, x := range s {
			if x = strings.TrimSpace(x); x != "" {
				out = append(out, x)
			}
		}
	case []any:
		for _, x := range s {
			if str, ok := x.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
	case string:
		for _, x := range strings.Split(s, ",") {
			if x = strings.TrimSpace(x); x != "" {
				out = append(out, x)
			}
		}
	}
	return out
}

func boolean(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		return b != 0, nil
	case int:
		return b != 0, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("%q is not a boolean", b)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("%v is not a boolean", v)
}
