package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/garnizeh/jobhunt/pkg/models"
	"github.com/qri-io/jsonschema"
)

// jobSchema holds the bound and enum constraints of a canonical job. Presence
// of the core fields is checked separately so that every missing field is
// reported by name.
const jobSchemaTemplate = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title":           {"type": "string", "minLength": 3, "maxLength": 100},
    "companyName":     {"type": "string", "minLength": 2, "maxLength": 50},
    "location":        {"type": "string", "minLength": 2, "maxLength": 50},
    "sector":          {"type": "string", "minLength": 2, "maxLength": 50},
    "description":     {"type": "string", "minLength": 10, "maxLength": 2000},
    "contractType":    {"type": "string", "enum": %s},
    "experienceLevel": {"type": "string", "enum": %s},
    "workType":        {"type": "string", "enum": %s},
    "salaryRange":     {"type": "string", "enum": %s},
    "skillsRequired":  {"type": "array", "items": {"type": "string"}}
  }
}`

func compileJobSchema() (*jsonschema.Schema, error) {
	enc := func(v any) string {
		b, _ := json.Marshal(v)
		return string(b)
	}

	raw := fmt.Sprintf(jobSchemaTemplate,
		enc(models.ContractTypes),
		enc(models.ExperienceLevels),
		enc(models.WorkTypes),
		enc(models.SalaryRanges),
	)

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(raw), rs); err != nil {
		return nil, fmt.Errorf("compile job schema: %w", err)
	}

	return rs, nil
}
