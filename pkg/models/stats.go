package models

// FacetCount is one bucket of an analytics facet. ID is a string, an int64
// histogram boundary, or nil for documents missing the grouped field.
type FacetCount struct {
	ID    any   `json:"_id" bson:"_id"`
	Count int64 `json:"count" bson:"count"`
}

// JobStats is the result of one analytics pass over the job collection.
type JobStats struct {
	ContractTypes         []FacetCount `json:"contractTypes"`
	WorkTypes             []FacetCount `json:"workTypes"`
	ExperienceLevels      []FacetCount `json:"experienceLevels"`
	Sectors               []FacetCount `json:"sectors"`
	Locations             []FacetCount `json:"locations"`
	ApplicationsHistogram []FacetCount `json:"applicationsHistogram"`
	TrendsOverTime        []FacetCount `json:"trendsOverTime"`
	TopSkills             []FacetCount `json:"topSkills"`
	Titles                []FacetCount `json:"titles"`
	CompanyNames          []FacetCount `json:"companyNames"`
	Total                 int64        `json:"total"`
}
