package analytics

import (
	"fmt"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/pkg/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type facetDoc struct {
	ContractTypes         []models.FacetCount `bson:"contractTypes"`
	WorkTypes             []models.FacetCount `bson:"workTypes"`
	ExperienceLevels      []models.FacetCount `bson:"experienceLevels"`
	Sectors               []models.FacetCount `bson:"sectors"`
	Locations             []models.FacetCount `bson:"locations"`
	ApplicationsHistogram []models.FacetCount `bson:"applicationsHistogram"`
	TrendsOverTime        []models.FacetCount `bson:"trendsOverTime"`
	TopSkills             []models.FacetCount `bson:"topSkills"`
	Titles                []models.FacetCount `bson:"titles"`
	CompanyNames          []models.FacetCount `bson:"companyNames"`
	Total                 []struct {
		N int64 `bson:"n"`
	} `bson:"total"`
}

// Decode maps the facet document returned by Pipeline onto JobStats. An empty
// collection yields apperr.ErrNoData.
func Decode(raw bson.Raw) (*models.JobStats, error) {
	var doc facetDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode facets: %w", err)
	}

	st := &models.JobStats{
		ContractTypes:         doc.ContractTypes,
		WorkTypes:             doc.WorkTypes,
		ExperienceLevels:      doc.ExperienceLevels,
		Sectors:               doc.Sectors,
		Locations:             doc.Locations,
		ApplicationsHistogram: doc.ApplicationsHistogram,
		TrendsOverTime:        doc.TrendsOverTime,
		TopSkills:             doc.TopSkills,
		Titles:                doc.Titles,
		CompanyNames:          doc.CompanyNames,
	}
	if len(doc.Total) > 0 {
		st.Total = doc.Total[0].N
	}
	if st.Total == 0 {
		return nil, apperr.ErrNoData
	}

	for _, f := range facets(st) {
		*f = tidy(*f)
	}
	return st, nil
}

func facets(st *models.JobStats) []*[]models.FacetCount {
	return []*[]models.FacetCount{
		&st.ContractTypes, &st.WorkTypes, &st.ExperienceLevels, &st.Sectors,
		&st.Locations, &st.ApplicationsHistogram, &st.TrendsOverTime,
		&st.TopSkills, &st.Titles, &st.CompanyNames,
	}
}

// tidy widens BSON integer ids so both backends serialize alike, and replaces
// nil facets with empty ones.
func tidy(in []models.FacetCount) []models.FacetCount {
	if in == nil {
		return []models.FacetCount{}
	}
	for i := range in {
		switch v := in[i].ID.(type) {
		case int32:
			in[i].ID = int64(v)
		case float64:
			in[i].ID = int64(v)
		}
	}
	sortFacet(in)
	return in
}
