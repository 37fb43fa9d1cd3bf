package mongo

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/garnizeh/jobhunt/pkg/models"
)

// jobDoc is the stored shape of a job. applicationsCount and publishedAt
// keep whatever BSON type the loader wrote: int, string, date or null.
type jobDoc struct {
	ID                bson.ObjectID `bson:"_id,omitempty"`
	Title             string        `bson:"title"`
	CompanyName       string        `bson:"companyName"`
	Location          string        `bson:"location,omitempty"`
	ContractType      string        `bson:"contractType,omitempty"`
	ExperienceLevel   string        `bson:"experienceLevel,omitempty"`
	Sector            string        `bson:"sector,omitempty"`
	Description       string        `bson:"description,omitempty"`
	ApplicationsCount any           `bson:"applicationsCount"`
	PublishedAt       any           `bson:"publishedAt"`
	WorkType          string        `bson:"workType,omitempty"`
	SkillsRequired    []string      `bson:"skillsRequired"`
	SalaryRange       *string       `bson:"salaryRange,omitempty"`
	IsActive          bool          `bson:"isActive"`
}

func toJobDoc(j *models.Job) jobDoc {
	d := jobDoc{
		Title:             j.Title,
		CompanyName:       j.CompanyName,
		Location:          j.Location,
		ContractType:      string(j.ContractType),
		ExperienceLevel:   string(j.ExperienceLevel),
		Sector:            j.Sector,
		Description:       j.Description,
		ApplicationsCount: j.ApplicationsCount.Interface(),
		PublishedAt:       j.PublishedAt.Interface(),
		WorkType:          string(j.WorkType),
		SkillsRequired:    j.SkillsRequired,
		IsActive:          j.IsActive,
	}
	if id, err := bson.ObjectIDFromHex(j.ID); err == nil {
		d.ID = id
	}
	if d.SkillsRequired == nil {
		d.SkillsRequired = []string{}
	}
	if j.SalaryRange != nil {
		s := string(*j.SalaryRange)
		d.SalaryRange = &s
	}
	return d
}

func (d *jobDoc) model() models.Job {
	j := models.Job{
		ID:                d.ID.Hex(),
		Title:             d.Title,
		CompanyName:       d.CompanyName,
		Location:          d.Location,
		ContractType:      models.ContractType(d.ContractType),
		ExperienceLevel:   models.ExperienceLevel(d.ExperienceLevel),
		Sector:            d.Sector,
		Description:       d.Description,
		ApplicationsCount: models.CountFromStored(d.ApplicationsCount),
		PublishedAt:       publishedFromStored(d.PublishedAt),
		WorkType:          models.WorkType(d.WorkType),
		SkillsRequired:    d.SkillsRequired,
		IsActive:          d.IsActive,
	}
	if j.SkillsRequired == nil {
		j.SkillsRequired = []string{}
	}
	if d.SalaryRange != nil {
		sr := models.SalaryRange(*d.SalaryRange)
		j.SalaryRange = &sr
	}
	return j
}

// publishedFromStored accepts the BSON types older loaders wrote, including
// bare numeric years.
func publishedFromStored(v any) models.PublishedAt {
	switch t := v.(type) {
	case nil:
		return models.PublishedAt{}
	case bson.DateTime:
		return models.DateOf(t.Time())
	case time.Time:
		return models.DateOf(t)
	case string:
		return models.PublishedAt{Raw: t, Source: models.DateRaw}
	case int32:
		return models.PublishedAt{Raw: strconv.Itoa(int(t)), Source: models.DateRaw}
	case int64:
		return models.PublishedAt{Raw: strconv.FormatInt(t, 10), Source: models.DateRaw}
	case float64:
		return models.PublishedAt{Raw: strconv.FormatFloat(t, 'f', -1, 64), Source: models.DateRaw}
	}
	return models.PublishedAt{}
}

type userDoc struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	Email          string        `bson:"email"`
	FullName       string        `bson:"full_name"`
	HashedPassword string        `bson:"hashed_password"`
	Disabled       bool          `bson:"disabled"`
	CreatedAt      time.Time     `bson:"created_at"`
	LastLogin      *time.Time    `bson:"last_login,omitempty"`
	JobPreferences []string      `bson:"job_preferences,omitempty"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		Email:          u.Email,
		FullName:       u.FullName,
		HashedPassword: u.HashedPassword,
		Disabled:       u.Disabled,
		CreatedAt:      u.CreatedAt.UTC(),
		LastLogin:      u.LastLogin,
		JobPreferences: u.JobPreferences,
	}
}

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:             d.ID.Hex(),
		Email:          d.Email,
		FullName:       d.FullName,
		HashedPassword: d.HashedPassword,
		Disabled:       d.Disabled,
		CreatedAt:      d.CreatedAt,
		LastLogin:      d.LastLogin,
		JobPreferences: d.JobPreferences,
	}
}
