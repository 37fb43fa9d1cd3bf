package models

import "time"

// Domain models shared by the store gateways and the API. Field keys follow the
// spreadsheet export the job collection is loaded from.

type ContractType string

const (
	ContractFullTime   ContractType = "Full-time"
	ContractPartTime   ContractType = "Part-time"
	ContractContract   ContractType = "Contract"
	ContractTemporary  ContractType = "Temporary"
	ContractInternship ContractType = "Internship"
	ContractOther      ContractType = "Other"
)

var ContractTypes = []ContractType{
	ContractFullTime, ContractPartTime, ContractContract,
	ContractTemporary, ContractInternship, ContractOther,
}

type ExperienceLevel string

const (
	ExperienceEntry         ExperienceLevel = "Entry level"
	ExperienceMidSenior     ExperienceLevel = "Mid-Senior level"
	ExperienceSenior        ExperienceLevel = "Senior level"
	ExperienceInternship    ExperienceLevel = "Internship"
	ExperienceAssociate     ExperienceLevel = "Associate"
	ExperienceDirector      ExperienceLevel = "Director"
	ExperienceExecutive     ExperienceLevel = "Executive"
	ExperienceNotApplicable ExperienceLevel = "Not Applicable"
)

var ExperienceLevels = []ExperienceLevel{
	ExperienceEntry, ExperienceMidSenior, ExperienceSenior, ExperienceInternship,
	ExperienceAssociate, ExperienceDirector, ExperienceExecutive, ExperienceNotApplicable,
}

type WorkType string

const (
	WorkOnSite WorkType = "On-site"
	WorkHybrid WorkType = "Hybrid"
	WorkRemote WorkType = "Remote"
)

var WorkTypes = []WorkType{WorkOnSite, WorkHybrid, WorkRemote}

type SalaryRange string

const (
	Salary30k  SalaryRange = "$30,000-$50,000"
	Salary50k  SalaryRange = "$50,000-$70,000"
	Salary70k  SalaryRange = "$70,000-$90,000"
	Salary90k  SalaryRange = "$90,000-$120,000"
	Salary120k SalaryRange = "$120,000+"
)

var SalaryRanges = []SalaryRange{Salary30k, Salary50k, Salary70k, Salary90k, Salary120k}

type Job struct {
	ID                string            `json:"_id"`
	Title             string            `json:"title"`
	CompanyName       string            `json:"companyName"`
	Location          string            `json:"location"`
	ContractType      ContractType      `json:"contractType"`
	ExperienceLevel   ExperienceLevel   `json:"experienceLevel"`
	Sector            string            `json:"sector"`
	Description       string            `json:"description"`
	ApplicationsCount ApplicationsCount `json:"applicationsCount"`
	PublishedAt       PublishedAt       `json:"publishedAt"`
	WorkType          WorkType          `json:"workType"`
	SkillsRequired    []string          `json:"skillsRequired"`
	SalaryRange       *SalaryRange      `json:"salaryRange,omitempty"`
	IsActive          bool              `json:"isActive"`
}

type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	HashedPassword string     `json:"-"`
	Disabled       bool       `json:"disabled"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	JobPreferences []string   `json:"job_preferences,omitempty"`
}
