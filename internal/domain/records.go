package domain

// ResumeRecord is the structured résumé data produced by the extractor.
// It is validated once at the collaborator boundary; everything inside
// the core works with this type, never with raw JSON strings.
type ResumeRecord struct {
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	Phone                string   `json:"phone"`
	Location             string   `json:"location,omitempty"`
	GithubURL            string   `json:"github_url,omitempty"`
	LinkedinURL          string   `json:"linkedin_url,omitempty"`
	PortfolioURL         string   `json:"portfolio_url,omitempty"`
	Skills               []string `json:"skills"`
	Education            []string `json:"education"`
	Experience           []string `json:"experience"`
	Projects             []string `json:"projects"`
	LeadershipActivities []string `json:"leadership_activities,omitempty"`
}

// Clone returns a deep copy.
func (r ResumeRecord) Clone() ResumeRecord {
	dup := r
	dup.Skills = append([]string(nil), r.Skills...)
	dup.Education = append([]string(nil), r.Education...)
	dup.Experience = append([]string(nil), r.Experience...)
	dup.Projects = append([]string(nil), r.Projects...)
	dup.LeadershipActivities = append([]string(nil), r.LeadershipActivities...)
	return dup
}

// JobRecord is the structured job-requirements data produced by the
// job analyzer from a posting URL or pasted text.
type JobRecord struct {
	JobTitle         string   `json:"job_title"`
	JobLevel         string   `json:"job_level"`
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills,omitempty"`
	YearsExperience  *int     `json:"years_experience,omitempty"`
	EmploymentType   string   `json:"employment_type"`
	Location         string   `json:"location"`
	Responsibilities []string `json:"responsibilities"`
	Qualifications   []string `json:"qualifications,omitempty"`
	KeyRequirements  []string `json:"key_requirements"`
}

// Clone returns a deep copy.
func (r JobRecord) Clone() JobRecord {
	dup := r
	dup.RequiredSkills = append([]string(nil), r.RequiredSkills...)
	dup.PreferredSkills = append([]string(nil), r.PreferredSkills...)
	dup.Responsibilities = append([]string(nil), r.Responsibilities...)
	dup.Qualifications = append([]string(nil), r.Qualifications...)
	dup.KeyRequirements = append([]string(nil), r.KeyRequirements...)
	if r.YearsExperience != nil {
		years := *r.YearsExperience
		dup.YearsExperience = &years
	}
	return dup
}

// CompanyRecord is the structured company-research data used to inform
// cover letter generation.
type CompanyRecord struct {
	CompanyName      string   `json:"company_name"`
	Industry         string   `json:"industry"`
	CompanySize      string   `json:"company_size,omitempty"`
	MissionStatement string   `json:"mission_statement,omitempty"`
	CoreValues       []string `json:"core_values"`
	RecentNews       []string `json:"recent_news,omitempty"`
	CompanyCulture   string   `json:"company_culture"`
	ProductsServices []string `json:"products_services,omitempty"`
}

// Clone returns a deep copy.
func (r CompanyRecord) Clone() CompanyRecord {
	dup := r
	dup.CoreValues = append([]string(nil), r.CoreValues...)
	dup.RecentNews = append([]string(nil), r.RecentNews...)
	dup.ProductsServices = append([]string(nil), r.ProductsServices...)
	return dup
}
