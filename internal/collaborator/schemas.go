package collaborator

import "google.golang.org/genai"

func stringArray(desc string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: desc,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

// resumeSchema constrains resume extraction output.
var resumeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":          {Type: genai.TypeString, Description: "Full name of the applicant"},
		"email":         {Type: genai.TypeString, Description: "Email address of the applicant"},
		"phone":         {Type: genai.TypeString, Description: "Phone number of the applicant"},
		"location":      {Type: genai.TypeString, Description: "City and country of residence if stated"},
		"github_url":    {Type: genai.TypeString, Description: "GitHub profile URL if present"},
		"linkedin_url":  {Type: genai.TypeString, Description: "LinkedIn profile URL if present"},
		"portfolio_url": {Type: genai.TypeString, Description: "Personal website or portfolio URL if present"},
		"skills":        stringArray("List of professional skills"),
		"education":     stringArray("Educational qualifications"),
		"experience":    stringArray("Work experience entries"),
		"projects":      stringArray("Projects the applicant has worked on"),
		"leadership_activities": stringArray(
			"Leadership roles, volunteering, and extracurricular activities"),
	},
	Required: []string{"name", "email", "phone", "skills", "education", "experience", "projects"},
}

// jobSchema constrains job posting extraction output.
var jobSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"job_title": {Type: genai.TypeString, Description: "The exact job title or position name"},
		"job_level": {
			Type:        genai.TypeString,
			Description: "Experience level required, e.g. 'entry', 'mid-level', 'senior', 'lead'",
		},
		"required_skills":  stringArray("Technical skills that are mandatory for this role"),
		"preferred_skills": stringArray("Skills that are nice-to-have but not required"),
		"years_experience": {
			Type:        genai.TypeInteger,
			Description: "Required years of experience if specified",
			Nullable:    genai.Ptr(true),
		},
		"employment_type": {
			Type:        genai.TypeString,
			Description: "Type of employment, e.g. 'Full-time', 'Part-time', 'Contract', 'Internship'",
		},
		"location":         {Type: genai.TypeString, Description: "Job location, e.g. 'Remote', 'Hybrid', 'On-Site'"},
		"responsibilities": stringArray("Key responsibilities and tasks expected in this role"),
		"qualifications":   stringArray("Education requirements, certifications, or other qualifications"),
		"key_requirements": stringArray(
			"Critical must-have requirements beyond skills, e.g. security clearance, on-call availability"),
	},
	Required: []string{"job_title", "job_level", "required_skills", "employment_type", "location", "responsibilities", "key_requirements"},
}

// companySchema constrains company research output.
var companySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"company_name": {Type: genai.TypeString, Description: "The official name of the company"},
		"industry": {
			Type:        genai.TypeString,
			Description: "Industry sector the company operates in, e.g. 'Technology', 'Healthcare', 'Finance'",
		},
		"company_size": {
			Type:        genai.TypeString,
			Description: "Company size category, e.g. 'Startup', 'Small (1-50)', 'Medium (51-200)', 'Large (200+)'",
			Nullable:    genai.Ptr(true),
		},
		"mission_statement": {
			Type:        genai.TypeString,
			Description: "Company's mission statement or core purpose",
			Nullable:    genai.Ptr(true),
		},
		"core_values": stringArray("Company's core values and principles"),
		"recent_news": stringArray("Recent news, press releases, or significant company developments"),
		"company_culture": {
			Type:        genai.TypeString,
			Description: "Description of company culture and work environment",
		},
		"products_services": stringArray("Main products or services the company offers"),
	},
	Required: []string{"company_name", "industry", "core_values", "company_culture"},
}
