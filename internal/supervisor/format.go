package supervisor

import (
	"fmt"
	"strings"

	"github.com/arusheva/cvtailor/internal/domain"
)

const welcomeMessage = `Hi there! I'm your Job Application Assistant!

I'm here to help you create tailored CVs and cover letters that perfectly match job opportunities.

Here's how I can help:
1. Extract and analyze your CV
2. Analyze job postings and research companies
3. Tailor your CV to highlight relevant experience
4. Write compelling, personalized cover letters

To get started, just share your CV file path with me!`

const greetingText = `Hi there! I'm your Job Application Assistant!

I'm here to help you create tailored CVs and cover letters that perfectly match job opportunities.

Here's how I can help:
1. Extract and analyze your CV
2. Analyze job postings and research companies
3. Tailor your CV to highlight relevant experience
4. Write compelling, personalized cover letters

To get started, just share your CV file with me!`

const jobPromptText = `Now, please provide the job posting. You can either:
- Share a URL to the job posting
- Paste the job description text directly`

const handoffIntro = `I'm now connecting you with the writer, who will help you:
1. Analyze how well your CV matches the job requirements
2. Create a tailored version of your CV
3. Generate a compelling cover letter

The writer will show you plans before making changes and ask for your approval at each step.`

const readyToTailorText = `Great! I can see that you've already uploaded your CV and job description.

We're all set to start tailoring your application materials!

I can help you:
1. Analyze how well your CV matches the job requirements
2. Create a tailored version of your CV that highlights relevant experience
3. Generate a compelling cover letter

Would you like me to start the analysis and begin tailoring your CV?`

const classifierFailureResponse = "I'm sorry, I had trouble processing that. " +
	"Could you try rephrasing your message?"

const generalQuestionSystem = `You are a friendly Job Application Assistant supervisor.

Your role is to guide users through the CV tailoring process.
Be helpful, warm, and professional. If the question is about:
- How the system works: explain the 3-step process (CV, then job, then tailoring)
- What you can do: mention CV analysis, job matching, tailored CVs, cover letters
- Technical issues: be supportive and offer alternatives

Keep responses concise and actionable. Use simple formatting only.`

// helpText lists capabilities plus the session's current completion
// status.
func helpText(sess *domain.Session) string {
	var sb strings.Builder
	sb.WriteString(`I'd be happy to help! Here's what you can do:

Getting Started:
- Share your CV file path
- Provide a job posting URL or paste the job description

What I'll Do:
1. Extract your CV information (and ask clarifying questions if needed)
2. Analyze the job requirements
3. Optionally research the company
4. Hand you over to the writer to tailor your CV and create a cover letter

Current Status:`)

	if sess.HasCV() {
		sb.WriteString("\n- CV data collected")
	} else {
		sb.WriteString("\n- Waiting for CV")
	}
	if sess.HasJob() {
		sb.WriteString("\n- Job data collected")
	} else {
		sb.WriteString("\n- Waiting for job posting")
	}
	if sess.ReadyForTailoring {
		sb.WriteString("\n- Ready to start tailoring!")
	}

	sb.WriteString("\n\nWhat would you like to do next?")
	return sb.String()
}

func formatCVSummary(cv *domain.ResumeRecord) string {
	return fmt.Sprintf(`- Name: %s
- Email: %s
- Phone: %s
- Skills: %d skills listed
- Experience: %d positions
- Education: %d entries`,
		orNA(cv.Name), orNA(cv.Email), orNA(cv.Phone),
		len(cv.Skills), len(cv.Experience), len(cv.Education))
}

func formatJobSummary(job *domain.JobRecord) string {
	return fmt.Sprintf(`- Position: %s
- Level: %s
- Type: %s
- Location: %s
- Required Skills: %s
- Key Responsibilities: %d listed`,
		orNA(job.JobTitle), orNA(job.JobLevel), orNA(job.EmploymentType),
		orNA(job.Location), truncateList(job.RequiredSkills, 5), len(job.Responsibilities))
}

func formatCompanySummary(company *domain.CompanyRecord) string {
	return fmt.Sprintf(`- Company: %s
- Industry: %s
- Size: %s
- Core Values: %s
- Culture: %s`,
		orNA(company.CompanyName), orNA(company.Industry), orNA(company.CompanySize),
		truncateList(company.CoreValues, 3), truncateText(company.CompanyCulture, 100))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// truncateList joins up to max items, with an ellipsis when more exist.
func truncateList(items []string, max int) string {
	if len(items) == 0 {
		return "N/A"
	}
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:max], ", ") + "..."
}

func truncateText(s string, max int) string {
	s = orNA(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
