package collaborator

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/arusheva/cvtailor/internal/domain"
	"github.com/arusheva/cvtailor/internal/textgen"
)

const jobSystemPrompt = "Extract structured job information from the provided job posting. " +
	"Focus on identifying all required skills, responsibilities, qualifications, and key requirements."

const companySystemPrompt = "Extract structured company information from the search results. " +
	"Focus on identifying company values, culture, mission statement, industry, company size, " +
	"products/services, and recent news that would be relevant for someone applying to this company."

var collapseWhitespace = regexp.MustCompile(`[ \t]+`)

// JobAnalyzer extracts structured requirements from job postings and
// researches employers.
type JobAnalyzer struct {
	gen    textgen.Generator
	client *http.Client
}

func NewJobAnalyzer(gen textgen.Generator) *JobAnalyzer {
	return &JobAnalyzer{
		gen: gen,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FromURL fetches a job posting page, strips it to plain text and
// extracts a JobRecord from it.
func (a *JobAnalyzer) FromURL(ctx context.Context, url string) (*domain.JobRecord, error) {
	text, err := a.fetchPageText(ctx, url)
	if err != nil {
		return nil, err
	}
	return a.FromText(ctx, text)
}

// FromText extracts a JobRecord from pasted job description text.
func (a *JobAnalyzer) FromText(ctx context.Context, text string) (*domain.JobRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewInputError("job description text is empty")
	}

	var record domain.JobRecord
	if err := a.gen.GenerateJSON(ctx, jobSystemPrompt, text, jobSchema, &record); err != nil {
		return nil, fmt.Errorf("extract job requirements: %w", err)
	}
	return &record, nil
}

// ResearchCompany looks up the employer with search grounding and
// structures the findings into a CompanyRecord. Grounded generation
// cannot carry a response schema, so the facts are gathered first and
// structured in a second pass.
func (a *JobAnalyzer) ResearchCompany(ctx context.Context, companyName string) (*domain.CompanyRecord, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, NewInputError("company name is empty")
	}

	query := fmt.Sprintf("What are %s's company values, culture, mission statement, industry, "+
		"size, products and recent news?", companyName)
	findings, err := a.gen.SearchGrounded(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("research company: %w", err)
	}

	prompt := fmt.Sprintf("Company name: %s\n\nSearch results:\n%s", companyName, findings)

	var record domain.CompanyRecord
	if err := a.gen.GenerateJSON(ctx, companySystemPrompt, prompt, companySchema, &record); err != nil {
		return nil, fmt.Errorf("structure company info: %w", err)
	}
	if record.CompanyName == "" {
		record.CompanyName = companyName
	}
	return &record, nil
}

// fetchPageText downloads the URL and reduces the HTML to readable text.
func (a *JobAnalyzer) fetchPageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", NewInputError(fmt.Sprintf("invalid URL: %s", url))
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; cvtailor/1.0)")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", NewInputError(fmt.Sprintf("cannot reach %s: %v", url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", NewInputError(fmt.Sprintf("fetching %s returned status %d", url, resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse job page: %w", err)
	}

	doc.Find("script, style, noscript, iframe, svg, nav, footer, header").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		line = collapseWhitespace.ReplaceAllString(strings.TrimSpace(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	text := strings.Join(lines, "\n")
	if text == "" {
		return "", NewInputError(fmt.Sprintf("no readable text at %s", url))
	}
	return text, nil
}
