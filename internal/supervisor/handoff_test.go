package supervisor

import (
	"strings"
	"testing"

	"github.com/arusheva/cvtailor/internal/domain"
)

func TestBuildHandoffContextIncludesRecords(t *testing.T) {
	sess := &domain.Session{CV: sampleCV(), Job: sampleJob()}

	context := buildHandoffContext(sess)
	if !strings.Contains(context, "Ada Lovelace") {
		t.Error("context missing CV data")
	}
	if !strings.Contains(context, "Backend Engineer") {
		t.Error("context missing job data")
	}
	if strings.Contains(context, "Company Information") {
		t.Error("context mentions company section without a company record")
	}

	sess.Company = &domain.CompanyRecord{
		CompanyName:    "Acme Corp",
		Industry:       "Technology",
		CoreValues:     []string{"Curiosity"},
		CompanyCulture: "Remote-first",
	}
	context = buildHandoffContext(sess)
	if !strings.Contains(context, "Company Information") || !strings.Contains(context, "Acme Corp") {
		t.Error("context missing company data")
	}
}

func TestBuildHandoffContextRoundTripsWithDetection(t *testing.T) {
	sess := &domain.Session{CV: sampleCV(), Job: sampleJob()}
	transcript := []domain.Message{
		{Role: domain.RoleSystem, Content: buildHandoffContext(sess)},
		{Role: domain.RoleUser, Content: "hello"},
	}
	if !hasSystemContext(transcript) {
		t.Error("freshly built context not detected")
	}
	if hasSystemContext(transcript[1:]) {
		t.Error("context detected in transcript without a system entry")
	}
}

func TestIsCompletionReply(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"PDF generated successfully at /tmp/cv.pdf", true},
		{"Your application complete, congratulations!", true},
		{"All done! Good luck.", true},
		{"Here is the tailoring plan for review.", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := isCompletionReply(tc.reply); got != tc.want {
			t.Errorf("isCompletionReply(%q) = %t, want %t", tc.reply, got, tc.want)
		}
	}
}

func TestHelpTextReflectsStatus(t *testing.T) {
	sess := &domain.Session{}
	text := helpText(sess)
	if !strings.Contains(text, "Waiting for CV") || !strings.Contains(text, "Waiting for job posting") {
		t.Errorf("empty session help = %q", text)
	}

	sess.CV = sampleCV()
	sess.Job = sampleJob()
	sess.ReadyForTailoring = true
	text = helpText(sess)
	if !strings.Contains(text, "CV data collected") ||
		!strings.Contains(text, "Job data collected") ||
		!strings.Contains(text, "Ready to start tailoring") {
		t.Errorf("full session help = %q", text)
	}
}

func TestFormatJobSummaryTruncatesSkills(t *testing.T) {
	job := sampleJob()
	job.RequiredSkills = []string{"Go", "SQL", "Kubernetes", "AWS", "Docker", "Terraform"}

	summary := formatJobSummary(job)
	if !strings.Contains(summary, "Go, SQL, Kubernetes, AWS, Docker...") {
		t.Errorf("summary = %q", summary)
	}
	if strings.Contains(summary, "Terraform") {
		t.Errorf("summary lists more than five skills: %q", summary)
	}
}
