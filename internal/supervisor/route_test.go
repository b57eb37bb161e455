package supervisor

import (
	"testing"

	"github.com/arusheva/cvtailor/internal/domain"
)

func TestRouteDecisionTable(t *testing.T) {
	cv := sampleCV()
	job := sampleJob()

	tests := []struct {
		name string
		sess domain.Session
		it   domain.Intent
		want Handler
	}{
		{
			name: "clarification answer with pending questions",
			sess: domain.Session{PendingQuestions: "1. Graduation year?"},
			it:   domain.IntentAnswerClarification,
			want: HandlerApplyClarification,
		},
		{
			name: "clarification answer without pending questions",
			sess: domain.Session{},
			it:   domain.IntentAnswerClarification,
			want: HandlerCannedResponse,
		},
		{
			name: "start tailoring with both records",
			sess: domain.Session{CV: cv, Job: job},
			it:   domain.IntentStartTailoring,
			want: HandlerInitiateHandoff,
		},
		{
			name: "start tailoring with only job record",
			sess: domain.Session{Job: job},
			it:   domain.IntentStartTailoring,
			want: HandlerRequestMissingData,
		},
		{
			name: "start tailoring with only cv record",
			sess: domain.Session{CV: cv},
			it:   domain.IntentStartTailoring,
			want: HandlerRequestMissingData,
		},
		{
			name: "upload cv",
			sess: domain.Session{},
			it:   domain.IntentUploadCV,
			want: HandlerRunExtractor,
		},
		{
			name: "job url",
			sess: domain.Session{CV: cv},
			it:   domain.IntentProvideJobURL,
			want: HandlerRunJobAnalyzer,
		},
		{
			name: "job text",
			sess: domain.Session{CV: cv},
			it:   domain.IntentProvideJobText,
			want: HandlerRunJobAnalyzer,
		},
		{
			name: "company research",
			sess: domain.Session{CV: cv, Job: job},
			it:   domain.IntentResearchCompany,
			want: HandlerRunCompanyResearch,
		},
		{
			name: "greeting",
			sess: domain.Session{},
			it:   domain.IntentGreeting,
			want: HandlerCannedResponse,
		},
		{
			name: "help",
			sess: domain.Session{},
			it:   domain.IntentHelp,
			want: HandlerCannedResponse,
		},
		{
			name: "general question",
			sess: domain.Session{},
			it:   domain.IntentGeneralQuestion,
			want: HandlerCannedResponse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := route(&tc.sess, tc.it); got != tc.want {
				t.Errorf("route() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRouteWriter(t *testing.T) {
	tests := []struct {
		text string
		want Handler
	}{
		{"looks good, continue", HandlerContinueHandoff},
		{"please emphasize my Go work", HandlerContinueHandoff},
		{"back to supervisor", HandlerReturnToSupervisor},
		{"I want to START OVER please", HandlerReturnToSupervisor},
		{"let's try a new job", HandlerReturnToSupervisor},
		{"use a different cv", HandlerReturnToSupervisor},
	}
	for _, tc := range tests {
		if got := routeWriter(tc.text); got != tc.want {
			t.Errorf("routeWriter(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestFindURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://jobs.example.com/123", "https://jobs.example.com/123"},
		{"check this out https://jobs.example.com/123 please", "https://jobs.example.com/123"},
		{"no url here", ""},
		{"(https://jobs.example.com/456)", "https://jobs.example.com/456"},
	}
	for _, tc := range tests {
		if got := findURL(tc.in); got != tc.want {
			t.Errorf("findURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompanyNameFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "Acme Corp"},
		{"research Acme Corp", "Acme Corp"},
		{"tell me about Acme Corp as a company", "Acme Corp"},
		{"", ""},
		{"this is a very long pasted paragraph about something else entirely that is not a name", ""},
	}
	for _, tc := range tests {
		if got := companyNameFrom(tc.in); got != tc.want {
			t.Errorf("companyNameFrom(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
