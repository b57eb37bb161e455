package supervisor

import (
	"strings"

	"github.com/arusheva/cvtailor/internal/domain"
)

// Handler names one node of the supervisor state machine. Exactly one
// handler runs per turn.
type Handler int

const (
	HandlerContinueHandoff Handler = iota
	HandlerReturnToSupervisor
	HandlerApplyClarification
	HandlerInitiateHandoff
	HandlerRequestMissingData
	HandlerRunExtractor
	HandlerRunJobAnalyzer
	HandlerRunCompanyResearch
	HandlerCannedResponse
)

func (h Handler) String() string {
	switch h {
	case HandlerContinueHandoff:
		return "continue_handoff"
	case HandlerReturnToSupervisor:
		return "return_to_supervisor"
	case HandlerApplyClarification:
		return "apply_clarification"
	case HandlerInitiateHandoff:
		return "initiate_handoff"
	case HandlerRequestMissingData:
		return "request_missing_data"
	case HandlerRunExtractor:
		return "run_extractor"
	case HandlerRunJobAnalyzer:
		return "run_job_analyzer"
	case HandlerRunCompanyResearch:
		return "run_company_research"
	case HandlerCannedResponse:
		return "emit_canned_response"
	}
	return "unknown"
}

// returnTriggers hand control back from the writer to the supervisor.
var returnTriggers = []string{
	"back to supervisor",
	"start over",
	"new job",
	"different cv",
}

// matchesReturnTrigger reports whether the user asked to leave the
// writer session. Substring match, case-insensitive.
func matchesReturnTrigger(userText string) bool {
	lowered := strings.ToLower(userText)
	for _, trigger := range returnTriggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}

// routeWriter selects the handler while the writer owns the turn. Intent
// classification is bypassed entirely in this mode.
func routeWriter(userText string) Handler {
	if matchesReturnTrigger(userText) {
		return HandlerReturnToSupervisor
	}
	return HandlerContinueHandoff
}

// route is the supervisor-side decision table: a total function over the
// session snapshot and the classified intent.
func route(sess *domain.Session, it domain.Intent) Handler {
	if it == domain.IntentAnswerClarification && sess.PendingQuestions != "" {
		return HandlerApplyClarification
	}
	if it == domain.IntentStartTailoring {
		if sess.HasCV() && sess.HasJob() {
			return HandlerInitiateHandoff
		}
		return HandlerRequestMissingData
	}
	switch it {
	case domain.IntentUploadCV:
		return HandlerRunExtractor
	case domain.IntentProvideJobURL, domain.IntentProvideJobText:
		return HandlerRunJobAnalyzer
	case domain.IntentResearchCompany:
		return HandlerRunCompanyResearch
	default:
		return HandlerCannedResponse
	}
}
