package supervisor

import (
	"encoding/json"
	"strings"

	"github.com/arusheva/cvtailor/internal/domain"
)

// handoffContextMarker identifies the system-context entry inside a
// hand-off transcript, both when building it and when checking whether a
// rehydrated transcript still carries one.
const handoffContextMarker = "CV Data (JSON)"

const handoffKickoff = "I have CV and job data ready for tailoring. Please analyze the alignment " +
	"and help me create a tailored CV and cover letter.\n\n" +
	"The complete CV and job data are available in the system context above."

// completionPhrases signal that the writer considers the application
// materials finished.
var completionPhrases = []string{
	"pdf generated successfully",
	"application complete",
	"all done",
}

const completionNote = "\n\n---\nGreat work! Your application materials are ready.\n\n" +
	"If you need help with another job application, just let me know!"

// buildHandoffContext serializes the session's collected records into
// the writer's system-context entry. Missing records are omitted; the
// same function serves both the initial hand-off and the repair path in
// continue_handoff, so the entry is always reproducible from session
// state alone.
func buildHandoffContext(sess *domain.Session) string {
	var sections []string
	if sess.CV != nil {
		sections = append(sections, handoffContextMarker+":\n"+marshalRecord(sess.CV))
	}
	if sess.Job != nil {
		sections = append(sections, "Job Requirements (JSON):\n"+marshalRecord(sess.Job))
	}

	context := "You have access to the following structured data for this job application:\n\n" +
		strings.Join(sections, "\n\n")

	if sess.Company != nil {
		context += "\n\nCompany Information:\n" + marshalRecord(sess.Company)
	}

	context += "\n\nIMPORTANT: This data is available throughout our conversation. " +
		"Always work from the FULL data above, not truncated versions from earlier messages."
	return context
}

// hasSystemContext reports whether the transcript already carries the
// data-bearing system entry.
func hasSystemContext(transcript []domain.Message) bool {
	for _, msg := range transcript {
		if msg.Role == domain.RoleSystem && strings.Contains(msg.Content, handoffContextMarker) {
			return true
		}
	}
	return false
}

// isCompletionReply checks the writer's reply for a completion phrase.
func isCompletionReply(reply string) bool {
	lowered := strings.ToLower(reply)
	for _, phrase := range completionPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func marshalRecord(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
