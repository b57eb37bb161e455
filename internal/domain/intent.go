package domain

// Intent is one label from the closed set the classifier may produce.
type Intent string

const (
	IntentUploadCV            Intent = "upload_cv"
	IntentProvideJobURL       Intent = "provide_job_url"
	IntentProvideJobText      Intent = "provide_job_text"
	IntentResearchCompany     Intent = "research_company"
	IntentStartTailoring      Intent = "start_tailoring"
	IntentAnswerClarification Intent = "answer_clarification"
	IntentGeneralQuestion     Intent = "general_question"
	IntentGreeting            Intent = "greeting"
	IntentHelp                Intent = "help"
)

// Intents lists every valid intent label, in the order presented to the
// classifier.
var Intents = []Intent{
	IntentUploadCV,
	IntentProvideJobURL,
	IntentProvideJobText,
	IntentResearchCompany,
	IntentStartTailoring,
	IntentAnswerClarification,
	IntentGeneralQuestion,
	IntentGreeting,
	IntentHelp,
}

// ValidIntent reports whether label is a member of the closed intent set.
func ValidIntent(label Intent) bool {
	for _, it := range Intents {
		if it == label {
			return true
		}
	}
	return false
}
