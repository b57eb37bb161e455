// Package intent classifies user messages into the supervisor's closed
// set of routing labels.
package intent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/arusheva/cvtailor/internal/domain"
	"github.com/arusheva/cvtailor/internal/textgen"
)

// Classifier decides which intent a user message carries given the
// current session state.
type Classifier interface {
	Classify(ctx context.Context, snapshot domain.StateSummary, userInput string) (domain.Intent, error)
}

var labelSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"intent": {
			Type: genai.TypeString,
			Enum: intentLabels(),
			Description: "The single label that best describes what the user " +
				"wants the assistant to do next",
		},
	},
	Required: []string{"intent"},
}

func intentLabels() []string {
	labels := make([]string, len(domain.Intents))
	for i, it := range domain.Intents {
		labels[i] = string(it)
	}
	return labels
}

const classifySystem = `You route messages for a job application assistant. Classify the user's message into exactly one intent label.

Labels:
- upload_cv: the user provides a resume file path or asks to process their CV
- provide_job_url: the message contains a link to a job posting
- provide_job_text: the message is or contains pasted job description text
- research_company: the user asks to look up an employer
- start_tailoring: the user wants the tailored CV or cover letter written
- answer_clarification: the user is answering questions previously asked about their resume
- general_question: a question about the process or the collected data
- greeting: a greeting or small talk
- help: the user asks what the assistant can do

Rules:
- If the session already has both a CV and a job posting, short confirmations and vague follow-ups like "ok go ahead", "yes", "let's do it" mean start_tailoring.
- If the session is waiting on clarification answers, a message that answers questions is answer_clarification.
- A bare URL is provide_job_url. A long pasted block describing a role is provide_job_text.`

// GenClassifier classifies with a schema-constrained model call. The
// response schema restricts output to the label enum, so an
// out-of-vocabulary label can only come from a decoding failure and is
// surfaced as an error.
type GenClassifier struct {
	gen textgen.Generator
}

func NewGenClassifier(gen textgen.Generator) *GenClassifier {
	return &GenClassifier{gen: gen}
}

func (c *GenClassifier) Classify(ctx context.Context, snapshot domain.StateSummary, userInput string) (domain.Intent, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session state: stage=%s, has_cv=%t, has_job=%t, has_company=%t, waiting_for_clarification=%t\n",
		snapshot.Stage, snapshot.HasCV, snapshot.HasJob, snapshot.HasCompany, snapshot.NeedsClarification)
	sb.WriteString("\nUser message:\n")
	sb.WriteString(userInput)

	var result struct {
		Intent string `json:"intent"`
	}
	if err := c.gen.GenerateJSON(ctx, classifySystem, sb.String(), labelSchema, &result); err != nil {
		return "", fmt.Errorf("classify intent: %w", err)
	}

	label := domain.Intent(strings.TrimSpace(result.Intent))
	if !domain.ValidIntent(label) {
		return "", fmt.Errorf("classify intent: unknown label %q", result.Intent)
	}
	return label, nil
}
