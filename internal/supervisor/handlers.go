package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arusheva/cvtailor/internal/collaborator"
	"github.com/arusheva/cvtailor/internal/domain"
	"github.com/arusheva/cvtailor/internal/store"
)

func ptr[T any](v T) *T { return &v }

// runExtractor extracts the resume at the path named in the user text,
// then checks it for ambiguities. No partial record is committed on any
// failure path.
func (s *Supervisor) runExtractor(ctx context.Context, sess *domain.Session, userText string) TurnResult {
	path := findDocumentPath(userText)

	cctx, cancel := s.collabContext(ctx)
	defer cancel()

	record, err := s.extractor.Extract(cctx, path)
	if err != nil {
		slog.Warn("CV extraction failed", "session_id", sess.ID, "path", path, "error", err)
		if collaborator.IsInputError(err) {
			return TurnResult{
				Response: fmt.Sprintf("I couldn't find the CV file at: %s\n\n"+
					"Please provide a valid file path.", path),
				SuggestedNext: NextWaitForInput,
			}
		}
		return TurnResult{
			Response: "I encountered an error processing your CV. " +
				"Please try again or provide a different file.",
			SuggestedNext: NextWaitForInput,
		}
	}

	questions, err := s.extractor.FindAmbiguities(cctx, record)
	if err != nil {
		slog.Warn("Ambiguity check failed", "session_id", sess.ID, "error", err)
		return TurnResult{
			Response: "I encountered an error processing your CV. " +
				"Please try again or provide a different file.",
			SuggestedNext: NextWaitForInput,
		}
	}

	if questions != "" {
		return TurnResult{
			Response: fmt.Sprintf("Great! I've extracted your CV information.\n\n"+
				"I have a few clarifying questions to ensure everything is accurate:\n\n%s\n\n"+
				"Please provide your answers, and I'll update your CV data accordingly.", questions),
			Patch: store.SessionPatch{
				CV:               record,
				PendingQuestions: &questions,
				Stage:            ptr(domain.StageCollectingCV),
			},
			SuggestedNext: NextWaitForClarification,
		}
	}

	return TurnResult{
		Response: fmt.Sprintf("Perfect! I've successfully extracted your CV information.\n\n"+
			"Here's a quick summary:\n%s\n%s", formatCVSummary(record), jobPromptText),
		Patch: store.SessionPatch{
			CV:               record,
			PendingQuestions: ptr(""),
			Stage:            ptr(domain.StageCollectingJob),
		},
		SuggestedNext: NextWaitForJob,
	}
}

// applyClarification merges the user's answers into the stored resume
// record. On failure the pending questions stay set so the user can try
// again.
func (s *Supervisor) applyClarification(ctx context.Context, sess *domain.Session, userText string) TurnResult {
	if sess.CV == nil {
		return s.requestMissingData(sess)
	}

	cctx, cancel := s.collabContext(ctx)
	defer cancel()

	updated, err := s.extractor.MergeClarification(cctx, sess.CV, userText)
	if err != nil {
		slog.Warn("Clarification merge failed", "session_id", sess.ID, "error", err)
		return TurnResult{
			Response: "I had trouble updating the CV with that. " +
				"Could you please rephrase your answers?",
			SuggestedNext: NextWaitForClarification,
		}
	}

	return TurnResult{
		Response: fmt.Sprintf("Thank you! I've updated your CV with that information.\n\n"+
			"Here's the updated summary:\n%s\n%s", formatCVSummary(updated), jobPromptText),
		Patch: store.SessionPatch{
			CV:               updated,
			PendingQuestions: ptr(""),
			Stage:            ptr(domain.StageCollectingJob),
		},
		SuggestedNext: NextWaitForJob,
	}
}

// runJobAnalyzer extracts a job record from a URL or pasted text,
// depending on the classified intent.
func (s *Supervisor) runJobAnalyzer(ctx context.Context, sess *domain.Session, it domain.Intent, userText string) TurnResult {
	cctx, cancel := s.collabContext(ctx)
	defer cancel()

	var (
		record *domain.JobRecord
		source string
		err    error
	)
	if it == domain.IntentProvideJobURL {
		url := findURL(userText)
		if url == "" {
			return TurnResult{
				Response: "I couldn't find a valid URL in your message. " +
					"Please provide the job posting URL.",
				SuggestedNext: NextWaitForJob,
			}
		}
		record, err = s.analyzer.FromURL(cctx, url)
		source = "URL: " + url
	} else {
		record, err = s.analyzer.FromText(cctx, userText)
		source = "pasted job description"
	}

	if err != nil {
		slog.Warn("Job analysis failed", "session_id", sess.ID, "error", err)
		return TurnResult{
			Response: "I had trouble analyzing the job posting. " +
				"Please try providing it in a different format.",
			SuggestedNext: NextWaitForJob,
		}
	}

	return TurnResult{
		Response: fmt.Sprintf("Excellent! I've analyzed the job posting from %s.\n\n"+
			"Here's what I found:\n%s\n"+
			"Would you like me to research the company as well? This can help with your cover letter.\n"+
			"- Type 'yes' to research the company\n"+
			"- Type 'no' or 'skip' to proceed directly to tailoring your CV", source, formatJobSummary(record)),
		Patch: store.SessionPatch{
			Job:   record,
			Stage: ptr(domain.StageCollectingJob),
		},
		SuggestedNext: NextAskCompanyResearch,
	}
}

// runCompanyResearch looks up the employer and, on success, transitions
// directly into the writer hand-off.
func (s *Supervisor) runCompanyResearch(ctx context.Context, sess *domain.Session, userText string) TurnResult {
	name := companyNameFrom(userText)
	if name == "" {
		return TurnResult{
			Response: "What's the company name? I'll research their values, " +
				"culture, and recent news.",
			SuggestedNext: NextAskCompanyResearch,
		}
	}

	cctx, cancel := s.collabContext(ctx)
	defer cancel()

	record, err := s.analyzer.ResearchCompany(cctx, name)
	if err != nil {
		slog.Warn("Company research failed", "session_id", sess.ID, "company", name, "error", err)
		return TurnResult{
			Response: fmt.Sprintf("I had trouble researching %s.\n\n"+
				"Would you like to try a different company name, or skip this step?", name),
			SuggestedNext: NextAskCompanyResearch,
		}
	}

	// The research result feeds straight into the hand-off; the writer
	// sees the freshly collected company record without another turn.
	enriched := sess.Clone()
	company := record.Clone()
	enriched.Company = &company

	handoff := s.initiateHandoff(ctx, enriched)
	handoff.Patch.Company = record
	handoff.Response = fmt.Sprintf("Perfect! I've researched %s.\n\n"+
		"Here's what I found:\n%s\n%s", name, formatCompanySummary(record), handoff.Response)
	return handoff
}

// requestMissingData tells the user exactly which records are still
// needed before tailoring can start. Pure response, no state change.
func (s *Supervisor) requestMissingData(sess *domain.Session) TurnResult {
	var response string
	switch {
	case !sess.HasCV() && !sess.HasJob():
		response = "To tailor your application materials, I need both your CV and the job posting.\n\n" +
			"Let's start with your CV. Please provide the file path to your CV."
	case !sess.HasCV():
		response = "I have the job posting, but I still need your CV to create tailored materials.\n\n" +
			"Please provide the file path to your CV."
	default:
		response = "I have your CV, but I still need the job posting to tailor your materials.\n\n" +
			"Please provide either:\n" +
			"- A URL to the job posting\n" +
			"- The job description text (you can paste it directly)"
	}
	return TurnResult{Response: response, SuggestedNext: NextWaitForInput}
}

// initiateHandoff builds the writer's starting transcript from the
// collected records and invokes the writer once. Failure keeps the
// supervisor in control so the user is not stranded mid-hand-off.
func (s *Supervisor) initiateHandoff(ctx context.Context, sess *domain.Session) TurnResult {
	if !sess.HasCV() || !sess.HasJob() {
		return s.requestMissingData(sess)
	}

	transcript := []domain.Message{
		{Role: domain.RoleSystem, Content: buildHandoffContext(sess)},
		{Role: domain.RoleUser, Content: handoffKickoff},
	}

	cctx, cancel := s.collabContext(ctx)
	defer cancel()

	reply, err := s.tailor.Reply(cctx, transcript)
	if err != nil {
		slog.Error("Writer handoff failed", "session_id", sess.ID, "error", err)
		return TurnResult{
			Response: "I encountered an error connecting to the writer. " +
				"Please try again in a moment.",
			SuggestedNext: NextWaitForInput,
		}
	}

	transcript = append(transcript, domain.Message{Role: domain.RoleAssistant, Content: reply})

	return TurnResult{
		Response: handoffIntro + "\n\n" + reply,
		Patch: store.SessionPatch{
			Stage:              ptr(domain.StageWriterSession),
			ActiveCollaborator: ptr(domain.CollaboratorWriter),
			ReadyForTailoring:  ptr(true),
			Transcript:         &transcript,
		},
		SuggestedNext: NextWriterActive,
	}
}

// continueHandoff forwards the user's message to the writer with the
// full transcript. A transcript missing its system-context entry is
// repaired from the session's records first; the repair inserts the
// context exactly once.
func (s *Supervisor) continueHandoff(ctx context.Context, sess *domain.Session, userText string) TurnResult {
	transcript := append([]domain.Message(nil), sess.HandoffTranscript...)

	if !hasSystemContext(transcript) && (sess.HasCV() || sess.HasJob()) {
		transcript = append([]domain.Message{
			{Role: domain.RoleSystem, Content: buildHandoffContext(sess)},
		}, transcript...)
	}

	transcript = append(transcript, domain.Message{Role: domain.RoleUser, Content: userText})

	cctx, cancel := s.collabContext(ctx)
	defer cancel()

	reply, err := s.tailor.Reply(cctx, transcript)
	if err != nil {
		slog.Error("Writer turn failed", "session_id", sess.ID, "error", err)
		return TurnResult{
			Response:      "I encountered an error talking to the writer. Please try again.",
			SuggestedNext: NextWriterActive,
		}
	}

	transcript = append(transcript, domain.Message{Role: domain.RoleAssistant, Content: reply})

	result := TurnResult{
		Response:      reply,
		Patch:         store.SessionPatch{Transcript: &transcript},
		SuggestedNext: NextWriterActive,
	}
	if isCompletionReply(reply) {
		result.Response += completionNote
		result.Patch.Stage = ptr(domain.StageComplete)
	}
	return result
}

// returnToSupervisor hands control back and resets the workflow.
func (s *Supervisor) returnToSupervisor(sess *domain.Session) TurnResult {
	empty := []domain.Message{}
	return TurnResult{
		Response: "I see you'd like to return to the main menu.\n\n" +
			"Would you like to:\n" +
			"- Start a new application with a different CV or job?\n" +
			"- Get help with something else?\n\n" +
			"Just let me know what you need!",
		Patch: store.SessionPatch{
			Stage:              ptr(domain.StageInit),
			ActiveCollaborator: ptr(domain.CollaboratorSupervisor),
			ReadyForTailoring:  ptr(false),
			Transcript:         &empty,
		},
		SuggestedNext: NextWaitForInput,
	}
}

// emitCannedResponse handles greeting, help and general questions. Help
// reflects the session's current completion status; general questions
// with both records collected nudge toward tailoring, everything else is
// delegated to the text generator.
func (s *Supervisor) emitCannedResponse(ctx context.Context, sess *domain.Session, it domain.Intent, userText string) TurnResult {
	switch it {
	case domain.IntentGreeting:
		return TurnResult{Response: greetingText, SuggestedNext: NextWaitForInput}
	case domain.IntentHelp:
		return TurnResult{Response: helpText(sess), SuggestedNext: NextWaitForInput}
	}

	if sess.HasCV() && sess.HasJob() {
		return TurnResult{Response: readyToTailorText, SuggestedNext: NextWaitForInput}
	}

	cctx, cancel := s.collabContext(ctx)
	defer cancel()

	reply, err := s.gen.GenerateText(cctx, generalQuestionSystem, userText)
	if err != nil {
		slog.Warn("General answer generation failed", "session_id", sess.ID, "error", err)
		return TurnResult{
			Response:      classifierFailureResponse,
			SuggestedNext: NextWaitForInput,
		}
	}
	return TurnResult{Response: reply, SuggestedNext: NextWaitForInput}
}

// findDocumentPath pulls a file path out of the user's message. A bare
// path is the common case; otherwise the first token that looks like a
// path is used.
func findDocumentPath(userText string) string {
	trimmed := strings.Trim(strings.TrimSpace(userText), `"'`)
	if !strings.ContainsAny(trimmed, " \t\n") {
		return trimmed
	}
	for _, token := range strings.Fields(trimmed) {
		token = strings.Trim(token, `"',.`)
		if strings.ContainsRune(token, '/') || strings.ContainsRune(token, '\\') {
			return token
		}
	}
	return trimmed
}

// findURL returns the first http(s) token in the message.
func findURL(userText string) string {
	trimmed := strings.TrimSpace(userText)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if !strings.ContainsAny(trimmed, " \t\n") {
			return trimmed
		}
	}
	for _, token := range strings.Fields(trimmed) {
		token = strings.Trim(token, `"',.<>()`)
		if strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://") {
			return token
		}
	}
	return ""
}

// companyNameFrom extracts a company name from the message, falling back
// to nothing so the handler can ask for one explicitly.
func companyNameFrom(userText string) string {
	name := strings.TrimSpace(userText)
	lowered := strings.ToLower(name)
	for _, prefix := range []string{"research ", "look up ", "lookup ", "tell me about ", "find out about "} {
		if strings.HasPrefix(lowered, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			lowered = strings.ToLower(name)
		}
	}
	name = strings.TrimSuffix(name, "as a company")
	name = strings.Trim(strings.TrimSpace(name), `"'.`)

	// A long message is pasted text, not a company name.
	if name == "" || len(strings.Fields(name)) > 6 {
		return ""
	}
	return name
}
