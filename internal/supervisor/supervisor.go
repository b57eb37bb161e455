// Package supervisor implements the conversation state machine that
// routes user messages among the CV extractor, the job analyzer and the
// writer, and persists session progress between turns.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arusheva/cvtailor/internal/domain"
	"github.com/arusheva/cvtailor/internal/intent"
	"github.com/arusheva/cvtailor/internal/store"
	"github.com/arusheva/cvtailor/internal/textgen"
)

// Extractor turns a resume document into structured data and drives the
// clarification loop over it.
type Extractor interface {
	Extract(ctx context.Context, path string) (*domain.ResumeRecord, error)
	FindAmbiguities(ctx context.Context, record *domain.ResumeRecord) (string, error)
	MergeClarification(ctx context.Context, record *domain.ResumeRecord, answers string) (*domain.ResumeRecord, error)
}

// JobAnalyzer extracts job requirements and researches employers.
type JobAnalyzer interface {
	FromURL(ctx context.Context, url string) (*domain.JobRecord, error)
	FromText(ctx context.Context, text string) (*domain.JobRecord, error)
	ResearchCompany(ctx context.Context, name string) (*domain.CompanyRecord, error)
}

// Tailor produces the writer's next turn for a hand-off transcript.
type Tailor interface {
	Reply(ctx context.Context, transcript []domain.Message) (string, error)
}

// NextAction is the hint returned to the caller about what kind of input
// the assistant expects next. It carries no control-flow weight inside
// the state machine.
type NextAction string

const (
	NextWaitForInput         NextAction = "wait_for_input"
	NextWaitForClarification NextAction = "wait_for_clarification"
	NextWaitForJob           NextAction = "wait_for_job"
	NextAskCompanyResearch   NextAction = "ask_company_research"
	NextWriterActive         NextAction = "writer_active"
)

// TurnResult is what a handler produces: the user-facing response, the
// state patch to persist, and the next-action hint.
type TurnResult struct {
	Response      string
	Patch         store.SessionPatch
	SuggestedNext NextAction
}

// TurnOutcome is the caller-visible result of one send_message turn.
type TurnOutcome struct {
	AssistantText string              `json:"assistant_message"`
	Summary       domain.StateSummary `json:"session_state"`
	SuggestedNext NextAction          `json:"suggested_next_action"`
}

// DefaultCollaboratorTimeout bounds a single collaborator invocation.
const DefaultCollaboratorTimeout = 120 * time.Second

// Supervisor is the orchestration core. It is stateless between turns
// apart from per-session turn locks; all session state lives in the
// repository.
type Supervisor struct {
	repo       store.Repository
	classifier intent.Classifier
	extractor  Extractor
	analyzer   JobAnalyzer
	tailor     Tailor
	gen        textgen.Generator
	timeout    time.Duration

	// turnLocks serializes turns per session id so concurrent requests
	// for the same session cannot interleave read-dispatch-persist.
	turnLocks sync.Map
}

// Options carries the supervisor's collaborator wiring.
type Options struct {
	Repo       store.Repository
	Classifier intent.Classifier
	Extractor  Extractor
	Analyzer   JobAnalyzer
	Tailor     Tailor
	Generator  textgen.Generator
	Timeout    time.Duration
}

func New(opts Options) *Supervisor {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultCollaboratorTimeout
	}
	return &Supervisor{
		repo:       opts.Repo,
		classifier: opts.Classifier,
		extractor:  opts.Extractor,
		analyzer:   opts.Analyzer,
		tailor:     opts.Tailor,
		gen:        opts.Generator,
		timeout:    timeout,
	}
}

func (s *Supervisor) lockSession(id string) func() {
	muIface, _ := s.turnLocks.LoadOrStore(id, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// StartSession creates an empty session and returns its id with the
// welcome message.
func (s *Supervisor) StartSession(ctx context.Context) (string, string, error) {
	id := uuid.NewString()
	sess := domain.NewSession(id, time.Now().UTC())
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return "", "", fmt.Errorf("create session: %w", err)
	}
	slog.Info("Session created", "session_id", id)
	return id, welcomeMessage, nil
}

// GetState returns the state summary for a session.
func (s *Supervisor) GetState(ctx context.Context, sessionID string) (domain.StateSummary, error) {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return domain.StateSummary{}, err
	}
	return sess.Summary(), nil
}

// DeleteSession removes a session and its turn lock.
func (s *Supervisor) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.turnLocks.Delete(sessionID)
	slog.Info("Session deleted", "session_id", sessionID)
	return nil
}

// CleanupSessions runs an expiry sweep and returns how many sessions
// were removed.
func (s *Supervisor) CleanupSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	return s.repo.CleanupExpiredSessions(ctx, ttl)
}

// ActiveSessions reports how many sessions are stored.
func (s *Supervisor) ActiveSessions(ctx context.Context) (int, error) {
	return s.repo.CountSessions(ctx)
}

// SendMessage processes one user turn: load session, select a handler,
// run it, persist the resulting patch and return the response. The whole
// sequence holds the session's turn lock so turns for one session are
// strictly ordered.
func (s *Supervisor) SendMessage(ctx context.Context, sessionID, userText string) (*TurnOutcome, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := s.runTurn(ctx, sess, userText)

	patch := result.Patch
	patch.AppendLog = append([]domain.Message{{Role: domain.RoleUser, Content: userText}},
		append(patch.AppendLog, domain.Message{Role: domain.RoleAssistant, Content: result.Response})...)
	patch.LastUserInput = &userText
	patch.LastResponse = &result.Response

	updated, err := s.repo.UpdateSession(ctx, sessionID, patch)
	if err != nil {
		return nil, fmt.Errorf("persist turn: %w", err)
	}

	return &TurnOutcome{
		AssistantText: result.Response,
		Summary:       updated.Summary(),
		SuggestedNext: result.SuggestedNext,
	}, nil
}

// runTurn selects and executes exactly one handler for the turn.
func (s *Supervisor) runTurn(ctx context.Context, sess *domain.Session, userText string) TurnResult {
	if sess.ActiveCollaborator == domain.CollaboratorWriter {
		switch routeWriter(userText) {
		case HandlerReturnToSupervisor:
			return s.returnToSupervisor(sess)
		default:
			return s.continueHandoff(ctx, sess, userText)
		}
	}

	label, err := s.classifier.Classify(ctx, sess.Summary(), userText)
	if err != nil {
		slog.Error("Intent classification failed", "session_id", sess.ID, "error", err)
		return TurnResult{
			Response:      classifierFailureResponse,
			SuggestedNext: NextWaitForInput,
		}
	}
	slog.Info("Intent classified", "session_id", sess.ID, "intent", string(label))

	handler := route(sess, label)
	switch handler {
	case HandlerApplyClarification:
		return s.applyClarification(ctx, sess, userText)
	case HandlerInitiateHandoff:
		return s.initiateHandoff(ctx, sess)
	case HandlerRequestMissingData:
		return s.requestMissingData(sess)
	case HandlerRunExtractor:
		return s.runExtractor(ctx, sess, userText)
	case HandlerRunJobAnalyzer:
		return s.runJobAnalyzer(ctx, sess, label, userText)
	case HandlerRunCompanyResearch:
		return s.runCompanyResearch(ctx, sess, userText)
	default:
		return s.emitCannedResponse(ctx, sess, label, userText)
	}
}

// collabContext bounds a collaborator invocation. Exceeding the deadline
// takes the same path as a collaborator failure.
func (s *Supervisor) collabContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}
