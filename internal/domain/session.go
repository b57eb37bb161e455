// Package domain contains core domain types for the cvtailor application.
package domain

import (
	"time"
)

// Stage is the coarse phase of a conversation session. It advances
// monotonically except on an explicit reset back to StageInit.
type Stage string

const (
	StageInit          Stage = "init"
	StageCollectingCV  Stage = "collecting_cv"
	StageCollectingJob Stage = "collecting_job"
	StageWriterSession Stage = "writer_session"
	StageComplete      Stage = "complete"
)

// Collaborator identifies who currently owns the conversational turn.
type Collaborator string

const (
	CollaboratorSupervisor Collaborator = "supervisor"
	CollaboratorWriter     Collaborator = "writer"
)

// Message is a single conversation entry. Used both for the session's
// append-only conversation log and for the writer hand-off transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session is the persisted unit of conversation state, keyed by an opaque
// UUID. Handlers receive a snapshot, compute a patch, and submit it back
// through the store's merge-update; they never mutate shared state directly.
type Session struct {
	ID                 string         `json:"id"`
	Stage              Stage          `json:"stage"`
	ActiveCollaborator Collaborator   `json:"active_collaborator"`
	CV                 *ResumeRecord  `json:"cv_record,omitempty"`
	Job                *JobRecord     `json:"job_record,omitempty"`
	Company            *CompanyRecord `json:"company_record,omitempty"`
	PendingQuestions   string         `json:"pending_questions,omitempty"`
	NeedsClarification bool           `json:"needs_clarification"`
	ReadyForTailoring  bool           `json:"ready_for_tailoring"`
	ConversationLog    []Message      `json:"conversation_log"`
	HandoffTranscript  []Message      `json:"handoff_transcript"`
	LastUserInput      string         `json:"last_user_input,omitempty"`
	LastResponse       string         `json:"last_response,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	LastActiveAt       time.Time      `json:"last_active_at"`
}

// NewSession returns an empty session in its initial state.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:                 id,
		Stage:              StageInit,
		ActiveCollaborator: CollaboratorSupervisor,
		CreatedAt:          now,
		LastActiveAt:       now,
	}
}

// HasCV reports whether résumé data has been collected.
func (s *Session) HasCV() bool { return s.CV != nil }

// HasJob reports whether job posting data has been collected.
func (s *Session) HasJob() bool { return s.Job != nil }

// HasCompany reports whether company research data has been collected.
func (s *Session) HasCompany() bool { return s.Company != nil }

// Summary builds the caller-visible state summary for this session.
func (s *Session) Summary() StateSummary {
	return StateSummary{
		Stage:              s.Stage,
		HasCV:              s.HasCV(),
		HasJob:             s.HasJob(),
		HasCompany:         s.HasCompany(),
		NeedsClarification: s.NeedsClarification,
		ReadyForTailoring:  s.ReadyForTailoring,
		ActiveCollaborator: s.ActiveCollaborator,
	}
}

// Clone returns a deep copy of the session so a handler can work on a
// snapshot without aliasing the stored record's slices.
func (s *Session) Clone() *Session {
	dup := *s
	dup.ConversationLog = append([]Message(nil), s.ConversationLog...)
	dup.HandoffTranscript = append([]Message(nil), s.HandoffTranscript...)
	if s.CV != nil {
		cv := s.CV.Clone()
		dup.CV = &cv
	}
	if s.Job != nil {
		job := s.Job.Clone()
		dup.Job = &job
	}
	if s.Company != nil {
		company := s.Company.Clone()
		dup.Company = &company
	}
	return &dup
}

// StateSummary is the compact view of a session returned to API callers.
type StateSummary struct {
	Stage              Stage        `json:"stage"`
	HasCV              bool         `json:"has_cv"`
	HasJob             bool         `json:"has_job"`
	HasCompany         bool         `json:"has_company"`
	NeedsClarification bool         `json:"needs_clarification"`
	ReadyForTailoring  bool         `json:"ready_for_tailoring"`
	ActiveCollaborator Collaborator `json:"active_collaborator"`
}
