// Package store provides session persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/arusheva/cvtailor/internal/domain"
)

// ErrNotFound is returned when a session id has no stored record, either
// because it never existed or because the expiry sweep removed it.
var ErrNotFound = errors.New("session not found")

// SessionPatch describes a partial session update. Nil fields are left
// untouched by the merge; record fields can only ever be set, never
// cleared, so stale handler output cannot erase collected data.
type SessionPatch struct {
	Stage              *domain.Stage
	ActiveCollaborator *domain.Collaborator
	CV                 *domain.ResumeRecord
	Job                *domain.JobRecord
	Company            *domain.CompanyRecord

	// PendingQuestions set to the empty string clears the clarification
	// state; needs_clarification is derived, never patched directly.
	PendingQuestions *string

	ReadyForTailoring *bool

	// AppendLog entries are appended to the conversation log in order.
	AppendLog []domain.Message

	// Transcript, when non-nil, replaces the hand-off transcript wholesale.
	Transcript *[]domain.Message

	LastUserInput *string
	LastResponse  *string
}

// Repository defines the interface for persisting conversation sessions.
// Update performs a read-merge-write that is atomic per session id.
type Repository interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, sess *domain.Session) error

	// GetSession retrieves a session by id. Returns ErrNotFound if missing.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// UpdateSession applies the patch with merge semantics and returns the
	// merged session. Returns ErrNotFound if the session is missing.
	UpdateSession(ctx context.Context, id string, patch SessionPatch) (*domain.Session, error)

	// AppendMessage appends one entry to the session's conversation log.
	AppendMessage(ctx context.Context, id string, msg domain.Message) error

	// DeleteSession removes a session. Returns ErrNotFound if missing.
	DeleteSession(ctx context.Context, id string) error

	// CountSessions returns the number of stored sessions.
	CountSessions(ctx context.Context) (int, error)

	// CleanupExpiredSessions removes sessions idle for longer than ttl
	// and reports how many were deleted.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies storage connectivity.
	Ping(ctx context.Context) error

	// Close closes the underlying storage.
	Close() error
}

// MergeSession applies patch to sess in place. This is the single point
// where the store's merge invariants live:
//
//   - cv/job/company records are monotone: a patch can set them but an
//     absent field never clears a stored value;
//   - needs_clarification tracks pending_questions exactly;
//   - ready_for_tailoring is clamped to false unless both records exist.
func MergeSession(sess *domain.Session, patch SessionPatch, now time.Time) {
	if patch.Stage != nil {
		sess.Stage = *patch.Stage
	}
	if patch.ActiveCollaborator != nil {
		sess.ActiveCollaborator = *patch.ActiveCollaborator
	}
	if patch.CV != nil {
		cv := patch.CV.Clone()
		sess.CV = &cv
	}
	if patch.Job != nil {
		job := patch.Job.Clone()
		sess.Job = &job
	}
	if patch.Company != nil {
		company := patch.Company.Clone()
		sess.Company = &company
	}
	if patch.PendingQuestions != nil {
		sess.PendingQuestions = *patch.PendingQuestions
	}
	sess.NeedsClarification = sess.PendingQuestions != ""
	if patch.ReadyForTailoring != nil {
		sess.ReadyForTailoring = *patch.ReadyForTailoring && sess.HasCV() && sess.HasJob()
	}
	if len(patch.AppendLog) > 0 {
		sess.ConversationLog = append(sess.ConversationLog, patch.AppendLog...)
	}
	if patch.Transcript != nil {
		sess.HandoffTranscript = append([]domain.Message(nil), (*patch.Transcript)...)
	}
	if patch.LastUserInput != nil {
		sess.LastUserInput = *patch.LastUserInput
	}
	if patch.LastResponse != nil {
		sess.LastResponse = *patch.LastResponse
	}
	sess.LastActiveAt = now
}
