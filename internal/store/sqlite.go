package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arusheva/cvtailor/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	sessionMu sync.Mutex // serializes read-merge-write cycles to prevent SQLITE_BUSY and lost updates
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		stage TEXT NOT NULL,
		active_collaborator TEXT NOT NULL,
		cv_json TEXT,
		job_json TEXT,
		company_json TEXT,
		pending_questions TEXT,
		ready_for_tailoring INTEGER NOT NULL DEFAULT 0,
		conversation_json TEXT NOT NULL,
		transcript_json TEXT NOT NULL,
		last_user_input TEXT,
		last_response TEXT,
		created_at INTEGER NOT NULL,
		last_active_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// CreateSession stores a new session record.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *domain.Session) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	cvJSON, jobJSON, companyJSON, err := marshalRecords(sess)
	if err != nil {
		return err
	}
	logJSON, transcriptJSON, err := marshalMessages(sess)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (
			session_id, stage, active_collaborator, cv_json, job_json, company_json,
			pending_questions, ready_for_tailoring, conversation_json, transcript_json,
			last_user_input, last_response, created_at, last_active_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		sess.ID, string(sess.Stage), string(sess.ActiveCollaborator),
		cvJSON, jobJSON, companyJSON,
		nullable(sess.PendingQuestions), sess.ReadyForTailoring,
		logJSON, transcriptJSON,
		nullable(sess.LastUserInput), nullable(sess.LastResponse),
		sess.CreatedAt.Unix(), sess.LastActiveAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	return s.getSessionLocked(ctx, id)
}

func (s *SQLiteStore) getSessionLocked(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT session_id, stage, active_collaborator, cv_json, job_json, company_json,
		       pending_questions, ready_for_tailoring, conversation_json, transcript_json,
		       last_user_input, last_response, created_at, last_active_at
		FROM sessions WHERE session_id = ?`

	row := s.db.QueryRowContext(ctx, query, id)

	var sess domain.Session
	var stage, collaborator string
	var cvJSON, jobJSON, companyJSON, pending, lastInput, lastResponse sql.NullString
	var logJSON, transcriptJSON string
	var createdAt, lastActiveAt int64

	err := row.Scan(
		&sess.ID, &stage, &collaborator, &cvJSON, &jobJSON, &companyJSON,
		&pending, &sess.ReadyForTailoring, &logJSON, &transcriptJSON,
		&lastInput, &lastResponse, &createdAt, &lastActiveAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	sess.Stage = domain.Stage(stage)
	sess.ActiveCollaborator = domain.Collaborator(collaborator)
	sess.PendingQuestions = pending.String
	sess.NeedsClarification = pending.String != ""
	sess.LastUserInput = lastInput.String
	sess.LastResponse = lastResponse.String
	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.LastActiveAt = time.Unix(lastActiveAt, 0)

	if cvJSON.Valid {
		var cv domain.ResumeRecord
		if err := json.Unmarshal([]byte(cvJSON.String), &cv); err != nil {
			return nil, fmt.Errorf("unmarshal cv record: %w", err)
		}
		sess.CV = &cv
	}
	if jobJSON.Valid {
		var job domain.JobRecord
		if err := json.Unmarshal([]byte(jobJSON.String), &job); err != nil {
			return nil, fmt.Errorf("unmarshal job record: %w", err)
		}
		sess.Job = &job
	}
	if companyJSON.Valid {
		var company domain.CompanyRecord
		if err := json.Unmarshal([]byte(companyJSON.String), &company); err != nil {
			return nil, fmt.Errorf("unmarshal company record: %w", err)
		}
		sess.Company = &company
	}
	if err := json.Unmarshal([]byte(logJSON), &sess.ConversationLog); err != nil {
		return nil, fmt.Errorf("unmarshal conversation log: %w", err)
	}
	if err := json.Unmarshal([]byte(transcriptJSON), &sess.HandoffTranscript); err != nil {
		return nil, fmt.Errorf("unmarshal handoff transcript: %w", err)
	}

	return &sess, nil
}

// UpdateSession applies the patch with merge semantics. The whole
// read-merge-write cycle runs under the session mutex so concurrent turns
// for the same id cannot interleave and lose updates.
func (s *SQLiteStore) UpdateSession(ctx context.Context, id string, patch SessionPatch) (*domain.Session, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	sess, err := s.getSessionLocked(ctx, id)
	if err != nil {
		return nil, err
	}

	MergeSession(sess, patch, time.Now())

	if err := s.writeSessionLocked(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// AppendMessage appends one entry to the session's conversation log.
func (s *SQLiteStore) AppendMessage(ctx context.Context, id string, msg domain.Message) error {
	_, err := s.UpdateSession(ctx, id, SessionPatch{AppendLog: []domain.Message{msg}})
	return err
}

func (s *SQLiteStore) writeSessionLocked(ctx context.Context, sess *domain.Session) error {
	cvJSON, jobJSON, companyJSON, err := marshalRecords(sess)
	if err != nil {
		return err
	}
	logJSON, transcriptJSON, err := marshalMessages(sess)
	if err != nil {
		return err
	}

	query := `
		UPDATE sessions SET
			stage = ?, active_collaborator = ?,
			cv_json = COALESCE(?, cv_json),
			job_json = COALESCE(?, job_json),
			company_json = COALESCE(?, company_json),
			pending_questions = ?, ready_for_tailoring = ?,
			conversation_json = ?, transcript_json = ?,
			last_user_input = ?, last_response = ?, last_active_at = ?
		WHERE session_id = ?`

	result, err := s.db.ExecContext(ctx, query,
		string(sess.Stage), string(sess.ActiveCollaborator),
		cvJSON, jobJSON, companyJSON,
		nullable(sess.PendingQuestions), sess.ReadyForTailoring,
		logJSON, transcriptJSON,
		nullable(sess.LastUserInput), nullable(sess.LastResponse),
		sess.LastActiveAt.Unix(), sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes a session.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CountSessions returns the number of stored sessions.
func (s *SQLiteStore) CountSessions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// CleanupExpiredSessions removes sessions idle for longer than ttl.
func (s *SQLiteStore) CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	threshold := time.Now().Add(-ttl).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_active_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func marshalRecords(sess *domain.Session) (cv, job, company interface{}, err error) {
	if sess.CV != nil {
		data, merr := json.Marshal(sess.CV)
		if merr != nil {
			return nil, nil, nil, fmt.Errorf("marshal cv record: %w", merr)
		}
		cv = string(data)
	}
	if sess.Job != nil {
		data, merr := json.Marshal(sess.Job)
		if merr != nil {
			return nil, nil, nil, fmt.Errorf("marshal job record: %w", merr)
		}
		job = string(data)
	}
	if sess.Company != nil {
		data, merr := json.Marshal(sess.Company)
		if merr != nil {
			return nil, nil, nil, fmt.Errorf("marshal company record: %w", merr)
		}
		company = string(data)
	}
	return cv, job, company, nil
}

func marshalMessages(sess *domain.Session) (logJSON, transcriptJSON string, err error) {
	logData, err := json.Marshal(messagesOrEmpty(sess.ConversationLog))
	if err != nil {
		return "", "", fmt.Errorf("marshal conversation log: %w", err)
	}
	transcriptData, err := json.Marshal(messagesOrEmpty(sess.HandoffTranscript))
	if err != nil {
		return "", "", fmt.Errorf("marshal handoff transcript: %w", err)
	}
	return string(logData), string(transcriptData), nil
}

func messagesOrEmpty(msgs []domain.Message) []domain.Message {
	if msgs == nil {
		return []domain.Message{}
	}
	return msgs
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
