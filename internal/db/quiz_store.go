package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-hub/internal/quiz"
)

var _ quiz.Store = (*QuizStore)(nil)

// QuizStore persists quiz sessions as JSONB with optimistic versioning.
type QuizStore struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// NewQuizStore creates a QuizStore. Sessions idle longer than ttl are
// treated as gone; ttl <= 0 keeps them forever.
func NewQuizStore(db *DB, ttl time.Duration) *QuizStore {
	return &QuizStore{db: db, ttl: ttl, now: time.Now}
}

// Create inserts a new session
func (s *QuizStore) Create(ctx context.Context, sess *quiz.Session) error {
	state, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO quiz_sessions (id, deck_id, state, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sess.ID, sess.DeckID, state, sess.Version, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get loads a session by ID
func (s *QuizStore) Get(ctx context.Context, id uuid.UUID) (*quiz.Session, error) {
	var state []byte
	var updatedAt time.Time
	err := s.db.pool.QueryRow(ctx,
		`SELECT state, updated_at FROM quiz_sessions WHERE id = $1`,
		id,
	).Scan(&state, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &quiz.NotFoundError{What: "session", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if s.expired(updatedAt) {
		return nil, &quiz.NotFoundError{What: "session", ID: id.String()}
	}

	var sess quiz.Session
	if err := json.Unmarshal(state, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Save writes the session if nobody else has since the caller loaded it
func (s *QuizStore) Save(ctx context.Context, sess *quiz.Session) error {
	expected := sess.Version
	sess.Version++
	state, err := json.Marshal(sess)
	if err != nil {
		sess.Version = expected
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tag, err := s.db.pool.Exec(ctx,
		`UPDATE quiz_sessions SET state = $2, version = $3, updated_at = $4
		 WHERE id = $1 AND version = $5`,
		sess.ID, state, sess.Version, sess.UpdatedAt, expected,
	)
	if err != nil {
		sess.Version = expected
		return fmt.Errorf("failed to save session: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	sess.Version = expected
	var exists bool
	err = s.db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quiz_sessions WHERE id = $1)`, sess.ID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if !exists {
		return &quiz.NotFoundError{What: "session", ID: sess.ID.String()}
	}
	return &quiz.ConflictError{SessionID: sess.ID.String()}
}

// RecordResult upserts the result row for a finished session
func (s *QuizStore) RecordResult(ctx context.Context, r quiz.Result) error {
	missed := r.MissedIDs
	if missed == nil {
		missed = []string{}
	}
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}

	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO quiz_results (session_id, deck_id, correct, total, percent, grade, missed_ids, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (session_id) DO UPDATE SET
		   correct = $3, total = $4, percent = $5, grade = $6, missed_ids = $7, finished_at = $8`,
		r.SessionID, r.DeckID, r.Correct, r.Total, r.Percent, r.Grade, missed, finished,
	)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// DeckStats aggregates finished results for one deck
type DeckStats struct {
	DeckID         string  `json:"deck_id"`
	Sessions       int     `json:"sessions"`
	AveragePercent float64 `json:"average_percent"`
}

// Stats returns result counts and average scores for a deck
func (s *QuizStore) Stats(ctx context.Context, deckID string) (*DeckStats, error) {
	stats := DeckStats{DeckID: deckID}
	err := s.db.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(percent), 0)::float8 FROM quiz_results WHERE deck_id = $1`,
		deckID,
	).Scan(&stats.Sessions, &stats.AveragePercent)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck stats: %w", err)
	}
	return &stats, nil
}

// DeleteExpired removes sessions idle past the TTL and returns how many went
func (s *QuizStore) DeleteExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	tag, err := s.db.pool.Exec(ctx,
		`DELETE FROM quiz_sessions WHERE updated_at < $1`,
		s.now().Add(-s.ttl),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *QuizStore) expired(updatedAt time.Time) bool {
	return s.ttl > 0 && s.now().Sub(updatedAt) > s.ttl
}
