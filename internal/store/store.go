package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/xrehpicx/standup/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then need to delete the database and pull again.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store persists meetings, recordings and outcomes in SQLite.
//
// The store is the local cache of the workspace: the pull flow writes
// manifest data into it, outcome generation appends artifacts, and the
// UI and CLI read from it so listing works offline.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database at path and verifies the
// schema. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s and pull again)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}

	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// UpsertMeeting writes a meeting with its participants and recordings.
//
// Participants and recordings are replaced wholesale so the row set always
// mirrors the latest manifest. Outcomes are never touched here; they are
// generated locally and survive manifest refreshes.
func (s *Store) UpsertMeeting(ctx context.Context, m *model.Meeting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO meetings (id, title, started_at, dir) VALUES (?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET title=excluded.title, started_at=excluded.started_at, dir=excluded.dir`,
		m.ID.String(), m.Title, m.StartedAt.UTC().Format(time.RFC3339Nano), m.Dir,
	)
	if err != nil {
		return fmt.Errorf("upsert meeting: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE meeting_id = ?", m.ID.String()); err != nil {
		return fmt.Errorf("clear participants: %w", err)
	}
	for _, p := range m.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants (id, meeting_id, name, email) VALUES (?, ?, ?, ?)",
			p.ID.String(), m.ID.String(), p.Name, p.Email,
		)
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM recordings WHERE meeting_id = ?", m.ID.String()); err != nil {
		return fmt.Errorf("clear recordings: %w", err)
	}
	for _, r := range m.Recordings {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recordings (id, meeting_id, idx, title, duration, source_url, size_bytes, path)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID.String(), m.ID.String(), r.Index, r.Title, r.Duration, r.SourceURL, r.SizeBytes, r.Path,
		)
		if err != nil {
			return fmt.Errorf("insert recording: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit meeting: %w", err)
	}
	return nil
}

// GetMeeting fetches a meeting by ID with participants, recordings and
// outcomes attached. Returns ErrNotFound when no such meeting exists.
func (s *Store) GetMeeting(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, started_at, dir FROM meetings WHERE id = ?", id.String())

	meeting, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meeting %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadMeetingChildren(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// ListMeetings returns all meetings ordered by start time descending, with
// participants, recordings and outcomes attached.
func (s *Store) ListMeetings(ctx context.Context) ([]*model.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, started_at, dir FROM meetings ORDER BY started_at DESC, title")
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*model.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}

	for _, meeting := range meetings {
		if err := s.loadMeetingChildren(ctx, meeting); err != nil {
			return nil, err
		}
	}
	return meetings, nil
}

// SaveOutcome appends an outcome row.
func (s *Store) SaveOutcome(ctx context.Context, o *model.Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (id, meeting_id, kind, content, model, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID.String(), o.MeetingID.String(), string(o.Kind), o.Content, o.Model,
		o.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// ListOutcomes returns a meeting's outcomes ordered oldest first.
func (s *Store) ListOutcomes(ctx context.Context, meetingID uuid.UUID) ([]*model.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meeting_id, kind, content, model, created_at
         FROM outcomes WHERE meeting_id = ? ORDER BY created_at`, meetingID.String())
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*model.Outcome
	for rows.Next() {
		var o model.Outcome
		var id, mid, kind, createdAt string
		if err := rows.Scan(&id, &mid, &kind, &o.Content, &o.Model, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if o.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("outcome id: %w", err)
		}
		if o.MeetingID, err = uuid.Parse(mid); err != nil {
			return nil, fmt.Errorf("outcome meeting id: %w", err)
		}
		o.Kind = model.OutcomeKind(kind)
		if o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("outcome created_at: %w", err)
		}
		outcomes = append(outcomes, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// DeleteMeeting removes a meeting and, via foreign keys, its participants,
// recordings and outcomes.
func (s *Store) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM meetings WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("meeting %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*model.Meeting, error) {
	var m model.Meeting
	var id, startedAt string
	if err := row.Scan(&id, &m.Title, &startedAt, &m.Dir); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan meeting: %w", err)
	}

	var err error
	if m.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("meeting id: %w", err)
	}
	if m.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("meeting started_at: %w", err)
	}
	return &m, nil
}

func (s *Store) loadMeetingChildren(ctx context.Context, m *model.Meeting) error {
	if err := s.loadParticipants(ctx, m); err != nil {
		return err
	}
	if err := s.loadRecordings(ctx, m); err != nil {
		return err
	}
	outcomes, err := s.ListOutcomes(ctx, m.ID)
	if err != nil {
		return err
	}
	m.Outcomes = outcomes
	return nil
}

func (s *Store) loadParticipants(ctx context.Context, m *model.Meeting) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email FROM participants WHERE meeting_id = ? ORDER BY name", m.ID.String())
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	m.Participants = nil
	for rows.Next() {
		var p model.Participant
		var id string
		if err := rows.Scan(&id, &p.Name, &p.Email); err != nil {
			return fmt.Errorf("scan participant: %w", err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("participant id: %w", err)
		}
		m.Participants = append(m.Participants, &p)
	}
	return rows.Err()
}

func (s *Store) loadRecordings(ctx context.Context, m *model.Meeting) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, idx, title, duration, source_url, size_bytes, path
         FROM recordings WHERE meeting_id = ? ORDER BY idx`, m.ID.String())
	if err != nil {
		return fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	m.Recordings = nil
	for rows.Next() {
		r := &model.Recording{Meeting: m}
		var id string
		if err := rows.Scan(&id, &r.Index, &r.Title, &r.Duration, &r.SourceURL, &r.SizeBytes, &r.Path); err != nil {
			return fmt.Errorf("scan recording: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("recording id: %w", err)
		}
		m.Recordings = append(m.Recordings, r)
	}
	return rows.Err()
}
