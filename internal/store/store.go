package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"RocketClient/internal/backend"
	"RocketClient/internal/session"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a transcript id is unknown
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id TEXT PRIMARY KEY,
	start_time DATETIME,
	base_url TEXT
);
CREATE TABLE IF NOT EXISTS chat_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	transcript_id TEXT,
	message_id TEXT,
	username TEXT,
	message TEXT,
	timestamp TEXT,
	reactions INTEGER,
	FOREIGN KEY(transcript_id) REFERENCES transcripts(id)
);
CREATE TABLE IF NOT EXISTS cookies (
	base_url TEXT,
	name TEXT,
	value TEXT,
	saved_at DATETIME,
	PRIMARY KEY(base_url, name)
);`

// Store keeps chat transcripts and session cookies in a local SQLite file
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTranscript writes the transcript and replaces its stored messages
func (s *Store) SaveTranscript(t *session.Transcript) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO transcripts (id, start_time, base_url) VALUES (?, ?, ?)",
		t.ID, t.StartTime, t.BaseURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM chat_messages WHERE transcript_id = ?", t.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	for _, msg := range t.Messages {
		var reactions sql.NullInt64
		if msg.Reactions != nil {
			reactions = sql.NullInt64{Int64: int64(*msg.Reactions), Valid: true}
		}
		_, err = tx.Exec(
			"INSERT INTO chat_messages (transcript_id, message_id, username, message, timestamp, reactions) VALUES (?, ?, ?, ?, ?, ?)",
			t.ID, msg.ID, msg.Username, msg.Message, msg.Timestamp, reactions,
		)
		if err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("transcript saved", "transcript_id", t.ID, "message_count", len(t.Messages))
	return nil
}

// LoadTranscript reads a transcript and its messages in arrival order
func (s *Store) LoadTranscript(id string) (*session.Transcript, error) {
	t := &session.Transcript{ID: id, Messages: []backend.ChatMessage{}}

	err := s.db.QueryRow("SELECT start_time, base_url FROM transcripts WHERE id = ?", id).
		Scan(&t.StartTime, &t.BaseURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transcript %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT message_id, username, message, timestamp, reactions FROM chat_messages WHERE transcript_id = ? ORDER BY id",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg backend.ChatMessage
		var reactions sql.NullInt64
		if err := rows.Scan(&msg.ID, &msg.Username, &msg.Message, &msg.Timestamp, &reactions); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if reactions.Valid {
			n := int(reactions.Int64)
			msg.Reactions = &n
		}
		t.Messages = append(t.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return t, nil
}

// SaveCookies replaces the cookies stored for baseURL. An empty slice
// forgets the session.
func (s *Store) SaveCookies(baseURL string, cookies []*http.Cookie) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cookies WHERE base_url = ?", baseURL); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}

	now := time.Now()
	for _, ck := range cookies {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO cookies (base_url, name, value, saved_at) VALUES (?, ?, ?, ?)",
			baseURL, ck.Name, ck.Value, now,
		)
		if err != nil {
			return fmt.Errorf("failed to save cookie: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("cookies saved", "base_url", baseURL, "count", len(cookies))
	return nil
}

// LoadCookies returns the cookies stored for baseURL
func (s *Store) LoadCookies(baseURL string) ([]*http.Cookie, error) {
	rows, err := s.db.Query("SELECT name, value FROM cookies WHERE base_url = ? ORDER BY name", baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*http.Cookie
	for rows.Next() {
		ck := &http.Cookie{}
		if err := rows.Scan(&ck.Name, &ck.Value); err != nil {
			return nil, fmt.Errorf("failed to scan cookie: %w", err)
		}
		cookies = append(cookies, ck)
	}
	return cookies, rows.Err()
}
