// Package history persists chat messages and parsed sequences in SQLite.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"springnorm/internal/logging"
	"springnorm/internal/sequence"
	"springnorm/internal/specs"
)

// DefaultMaxMessages bounds the chat history kept per workspace.
const DefaultMaxMessages = 100

// Message is one persisted chat turn.
type Message struct {
	ID        int64
	Role      string // user, assistant
	Content   string
	CreatedAt time.Time
}

// StoredSequence is a parsed sequence block with its resolved display
// fields.
type StoredSequence struct {
	ID         string
	CreatedAt  time.Time
	ChatText   string
	Rows       []sequence.CommandRow
	PartName   string
	PartNumber string
}

// Store wraps the SQLite database.
type Store struct {
	db          *sql.DB
	mu          sync.RWMutex
	dbPath      string
	maxMessages int
}

// New initializes the SQLite database at the given path. maxMessages <= 0
// uses DefaultMaxMessages.
func New(path string, maxMessages int) (*Store, error) {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path, maxMessages: maxMessages}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.History("store opened at %s (max %d messages)", path, maxMessages)
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_chat_created ON chat_messages(created_at);

	CREATE TABLE IF NOT EXISTS sequences (
		id TEXT PRIMARY KEY,
		chat_text TEXT,
		rows_json TEXT NOT NULL,
		part_name TEXT,
		part_number TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sequences_created ON sequences(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// AddMessage appends a chat turn and trims history past the message cap.
func (s *Store) AddMessage(role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		`INSERT INTO chat_messages (role, content) VALUES (?, ?)`, role, content); err != nil {
		logging.HistoryError("failed to insert message: %v", err)
		return fmt.Errorf("failed to insert message: %w", err)
	}

	_, err := s.db.Exec(`
		DELETE FROM chat_messages WHERE id NOT IN (
			SELECT id FROM chat_messages ORDER BY id DESC LIMIT ?
		)`, s.maxMessages)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return nil
}

// Messages returns up to limit most recent messages in chronological order.
// limit <= 0 returns everything retained.
func (s *Store) Messages(limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = s.maxMessages
	}
	rows, err := s.db.Query(`
		SELECT id, role, content, created_at FROM (
			SELECT id, role, content, created_at
			FROM chat_messages ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ClearMessages drops the whole chat history.
func (s *Store) ClearMessages() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM chat_messages`)
	return err
}

// SaveSequence persists a parsed block along with its resolved display
// fields. Saving the same block twice replaces the stored copy.
func (s *Store) SaveSequence(block *sequence.SequenceBlock, resolved specs.ResolvedSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowsJSON, err := json.Marshal(block.Rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sequences (id, chat_text, rows_json, part_name, part_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chat_text = excluded.chat_text,
			rows_json = excluded.rows_json,
			part_name = excluded.part_name,
			part_number = excluded.part_number`,
		block.ID, block.ChatText, string(rowsJSON),
		resolved.PartName, resolved.PartNumber, block.CreatedAt)
	if err != nil {
		logging.HistoryError("failed to save sequence %s: %v", block.ID, err)
		return fmt.Errorf("failed to save sequence: %w", err)
	}
	logging.History("saved sequence %s (%d rows)", block.ID, len(block.Rows))
	return nil
}

// GetSequence loads one stored sequence by id.
func (s *Store) GetSequence(id string) (*StoredSequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, chat_text, rows_json, part_name, part_number, created_at
		FROM sequences WHERE id = ?`, id)
	return scanSequence(row)
}

// RecentSequences returns up to limit stored sequences, newest first.
func (s *Store) RecentSequences(limit int) ([]StoredSequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, chat_text, rows_json, part_name, part_number, created_at
		FROM sequences ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	var out []StoredSequence
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *seq)
	}
	return out, rows.Err()
}

// DeleteSequence removes one stored sequence.
func (s *Store) DeleteSequence(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM sequences WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSequence(r rowScanner) (*StoredSequence, error) {
	var seq StoredSequence
	var rowsJSON string
	if err := r.Scan(&seq.ID, &seq.ChatText, &rowsJSON, &seq.PartName, &seq.PartNumber, &seq.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sequence not found")
		}
		return nil, fmt.Errorf("failed to scan sequence: %w", err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &seq.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return &seq, nil
}
