// Package storage provides a SQLite journal of played matches.
// A match records everything needed to re-simulate it: mode, seed, tick
// rate, the configuration in effect and the input log.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the match journal.
type Store struct {
	db *sql.DB
}

// Match is one journaled match.
type Match struct {
	ID       int64
	Mode     string // registry ID, e.g. "blocks" or "blocks_bag"
	Seed     int64
	TickRate int
	Ticks    uint64 // number of simulation steps recorded
	Score    int
	Lines    int
	Level    int
	Pieces   int
	Finished bool   // reached game over (false when the player quit)
	Config   []byte // YAML configuration in effect
	Inputs   []byte // encoded input log
	PlayedAt time.Time
}

// ModeStats contains aggregated journal statistics for one mode.
type ModeStats struct {
	Mode       string
	Matches    int
	TotalLines int64
	MaxLines   int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			pieces INTEGER NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0,
			config BLOB,
			inputs BLOB,
			played_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_mode ON matches(mode);
		CREATE INDEX IF NOT EXISTS idx_matches_played_at ON matches(played_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch journals a match.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(m Match) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO matches
		 (mode, seed, tick_rate, ticks, score, lines, level, pieces, finished, config, inputs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Mode, m.Seed, m.TickRate, int64(m.Ticks), m.Score, m.Lines, m.Level, m.Pieces,
		m.Finished, m.Config, m.Inputs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const matchColumns = `id, mode, seed, tick_rate, ticks, score, lines, level, pieces, finished, config, inputs, played_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (Match, error) {
	var m Match
	var ticks int64
	var playedAt any
	if err := row.Scan(
		&m.ID, &m.Mode, &m.Seed, &m.TickRate, &ticks, &m.Score, &m.Lines, &m.Level,
		&m.Pieces, &m.Finished, &m.Config, &m.Inputs, &playedAt,
	); err != nil {
		return m, err
	}
	m.Ticks = uint64(ticks)
	m.PlayedAt = parseTime(playedAt)
	return m, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a journaled match. Returns nil if it does not exist.
func (s *Store) MatchByID(id int64) (*Match, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)

	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches retrieves the most recent matches, optionally filtered by
// mode (empty = all modes). Input logs are included.
func (s *Store) RecentMatches(mode string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE ? = '' OR mode = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return matches, nil
}

// PruneMatches deletes all but the newest keep matches.
// Returns the number of deleted records.
func (s *Store) PruneMatches(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.Exec(
		`DELETE FROM matches
		 WHERE id NOT IN (SELECT id FROM matches ORDER BY id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prune matches: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count pruned rows: %w", err)
	}
	return n, nil
}

// GetModeStats retrieves aggregated statistics for every journaled mode.
func (s *Store) GetModeStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), SUM(lines), MAX(lines), MAX(played_at)
		 FROM matches
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var st ModeStats
		var lastPlayed any
		if err := rows.Scan(&st.Mode, &st.Matches, &st.TotalLines, &st.MaxLines, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Mode] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
