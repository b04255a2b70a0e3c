// Package store exports the question bank to SQLite for consumers that
// prefer querying over loading the JSON document. The export is rebuilt
// wholesale on every run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/backmassage/qbank/internal/bank"
)

// Media kinds stored in question_media.
const (
	KindImage = "image"
	KindVideo = "video"
)

const metaDigest = "digest"

// Store is an open export database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.CreateTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTables creates the export schema if it does not exist.
func (s *Store) CreateTables() error {
	queries := []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS questions (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			section TEXT NOT NULL,
			text TEXT NOT NULL,
			options TEXT NOT NULL,
			answer INTEGER NOT NULL,
			solution_html TEXT NOT NULL DEFAULT '',
			asset_path TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_id ON questions(id)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_section ON questions(section)`,
		`CREATE TABLE IF NOT EXISTS question_media (
			question_position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			url TEXT NOT NULL,
			PRIMARY KEY (question_position, kind, position),
			FOREIGN KEY (question_position) REFERENCES questions(position) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// Digest returns the digest recorded by the last ReplaceQuestions, or "".
func (s *Store) Digest(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaDigest).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read digest: %w", err)
	}
	return v, nil
}

// ReplaceQuestions replaces the stored bank with qs in one transaction and
// records digest.
func (s *Store) ReplaceQuestions(ctx context.Context, qs []bank.Question, digest string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, q := range []string{`DELETE FROM question_media`, `DELETE FROM questions`} {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
	}

	insQ, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (position, id, section, text, options, answer, solution_html, asset_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insQ.Close()
	insM, err := tx.PrepareContext(ctx,
		`INSERT INTO question_media (question_position, kind, position, url) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insM.Close()

	for i, q := range qs {
		opts, jerr := json.Marshal(q.Options)
		if jerr != nil {
			return fmt.Errorf("failed to encode options for %s: %w", q.ID, jerr)
		}
		if _, err = insQ.ExecContext(ctx, i, q.ID, q.Section, q.Text, string(opts), q.Answer, q.SolutionHTML, q.AssetPath); err != nil {
			return fmt.Errorf("failed to insert question %s: %w", q.ID, err)
		}
		for _, m := range []struct {
			kind string
			urls []string
		}{{KindImage, q.SolutionImages}, {KindVideo, q.SolutionVideos}} {
			for j, u := range m.urls {
				if _, err = insM.ExecContext(ctx, i, m.kind, j, u); err != nil {
					return fmt.Errorf("failed to insert %s for %s: %w", m.kind, q.ID, err)
				}
			}
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, metaDigest, digest); err != nil {
		return fmt.Errorf("failed to record digest: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Questions reads the stored bank back in position order. Only serialized
// fields and AssetPath are restored.
func (s *Store) Questions(ctx context.Context) ([]bank.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, section, text, options, answer, solution_html, asset_path FROM questions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var qs []bank.Question
	for rows.Next() {
		var (
			q    bank.Question
			opts string
			ans  int
		)
		if err := rows.Scan(&q.ID, &q.Section, &q.Text, &opts, &ans, &q.SolutionHTML, &q.AssetPath); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options for %s: %w", q.ID, err)
		}
		q.SetAnswer(ans)
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}

	media, err := s.db.QueryContext(ctx,
		`SELECT question_position, kind, url FROM question_media ORDER BY question_position, kind, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer media.Close()
	for media.Next() {
		var (
			pos       int
			kind, url string
		)
		if err := media.Scan(&pos, &kind, &url); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		if pos < 0 || pos >= len(qs) {
			continue
		}
		switch kind {
		case KindImage:
			qs[pos].SolutionImages = append(qs[pos].SolutionImages, url)
		case KindVideo:
			qs[pos].SolutionVideos = append(qs[pos].SolutionVideos, url)
		}
	}
	return qs, media.Err()
}
