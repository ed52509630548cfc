package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/thywilljoshua/doc-to-slides/internal/errs"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

// DB is the subset of *sql.DB the repository needs.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLite is the Repository backed by a SQLite file.
type SQLite struct {
	db  DB
	raw *sql.DB
	now func() time.Time
}

var _ Repository = (*SQLite)(nil)

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*SQLite, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		// each connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &SQLite{db: db, raw: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLite) createTables(ctx context.Context) error {
	stmts := []string{`
	CREATE TABLE IF NOT EXISTS presentations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		template TEXT NOT NULL DEFAULT 'modern',
		custom_styles TEXT,
		slides TEXT NOT NULL DEFAULT '[]',
		user_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`,
		`CREATE INDEX IF NOT EXISTS idx_presentations_user ON presentations(user_id, created_at);`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Close() error { return s.raw.Close() }

// Create stores p with a fresh id and timestamps and returns the id.
func (s *SQLite) Create(ctx context.Context, p *Presentation) (string, error) {
	p.ID = uuid.NewString()
	p.Template = style.Parse(string(p.Template))
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	if p.Slides == nil {
		p.Slides = []slides.Slide{}
	}
	if p.CustomStyles.IsZero() {
		p.CustomStyles = nil
	}
	deck, styles, err := encodeColumns(p)
	if err != nil {
		return "", errs.Persistence("create presentation", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presentations (id, title, template, custom_styles, slides, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, string(p.Template), styles, deck, p.OwnerID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return "", errs.Persistence("create presentation", err)
	}
	return p.ID, nil
}

const selectColumns = `SELECT id, title, template, custom_styles, slides, user_id, created_at, updated_at FROM presentations`

// ListByOwner returns the owner's presentations, newest first.
func (s *SQLite) ListByOwner(ctx context.Context, ownerID string) ([]Presentation, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, errs.Persistence("list presentations", err)
	}
	defer rows.Close()

	out := []Presentation{}
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			return nil, errs.Persistence("list presentations", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Persistence("list presentations", err)
	}
	return out, nil
}

func (s *SQLite) GetByID(ctx context.Context, id string) (*Presentation, error) {
	p, err := scanPresentation(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Persistence("get presentation", ErrNotFound)
	}
	if err != nil {
		return nil, errs.Persistence("get presentation", err)
	}
	return p, nil
}

// Update applies patch to the stored presentation. Concurrent updates are
// last-writer-wins.
func (s *SQLite) Update(ctx context.Context, id string, patch Patch) (*Presentation, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.apply(p)
	p.UpdatedAt = s.now()
	deck, styles, err := encodeColumns(p)
	if err != nil {
		return nil, errs.Persistence("update presentation", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE presentations SET title = ?, template = ?, custom_styles = ?, slides = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, string(p.Template), styles, deck, p.UpdatedAt, id,
	)
	if err != nil {
		return nil, errs.Persistence("update presentation", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errs.Persistence("update presentation", ErrNotFound)
	}
	return p, nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presentations WHERE id = ?`, id)
	if err != nil {
		return errs.Persistence("delete presentation", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Persistence("delete presentation", err)
	}
	if n == 0 {
		return errs.Persistence("delete presentation", ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPresentation(row scanner) (*Presentation, error) {
	var (
		p        Presentation
		template string
		styles   sql.NullString
		deck     string
	)
	if err := row.Scan(&p.ID, &p.Title, &template, &styles, &deck, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Template = style.Parse(template)
	if err := json.Unmarshal([]byte(deck), &p.Slides); err != nil {
		return nil, fmt.Errorf("decode slides of %s: %w", p.ID, err)
	}
	if p.Slides == nil {
		p.Slides = []slides.Slide{}
	}
	if styles.Valid && strings.TrimSpace(styles.String) != "" {
		p.CustomStyles = &style.Override{}
		if err := json.Unmarshal([]byte(styles.String), p.CustomStyles); err != nil {
			return nil, fmt.Errorf("decode custom styles of %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func encodeColumns(p *Presentation) (deck string, styles sql.NullString, err error) {
	b, err := json.Marshal(p.Slides)
	if err != nil {
		return "", styles, fmt.Errorf("encode slides: %w", err)
	}
	if !p.CustomStyles.IsZero() {
		sb, err := json.Marshal(p.CustomStyles)
		if err != nil {
			return "", styles, fmt.Errorf("encode custom styles: %w", err)
		}
		styles = sql.NullString{String: string(sb), Valid: true}
	}
	return string(b), styles, nil
}
