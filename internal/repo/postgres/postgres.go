package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wdp365/siteapi/internal/apperr"
	"github.com/wdp365/siteapi/internal/domain"
	"github.com/wdp365/siteapi/internal/repo"
)

var _ repo.Store = (*Store)(nil)

// Each record kind is a table of JSONB documents. seq is the row identity
// and is never returned.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS status_checks (
  seq BIGSERIAL PRIMARY KEY,
  doc JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS contact_submissions (
  seq BIGSERIAL PRIMARY KEY,
  doc JSONB NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_status_checks_id ON status_checks ((doc->>'id'));
CREATE UNIQUE INDEX IF NOT EXISTS idx_contact_submissions_id ON contact_submissions ((doc->>'id'));
`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

// EnsureSchema creates the document tables if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) insert(ctx context.Context, table string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	// table is one of the repo collection constants, never caller input.
	if _, err := s.pool.Exec(ctx, `INSERT INTO `+table+` (doc) VALUES ($1)`, b); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (s *Store) docs(ctx context.Context, table string) ([][]byte, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM `+table)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ---- StatusStore ----

func (s *Store) InsertStatus(ctx context.Context, st *domain.StatusCheck) error {
	if err := s.insert(ctx, repo.StatusCollection, repo.StatusToDoc(st)); err != nil {
		return apperr.StorageFailure("could not save status check", err)
	}
	return nil
}

func (s *Store) ListStatus(ctx context.Context) ([]domain.StatusCheck, error) {
	raw, err := s.docs(ctx, repo.StatusCollection)
	if err != nil {
		return nil, apperr.StorageFailure("could not list status checks", err)
	}
	out := make([]domain.StatusCheck, 0, len(raw))
	for _, b := range raw {
		var d repo.StatusDoc
		if err := json.Unmarshal(b, &d); err != nil {
			return nil, apperr.StorageFailure("could not list status checks", fmt.Errorf("decode status: %w", err))
		}
		rec, err := d.Record()
		if err != nil {
			s.log.Warn("pg_skip_status", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// ---- ContactStore ----

func (s *Store) InsertContact(ctx context.Context, c *domain.ContactSubmission) error {
	if err := s.insert(ctx, repo.ContactCollection, repo.ContactToDoc(c)); err != nil {
		return apperr.StorageFailure("could not save your message", err)
	}
	return nil
}

func (s *Store) ListContacts(ctx context.Context) ([]domain.ContactSubmission, error) {
	raw, err := s.docs(ctx, repo.ContactCollection)
	if err != nil {
		return nil, apperr.StorageFailure("could not list submissions", err)
	}
	out := make([]domain.ContactSubmission, 0, len(raw))
	for _, b := range raw {
		var d repo.ContactDoc
		if err := json.Unmarshal(b, &d); err != nil {
			return nil, apperr.StorageFailure("could not list submissions", fmt.Errorf("decode contact: %w", err))
		}
		rec, err := d.Record()
		if err != nil {
			s.log.Warn("pg_skip_contact", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
