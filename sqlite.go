package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/maxnilz/coinreport/errors"
)

var _ Storage = (*sqllite)(nil)

const timeLayout = "2006-01-02 15:04:05"

func newSQLite(dbfile string) (*sqllite, error) {
	db, err := sql.Open("sqlite3", dbfile)
	if err != nil {
		return nil, errors.Newf(errors.Internal, err, "open sqlite db %v failed", dbfile)
	}
	s := &sqllite{db: db}
	if err = s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

type sqllite struct {
	db *sql.DB
}

func (s *sqllite) NewAutoSession(ctx context.Context) (Session, error) {
	return &sqliteTxn{db: s.db, ctx: ctx, autoCommit: true}, nil
}

func (s *sqllite) NewSession(ctx context.Context) (Session, error) {
	return &sqliteTxn{db: s.db, ctx: ctx}, nil
}

func (s *sqllite) SaveRun(ses Session, run *Run) error {
	q := `
INSERT INTO run (id, started_at, status, error, crypto_articles, political_articles, assets)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	args := []interface{}{
		run.Id, run.StartedAt.Format(timeLayout), run.Status, run.Error,
		run.CryptoArticles, run.PoliticalArticles, run.Assets,
	}
	if _, err := ses.Exec(q, args...); err != nil {
		return errors.Newf(errors.Internal, err, "save run failed")
	}
	return nil
}

func (s *sqllite) FinishRun(ses Session, run *Run) error {
	q := `
UPDATE run SET finished_at = ?, status = ?, error = ?, crypto_articles = ?, political_articles = ?, assets = ?
WHERE id = ?;
`
	args := []interface{}{
		run.FinishedAt.Format(timeLayout), run.Status, run.Error,
		run.CryptoArticles, run.PoliticalArticles, run.Assets, run.Id,
	}
	if _, err := ses.Exec(q, args...); err != nil {
		return errors.Newf(errors.Internal, err, "finish run failed")
	}
	return nil
}

func (s *sqllite) LastSuccessAt(ses Session) (time.Time, error) {
	q := `SELECT max(datetime(finished_at)) FROM run WHERE status = ?`
	r := ses.QueryRow(q, RunDelivered)
	var out *string
	if err := r.Scan(&out); err != nil {
		return time.Time{}, errors.Newf(errors.Internal, err, "get last delivered run failed")
	}
	if out == nil {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, *out)
}

func (s *sqllite) migrate(ctx context.Context) error {
	q := `
CREATE TABLE IF NOT EXISTS run (
    id TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    crypto_articles INTEGER NOT NULL DEFAULT 0,
    political_articles INTEGER NOT NULL DEFAULT 0,
    assets INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_run_id ON run(id);
CREATE INDEX IF NOT EXISTS idx_run_status ON run(status);
`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return errors.Newf(errors.Internal, err, "migrate sqlite schemas failed")
	}
	return nil
}

func (s *sqllite) Close() error {
	return s.db.Close()
}

var _ Session = (*sqliteTxn)(nil)

type sqliteTxn struct {
	db  *sql.DB
	ctx context.Context

	txn        *sql.Tx
	autoCommit bool
}

func (s *sqliteTxn) Begin() (Session, error) {
	if s.autoCommit {
		return s, nil
	}
	if s.txn != nil {
		return nil, errors.Newf(errors.Unimplemented, nil, "unsupported nest txn")
	}
	var err error
	s.txn, err = s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return nil, errors.Newf(errors.Internal, err, "begin tx failed")
	}
	return s, nil
}

func (s *sqliteTxn) Rollback() error {
	if s.autoCommit {
		return nil
	}
	return s.txn.Rollback()
}

func (s *sqliteTxn) Commit() error {
	if s.autoCommit {
		return nil
	}
	return s.txn.Commit()
}

func (s *sqliteTxn) Exec(query string, args ...any) (sql.Result, error) {
	if s.autoCommit {
		return s.db.ExecContext(s.ctx, query, args...)
	}
	return s.txn.ExecContext(s.ctx, query, args...)
}

func (s *sqliteTxn) Query(query string, args ...any) (*sql.Rows, error) {
	if s.autoCommit {
		return s.db.QueryContext(s.ctx, query, args...)
	}
	return s.txn.QueryContext(s.ctx, query, args...)
}

func (s *sqliteTxn) QueryRow(query string, args ...any) *sql.Row {
	if s.autoCommit {
		return s.db.QueryRowContext(s.ctx, query, args...)
	}
	return s.txn.QueryRowContext(s.ctx, query, args...)
}
