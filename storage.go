package main

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/maxnilz/coinreport/errors"
)

func NewStorage(cfg Config) (Storage, error) {
	if cfg.DSN == "" {
		return nil, errors.Newf(errors.InvalidArgument, nil, "missing dsn")
	}
	u, err := url.Parse(cfg.DSN)
	if err != nil {
		return nil, errors.Newf(errors.InvalidArgument, err, "invalid dsn: %s", cfg.DSN)
	}
	switch u.Scheme {
	case "sqlite", "sqlite3":
		return newSQLite(u.Path)
	default:
		return nil, errors.Newf(errors.Unimplemented, nil, "unsupported db: %s", u.Scheme)
	}
}

// Storage is the run ledger: one row per report run, recording when it
// started, how it ended and how much each section carried. The report
// content itself is never persisted.
type Storage interface {
	NewSession(ctx context.Context) (Session, error)
	NewAutoSession(ctx context.Context) (Session, error)
	SaveRun(ses Session, run *Run) error
	FinishRun(ses Session, run *Run) error
	LastSuccessAt(ses Session) (time.Time, error)
	Close() error
}

type Session interface {
	// Begin starts a transactional session.
	//
	// It's the user's responsibility to manage the session,
	// Either Rollback or Commit MUST be called to pair with Begin to avoid transaction leak.
	Begin() (Session, error)
	// Rollback aborts the changes made by the transactional session.
	Rollback() error
	// Commit commits the changes made by the transactional session.
	Commit() error
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunDelivered RunStatus = "delivered"
	RunFailed    RunStatus = "failed"
)

// Run is one ledger entry.
type Run struct {
	Id         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     RunStatus
	Error      string

	CryptoArticles    int
	PoliticalArticles int
	Assets            int
}
