package storage

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"classbook/internal/schedule"
	logx "classbook/pkg/logx"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sqlx.DB
	log logx.Logger
}

type entryRow struct {
	Position  int    `db:"position"`
	ClassName string `db:"class_name"`
	Day       string `db:"day"`
	Time      string `db:"time"`
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create data dir")
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate sqlite")
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) Load(ctx context.Context) ([]schedule.Entry, error) {
	var rows []entryRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT position, class_name, day, time FROM entries ORDER BY position`); err != nil {
		return nil, errors.Wrap(err, "select entries")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]schedule.Entry, len(rows))
	for i, r := range rows {
		out[i] = schedule.Entry{ClassName: r.ClassName, Day: r.Day, Time: r.Time}
	}
	return out, nil
}

// Save rewrites the table in one transaction so a failure leaves the
// previous list intact.
func (s *sqliteStore) Save(ctx context.Context, entries []schedule.Entry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return errors.Wrap(err, "clear entries")
	}
	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO entries(position, class_name, day, time) VALUES(:position, :class_name, :day, :time)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for i, e := range entries {
		row := entryRow{Position: i, ClassName: e.ClassName, Day: e.Day, Time: e.Time}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return errors.Wrapf(err, "insert entry %d", i)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	s.log.Trace("schedule table written", logx.Int("entries", len(entries)))
	return nil
}
