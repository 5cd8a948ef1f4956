// Package eventdb indexes committed events in a relational database so
// clients can query history. sqlite is embedded; postgres is optional.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/crypto"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultLimit caps a query that sets no limit.
const DefaultLimit = 100

var ErrUnsupportedDriver = errors.New("unsupported event database driver")

// Record is one stored event.
type Record struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
	tx.Event
}

// Filter narrows Query. Zero fields match everything.
type Filter struct {
	ProposalID *uint64
	Account    *crypto.AccountID
	Type       string
	FromHeight uint64
	Limit      int
}

// DB is the event index.
type DB struct {
	db     *sql.DB
	driver string
	now    func() time.Time
	logger *slog.Logger
}

// Open connects to dsn and creates the schema if needed.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%q: %w", driver, ErrUnsupportedDriver)
	}
	if logger == nil {
		logger = slog.Default()
	}
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open event database: %w", err)
	}
	if driver == DriverSQLite {
		// single writer
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping event database: %w", err)
	}

	d := &DB{
		db:     sqlDB,
		driver: driver,
		now:    time.Now,
		logger: logger.With(slog.String("component", "eventdb")),
	}
	if err := d.createTables(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			height      BIGINT NOT NULL,
			seq         INTEGER NOT NULL,
			tx_hash     TEXT NOT NULL DEFAULT '',
			type        TEXT NOT NULL,
			proposal_id BIGINT,
			account     TEXT NOT NULL,
			data        TEXT NOT NULL,
			created_at  BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_height ON events(height, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_events_proposal ON events(proposal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_account ON events(account)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func (d *DB) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Publish stores a block's events in one transaction.
func (d *DB) Publish(ctx context.Context, height uint64, events []tx.Event) error {
	if len(events) == 0 {
		return nil
	}
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback() //nolint:errcheck

	stmt, err := sqlTx.PrepareContext(ctx, d.rebind(`
		INSERT INTO events
			(id, height, seq, tx_hash, type, proposal_id, account, data, created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	created := d.now().Unix()
	for i, ev := range events {
		data, err := json.Marshal(ev.Fields)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		var pid sql.NullInt64
		if ev.ProposalID != nil {
			pid = sql.NullInt64{Int64: int64(*ev.ProposalID), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), int64(height), i, ev.TxHash, ev.Type,
			pid, ev.Account.String(), string(data), created,
		); err != nil {
			return fmt.Errorf("failed to insert event %d: %w", i, err)
		}
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	d.logger.Debug("events indexed", slog.Uint64("height", height), slog.Int("count", len(events)))
	return nil
}

// Query returns matching events, oldest first.
func (d *DB) Query(ctx context.Context, f Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if f.ProposalID != nil {
		where = append(where, "proposal_id = ?")
		args = append(args, int64(*f.ProposalID))
	}
	if f.Account != nil {
		where = append(where, "account = ?")
		args = append(args, f.Account.String())
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.FromHeight > 0 {
		where = append(where, "height >= ?")
		args = append(args, int64(f.FromHeight))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, height, tx_hash, type, proposal_id, account, data, created_at FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY height, seq LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, d.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			height  int64
			pid     sql.NullInt64
			account string
			data    string
		)
		if err := rows.Scan(&r.ID, &height, &r.TxHash, &r.Type, &pid, &account, &data, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Height = uint64(height)
		if pid.Valid {
			id := uint64(pid.Int64)
			r.ProposalID = &id
		}
		if r.Account, err = crypto.ParseAccountID(account); err != nil {
			return nil, fmt.Errorf("event %s account: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(data), &r.Fields); err != nil {
			return nil, fmt.Errorf("event %s data: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
