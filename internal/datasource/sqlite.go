package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/newthinker/algonex/internal/core"
)

// DefaultTable holds bars when no table name is configured.
const DefaultTable = "daily_bars"

var validTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// SQLite stores and serves daily bars from a SQLite database. Dates are
// kept as unix seconds (UTC).
type SQLite struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens the database at path with WAL journaling and creates the
// bar table if needed.
func OpenSQLite(path, table string) (*SQLite, error) {
	if table == "" {
		table = DefaultTable
	}
	if !validTable.MatchString(table) {
		return nil, core.FieldError(core.ErrConfigInvalid, "data.table", "invalid table name %q", table)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLite{db: db, table: table}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	_, err := s.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			symbol TEXT    NOT NULL,
			ts     INTEGER NOT NULL,
			open   REAL    NOT NULL,
			high   REAL    NOT NULL,
			low    REAL    NOT NULL,
			close  REAL    NOT NULL,
			volume REAL    NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, ts)
		)`, s.table))
	return err
}

func (s *SQLite) Name() string {
	return "sqlite"
}

// FetchHistory returns bars for symbol within [start, end], ascending by date.
// Zero bounds are open.
func (s *SQLite) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error) {
	from := int64(-1 << 62)
	to := int64(1 << 62)
	if !start.IsZero() {
		from = start.Unix()
	}
	if !end.IsZero() {
		to = end.Unix()
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT ts, open, high, low, close, volume
		FROM %s
		WHERE symbol = ? AND ts >= ? AND ts <= ?
		ORDER BY ts ASC
	`, s.table), normalizeSymbol(symbol), from, to)
	if err != nil {
		return nil, fmt.Errorf("sqlite query %s: %w", s.table, err)
	}
	defer rows.Close()

	bars := []core.PriceBar{}
	for rows.Next() {
		var b core.PriceBar
		var ts int64
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan %s: %w", s.table, err)
		}
		b.Date = time.Unix(ts, 0).UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Import upserts bars for symbol in a single transaction and returns the
// number of rows written.
func (s *SQLite) Import(ctx context.Context, symbol string, bars []core.PriceBar) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (symbol, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.table))
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, normalizeSymbol(symbol), b.Date.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(bars), nil
}

// Symbols returns the distinct symbols stored in the table.
func (s *SQLite) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT DISTINCT symbol FROM %s ORDER BY symbol`, s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
