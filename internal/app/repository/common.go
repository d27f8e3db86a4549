package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aken1023/care-sch/internal/app/model"
)

// CommonDB provides shared database functionality
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
	}
}

var _ RecordDAO = (*CommonDB)(nil)

const recordColumns = `record_ts, user_id, channel, record_dir, transcription, report, status, error_kind, error_message, created_at`

// SaveRecord inserts one index row and returns its id.
func (c *CommonDB) SaveRecord(ctx context.Context, e *model.RecordEntry) (int64, error) {
	params := make([]string, 10)
	for i := range params {
		params[i] = c.placeholders(i + 1)
	}

	query := fmt.Sprintf(
		`INSERT INTO care_records (%s) VALUES (%s)`,
		recordColumns, strings.Join(params, ", "),
	)
	args := []interface{}{
		e.Timestamp, e.UserID, e.Channel, e.RecordDir,
		e.Transcription, e.Report, e.Status,
		e.ErrorKind, e.ErrorMessage, e.CreatedAt,
	}

	// lib/pq does not support LastInsertId.
	if c.driverName == "postgres" {
		var id int64
		if err := c.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert failed: %w", err)
		}
		e.ID = id
		return id, nil
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert failed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	return id, nil
}

// ListRecords returns the newest entries first.
func (c *CommonDB) ListRecords(ctx context.Context, f model.RecordFilter) ([]model.RecordEntry, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, "user_id = "+c.placeholders(len(args)))
	}
	if f.Date != "" {
		args = append(args, f.Date+"%")
		where = append(where, "record_ts LIKE "+c.placeholders(len(args)))
	}

	query := "SELECT id, " + recordColumns + " FROM care_records"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, NormalizeLimit(f.Limit))
	query += " ORDER BY record_ts DESC, id DESC LIMIT " + c.placeholders(len(args))

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]model.RecordEntry, 0)
	for rows.Next() {
		var e model.RecordEntry
		err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.UserID,
			&e.Channel,
			&e.RecordDir,
			&e.Transcription,
			&e.Report,
			&e.Status,
			&e.ErrorKind,
			&e.ErrorMessage,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}

func (c *CommonDB) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}
