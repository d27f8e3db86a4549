package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aken1023/care-sch/internal/app/repository"
	"github.com/aken1023/care-sch/internal/app/util/files"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS care_records (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	record_ts     TEXT NOT NULL,
	user_id       TEXT NOT NULL DEFAULT '',
	channel       TEXT NOT NULL DEFAULT '',
	record_dir    TEXT NOT NULL DEFAULT '',
	transcription TEXT NOT NULL DEFAULT '',
	report        TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	error_kind    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_care_records_user ON care_records (user_id, record_ts);
CREATE INDEX IF NOT EXISTS idx_care_records_timestamp ON care_records (record_ts);
`

// RecordDB is the sqlite-backed record index.
type RecordDB struct {
	*repository.CommonDB
}

var _ repository.RecordDAO = (*RecordDB)(nil)

// NewRecordDB opens (creating if needed) the database file and its schema.
func NewRecordDB(ctx context.Context, dbFilePath string) (*RecordDB, error) {
	if dir := filepath.Dir(dbFilePath); dir != "." {
		if err := files.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; the pipeline indexes runs from concurrent webhook handlers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &RecordDB{CommonDB: repository.NewCommonDB(db, "sqlite3")}, nil
}
