package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/aken1023/care-sch/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS care_records (
	id            BIGSERIAL PRIMARY KEY,
	record_ts     VARCHAR(15) NOT NULL,
	user_id       TEXT NOT NULL DEFAULT '',
	channel       VARCHAR(16) NOT NULL DEFAULT '',
	record_dir    TEXT NOT NULL DEFAULT '',
	transcription TEXT NOT NULL DEFAULT '',
	report        TEXT NOT NULL DEFAULT '',
	status        VARCHAR(16) NOT NULL,
	error_kind    VARCHAR(32) NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_care_records_user ON care_records (user_id, record_ts);
CREATE INDEX IF NOT EXISTS idx_care_records_timestamp ON care_records (record_ts);
`

// RecordDB is the Postgres-backed record index.
type RecordDB struct {
	*repository.CommonDB
}

var _ repository.RecordDAO = (*RecordDB)(nil)

// NewRecordDB connects with a lib/pq connection string and ensures the schema.
func NewRecordDB(ctx context.Context, connectionString string) (*RecordDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	rdb, err := newRecordDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return rdb, nil
}

func newRecordDB(ctx context.Context, db *sql.DB) (*RecordDB, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &RecordDB{CommonDB: repository.NewCommonDB(db, "postgres")}, nil
}
