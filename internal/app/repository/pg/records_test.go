package pg

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aken1023/care-sch/internal/app/model"
)

func newMockDB(t *testing.T) (*RecordDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS care_records").WillReturnResult(sqlmock.NewResult(0, 0))

	rdb, err := newRecordDB(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return rdb, mock
}

func TestNewRecordDB_PingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	_, err = newRecordDB(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDB_SaveRecord(t *testing.T) {
	rdb, mock := newMockDB(t)
	created := time.Date(2024, 1, 15, 8, 30, 12, 0, time.UTC)

	entry := &model.RecordEntry{
		Timestamp:     "20240115_083012",
		UserID:        "U1",
		Channel:       "line",
		RecordDir:     "records/20240115/083012",
		Transcription: "病人意識清楚，生命徵象穩定",
		Report:        "# 照護紀錄報告",
		Status:        model.RecordStatusCompleted,
		CreatedAt:     created,
	}

	mock.ExpectQuery(`INSERT INTO care_records \(record_ts, .*\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10\) RETURNING id`).
		WithArgs("20240115_083012", "U1", "line", "records/20240115/083012",
			"病人意識清楚，生命徵象穩定", "# 照護紀錄報告", model.RecordStatusCompleted, "", "", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := rdb.SaveRecord(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, int64(42), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDB_SaveRecord_Error(t *testing.T) {
	rdb, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO care_records").WillReturnError(errors.New("disk full"))

	_, err := rdb.SaveRecord(context.Background(), &model.RecordEntry{Timestamp: "20240115_083012"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDB_ListRecords(t *testing.T) {
	columns := []string{"id", "record_ts", "user_id", "channel", "record_dir", "transcription", "report", "status", "error_kind", "error_message", "created_at"}
	created := time.Date(2024, 1, 15, 8, 30, 12, 0, time.UTC)

	tests := []struct {
		name      string
		filter    model.RecordFilter
		queryRe   string
		args      []interface{}
		wantCount int
	}{
		{
			name:      "no filter uses default limit",
			filter:    model.RecordFilter{},
			queryRe:   `SELECT id, record_ts, .* FROM care_records ORDER BY record_ts DESC, id DESC LIMIT \$1`,
			args:      []interface{}{100},
			wantCount: 2,
		},
		{
			name:      "user and date",
			filter:    model.RecordFilter{UserID: "U1", Date: "20240115", Limit: 10},
			queryRe:   `FROM care_records WHERE user_id = \$1 AND record_ts LIKE \$2 ORDER BY record_ts DESC, id DESC LIMIT \$3`,
			args:      []interface{}{"U1", "20240115%", 10},
			wantCount: 2,
		},
		{
			name:      "limit is clamped",
			filter:    model.RecordFilter{Date: "20240115", Limit: 5000},
			queryRe:   `WHERE record_ts LIKE \$1 ORDER BY record_ts DESC, id DESC LIMIT \$2`,
			args:      []interface{}{"20240115%", 1000},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb, mock := newMockDB(t)

			args := make([]driver.Value, 0, len(tt.args))
			for _, a := range tt.args {
				args = append(args, a)
			}
			rows := sqlmock.NewRows(columns).
				AddRow(2, "20240115_093000", "U1", "line", "", "", "", model.RecordStatusFailed, "synthesis", "boom", created).
				AddRow(1, "20240115_083012", "U1", "line", "records/20240115/083012", "t", "r", model.RecordStatusCompleted, "", "", created)
			mock.ExpectQuery(tt.queryRe).WithArgs(args...).WillReturnRows(rows)

			got, err := rdb.ListRecords(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, tt.wantCount)
			assert.Equal(t, int64(2), got[0].ID)
			assert.Equal(t, "synthesis", got[0].ErrorKind)
			assert.True(t, created.Equal(got[1].CreatedAt))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecordDB_ListRecords_ScanError(t *testing.T) {
	rdb, mock := newMockDB(t)

	mock.ExpectQuery("FROM care_records").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := rdb.ListRecords(context.Background(), model.RecordFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan failed")
}

func TestRecordDB_Close(t *testing.T) {
	rdb, mock := newMockDB(t)
	mock.ExpectClose()

	assert.NoError(t, rdb.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
