package repository

import (
	"context"

	"github.com/aken1023/care-sch/internal/app/model"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// RecordDAO indexes pipeline runs so they can be listed and exported
// without walking the records directory.
type RecordDAO interface {
	Close() error

	Ping(ctx context.Context) error

	SaveRecord(ctx context.Context, entry *model.RecordEntry) (int64, error)

	ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.RecordEntry, error)
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// NopRecordDAO is used when the index is disabled.
type NopRecordDAO struct{}

func (NopRecordDAO) Close() error                   { return nil }
func (NopRecordDAO) Ping(ctx context.Context) error { return nil }

func (NopRecordDAO) SaveRecord(ctx context.Context, entry *model.RecordEntry) (int64, error) {
	return 0, nil
}

func (NopRecordDAO) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.RecordEntry, error) {
	return []model.RecordEntry{}, nil
}
