package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/aken1023/care-sch/internal/app/api"
	"github.com/aken1023/care-sch/internal/app/model"
)

// MockCompleter implements api.Completer.
type MockCompleter struct {
	mock.Mock
}

func NewMockCompleter(t *testing.T) *MockCompleter {
	m := &MockCompleter{}
	m.Test(t)
	return m
}

func (m *MockCompleter) Complete(ctx context.Context, req api.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockSynthesizer implements pipeline.Synthesizer.
type MockSynthesizer struct {
	mock.Mock
}

func NewMockSynthesizer(t *testing.T) *MockSynthesizer {
	m := &MockSynthesizer{}
	m.Test(t)
	return m
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, transcript string) (string, error) {
	args := m.Called(ctx, transcript)
	return args.String(0), args.Error(1)
}

// MockRecordDAO implements repository.RecordDAO.
type MockRecordDAO struct {
	mock.Mock
}

func NewMockRecordDAO(t *testing.T) *MockRecordDAO {
	m := &MockRecordDAO{}
	m.Test(t)
	return m
}

func (m *MockRecordDAO) Close() error {
	return m.Called().Error(0)
}

func (m *MockRecordDAO) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRecordDAO) SaveRecord(ctx context.Context, entry *model.RecordEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordDAO) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.RecordEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecordEntry), args.Error(1)
}

// MockArchiver implements storage.Archiver.
type MockArchiver struct {
	mock.Mock
}

func NewMockArchiver(t *testing.T) *MockArchiver {
	m := &MockArchiver{}
	m.Test(t)
	return m
}

func (m *MockArchiver) Archive(ctx context.Context, rec *model.PipelineRecord, paths *model.RecordPaths) ([]string, error) {
	args := m.Called(ctx, rec, paths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockGuard implements dedupe.Guard.
type MockGuard struct {
	mock.Mock
}

func NewMockGuard(t *testing.T) *MockGuard {
	m := &MockGuard{}
	m.Test(t)
	return m
}

func (m *MockGuard) FirstSeen(ctx context.Context, eventID string) bool {
	return m.Called(ctx, eventID).Bool(0)
}

func (m *MockGuard) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
