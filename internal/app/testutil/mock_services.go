package testutil

import (
	"context"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/aken1023/care-sch/internal/api/v1/dto"
	"github.com/aken1023/care-sch/internal/app/api/line"
	"github.com/aken1023/care-sch/internal/app/pipeline"
)

// MockServices contains all mock services for handler tests
type MockServices struct {
	RecordService  *MockRecordService
	UploadService  *MockUploadService
	WebhookService *MockWebhookService
	StatusService  *MockStatusService
}

func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		RecordService:  NewMockRecordService(t),
		UploadService:  NewMockUploadService(t),
		WebhookService: NewMockWebhookService(t),
		StatusService:  NewMockStatusService(t),
	}
}

type MockRecordService struct {
	mock.Mock
}

func NewMockRecordService(t *testing.T) *MockRecordService {
	m := &MockRecordService{}
	m.Test(t)
	return m
}

func (m *MockRecordService) ListRecords(ctx context.Context, query dto.ListRecordsQuery) (*dto.RecordListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecordListResponse), args.Error(1)
}

func (m *MockRecordService) ExportRecords(ctx context.Context, query dto.ListRecordsQuery, writer io.Writer) error {
	args := m.Called(ctx, query, writer)
	return args.Error(0)
}

type MockUploadService struct {
	mock.Mock
}

func NewMockUploadService(t *testing.T) *MockUploadService {
	m := &MockUploadService{}
	m.Test(t)
	return m
}

func (m *MockUploadService) ProcessUpload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadResponse), args.Error(1)
}

type MockWebhookService struct {
	mock.Mock
}

func NewMockWebhookService(t *testing.T) *MockWebhookService {
	m := &MockWebhookService{}
	m.Test(t)
	return m
}

func (m *MockWebhookService) HandleEvents(ctx context.Context, events []line.Event) {
	m.Called(ctx, events)
}

type MockStatusService struct {
	mock.Mock
}

func NewMockStatusService(t *testing.T) *MockStatusService {
	m := &MockStatusService{}
	m.Test(t)
	return m
}

func (m *MockStatusService) GetStatus(ctx context.Context) *dto.StatusResponse {
	args := m.Called(ctx)
	return args.Get(0).(*dto.StatusResponse)
}

// MockRunner stands in for the pipeline behind the services.
type MockRunner struct {
	mock.Mock
}

func NewMockRunner(t *testing.T) *MockRunner {
	m := &MockRunner{}
	m.Test(t)
	return m
}

func (m *MockRunner) Run(ctx context.Context, in pipeline.Input) (*pipeline.Result, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Result), args.Error(1)
}

// MockMessenger records replies and serves message content.
type MockMessenger struct {
	mock.Mock
}

func NewMockMessenger(t *testing.T) *MockMessenger {
	m := &MockMessenger{}
	m.Test(t)
	return m
}

func (m *MockMessenger) Content(ctx context.Context, messageID string) (io.ReadCloser, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Reply passes texts as a single []string argument.
func (m *MockMessenger) Reply(ctx context.Context, replyToken string, texts ...string) error {
	args := m.Called(ctx, replyToken, texts)
	return args.Error(0)
}
