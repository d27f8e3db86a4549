package services

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/aken1023/care-sch/internal/api/v1/dto"
	"github.com/aken1023/care-sch/internal/app/acquisition"
	"github.com/aken1023/care-sch/internal/app/api/line"
	"github.com/aken1023/care-sch/internal/app/pipeline"
)

// RecordService lists and exports the record index
type RecordService interface {
	ListRecords(ctx context.Context, query dto.ListRecordsQuery) (*dto.RecordListResponse, error)
	ExportRecords(ctx context.Context, query dto.ListRecordsQuery, writer io.Writer) error
}

// UploadService runs the pipeline on a file posted to the upload form
type UploadService interface {
	ProcessUpload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

// WebhookService handles the events of one verified callback
type WebhookService interface {
	HandleEvents(ctx context.Context, events []line.Event)
}

// StatusService reports credential and dependency health
type StatusService interface {
	GetStatus(ctx context.Context) *dto.StatusResponse
}

// Runner executes one pipeline invocation.
type Runner interface {
	Run(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

// Messenger downloads message content and sends replies on the chat platform.
type Messenger interface {
	acquisition.ContentFetcher
	Reply(ctx context.Context, replyToken string, texts ...string) error
}

// Pinger is any dependency that can be health checked.
type Pinger interface {
	Ping(ctx context.Context) error
}
