package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/aken1023/care-sch/internal/app/model"
)

// ListRecordsQuery filters GET /api/v1/records and its export.
type ListRecordsQuery struct {
	UserID string `form:"user_id" binding:"omitempty,max=64"`
	Date   string `form:"date" binding:"omitempty,len=8,numeric"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// Filter converts the query into a repository filter.
func (q ListRecordsQuery) Filter() model.RecordFilter {
	return model.RecordFilter{UserID: q.UserID, Date: q.Date, Limit: q.Limit}
}

type RecordResponse struct {
	ID            int64     `json:"id"`
	Timestamp     string    `json:"timestamp"`
	UserID        string    `json:"user_id"`
	Channel       string    `json:"channel"`
	Status        string    `json:"status"`
	RecordDir     string    `json:"record_dir,omitempty"`
	Transcription string    `json:"transcription,omitempty"`
	Report        string    `json:"report,omitempty"`
	ErrorKind     string    `json:"error_kind,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
	Count   int              `json:"count"`
}

func FromRecordEntry(e model.RecordEntry) RecordResponse {
	return RecordResponse{
		ID:            e.ID,
		Timestamp:     e.Timestamp,
		UserID:        e.UserID,
		Channel:       e.Channel,
		Status:        e.Status,
		RecordDir:     e.RecordDir,
		Transcription: e.Transcription,
		Report:        e.Report,
		ErrorKind:     e.ErrorKind,
		ErrorMessage:  e.ErrorMessage,
		CreatedAt:     e.CreatedAt,
	}
}

func FromRecordEntries(entries []model.RecordEntry) *RecordListResponse {
	records := lo.Map(entries, func(e model.RecordEntry, _ int) RecordResponse {
		return FromRecordEntry(e)
	})
	return &RecordListResponse{Records: records, Count: len(records)}
}
