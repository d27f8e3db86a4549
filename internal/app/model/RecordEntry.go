package model

import "time"

const (
	RecordStatusCompleted = "completed"
	RecordStatusFailed    = "failed"
)

// RecordEntry is one row of the record index.
type RecordEntry struct {
	ID            int64
	Timestamp     string
	UserID        string
	Channel       string
	RecordDir     string
	Transcription string
	Report        string
	Status        string
	ErrorKind     string
	ErrorMessage  string
	CreatedAt     time.Time
}

// RecordFilter narrows a record index listing. Zero values mean no filter.
type RecordFilter struct {
	UserID string
	// Date is YYYYMMDD and matches the timestamp prefix.
	Date  string
	Limit int
}
