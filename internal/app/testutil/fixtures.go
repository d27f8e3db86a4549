package testutil

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aken1023/care-sch/internal/app/model"
)

const (
	SampleUserID    = "U4af4980629a7b1d2c3e4f5a6b7c8d9e0"
	SampleTimestamp = "20240115_103000"

	SampleTranscript = "病人意識清楚，生命徵象穩定，血壓一百二十對八十。早餐進食約半碗稀飯，下午家屬來訪。"

	SampleReport = `一、病人基本狀況
- 意識清楚
- 生命徵象穩定，血壓 120/80 mmHg

二、重要醫療處置
- 未提及

三、需要特別注意事項
- 未提及

四、待處理事項
- 未提及

五、其他補充說明
- 早餐進食約半碗稀飯
- 下午家屬來訪`
)

// SampleTime is the instant SampleTimestamp encodes, in local time.
func SampleTime() time.Time {
	return time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)
}

// SampleRecordEntries returns one completed and one failed index row.
func SampleRecordEntries() []model.RecordEntry {
	return []model.RecordEntry{
		{
			ID:            2,
			Timestamp:     SampleTimestamp,
			UserID:        SampleUserID,
			Channel:       "line",
			RecordDir:     filepath.Join("records", "20240115", "103000"),
			Transcription: SampleTranscript,
			Report:        SampleReport,
			Status:        model.RecordStatusCompleted,
			CreatedAt:     SampleTime(),
		},
		{
			ID:           1,
			Timestamp:    "20240115_095512",
			UserID:       SampleUserID,
			Channel:      "line",
			Status:       model.RecordStatusFailed,
			ErrorKind:    "transcription",
			ErrorMessage: "error, status code: 500, message: server error",
			CreatedAt:    SampleTime().Add(-35 * time.Minute),
		},
	}
}

// WriteAudioFixture writes placeholder audio bytes to dir/name.
func WriteAudioFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake audio content"), 0o644))
	return path
}

// SignCallback computes the X-Line-Signature the platform sends with body.
func SignCallback(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// MultipartFileHeader builds the header a handler would receive for an upload.
func MultipartFileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}
