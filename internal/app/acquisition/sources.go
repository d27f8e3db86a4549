package acquisition

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/aken1023/care-sch/internal/app/model"
)

// LineAudioFormat is the container the chat platform uses for voice messages.
const LineAudioFormat = "m4a"

// ContentFetcher downloads the binary content of a chat message.
type ContentFetcher interface {
	Content(ctx context.Context, messageID string) (io.ReadCloser, error)
}

// LineSource is a voice message held by the chat platform.
type LineSource struct {
	fetcher   ContentFetcher
	messageID string
}

func NewLineSource(fetcher ContentFetcher, messageID string) *LineSource {
	return &LineSource{fetcher: fetcher, messageID: messageID}
}

func (s *LineSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.messageID == "" {
		return nil, fmt.Errorf("message id is empty")
	}
	return s.fetcher.Content(ctx, s.messageID)
}

func (s *LineSource) Format() string { return LineAudioFormat }

// UploadSource is a file posted to the web upload form.
type UploadSource struct {
	header        *multipart.FileHeader
	defaultFormat string
}

// NewUploadSource uses the extension of the uploaded file name, or defaultFormat when there is none.
func NewUploadSource(header *multipart.FileHeader, defaultFormat string) *UploadSource {
	return &UploadSource{header: header, defaultFormat: defaultFormat}
}

func (s *UploadSource) Open(_ context.Context) (io.ReadCloser, error) {
	if s.header == nil {
		return nil, fmt.Errorf("no uploaded file")
	}
	return s.header.Open()
}

func (s *UploadSource) Format() string {
	if s.header != nil {
		if format := model.FormatFromName(s.header.Filename); format != "" {
			return format
		}
	}
	return s.defaultFormat
}

// FileSource is an audio file already on local disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(s.path)
}

func (s *FileSource) Format() string { return model.FormatFromName(s.path) }

// BytesSource serves an in-memory payload.
type BytesSource struct {
	data   []byte
	format string
}

func NewBytesSource(data []byte, format string) *BytesSource {
	return &BytesSource{data: data, format: format}
}

func (s *BytesSource) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *BytesSource) Format() string { return s.format }
