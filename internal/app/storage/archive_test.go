package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/app/model"
)

type putCall struct {
	bucket, key, path string
	opts              minio.PutObjectOptions
}

type fakePutter struct {
	calls  []putCall
	failOn string
}

func (f *fakePutter) FPutObject(_ context.Context, bucket, key, path string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.calls = append(f.calls, putCall{bucket, key, path, opts})
	if key == f.failOn {
		return minio.UploadInfo{}, errors.New("access denied")
	}
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: 10}, nil
}

func testPaths() *model.RecordPaths {
	return &model.RecordPaths{
		Dir:       "records/20240115/083012",
		AudioFile: "records/20240115/083012/audio.m4a",
		RawText:   "records/20240115/083012/raw_text.txt",
		Report:    "records/20240115/083012/report.md",
		Record:    "records/20240115/083012/record.json",
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "20240115/083012/audio.m4a", ObjectKey("20240115_083012", "/x/audio.m4a"))
	assert.Equal(t, "unknown/report.md", ObjectKey("bad", "report.md"))
}

func TestMinioArchiver_Archive(t *testing.T) {
	putter := &fakePutter{}
	a := &MinioArchiver{client: putter, bucket: "care-records", logger: zap.NewNop()}

	rec := &model.PipelineRecord{Timestamp: "20240115_083012", LineUserID: "U1"}
	keys, err := a.Archive(context.Background(), rec, testPaths())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"20240115/083012/audio.m4a",
		"20240115/083012/raw_text.txt",
		"20240115/083012/report.md",
		"20240115/083012/record.json",
	}, keys)
	require.Len(t, putter.calls, 4)
	assert.Equal(t, "care-records", putter.calls[0].bucket)
	assert.Equal(t, "U1", putter.calls[0].opts.UserMetadata["line-user-id"])
	assert.Equal(t, "application/json", putter.calls[3].opts.ContentType)
}

func TestMinioArchiver_ArchiveStopsOnError(t *testing.T) {
	putter := &fakePutter{failOn: "20240115/083012/report.md"}
	// zero-value logger
	a := &MinioArchiver{client: putter, bucket: "b"}

	keys, err := a.Archive(context.Background(), &model.PipelineRecord{Timestamp: "20240115_083012"}, testPaths())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Len(t, keys, 2)
	assert.Len(t, putter.calls, 3)
}

func TestNopArchiver(t *testing.T) {
	keys, err := NopArchiver{}.Archive(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, keys)
}
