package record

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aken1023/care-sch/internal/app/errors"
	"github.com/aken1023/care-sch/internal/app/model"
)

const fiveSectionReport = "# 照護紀錄報告\n## 一、基本資訊\n## 二、病患狀況摘要\n## 三、照護執行紀錄\n## 四、特殊觀察重點\n## 五、後續照護建議\n"

func writeAudio(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_Location(t *testing.T) {
	s := NewStore("records", nil)

	dir, err := s.Location("20240115_083012")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("records", "20240115", "083012"), dir)

	for _, bad := range []string{"", "20240115", "2024-01-15 08:30:12", "20241315_083012"} {
		_, err := s.Location(bad)
		assert.True(t, stderrors.Is(err, apperrors.ErrPersistence), bad)
		assert.True(t, stderrors.Is(err, apperrors.ErrInvalidTimestamp), bad)
	}
}

func TestStore_Save(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, nil)
	transcript := "病人意識清楚，生命徵象穩定"

	rec := &model.PipelineRecord{
		Timestamp:        "20240115_083012",
		AudioFile:        "/tmp/carebot/abc.m4a",
		RawTranscription: transcript,
		FormattedReport:  fiveSectionReport,
		CreatedAt:        "2024-01-15 08:30:12",
		LineUserID:       "U123",
	}

	paths, err := s.Save(rec, writeAudio(t, "abc.m4a", "m4a-bytes"))
	require.NoError(t, err)

	dir := filepath.Join(root, "20240115", "083012")
	assert.Equal(t, dir, paths.Dir)
	assert.Equal(t, filepath.Join(dir, "audio.m4a"), paths.AudioFile)
	for _, p := range paths.All() {
		assert.FileExists(t, p)
	}

	audio, _ := os.ReadFile(paths.AudioFile)
	assert.Equal(t, "m4a-bytes", string(audio))
	raw, _ := os.ReadFile(paths.RawText)
	assert.Equal(t, transcript, string(raw))
	report, _ := os.ReadFile(paths.Report)
	assert.Equal(t, fiveSectionReport, string(report))

	data, err := os.ReadFile(paths.Record)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Len(t, obj, 6)
	for _, key := range []string{"timestamp", "audio_file", "raw_transcription", "formatted_report", "created_at", "line_user_id"} {
		assert.Contains(t, obj, key)
	}
	assert.Equal(t, transcript, obj["raw_transcription"])
	assert.Equal(t, paths.AudioFile, obj["audio_file"])
	assert.Equal(t, "U123", obj["line_user_id"])

	assert.Contains(t, string(data), transcript, "non-ASCII text is stored unescaped")
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"timestamp\""))
}

func TestStore_Save_SameTimestampOverwrites(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	first := &model.PipelineRecord{Timestamp: "20240115_083012", RawTranscription: "first", FormattedReport: "r1"}
	second := &model.PipelineRecord{Timestamp: "20240115_083012", RawTranscription: "second", FormattedReport: "r2"}

	p1, err := s.Save(first, writeAudio(t, "a.m4a", "1"))
	require.NoError(t, err)
	p2, err := s.Save(second, writeAudio(t, "b.m4a", "2"))
	require.NoError(t, err)

	assert.Equal(t, p1.Dir, p2.Dir)
	loaded, err := s.Load("20240115_083012")
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.RawTranscription)

	entries, err := os.ReadDir(p1.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestStore_Save_KeepsExtension(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	paths, err := s.Save(&model.PipelineRecord{Timestamp: "20240115_090000"}, writeAudio(t, "x.webm", "w"))
	require.NoError(t, err)
	assert.Equal(t, "audio.webm", filepath.Base(paths.AudioFile))

	paths, err = s.Save(&model.PipelineRecord{Timestamp: "20240115_090001"}, writeAudio(t, "noext", "w"))
	require.NoError(t, err)
	assert.Equal(t, "audio", filepath.Base(paths.AudioFile))
}

func TestStore_Save_Failures(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "20240115")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	s := NewStore(root, nil)
	_, err := s.Save(&model.PipelineRecord{Timestamp: "20240115_083012"}, writeAudio(t, "a.m4a", "1"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrPersistence))

	s = NewStore(t.TempDir(), nil)
	_, err = s.Save(&model.PipelineRecord{Timestamp: "20240115_083012"}, "/does/not/exist.m4a")
	assert.True(t, stderrors.Is(err, apperrors.ErrPersistence))
}

func TestMarshal_NoHTMLEscape(t *testing.T) {
	data, err := Marshal(&model.PipelineRecord{FormattedReport: "<b>血壓 > 140 & 心跳</b>"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "<b>血壓 > 140 & 心跳</b>")
	assert.False(t, strings.HasSuffix(string(data), "\n"))
}
