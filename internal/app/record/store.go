// Package record writes the on-disk care record layout:
//
//	<root>/YYYYMMDD/HHMMSS/{audio.<ext>, raw_text.txt, report.md, record.json}
package record

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/aken1023/care-sch/internal/app/errors"
	"github.com/aken1023/care-sch/internal/app/model"
	"github.com/aken1023/care-sch/internal/app/util/files"
)

const (
	AudioBaseName = "audio"
	RawTextFile   = "raw_text.txt"
	ReportFile    = "report.md"
	RecordFile    = "record.json"
)

type Store struct {
	root   string
	logger *zap.Logger
}

func NewStore(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: root, logger: logger}
}

// Location maps a YYYYMMDD_HHMMSS timestamp to root/YYYYMMDD/HHMMSS.
func (s *Store) Location(timestamp string) (string, error) {
	if _, err := time.Parse(model.TimestampLayout, timestamp); err != nil {
		return "", apperrors.WrapKind(apperrors.KindPersistence, apperrors.ErrInvalidTimestamp, timestamp)
	}
	return filepath.Join(s.root, timestamp[:8], timestamp[9:]), nil
}

// Save copies the audio and writes the transcript, report and record.json.
// rec.AudioFile is set to the stored audio copy. A second save with the same
// timestamp overwrites the earlier files.
func (s *Store) Save(rec *model.PipelineRecord, audioPath string) (*model.RecordPaths, error) {
	dir, err := s.Location(rec.Timestamp)
	if err != nil {
		return nil, err
	}
	if err := files.EnsureDir(dir); err != nil {
		return nil, apperrors.WrapKind(apperrors.KindPersistence, err, "create record directory")
	}

	audioName := AudioBaseName
	if ext := filepath.Ext(audioPath); ext != "" {
		audioName += ext
	}

	paths := &model.RecordPaths{
		Dir:       dir,
		AudioFile: filepath.Join(dir, audioName),
		RawText:   filepath.Join(dir, RawTextFile),
		Report:    filepath.Join(dir, ReportFile),
		Record:    filepath.Join(dir, RecordFile),
	}

	if _, err := files.CopyFile(audioPath, paths.AudioFile); err != nil {
		return nil, apperrors.WrapKind(apperrors.KindPersistence, err, "save audio")
	}
	s.logger.Debug("audio saved", zap.String("path", paths.AudioFile))

	if err := os.WriteFile(paths.RawText, []byte(rec.RawTranscription), 0o644); err != nil {
		return nil, apperrors.WrapKind(apperrors.KindPersistence, err, "save raw text")
	}
	if err := os.WriteFile(paths.Report, []byte(rec.FormattedReport), 0o644); err != nil {
		return nil, apperrors.WrapKind(apperrors.KindPersistence, err, "save report")
	}

	rec.AudioFile = paths.AudioFile
	data, err := Marshal(rec)
	if err != nil {
		return nil, apperrors.WrapKind(apperrors.KindPersistence, err, "encode record")
	}
	if err := os.WriteFile(paths.Record, data, 0o644); err != nil {
		return nil, apperrors.WrapKind(apperrors.KindPersistence, err, "save record")
	}

	s.logger.Info("record saved", zap.String("dir", dir), zap.String("timestamp", rec.Timestamp))
	return paths, nil
}

// Load reads record.json back from the directory of timestamp.
func (s *Store) Load(timestamp string) (*model.PipelineRecord, error) {
	dir, err := s.Location(timestamp)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, RecordFile))
	if err != nil {
		return nil, apperrors.WrapKind(apperrors.KindPersistence, err, "read record")
	}
	var rec model.PipelineRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperrors.WrapKind(apperrors.KindPersistence, err, "decode record")
	}
	return &rec, nil
}

// Marshal renders a record with two-space indentation and without HTML escaping.
func Marshal(rec *model.PipelineRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
