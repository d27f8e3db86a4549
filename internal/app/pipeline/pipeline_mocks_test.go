package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/app/acquisition"
	"github.com/aken1023/care-sch/internal/app/audio"
	apperrors "github.com/aken1023/care-sch/internal/app/errors"
	"github.com/aken1023/care-sch/internal/app/model"
	"github.com/aken1023/care-sch/internal/app/pipeline"
	"github.com/aken1023/care-sch/internal/app/record"
	"github.com/aken1023/care-sch/internal/app/testutil"
)

type stack struct {
	tempDir     string
	recordsDir  string
	transcriber *testutil.MockTranscriber
	synthesizer *testutil.MockSynthesizer
	index       *testutil.MockRecordDAO
	archiver    *testutil.MockArchiver
}

func newStack(t *testing.T) *stack {
	t.Helper()
	root := t.TempDir()
	return &stack{
		tempDir:     filepath.Join(root, "tmp"),
		recordsDir:  filepath.Join(root, "records"),
		transcriber: testutil.NewMockTranscriber(t),
		synthesizer: testutil.NewMockSynthesizer(t),
		index:       testutil.NewMockRecordDAO(t),
		archiver:    testutil.NewMockArchiver(t),
	}
}

func (s *stack) pipeline() *pipeline.Pipeline {
	logger := zap.NewNop()
	return pipeline.New(pipeline.Deps{
		Acquirer:    acquisition.NewAcquirer(s.tempDir, logger),
		Normalizer:  audio.NewNormalizer("", "", audio.ModeAuto, logger),
		Transcriber: s.transcriber,
		Synthesizer: s.synthesizer,
		Store:       record.NewStore(s.recordsDir, logger),
	},
		pipeline.WithIndex(s.index),
		pipeline.WithArchiver(s.archiver),
		pipeline.WithLogger(logger),
	)
}

func TestPipeline_FileUpload(t *testing.T) {
	s := newStack(t)
	upload := testutil.WriteAudioFixture(t, t.TempDir(), "morning-round.m4a")

	s.transcriber.On("Transcript", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			path := args.String(1)
			assert.Equal(t, s.tempDir, filepath.Dir(path), "the backend reads the acquired temp copy")
			assert.FileExists(t, path)
		}).
		Return(testutil.SampleTranscript, nil).Once()
	s.synthesizer.On("Synthesize", mock.Anything, testutil.SampleTranscript).
		Return(testutil.SampleReport, nil).Once()
	s.index.On("SaveRecord", mock.Anything, mock.MatchedBy(func(e *model.RecordEntry) bool {
		return e.Status == model.RecordStatusCompleted && e.UserID == testutil.SampleUserID && e.Channel == pipeline.ChannelUpload
	})).Return(int64(1), nil).Once()
	s.archiver.On("Archive", mock.Anything, mock.AnythingOfType("*model.PipelineRecord"), mock.AnythingOfType("*model.RecordPaths")).
		Return([]string{"20240115/103000/record.json"}, nil).Once()

	res, err := s.pipeline().Run(context.Background(), pipeline.Input{
		Source:  acquisition.NewFileSource(upload),
		UserID:  testutil.SampleUserID,
		Channel: pipeline.ChannelUpload,
	})
	require.NoError(t, err)

	assert.Equal(t, testutil.SampleReport, res.Report)
	assert.Equal(t, "audio.m4a", filepath.Base(res.Paths.AudioFile))
	stored, err := os.ReadFile(res.Paths.AudioFile)
	require.NoError(t, err)
	assert.Equal(t, "fake audio content", string(stored))
	assert.FileExists(t, upload, "the caller's file is left alone")

	data, err := os.ReadFile(res.Paths.Record)
	require.NoError(t, err)
	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, testutil.SampleTranscript, obj["raw_transcription"])
	assert.Equal(t, testutil.SampleUserID, obj["line_user_id"])

	require.Len(t, s.transcriber.Paths(), 1)
	assert.NoFileExists(t, s.transcriber.Paths()[0], "the temp copy is removed after the run")

	s.transcriber.AssertExpectations(t)
	s.synthesizer.AssertExpectations(t)
	s.index.AssertExpectations(t)
	s.archiver.AssertExpectations(t)
}

func TestPipeline_UnsupportedUploadStopsBeforeBackends(t *testing.T) {
	s := newStack(t)
	upload := testutil.WriteAudioFixture(t, t.TempDir(), "notes.txt")

	s.index.On("SaveRecord", mock.Anything, mock.MatchedBy(func(e *model.RecordEntry) bool {
		return e.Status == model.RecordStatusFailed && e.ErrorKind == string(apperrors.KindNormalization)
	})).Return(int64(1), nil).Once()

	res, err := s.pipeline().Run(context.Background(), pipeline.Input{
		Source:  acquisition.NewFileSource(upload),
		Channel: pipeline.ChannelUpload,
	})

	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	assert.Empty(t, s.transcriber.Paths())
	s.synthesizer.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
	s.archiver.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything, mock.Anything)
	s.index.AssertExpectations(t)
}
