package services

import (
	"context"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/api/v1/dto"
	"github.com/aken1023/care-sch/internal/app/acquisition"
	"github.com/aken1023/care-sch/internal/app/pipeline"
)

// UploadDefaultFormat is assumed for uploads without a file extension;
// browser recordings are posted as wav.
const UploadDefaultFormat = "wav"

type UploadServiceImpl struct {
	runner Runner
	logger *zap.Logger
}

func NewUploadService(runner Runner, logger *zap.Logger) UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadServiceImpl{runner: runner, logger: logger}
}

// ProcessUpload returns the raw pipeline error on failure.
func (s *UploadServiceImpl) ProcessUpload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	s.logger.Info("processing uploaded audio", zap.String("filename", file.Filename), zap.Int64("size", file.Size))

	res, err := s.runner.Run(ctx, pipeline.Input{
		Source:  acquisition.NewUploadSource(file, UploadDefaultFormat),
		Channel: pipeline.ChannelUpload,
	})
	if err != nil {
		return nil, err
	}

	return &dto.UploadResponse{
		Success:       true,
		Transcription: res.Transcription,
		Report:        res.Report,
	}, nil
}
