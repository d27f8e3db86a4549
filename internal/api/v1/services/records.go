package services

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/api/errors"
	"github.com/aken1023/care-sch/internal/api/v1/dto"
	"github.com/aken1023/care-sch/internal/app/export"
	"github.com/aken1023/care-sch/internal/app/repository"
)

// RecordServiceImpl implements RecordService over the record index
type RecordServiceImpl struct {
	dao    repository.RecordDAO
	logger *zap.Logger
}

func NewRecordService(dao repository.RecordDAO, logger *zap.Logger) RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordServiceImpl{dao: dao, logger: logger}
}

func (s *RecordServiceImpl) ListRecords(ctx context.Context, query dto.ListRecordsQuery) (*dto.RecordListResponse, error) {
	entries, err := s.dao.ListRecords(ctx, query.Filter())
	if err != nil {
		s.logger.Error("failed to list records", zap.Error(err))
		return nil, errors.NewInternalError("Failed to list records")
	}
	return dto.FromRecordEntries(entries), nil
}

// ExportRecords writes the matching records as an xlsx workbook. Without an
// explicit limit the export takes as many rows as the index allows.
func (s *RecordServiceImpl) ExportRecords(ctx context.Context, query dto.ListRecordsQuery, writer io.Writer) error {
	filter := query.Filter()
	if filter.Limit == 0 {
		filter.Limit = repository.MaxListLimit
	}

	entries, err := s.dao.ListRecords(ctx, filter)
	if err != nil {
		s.logger.Error("failed to load records for export", zap.Error(err))
		return errors.NewInternalError("Failed to export records")
	}

	if err := export.Write(writer, entries); err != nil {
		s.logger.Error("failed to write export", zap.Error(err))
		return errors.NewInternalError("Failed to export records")
	}
	return nil
}
