// Package acquisition turns an inbound audio handle into a transient local file.
package acquisition

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/aken1023/care-sch/internal/app/errors"
	"github.com/aken1023/care-sch/internal/app/model"
	"github.com/aken1023/care-sch/internal/app/util/files"
)

// Source is an opaque audio handle: a chat message, an uploaded file or a local path.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Format is the declared container tag, e.g. "m4a".
	Format() string
}

// Acquirer writes sources into a scoped temp directory.
type Acquirer struct {
	tempDir string
	logger  *zap.Logger
}

func NewAcquirer(tempDir string, logger *zap.Logger) *Acquirer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acquirer{tempDir: tempDir, logger: logger}
}

// Acquire copies the source into <tempDir>/<uuid>.<format>. On failure no file is left behind.
func (a *Acquirer) Acquire(ctx context.Context, src Source) (*model.AudioArtifact, error) {
	if src == nil {
		return nil, apperrors.NewKind(apperrors.KindAcquisition, "no audio source")
	}

	format := src.Format()
	if format == "" {
		format = "bin"
	}

	if err := files.EnsureDir(a.tempDir); err != nil {
		return nil, apperrors.WrapKind(apperrors.KindAcquisition, err, "prepare temp dir")
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, apperrors.WrapKind(apperrors.KindAcquisition, err, "open audio source")
	}
	defer rc.Close()

	path := filepath.Join(a.tempDir, fmt.Sprintf("%s.%s", uuid.NewString(), format))
	out, err := os.Create(path)
	if err != nil {
		return nil, apperrors.WrapKind(apperrors.KindAcquisition, err, "create temp file")
	}

	size, err := io.Copy(out, rc)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && size == 0 {
		err = apperrors.ErrEmptyAudio
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			a.logger.Warn("failed to remove partial temp file", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, apperrors.WrapKind(apperrors.KindAcquisition, err, "read audio source")
	}

	a.logger.Debug("audio acquired", zap.String("path", path), zap.String("format", format), zap.Int64("size", size))
	return &model.AudioArtifact{Path: path, Format: format, Size: size}, nil
}
