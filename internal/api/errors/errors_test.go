package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

func TestFromPipeline(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     ErrorKind
		status   int
		code     string
		contains string
	}{
		{
			name:     "acquisition",
			err:      apperrors.WrapKind(apperrors.KindAcquisition, apperrors.ErrEmptyAudio, "read audio source"),
			kind:     KindBadRequest,
			status:   http.StatusBadRequest,
			code:     "acquisition",
			contains: "read audio source",
		},
		{
			name:   "unsupported container",
			err:    apperrors.WrapKind(apperrors.KindNormalization, apperrors.ErrUnsupportedFormat, `container "xyz"`),
			kind:   KindBadRequest,
			status: http.StatusBadRequest,
			code:   "normalization",
		},
		{
			name:     "transcription backend",
			err:      apperrors.WrapKind(apperrors.KindTranscription, fmt.Errorf("status code: 500"), "whisper request failed"),
			kind:     KindBadGateway,
			status:   http.StatusBadGateway,
			code:     "transcription",
			contains: "status code: 500",
		},
		{
			name:   "synthesis exhausted",
			err:    apperrors.WrapKind(apperrors.KindSynthesis, fmt.Errorf("timeout"), "report synthesis failed after 3 attempt(s)"),
			kind:   KindBadGateway,
			status: http.StatusBadGateway,
			code:   "synthesis",
		},
		{
			name:   "persistence",
			err:    apperrors.WrapKind(apperrors.KindPersistence, fmt.Errorf("disk full"), "write report.md"),
			kind:   KindInternal,
			status: http.StatusInternalServerError,
			code:   "persistence",
		},
		{
			name:   "unclassified",
			err:    fmt.Errorf("boom"),
			kind:   KindInternal,
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromPipeline(tt.err)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.HTTPStatus())
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.err.Error(), apiErr.Message)
			if tt.contains != "" {
				assert.Contains(t, apiErr.Message, tt.contains)
			}
		})
	}

	assert.Nil(t, FromPipeline(nil))

	original := NewBadRequestError("No audio file provided")
	assert.Same(t, original, FromPipeline(original))
}
