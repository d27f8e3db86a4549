package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "github.com/aken1023/care-sch/internal/app/errors"
	"github.com/aken1023/care-sch/internal/app/model"
)

// Mode selects between the passthrough and convert-first paths.
type Mode string

const (
	// ModeAuto passes through formats the transcription backend accepts and converts the rest.
	ModeAuto Mode = "auto"
	// ModeAlways converts everything that is not already a 16 kHz mono PCM wav.
	ModeAlways Mode = "always"
)

// PassthroughFormats are accepted by the transcription backend as-is.
var PassthroughFormats = []string{"mp3", "mp4", "mpeg", "mpga", "m4a", "wav", "webm"}

// ConvertibleFormats can be decoded by ffmpeg but must be converted first.
var ConvertibleFormats = []string{"aac", "amr", "ogg", "oga", "flac", "3gp", "caf", "opus"}

// commandRunner runs an external binary and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Normalizer prepares an acquired artifact for the transcription backend.
type Normalizer struct {
	ffmpeg  string
	ffprobe string
	mode    Mode
	run     commandRunner
	logger  *zap.Logger
}

func NewNormalizer(ffmpegPath, ffprobePath string, mode Mode, logger *zap.Logger) *Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if mode == "" {
		mode = ModeAuto
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{ffmpeg: ffmpegPath, ffprobe: ffprobePath, mode: mode, run: execRunner, logger: logger}
}

// Normalize returns the input unchanged when no conversion is needed, otherwise a new
// 16 kHz mono wav next to it. The caller owns (and removes) the returned file.
func (n *Normalizer) Normalize(ctx context.Context, in *model.AudioArtifact) (*model.AudioArtifact, error) {
	format := strings.ToLower(in.Format)

	if !lo.Contains(PassthroughFormats, format) && !lo.Contains(ConvertibleFormats, format) {
		return nil, apperrors.WrapKind(apperrors.KindNormalization, apperrors.ErrUnsupportedFormat, fmt.Sprintf("container %q", in.Format))
	}

	switch n.mode {
	case ModeAuto:
		if lo.Contains(PassthroughFormats, format) {
			return in, nil
		}
	case ModeAlways:
		if format == "wav" {
			ok, err := n.Is16kHzWavFile(ctx, in.Path)
			if err == nil && ok {
				return in, nil
			}
		}
	}

	outPath, err := n.ConvertTo16kHzWav(ctx, in.Path)
	if err != nil {
		return nil, apperrors.WrapKind(apperrors.KindNormalization, err, "convert to 16kHz wav")
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, apperrors.WrapKind(apperrors.KindNormalization, err, "converted file missing")
	}

	return &model.AudioArtifact{Path: outPath, Format: "wav", Size: info.Size()}, nil
}

// ConvertTo16kHzWav writes <base>_16khz.wav beside the input and returns its path.
func (n *Normalizer) ConvertTo16kHzWav(ctx context.Context, inputFilePath string) (string, error) {
	outputFilePath := strings.TrimSuffix(inputFilePath, filepath.Ext(inputFilePath)) + "_16khz.wav"

	n.logger.Debug("convert to 16kHz wav", zap.String("input", inputFilePath))

	output, err := n.run(ctx, n.ffmpeg, "-y", "-i", inputFilePath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputFilePath)
	if err != nil {
		os.Remove(outputFilePath)
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("ffmpeg not available (%s): %w", n.ffmpeg, err)
		}
		return "", fmt.Errorf("FFmpeg error: %v, stderr: %s", err, lastLines(string(output), 5))
	}

	return outputFilePath, nil
}

func (n *Normalizer) Is16kHzWavFile(ctx context.Context, filePath string) (bool, error) {
	output, err := n.run(ctx, n.ffprobe, "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	if err != nil {
		return false, err
	}
	return parse16kHzWav(output)
}

func parse16kHzWav(output []byte) (bool, error) {
	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return false, err
	}

	return lo.SomeBy(probeOutput.Streams, model.ProbeStream.IsSpeechWav), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
