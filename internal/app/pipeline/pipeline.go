// Package pipeline drives one voice message from acquisition to a persisted report.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/app/acquisition"
	"github.com/aken1023/care-sch/internal/app/api"
	apperrors "github.com/aken1023/care-sch/internal/app/errors"
	"github.com/aken1023/care-sch/internal/app/metrics"
	"github.com/aken1023/care-sch/internal/app/model"
	"github.com/aken1023/care-sch/internal/app/repository"
	"github.com/aken1023/care-sch/internal/app/storage"
	"github.com/aken1023/care-sch/internal/app/util/files"
)

const (
	ChannelLine   = "line"
	ChannelUpload = "upload"
	ChannelCLI    = "cli"
)

type Acquirer interface {
	Acquire(ctx context.Context, src acquisition.Source) (*model.AudioArtifact, error)
}

type Normalizer interface {
	Normalize(ctx context.Context, in *model.AudioArtifact) (*model.AudioArtifact, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, transcript string) (string, error)
}

type RecordStore interface {
	Save(rec *model.PipelineRecord, audioPath string) (*model.RecordPaths, error)
}

// Deps are the required stage implementations.
type Deps struct {
	Acquirer    Acquirer
	Normalizer  Normalizer
	Transcriber api.Transcriber
	Synthesizer Synthesizer
	Store       RecordStore
}

// Input identifies the audio and who sent it.
type Input struct {
	Source  acquisition.Source
	UserID  string
	Channel string

	// Progress, if set, observes this run only, after any pipeline-wide callback.
	Progress ProgressFunc
}

// Result is only produced by a fully successful run.
type Result struct {
	RunID         string
	Timestamp     string
	Transcription string
	Report        string
	Record        *model.PipelineRecord
	Paths         *model.RecordPaths
	Duration      time.Duration
}

type Pipeline struct {
	deps     Deps
	index    repository.RecordDAO
	archiver storage.Archiver
	metrics  *metrics.Metrics
	progress ProgressFunc
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Pipeline)

func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func WithIndex(dao repository.RecordDAO) Option {
	return func(p *Pipeline) {
		if dao != nil {
			p.index = dao
		}
	}
}

func WithArchiver(a storage.Archiver) Option {
	return func(p *Pipeline) {
		if a != nil {
			p.archiver = a
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func New(deps Deps, opts ...Option) *Pipeline {
	p := &Pipeline{
		deps:     deps,
		index:    repository.NopRecordDAO{},
		archiver: storage.NopArchiver{},
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run carries the per-invocation state so Pipeline itself stays safe for concurrent use.
type run struct {
	p       *Pipeline
	id      string
	input   Input
	state   State
	entered time.Time
	logger  *zap.Logger
}

func (r *run) enter(s State) {
	now := r.p.now()
	if r.state != StateIdle {
		r.p.metrics.ObserveStage(string(r.state), now.Sub(r.entered).Seconds())
	}
	r.state, r.entered = s, now
	r.logger.Debug("pipeline state", zap.String("state", string(s)))
	r.emit(Event{RunID: r.id, State: s, At: now})
}

// Run executes every stage in order and stops at the first failure. The returned
// error carries the kind of the failed stage. Temporary audio files are removed
// on every path.
func (p *Pipeline) Run(ctx context.Context, in Input) (res *Result, err error) {
	r := &run{
		p:     p,
		id:    uuid.NewString(),
		input: in,
		state: StateIdle,
	}
	r.logger = p.logger.With(
		zap.String("run_id", r.id),
		zap.String("user_id", in.UserID),
		zap.String("channel", in.Channel),
	)
	started := p.now()

	var (
		artifact   *model.AudioArtifact
		normalized *model.AudioArtifact
	)
	defer func() {
		p.cleanup(r.logger, artifact, normalized)
		p.metrics.ObserveRun(in.Channel, err)
	}()

	r.enter(StateAcquiring)
	artifact, err = p.deps.Acquirer.Acquire(ctx, in.Source)
	if err != nil {
		return nil, p.fail(ctx, r, started, err)
	}

	r.enter(StateNormalizing)
	normalized, err = p.deps.Normalizer.Normalize(ctx, artifact)
	if err != nil {
		return nil, p.fail(ctx, r, started, err)
	}

	r.enter(StateTranscribing)
	transcript, err := p.deps.Transcriber.Transcript(ctx, normalized.Path)
	if err != nil {
		return nil, p.fail(ctx, r, started, err)
	}

	r.enter(StateSynthesizing)
	report, err := p.deps.Synthesizer.Synthesize(ctx, transcript)
	if err != nil {
		return nil, p.fail(ctx, r, started, err)
	}

	r.enter(StatePersisting)
	savedAt := p.now()
	rec := &model.PipelineRecord{
		Timestamp:        savedAt.Format(model.TimestampLayout),
		AudioFile:        artifact.Path,
		RawTranscription: transcript,
		FormattedReport:  report,
		CreatedAt:        savedAt.Format(model.CreatedAtLayout),
		LineUserID:       in.UserID,
	}
	paths, err := p.deps.Store.Save(rec, artifact.Path)
	if err != nil {
		return nil, p.fail(ctx, r, started, err)
	}

	r.enter(StateResponding)
	res = &Result{
		RunID:         r.id,
		Timestamp:     rec.Timestamp,
		Transcription: transcript,
		Report:        report,
		Record:        rec,
		Paths:         paths,
		Duration:      p.now().Sub(started),
	}
	p.afterSave(ctx, r, rec, paths)

	r.logger.Info("pipeline completed",
		zap.String("timestamp", rec.Timestamp),
		zap.String("record_dir", paths.Dir),
		zap.Duration("elapsed", res.Duration),
	)
	return res, nil
}

func (r *run) emit(e Event) {
	if r.p.progress != nil {
		r.p.progress(e)
	}
	if r.input.Progress != nil {
		r.input.Progress(e)
	}
}

func (p *Pipeline) fail(ctx context.Context, r *run, started time.Time, cause error) error {
	from := r.state
	err := apperrors.EnsureKind(from.Kind(), cause)

	r.logger.Error("pipeline failed",
		zap.String("state", string(from)),
		zap.String("error_kind", string(apperrors.KindOf(err))),
		zap.Error(err),
		zap.Stack("stacktrace"),
	)
	r.emit(Event{RunID: r.id, State: StateFailed, From: from, Err: err, At: p.now()})

	entry := &model.RecordEntry{
		Timestamp:    started.Format(model.TimestampLayout),
		UserID:       r.input.UserID,
		Channel:      r.input.Channel,
		Status:       model.RecordStatusFailed,
		ErrorKind:    string(apperrors.KindOf(err)),
		ErrorMessage: err.Error(),
		CreatedAt:    started,
	}
	if _, ierr := p.index.SaveRecord(context.WithoutCancel(ctx), entry); ierr != nil {
		r.logger.Warn("failed to index failed run", zap.Error(ierr))
	}
	return err
}

// afterSave indexes and archives a persisted record. Neither can fail the run.
func (p *Pipeline) afterSave(ctx context.Context, r *run, rec *model.PipelineRecord, paths *model.RecordPaths) {
	createdAt, err := time.ParseInLocation(model.CreatedAtLayout, rec.CreatedAt, time.Local)
	if err != nil {
		createdAt = p.now()
	}
	entry := &model.RecordEntry{
		Timestamp:     rec.Timestamp,
		UserID:        rec.LineUserID,
		Channel:       r.input.Channel,
		RecordDir:     paths.Dir,
		Transcription: rec.RawTranscription,
		Report:        rec.FormattedReport,
		Status:        model.RecordStatusCompleted,
		CreatedAt:     createdAt,
	}
	if _, err := p.index.SaveRecord(ctx, entry); err != nil {
		r.logger.Warn("failed to index record", zap.String("timestamp", rec.Timestamp), zap.Error(err))
	}

	keys, err := p.archiver.Archive(ctx, rec, paths)
	if err != nil {
		r.logger.Warn("failed to archive record", zap.String("timestamp", rec.Timestamp), zap.Error(err))
		return
	}
	if len(keys) > 0 {
		r.logger.Info("record archived", zap.Strings("keys", keys))
	}
}

func (p *Pipeline) cleanup(logger *zap.Logger, artifact, normalized *model.AudioArtifact) {
	if normalized != nil && (artifact == nil || normalized.Path != artifact.Path) {
		if err := files.RemoveIfExists(normalized.Path); err != nil {
			logger.Warn("failed to remove converted audio", zap.String("path", normalized.Path), zap.Error(err))
		}
	}
	if artifact != nil {
		if err := files.RemoveIfExists(artifact.Path); err != nil {
			logger.Warn("failed to remove temp audio", zap.String("path", artifact.Path), zap.Error(err))
		}
	}
}
