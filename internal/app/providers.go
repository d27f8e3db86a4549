package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/app/acquisition"
	"github.com/aken1023/care-sch/internal/app/api"
	"github.com/aken1023/care-sch/internal/app/api/gemini"
	"github.com/aken1023/care-sch/internal/app/api/line"
	"github.com/aken1023/care-sch/internal/app/api/openai"
	"github.com/aken1023/care-sch/internal/app/api/openai/chat"
	"github.com/aken1023/care-sch/internal/app/api/openai/whisper"
	"github.com/aken1023/care-sch/internal/app/audio"
	"github.com/aken1023/care-sch/internal/app/common"
	"github.com/aken1023/care-sch/internal/app/dedupe"
	"github.com/aken1023/care-sch/internal/app/metrics"
	"github.com/aken1023/care-sch/internal/app/pipeline"
	"github.com/aken1023/care-sch/internal/app/record"
	"github.com/aken1023/care-sch/internal/app/report"
	"github.com/aken1023/care-sch/internal/app/repository"
	"github.com/aken1023/care-sch/internal/app/repository/pg"
	"github.com/aken1023/care-sch/internal/app/repository/sqlite"
	"github.com/aken1023/care-sch/internal/app/storage"
	"github.com/aken1023/care-sch/internal/config"
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := common.NewLogger(cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideOpenAIClient is shared by transcription and the openai synthesis backend.
func provideOpenAIClient(cfg *config.Config) *goopenai.Client {
	return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
}

func provideTranscriber(client *goopenai.Client, cfg *config.Config, logger *zap.Logger) api.Transcriber {
	return whisper.NewRemoteTranscriber(client, cfg.OpenAI.TranscriptionModel, cfg.OpenAI.Language, cfg.OpenAI.Timeout, logger)
}

// provideCompleter selects the synthesis backend.
func provideCompleter(ctx context.Context, client *goopenai.Client, cfg *config.Config) (api.Completer, error) {
	switch cfg.Synthesis.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.OpenAI.Timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "", "openai":
		return chat.NewClient(client, cfg.OpenAI.ChatModel), nil
	default:
		return nil, fmt.Errorf("unknown synthesis provider %q", cfg.Synthesis.Provider)
	}
}

func provideSynthesizer(completer api.Completer, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *report.Synthesizer {
	policy := report.RetryPolicy{
		MaxAttempts:  cfg.Synthesis.MaxAttempts,
		InitialDelay: cfg.Synthesis.InitialDelay,
		Multiplier:   cfg.Synthesis.Multiplier,
	}
	return report.NewSynthesizer(completer,
		report.WithRetryPolicy(policy),
		report.WithTemperature(cfg.Synthesis.Temperature),
		report.WithCallTimeout(cfg.OpenAI.Timeout),
		report.WithRetryHook(func(int, error, time.Duration) { m.IncSynthesisRetry() }),
		report.WithLogger(logger),
	)
}

func provideAcquirer(cfg *config.Config, logger *zap.Logger) *acquisition.Acquirer {
	return acquisition.NewAcquirer(cfg.Audio.TempDir, logger)
}

func provideNormalizer(cfg *config.Config, logger *zap.Logger) *audio.Normalizer {
	return audio.NewNormalizer(cfg.Audio.FFmpegPath, cfg.Audio.FFprobePath, audio.Mode(cfg.Audio.Mode), logger)
}

func provideRecordStore(cfg *config.Config, logger *zap.Logger) *record.Store {
	return record.NewStore(cfg.Records.Root, logger)
}

func provideRecordDAO(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.RecordDAO, func(), error) {
	var (
		dao repository.RecordDAO
		err error
	)
	switch cfg.Database.Driver {
	case "sqlite3":
		dao, err = sqlite.NewRecordDB(ctx, cfg.Database.DSN)
	case "postgres":
		dao, err = pg.NewRecordDB(ctx, cfg.Database.DSN)
	case "none", "":
		return repository.NopRecordDAO{}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open record index (%s): %w", cfg.Database.Driver, err)
	}

	logger.Info("record index ready", zap.String("driver", cfg.Database.Driver))
	return dao, func() {
		if err := dao.Close(); err != nil {
			logger.Warn("failed to close record index", zap.Error(err))
		}
	}, nil
}

func provideArchiver(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Archiver, error) {
	if !cfg.Archive.Enabled {
		return storage.NopArchiver{}, nil
	}
	archiver, err := storage.NewMinioArchiver(ctx, storage.MinioConfig{
		Endpoint:  cfg.Archive.Endpoint,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Bucket:    cfg.Archive.Bucket,
		UseSSL:    cfg.Archive.UseSSL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect archive: %w", err)
	}
	return archiver, nil
}

// provideRedisClient returns nil when no address is configured.
func provideRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, func()) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return client, func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}

func provideGuard(client *redis.Client, cfg *config.Config, logger *zap.Logger) dedupe.Guard {
	if client == nil {
		return dedupe.NopGuard{}
	}
	return dedupe.NewRedisGuard(client, cfg.Redis.EventTTL, logger)
}

func provideLineClient(cfg *config.Config) (*line.Client, error) {
	client, err := line.NewClient(line.Config{
		AccessToken: cfg.Line.ChannelAccessToken,
		APIBase:     cfg.Line.APIBase,
		DataAPIBase: cfg.Line.DataAPIBase,
		Timeout:     cfg.OpenAI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("line client: %w", err)
	}
	return client, nil
}

func provideModelsPinger(client *goopenai.Client) *openai.ModelsPinger {
	return openai.NewModelsPinger(client)
}

func providePipeline(
	acquirer *acquisition.Acquirer,
	normalizer *audio.Normalizer,
	transcriber api.Transcriber,
	synthesizer *report.Synthesizer,
	store *record.Store,
	index repository.RecordDAO,
	archiver storage.Archiver,
	m *metrics.Metrics,
	logger *zap.Logger,
) *pipeline.Pipeline {
	return pipeline.New(pipeline.Deps{
		Acquirer:    acquirer,
		Normalizer:  normalizer,
		Transcriber: transcriber,
		Synthesizer: synthesizer,
		Store:       store,
	},
		pipeline.WithIndex(index),
		pipeline.WithArchiver(archiver),
		pipeline.WithMetrics(m),
		pipeline.WithLogger(logger),
	)
}
