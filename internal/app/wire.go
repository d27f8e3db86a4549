//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/aken1023/care-sch/internal/app/metrics"
	"github.com/aken1023/care-sch/internal/config"
)

var pipelineSet = wire.NewSet(
	provideOpenAIClient,
	provideTranscriber,
	provideCompleter,
	provideSynthesizer,
	provideAcquirer,
	provideNormalizer,
	provideRecordStore,
	provideRecordDAO,
	provideArchiver,
	providePipeline,
)

// InitializeApplication wires the full graph from cfg. The cleanup func closes
// the record index, the redis client and flushes the logger.
func InitializeApplication(ctx context.Context, cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		provideLogger,
		metrics.New,
		pipelineSet,
		provideRedisClient,
		provideGuard,
		provideLineClient,
		provideModelsPinger,
		newApplication,
	)
	return nil, nil, nil
}
