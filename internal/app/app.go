// Package app assembles the care-record bot from its components.
package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	v1routes "github.com/aken1023/care-sch/internal/api/v1/routes"
	"github.com/aken1023/care-sch/internal/api/v1/services"
	"github.com/aken1023/care-sch/internal/app/api/line"
	"github.com/aken1023/care-sch/internal/app/api/openai"
	"github.com/aken1023/care-sch/internal/app/dedupe"
	"github.com/aken1023/care-sch/internal/app/metrics"
	"github.com/aken1023/care-sch/internal/app/pipeline"
	"github.com/aken1023/care-sch/internal/app/repository"
	"github.com/aken1023/care-sch/internal/config"
)

// Application is the wired object graph shared by the CLI commands.
type Application struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pipeline *pipeline.Pipeline
	Index    repository.RecordDAO
	Line     *line.Client
	OpenAI   *openai.ModelsPinger
	Guard    dedupe.Guard
	Redis    *redis.Client
	Metrics  *metrics.Metrics
}

func newApplication(
	cfg *config.Config,
	logger *zap.Logger,
	p *pipeline.Pipeline,
	index repository.RecordDAO,
	lineClient *line.Client,
	openAI *openai.ModelsPinger,
	guard dedupe.Guard,
	redisClient *redis.Client,
	m *metrics.Metrics,
) *Application {
	return &Application{
		Config:   cfg,
		Logger:   logger,
		Pipeline: p,
		Index:    index,
		Line:     lineClient,
		OpenAI:   openAI,
		Guard:    guard,
		Redis:    redisClient,
		Metrics:  m,
	}
}

// ServiceContainer builds the HTTP services on top of the application.
func (a *Application) ServiceContainer() *v1routes.ServiceContainer {
	checks := services.StatusChecks{
		LineConfigured:   a.Config.Line.ChannelSecret != "" && a.Config.Line.ChannelAccessToken != "",
		OpenAIConfigured: a.Config.OpenAI.APIKey != "",
	}
	if checks.LineConfigured {
		checks.Line = a.Line
	}
	if checks.OpenAIConfigured {
		checks.OpenAI = a.OpenAI
	}
	if a.Redis != nil {
		checks.Redis = a.Guard
	}
	if a.Config.Database.Driver != "none" {
		checks.Database = a.Index
	}

	return &v1routes.ServiceContainer{
		RecordService:  services.NewRecordService(a.Index, a.Logger),
		UploadService:  services.NewUploadService(a.Pipeline, a.Logger),
		WebhookService: services.NewWebhookService(a.Pipeline, a.Line, a.Guard, a.Metrics, a.Logger),
		StatusService:  services.NewStatusService(checks),
		MetricsHandler: a.Metrics.Handler(),
	}
}
