package services

import (
	"context"
	"time"

	"github.com/aken1023/care-sch/internal/api/v1/dto"
)

const pingTimeout = 5 * time.Second

// StatusChecks describes what GET /status inspects. Nil Redis and Database
// pingers are reported as disabled. Line and OpenAI verify credentials that are
// configured; without a pinger the credentials are taken on trust.
type StatusChecks struct {
	LineConfigured   bool
	OpenAIConfigured bool
	Line             Pinger
	OpenAI           Pinger
	Redis            Pinger
	Database         Pinger
}

type StatusServiceImpl struct {
	checks StatusChecks
	now    func() time.Time
}

func NewStatusService(checks StatusChecks) StatusService {
	return &StatusServiceImpl{checks: checks, now: time.Now}
}

func (s *StatusServiceImpl) GetStatus(ctx context.Context) *dto.StatusResponse {
	services := map[string]string{
		"line_bot": credentials(ctx, s.checks.LineConfigured, s.checks.Line),
		"openai":   credentials(ctx, s.checks.OpenAIConfigured, s.checks.OpenAI),
		"redis":    ping(ctx, s.checks.Redis),
		"database": ping(ctx, s.checks.Database),
	}

	status := dto.StatusOK
	for _, state := range services {
		if state == dto.ServiceMissing || state == dto.ServiceUnreachable {
			status = dto.StatusDegraded
			break
		}
	}

	return &dto.StatusResponse{
		Status:    status,
		Services:  services,
		Timestamp: s.now().Format(time.RFC3339),
	}
}

func credentials(ctx context.Context, configured bool, p Pinger) string {
	switch {
	case !configured:
		return dto.ServiceMissing
	case p == nil:
		return dto.ServiceConfigured
	default:
		return ping(ctx, p)
	}
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return dto.ServiceDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return dto.ServiceUnreachable
	}
	return dto.ServiceConnected
}
