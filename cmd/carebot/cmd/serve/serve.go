package serve

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/cmd/carebot/cmd/bootstrap"
	"github.com/aken1023/care-sch/internal/api/server"
)

var (
	port            string
	shutdownTimeout time.Duration
)

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides the config file and PORT")
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Minute,
		"how long to wait for in-flight pipeline runs on shutdown")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook and upload server",
	Long: `Run the webhook and upload server

- POST /callback receives chat platform events (signature checked)
- /care-record/ serves the upload page, /care-record/upload processes a file
- /api/v1/records lists indexed runs, /metrics exposes Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := bootstrap.Application(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		cfg := application.Config
		if port != "" {
			cfg.Server.Port = port
		}
		if err := cfg.RequireServeCredentials(); err != nil {
			return err
		}

		if info, err := application.Line.BotInfo(ctx); err != nil {
			application.Logger.Warn("LINE credentials could not be verified", zap.Error(err))
		} else {
			application.Logger.Info("LINE bot ready", zap.String("bot", info.DisplayName), zap.String("basic_id", info.BasicId))
		}

		srv := server.NewServer(server.Config{
			Host:          cfg.Server.Host,
			Port:          cfg.Server.Port,
			ReadTimeout:   cfg.Server.ReadTimeout,
			WriteTimeout:  cfg.Server.WriteTimeout,
			IdleTimeout:   cfg.Server.IdleTimeout,
			Environment:   cfg.Server.Environment,
			ChannelSecret: cfg.Line.ChannelSecret,
		}, application.ServiceContainer(), application.Logger)

		errCh := srv.Start()
		select {
		case err, ok := <-errCh:
			if ok && err != nil {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case <-ctx.Done():
			application.Logger.Info("signal received", zap.Duration("shutdown_timeout", shutdownTimeout))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
