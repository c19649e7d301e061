package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/mitchforest/dayli/adapter/cli"
	cliMCP "github.com/mitchforest/dayli/adapter/cli/mcp"
	"github.com/mitchforest/dayli/adapter/cli/schedule"
	"github.com/mitchforest/dayli/adapter/cli/slots"
	"github.com/mitchforest/dayli/adapter/cli/task"
	"github.com/mitchforest/dayli/internal/app"
	"github.com/mitchforest/dayli/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		cliApp = cli.NewApp(
			container.DetectConflictsHandler,
			container.FindGapsHandler,
			container.SuggestSlotsHandler,
			container.FitTaskHandler,
			container.AnalyzeWorkloadHandler,
			container.PlanBlocksHandler,
			container.RescheduleBlockHandler,
			container.PrefsStore,
		)

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid DAYLI_USER_ID", "error", err)
			os.Exit(1)
		}
		cliApp.SetCurrentUserID(userID)
	}

	cli.SetApp(cliApp)

	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(slots.Cmd)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(cliMCP.Cmd)

	cli.Execute()
}
