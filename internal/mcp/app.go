package mcp

import (
	"github.com/google/uuid"

	"github.com/mitchforest/dayli/adapter/cli"
	"github.com/mitchforest/dayli/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(
		container.DetectConflictsHandler,
		container.FindGapsHandler,
		container.SuggestSlotsHandler,
		container.FitTaskHandler,
		container.AnalyzeWorkloadHandler,
		container.PlanBlocksHandler,
		container.RescheduleBlockHandler,
		container.PrefsStore,
	)

	cliApp.SetCurrentUserID(currentUser)

	return cliApp
}
