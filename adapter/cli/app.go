package cli

import (
	"github.com/google/uuid"

	"github.com/mitchforest/dayli/internal/preferences"
	scheduleCommands "github.com/mitchforest/dayli/internal/scheduling/application/commands"
	scheduleQueries "github.com/mitchforest/dayli/internal/scheduling/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	// Query Handlers
	DetectConflictsHandler *scheduleQueries.DetectConflictsHandler
	FindGapsHandler        *scheduleQueries.FindGapsHandler
	SuggestSlotsHandler    *scheduleQueries.SuggestSlotsHandler
	FitTaskHandler         *scheduleQueries.FitTaskHandler
	AnalyzeWorkloadHandler *scheduleQueries.AnalyzeWorkloadHandler

	// Command Handlers
	PlanBlocksHandler      *scheduleCommands.PlanBlocksHandler
	RescheduleBlockHandler *scheduleCommands.RescheduleBlockHandler

	// Preferences
	PrefsStore preferences.Store

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a CLI application with the given handlers.
func NewApp(
	detectConflicts *scheduleQueries.DetectConflictsHandler,
	findGaps *scheduleQueries.FindGapsHandler,
	suggestSlots *scheduleQueries.SuggestSlotsHandler,
	fitTask *scheduleQueries.FitTaskHandler,
	analyzeWorkload *scheduleQueries.AnalyzeWorkloadHandler,
	planBlocks *scheduleCommands.PlanBlocksHandler,
	rescheduleBlock *scheduleCommands.RescheduleBlockHandler,
	prefsStore preferences.Store,
) *App {
	return &App{
		DetectConflictsHandler: detectConflicts,
		FindGapsHandler:        findGaps,
		SuggestSlotsHandler:    suggestSlots,
		FitTaskHandler:         fitTask,
		AnalyzeWorkloadHandler: analyzeWorkload,
		PlanBlocksHandler:      planBlocks,
		RescheduleBlockHandler: rescheduleBlock,
		PrefsStore:             prefsStore,
	}
}

// SetCurrentUserID sets the user all commands act on behalf of.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

var currentApp *App

// SetApp sets the global CLI app instance.
func SetApp(a *App) {
	currentApp = a
}

// GetApp returns the global CLI app instance.
func GetApp() *App {
	return currentApp
}
