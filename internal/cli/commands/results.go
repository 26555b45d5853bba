package commands

import (
	"github.com/spf13/cobra"

	"gtr/internal/config"
	"gtr/internal/storage"
	"gtr/internal/ui"
)

// ResultsCommand handles the results command
type ResultsCommand struct {
	config  *config.Config
	storage storage.Storage
	viewer  ui.Viewer
}

// NewResultsCommand creates a new ResultsCommand
func NewResultsCommand(cfg *config.Config, st storage.Storage, viewer ui.Viewer) *ResultsCommand {
	return &ResultsCommand{
		config:  cfg,
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (rc *ResultsCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := rc.storage.Load()
	if err != nil {
		return err
	}

	return rc.viewer.View(results)
}
