package commands

import (
	"gtr/internal/config"
	"gtr/internal/storage"
	"gtr/internal/ui"

	"github.com/spf13/cobra"
)

// TuiCommand handles the tui command
type TuiCommand struct {
	config  *config.Config
	storage storage.Storage
}

// NewTuiCommand creates a new TuiCommand
func NewTuiCommand(cfg *config.Config, st storage.Storage) *TuiCommand {
	return &TuiCommand{
		config:  cfg,
		storage: st,
	}
}

// Execute runs the command
func (tc *TuiCommand) Execute(cmd *cobra.Command, args []string) error {
	session := ui.NewSession(tc.config, tc.storage)
	return session.Run(cmd.Context())
}
