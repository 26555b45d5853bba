package commands

import (
	"github.com/spf13/cobra"

	"gtr/internal/config"
	"gtr/internal/prep"
)

// WarmCommand handles the warm command
type WarmCommand struct {
	config *config.Config
	warmer prep.Warmer
}

// NewWarmCommand creates a new WarmCommand
func NewWarmCommand(cfg *config.Config, warmer prep.Warmer) *WarmCommand {
	return &WarmCommand{
		config: cfg,
		warmer: warmer,
	}
}

// Execute runs the command
func (wc *WarmCommand) Execute(cmd *cobra.Command, args []string) error {
	return wc.warmer.Run(wc.config.Workers)
}
