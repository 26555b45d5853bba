package ui

import "gtr/internal/domain"

// Viewer displays test results in an interactive TUI
type Viewer interface {
	View(results *domain.RunOutput) error
}
