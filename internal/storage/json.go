package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gtr/internal/domain"
)

// Save writes test results to the configured JSON output file. Failures
// and skips are stored in full; passed tests only contribute to the meta
// counters.
func (s *JSONStorage) Save(results []domain.TestResult, duration time.Duration, cancelled bool) error {
	passed, failed, skipped := 0, 0, 0
	var details []domain.TestFailure
	for _, r := range results {
		switch r.Outcome {
		case domain.OutcomePassed:
			passed++
		case domain.OutcomeSkipped:
			skipped++
		default:
			failed++
			details = append(details, domain.TestFailure{
				TestName:        r.Test.Name,
				Package:         r.Test.Package,
				Outcome:         r.Outcome,
				DurationSeconds: r.Duration.Seconds(),
				Output:          r.Output,
			})
		}
	}

	output := domain.RunOutput{
		Meta: domain.RunMeta{
			TotalTests:      len(results),
			PassedTests:     passed,
			FailedTests:     failed,
			SkippedTests:    skipped,
			Cancelled:       cancelled,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: details,
	}

	return s.SaveOutput(&output)
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.RunOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.RunOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
