package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				TestPath:    ".",
				Flags:       Flags{},
			},
			expected: ".",
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "internal",
				},
			},
			expected: "/project/internal",
		},
		{
			name: "absolute test path",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetTestPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.GoBinary != DefaultGoBinary {
		t.Errorf("expected GoBinary %s, got %s", DefaultGoBinary, cfg.GoBinary)
	}

	if cfg.Workers != DefaultWorkers {
		t.Errorf("expected Workers %d, got %d", DefaultWorkers, cfg.Workers)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}
}

func TestConfig_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing file is not an error", func(t *testing.T) {
		cfg := New()
		cfg.ProjectPath = tmpDir
		if err := cfg.LoadFile(""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("values applied from file", func(t *testing.T) {
		path := filepath.Join(tmpDir, ".gtr.yaml")
		content := `test_path: internal
go_binary: /usr/local/go/bin/go
workers: 8
extra_args: ["-race"]
env:
  APP_ENV: testing
ignore: ["fixtures"]
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg := New()
		cfg.ProjectPath = tmpDir
		if err := cfg.LoadFile(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.TestPath != "internal" {
			t.Errorf("expected TestPath internal, got %s", cfg.TestPath)
		}
		if cfg.GoBinary != "/usr/local/go/bin/go" {
			t.Errorf("expected GoBinary override, got %s", cfg.GoBinary)
		}
		if cfg.Workers != 8 {
			t.Errorf("expected 8 workers, got %d", cfg.Workers)
		}
		if len(cfg.ExtraArgs) != 1 || cfg.ExtraArgs[0] != "-race" {
			t.Errorf("expected extra args [-race], got %v", cfg.ExtraArgs)
		}
		if cfg.Env["APP_ENV"] != "testing" {
			t.Errorf("expected env override, got %v", cfg.Env)
		}
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.yaml")
		os.WriteFile(path, []byte(":\t not yaml"), 0644)

		cfg := New()
		if err := cfg.LoadFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

func TestConfig_LoadEnvFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing default file is not an error", func(t *testing.T) {
		cfg := New()
		cfg.ProjectPath = tmpDir
		if err := cfg.LoadEnvFile(""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		cfg := New()
		cfg.ProjectPath = tmpDir
		if err := cfg.LoadEnvFile(filepath.Join(tmpDir, "nope.env")); err == nil {
			t.Error("expected error for missing explicit env file")
		}
	})

	t.Run("values merged into env overrides", func(t *testing.T) {
		path := filepath.Join(tmpDir, "worker.env")
		os.WriteFile(path, []byte("DB_HOST=localhost\nAPP_DEBUG=1\n"), 0644)

		cfg := New()
		cfg.ProjectPath = tmpDir
		if err := cfg.LoadEnvFile(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Env["DB_HOST"] != "localhost" || cfg.Env["APP_DEBUG"] != "1" {
			t.Errorf("expected env values merged, got %v", cfg.Env)
		}
	})
}

func TestConfig_ApplyFlags(t *testing.T) {
	t.Run("env pairs parsed", func(t *testing.T) {
		cfg := New()
		err := cfg.ApplyFlags(Flags{Env: []string{"FOO=bar", "EMPTY="}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Env["FOO"] != "bar" {
			t.Errorf("expected FOO=bar, got %v", cfg.Env)
		}
		if value, ok := cfg.Env["EMPTY"]; !ok || value != "" {
			t.Errorf("expected empty override present, got %v", cfg.Env)
		}
	})

	t.Run("invalid env pair", func(t *testing.T) {
		cfg := New()
		if err := cfg.ApplyFlags(Flags{Env: []string{"NOVALUE"}}); err == nil {
			t.Error("expected error for env pair without =")
		}
	})

	t.Run("workers flag overrides", func(t *testing.T) {
		cfg := New()
		if err := cfg.ApplyFlags(Flags{Workers: 2}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Workers != 2 {
			t.Errorf("expected 2 workers, got %d", cfg.Workers)
		}
	})
}
