package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Toolchain settings
	GoBinary  string
	ExtraArgs []string

	// Environment overrides injected into the worker process
	Env map[string]string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Warmup settings
	Workers int

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Workers    int
	TestPath   string
	NameFilter string
	TestCases  bool
	OnlyFailed bool
	EnvFile    string
	Env        []string
	ExtraArgs  []string
}

// FileConfig is the optional YAML configuration file (.gtr.yaml).
type FileConfig struct {
	TestPath  string            `yaml:"test_path"`
	GoBinary  string            `yaml:"go_binary"`
	Workers   int               `yaml:"workers"`
	ExtraArgs []string          `yaml:"extra_args"`
	Env       map[string]string `yaml:"env"`
	Ignore    []string          `yaml:"ignore"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		GoBinary:       DefaultGoBinary,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Workers:        DefaultWorkers,
		Env:            make(map[string]string),
		Flags:          Flags{Workers: DefaultWorkers},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// LoadFile applies the YAML config file if it exists. A missing file is
// not an error.
func (c *Config) LoadFile(path string) error {
	if path == "" {
		path = filepath.Join(c.ProjectPath, DefaultConfigFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.TestPath != "" {
		c.TestPath = file.TestPath
	}
	if file.GoBinary != "" {
		c.GoBinary = file.GoBinary
	}
	if file.Workers > 0 {
		c.Workers = file.Workers
	}
	if len(file.ExtraArgs) > 0 {
		c.ExtraArgs = append(c.ExtraArgs, file.ExtraArgs...)
	}
	for key, value := range file.Env {
		c.Env[key] = value
	}
	if len(file.Ignore) > 0 {
		c.PathsToIgnore = append(c.PathsToIgnore, file.Ignore...)
	}
	return nil
}

// LoadEnvFile merges a dotenv file into the worker environment overrides.
// A missing default file is not an error; an explicitly requested file is.
func (c *Config) LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(c.ProjectPath, DefaultEnvFile)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	for key, value := range values {
		c.Env[key] = value
	}
	return nil
}

// ApplyFlags applies flag overrides on top of file and default values.
func (c *Config) ApplyFlags(flags Flags) error {
	c.Flags = flags
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	c.ExtraArgs = append(c.ExtraArgs, flags.ExtraArgs...)
	for _, pair := range flags.Env {
		key, value, err := splitEnvPair(pair)
		if err != nil {
			return err
		}
		c.Env[key] = value
	}
	return nil
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to the project path
		// unless it is absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the full path to the output JSON file. Resolves to
// an absolute path so run and results always read/write the same file
// regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// EnvPairs returns the worker environment overrides as KEY=VALUE pairs.
func (c *Config) EnvPairs() []string {
	pairs := make([]string, 0, len(c.Env))
	for key, value := range c.Env {
		pairs = append(pairs, key+"="+value)
	}
	return pairs
}

func splitEnvPair(pair string) (string, string, error) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '=' {
			if i == 0 {
				break
			}
			return pair[:i], pair[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("invalid env override %q, expected KEY=VALUE", pair)
}
