package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path
	DefaultTestPath = "."
	// DefaultGoBinary is the go binary used to spawn worker processes
	DefaultGoBinary = "go"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".gtr"
	// DefaultWorkers is the default number of warmup workers
	DefaultWorkers = 4
	// DefaultConfigFile is the optional YAML config file name
	DefaultConfigFile = ".gtr.yaml"
	// DefaultEnvFile is the dotenv file read for worker env overrides
	DefaultEnvFile = ".env"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"vendor",
	"testdata",
	"node_modules",
}
