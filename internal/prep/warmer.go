package prep

// Warmer prepares a project for test execution.
type Warmer interface {
	Run(workerCount int) error
}
