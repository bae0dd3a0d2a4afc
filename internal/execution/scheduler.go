package execution

// Scheduler distributes packages across workers
type Scheduler interface {
	Schedule(packages []string, workerCount int) [][]string
}

// RoundRobinScheduler distributes packages evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule deals packages to workers in turn. Package i goes to worker
// i mod workerCount; a non-positive count is treated as one worker.
func (s *RoundRobinScheduler) Schedule(packages []string, workerCount int) [][]string {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]string, workerCount)
	for i, pkg := range packages {
		distribution[i%workerCount] = append(distribution[i%workerCount], pkg)
	}
	return distribution
}
