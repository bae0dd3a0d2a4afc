package execution

import (
	"context"
	"sort"
	"sync"
	"time"

	"testmap/internal/domain"
)

// WorkerPool manages a pool of workers for parallel package execution
type WorkerPool struct {
	workers   int
	runner    TestRunner
	scheduler Scheduler
	parser    CountParser
	progress  Progress
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(workers int, runner TestRunner, scheduler Scheduler, parser CountParser) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if scheduler == nil {
		scheduler = NewRoundRobinScheduler()
	}
	return &WorkerPool{
		workers:   workers,
		runner:    runner,
		scheduler: scheduler,
		parser:    parser,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute runs every package, each worker taking the share the scheduler
// assigns it. With failFast, the first failing package cancels the rest and
// results finished after that point are discarded. Results are sorted by
// package.
func (wp *WorkerPool) Execute(ctx context.Context, packages []string, failFast bool) ([]domain.TestResult, time.Duration, error) {
	if len(packages) == 0 {
		return nil, 0, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu          sync.Mutex
		results     []domain.TestResult
		completed   int
		passedCases int
		failedCases int
		stopped     bool
	)
	startTime := time.Now()

	var wg sync.WaitGroup
	for i, share := range wp.scheduler.Schedule(packages, wp.workers) {
		if len(share) == 0 {
			continue
		}
		wg.Add(1)
		go func(workerID int, share []string) {
			defer wg.Done()
			for _, pkg := range share {
				if runCtx.Err() != nil {
					return
				}
				result := wp.runner.Run(runCtx, pkg, workerID)

				mu.Lock()
				if stopped {
					mu.Unlock()
					return
				}
				results = append(results, result)
				completed++
				p, f := wp.count(result)
				passedCases += p
				failedCases += f
				if wp.progress != nil {
					wp.progress.Update(completed, passedCases, failedCases)
				}
				if failFast && !result.Success {
					stopped = true
					cancel()
				}
				mu.Unlock()
			}
		}(i+1, share)
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Package < results[j].Package })

	if err := ctx.Err(); err != nil {
		return results, time.Since(startTime), err
	}
	return results, time.Since(startTime), nil
}

func (wp *WorkerPool) count(result domain.TestResult) (passed, failed int) {
	if wp.parser != nil {
		return wp.parser.ParseTestCounts(result)
	}
	if result.Success {
		return 1, 0
	}
	return 0, 1
}
