package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"time"

	"go.uber.org/zap"

	"testmap/internal/config"
	"testmap/internal/domain"
)

// Runner executes go test for a single package, restricted to one regex
type Runner struct {
	goBinary    string
	projectPath string
	regex       string
	timeout     time.Duration
	logger      *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, regex string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		goBinary:    cfg.GoBinary,
		projectPath: cfg.ProjectPath,
		regex:       regex,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Args returns the go command arguments used for pkg
func (r *Runner) Args(pkg string) []string {
	args := []string{"test", "-count=1", "-v", "-run", r.regex}
	if r.timeout > 0 {
		args = append(args, "-timeout", r.timeout.String())
	}
	return append(args, packageArg(pkg))
}

// Run executes go test for pkg from the project root
func (r *Runner) Run(ctx context.Context, pkg string, workerID int) domain.TestResult {
	cmd := exec.CommandContext(ctx, r.goBinary, r.Args(pkg)...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("TESTMAP_WORKER=%d", workerID))
	cmd.Dir = r.projectPath

	r.logger.Debug("Running package", zap.Int("worker", workerID), zap.Strings("args", cmd.Args))
	start := time.Now()
	output, err := cmd.CombinedOutput()

	return domain.TestResult{
		Package:  pkg,
		Success:  err == nil,
		Output:   string(output),
		Error:    err,
		Duration: time.Since(start),
	}
}

func packageArg(pkg string) string {
	pkg = path.Clean(pkg)
	if pkg == "." || path.IsAbs(pkg) {
		return pkg
	}
	return "./" + pkg
}
