package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/odcplane/odcplane/pkg/processgraph"
)

// LocalConfig configures a Local engine.
type LocalConfig struct {
	// WorkerCommand is the executable invoked for each execution unit.
	WorkerCommand string

	// WorkerArgs are arguments placed before the per-run flags.
	WorkerArgs []string

	// ResultsDir is the root under which per-run result folders live.
	ResultsDir string
}

// Local runs execution units as spawned worker processes.
//
// Per-run layout under ResultsDir:
//
//	<run_id>/graph.json
//	<run_id>/result.<format>
//	<run_id>/stdout.log
//	<run_id>/stderr.log
//
// Interruption is a SIGINT to the worker, which is expected to observe it
// and wind down cooperatively.
type Local struct {
	cfg    LocalConfig
	logger *zap.Logger
}

var _ Engine = (*Local)(nil)

// NewLocal creates a process-spawning engine.
func NewLocal(cfg LocalConfig, logger *zap.Logger) (*Local, error) {
	if strings.TrimSpace(cfg.WorkerCommand) == "" {
		return nil, fmt.Errorf("worker command is required")
	}
	if strings.TrimSpace(cfg.ResultsDir) == "" {
		return nil, fmt.Errorf("results dir is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{cfg: cfg, logger: logger}, nil
}

// RunDir returns the per-run folder for an execution unit.
func (e *Local) RunDir(runID string) string {
	return filepath.Join(e.cfg.ResultsDir, runID)
}

// Start writes the graph to the run folder and spawns the worker.
func (e *Local) Start(ctx context.Context, graph *processgraph.Graph) (StartResult, error) {
	runID := uuid.New().String()
	runDir := e.RunDir(runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return StartResult{}, &EngineError{Op: "Start", RunID: runID, Err: fmt.Errorf("create run dir: %w", err)}
	}

	graphPath := filepath.Join(runDir, "graph.json")
	if err := os.WriteFile(graphPath, graph.Raw(), 0644); err != nil {
		return StartResult{}, &EngineError{Op: "Start", RunID: runID, Err: fmt.Errorf("write graph: %w", err)}
	}

	resultName := "result." + graph.OutputFormat()
	resultPath := filepath.Join(runDir, resultName)

	stdoutFile, err := os.Create(filepath.Join(runDir, "stdout.log"))
	if err != nil {
		return StartResult{}, &EngineError{Op: "Start", RunID: runID, Err: fmt.Errorf("create stdout log: %w", err)}
	}
	stderrFile, err := os.Create(filepath.Join(runDir, "stderr.log"))
	if err != nil {
		_ = stdoutFile.Close()
		return StartResult{}, &EngineError{Op: "Start", RunID: runID, Err: fmt.Errorf("create stderr log: %w", err)}
	}

	args := append(append([]string{}, e.cfg.WorkerArgs...), "--graph", graphPath, "--output", resultPath)
	cmd := exec.Command(e.cfg.WorkerCommand, args...)
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		_ = stdoutFile.Close()
		_ = stderrFile.Close()
		return StartResult{}, &EngineError{Op: "Start", RunID: runID, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}

	_ = stdoutFile.Close()
	_ = stderrFile.Close()

	e.logger.Info("Started execution unit",
		zap.String("run_id", runID),
		zap.Int("pid", cmd.Process.Pid),
		zap.String("result", resultName))

	// Reap the worker in the background so finished units do not linger
	// as zombies.
	go func() { _ = cmd.Wait() }()

	return StartResult{
		Handle:         Handle{RunID: runID, PID: cmd.Process.Pid},
		ResultLocation: filepath.Join(runID, resultName),
	}, nil
}

// Interrupt sends SIGINT to the worker. A missing process is not an
// error: the unit may already have finished.
func (e *Local) Interrupt(ctx context.Context, h Handle) error {
	if h.PID <= 0 {
		return &EngineError{Op: "Interrupt", RunID: h.RunID, Err: fmt.Errorf("handle has no pid")}
	}

	proc, err := os.FindProcess(h.PID)
	if err != nil {
		return &EngineError{Op: "Interrupt", RunID: h.RunID, Err: fmt.Errorf("find process: %w", err)}
	}
	if err := proc.Signal(syscall.SIGINT); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return &EngineError{Op: "Interrupt", RunID: h.RunID, Err: fmt.Errorf("signal int: %w", err)}
	}

	e.logger.Info("Interrupt requested",
		zap.String("run_id", h.RunID),
		zap.Int("pid", h.PID))
	return nil
}
