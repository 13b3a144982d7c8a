package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Local runs the entry point as a child process, inheriting stdout/stderr.
// When LogPath is set the output is additionally teed to that file.
type Local struct{}

func (Local) Run(ctx context.Context, spec *Spec) (*Result, error) {
	if len(spec.Argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = os.Environ()
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout io.Writer = os.Stdout
	var stderr io.Writer = os.Stderr
	if spec.LogPath != "" {
		logFile, err := os.Create(spec.LogPath)
		if err != nil {
			return nil, fmt.Errorf("creating log file: %w", err)
		}
		defer logFile.Close()
		stdout = io.MultiWriter(os.Stdout, logFile)
		stderr = io.MultiWriter(os.Stderr, logFile)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err == nil {
		return &Result{ExitCode: 0, Duration: duration}, nil
	}

	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if timedOut {
			code = 124
		}
		return &Result{ExitCode: code, TimedOut: timedOut, Duration: duration}, nil
	}
	if timedOut {
		return &Result{ExitCode: 124, TimedOut: true, Duration: duration}, nil
	}
	return nil, fmt.Errorf("starting entry point: %w", err)
}
