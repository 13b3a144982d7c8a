package launcher

import (
	"context"
	"fmt"
	"time"
)

// Spec describes one synchronous entry point invocation.
type Spec struct {
	Argv    []string
	Dir     string
	Env     map[string]string
	LogPath string
	Image   string        // docker backend only
	Timeout time.Duration // zero means no limit
}

type Result struct {
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Backend runs the entry point and reports how it exited. Starting the
// process can fail (returned error); once started, any exit status is a
// Result, not an error.
type Backend interface {
	Run(ctx context.Context, spec *Spec) (*Result, error)
}

func New(name string) (Backend, error) {
	switch name {
	case "", "local":
		return Local{}, nil
	case "docker":
		return Docker{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: local, docker)", name)
	}
}

func ExitReason(code int, timedOut bool) string {
	if timedOut {
		return "timeout"
	}
	if code == 0 {
		return "completed"
	}
	return "failed"
}

// ExitError carries the entry point's exit code up to main so the launcher
// process can terminate with the same status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("entry point exited with code %d", e.Code)
}
