package launcher_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/tsadkit/tsadrun/internal/launcher"
)

func TestDockerRun(t *testing.T) {
	if os.Getenv("TSADRUN_DOCKER_TESTS") == "" {
		t.Skip("set TSADRUN_DOCKER_TESTS=1 to run Docker tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := launcher.Docker{}.Run(ctx, &launcher.Spec{
		Argv:  []string{"sh", "-c", "exit 3"},
		Dir:   t.TempDir(),
		Image: "alpine:latest",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code: got %d, want 3", res.ExitCode)
	}
}

func TestDockerTimeout(t *testing.T) {
	if os.Getenv("TSADRUN_DOCKER_TESTS") == "" {
		t.Skip("set TSADRUN_DOCKER_TESTS=1 to run Docker tests")
	}
	res, err := launcher.Docker{}.Run(context.Background(), &launcher.Spec{
		Argv:    []string{"sleep", "300"},
		Dir:     t.TempDir(),
		Image:   "alpine:latest",
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.TimedOut {
		t.Error("expected timeout")
	}
	if res.ExitCode != 124 {
		t.Errorf("exit code: got %d, want 124", res.ExitCode)
	}
}

func TestDockerWaitFailureIsNotTimeout(t *testing.T) {
	if os.Getenv("TSADRUN_DOCKER_TESTS") == "" {
		t.Skip("set TSADRUN_DOCKER_TESTS=1 to run Docker tests")
	}
	// No Timeout configured: a wait interrupted for any other reason must
	// come back as a harness error, never as a 124 result.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(2 * time.Second)
		cancel()
	}()
	res, err := launcher.Docker{}.Run(ctx, &launcher.Spec{
		Argv:  []string{"sleep", "300"},
		Dir:   t.TempDir(),
		Image: "alpine:latest",
	})
	if err == nil {
		t.Fatalf("expected wait error, got result %+v", res)
	}
}

func TestDockerRequiresImage(t *testing.T) {
	_, err := launcher.Docker{}.Run(context.Background(), &launcher.Spec{
		Argv: []string{"true"},
		Dir:  t.TempDir(),
	})
	if err == nil {
		t.Error("expected error without image")
	}
}
