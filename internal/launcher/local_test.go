package launcher_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tsadkit/tsadrun/internal/launcher"
)

func TestLocalExitCodePropagation(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"success", []string{"sh", "-c", "exit 0"}, 0},
		{"failure", []string{"sh", "-c", "exit 1"}, 1},
		{"command not found", []string{"sh", "-c", "exit 127"}, 127},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := launcher.Local{}.Run(context.Background(), &launcher.Spec{Argv: tt.argv})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.ExitCode != tt.want {
				t.Errorf("exit code: got %d, want %d", res.ExitCode, tt.want)
			}
			if res.TimedOut {
				t.Error("unexpected timeout")
			}
		})
	}
}

func TestLocalStartFailure(t *testing.T) {
	_, err := launcher.Local{}.Run(context.Background(), &launcher.Spec{
		Argv: []string{"/nonexistent/entry-point"},
	})
	if err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestLocalEmptyCommand(t *testing.T) {
	_, err := launcher.Local{}.Run(context.Background(), &launcher.Spec{})
	if err == nil {
		t.Error("expected error for empty command")
	}
}

func TestLocalTimeout(t *testing.T) {
	res, err := launcher.Local{}.Run(context.Background(), &launcher.Spec{
		Argv:    []string{"sleep", "30"},
		Timeout: 100 * time.Millisecond,
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

func TestLocalLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "train.log")
	res, err := launcher.Local{}.Run(context.Background(), &launcher.Spec{
		Argv:    []string{"sh", "-c", "echo training output"},
		LogPath: logPath,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code: got %d, want 0", res.ExitCode)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "training output") {
		t.Errorf("log missing output: %q", data)
	}
}

func TestLocalWorkdirAndEnv(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "out.log")
	res, err := launcher.Local{}.Run(context.Background(), &launcher.Spec{
		Argv:    []string{"sh", "-c", "pwd; echo $TSADRUN_TEST_VAR"},
		Dir:     dir,
		Env:     map[string]string{"TSADRUN_TEST_VAR": "hello"},
		LogPath: logPath,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code: got %d", res.ExitCode)
	}
	data, _ := os.ReadFile(logPath)
	out := string(data)
	if !strings.Contains(out, "hello") {
		t.Errorf("env var not passed through: %q", out)
	}
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{"local", false},
		{"docker", false},
		{"kubernetes", true},
	}
	for _, tt := range tests {
		_, err := launcher.New(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestExitReason(t *testing.T) {
	tests := []struct {
		code     int
		timedOut bool
		want     string
	}{
		{0, false, "completed"},
		{1, false, "failed"},
		{127, false, "failed"},
		{124, true, "timeout"},
	}
	for _, tt := range tests {
		got := launcher.ExitReason(tt.code, tt.timedOut)
		if got != tt.want {
			t.Errorf("ExitReason(%d, %v) = %q, want %q", tt.code, tt.timedOut, got, tt.want)
		}
	}
}
