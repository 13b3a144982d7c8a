package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/mount"
	"github.com/moby/moby/client"
)

// Docker runs the entry point inside a container image with the working
// tree bind-mounted at /workspace. The exit code maps through unchanged;
// a configured timeout reports as 124.
type Docker struct{}

func (Docker) Run(ctx context.Context, spec *Spec) (*Result, error) {
	if spec.Image == "" {
		return nil, fmt.Errorf("docker backend requires an image")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	defer cli.Close()

	envSlice := make([]string, 0, len(spec.Env))
	for k, v := range spec.Env {
		envSlice = append(envSlice, k+"="+v)
	}

	hostCfg := &container.HostConfig{
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: spec.Dir,
				Target: "/workspace",
			},
		},
	}

	containerCfg := &container.Config{
		Image:      spec.Image,
		Cmd:        spec.Argv,
		Env:        envSlice,
		WorkingDir: "/workspace",
		Labels:     map[string]string{"tsadrun": "true"},
	}

	createResp, err := cli.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config:     containerCfg,
		HostConfig: hostCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}
	containerID := createResp.ID
	defer func() {
		cli.ContainerRemove(context.Background(), containerID, client.ContainerRemoveOptions{Force: true})
	}()

	start := time.Now()
	if _, err := cli.ContainerStart(ctx, containerID, client.ContainerStartOptions{}); err != nil {
		return nil, fmt.Errorf("starting container: %w", err)
	}

	waitCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	waitResult := cli.ContainerWait(waitCtx, containerID, client.ContainerWaitOptions{
		Condition: container.WaitConditionNotRunning,
	})
	for {
		select {
		case err := <-waitResult.Error:
			if err != nil {
				cli.ContainerKill(context.Background(), containerID, client.ContainerKillOptions{Signal: "SIGKILL"})
				captureLogs(cli, containerID, spec.LogPath)
				if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
					return &Result{
						ExitCode: 124,
						TimedOut: true,
						Duration: time.Since(start),
					}, nil
				}
				return nil, fmt.Errorf("waiting for container: %w", err)
			}
			// nil means nothing on this channel yet; keep waiting
		case status := <-waitResult.Result:
			captureLogs(cli, containerID, spec.LogPath)
			return &Result{
				ExitCode: int(status.StatusCode),
				Duration: time.Since(start),
			}, nil
		}
	}
}

// captureLogs copies the container's combined output to the run log and to
// the launcher's stderr so docker runs read like local ones.
func captureLogs(cli *client.Client, containerID, logPath string) {
	logReader, err := cli.ContainerLogs(context.Background(), containerID, client.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil || logReader == nil {
		return
	}
	defer logReader.Close()
	logData, err := io.ReadAll(logReader)
	if err != nil || len(logData) == 0 {
		return
	}
	if logPath != "" {
		os.WriteFile(logPath, logData, 0o644)
	}
	fmt.Fprintf(os.Stderr, "%s", logData)
}
