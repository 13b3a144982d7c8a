package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tsadkit/tsadrun/internal/experiment"
	"github.com/tsadkit/tsadrun/internal/launcher"
	"github.com/tsadkit/tsadrun/internal/result"
	"github.com/tsadkit/tsadrun/internal/tracking"
)

type LaunchOpts struct {
	Experiment  string
	Params      *experiment.Params
	Iter        int
	Entrypoint  []string
	Workdir     string
	Image       string
	BackendName string
	Backend     launcher.Backend
	RunDir      string
	Timeout     time.Duration
	Tracker     *tracking.Client // nil when tracking is disabled
}

// BuildCommand assembles the full command line for one launch: the
// configured entry point followed by the entry point's flags.
func BuildCommand(entrypoint []string, p *experiment.Params) []string {
	argv := make([]string, 0, len(entrypoint)+len(p.Args()))
	argv = append(argv, entrypoint...)
	return append(argv, p.Args()...)
}

// Launch runs the entry point once, synchronously, and records the outcome.
// The entry point's exit status is data here, not an error; only failures of
// the harness itself (unstartable process, unwritable results) error out.
func Launch(ctx context.Context, opts *LaunchOpts) (*result.RunMeta, error) {
	launchDir := result.LaunchDir(opts.RunDir, opts.Experiment, opts.Iter)
	if err := os.MkdirAll(launchDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating launch dir: %w", err)
	}

	argv := BuildCommand(opts.Entrypoint, opts.Params)

	var trackingRunID string
	if opts.Tracker != nil {
		runID, err := opts.Tracker.StartRun(ctx, opts.Experiment, opts.Params.FlagMap())
		if err != nil {
			log.Printf("warning: tracking start failed for %s iter %d: %v", opts.Experiment, opts.Iter, err)
		}
		trackingRunID = runID
	}

	started := time.Now()
	res, err := opts.Backend.Run(ctx, &launcher.Spec{
		Argv:    argv,
		Dir:     opts.Workdir,
		LogPath: filepath.Join(launchDir, "train.log"),
		Image:   opts.Image,
		Timeout: opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("launching entry point: %w", err)
	}

	if opts.Tracker != nil && trackingRunID != "" {
		if err := opts.Tracker.FinishRun(ctx, trackingRunID, res.ExitCode, res.Duration); err != nil {
			log.Printf("warning: tracking finish failed for %s iter %d: %v", opts.Experiment, opts.Iter, err)
		}
	}

	meta := &result.RunMeta{
		Experiment:    opts.Experiment,
		Model:         opts.Params.Model,
		Data:          opts.Params.Data,
		Iter:          opts.Iter,
		Command:       argv,
		Backend:       opts.BackendName,
		StartedAt:     started.UTC(),
		DurationS:     int(res.Duration.Seconds()),
		ExitCode:      res.ExitCode,
		ExitReason:    launcher.ExitReason(res.ExitCode, res.TimedOut),
		TrackingRunID: trackingRunID,
	}
	if err := result.WriteRunMeta(launchDir, meta); err != nil {
		return nil, fmt.Errorf("writing meta: %w", err)
	}
	return meta, nil
}
