package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsadkit/tsadrun/internal/config"
	"github.com/tsadkit/tsadrun/internal/experiment"
	"github.com/tsadkit/tsadrun/internal/launcher"
	"github.com/tsadkit/tsadrun/internal/report"
	"github.com/tsadkit/tsadrun/internal/result"
	"github.com/tsadkit/tsadrun/internal/runner"
	"github.com/tsadkit/tsadrun/internal/tracking"
)

var (
	flagExperiment string
	flagBackend    string
	flagRepeat     int
	flagParallel   int
	flagDryRun     bool
	flagModel      string
	flagDModel     int
	flagDFF        int
	flagNHeads     int
	flagELayers    int
	flagBatchSize  int
)

func newLaunchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch training runs",
		Long: `Build the training entry point's command line from the configured
experiments and invoke it synchronously. A single launch exits with the
entry point's own exit code.`,
		RunE: runLaunch,
	}
	cmd.Flags().StringVarP(&flagExperiment, "experiment", "e", "", "launch a single experiment by name")
	cmd.Flags().StringVar(&flagBackend, "backend", "local", "execution backend (local, docker)")
	cmd.Flags().IntVar(&flagRepeat, "repeat", 1, "number of launches per experiment")
	cmd.Flags().IntVar(&flagParallel, "parallel", 1, "max concurrent launches")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the command line without launching")
	cmd.Flags().StringVar(&flagModel, "model", "", "override model variant")
	cmd.Flags().IntVar(&flagDModel, "d-model", 0, "override model width")
	cmd.Flags().IntVar(&flagDFF, "d-ff", 0, "override feed-forward width")
	cmd.Flags().IntVar(&flagNHeads, "n-heads", 0, "override attention head count")
	cmd.Flags().IntVar(&flagELayers, "e-layers", 0, "override encoder layer count")
	cmd.Flags().IntVar(&flagBatchSize, "batch-size", 0, "override batch size")
	return cmd
}

func overrideFromFlags() experiment.Params {
	return experiment.Params{
		Model:     flagModel,
		DModel:    flagDModel,
		DFF:       flagDFF,
		NHeads:    flagNHeads,
		ELayers:   flagELayers,
		BatchSize: flagBatchSize,
	}
}

func filterExperiments(experiments []config.Experiment, name string) []config.Experiment {
	if name == "" {
		return experiments
	}
	var filtered []config.Experiment
	for _, e := range experiments {
		if e.Name == name {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// resolveAll resolves every selected experiment, applying flag overrides last.
func resolveAll(experiments []config.Experiment, override experiment.Params) (map[string]experiment.Params, error) {
	params := make(map[string]experiment.Params, len(experiments))
	for _, e := range experiments {
		p, err := e.Resolve()
		if err != nil {
			return nil, err
		}
		params[e.Name] = experiment.Resolve(p, override)
	}
	return params, nil
}

func runLaunch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	if flagRepeat < 1 {
		return fmt.Errorf("repeat must be at least 1")
	}

	experiments := filterExperiments(cfg.Experiments, flagExperiment)
	if len(experiments) == 0 {
		return fmt.Errorf("no experiment named %q", flagExperiment)
	}

	params, err := resolveAll(experiments, overrideFromFlags())
	if err != nil {
		return err
	}

	if flagDryRun {
		for _, e := range experiments {
			p := params[e.Name]
			fmt.Println(strings.Join(runner.BuildCommand(cfg.Entrypoint, &p), " "))
		}
		return nil
	}

	backend, err := launcher.New(flagBackend)
	if err != nil {
		return err
	}

	tracker := newTracker(cfg)

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("Run directory: %s\n", runDir)

	ctx := context.Background()

	// The common case is one experiment, launched once: stay fully
	// synchronous and pass the entry point's exit code through.
	if len(experiments) == 1 && flagRepeat == 1 {
		e := experiments[0]
		meta, err := launchOne(ctx, cfg, backend, tracker, &e, params[e.Name], 1, runDir)
		if err != nil {
			return err
		}
		if meta.ExitCode != 0 {
			return &launcher.ExitError{Code: meta.ExitCode}
		}
		return nil
	}

	var failed atomic.Int32
	var launches []func() error
	for _, e := range experiments {
		for iter := 1; iter <= flagRepeat; iter++ {
			e, iter := e, iter
			launches = append(launches, func() error {
				meta, err := launchOne(ctx, cfg, backend, tracker, &e, params[e.Name], iter, runDir)
				if err != nil {
					return err
				}
				if meta.ExitCode != 0 {
					failed.Add(1)
				}
				return nil
			})
		}
	}
	errs := runner.LaunchAll(flagParallel, launches)
	for _, err := range errs {
		fmt.Printf("  ERROR: %v\n", err)
	}

	fmt.Println("\n--- Results ---")
	if err := report.Generate(runDir, "table", os.Stdout); err != nil {
		return err
	}
	if n := int(failed.Load()) + len(errs); n > 0 {
		return fmt.Errorf("%d of %d launches failed", n, len(launches))
	}
	return nil
}

func launchOne(ctx context.Context, cfg *config.Config, backend launcher.Backend, tracker *tracking.Client, e *config.Experiment, p experiment.Params, iter int, runDir string) (*result.RunMeta, error) {
	fmt.Printf("Launching %s (iter %d/%d)...\n", e.Name, iter, flagRepeat)
	meta, err := runner.Launch(ctx, &runner.LaunchOpts{
		Experiment:  e.Name,
		Params:      &p,
		Iter:        iter,
		Entrypoint:  cfg.Entrypoint,
		Workdir:     cfg.Workdir,
		Image:       cfg.Docker.Image,
		BackendName: flagBackend,
		Backend:     backend,
		RunDir:      runDir,
		Timeout:     time.Duration(e.TimeLimitMinutes) * time.Minute,
		Tracker:     tracker,
	})
	if err != nil {
		return nil, err
	}
	fmt.Printf("  %s (duration: %ds)\n", meta.ExitReason, meta.DurationS)
	return meta, nil
}

// newTracker builds the tracking client when a URI is configured. Tracking
// problems never block a launch.
func newTracker(cfg *config.Config) *tracking.Client {
	tcfg := tracking.FromEnv(tracking.Config{
		URI:          cfg.Tracking.URI,
		ExperimentID: cfg.Tracking.ExperimentID,
	})
	if !tcfg.Enabled() {
		return nil
	}
	tracker, err := tracking.NewClient(tcfg)
	if err != nil {
		log.Printf("warning: tracking disabled: %v", err)
		return nil
	}
	return tracker
}
