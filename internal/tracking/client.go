package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/databricks/databricks-sdk-go"
	"github.com/databricks/databricks-sdk-go/service/ml"
)

// Client logs launches to an MLflow tracking server. All methods are
// best-effort from the launcher's point of view: callers treat failures as
// warnings, never as launch failures.
type Client struct {
	client *databricks.WorkspaceClient
	config Config
}

func NewClient(cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("tracking URI is not configured")
	}
	if cfg.ExperimentID == "" {
		return nil, fmt.Errorf("tracking experiment ID is required (config or MLFLOW_EXPERIMENT_ID)")
	}

	var sdkConfig *databricks.Config
	if cfg.IsDatabricks() {
		sdkConfig = &databricks.Config{}
		switch {
		case cfg.URI == "databricks":
			if cfg.DatabricksHost != "" {
				sdkConfig.Host = cfg.DatabricksHost
			}
		case cfg.Profile() != "":
			sdkConfig.Profile = cfg.Profile()
		default:
			sdkConfig.Host = cfg.URI
		}
		if cfg.DatabricksToken != "" {
			sdkConfig.Token = cfg.DatabricksToken
		}
		if sdkConfig.Host == "" && sdkConfig.Profile == "" {
			return nil, fmt.Errorf("databricks host or profile required: set DATABRICKS_HOST, use a full URL, or databricks://{profile}")
		}
	} else {
		// Plain MLflow server; the SDK insists on a token even though the
		// server ignores it.
		sdkConfig = &databricks.Config{
			Host:  cfg.URI,
			Token: "unused-for-plain-mlflow",
		}
	}

	wc, err := databricks.NewWorkspaceClient(sdkConfig)
	if err != nil {
		return nil, fmt.Errorf("creating tracking client: %w", err)
	}
	return &Client{client: wc, config: cfg}, nil
}

// StartRun creates a tracking run for a launch and logs the full entry
// point configuration as params.
func (c *Client) StartRun(ctx context.Context, name string, params map[string]string) (string, error) {
	runName := name + "-" + time.Now().Format("2006-01-02-15-04-05")
	resp, err := c.client.Experiments.CreateRun(ctx, ml.CreateRun{
		ExperimentId: c.config.ExperimentID,
		RunName:      runName,
		StartTime:    time.Now().UnixMilli(),
		Tags: []ml.RunTag{
			{Key: "mlflow.runName", Value: runName},
			{Key: "tsadrun.experiment", Value: name},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating tracking run: %w", err)
	}
	runID := resp.Run.Info.RunId

	for key, value := range params {
		err := c.client.Experiments.LogParam(ctx, ml.LogParam{
			RunId: runID,
			Key:   key,
			Value: value,
		})
		if err != nil {
			return runID, fmt.Errorf("logging param %s: %w", key, err)
		}
	}
	return runID, nil
}

// FinishRun logs the launch outcome and closes the tracking run.
func (c *Client) FinishRun(ctx context.Context, runID string, exitCode int, duration time.Duration) error {
	now := time.Now().UnixMilli()
	metrics := map[string]float64{
		"duration_s": duration.Seconds(),
		"exit_code":  float64(exitCode),
	}
	for key, value := range metrics {
		err := c.client.Experiments.LogMetric(ctx, ml.LogMetric{
			RunId:     runID,
			Key:       key,
			Value:     value,
			Timestamp: now,
		})
		if err != nil {
			return fmt.Errorf("logging metric %s: %w", key, err)
		}
	}

	status := ml.UpdateRunStatusFinished
	if exitCode != 0 {
		status = ml.UpdateRunStatusFailed
	}
	_, err := c.client.Experiments.UpdateRun(ctx, ml.UpdateRun{
		RunId:   runID,
		Status:  status,
		EndTime: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("closing tracking run: %w", err)
	}
	return nil
}
