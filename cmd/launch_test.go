package cmd

import (
	"testing"

	"github.com/tsadkit/tsadrun/internal/config"
	"github.com/tsadkit/tsadrun/internal/experiment"
)

func TestFilterExperiments(t *testing.T) {
	experiments := []config.Experiment{
		{Name: "smd", Dataset: "SMD"},
		{Name: "msl", Dataset: "MSL"},
		{Name: "swat", Dataset: "SWAT"},
	}

	tests := []struct {
		name   string
		filter string
		want   int
	}{
		{"empty filter returns all", "", 3},
		{"exact match", "msl", 1},
		{"no match", "psm", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterExperiments(experiments, tt.filter)
			if len(got) != tt.want {
				t.Errorf("filterExperiments(%q) returned %d, want %d", tt.filter, len(got), tt.want)
			}
		})
	}
}

func TestResolveAllAppliesOverrides(t *testing.T) {
	experiments := []config.Experiment{
		{Name: "smd", Dataset: "SMD"},
		{Name: "msl", Dataset: "MSL"},
	}
	params, err := resolveAll(experiments, experiment.Params{DModel: 256, BatchSize: 16})
	if err != nil {
		t.Fatalf("resolveAll: %v", err)
	}
	for name, p := range params {
		if p.DModel != 256 {
			t.Errorf("%s: d_model = %d, want 256", name, p.DModel)
		}
		if p.BatchSize != 16 {
			t.Errorf("%s: batch_size = %d, want 16", name, p.BatchSize)
		}
	}
	// dataset-specific fields stay preset-specific
	if params["smd"].EncIn != 38 || params["msl"].EncIn != 55 {
		t.Errorf("presets clobbered: smd=%d msl=%d", params["smd"].EncIn, params["msl"].EncIn)
	}
}

func TestResolveAllRejectsBrokenExperiment(t *testing.T) {
	experiments := []config.Experiment{
		{Name: "bad", Dataset: "NOSUCH"},
	}
	if _, err := resolveAll(experiments, experiment.Params{}); err == nil {
		t.Error("expected error for unknown dataset")
	}
}
