package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsadkit/tsadrun/internal/experiment"
)

type Config struct {
	Entrypoint  []string     `yaml:"entrypoint"`
	Workdir     string       `yaml:"workdir"`
	Results     Results      `yaml:"results"`
	Docker      Docker       `yaml:"docker"`
	Tracking    Tracking     `yaml:"tracking"`
	Experiments []Experiment `yaml:"experiments"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

type Docker struct {
	Image string `yaml:"image"`
}

type Tracking struct {
	URI          string `yaml:"uri"`
	ExperimentID string `yaml:"experiment_id"`
}

// Experiment is one configured invocation of the training entry point:
// a dataset preset plus any overridden entry point params.
type Experiment struct {
	Name             string            `yaml:"name"`
	Dataset          string            `yaml:"dataset"`
	TimeLimitMinutes int               `yaml:"time_limit_minutes"`
	Params           experiment.Params `yaml:",inline"`
}

// Resolve merges the experiment's overrides onto its dataset preset and
// fills defaults.
func (e *Experiment) Resolve() (experiment.Params, error) {
	var base experiment.Params
	if e.Dataset != "" {
		p, ok := experiment.Preset(strings.ToUpper(e.Dataset))
		if !ok {
			return experiment.Params{}, fmt.Errorf("experiment %q: unknown dataset %q (known: %s)",
				e.Name, e.Dataset, strings.Join(experiment.Presets(), ", "))
		}
		base = p
	}
	p := experiment.Resolve(base, e.Params)
	if err := p.Validate(); err != nil {
		return experiment.Params{}, fmt.Errorf("experiment %q: %w", e.Name, err)
	}
	return p, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads the config file; if it does not exist, falls back to
// the built-in config (the five dataset presets, stock entry point).
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default is the zero-file configuration: one experiment per known dataset,
// all params from presets and defaults.
func Default() *Config {
	cfg := &Config{}
	for _, name := range experiment.Presets() {
		cfg.Experiments = append(cfg.Experiments, Experiment{
			Name:    strings.ToLower(name),
			Dataset: name,
		})
	}
	_ = validate(cfg)
	return cfg
}

func validate(cfg *Config) error {
	if len(cfg.Entrypoint) == 0 {
		cfg.Entrypoint = []string{"python", "-u", "run.py"}
	}
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "./results"
	}
	if len(cfg.Experiments) == 0 {
		return fmt.Errorf("no experiments defined")
	}
	seen := make(map[string]bool)
	for i := range cfg.Experiments {
		e := &cfg.Experiments[i]
		if e.Name == "" {
			return fmt.Errorf("experiment %d: name is required", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate experiment name %q", e.Name)
		}
		seen[e.Name] = true
		if e.TimeLimitMinutes < 0 {
			return fmt.Errorf("experiment %q: time_limit_minutes must not be negative", e.Name)
		}
		if _, err := e.Resolve(); err != nil {
			return err
		}
	}
	return nil
}
