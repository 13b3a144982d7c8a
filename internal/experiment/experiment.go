package experiment

import (
	"fmt"
	"strconv"
)

// Params is the full flag surface of the training entry point for one run.
// Once resolved it is never mutated; the same Params always produce the same
// argument list.
type Params struct {
	TaskName     string  `yaml:"task_name"`
	IsTraining   *bool   `yaml:"is_training"`
	RootPath     string  `yaml:"root_path"`
	ModelID      string  `yaml:"model_id"`
	Data         string  `yaml:"data"`
	Model        string  `yaml:"model"`
	ELayers      int     `yaml:"e_layers"`
	NHeads       int     `yaml:"n_heads"`
	DModel       int     `yaml:"d_model"`
	DFF          int     `yaml:"d_ff"`
	BatchSize    int     `yaml:"batch_size"`
	Features     string  `yaml:"features"`
	SeqLen       int     `yaml:"seq_len"`
	PredLen      int     `yaml:"pred_len"`
	Factor       int     `yaml:"factor"`
	EncIn        int     `yaml:"enc_in"`
	COut         int     `yaml:"c_out"`
	AnomalyRatio float64 `yaml:"anomaly_ratio"`
	Itr          int     `yaml:"itr"`
}

// presets carry the per-dataset fields that differ across the benchmark
// suite: dataset location, loader selector, and channel counts.
var presets = map[string]Params{
	"SMD":  {RootPath: "./dataset/SMD", ModelID: "SMD", Data: "SMD", EncIn: 38, COut: 38, AnomalyRatio: 0.5},
	"MSL":  {RootPath: "./dataset/MSL", ModelID: "MSL", Data: "MSL", EncIn: 55, COut: 55, AnomalyRatio: 1},
	"SMAP": {RootPath: "./dataset/SMAP", ModelID: "SMAP", Data: "SMAP", EncIn: 25, COut: 25, AnomalyRatio: 1},
	"PSM":  {RootPath: "./dataset/PSM", ModelID: "PSM", Data: "PSM", EncIn: 25, COut: 25, AnomalyRatio: 1},
	"SWAT": {RootPath: "./dataset/SWaT", ModelID: "SWAT", Data: "SWAT", EncIn: 51, COut: 51, AnomalyRatio: 1},
}

// Preset returns the baseline Params for a known dataset.
func Preset(dataset string) (Params, bool) {
	p, ok := presets[dataset]
	return p, ok
}

// Presets lists the known dataset names.
func Presets() []string {
	return []string{"SMD", "MSL", "SMAP", "PSM", "SWAT"}
}

// Resolve merges overrides onto a baseline and fills remaining defaults.
// Zero-valued override fields leave the baseline untouched.
func Resolve(base Params, override Params) Params {
	p := base
	if override.TaskName != "" {
		p.TaskName = override.TaskName
	}
	if override.IsTraining != nil {
		p.IsTraining = override.IsTraining
	}
	if override.RootPath != "" {
		p.RootPath = override.RootPath
	}
	if override.ModelID != "" {
		p.ModelID = override.ModelID
	}
	if override.Data != "" {
		p.Data = override.Data
	}
	if override.Model != "" {
		p.Model = override.Model
	}
	if override.ELayers != 0 {
		p.ELayers = override.ELayers
	}
	if override.NHeads != 0 {
		p.NHeads = override.NHeads
	}
	if override.DModel != 0 {
		p.DModel = override.DModel
	}
	if override.DFF != 0 {
		p.DFF = override.DFF
	}
	if override.BatchSize != 0 {
		p.BatchSize = override.BatchSize
	}
	if override.Features != "" {
		p.Features = override.Features
	}
	if override.SeqLen != 0 {
		p.SeqLen = override.SeqLen
	}
	if override.PredLen != 0 {
		p.PredLen = override.PredLen
	}
	if override.Factor != 0 {
		p.Factor = override.Factor
	}
	if override.EncIn != 0 {
		p.EncIn = override.EncIn
	}
	if override.COut != 0 {
		p.COut = override.COut
	}
	if override.AnomalyRatio != 0 {
		p.AnomalyRatio = override.AnomalyRatio
	}
	if override.Itr != 0 {
		p.Itr = override.Itr
	}
	p.fillDefaults()
	return p
}

func (p *Params) fillDefaults() {
	if p.TaskName == "" {
		p.TaskName = "anomaly_detection"
	}
	if p.IsTraining == nil {
		t := true
		p.IsTraining = &t
	}
	if p.Model == "" {
		p.Model = "TimesNet_Adapter"
	}
	if p.ELayers == 0 {
		p.ELayers = 12
	}
	if p.NHeads == 0 {
		p.NHeads = 8
	}
	if p.DModel == 0 {
		p.DModel = 64
	}
	if p.DFF == 0 {
		p.DFF = 128
	}
	if p.BatchSize == 0 {
		p.BatchSize = 32
	}
	if p.Features == "" {
		p.Features = "M"
	}
	if p.SeqLen == 0 {
		p.SeqLen = 100
	}
	if p.Factor == 0 {
		p.Factor = 3
	}
	if p.AnomalyRatio == 0 {
		p.AnomalyRatio = 0.5
	}
	if p.Itr == 0 {
		p.Itr = 1
	}
}

// Validate rejects params the entry point cannot interpret at all. Anything
// beyond this is the entry point's own business.
func (p Params) Validate() error {
	if p.RootPath == "" {
		return fmt.Errorf("root_path is required")
	}
	if p.Data == "" {
		return fmt.Errorf("data is required")
	}
	if p.ModelID == "" {
		return fmt.Errorf("model_id is required")
	}
	if p.EncIn <= 0 || p.COut <= 0 {
		return fmt.Errorf("enc_in and c_out must be positive, got %d/%d", p.EncIn, p.COut)
	}
	if p.AnomalyRatio <= 0 || p.AnomalyRatio >= 100 {
		return fmt.Errorf("anomaly_ratio must be in (0, 100), got %g", p.AnomalyRatio)
	}
	return nil
}

// Args renders the entry point's argument list. Flag order is fixed; the
// entry point is invoked with exactly this sequence every time.
func (p Params) Args() []string {
	isTraining := "1"
	if p.IsTraining != nil && !*p.IsTraining {
		isTraining = "0"
	}
	return []string{
		"--task_name", p.TaskName,
		"--is_training", isTraining,
		"--root_path", p.RootPath,
		"--model_id", p.ModelID,
		"--data", p.Data,
		"--model", p.Model,
		"--e_layers", strconv.Itoa(p.ELayers),
		"--n_heads", strconv.Itoa(p.NHeads),
		"--d_model", strconv.Itoa(p.DModel),
		"--d_ff", strconv.Itoa(p.DFF),
		"--batch_size", strconv.Itoa(p.BatchSize),
		"--features", p.Features,
		"--seq_len", strconv.Itoa(p.SeqLen),
		"--pred_len", strconv.Itoa(p.PredLen),
		"--factor", strconv.Itoa(p.Factor),
		"--enc_in", strconv.Itoa(p.EncIn),
		"--c_out", strconv.Itoa(p.COut),
		"--anomaly_ratio", strconv.FormatFloat(p.AnomalyRatio, 'g', -1, 64),
		"--itr", strconv.Itoa(p.Itr),
	}
}

// FlagMap returns the argument list as a name→value map, e.g. for logging
// run params to a tracking server.
func (p Params) FlagMap() map[string]string {
	args := p.Args()
	m := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		m[args[i][2:]] = args[i+1]
	}
	return m
}
