package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/tsadkit/tsadrun/internal/result"
)

type ExperimentSummary struct {
	Name         string  `json:"name"`
	Model        string  `json:"model"`
	Launches     int     `json:"launches"`
	SuccessRate  float64 `json:"success_rate"`
	MeanDuration float64 `json:"mean_duration_s"`
}

// Generate reads launch results under runDir and produces a summary report.
func Generate(runDir, format string, w io.Writer) error {
	metas, err := collectMetas(runDir)
	if err != nil {
		return err
	}

	summaries := aggregate(metas)

	switch format {
	case "markdown":
		return writeMarkdown(summaries, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(summaries, w)
	}
}

func collectMetas(runDir string) ([]*result.RunMeta, error) {
	var metas []*result.RunMeta
	err := filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Name() == "meta.json" {
			meta, err := result.ReadRunMeta(path)
			if err != nil {
				return nil
			}
			metas = append(metas, meta)
		}
		return nil
	})
	return metas, err
}

func aggregate(metas []*result.RunMeta) []ExperimentSummary {
	type accum struct {
		model     string
		count     int
		completed int
		duration  float64
	}
	byExperiment := map[string]*accum{}

	for _, m := range metas {
		a, ok := byExperiment[m.Experiment]
		if !ok {
			a = &accum{model: m.Model}
			byExperiment[m.Experiment] = a
		}
		a.count++
		a.duration += float64(m.DurationS)
		if m.ExitReason == "completed" {
			a.completed++
		}
	}

	var summaries []ExperimentSummary
	for name, a := range byExperiment {
		summaries = append(summaries, ExperimentSummary{
			Name:         name,
			Model:        a.model,
			Launches:     a.count,
			SuccessRate:  float64(a.completed) / float64(a.count),
			MeanDuration: a.duration / float64(a.count),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

func writeTable(summaries []ExperimentSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXPERIMENT\tMODEL\tLAUNCHES\tSUCCESS RATE\tMEAN DURATION")
	fmt.Fprintln(tw, strings.Repeat("-", 70))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f%%\t%.0fs\n",
			s.Name, s.Model, s.Launches, s.SuccessRate*100, s.MeanDuration)
	}
	return tw.Flush()
}

func writeMarkdown(summaries []ExperimentSummary, w io.Writer) error {
	fmt.Fprintln(w, "| Experiment | Model | Launches | Success Rate | Mean Duration |")
	fmt.Fprintln(w, "|---|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %s | %d | %.0f%% | %.0fs |\n",
			s.Name, s.Model, s.Launches, s.SuccessRate*100, s.MeanDuration)
	}
	return nil
}

func writeJSON(summaries []ExperimentSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
