package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsadkit/tsadrun/internal/config"
	"github.com/tsadkit/tsadrun/internal/experiment"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured experiments and known datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return err
			}
			fmt.Println("Experiments:")
			for _, e := range cfg.Experiments {
				p, err := e.Resolve()
				if err != nil {
					return err
				}
				fmt.Printf("  - %s (model: %s, data: %s, channels: %d)\n",
					e.Name, p.Model, p.Data, p.EncIn)
			}
			fmt.Printf("\nDatasets: %s\n", strings.Join(experiment.Presets(), ", "))
			return nil
		},
	}
}
