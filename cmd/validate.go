package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsadkit/tsadrun/internal/config"
	"github.com/tsadkit/tsadrun/internal/runner"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and print resolved command lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			for _, e := range cfg.Experiments {
				p, err := e.Resolve()
				if err != nil {
					return err
				}
				fmt.Printf("%s:\n  %s\n", e.Name, strings.Join(runner.BuildCommand(cfg.Entrypoint, &p), " "))
			}
			fmt.Printf("\n%s: %d experiments OK\n", cfgFile, len(cfg.Experiments))
			return nil
		},
	}
}
