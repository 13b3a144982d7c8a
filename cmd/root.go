package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	cobra.OnInitialize(initEnv)
	root := &cobra.Command{
		Use:           "tsadrun",
		Short:         "Launcher for anomaly-detection training runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "tsadrun.yaml", "config file path")
	root.AddCommand(newLaunchCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newValidateCmd())
	return root
}

// initEnv binds environment overrides. TSADRUN_* covers launcher settings;
// the MLflow and Databricks names match what the tracking ecosystem expects.
func initEnv() {
	viper.SetEnvPrefix("TSADRUN")
	viper.AutomaticEnv()
	viper.BindEnv("tracking_uri", "MLFLOW_TRACKING_URI")
	viper.BindEnv("experiment_id", "MLFLOW_EXPERIMENT_ID")
	viper.BindEnv("databricks_host", "DATABRICKS_HOST")
	viper.BindEnv("databricks_token", "DATABRICKS_TOKEN")
}
