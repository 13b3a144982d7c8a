package tracking

import (
	"strings"

	"github.com/spf13/viper"
)

// Databricks domain suffixes for URI detection
var databricksDomains = []string{
	".cloud.databricks.com",
	".azuredatabricks.net",
	".gcp.databricks.com",
}

type Config struct {
	URI             string
	ExperimentID    string
	DatabricksHost  string
	DatabricksToken string
}

// FromEnv builds a tracking config from the bound environment keys,
// on top of whatever the config file set.
func FromEnv(base Config) Config {
	cfg := base
	if v := viper.GetString("tracking_uri"); v != "" {
		cfg.URI = v
	}
	if v := viper.GetString("experiment_id"); v != "" {
		cfg.ExperimentID = v
	}
	cfg.DatabricksHost = viper.GetString("databricks_host")
	cfg.DatabricksToken = viper.GetString("databricks_token")
	return cfg
}

// Enabled reports whether tracking should happen at all.
func (c *Config) Enabled() bool {
	return c.URI != ""
}

// IsDatabricks checks if the tracking URI points to Databricks-hosted MLflow.
func (c *Config) IsDatabricks() bool {
	if c.URI == "databricks" {
		return true
	}
	if strings.HasPrefix(c.URI, "databricks://") {
		return true
	}
	if strings.HasPrefix(c.URI, "https://") {
		host := strings.TrimPrefix(c.URI, "https://")
		if idx := strings.Index(host, "/"); idx != -1 {
			host = host[:idx]
		}
		for _, domain := range databricksDomains {
			if strings.HasSuffix(host, domain) {
				return true
			}
		}
	}
	return false
}

// Profile extracts the profile name from a databricks://{profile} URI.
func (c *Config) Profile() string {
	if !strings.HasPrefix(c.URI, "databricks://") {
		return ""
	}
	profile := strings.TrimPrefix(c.URI, "databricks://")
	if idx := strings.Index(profile, "/"); idx != -1 {
		profile = profile[:idx]
	}
	return profile
}
