package config

import "github.com/bobmcallan/volc-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "volc-mcp",
			Transport: TransportStdio,
			Host:      "0.0.0.0",
			Port:      8000,
		},
		Credentials: CredentialsConfig{
			Region: "cn-beijing",
		},
		HTTP: HTTPConfig{
			ConnectTimeout: "5s",
			ReadTimeout:    "30s",
		},
		Services: map[string]ServiceConfig{},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
