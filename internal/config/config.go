// Package config loads volc-mcp settings from defaults, TOML files, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/volc-mcp/internal/common"
)

// Environment variable names.
const (
	EnvAccessKey    = "VOLCENGINE_ACCESS_KEY"
	EnvSecretKey    = "VOLCENGINE_SECRET_KEY"
	EnvSessionToken = "VOLCENGINE_SESSION_TOKEN"
	EnvRegion       = "VOLCENGINE_REGION"
	EnvEndpoint     = "VOLCENGINE_ENDPOINT"
	EnvKBAPIKey     = "VOLCENGINE_KB_API_KEY"

	EnvServices  = "VOLC_MCP_SERVICES"
	EnvTransport = "VOLC_MCP_TRANSPORT"
	EnvHost      = "VOLC_MCP_HOST"
	EnvPort      = "VOLC_MCP_PORT"
	EnvLogLevel  = "VOLC_MCP_LOG_LEVEL"
)

// Transports accepted by the server.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig             `toml:"server"`
	Credentials CredentialsConfig        `toml:"credentials"`
	HTTP        HTTPConfig               `toml:"http"`
	Services    map[string]ServiceConfig `toml:"services"`
	Logging     common.LoggingConfig     `toml:"logging"`

	// envIssues holds environment values that could not be parsed, keyed by
	// variable name. Validate reports them.
	envIssues map[string]*InvalidSettingError
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name      string   `toml:"name"`
	Transport string   `toml:"transport"`
	Host      string   `toml:"host"`
	Port      int      `toml:"port"`
	Enabled   []string `toml:"enabled"` // adapters to register; empty means all
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CredentialsConfig holds the Volcengine access key pair.
type CredentialsConfig struct {
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	SessionToken string `toml:"session_token"`
	Region       string `toml:"region"`
	Endpoint     string `toml:"endpoint"` // host override applied to every service
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	ConnectTimeout string  `toml:"connect_timeout"`
	ReadTimeout    string  `toml:"read_timeout"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second per service, 0 disables
}

// GetConnectTimeout parses and returns the connect timeout.
func (c *HTTPConfig) GetConnectTimeout() time.Duration {
	return parseDuration(c.ConnectTimeout, 5*time.Second)
}

// GetReadTimeout parses and returns the read timeout.
func (c *HTTPConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ServiceConfig holds per-adapter overrides.
type ServiceConfig struct {
	Endpoint  string  `toml:"endpoint"`
	Region    string  `toml:"region"`
	APIKey    string  `toml:"api_key"`
	RateLimit float64 `toml:"rate_limit"`
}

// Service returns the explicit settings for the named adapter: the file
// section merged with VOLCENGINE_<NAME>_ENDPOINT, _REGION and _API_KEY.
// Endpoint and Region stay empty when not overridden so the adapter can
// choose between its own defaults and the global credentials settings.
func (c *Config) Service(name string) ServiceConfig {
	sc := c.Services[name]
	prefix := "VOLCENGINE_" + strings.ToUpper(name) + "_"
	if v := os.Getenv(prefix + "ENDPOINT"); v != "" {
		sc.Endpoint = v
	}
	if v := os.Getenv(prefix + "REGION"); v != "" {
		sc.Region = v
	}
	if v := os.Getenv(prefix + "API_KEY"); v != "" {
		sc.APIKey = v
	}
	if sc.RateLimit == 0 {
		sc.RateLimit = c.HTTP.RateLimit
	}
	return sc
}

// LoadFromFiles loads configuration with priority:
// defaults -> file1 -> file2 -> ... -> env.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies VOLCENGINE_* and VOLC_MCP_* overrides to config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv(EnvAccessKey); v != "" {
		config.Credentials.AccessKey = v
	}
	if v := os.Getenv(EnvSecretKey); v != "" {
		config.Credentials.SecretKey = v
	}
	if v := os.Getenv(EnvSessionToken); v != "" {
		config.Credentials.SessionToken = v
	}
	if v := os.Getenv(EnvRegion); v != "" {
		config.Credentials.Region = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		config.Credentials.Endpoint = v
	}
	if v := os.Getenv(EnvKBAPIKey); v != "" {
		if config.Services == nil {
			config.Services = map[string]ServiceConfig{}
		}
		kb := config.Services["knowledgebase"]
		kb.APIKey = v
		config.Services["knowledgebase"] = kb
	}
	if v := os.Getenv(EnvServices); v != "" {
		config.Server.Enabled = splitList(v)
	}
	if v := os.Getenv(EnvTransport); v != "" {
		config.Server.Transport = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Server.Port = p
		} else {
			config.envIssue(&InvalidSettingError{Name: EnvPort, Value: v, Reason: "must be an integer"})
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
}

func (c *Config) envIssue(e *InvalidSettingError) {
	if c.envIssues == nil {
		c.envIssues = map[string]*InvalidSettingError{}
	}
	c.envIssues[e.Name] = e
}

// FlagOverrides carries command-line values. Zero values leave config untouched.
type FlagOverrides struct {
	Transport string
	Host      string
	Port      int
	Services  string
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, f FlagOverrides) {
	if f.Transport != "" {
		config.Server.Transport = f.Transport
	}
	if f.Host != "" {
		config.Server.Host = f.Host
	}
	if f.Port > 0 {
		config.Server.Port = f.Port
		delete(config.envIssues, EnvPort)
	}
	if f.Services != "" {
		config.Server.Enabled = splitList(f.Services)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MissingSettingsError reports every required setting that has no value.
type MissingSettingsError struct {
	Names []string
}

func (e *MissingSettingsError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Names, ", "))
}

// InvalidSettingError reports a setting whose value cannot be used.
type InvalidSettingError struct {
	Name   string
	Value  string
	Reason string
}

func (e *InvalidSettingError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%q: %s", e.Name, e.Value, e.Reason)
}

// Validate checks the loaded configuration before any client is built.
// All problems are reported together.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.AccessKey == "" {
		missing = append(missing, EnvAccessKey)
	}
	if c.Credentials.SecretKey == "" {
		missing = append(missing, EnvSecretKey)
	}
	if c.Credentials.Region == "" {
		missing = append(missing, EnvRegion)
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, &MissingSettingsError{Names: missing})
	}

	envNames := make([]string, 0, len(c.envIssues))
	for name := range c.envIssues {
		envNames = append(envNames, name)
	}
	sort.Strings(envNames)
	for _, name := range envNames {
		errs = append(errs, c.envIssues[name])
	}

	switch c.Server.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		errs = append(errs, &InvalidSettingError{
			Name:   EnvTransport,
			Value:  c.Server.Transport,
			Reason: "must be one of stdio, sse, streamable-http",
		})
	}
	if c.Server.Transport != TransportStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, &InvalidSettingError{
			Name:   EnvPort,
			Value:  strconv.Itoa(c.Server.Port),
			Reason: "must be between 1 and 65535",
		})
	}
	for _, d := range []struct{ name, value string }{
		{"http.connect_timeout", c.HTTP.ConnectTimeout},
		{"http.read_timeout", c.HTTP.ReadTimeout},
	} {
		if d.value == "" {
			continue
		}
		if v, err := time.ParseDuration(d.value); err != nil || v <= 0 {
			errs = append(errs, &InvalidSettingError{Name: d.name, Value: d.value, Reason: "must be a positive duration"})
		}
	}
	if c.HTTP.RateLimit < 0 {
		errs = append(errs, &InvalidSettingError{
			Name:   "http.rate_limit",
			Value:  strconv.FormatFloat(c.HTTP.RateLimit, 'f', -1, 64),
			Reason: "must not be negative",
		})
	}

	return errors.Join(errs...)
}
