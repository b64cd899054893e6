package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bobmcallan/volc-mcp/internal/adapters"
	"github.com/bobmcallan/volc-mcp/internal/common"
	"github.com/bobmcallan/volc-mcp/internal/config"
	"github.com/bobmcallan/volc-mcp/internal/server"
	"github.com/bobmcallan/volc-mcp/internal/tools"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	transport   = flag.String("transport", "", "Transport: stdio, sse or streamable-http (overrides config)")
	transportT  = flag.String("t", "", "Transport (shorthand)")
	services    = flag.String("services", "", "Comma-separated adapters to enable (default all)")
	serverHost  = flag.String("host", "", "HTTP listen host (overrides config)")
	serverPort  = flag.Int("port", 0, "HTTP listen port (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	common.LoadBuildInfo()

	if *showVersion {
		fmt.Printf("volc-mcp version %s\n", common.Info())
		os.Exit(0)
	}

	// Shorthand takes precedence
	finalTransport := *transport
	if *transportT != "" {
		finalTransport = *transportT
	}

	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	// Unconfigured -> Configured
	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	config.ApplyFlagOverrides(cfg, config.FlagOverrides{
		Transport: finalTransport,
		Host:      *serverHost,
		Port:      *serverPort,
		Services:  *services,
	})

	if err := cfg.Validate(); err != nil {
		printConfigErrors(err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging, common.ConsoleOutput(cfg.Server.Transport == config.TransportStdio))
	logger.Info().
		Str("state", "configured").
		Str("transport", cfg.Server.Transport).
		Str("region", cfg.Credentials.Region).
		Str("config_files", configFiles.String()).
		Msg("configuration loaded")

	// Configured -> Registered
	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to register tools")
		os.Exit(1)
	}
	logger.Info().
		Str("state", "registered").
		Int("tools", registry.Len()).
		Msg("tool registry ready")

	// Registered -> Serving
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, registry, logger)
	logger.Info().Str("state", "serving").Str("version", common.Info().Version).Msg("server starting")

	if err := srv.Serve(ctx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server failed")
		stop()
		os.Exit(1)
	}

	logger.Info().Msg("server stopped")
}

// buildRegistry creates the enabled adapters and the tool registry.
func buildRegistry(cfg *config.Config, logger *common.Logger) (*tools.Registry, error) {
	selected, err := adapters.Select(cfg.Server.Enabled)
	if err != nil {
		return nil, err
	}

	built, err := adapters.Build(cfg, logger, selected)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(selected))
	for i, a := range selected {
		names[i] = a.Name
	}

	return tools.NewRegistry(logger, append(built, tools.VersionTool(names))...)
}

// printConfigErrors lists every configuration problem on stderr.
func printConfigErrors(err error) {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Configuration error: mandatory settings are missing or invalid:")
	fmt.Fprintln(os.Stderr, "")
	for _, issue := range configIssues(err) {
		fmt.Fprintf(os.Stderr, "  - %s\n", issue)
	}
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Values can be set via TOML file, VOLCENGINE_* / VOLC_MCP_* environment variables, or CLI flags.")
	fmt.Fprintln(os.Stderr, "")
}

// configIssues flattens a joined validation error.
func configIssues(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

// configSearchPaths returns candidate config file paths, binary-relative first.
func configSearchPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "volc-mcp.toml"))
	}
	return append(paths, "volc-mcp.toml", filepath.Join("config", "volc-mcp.toml"))
}
