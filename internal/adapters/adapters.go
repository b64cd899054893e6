// Package adapters wires each Volcengine service family to a signed client
// and turns its capability table into tools.
package adapters

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/volc-mcp/internal/adapters/cloudmonitor"
	"github.com/bobmcallan/volc-mcp/internal/adapters/ecs"
	"github.com/bobmcallan/volc-mcp/internal/adapters/flink"
	"github.com/bobmcallan/volc-mcp/internal/adapters/knowledgebase"
	"github.com/bobmcallan/volc-mcp/internal/adapters/rdsmysql"
	"github.com/bobmcallan/volc-mcp/internal/adapters/vmp"
	"github.com/bobmcallan/volc-mcp/internal/adapters/vod"
	"github.com/bobmcallan/volc-mcp/internal/adapters/vpc"
	"github.com/bobmcallan/volc-mcp/internal/common"
	"github.com/bobmcallan/volc-mcp/internal/config"
	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Adapter is one service family: where it lives and which tools it offers.
type Adapter struct {
	Name     string
	Endpoint volc.Endpoint
	Specs    []tools.Spec

	// Pinned adapters live on a dedicated host and region. The global
	// VOLCENGINE_ENDPOINT and VOLCENGINE_REGION do not apply to them; only
	// their per-service overrides do.
	Pinned bool

	// APIKey adapters use bearer auth when an API key is configured and
	// fall back to AK/SK signing otherwise.
	APIKey bool
}

// All returns every adapter in a stable order.
func All() []Adapter {
	return []Adapter{
		{Name: ecs.Name, Endpoint: ecs.Endpoint, Specs: ecs.Specs()},
		{Name: vpc.Name, Endpoint: vpc.Endpoint, Specs: vpc.Specs()},
		{Name: rdsmysql.Name, Endpoint: rdsmysql.Endpoint, Specs: rdsmysql.Specs()},
		{Name: cloudmonitor.Name, Endpoint: cloudmonitor.Endpoint, Specs: cloudmonitor.Specs()},
		{Name: vmp.Name, Endpoint: vmp.Endpoint, Specs: vmp.Specs()},
		{Name: vod.Name, Endpoint: vod.Endpoint, Specs: vod.Specs(), Pinned: true},
		{Name: knowledgebase.Name, Endpoint: knowledgebase.Endpoint, Specs: knowledgebase.Specs(), Pinned: true, APIKey: true},
		{Name: flink.Name, Endpoint: flink.Endpoint, Specs: flink.Specs()},
	}
}

// Names returns every adapter name.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.Name
	}
	return names
}

// Select returns the adapters named in names, or all of them when names is
// empty. Unknown names are reported together.
func Select(names []string) ([]Adapter, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Adapter, len(all))
	for _, a := range all {
		byName[a.Name] = a
	}

	var selected []Adapter
	var unknown []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if seen[n] {
			continue
		}
		seen[n] = true
		a, ok := byName[n]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		selected = append(selected, a)
	}
	if len(unknown) > 0 {
		return nil, &config.InvalidSettingError{
			Name:   config.EnvServices,
			Value:  strings.Join(unknown, ","),
			Reason: "unknown service, must be one of " + strings.Join(Names(), ", "),
		}
	}
	return selected, nil
}

// ResolveEndpoint applies configuration overrides to the adapter endpoint.
func (a Adapter) ResolveEndpoint(cfg *config.Config) volc.Endpoint {
	ep := a.Endpoint
	sc := cfg.Service(a.Name)

	switch {
	case sc.Endpoint != "":
		ep.Host = sc.Endpoint
	case !a.Pinned && cfg.Credentials.Endpoint != "":
		ep.Host = cfg.Credentials.Endpoint
	}

	switch {
	case sc.Region != "":
		ep.Region = sc.Region
	case !a.Pinned:
		ep.Region = cfg.Credentials.Region
	}
	return ep
}

// Authorizer returns the request authorizer for the adapter.
func (a Adapter) Authorizer(cfg *config.Config, ep volc.Endpoint) volc.Authorizer {
	if a.APIKey {
		if key := cfg.Service(a.Name).APIKey; key != "" {
			return volc.BearerAuth{Token: key}
		}
	}
	return &volc.Signer{
		Credentials: volc.Credentials{
			AccessKey:    cfg.Credentials.AccessKey,
			SecretKey:    cfg.Credentials.SecretKey,
			SessionToken: cfg.Credentials.SessionToken,
		},
		Service: ep.Service,
		Region:  ep.Region,
	}
}

// Build creates one client per adapter and binds its tools to it.
func Build(cfg *config.Config, logger *common.Logger, selected []Adapter) ([]tools.Tool, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	var out []tools.Tool
	for _, a := range selected {
		ep := a.ResolveEndpoint(cfg)
		client := volc.NewClient(ep, a.Authorizer(cfg, ep), volc.Options{
			ConnectTimeout: cfg.HTTP.GetConnectTimeout(),
			ReadTimeout:    cfg.HTTP.GetReadTimeout(),
			RateLimit:      cfg.Service(a.Name).RateLimit,
			Logger:         logger,
		})

		bound, err := tools.Bind(a.Specs, client)
		if err != nil {
			return nil, fmt.Errorf("adapter %s: %w", a.Name, err)
		}

		resolved := client.Endpoint()
		logger.Debug().
			Str("adapter", a.Name).
			Str("service", resolved.Service).
			Str("host", resolved.Host).
			Str("region", resolved.Region).
			Int("tools", len(bound)).
			Msg("adapter ready")
		out = append(out, bound...)
	}
	return out, nil
}
