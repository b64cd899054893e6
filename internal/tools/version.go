package tools

import (
	"context"

	"github.com/bobmcallan/volc-mcp/internal/common"
)

// VersionTool reports the server build and the adapters it loaded. Hosts
// use it to verify connectivity without touching any upstream API.
func VersionTool(services []string) Tool {
	loaded := append([]string(nil), services...)
	return NewFunc("get_version",
		"Get the Volcengine MCP server version and the services it exposes. Use this to verify connectivity.",
		nil,
		func(ctx context.Context, _ map[string]any) (map[string]any, error) {
			info := common.Info()
			return map[string]any{
				"version":  info.Version,
				"build":    info.Build,
				"commit":   info.Commit,
				"services": loaded,
			}, nil
		},
	)
}
