// Package vmp exposes Managed Service for Prometheus actions as MCP tools.
package vmp

import (
	"net/http"

	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Name is the adapter name used in configuration.
const Name = "vmp"

// Endpoint is the default VMP endpoint.
var Endpoint = volc.Endpoint{Service: "vmp", Version: "2021-03-03"}

func filters(desc string) tools.Param {
	return tools.Param{Name: "Filters", Type: tools.Object, Description: desc}
}

// Specs returns the VMP tool table.
func Specs() []tools.Spec {
	specs := []tools.Spec{
		{
			Name:        "list_workspaces",
			Description: "List Prometheus workspaces.",
			Action:      "ListWorkspaces",
			Params:      append([]tools.Param{filters(`Filter object, e.g. {"Ids":["ws-1"],"Statuses":["Active"]}.`)}, tools.Pagination()...),
		},
		{
			Name:        "get_workspace",
			Description: "Get one Prometheus workspace, including its query and remote write URLs.",
			Action:      "GetWorkspace",
			Params: []tools.Param{
				{Name: "Id", Type: tools.String, Required: true, Description: "Workspace ID."},
			},
		},
		{
			Name:        "list_alerting_rules",
			Description: "List Prometheus alerting rules.",
			Action:      "ListAlertingRules",
			Params:      append([]tools.Param{filters(`Filter object, e.g. {"WorkspaceId":"ws-1","Status":["Running"]}.`)}, tools.Pagination()...),
		},
		{
			Name:        "list_notify_groups",
			Description: "List notification group policies used by alerting rules.",
			Action:      "ListNotifyGroupPolicies",
			Params:      append([]tools.Param{filters(`Filter object, e.g. {"Name":"oncall"}.`)}, tools.Pagination()...),
		},
	}
	for i := range specs {
		specs[i].Method = http.MethodPost
		specs[i].ReadOnly = true
	}
	return specs
}
