// Package cloudmonitor exposes Cloud Monitor metric, alert rule and event
// queries as MCP tools.
package cloudmonitor

import (
	"net/http"

	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Name is the adapter name used in configuration.
const Name = "cloudmonitor"

// Endpoint is the default Cloud Monitor endpoint.
var Endpoint = volc.Endpoint{Service: "Volc_Observe", Version: "2018-01-01"}

// Specs returns the Cloud Monitor tool table.
func Specs() []tools.Spec {
	return []tools.Spec{
		{
			Name:        "get_metric_data",
			Description: "Fetch metric data points for cloud resources over a time range.",
			Action:      "GetMetricData",
			Method:      http.MethodPost,
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "Namespace", Type: tools.String, Required: true, Description: "Product namespace, e.g. VCM_ECS."},
				{Name: "SubNamespace", Type: tools.String, Required: true, Description: "Metric dimension group, e.g. Instance."},
				{Name: "MetricName", Type: tools.String, Required: true, Description: "Metric name, e.g. CpuTotal."},
				{Name: "StartTime", Type: tools.Integer, Required: true, Description: "Start of the range, Unix seconds."},
				{Name: "EndTime", Type: tools.Integer, Required: true, Description: "End of the range, Unix seconds."},
				{Name: "Period", Type: tools.String, Description: "Aggregation period, e.g. 60s or 5m."},
				{Name: "Instances", Type: tools.Array, Items: tools.Object, Description: `Resources to query, each {"Dimensions":[{"Name":"ResourceID","Value":"i-xxx"}]}.`},
				{Name: "GroupBy", Type: tools.Array, Description: "Dimensions to group by."},
			},
		},
		{
			Name:        "list_alert_rules",
			Description: "List alert rules.",
			Action:      "ListRules",
			Method:      http.MethodPost,
			ReadOnly:    true,
			Params: append([]tools.Param{
				{Name: "RuleName", Type: tools.String, Description: "Rule name, fuzzy match."},
				{Name: "Namespace", Type: tools.Array, Description: "Product namespaces."},
				{Name: "Level", Type: tools.Array, Description: "Alert levels.", Enum: []string{"critical", "warning", "notice"}},
				{Name: "EnableState", Type: tools.Array, Description: "Rule states.", Enum: []string{"enable", "disable"}},
				{Name: "AlertState", Type: tools.Array, Description: "Alert states.", Enum: []string{"alerting", "normal"}},
			}, tools.Pagination()...),
		},
		{
			Name:        "list_events",
			Description: "List system events reported by cloud products.",
			Action:      "ListEvents",
			Method:      http.MethodPost,
			ReadOnly:    true,
			Params: append([]tools.Param{
				{Name: "Source", Type: tools.Array, Description: "Event sources, e.g. ecs."},
				{Name: "EventType", Type: tools.Array, Description: "Event types."},
				{Name: "StartTime", Type: tools.Integer, Description: "Start of the range, Unix seconds."},
				{Name: "EndTime", Type: tools.Integer, Description: "End of the range, Unix seconds."},
				{Name: "Asc", Type: tools.Boolean, Description: "Sort ascending by time."},
			}, tools.Pagination()...),
		},
	}
}
