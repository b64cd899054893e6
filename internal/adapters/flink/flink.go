// Package flink exposes Stream Computing for Apache Flink actions as MCP tools.
package flink

import (
	"net/http"

	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Name is the adapter name used in configuration.
const Name = "flink"

// Endpoint is the default Flink endpoint.
var Endpoint = volc.Endpoint{Service: "flink", Version: "2021-06-01"}

var applicationID = tools.Param{Name: "Id", Type: tools.String, Required: true, Description: "Application ID."}

var applicationStates = []string{"CREATED", "STARTING", "RUNNING", "FAILED", "CANCELLING", "CANCELLED", "SUCCEEDED", "UNKNOWN"}

// Specs returns the Flink tool table.
func Specs() []tools.Spec {
	specs := []tools.Spec{
		{
			Name:        "flink_list_applications",
			Description: "List Flink applications.",
			Action:      "ListApplication",
			ReadOnly:    true,
			Params: append([]tools.Param{
				{Name: "ProjectId", Type: tools.String, Description: "Project ID."},
				{Name: "Name", Type: tools.String, Description: "Application name, fuzzy match."},
				{Name: "State", Type: tools.String, Description: "Application state.", Enum: applicationStates},
			}, tools.Pagination()...),
		},
		{
			Name:        "flink_get_application",
			Description: "Get one Flink application, including its job configuration and state.",
			Action:      "GetApplication",
			ReadOnly:    true,
			Params:      []tools.Param{applicationID},
		},
		{
			Name:             "flink_start_application",
			Description:      "Start a Flink application.",
			Action:           "StartApplication",
			AllowEmptyResult: true,
			Params: []tools.Param{
				applicationID,
				{Name: "SavepointId", Type: tools.String, Description: "Restore from this savepoint."},
				{Name: "AllowNonRestoredState", Type: tools.Boolean, Description: "Skip state that cannot be restored."},
			},
		},
		{
			Name:             "flink_stop_application",
			Description:      "Stop a running Flink application.",
			Action:           "StopApplication",
			Destructive:      true,
			AllowEmptyResult: true,
			Params: []tools.Param{
				applicationID,
				{Name: "WithSavepoint", Type: tools.Boolean, Description: "Take a savepoint before stopping."},
			},
		},
		{
			Name:        "flink_list_projects",
			Description: "List Flink projects.",
			Action:      "ListProject",
			ReadOnly:    true,
			Params: append([]tools.Param{
				{Name: "Name", Type: tools.String, Description: "Project name, fuzzy match."},
			}, tools.Pagination()...),
		},
	}
	for i := range specs {
		specs[i].Method = http.MethodPost
	}
	return specs
}
