// Package rdsmysql exposes RDS for MySQL actions as MCP tools.
package rdsmysql

import (
	"net/http"

	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Name is the adapter name used in configuration.
const Name = "rdsmysql"

// Endpoint is the default RDS MySQL endpoint. Region comes from configuration.
var Endpoint = volc.Endpoint{Service: "rds_mysql", Version: "2022-01-01"}

var instanceID = tools.Param{Name: "InstanceId", Type: tools.String, Required: true, Description: "RDS MySQL instance ID."}

// Specs returns the RDS MySQL tool table. All actions take a JSON body.
func Specs() []tools.Spec {
	specs := []tools.Spec{
		{
			Name:        "describe_db_instances",
			Description: "List RDS MySQL instances.",
			Action:      "DescribeDBInstances",
			Params: append([]tools.Param{
				{Name: "InstanceId", Type: tools.String, Description: "Instance ID."},
				{Name: "InstanceName", Type: tools.String, Description: "Instance name, fuzzy match."},
				{Name: "InstanceStatus", Type: tools.String, Description: "Instance status, e.g. Running."},
				{Name: "DBEngineVersion", Type: tools.String, Description: "MySQL version.", Enum: []string{"MySQL_5_7", "MySQL_8_0"}},
				{Name: "ZoneId", Type: tools.String, Description: "Availability zone ID."},
				{Name: "ProjectName", Type: tools.String, Description: "Project the instances belong to."},
			}, tools.Pagination()...),
		},
		{
			Name:        "describe_db_instance_detail",
			Description: "Get the configuration, nodes and endpoints of one instance.",
			Action:      "DescribeDBInstanceDetail",
			Params:      []tools.Param{instanceID},
		},
		{
			Name:        "describe_db_accounts",
			Description: "List database accounts on an instance.",
			Action:      "DescribeDBAccounts",
			Params: append([]tools.Param{
				instanceID,
				{Name: "AccountName", Type: tools.String, Description: "Account name."},
			}, tools.Pagination()...),
		},
		{
			Name:        "describe_databases",
			Description: "List databases on an instance.",
			Action:      "DescribeDatabases",
			Params: append([]tools.Param{
				instanceID,
				{Name: "DBName", Type: tools.String, Description: "Database name."},
			}, tools.Pagination()...),
		},
		{
			Name:        "describe_backups",
			Description: "List backups of an instance.",
			Action:      "DescribeBackups",
			Params: append([]tools.Param{
				instanceID,
				{Name: "BackupStartTime", Type: tools.String, Description: "Earliest backup start, e.g. 2026-01-01T00:00:00Z."},
				{Name: "BackupEndTime", Type: tools.String, Description: "Latest backup start."},
				{Name: "BackupType", Type: tools.String, Description: "Backup type.", Enum: []string{"Full", "Increment", "DumpAll"}},
				{Name: "BackupMethod", Type: tools.String, Description: "Backup method.", Enum: []string{"Physical", "Logical"}},
			}, tools.Pagination()...),
		},
		{
			Name:        "describe_db_instance_parameters",
			Description: "List the parameter settings of an instance.",
			Action:      "DescribeDBInstanceParameters",
			Params: []tools.Param{
				instanceID,
				{Name: "ParameterName", Type: tools.String, Description: "Parameter name, fuzzy match."},
				{Name: "NodeId", Type: tools.String, Description: "Node ID."},
			},
		},
	}
	for i := range specs {
		specs[i].Method = http.MethodPost
		specs[i].ReadOnly = true
	}
	return specs
}
