// Package ecs exposes Elastic Compute Service actions as MCP tools.
package ecs

import (
	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Name is the adapter name used in configuration.
const Name = "ecs"

// Endpoint is the default ECS endpoint. Region comes from configuration.
var Endpoint = volc.Endpoint{Service: "ecs", Version: "2020-04-01"}

// ECS pages with MaxResults/NextToken rather than PageNumber/PageSize.
func cursor() []tools.Param {
	return []tools.Param{
		{Name: "MaxResults", Type: tools.Integer, Description: "Entries per page, at most 100.", Default: 100},
		{Name: "NextToken", Type: tools.String, Description: "Token from the previous page."},
	}
}

var instanceStatus = []string{"CREATING", "RUNNING", "STOPPING", "STOPPED", "REBOOTING", "STARTING", "REBUILDING", "RESIZING", "ERROR", "DELETING"}

// Specs returns the ECS tool table.
func Specs() []tools.Spec {
	return []tools.Spec{
		{
			Name:        "describe_regions",
			Description: "List the regions where ECS is available.",
			Action:      "DescribeRegions",
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "RegionIds", Type: tools.Array, Description: "Only return these regions."},
			},
		},
		{
			Name:        "describe_zones",
			Description: "List availability zones in the configured region.",
			Action:      "DescribeZones",
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "ZoneIds", Type: tools.Array, Description: "Only return these zones."},
			},
		},
		{
			Name:        "describe_instances",
			Description: "List ECS instances, optionally filtered by ID, VPC, zone, status or name.",
			Action:      "DescribeInstances",
			ReadOnly:    true,
			Params: append([]tools.Param{
				{Name: "InstanceIds", Type: tools.Array, Description: "Instance IDs, up to 100."},
				{Name: "VpcId", Type: tools.String, Description: "VPC ID."},
				{Name: "ZoneId", Type: tools.String, Description: "Availability zone ID."},
				{Name: "Status", Type: tools.String, Description: "Instance status.", Enum: instanceStatus},
				{Name: "InstanceName", Type: tools.String, Description: "Instance name, fuzzy match."},
				{Name: "PrimaryIpAddress", Type: tools.String, Description: "Primary private IP address."},
				{Name: "InstanceChargeType", Type: tools.String, Description: "Billing method.", Enum: []string{"PrePaid", "PostPaid"}},
				{Name: "ProjectName", Type: tools.String, Description: "Project the instances belong to."},
			}, cursor()...),
		},
		{
			Name:        "describe_instance_types",
			Description: "List instance type specifications.",
			Action:      "DescribeInstanceTypes",
			ReadOnly:    true,
			Params: append([]tools.Param{
				{Name: "InstanceTypeIds", Type: tools.Array, Description: "Instance types, e.g. ecs.g3i.large."},
				{Name: "InstanceTypeFamilies", Type: tools.Array, Description: "Instance type families, e.g. ecs.g3i."},
			}, cursor()...),
		},
		{
			Name:        "describe_images",
			Description: "List images available to the account.",
			Action:      "DescribeImages",
			ReadOnly:    true,
			Params: append([]tools.Param{
				{Name: "ImageIds", Type: tools.Array, Description: "Image IDs."},
				{Name: "ImageName", Type: tools.String, Description: "Image name, fuzzy match."},
				{Name: "InstanceTypeId", Type: tools.String, Description: "Only images usable by this instance type."},
				{Name: "OsType", Type: tools.String, Description: "Operating system type.", Enum: []string{"Linux", "Windows"}},
				{Name: "Visibility", Type: tools.String, Description: "Image visibility.", Enum: []string{"public", "private", "shared"}},
				{Name: "Status", Type: tools.Array, Description: "Image states.", Enum: []string{"available", "creating", "error"}},
			}, cursor()...),
		},
		{
			Name:        "describe_available_resource",
			Description: "Query resources that can be purchased in a zone.",
			Action:      "DescribeAvailableResource",
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "DestinationResource", Type: tools.String, Required: true, Description: "Resource to query.", Enum: []string{"InstanceType", "DedicatedHost", "VolumeType"}},
				{Name: "ZoneId", Type: tools.String, Description: "Availability zone ID."},
				{Name: "InstanceTypeId", Type: tools.String, Description: "Instance type."},
				{Name: "InstanceChargeType", Type: tools.String, Description: "Billing method.", Enum: []string{"PrePaid", "PostPaid"}},
				{Name: "SpotStrategy", Type: tools.String, Description: "Spot policy.", Enum: []string{"NoSpot", "SpotAsPriceGo"}},
			},
		},
		{
			Name:             "start_instance",
			Description:      "Start a stopped instance.",
			Action:           "StartInstance",
			AllowEmptyResult: true,
			Params: []tools.Param{
				{Name: "InstanceId", Type: tools.String, Required: true, Description: "Instance ID."},
			},
		},
		{
			Name:             "stop_instance",
			Description:      "Stop a running instance.",
			Action:           "StopInstance",
			Destructive:      true,
			AllowEmptyResult: true,
			Params: []tools.Param{
				{Name: "InstanceId", Type: tools.String, Required: true, Description: "Instance ID."},
				{Name: "ForceStop", Type: tools.Boolean, Description: "Force the stop, like pulling the power."},
				{Name: "StoppedMode", Type: tools.String, Description: "Whether billing continues while stopped.", Enum: []string{"KeepCharging", "StopCharging"}},
			},
		},
		{
			Name:             "reboot_instance",
			Description:      "Reboot a running instance.",
			Action:           "RebootInstance",
			Destructive:      true,
			AllowEmptyResult: true,
			Params: []tools.Param{
				{Name: "InstanceId", Type: tools.String, Required: true, Description: "Instance ID."},
				{Name: "ForceStop", Type: tools.Boolean, Description: "Force the reboot."},
			},
		},
	}
}
