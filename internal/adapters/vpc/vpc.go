// Package vpc exposes Virtual Private Cloud actions as MCP tools.
package vpc

import (
	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Name is the adapter name used in configuration.
const Name = "vpc"

// Endpoint is the default VPC endpoint. Region comes from configuration.
var Endpoint = volc.Endpoint{Service: "vpc", Version: "2020-04-01"}

func paged(params ...tools.Param) []tools.Param {
	return append(params, tools.Pagination()...)
}

// Specs returns the VPC tool table.
func Specs() []tools.Spec {
	return []tools.Spec{
		{
			Name:        "describe_vpcs",
			Description: "List VPCs in the configured region.",
			Action:      "DescribeVpcs",
			ReadOnly:    true,
			Params: paged(
				tools.Param{Name: "VpcIds", Type: tools.Array, Description: "VPC IDs, up to 100."},
				tools.Param{Name: "VpcName", Type: tools.String, Description: "VPC name."},
				tools.Param{Name: "ProjectName", Type: tools.String, Description: "Project the VPCs belong to."},
			),
		},
		{
			Name:        "describe_vpc_attributes",
			Description: "Get the attributes of one VPC.",
			Action:      "DescribeVpcAttributes",
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "VpcId", Type: tools.String, Required: true, Description: "VPC ID."},
			},
		},
		{
			Name:        "describe_subnets",
			Description: "List subnets, optionally within one VPC or zone.",
			Action:      "DescribeSubnets",
			ReadOnly:    true,
			Params: paged(
				tools.Param{Name: "SubnetIds", Type: tools.Array, Description: "Subnet IDs."},
				tools.Param{Name: "VpcId", Type: tools.String, Description: "VPC ID."},
				tools.Param{Name: "ZoneId", Type: tools.String, Description: "Availability zone ID."},
				tools.Param{Name: "SubnetName", Type: tools.String, Description: "Subnet name."},
			),
		},
		{
			Name:        "describe_security_groups",
			Description: "List security groups.",
			Action:      "DescribeSecurityGroups",
			ReadOnly:    true,
			Params: paged(
				tools.Param{Name: "SecurityGroupIds", Type: tools.Array, Description: "Security group IDs."},
				tools.Param{Name: "SecurityGroupNames", Type: tools.Array, Description: "Security group names."},
				tools.Param{Name: "VpcId", Type: tools.String, Description: "VPC ID."},
				tools.Param{Name: "ProjectName", Type: tools.String, Description: "Project the groups belong to."},
			),
		},
		{
			Name:        "describe_security_group_attributes",
			Description: "Get the rules of one security group.",
			Action:      "DescribeSecurityGroupAttributes",
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "SecurityGroupId", Type: tools.String, Required: true, Description: "Security group ID."},
				{Name: "Direction", Type: tools.String, Description: "Rule direction.", Enum: []string{"ingress", "egress"}},
				{Name: "Protocol", Type: tools.String, Description: "Rule protocol.", Enum: []string{"tcp", "udp", "icmp", "icmpv6", "all"}},
				{Name: "CidrIp", Type: tools.String, Description: "Source or destination CIDR."},
			},
		},
		{
			Name:        "describe_eip_addresses",
			Description: "List elastic IP addresses.",
			Action:      "DescribeEipAddresses",
			ReadOnly:    true,
			Params: paged(
				tools.Param{Name: "AllocationIds", Type: tools.Array, Description: "EIP allocation IDs."},
				tools.Param{Name: "EipAddresses", Type: tools.Array, Description: "EIP addresses."},
				tools.Param{Name: "Status", Type: tools.String, Description: "EIP status.", Enum: []string{"Attaching", "Detaching", "Attached", "Available"}},
				tools.Param{Name: "AssociatedInstanceType", Type: tools.String, Description: "Type of the bound instance.", Enum: []string{"Nat", "NetworkInterface", "ClbInstance", "EcsInstance", "HaVip"}},
				tools.Param{Name: "AssociatedInstanceId", Type: tools.String, Description: "ID of the bound instance."},
			),
		},
		{
			Name:        "describe_network_interfaces",
			Description: "List elastic network interfaces.",
			Action:      "DescribeNetworkInterfaces",
			ReadOnly:    true,
			Params: paged(
				tools.Param{Name: "NetworkInterfaceIds", Type: tools.Array, Description: "Network interface IDs."},
				tools.Param{Name: "VpcId", Type: tools.String, Description: "VPC ID."},
				tools.Param{Name: "SubnetId", Type: tools.String, Description: "Subnet ID."},
				tools.Param{Name: "InstanceId", Type: tools.String, Description: "Attached instance ID."},
				tools.Param{Name: "Type", Type: tools.String, Description: "Interface type.", Enum: []string{"primary", "secondary"}},
				tools.Param{Name: "Status", Type: tools.String, Description: "Interface status.", Enum: []string{"Creating", "Available", "Attaching", "InUse", "Detaching", "Deleting"}},
			),
		},
		{
			Name:        "describe_route_table_list",
			Description: "List route tables.",
			Action:      "DescribeRouteTableList",
			ReadOnly:    true,
			Params: paged(
				tools.Param{Name: "VpcId", Type: tools.String, Description: "VPC ID."},
				tools.Param{Name: "RouteTableId", Type: tools.String, Description: "Route table ID."},
				tools.Param{Name: "RouteTableName", Type: tools.String, Description: "Route table name."},
			),
		},
	}
}
