// Package vod exposes Video on Demand actions as MCP tools.
package vod

import (
	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Name is the adapter name used in configuration.
const Name = "vod"

// Endpoint pins VOD to its own host and region.
var Endpoint = volc.Endpoint{
	Service: "vod",
	Version: "2023-01-01",
	Host:    "vod.volcengineapi.com",
	Region:  "cn-north-1",
}

var spaceName = tools.Param{Name: "SpaceName", Type: tools.String, Required: true, Description: "VOD space name."}

// Specs returns the VOD tool table.
func Specs() []tools.Spec {
	return []tools.Spec{
		{
			Name:        "list_space",
			Description: "List VOD spaces in the account.",
			Action:      "ListSpace",
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "ProjectName", Type: tools.String, Description: "Project the spaces belong to."},
			},
		},
		{
			Name:        "get_media_infos",
			Description: "Get metadata for up to 20 media by video ID.",
			Action:      "GetMediaInfos",
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "Vids", Type: tools.String, Required: true, Description: "Comma-separated video IDs."},
				{Name: "SpaceName", Type: tools.String, Description: "VOD space name."},
			},
		},
		{
			Name:        "get_play_info",
			Description: "Get playback URLs for a video.",
			Action:      "GetPlayInfo",
			ReadOnly:    true,
			Params: []tools.Param{
				{Name: "Vid", Type: tools.String, Required: true, Description: "Video ID."},
				{Name: "Format", Type: tools.String, Description: "Container format.", Enum: []string{"mp4", "dash", "hls", "fmp4"}},
				{Name: "Codec", Type: tools.String, Description: "Video codec.", Enum: []string{"H264", "H265", "h264", "h265"}},
				{Name: "Definition", Type: tools.String, Description: "Resolution, e.g. 720p."},
				{Name: "FileType", Type: tools.String, Description: "Stream type.", Enum: []string{"evideo", "video", "audio"}},
				{Name: "Ssl", Type: tools.String, Description: "Return HTTPS URLs when 1.", Enum: []string{"0", "1"}},
			},
		},
		{
			Name:        "get_media_list",
			Description: "List media in a space.",
			Action:      "GetMediaList",
			ReadOnly:    true,
			Params: []tools.Param{
				spaceName,
				{Name: "Vid", Type: tools.String, Description: "Video ID."},
				{Name: "Status", Type: tools.String, Description: "Media status.", Enum: []string{"Published", "Unpublished"}},
				{Name: "Order", Type: tools.String, Description: "Sort order by creation time.", Enum: []string{"Asc", "Desc"}},
				{Name: "StartTime", Type: tools.String, Description: "Created after, RFC 3339."},
				{Name: "EndTime", Type: tools.String, Description: "Created before, RFC 3339."},
				{Name: "Offset", Type: tools.Integer, Description: "Number of entries to skip.", Default: 0},
				{Name: "PageSize", Type: tools.Integer, Description: "Entries per page.", Default: 100},
			},
		},
		{
			Name:        "list_domain",
			Description: "List playback and image domains of a space.",
			Action:      "ListDomain",
			ReadOnly:    true,
			Params: []tools.Param{
				spaceName,
				{Name: "DomainType", Type: tools.String, Description: "Domain usage.", Enum: []string{"play", "image"}},
				{Name: "Offset", Type: tools.Integer, Description: "Number of entries to skip.", Default: 0},
				{Name: "Limit", Type: tools.Integer, Description: "Entries per page.", Default: 100},
			},
		},
	}
}
