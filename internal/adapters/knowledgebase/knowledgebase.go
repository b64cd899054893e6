// Package knowledgebase exposes the Knowledge Base data plane as MCP tools.
// Unlike the OpenAPI services it is routed by path and accepts either an
// API key or AK/SK signing.
package knowledgebase

import (
	"net/http"

	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Name is the adapter name used in configuration.
const Name = "knowledgebase"

// Endpoint pins the knowledge base to its own host and signing scope.
var Endpoint = volc.Endpoint{
	Service: "air",
	Host:    "api-knowledgebase.mlp.cn-beijing.volces.com",
	Region:  "cn-north-1",
}

var project = tools.Param{Name: "project", Type: tools.String, Description: "Project the collection belongs to.", Default: "default"}

// collection identifies a collection by name or resource ID; the API
// accepts either.
func collection() []tools.Param {
	return []tools.Param{
		{Name: "name", Type: tools.String, Description: "Collection name."},
		{Name: "resource_id", Type: tools.String, Description: "Collection resource ID, used instead of name."},
		project,
	}
}

// Specs returns the knowledge base tool table.
func Specs() []tools.Spec {
	specs := []tools.Spec{
		{
			Name:        "kb_list_collections",
			Description: "List knowledge base collections.",
			Path:        "/api/knowledge/collection/list",
			Params:      []tools.Param{project},
		},
		{
			Name:        "kb_get_collection",
			Description: "Get the configuration and status of a collection.",
			Path:        "/api/knowledge/collection/info",
			Params:      collection(),
		},
		{
			Name:        "kb_search_knowledge",
			Description: "Search a collection and return the best matching chunks.",
			Path:        "/api/knowledge/collection/search_knowledge",
			Params: append(collection(),
				tools.Param{Name: "query", Type: tools.String, Required: true, Description: "Search text."},
				tools.Param{Name: "limit", Type: tools.Integer, Description: "Number of chunks to return.", Default: 10},
				tools.Param{Name: "dense_weight", Type: tools.Number, Description: "Weight of dense retrieval in hybrid search, 0.2 to 1."},
				tools.Param{Name: "query_param", Type: tools.Object, Description: `Filter object, e.g. {"doc_filter":{...}}.`},
				tools.Param{Name: "pre_processing", Type: tools.Object, Description: "Query rewrite settings."},
				tools.Param{Name: "post_processing", Type: tools.Object, Description: "Rerank and chunk expansion settings."},
			),
		},
		{
			Name:        "kb_list_docs",
			Description: "List documents in a collection.",
			Path:        "/api/knowledge/doc/list",
			Params: []tools.Param{
				{Name: "collection_name", Type: tools.String, Description: "Collection name."},
				{Name: "resource_id", Type: tools.String, Description: "Collection resource ID, used instead of collection_name."},
				project,
				{Name: "offset", Type: tools.Integer, Description: "Number of documents to skip.", Default: 0},
				{Name: "limit", Type: tools.Integer, Description: "Documents per page.", Default: 100},
			},
		},
	}
	for i := range specs {
		specs[i].Method = http.MethodPost
		specs[i].ReadOnly = true
	}
	return specs
}
