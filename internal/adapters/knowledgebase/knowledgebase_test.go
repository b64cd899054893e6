package knowledgebase

import (
	"net/http"
	"strings"
	"testing"
)

func TestSpecsArePathRoutedPosts(t *testing.T) {
	for _, s := range Specs() {
		if s.Action != "" {
			t.Errorf("%s: data plane tools carry no Action", s.Name)
		}
		if s.Method != http.MethodPost {
			t.Errorf("%s: expected POST, got %s", s.Name, s.Method)
		}
		if !strings.HasPrefix(s.Path, "/api/knowledge/") {
			t.Errorf("%s: unexpected path %s", s.Name, s.Path)
		}
		if !strings.HasPrefix(s.Name, "kb_") {
			t.Errorf("%s: knowledge base tools are prefixed kb_", s.Name)
		}
	}
}

func TestEndpointSigningScope(t *testing.T) {
	if Endpoint.Service != "air" || Endpoint.Region != "cn-north-1" {
		t.Errorf("unexpected signing scope %+v", Endpoint)
	}
}
