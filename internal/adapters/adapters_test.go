package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bobmcallan/volc-mcp/internal/config"
	"github.com/bobmcallan/volc-mcp/internal/tools"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// --- Helpers ---

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Credentials.AccessKey = "AKLTtest"
	cfg.Credentials.SecretKey = "c2VjcmV0"
	cfg.HTTP.ReadTimeout = "2s"
	return cfg
}

func findTool(t *testing.T, list []tools.Tool, name string) tools.Tool {
	t.Helper()
	for _, tool := range list {
		if tool.Name() == name {
			return tool
		}
	}
	t.Fatalf("tool %s not built", name)
	return nil
}

func buildOne(t *testing.T, cfg *config.Config, adapter string) []tools.Tool {
	t.Helper()
	selected, err := Select([]string{adapter})
	if err != nil {
		t.Fatal(err)
	}
	built, err := Build(cfg, nil, selected)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return built
}

// --- Tables ---

func TestAllSpecsAreValidAndUnique(t *testing.T) {
	seen := map[string]string{"get_version": "server"}
	for _, a := range All() {
		if len(a.Specs) == 0 {
			t.Errorf("adapter %s has no tools", a.Name)
		}
		if a.Endpoint.Service == "" {
			t.Errorf("adapter %s has no signing service", a.Name)
		}
		for _, s := range a.Specs {
			if err := s.Check(); err != nil {
				t.Errorf("adapter %s: %v", a.Name, err)
			}
			if s.Description == "" {
				t.Errorf("tool %s has no description", s.Name)
			}
			if owner, dup := seen[s.Name]; dup {
				t.Errorf("tool %s declared by both %s and %s", s.Name, owner, a.Name)
			}
			seen[s.Name] = a.Name
		}
	}
}

func TestPaginationDefaults(t *testing.T) {
	for _, a := range All() {
		for _, s := range a.Specs {
			args, err := tools.Validate(s.Name, s.Params, nil)
			var vErr *tools.ValidationError
			if errors.As(err, &vErr) {
				// Tools with required inputs cannot run without arguments.
				continue
			}
			if err != nil {
				t.Fatalf("%s: %v", s.Name, err)
			}
			if _, ok := args["PageNumber"]; ok {
				if args["PageNumber"] != 1 || args["PageSize"] != 100 {
					t.Errorf("%s: expected PageNumber=1 PageSize=100, got %v", s.Name, args)
				}
			}
		}
	}
}

// --- Select ---

func TestSelect_EmptyMeansAll(t *testing.T) {
	got, err := Select(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(All()) {
		t.Errorf("expected all %d adapters, got %d", len(All()), len(got))
	}
}

func TestSelect_NormalizesAndDedupes(t *testing.T) {
	got, err := Select([]string{" VPC", "vpc", "flink"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "vpc" || got[1].Name != "flink" {
		t.Errorf("unexpected selection %v", got)
	}
}

func TestSelect_UnknownNamesReportedTogether(t *testing.T) {
	_, err := Select([]string{"ecs", "s3", "lambda"})
	var invalid *config.InvalidSettingError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSettingError, got %v", err)
	}
	if invalid.Value != "s3,lambda" {
		t.Errorf("expected both unknown names, got %q", invalid.Value)
	}
}

// --- Endpoint and auth resolution ---

func TestResolveEndpoint(t *testing.T) {
	t.Setenv("VOLCENGINE_VOD_REGION", "")
	t.Setenv("VOLCENGINE_VPC_ENDPOINT", "")
	cfg := testConfig(t)
	cfg.Credentials.Region = "cn-shanghai"
	cfg.Credentials.Endpoint = "open.example.test"

	all := map[string]Adapter{}
	for _, a := range All() {
		all[a.Name] = a
	}

	ep := all["vpc"].ResolveEndpoint(cfg)
	if ep.Region != "cn-shanghai" || ep.Host != "open.example.test" {
		t.Errorf("regional adapter should follow global settings, got %+v", ep)
	}

	ep = all["vod"].ResolveEndpoint(cfg)
	if ep.Region != "cn-north-1" || ep.Host != "vod.volcengineapi.com" {
		t.Errorf("pinned adapter should keep its own endpoint, got %+v", ep)
	}

	t.Setenv("VOLCENGINE_VOD_REGION", "ap-singapore-1")
	t.Setenv("VOLCENGINE_VPC_ENDPOINT", "vpc.example.test")
	if ep := all["vod"].ResolveEndpoint(cfg); ep.Region != "ap-singapore-1" {
		t.Errorf("per-service region should win, got %+v", ep)
	}
	if ep := all["vpc"].ResolveEndpoint(cfg); ep.Host != "vpc.example.test" {
		t.Errorf("per-service endpoint should win, got %+v", ep)
	}
}

func TestAuthorizer(t *testing.T) {
	t.Setenv("VOLCENGINE_KNOWLEDGEBASE_API_KEY", "")
	cfg := testConfig(t)
	var kb Adapter
	for _, a := range All() {
		if a.Name == "knowledgebase" {
			kb = a
		}
	}

	ep := kb.ResolveEndpoint(cfg)
	signer, ok := kb.Authorizer(cfg, ep).(*volc.Signer)
	if !ok {
		t.Fatal("expected AK/SK signing without an API key")
	}
	if signer.Service != "air" || signer.Region != "cn-north-1" {
		t.Errorf("unexpected signing scope %s/%s", signer.Service, signer.Region)
	}

	cfg.Services["knowledgebase"] = config.ServiceConfig{APIKey: "kb-key"}
	if _, ok := kb.Authorizer(cfg, ep).(volc.BearerAuth); !ok {
		t.Error("expected bearer auth with an API key")
	}
}

// --- Round trips ---

func TestBuild_DescribeRegionsNoArguments(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		q := r.URL.Query()
		if len(q) != 2 || q.Get("Action") != "DescribeRegions" || q.Get("Version") != "2020-04-01" {
			t.Errorf("expected only Action and Version, got %v", q)
		}
		if !strings.Contains(r.Header.Get("Authorization"), "/cn-beijing/ecs/request") {
			t.Errorf("unexpected signing scope: %s", r.Header.Get("Authorization"))
		}
		io.WriteString(w, `{"ResponseMetadata":{"RequestId":"r-1","Action":"DescribeRegions"},"Result":{"Regions":[{"RegionId":"cn-beijing"},{"RegionId":"cn-shanghai"}]}}`)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Credentials.Endpoint = srv.URL
	tool := findTool(t, buildOne(t, cfg, "ecs"), "describe_regions")

	out, err := tool.Invoke(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected exactly one request, got %d", hits)
	}

	got, _ := json.Marshal(out)
	want := `{"Regions":[{"RegionId":"cn-beijing"},{"RegionId":"cn-shanghai"}]}`
	if string(got) != want {
		t.Errorf("expected upstream mapping unchanged\nwant %s\ngot  %s", want, got)
	}
}

func TestBuild_EmptyResponseNamesAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Credentials.Endpoint = srv.URL
	tool := findTool(t, buildOne(t, cfg, "vpc"), "describe_vpcs")

	_, err := tool.Invoke(context.Background(), nil)
	var execErr *volc.ExecutionError
	if !errors.As(err, &execErr) || execErr.Action != "DescribeVpcs" {
		t.Fatalf("expected ExecutionError naming DescribeVpcs, got %v", err)
	}
}

func TestBuild_PostBodyDropsUnsetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if _, ok := body["InstanceName"]; ok {
			t.Errorf("unset field sent upstream: %v", body)
		}
		if body["PageNumber"] != float64(1) || body["PageSize"] != float64(100) {
			t.Errorf("expected pagination defaults, got %v", body)
		}
		io.WriteString(w, `{"ResponseMetadata":{"RequestId":"r-2"},"Result":{"Instances":[],"Total":0}}`)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Credentials.Endpoint = srv.URL
	tool := findTool(t, buildOne(t, cfg, "rdsmysql"), "describe_db_instances")

	if _, err := tool.Invoke(context.Background(), map[string]any{"InstanceName": ""}); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
}

func TestBuild_KnowledgeBaseBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/knowledge/collection/search_knowledge" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer kb-key" {
			t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["query"] != "refund policy" || body["project"] != "default" || body["limit"] != float64(10) {
			t.Errorf("unexpected body %v", body)
		}
		io.WriteString(w, `{"code":0,"message":"success","request_id":"kb-1","data":{"result_list":[{"content":"30 days"}]}}`)
	}))
	defer srv.Close()

	t.Setenv("VOLCENGINE_KNOWLEDGEBASE_ENDPOINT", srv.URL)
	t.Setenv("VOLCENGINE_KNOWLEDGEBASE_API_KEY", "kb-key")
	cfg := testConfig(t)
	tool := findTool(t, buildOne(t, cfg, "knowledgebase"), "kb_search_knowledge")

	out, err := tool.Invoke(context.Background(), map[string]any{"name": "faq", "query": "refund policy"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if _, ok := out["result_list"]; !ok {
		t.Errorf("expected data mapping, got %v", out)
	}
}

func TestBuild_ConcurrentInvocations(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		io.WriteString(w, `{"ResponseMetadata":{},"Result":{"Zones":[]}}`)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Credentials.Endpoint = srv.URL
	tool := findTool(t, buildOne(t, cfg, "ecs"), "describe_zones")

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := tool.Invoke(context.Background(), nil)
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Errorf("invocation failed: %v", err)
		}
	}
	if atomic.LoadInt32(&hits) != n {
		t.Errorf("expected %d requests, got %d", n, hits)
	}
}
