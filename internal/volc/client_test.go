package volc

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
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	ep := Endpoint{Service: "vpc", Version: "2020-04-01", Host: srv.URL, Region: "cn-beijing"}
	signer := &Signer{
		Credentials: Credentials{AccessKey: "ak", SecretKey: "sk"},
		Service:     ep.Service,
		Region:      ep.Region,
	}
	return NewClient(ep, signer, Options{ReadTimeout: 2 * time.Second})
}

func TestClientDo_GetWithActionAndVersion(t *testing.T) {
	var hits int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("Action") != "DescribeVpcs" || q.Get("Version") != "2020-04-01" {
			t.Errorf("unexpected action/version: %v", q)
		}
		if q.Get("PageSize") != "100" {
			t.Errorf("expected PageSize=100, got %q", q.Get("PageSize"))
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "HMAC-SHA256 Credential=ak/") {
			t.Errorf("missing signature: %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id trace header")
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "volc-mcp/") {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ResponseMetadata":{"RequestId":"req-1","Action":"DescribeVpcs"},"Result":{"Vpcs":[{"VpcId":"vpc-1"}],"TotalCount":1}}`)
	})

	resp, err := client.Do(context.Background(), Call{
		Action: "DescribeVpcs",
		Query:  map[string]any{"PageSize": float64(100)},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected exactly one request, got %d", hits)
	}
	if resp.Metadata.RequestID != "req-1" {
		t.Errorf("expected request id req-1, got %q", resp.Metadata.RequestID)
	}
	if resp.Result["TotalCount"] != float64(1) {
		t.Errorf("unexpected result: %v", resp.Result)
	}
}

func TestClientDo_PostJSONBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body["Namespace"] != "VCM_ECS" {
			t.Errorf("unexpected body %v", body)
		}
		io.WriteString(w, `{"ResponseMetadata":{"RequestId":"req-2"},"Result":{"Data":{}}}`)
	})

	_, err := client.Do(context.Background(), Call{
		Action: "GetMetricData",
		Method: http.MethodPost,
		Body:   map[string]any{"Namespace": "VCM_ECS"},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

func TestClientDo_APIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ResponseMetadata":{"RequestId":"req-3","Error":{"Code":"InvalidParameter","Message":"PageSize is invalid"}}}`)
	})

	_, err := client.Do(context.Background(), Call{Action: "DescribeVpcs"})
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %T: %v", err, err)
	}
	if execErr.Action != "DescribeVpcs" {
		t.Errorf("expected action DescribeVpcs, got %q", execErr.Action)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected wrapped APIError, got %v", err)
	}
	if apiErr.Code != "InvalidParameter" || apiErr.RequestID != "req-3" {
		t.Errorf("unexpected api error %+v", apiErr)
	}
}

func TestClientDo_EmptyResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.Do(context.Background(), Call{Action: "DescribeRegions"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if !strings.Contains(err.Error(), "DescribeRegions") {
		t.Errorf("error should name the action, got %v", err)
	}
}

func TestClientDo_NullBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "null")
	})

	resp, err := client.Do(context.Background(), Call{Action: "DescribeVpcs"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got resp=%+v err=%v", resp, err)
	}
	if !strings.Contains(err.Error(), "DescribeVpcs") {
		t.Errorf("error should name the action, got %v", err)
	}
}

func TestClientDo_EmptyObject(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, " {} ")
	})

	resp, err := client.Do(context.Background(), Call{Action: "DescribeVpcs"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got resp=%+v err=%v", resp, err)
	}
}

func TestClientDo_ResponseTooLarge(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"Result":"`)
		w.Write([]byte(strings.Repeat("x", maxResponseSize)))
		io.WriteString(w, `"}`)
	})

	_, err := client.Do(context.Background(), Call{Action: "DescribeVpcs"})
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("expected ErrResponseTooLarge, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds 10MB") {
		t.Errorf("expected size in message, got %v", err)
	}
}

func TestClientDo_MalformedResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>gateway</html>`)
	})

	_, err := client.Do(context.Background(), Call{Action: "DescribeVpcs"})
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "malformed") {
		t.Errorf("expected malformed message, got %v", err)
	}
}

func TestClientDo_DataPlaneEnvelope(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("Action") != "" {
			t.Error("path-routed calls must not carry Action")
		}
		if r.URL.Path != "/api/knowledge/collection/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"code":0,"message":"success","request_id":"kb-1","data":{"collection_list":[]}}`)
	})

	resp, err := client.Do(context.Background(), Call{Method: http.MethodPost, Path: "/api/knowledge/collection/list"})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if _, ok := resp.Result["collection_list"]; !ok {
		t.Errorf("expected data mapping, got %v", resp.Result)
	}
	if resp.Metadata.RequestID != "kb-1" {
		t.Errorf("expected request id kb-1, got %q", resp.Metadata.RequestID)
	}
}

func TestClientDo_DataPlaneError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":1000001,"message":"collection not exist"}`)
	})

	_, err := client.Do(context.Background(), Call{Method: http.MethodPost, Path: "/api/knowledge/collection/info"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != "1000001" {
		t.Errorf("unexpected code %q", apiErr.Code)
	}
	if !strings.Contains(err.Error(), "POST /api/knowledge/collection/info") {
		t.Errorf("error should name the call, got %v", err)
	}
}

func TestClientDo_TransportFailure(t *testing.T) {
	ep := Endpoint{Service: "ecs", Version: "2020-04-01", Host: "http://127.0.0.1:1", Region: "cn-beijing"}
	client := NewClient(ep, BearerAuth{Token: "x"}, Options{ConnectTimeout: 200 * time.Millisecond})

	_, err := client.Do(context.Background(), Call{Action: "DescribeInstances"})
	var execErr *ExecutionError
	if !errors.As(err, &execErr) || execErr.Action != "DescribeInstances" {
		t.Fatalf("expected ExecutionError for DescribeInstances, got %v", err)
	}
}

func TestClientDo_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Do(ctx, Call{Action: "DescribeVpcs"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestClientDo_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ResponseMetadata":{},"Result":{}}`)
	}))
	defer srv.Close()

	ep := Endpoint{Service: "ecs", Version: "2020-04-01", Host: srv.URL, Region: "cn-beijing"}
	client := NewClient(ep, BearerAuth{Token: "x"}, Options{RateLimit: 0.001})

	if _, err := client.Do(context.Background(), Call{Action: "DescribeRegions"}); err != nil {
		t.Fatalf("first call should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Do(ctx, Call{Action: "DescribeRegions"})
	var execErr *ExecutionError
	if !errors.As(err, &execErr) || !strings.Contains(execErr.Message, "rate limit") {
		t.Errorf("expected rate limit error, got %v", err)
	}
}

func TestEndpointBaseURL(t *testing.T) {
	cases := map[string]Endpoint{
		"https://open.volcengineapi.com": {},
		"https://vod.volcengineapi.com":  {Host: "vod.volcengineapi.com"},
		"http://localhost:9000":          {Host: "http://localhost:9000/"},
		"http://vpc.internal":            {Host: "vpc.internal", Scheme: "http"},
	}
	for want, ep := range cases {
		if got := ep.baseURL(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}

func TestClientEndpoint(t *testing.T) {
	ep := Endpoint{Service: "vod", Version: "2023-01-01", Host: "vod.volcengineapi.com", Region: "cn-north-1"}
	if got := NewClient(ep, BearerAuth{Token: "t"}, Options{}).Endpoint(); got != ep {
		t.Errorf("expected %+v, got %+v", ep, got)
	}
}
