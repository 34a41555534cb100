package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ggonzalez94/agent-gateway/internal/position"
	"github.com/ggonzalez94/agent-gateway/internal/tools"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.txt"), []byte("hello file"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	resolver := position.NewResolver(nil, position.NewMockStore(), zap.NewNop())
	dispatcher := tools.NewDispatcher(resolver)
	srv := New(Options{PublicDir: dir, ToolTimeout: 2 * time.Second}, dispatcher, zap.NewNop())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func postJSON(t *testing.T, url, body string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	var out map[string]string
	resp := getJSON(t, ts.URL+"/", &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if out["status"] != "ok" || out["message"] != "Server is running" {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestListFiles(t *testing.T) {
	ts := newTestServer(t)

	var out struct {
		Files []string `json:"files"`
	}
	getJSON(t, ts.URL+"/files", &out)
	if len(out.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", out.Files)
	}

	getJSON(t, ts.URL+"/files?q=TEST", &out)
	if len(out.Files) != 1 || out.Files[0] != "test.txt" {
		t.Fatalf("filter failed: %v", out.Files)
	}

	getJSON(t, ts.URL+"/files?q=nomatch", &out)
	if len(out.Files) != 0 {
		t.Fatalf("expected empty match list, got %v", out.Files)
	}
}

func TestReadFile(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/files/test.txt")
	if err != nil {
		t.Fatalf("GET file: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "hello file" {
		t.Fatalf("unexpected file response: %d %q", resp.StatusCode, body)
	}

	var errOut struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	resp = getJSON(t, ts.URL+"/files/absent.txt", &errOut)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if errOut.Error.Type != "not_found" || errOut.Error.Message != "File not found" {
		t.Fatalf("unexpected error body: %+v", errOut)
	}
}

func TestToolCatalog(t *testing.T) {
	ts := newTestServer(t)

	var out struct {
		Tools []struct {
			Task string `json:"task"`
		} `json:"tools"`
	}
	getJSON(t, ts.URL+"/tools", &out)
	if len(out.Tools) != 2 {
		t.Fatalf("expected 2 tools, got %+v", out.Tools)
	}
}

func TestRunToolSummarize(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/tools", `{"task":"summarize","text":"hello"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d (%s)", resp.StatusCode, body)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["summary"] != "hello" {
		t.Fatalf("expected identity summary, got %v", out)
	}
}

func TestRunToolPositionFromMockStore(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/tools",
		`{"task":"morpho_get_position","wallet":"0x2e2ea30ba045df4bc38e80cf11e119e12e06c1c2","pool_id":"cbBTC/USDC"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d (%s)", resp.StatusCode, body)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["source"] != "mock" {
		t.Fatalf("expected mock source, got %v", out)
	}
	if out["wallet"] != "0x2E2Ea30Ba045Df4bC38e80cF11E119E12e06C1C2" {
		t.Fatalf("expected checksummed wallet, got %v", out["wallet"])
	}
	if out["supply_shares"] != "1000000000000000000" {
		t.Fatalf("unexpected supply shares: %v", out["supply_shares"])
	}
}

func TestRunToolClientErrors(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name     string
		body     string
		wantType string
	}{
		{"no task", `{}`, "missing_parameter"},
		{"unknown task", `{"task":"unknown_task"}`, "unknown_task"},
		{"missing text", `{"task":"summarize"}`, "missing_parameter"},
		{"missing wallet", `{"task":"morpho_get_position","pool_id":"cbBTC/USDC"}`, "missing_parameter"},
		{"invalid address", `{"task":"morpho_get_position","wallet":"nope","pool_id":"cbBTC/USDC"}`, "invalid_address"},
		{"unknown pool", `{"task":"morpho_get_position","wallet":"0x2E2Ea30Ba045Df4bC38e80cF11E119E12e06C1C2","pool_id":"DOGE/USDC"}`, "unknown_pool"},
		{"malformed body", `{`, "usage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := postJSON(t, ts.URL+"/tools", tc.body, nil)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", resp.StatusCode, body)
			}
			var out struct {
				Error struct {
					Type string `json:"type"`
				} `json:"error"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Error.Type != tc.wantType {
				t.Fatalf("expected type %s, got %s", tc.wantType, out.Error.Type)
			}
		})
	}
}

func TestRunToolEventStream(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/tools", `{"task":"summarize","text":"hello"}`,
		map[string]string{"Accept": "text/event-stream"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	text := string(body)
	if strings.Count(text, "data:") != 1 {
		t.Fatalf("expected exactly one data frame, got %q", text)
	}
	if !strings.HasPrefix(text, "data:") || !strings.Contains(text, `"summary":"hello"`) {
		t.Fatalf("unexpected frame: %q", text)
	}
	if !strings.HasSuffix(text, "\n\n") {
		t.Fatalf("frame not terminated by blank line: %q", text)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/", nil)
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS allow-origin header")
	}

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/tools", nil)
	preflight, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	preflight.Body.Close()
	if preflight.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", preflight.StatusCode)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}
