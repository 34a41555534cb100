package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ggonzalez94/agent-gateway/internal/registry"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{
		"GATEWAY_LISTEN", "GATEWAY_PUBLIC_DIR", "GATEWAY_RPC_URL",
		"GATEWAY_LENS_ADDRESS", "GATEWAY_TIMEOUT", "GATEWAY_LOG_LEVEL",
		"BASESCAN_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	settings, err := Load(GlobalFlags{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Listen != ":8080" {
		t.Fatalf("unexpected listen: %s", settings.Listen)
	}
	if settings.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", settings.Timeout)
	}
	if settings.LensAddress != registry.MorphoLensAddress {
		t.Fatalf("unexpected lens address: %s", settings.LensAddress)
	}
	wantRPC, _ := registry.DefaultRPCURL(registry.BaseChainID)
	if settings.RPCURL != wantRPC {
		t.Fatalf("unexpected rpc url: %s", settings.RPCURL)
	}
	if settings.Retries != 0 {
		t.Fatalf("expected zero retries, got %d", settings.Retries)
	}
}

func TestLoadFileConfig(t *testing.T) {
	isolateEnv(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := `
listen: ":9090"
timeout: 3s
log_level: DEBUG
chain:
  rpc_url: https://base.example.org
basescan:
  api_key: from-file
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	settings, err := Load(GlobalFlags{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Listen != ":9090" {
		t.Fatalf("unexpected listen: %s", settings.Listen)
	}
	if settings.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", settings.Timeout)
	}
	if settings.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", settings.LogLevel)
	}
	if settings.RPCURL != "https://base.example.org" {
		t.Fatalf("unexpected rpc url: %s", settings.RPCURL)
	}
	if settings.BasescanAPIKey != "from-file" {
		t.Fatalf("unexpected api key: %s", settings.BasescanAPIKey)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolateEnv(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("listen: \":9090\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GATEWAY_LISTEN", ":7070")
	t.Setenv("BASESCAN_API_KEY", "from-env")

	settings, err := Load(GlobalFlags{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Listen != ":7070" {
		t.Fatalf("env did not override file: %s", settings.Listen)
	}
	if settings.BasescanAPIKey != "from-env" {
		t.Fatalf("unexpected api key: %s", settings.BasescanAPIKey)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GATEWAY_LISTEN", ":7070")

	settings, err := Load(GlobalFlags{Listen: ":6060", Timeout: "1s"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Listen != ":6060" {
		t.Fatalf("flag did not override env: %s", settings.Listen)
	}
	if settings.Timeout != time.Second {
		t.Fatalf("unexpected timeout: %s", settings.Timeout)
	}
}

func TestLoadRejectsBadTimeoutFlag(t *testing.T) {
	isolateEnv(t)

	if _, err := Load(GlobalFlags{Timeout: "soon"}); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}
