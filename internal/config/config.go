package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ggonzalez94/agent-gateway/internal/registry"
	"gopkg.in/yaml.v3"
)

type GlobalFlags struct {
	ConfigPath  string
	Listen      string
	PublicDir   string
	RPCURL      string
	LensAddress string
	Timeout     string
	LogLevel    string
}

type Settings struct {
	Listen          string
	PublicDir       string
	RPCURL          string
	LensAddress     string
	Timeout         time.Duration
	Retries         int
	LogLevel        string
	BasescanAPIKey  string
	BasescanAPIBase string
}

type fileConfig struct {
	Listen    string `yaml:"listen"`
	PublicDir string `yaml:"public_dir"`
	Timeout   string `yaml:"timeout"`
	LogLevel  string `yaml:"log_level"`
	Chain     struct {
		RPCURL      string `yaml:"rpc_url"`
		LensAddress string `yaml:"lens_address"`
	} `yaml:"chain"`
	Basescan struct {
		APIBase   string `yaml:"api_base"`
		APIKey    string `yaml:"api_key"`
		APIKeyEnv string `yaml:"api_key_env"`
	} `yaml:"basescan"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings := defaultSettings()

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}

	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	applyEnv(&settings)

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	if settings.Timeout <= 0 {
		settings.Timeout = 5 * time.Second
	}
	if strings.TrimSpace(settings.RPCURL) == "" {
		rpcURL, err := registry.ResolveRPCURL("", registry.BaseChainID)
		if err != nil {
			return Settings{}, err
		}
		settings.RPCURL = rpcURL
	}

	return settings, nil
}

func defaultSettings() Settings {
	return Settings{
		Listen:          ":8080",
		PublicDir:       "public",
		LensAddress:     registry.MorphoLensAddress,
		Timeout:         5 * time.Second,
		Retries:         0,
		LogLevel:        "info",
		BasescanAPIBase: registry.BasescanAPIBaseURL,
	}
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "gateway", "config.yaml"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Listen != "" {
		settings.Listen = cfg.Listen
	}
	if cfg.PublicDir != "" {
		settings.PublicDir = cfg.PublicDir
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.LogLevel != "" {
		settings.LogLevel = strings.ToLower(cfg.LogLevel)
	}
	if cfg.Chain.RPCURL != "" {
		settings.RPCURL = cfg.Chain.RPCURL
	}
	if cfg.Chain.LensAddress != "" {
		settings.LensAddress = cfg.Chain.LensAddress
	}
	if cfg.Basescan.APIBase != "" {
		settings.BasescanAPIBase = cfg.Basescan.APIBase
	}
	if cfg.Basescan.APIKey != "" {
		settings.BasescanAPIKey = cfg.Basescan.APIKey
	}
	if cfg.Basescan.APIKeyEnv != "" {
		settings.BasescanAPIKey = os.Getenv(cfg.Basescan.APIKeyEnv)
	}

	return nil
}

func applyEnv(settings *Settings) {
	if v := os.Getenv("GATEWAY_LISTEN"); v != "" {
		settings.Listen = v
	}
	if v := os.Getenv("GATEWAY_PUBLIC_DIR"); v != "" {
		settings.PublicDir = v
	}
	if v := os.Getenv("GATEWAY_RPC_URL"); v != "" {
		settings.RPCURL = v
	}
	if v := os.Getenv("GATEWAY_LENS_ADDRESS"); v != "" {
		settings.LensAddress = v
	}
	if v := os.Getenv("GATEWAY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.Timeout = d
		}
	}
	if v := os.Getenv("GATEWAY_LOG_LEVEL"); v != "" {
		settings.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("BASESCAN_API_KEY"); v != "" {
		settings.BasescanAPIKey = v
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.Listen != "" {
		settings.Listen = flags.Listen
	}
	if flags.PublicDir != "" {
		settings.PublicDir = flags.PublicDir
	}
	if flags.RPCURL != "" {
		settings.RPCURL = flags.RPCURL
	}
	if flags.LensAddress != "" {
		settings.LensAddress = flags.LensAddress
	}
	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("parse --timeout: %w", err)
		}
		settings.Timeout = d
	}
	if flags.LogLevel != "" {
		settings.LogLevel = strings.ToLower(flags.LogLevel)
	}
	return nil
}
