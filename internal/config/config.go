package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GlobalFlags are the persistent CLI flags; zero values mean "not set" and
// defer to the config file, environment, or defaults, in that order of
// increasing precedence: defaults < file < env < flags.
type GlobalFlags struct {
	ConfigPath      string
	JSON            bool
	Plain           bool
	RPCURL          string
	ChainID         int64
	SlippageBps     int64
	DeadlineSeconds int64
	ConfirmTimeout  string
	LogLevel        string
}

type Settings struct {
	OutputMode      string
	RPCURL          string
	ChainID         int64
	SlippageBps     int64
	Deadline        time.Duration
	ConfirmTimeout  time.Duration
	PollInterval    time.Duration
	HistoryPath     string
	HistoryLockPath string
	LogLevel        string
}

type fileConfig struct {
	Output          string `yaml:"output"`
	RPCURL          string `yaml:"rpc_url"`
	ChainID         *int64 `yaml:"chain_id"`
	SlippageBps     *int64 `yaml:"slippage_bps"`
	DeadlineSeconds *int64 `yaml:"deadline_seconds"`
	LogLevel        string `yaml:"log_level"`
	Confirm         struct {
		Timeout      string `yaml:"timeout"`
		PollInterval string `yaml:"poll_interval"`
	} `yaml:"confirm"`
	History struct {
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"history"`
}

var defaultRPCByChainID = map[int64]string{
	56: "https://bsc-dataseed.binance.org",
	97: "https://data-seed-prebsc-1-s1.binance.org:8545",
}

const (
	EnvRPCURL      = "LP_RPC_URL"
	EnvChainID     = "LP_CHAIN_ID"
	EnvSlippageBps = "LP_SLIPPAGE_BPS"
	EnvLogLevel    = "LP_LOG_LEVEL"
	EnvHistoryPath = "LP_HISTORY_PATH"
)

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

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

	if settings.RPCURL == "" {
		if url, ok := defaultRPCByChainID[settings.ChainID]; ok {
			settings.RPCURL = url
		} else {
			return Settings{}, fmt.Errorf("no default rpc for chain %d; set --rpc-url or %s", settings.ChainID, EnvRPCURL)
		}
	}
	if settings.SlippageBps < 0 || settings.SlippageBps >= 10000 {
		return Settings{}, fmt.Errorf("slippage must be in [0, 10000) basis points")
	}
	return settings, nil
}

func defaultSettings() (Settings, error) {
	dataDir, err := defaultDataDir()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		OutputMode:      "json",
		ChainID:         56,
		SlippageBps:     50,
		Deadline:        1200 * time.Second,
		ConfirmTimeout:  3 * time.Minute,
		PollInterval:    2 * time.Second,
		HistoryPath:     filepath.Join(dataDir, "history.db"),
		HistoryLockPath: filepath.Join(dataDir, "history.lock"),
		LogLevel:        "info",
	}, nil
}

func defaultDataDir() (string, error) {
	base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "pancakelp"), nil
}

func resolveConfigPath(override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override), nil
	}
	base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", nil
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pancakelp", "config.yaml"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	if path == "" {
		return nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if cfg.Output != "" {
		settings.OutputMode = cfg.Output
	}
	if cfg.RPCURL != "" {
		settings.RPCURL = cfg.RPCURL
	}
	if cfg.ChainID != nil {
		settings.ChainID = *cfg.ChainID
	}
	if cfg.SlippageBps != nil {
		settings.SlippageBps = *cfg.SlippageBps
	}
	if cfg.DeadlineSeconds != nil {
		settings.Deadline = time.Duration(*cfg.DeadlineSeconds) * time.Second
	}
	if cfg.LogLevel != "" {
		settings.LogLevel = cfg.LogLevel
	}
	if cfg.Confirm.Timeout != "" {
		d, err := time.ParseDuration(cfg.Confirm.Timeout)
		if err != nil {
			return fmt.Errorf("parse confirm.timeout: %w", err)
		}
		settings.ConfirmTimeout = d
	}
	if cfg.Confirm.PollInterval != "" {
		d, err := time.ParseDuration(cfg.Confirm.PollInterval)
		if err != nil {
			return fmt.Errorf("parse confirm.poll_interval: %w", err)
		}
		settings.PollInterval = d
	}
	if cfg.History.Path != "" {
		settings.HistoryPath = cfg.History.Path
	}
	if cfg.History.LockPath != "" {
		settings.HistoryLockPath = cfg.History.LockPath
	}
	return nil
}

func applyEnv(settings *Settings) {
	if v := strings.TrimSpace(os.Getenv(EnvRPCURL)); v != "" {
		settings.RPCURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvChainID)); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			settings.ChainID = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSlippageBps)); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			settings.SlippageBps = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		settings.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryPath)); v != "" {
		settings.HistoryPath = v
		settings.HistoryLockPath = v + ".lock"
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.JSON && flags.Plain {
		return fmt.Errorf("--json and --plain are mutually exclusive")
	}
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	if strings.TrimSpace(flags.RPCURL) != "" {
		settings.RPCURL = strings.TrimSpace(flags.RPCURL)
	}
	if flags.ChainID != 0 {
		settings.ChainID = flags.ChainID
	}
	if flags.SlippageBps != 0 {
		settings.SlippageBps = flags.SlippageBps
	}
	if flags.DeadlineSeconds != 0 {
		settings.Deadline = time.Duration(flags.DeadlineSeconds) * time.Second
	}
	if strings.TrimSpace(flags.ConfirmTimeout) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(flags.ConfirmTimeout))
		if err != nil {
			return fmt.Errorf("parse --confirm-timeout: %w", err)
		}
		settings.ConfirmTimeout = d
	}
	if strings.TrimSpace(flags.LogLevel) != "" {
		settings.LogLevel = strings.TrimSpace(flags.LogLevel)
	}
	return nil
}
