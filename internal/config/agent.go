package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

// EnvPrefix namespaces the environment variables read by Load.
const EnvPrefix = "STAGEHAND_"

// AgentConfig holds the settings of a single agent process.
type AgentConfig struct {
	JobsRoot         string        `koanf:"jobs_root" validate:"required"`
	AgentID          string        `koanf:"agent_id" validate:"omitempty,max=255"`
	LogLevel         string        `koanf:"log_level" validate:"required,log_level"`
	HumanReadable    bool          `koanf:"human_readable"`
	KeepJobDirectory bool          `koanf:"keep_job_directory"`
	KillGracePeriod  time.Duration `koanf:"kill_grace_period" validate:"min=0"`
	DefaultTimeout   time.Duration `koanf:"default_timeout" validate:"min=0"`
}

// Defaults returns the base layer applied before any file or environment value.
func Defaults() map[string]any {
	return map[string]any{
		"jobs_root":          filepath.Join(os.TempDir(), "stagehand", "jobs"),
		"log_level":          "info",
		"human_readable":     false,
		"keep_job_directory": false,
		"kill_grace_period":  "10s",
		"default_timeout":    "0s",
	}
}

// Load builds the agent configuration from, in increasing precedence: the
// defaults, the YAML file at path (skipped when path is empty), STAGEHAND_*
// environment variables and finally overrides, usually populated from
// command line flags.
func Load(path string, overrides map[string]any) (*AgentConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, agenterrors.NewParseError(path, 0, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, agenterrors.NewParseError(path, extractLine(err), err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg AgentConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := ValidateAgentConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateAgentConfig checks field constraints on an assembled configuration.
func ValidateAgentConfig(cfg *AgentConfig) error {
	if cfg == nil {
		return agenterrors.NewValidationError("config", "configuration is nil", nil)
	}
	if err := validatorInstance().Struct(cfg); err != nil {
		return ConvertValidationError("config", err)
	}
	return nil
}
