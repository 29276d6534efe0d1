package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/takeline-labs/takeline/internal/config"
)

// loggerKey is used to store the logger in context. Shared with the
// commands package via LoggerKey.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search
// for config files.
const maxUpwardSearchLevels = 10

var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

var configFileNames = []string{"takeline.yaml", "takeline.yml"}

// findConfigFile finds the config file to use.
// Priority: explicit path > takeline.yaml > takeline.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func configExistsIn(dir string) bool {
	for _, name := range configFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// findProjectRootUpward searches upward from startDir for a takeline
// config file. Returns empty string when none is found.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root from flags and the
// filesystem.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for takeline.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
	}
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir unless it is
// empty, already absolute, or the in-memory database marker.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config file
// > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile)

	// Paths given as flags are relative to CWD, not the project root.
	// Pin them to absolute before resolution.
	var flagDrawing, flagGroundTruth, flagStatePath string
	if flags != nil {
		if flags.Changed("drawing") {
			if v, _ := flags.GetString("drawing"); v != "" {
				flagDrawing, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("ground-truth") {
			if v, _ := flags.GetString("ground-truth"); v != "" {
				flagGroundTruth, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("state") {
			if v, _ := flags.GetString("state"); v != "" {
				flagStatePath, _ = filepath.Abs(v)
			}
		}
	}

	// 1. Defaults. Derivation toggles default on here rather than in
	// ApplyDefaults so a config file can turn them off.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"state_path":                 DefaultStateFile,
		"verbose":                    false,
		"output":                     DefaultOutput,
		"project.derive.fittings":    true,
		"project.derive.consumables": true,
		"project.derive.wire":        true,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, searched in the project root when not explicit.
	if cfgFile == "" {
		for _, name := range configFileNames {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				cfgFile = candidate
				break
			}
		}
	}
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: TAKELINE_STATE_PATH -> state_path,
	// TAKELINE_PROJECT__FLOOR_COUNT -> project.floor_count.
	if err := k.Load(env.Provider("TAKELINE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "TAKELINE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags override everything else.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")

			switch key {
			case "state":
				return "state_path", posflag.FlagVal(flags, f)
			case "floors":
				return "project.floor_count", posflag.FlagVal(flags, f)
			case "sqft":
				return "project.building_sqft", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal.
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths against the project root, flag paths against CWD.
	cfg.ProjectRoot = projectRoot
	if flagDrawing != "" {
		cfg.Drawing = flagDrawing
	} else {
		cfg.Drawing = resolvePathRelativeTo(cfg.Drawing, projectRoot)
	}
	if flagGroundTruth != "" {
		cfg.GroundTruth = flagGroundTruth
	} else if cfg.GroundTruth == "" && cfg.Project.GroundTruthPath != "" {
		cfg.GroundTruth = resolvePathRelativeTo(cfg.Project.GroundTruthPath, projectRoot)
	} else {
		cfg.GroundTruth = resolvePathRelativeTo(cfg.GroundTruth, projectRoot)
	}
	if flagStatePath != "" {
		cfg.StatePath = flagStatePath
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}

	intconfig.ApplyDefaults(&cfg.Project)
	if err := cfg.Project.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if
// any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration. Available
// after LoadConfig.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger. This
// lets the commands package retrieve the logger from context without an
// import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
