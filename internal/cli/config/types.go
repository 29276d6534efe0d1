// Package config loads CLI configuration from takeline.yaml, environment
// variables, and flags, and wraps the project settings consumed by the
// extraction engine.
package config

import (
	intconfig "github.com/takeline-labs/takeline/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is the directory takeline.yaml was found in, or the
	// working directory. Relative paths resolve against it.
	ProjectRoot string `koanf:"-"`

	Drawing      string `koanf:"drawing"`
	GroundTruth  string `koanf:"ground_truth"`
	StatePath    string `koanf:"state_path"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// Vision settings for the optional model-assisted count check.
	GeminiAPIKey string `koanf:"gemini_api_key"`
	VisionModel  string `koanf:"vision_model"`

	Project intconfig.Project `koanf:"project"`
}

// Default configuration values.
const (
	DefaultStateFile = ".takeline/state.db"
	DefaultOutput    = "auto" // TTY gets tables, non-TTY plain text
)
