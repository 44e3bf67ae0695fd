package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dudu/facerig/internal/calibration"
	"github.com/dudu/facerig/internal/regression"
)

// Config holds the host configuration
type Config struct {
	Listen      string `yaml:"listen"`
	ProfilePath string `yaml:"profile_path"`

	// Models are the cold-start constants used until the first calibration
	Models regression.ModelSet `yaml:"models"`

	// PoseInstructions are shown to the user for each calibration step
	PoseInstructions []string `yaml:"pose_instructions"`

	// RecordLimit pose recordings are allowed per RecordWindow, which keeps
	// a double click from skipping a protocol step
	RecordLimit  int           `yaml:"record_limit"`
	RecordWindow time.Duration `yaml:"record_window"`

	// MaxMessageBytes bounds one websocket landmark message
	MaxMessageBytes int64 `yaml:"max_message_bytes"`
}

// DefaultModels are the pre-trained cold-start constants. They were fit on
// the raw mouth ratio and the x-only scale proxy.
var DefaultModels = regression.ModelSet{
	LeftEye:  regression.Model{Alpha0: 0.004, Alpha1: -0.0005, Beta: 0.1},
	RightEye: regression.Model{Alpha0: 0.004, Alpha1: -0.0005, Beta: 0.1},
	Mouth:    regression.Model{Alpha0: 0.0008, Alpha1: -0.0005, Beta: 0.2},
}

// DefaultConfig returns a config with every field populated
func DefaultConfig() *Config {
	instructions := make([]string, len(calibration.DefaultInstructions))
	copy(instructions, calibration.DefaultInstructions)
	return &Config{
		Listen:           ":8090",
		ProfilePath:      "profile.yaml",
		Models:           DefaultModels,
		PoseInstructions: instructions,
		RecordLimit:      2,
		RecordWindow:     time.Second,
		MaxMessageBytes:  1024 * 1024,
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for values the host cannot run with
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is empty")
	}
	if len(c.PoseInstructions) != calibration.PoseCount {
		return fmt.Errorf("need %d pose instructions, got %d", calibration.PoseCount, len(c.PoseInstructions))
	}
	if c.RecordLimit <= 0 || c.RecordWindow <= 0 {
		return fmt.Errorf("record rate limit must be positive (%d per %v)", c.RecordLimit, c.RecordWindow)
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("max_message_bytes must be positive")
	}
	return nil
}

// Instruction returns the prompt for a protocol step
func (c *Config) Instruction(poseIndex int) string {
	if poseIndex < 0 || poseIndex >= len(c.PoseInstructions) {
		return ""
	}
	return c.PoseInstructions[poseIndex]
}
