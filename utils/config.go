package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"ffnet/m"

	"gopkg.in/yaml.v3"
)

// Config holds training configuration
type Config struct {
	// Architecture is input, hidden and output width, e.g. "3 4 2" on the command line.
	Architecture []int   `yaml:"architecture"`
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
	Seed         int64   `yaml:"seed"`
	Model        string  `yaml:"model"`
	DataPath     string  `yaml:"data"`
	CanvasWidth  float64 `yaml:"canvas_width"`
}

// Overrides captures CLI supplied values. Zero values leave the config alone.
type Overrides struct {
	Architecture []int
	LearningRate float64
	Epochs       int
	Seed         int64
	Model        string
	DataPath     string
}

// DefaultConfig matches the network the jump agent was tuned with.
func DefaultConfig() *Config {
	return &Config{
		Architecture: []int{3, 4, 2},
		LearningRate: 0.5,
		Epochs:       20,
		Model:        "crashlog",
		CanvasWidth:  600,
	}
}

// XORConfig is the two-input smoke test: 2-4-2, 200 epochs.
func XORConfig() *Config {
	return &Config{
		Architecture: []int{2, 4, 2},
		LearningRate: 0.5,
		Epochs:       200,
		Model:        "xor",
		CanvasWidth:  600,
	}
}

// BaseConfig returns the defaults for model: XORConfig for "xor" or no model,
// DefaultConfig for everything else.
func BaseConfig(model string) *Config {
	if model == "" || model == "xor" {
		return XORConfig()
	}
	return DefaultConfig()
}

// LoadConfig reads a YAML config on top of the defaults of its model. A non-empty
// model, typically from the command line, takes precedence over the file's when
// choosing those defaults.
func LoadConfig(path, model string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	if model == "" {
		var head struct {
			Model string `yaml:"model"`
		}
		if err := yaml.Unmarshal(data, &head); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		model = head.Model
	}
	cfg := BaseConfig(model)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if len(o.Architecture) > 0 {
		c.Architecture = o.Architecture
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.DataPath != "" {
		c.DataPath = o.DataPath
	}
}

// Options converts a validated config into network options.
func (c *Config) Options() m.Options {
	return m.Options{
		InputCount:   c.Architecture[0],
		HiddenCount:  c.Architecture[1],
		OutputCount:  c.Architecture[2],
		LearningRate: c.LearningRate,
		Epochs:       c.Epochs,
		Seed:         c.Seed,
	}
}

// ParseArchitecture parses architecture string into slice of integers
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.Fields(archStr)
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if len(config.Architecture) != 3 {
		return fmt.Errorf("architecture must have exactly 3 layers (input, hidden, output), got %d", len(config.Architecture))
	}

	for i, n := range config.Architecture {
		if n <= 0 {
			return fmt.Errorf("layer %d width must be positive (got %d)", i, n)
		}
	}

	if config.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}

	if config.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}

	switch config.Model {
	case "xor":
		if config.Architecture[0] != 2 || config.Architecture[2] != 2 {
			return fmt.Errorf("xor model needs 2 inputs and 2 outputs, got %v", config.Architecture)
		}
	case "csv":
		if config.DataPath == "" {
			return fmt.Errorf("csv model needs a data path")
		}
	case "crashlog":
		if config.DataPath == "" {
			return fmt.Errorf("crashlog model needs a data path")
		}
		if config.Architecture[0] != 3 || config.Architecture[2] != 2 {
			return fmt.Errorf("crashlog model needs 3 inputs and 2 outputs, got %v", config.Architecture)
		}
		if config.CanvasWidth <= 0 {
			return fmt.Errorf("canvas width must be positive")
		}
	default:
		return fmt.Errorf("unknown model %q", config.Model)
	}

	return nil
}
