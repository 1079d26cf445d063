// Package config holds the machine configuration of the R32 emulator.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DebugEnv is the environment variable that turns on instruction tracing.
const DebugEnv = "DEBUGGING"

// Config describes how a machine is built and booted.
type Config struct {
	// Pages is the number of memory pages. Default: 128.
	Pages uint64 `json:"pages" yaml:"pages"`

	// PageSize is the size of a page in bytes. Default: 512.
	PageSize uint64 `json:"page_size" yaml:"page_size"`

	// Paged selects lazily allocated pages instead of one flat array.
	Paged bool `json:"paged" yaml:"paged"`

	// BootAddress is the reset value of pc. Default: 0xF000.
	BootAddress uint32 `json:"boot_address" yaml:"boot_address"`

	// StackPointer is the reset value of sp. Default: 0x0100.
	StackPointer uint32 `json:"stack_pointer" yaml:"stack_pointer"`

	// MaxInstructions stops a run after this many ticks. 0 means no limit.
	MaxInstructions uint64 `json:"max_instructions" yaml:"max_instructions"`

	// Seed is the initial seed of the random number generator. Default: 1.
	Seed int64 `json:"seed" yaml:"seed"`

	// LogLevel is a logrus level name. Default: "info".
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Default returns the power-on configuration.
func Default() *Config {
	return &Config{
		Pages:        128,
		PageSize:     512,
		BootAddress:  0xF000,
		StackPointer: 0x0100,
		Seed:         1,
		LogLevel:     logrus.InfoLevel.String(),
	}
}

// Capacity returns the memory size in bytes.
func (c *Config) Capacity() uint64 {
	return c.Pages * c.PageSize
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a Config from a JSON or YAML file. Fields missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return c, nil
}

// Save writes the Config to a file, as YAML when the extension says so and
// as JSON otherwise.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the machine described by the Config can be built.
func (c *Config) Validate() error {
	if c.Pages == 0 {
		return errors.New("pages must be > 0")
	}
	if c.PageSize == 0 {
		return errors.New("page_size must be > 0")
	}
	if c.Capacity()/c.PageSize != c.Pages || c.Capacity() > 1<<32 {
		return fmt.Errorf("memory of %d x %d bytes exceeds the 32-bit address space",
			c.Pages, c.PageSize)
	}
	if uint64(c.BootAddress)+4 > c.Capacity() {
		return fmt.Errorf("boot_address 0x%X is outside memory", c.BootAddress)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty LogLevel means info.
func (c *Config) Level() (logrus.Level, error) {
	if c.LogLevel == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// ApplyEnv raises the log level to trace when DEBUGGING=true.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if strings.EqualFold(getenv(DebugEnv), "true") {
		c.LogLevel = logrus.TraceLevel.String()
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
