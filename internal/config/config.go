package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/behave/internal/core/bt"
	"github.com/zeusync/behave/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

var validate = validator.New()

// Restart decides what the host does with a tree that finished its run.
type Restart string

const (
	RestartNever     Restart = "never"
	RestartAlways    Restart = "always"
	RestartOnSuccess Restart = "on_success"
	RestartOnFail    Restart = "on_fail"
)

// Config drives a host and the trees it spawns on start.
type Config struct {
	FrameRate int          `yaml:"frame_rate" validate:"gt=0"`
	LogLevel  string       `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error fatal"`
	MaxFrames uint64       `yaml:"max_frames"`
	Restart   Restart      `yaml:"restart" validate:"oneof=never always on_success on_fail"`
	Pool      PoolConfig   `yaml:"pool"`
	Trees     []TreeConfig `yaml:"trees" validate:"dive"`
}

type PoolConfig struct {
	Prewarm bt.PoolSizes `yaml:"prewarm"`
}

// TreeConfig spawns Count instances of the definition in File. Relative paths
// resolve against the config file directory.
type TreeConfig struct {
	Name  string `yaml:"name"`
	File  string `yaml:"file" validate:"required"`
	Count int    `yaml:"count" validate:"gte=0"`
}

func Default() Config {
	return Config{
		FrameRate: 30,
		LogLevel:  log.LevelInfo.String(),
		Restart:   RestartNever,
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range cfg.Trees {
		if cfg.Trees[i].File != "" && !filepath.IsAbs(cfg.Trees[i].File) {
			cfg.Trees[i].File = filepath.Join(dir, cfg.Trees[i].File)
		}
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for i := range cfg.Trees {
		if cfg.Trees[i].Count == 0 {
			cfg.Trees[i].Count = 1
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// FrameInterval is the wall time between two host frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Level is the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return l
}
