package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/acadops/secondmark/core/metrics"
)

type Config struct {
	Input   InputConfig    `json:"input"`
	Output  OutputConfig   `json:"output"`
	RunLog  RunLogConfig   `json:"runlog"`
	Metrics metrics.Config `json:"metrics"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Input.SetDefaults()
	cfg.Output.SetDefaults()
	cfg.RunLog.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.RunLog.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// InputConfig names the three input tables of an allocation run.
type InputConfig struct {
	// Projects is the project table awaiting second assessors.
	Projects string `json:"projects"`
	// SupervisorSet is the merged per-supervisor profile table.
	SupervisorSet string `json:"supervisor_set"`
	// Capacity is the per-supervisor capacity sheet.
	Capacity string `json:"capacity"`
}

// SetDefaults applies the conventional file names.
func (c *InputConfig) SetDefaults() {
	if c.Projects == "" {
		c.Projects = "projects.csv"
	}
	if c.SupervisorSet == "" {
		c.SupervisorSet = "supervisor_set.csv"
	}
	if c.Capacity == "" {
		c.Capacity = "capacity.csv"
	}
}

// OutputConfig names the result tables.
type OutputConfig struct {
	// Assignments receives the augmented project table.
	Assignments string `json:"assignments"`
	// Capacity receives the updated per-assessor load report.
	Capacity string `json:"capacity"`
	// Format selects the output encoding: "csv" or "json".
	Format string `json:"format"`
}

// SetDefaults applies the conventional file names.
func (c *OutputConfig) SetDefaults() {
	if c.Assignments == "" {
		c.Assignments = "projects_with_second_assessors.csv"
	}
	if c.Capacity == "" {
		c.Capacity = "capacity_updated.csv"
	}
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("unknown output format %s", c.Format)
	}
	return nil
}
