package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/vine-io/bpmnkit"
	"github.com/vine-io/bpmnkit/bpmn"
	"github.com/vine-io/bpmnkit/graph"
)

const DefaultConfigPath = "~/.bpmnkit.yaml"

// Config is read from the configuration file, flags win over it.
type Config struct {
	Indent       int    `yaml:"indent"`
	Heuristics   bool   `yaml:"heuristics"`
	IDPrefix     string `yaml:"idPrefix"`
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes"`
	Workers      int    `yaml:"workers"`
}

func defaultConfig() *Config {
	return &Config{
		Indent:       bpmn.DefaultIndent,
		Heuristics:   true,
		IDPrefix:     graph.DefaultPrefix,
		Addr:         ":8080",
		MaxBodyBytes: bpmnkit.DefaultMaxBodyBytes,
		Workers:      4,
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}

	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c, nil
}

// override applies the flags set on the command line.
func (c *Config) override(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("indent") {
		c.Indent, _ = flags.GetInt("indent")
	}
	if flags.Changed("heuristics") {
		c.Heuristics, _ = flags.GetBool("heuristics")
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		c.Addr = f.Value.String()
	}
	if f := flags.Lookup("workers"); f != nil && f.Changed {
		c.Workers, _ = flags.GetInt("workers")
	}
}

func (c *Config) exportOptions() []bpmn.Option {
	return []bpmn.Option{
		bpmn.WithIndent(c.Indent),
		bpmn.WithLabelHeuristics(c.Heuristics),
	}
}

func (c *Config) importOptions() []bpmn.Option {
	return []bpmn.Option{bpmn.WithIDPrefix(c.IDPrefix)}
}
