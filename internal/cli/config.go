package cli

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var configSchema string

// Config is the optional YAML configuration. Flags override file values.
type Config struct {
	Server struct {
		DSN string `yaml:"dsn" json:"dsn,omitempty"`
	} `yaml:"server" json:"server,omitempty"`

	Journal struct {
		Path string `yaml:"path" json:"path,omitempty"`
	} `yaml:"journal" json:"journal,omitempty"`

	Source struct {
		Dir string `yaml:"dir" json:"dir,omitempty"`
	} `yaml:"source" json:"source,omitempty"`

	Scope struct {
		Schema     string `yaml:"schema" json:"schema,omitempty"`
		Name       string `yaml:"name" json:"name,omitempty"`
		LegacyOnly bool   `yaml:"legacy_only" json:"legacy_only,omitempty"`
	} `yaml:"scope" json:"scope,omitempty"`

	Batch struct {
		Size          int `yaml:"size" json:"size,omitempty"`
		ProgressEvery int `yaml:"progress_every" json:"progress_every,omitempty"`
	} `yaml:"batch" json:"batch,omitempty"`
}

// LoadConfig reads and validates a YAML config file. An empty path returns a
// zero config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig unifies the parsed config with the embedded CUE schema.
func validateConfig(cfg Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if schema.Err() != nil {
		return fmt.Errorf("compile schema: %w", schema.Err())
	}

	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	value := ctx.CompileBytes(jsonBytes)
	if value.Err() != nil {
		return fmt.Errorf("compile config: %w", value.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if def.Err() != nil {
		return fmt.Errorf("lookup #Config: %w", def.Err())
	}
	if err := def.Unify(value).Validate(cue.Concrete(false)); err != nil {
		return err
	}
	return nil
}
