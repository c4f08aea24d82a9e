// Package config loads and validates annotation process configuration.
//
// Configuration comes from an optional YAML file with command-line flags
// layered on top; the merged result is validated against the embedded CUE
// schema before any session is created. All configuration values are
// constants for the session's lifetime.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Error codes for configuration failures.
const (
	ErrCodeNotFound = "CONFIG_NOT_FOUND"
	ErrCodeParse    = "CONFIG_PARSE"
	ErrCodeInvalid  = "CONFIG_INVALID"
)

// ConfigError represents a fatal startup configuration problem.
type ConfigError struct {
	Code    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Config holds the process configuration for one annotation session.
type Config struct {
	// Annotator is the identity string recorded with every annotation.
	Annotator string `json:"annotator" yaml:"annotator"`

	// Batch is the path to the input batch resource.
	Batch string `json:"batch" yaml:"batch"`

	// Start is the requested starting index.
	Start int `json:"start" yaml:"start"`

	// Backend selects the record store implementation ("csv" or "sqlite").
	Backend string `json:"backend" yaml:"backend"`

	// AnnotationsDir is where record resources are placed.
	AnnotationsDir string `json:"annotations_dir" yaml:"annotations_dir"`
}

// Default returns the configuration before any file or flag input.
func Default() Config {
	return Config{
		Backend:        "csv",
		AnnotationsDir: "annotations",
	}
}

// LoadFile reads a YAML configuration file over the defaults.
// The result is not yet validated; call Validate after flag overrides are
// applied.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, &ConfigError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return cfg, &ConfigError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading config file: %v", err)}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Code: ErrCodeParse, Message: fmt.Sprintf("invalid YAML in %s: %v", path, err)}
	}
	return cfg, nil
}

// Validate checks the configuration against the embedded CUE schema.
// Returns a ConfigError describing the first violation found.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup config schema: %w", err)
	}

	unified := def.Unify(ctx.Encode(c))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ConfigError{Code: ErrCodeInvalid, Message: err.Error()}
	}
	return nil
}
