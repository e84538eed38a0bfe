// Package config loads condsel configuration.
//
// Configuration is written in CUE. The embedded schema supplies types and
// defaults; a user file is unified with it, so unknown fields and invalid
// values fail with a position.
//
//	match: "regex"
//	control: prefix: true
//	workers: 4
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/condsel/internal/catalog"
	"github.com/roach88/condsel/internal/match"
)

//go:embed schema.cue
var schemaCUE string

// Config is the decoded configuration.
type Config struct {
	Match      string  `json:"match"`
	Control    Control `json:"control"`
	Workers    int     `json:"workers"`
	Catalog    string  `json:"catalog,omitempty"`
	Database   string  `json:"database,omitempty"`
	Bioproject string  `json:"bioproject,omitempty"`
}

// Control configures the control-inclusion filter.
type Control struct {
	Level        string `json:"level"`
	Prefix       bool   `json:"prefix"`
	SuggestExact bool   `json:"suggest_exact"`
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Default returns the schema defaults.
func Default() Config {
	cfg, err := Parse(nil, "")
	if err != nil {
		// The embedded schema is fixed; failing here is a build defect.
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	return cfg
}

// Load reads the CUE file at path and unifies it with the schema.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse unifies CUE source with the schema and decodes the result.
// filename is only used in error positions.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}
	v := schema.LookupPath(cue.ParsePath("config"))

	if len(data) > 0 {
		user := ctx.CompileBytes(data, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return Config{}, formatCUEError(err)
		}
		v = v.Unify(user)
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}
	return cfg, nil
}

// MatchMode returns the configured equality mode.
func (c Config) MatchMode() (match.Mode, error) {
	return match.ParseMode(c.Match)
}

// ControlLevel returns the configured control level.
func (c Config) ControlLevel() catalog.ControlLevel {
	return catalog.ControlLevel{Value: c.Control.Level, Prefix: c.Control.Prefix}
}

// SelectorOptions builds catalog selector options from the configuration.
func (c Config) SelectorOptions(logger *slog.Logger) (catalog.Options, error) {
	mode, err := c.MatchMode()
	if err != nil {
		return catalog.Options{}, err
	}
	return catalog.Options{
		Bioproject:          c.Bioproject,
		Control:             c.ControlLevel(),
		ExactSuggestControl: c.Control.SuggestExact,
		Workers:             c.Workers,
		Matcher:             match.NewMatcher(mode),
		Logger:              logger,
	}, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &ConfigError{Message: first.Error(), Pos: positions[0]}
	}
	return &ConfigError{Message: first.Error()}
}
