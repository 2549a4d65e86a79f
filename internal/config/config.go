// Package config loads the optional YAML configuration file of the autofmu command.
//
// A configuration file provides defaults for command-line flags:
//
//	strategy: logistic
//	outfile: build/classifier.fmu
//	compression: deflate
//	fit:
//	  max_iterations: 200
//	  regularization: 0.5
//	build:
//	  timeout: 5m
//	  generator: Ninja
//	  targets:
//	    - platform: win64
//	      toolchain: x86_64-w64-mingw32-gcc
//	log:
//	  level: debug
//	  format: json
//
// Unknown keys are rejected, and every value is validated with go-playground/validator.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/autofmu/errs"
)

// Config is the content of a configuration file.
type Config struct {
	Strategy          string `yaml:"strategy" validate:"omitempty,oneof=linear logistic"`
	Outfile           string `yaml:"outfile"`
	Compression       string `yaml:"compression" validate:"omitempty,oneof=none store deflate zstd"`
	UnicodeIdentifier bool   `yaml:"unicode_identifier"`
	Fit               Fit    `yaml:"fit"`
	Build             Build  `yaml:"build"`
	Log               Log    `yaml:"log"`
}

// Fit holds strategy tuning.
type Fit struct {
	MaxIterations  int     `yaml:"max_iterations" validate:"gte=0"`
	Regularization float64 `yaml:"regularization" validate:"gte=0"`
}

// Build holds native build settings.
type Build struct {
	Skip      bool          `yaml:"skip"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	Generator string        `yaml:"generator"`
	CMake     string        `yaml:"cmake"`
	Targets   []Target      `yaml:"targets" validate:"dive"`
}

// Target is a cross-compilation target.
type Target struct {
	Platform  string `yaml:"platform" validate:"required"`
	Toolchain string `yaml:"toolchain" validate:"required"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Strategy:    "linear",
		Outfile:     "model.fmu",
		Compression: "deflate",
		Log:         Log{Level: "info", Format: "text"},
	}
}

// Load reads the configuration file at path. Keys missing from the file keep their
// Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read config: %w", errs.ErrInput, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse config: %w", errs.ErrInput, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
})

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", errs.ErrInput, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}

	return fmt.Errorf("%w: invalid config: %s", errs.ErrInput, strings.Join(msgs, "; "))
}
