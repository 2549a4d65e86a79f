package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/autofmu/errs"
)

const fullConfig = `
strategy: logistic
outfile: out/classifier.fmu
compression: zstd
unicode_identifier: true
fit:
  max_iterations: 250
  regularization: 0.5
build:
  timeout: 90s
  generator: Ninja
  cmake: /opt/cmake/bin/cmake
  targets:
    - platform: win64
      toolchain: x86_64-w64-mingw32-gcc
log:
  level: debug
  format: json
`

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	require.Equal(t, &Config{
		Strategy:          "logistic",
		Outfile:           "out/classifier.fmu",
		Compression:       "zstd",
		UnicodeIdentifier: true,
		Fit:               Fit{MaxIterations: 250, Regularization: 0.5},
		Build: Build{
			Timeout:   90 * time.Second,
			Generator: "Ninja",
			CMake:     "/opt/cmake/bin/cmake",
			Targets:   []Target{{Platform: "win64", Toolchain: "x86_64-w64-mingw32-gcc"}},
		},
		Log: Log{Level: "debug", Format: "json"},
	}, cfg)
}

func TestParse_DefaultsKept(t *testing.T) {
	cfg, err := Parse([]byte("strategy: logistic\n"))
	require.NoError(t, err)
	require.Equal(t, "logistic", cfg.Strategy)
	require.Equal(t, "model.fmu", cfg.Outfile)
	require.Equal(t, "deflate", cfg.Compression)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown strategy", "strategy: neural\n", "strategy"},
		{"unknown compression", "compression: brotli\n", "compression"},
		{"negative iterations", "fit:\n  max_iterations: -1\n", "fit.max_iterations"},
		{"target without toolchain", "build:\n  targets:\n    - platform: win64\n", "build.targets[0].toolchain"},
		{"bad log format", "log:\n  format: xml\n", "log.format"},
		{"unknown key", "stratgy: linear\n", "stratgy"},
		{"bad duration", "build:\n  timeout: soon\n", "time.Duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, errs.ErrInput)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autofmu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "logistic", cfg.Strategy)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, errs.ErrInput)
}
