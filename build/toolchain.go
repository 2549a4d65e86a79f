package build

import (
	"context"
	"fmt"

	"github.com/arloliu/autofmu/errs"
)

// Config is one configure/build invocation.
type Config struct {
	SourceDir string   // SourceDir holds CMakeLists.txt and sources/.
	BuildDir  string   // BuildDir receives the build tree.
	Project   string   // Project is the model identifier.
	Platform  Platform // Platform is the target platform.
	Compiler  string   // Compiler is the resolved C compiler of a cross target, empty for the host.
}

// Toolchain configures and builds the extracted FMU sources.
type Toolchain interface {
	// Available reports whether the toolchain can run on this machine.
	Available(ctx context.Context) error
	// Configure prepares cfg.BuildDir.
	Configure(ctx context.Context, cfg Config) error
	// Build compiles the configured tree.
	Build(ctx context.Context, cfg Config) error
}

// DefaultCMake is the cmake command used when none is configured.
const DefaultCMake = "cmake"

// CMake drives the cmake command line tool.
type CMake struct {
	Command   string // Command is the cmake executable, DefaultCMake when empty.
	Generator string // Generator is passed as -G when set.
	BuildType string // BuildType is CMAKE_BUILD_TYPE, "Release" when empty.
	Runner    Runner
}

// NewCMake returns a CMake toolchain running commands through runner.
func NewCMake(runner Runner) *CMake {
	return &CMake{Command: DefaultCMake, BuildType: "Release", Runner: runner}
}

func (c *CMake) command() string {
	if c.Command == "" {
		return DefaultCMake
	}

	return c.Command
}

func (c *CMake) buildType() string {
	if c.BuildType == "" {
		return "Release"
	}

	return c.BuildType
}

func (c *CMake) Available(_ context.Context) error {
	if _, err := c.Runner.LookPath(c.command()); err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrToolchainNotFound, c.command(), err)
	}

	return nil
}

// ConfigureArgs returns the cmake arguments of the configure step.
func (c *CMake) ConfigureArgs(cfg Config) []string {
	args := []string{
		"-S", cfg.SourceDir,
		"-B", cfg.BuildDir,
		"-DFMU_MODEL_IDENTIFIER=" + cfg.Project,
		"-DCMAKE_BUILD_TYPE=" + c.buildType(),
	}
	if c.Generator != "" {
		args = append(args, "-G", c.Generator)
	}
	if cfg.Compiler != "" {
		args = append(args,
			"-DCMAKE_SYSTEM_NAME="+cfg.Platform.System,
			"-DCMAKE_C_COMPILER="+cfg.Compiler,
		)
	}

	return args
}

func (c *CMake) Configure(ctx context.Context, cfg Config) error {
	_, err := c.Runner.Run(ctx, cfg.SourceDir, c.command(), c.ConfigureArgs(cfg)...)
	return err
}

func (c *CMake) Build(ctx context.Context, cfg Config) error {
	_, err := c.Runner.Run(ctx, cfg.SourceDir, c.command(), "--build", cfg.BuildDir, "--config", c.buildType())
	return err
}
