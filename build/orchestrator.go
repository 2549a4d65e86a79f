package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/arloliu/autofmu/archive"
	"github.com/arloliu/autofmu/assets"
	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/internal/logging"
	"github.com/arloliu/autofmu/internal/options"
)

type orchestratorConfig struct {
	timeout   time.Duration
	runner    Runner
	toolchain Toolchain
	cmake     string
	generator string
	workDir   string
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option = options.Option[*orchestratorConfig]

// WithTimeout caps the wall-clock time of every configure and build step. Zero
// disables the cap. An expired step fails like any other build failure.
func WithTimeout(d time.Duration) Option {
	return options.New(func(cfg *orchestratorConfig) error {
		if d < 0 {
			return fmt.Errorf("%w: negative build timeout %s", errs.ErrInput, d)
		}
		cfg.timeout = d

		return nil
	})
}

// WithRunner sets the command runner of the default CMake toolchain and of toolchain
// lookups. The default is ExecRunner.
func WithRunner(r Runner) Option {
	return options.NoError(func(cfg *orchestratorConfig) {
		if r != nil {
			cfg.runner = r
		}
	})
}

// WithToolchain replaces the CMake toolchain.
func WithToolchain(tc Toolchain) Option {
	return options.NoError(func(cfg *orchestratorConfig) {
		cfg.toolchain = tc
	})
}

// WithCMake sets the cmake executable, a PATH command name or an absolute path.
func WithCMake(command string) Option {
	return options.NoError(func(cfg *orchestratorConfig) {
		cfg.cmake = command
	})
}

// WithGenerator sets the CMake generator, e.g. "Ninja".
func WithGenerator(generator string) Option {
	return options.NoError(func(cfg *orchestratorConfig) {
		cfg.generator = generator
	})
}

// WithWorkDir sets the parent directory of scratch directories. The default is the
// system temporary directory.
func WithWorkDir(dir string) Option {
	return options.NoError(func(cfg *orchestratorConfig) {
		cfg.workDir = dir
	})
}

// WithLogger sets the logger. By default the logger is taken from the Compile context.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(cfg *orchestratorConfig) {
		cfg.logger = logger
	})
}

// Orchestrator compiles FMU sources for the host and for cross targets.
type Orchestrator struct {
	cfg orchestratorConfig
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(opts ...Option) (*Orchestrator, error) {
	cfg := orchestratorConfig{runner: NewExecRunner()}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.toolchain == nil {
		cmake := NewCMake(cfg.runner)
		if cfg.cmake != "" {
			cmake.Command = cfg.cmake
		}
		cmake.Generator = cfg.generator
		cfg.toolchain = cmake
	}

	return &Orchestrator{cfg: cfg}, nil
}

// Binary is a library inserted into the artifact.
type Binary struct {
	Platform string
	Path     string
	Size     int
}

// Diagnostic is a non-fatal outcome of a cross target.
type Diagnostic struct {
	Target  Target
	Skipped bool // Skipped is set when the target's toolchain was not found.
	Err     error
}

func (d Diagnostic) String() string {
	if d.Skipped {
		return fmt.Sprintf("%s: skipped: %v", d.Target, d.Err)
	}

	return fmt.Sprintf("%s: failed: %v", d.Target, d.Err)
}

// Report summarizes a Compile call.
type Report struct {
	Host        Platform
	Binaries    []Binary
	Diagnostics []Diagnostic
}

// Compile builds the artifact's sources and adds the resulting libraries to art.
//
// Parameters:
//   - ctx: Carries the logger and bounds every external command
//   - art: The packaged sources; binaries are added in place
//   - modelIdentifier: Project name and library base name
//   - targets: Optional cross targets
//
// Returns:
//   - *Report: The inserted binaries and the diagnostics of cross targets
//   - error: errs.ErrBuild (or a more specific build error) if the host build fails;
//     art may then hold no new entries
func (o *Orchestrator) Compile(ctx context.Context, art *archive.Artifact, modelIdentifier string, targets []Target) (*Report, error) {
	logger := o.cfg.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	host, err := HostPlatform()
	if err != nil {
		return nil, err
	}
	if err := o.cfg.toolchain.Available(ctx); err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp(o.cfg.workDir, "autofmu-build-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create scratch directory: %w", errs.ErrBuild, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			logger.Warn("failed to remove build directory", "dir", scratch, "error", rmErr)
		}
	}()

	if err := art.Extract(scratch); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(scratch, "CMakeLists.txt"), assets.CMakeLists(), 0o644); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrBuild, err)
	}

	report := &Report{Host: host}

	logger.Debug("building host binary", "platform", host.Tag, "model", modelIdentifier)
	bin, err := o.compileFor(ctx, art, scratch, modelIdentifier, host, "")
	if err != nil {
		return nil, fmt.Errorf("%w: host platform %s: %w", errs.ErrBuild, host.Tag, err)
	}
	report.Binaries = append(report.Binaries, bin)
	logger.Info("built binary", "platform", host.Tag, "path", bin.Path, "size", bin.Size)

	for _, target := range targets {
		bin, diag := o.compileTarget(ctx, art, scratch, modelIdentifier, target)
		if diag != nil {
			if diag.Skipped {
				logger.Info("skipping cross target", "target", target.String(), "reason", diag.Err)
			} else {
				logger.Warn("cross target failed", "target", target.String(), "error", diag.Err)
			}
			report.Diagnostics = append(report.Diagnostics, *diag)

			continue
		}

		report.Binaries = append(report.Binaries, bin)
		logger.Info("built binary", "platform", target.Platform, "path", bin.Path, "size", bin.Size)
	}

	return report, nil
}

func (o *Orchestrator) compileTarget(ctx context.Context, art *archive.Artifact, scratch, modelIdentifier string, target Target) (Binary, *Diagnostic) {
	platform, err := LookupPlatform(target.Platform)
	if err != nil {
		return Binary{}, &Diagnostic{Target: target, Err: err}
	}

	compiler, err := o.cfg.runner.LookPath(target.Toolchain)
	if err != nil {
		return Binary{}, &Diagnostic{
			Target:  target,
			Skipped: true,
			Err:     fmt.Errorf("%w: %s: %w", errs.ErrToolchainNotFound, target.Toolchain, err),
		}
	}

	bin, err := o.compileFor(ctx, art, scratch, modelIdentifier, platform, compiler)
	if err != nil {
		return Binary{}, &Diagnostic{Target: target, Err: fmt.Errorf("%w: %w", errs.ErrBuild, err)}
	}

	return bin, nil
}

func (o *Orchestrator) compileFor(ctx context.Context, art *archive.Artifact, scratch, modelIdentifier string, platform Platform, compiler string) (Binary, error) {
	cfg := Config{
		SourceDir: scratch,
		BuildDir:  filepath.Join(scratch, "build", platform.Tag),
		Project:   modelIdentifier,
		Platform:  platform,
		Compiler:  compiler,
	}

	if err := o.step(ctx, "configure", func(ctx context.Context) error { return o.cfg.toolchain.Configure(ctx, cfg) }); err != nil {
		return Binary{}, err
	}
	if err := o.step(ctx, "build", func(ctx context.Context) error { return o.cfg.toolchain.Build(ctx, cfg) }); err != nil {
		return Binary{}, err
	}

	found, err := findBinary(cfg.BuildDir, modelIdentifier, platform.Ext)
	if err != nil {
		return Binary{}, err
	}
	data, err := os.ReadFile(found)
	if err != nil {
		return Binary{}, fmt.Errorf("%w: %w", errs.ErrBinaryNotFound, err)
	}

	// Importers look the library up by the platform's extension, even when the
	// toolchain produced a fallback one.
	path := platform.BinaryPath(modelIdentifier)
	if err := art.Add(path, data); err != nil {
		return Binary{}, err
	}

	return Binary{Platform: platform.Tag, Path: path, Size: len(data)}, nil
}

func (o *Orchestrator) step(ctx context.Context, name string, fn func(context.Context) error) error {
	if o.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.timeout)
		defer cancel()
	}

	if err := fn(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w: %w", name, ctxErr, err)
		}

		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

var nativeExts = []string{".so", ".dll", ".dylib"}

// findBinary returns the first library under dir named modelIdentifier with the
// preferred extension, falling back to any other native library extension.
func findBinary(dir, modelIdentifier, preferredExt string) (string, error) {
	candidates := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range nativeExts {
			if d.Name() == modelIdentifier+ext {
				if _, seen := candidates[ext]; !seen {
					candidates[ext] = path
				}
			}
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrBinaryNotFound, err)
	}

	if path, ok := candidates[preferredExt]; ok {
		return path, nil
	}
	for _, ext := range nativeExts {
		if path, ok := candidates[ext]; ok {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s%s in %s", errs.ErrBinaryNotFound, modelIdentifier, preferredExt, dir)
}
