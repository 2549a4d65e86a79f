// Package autofmu generates Functional Mock-up Units (FMI 2.0) from tabular data.
//
// A generation run fits a model that maps input columns to output columns, describes
// the model in modelDescription.xml, renders C source implementing the FMI 2.0 API with
// the fitted parameters as literals, packages everything into an archive and compiles
// the sources for the host and optional cross targets.
//
// # Basic Usage
//
//	table, _ := dataset.Load("measurements.csv")
//
//	res, err := autofmu.Generate(ctx, autofmu.Request{
//	    Table:    table,
//	    Inputs:   []string{"x", "y"},
//	    Outputs:  []string{"z"},
//	    Strategy: format.StrategyLinear,
//	    Outfile:  "plant.fmu",
//	})
//	if err != nil {
//	    // errors.Is(err, errs.ErrInput), errs.ErrBuild, ...
//	}
//	fmt.Println(res.ModelIdentifier, res.Fit.Score())
//
// # Package Structure
//
// Generate wires the strategy, modeldesc, codegen, archive and build packages
// together. Each of them can also be used on its own.
package autofmu

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/autofmu/archive"
	"github.com/arloliu/autofmu/assets"
	"github.com/arloliu/autofmu/build"
	"github.com/arloliu/autofmu/codegen"
	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
	"github.com/arloliu/autofmu/internal/logging"
	"github.com/arloliu/autofmu/internal/options"
	"github.com/arloliu/autofmu/modeldesc"
	"github.com/arloliu/autofmu/slug"
	"github.com/arloliu/autofmu/strategy"
)

// Version is the autofmu release.
const Version = "0.3.0"

// Tool is the generationTool recorded in every model description.
const Tool = "autofmu " + Version

// DefaultOutfile is the output path used by the command line tool.
const DefaultOutfile = "model.fmu"

// Request describes one generation run.
type Request struct {
	// Table is the training data.
	Table strategy.Table
	// Inputs and Outputs name the columns mapped to FMU variables, in order.
	Inputs  []string
	Outputs []string
	// Strategy selects the fitted model.
	Strategy format.StrategyKind
	// ModelName is the FMI model name. When empty, the stem of Outfile is used.
	ModelName string
	// Outfile is where the archive is written. When empty, nothing is written and the
	// archive is only returned.
	Outfile string
}

// Result is the outcome of a successful Generate call.
type Result struct {
	ModelName       string
	ModelIdentifier string
	GUID            string
	Fit             strategy.Result
	Descriptor      *modeldesc.Descriptor
	Artifact        *archive.Artifact
	// Build is nil when the build was disabled with WithoutBuild.
	Build *build.Report
	// Outfile is the written archive, empty if Request.Outfile was empty.
	Outfile string
}

type generateConfig struct {
	compression  format.CompressionType
	fitOpts      []strategy.FitOption
	buildOpts    []build.Option
	targets      []build.Target
	skipBuild    bool
	allowUnicode bool
	guid         string
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures Generate.
type Option = options.Option[*generateConfig]

// WithCompression sets the zip method of the archive entries.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(cfg *generateConfig) error {
		if _, err := archive.New(archive.WithCompression(ct)); err != nil {
			return err
		}
		cfg.compression = ct

		return nil
	})
}

// WithFitOptions passes options to strategy.Fit.
func WithFitOptions(opts ...strategy.FitOption) Option {
	return options.NoError(func(cfg *generateConfig) {
		cfg.fitOpts = append(cfg.fitOpts, opts...)
	})
}

// WithBuildOptions passes options to build.NewOrchestrator.
func WithBuildOptions(opts ...build.Option) Option {
	return options.NoError(func(cfg *generateConfig) {
		cfg.buildOpts = append(cfg.buildOpts, opts...)
	})
}

// WithTargets adds cross-compilation targets.
func WithTargets(targets ...build.Target) Option {
	return options.NoError(func(cfg *generateConfig) {
		cfg.targets = append(cfg.targets, targets...)
	})
}

// WithoutBuild packages the sources without compiling them.
func WithoutBuild() Option {
	return options.NoError(func(cfg *generateConfig) {
		cfg.skipBuild = true
	})
}

// WithUnicodeIdentifier keeps non-ASCII letters in the model identifier.
func WithUnicodeIdentifier() Option {
	return options.NoError(func(cfg *generateConfig) {
		cfg.allowUnicode = true
	})
}

// WithGUID fixes the model GUID instead of generating a random UUID.
func WithGUID(guid string) Option {
	return options.New(func(cfg *generateConfig) error {
		if strings.TrimSpace(guid) == "" {
			return fmt.Errorf("%w: empty GUID", errs.ErrInput)
		}
		cfg.guid = guid

		return nil
	})
}

// WithClock sets the source of the generation time.
func WithClock(now func() time.Time) Option {
	return options.NoError(func(cfg *generateConfig) {
		if now != nil {
			cfg.now = now
		}
	})
}

// WithLogger sets the logger. By default it is taken from the context.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(cfg *generateConfig) {
		cfg.logger = logger
	})
}

// ModelName returns the model name derived from an output path: its file name
// without extension.
func ModelName(outfile string) string {
	base := filepath.Base(outfile)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Generate runs the whole pipeline.
//
// Nothing is written unless every stage succeeds: the archive is stored at
// req.Outfile through a temporary file in the same directory that is renamed into
// place at the end.
//
// Returns:
//   - *Result: The fit, the descriptor, the archive and the build report
//   - error: Wraps errs.ErrInput, errs.ErrSchema, errs.ErrPackaging or errs.ErrBuild
func Generate(ctx context.Context, req Request, opts ...Option) (*Result, error) {
	cfg := &generateConfig{
		compression: format.CompressionDeflate,
		now:         time.Now,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	ctx = logging.WithLogger(ctx, logger)

	if req.Table == nil {
		return nil, fmt.Errorf("%w: no dataset", errs.ErrInput)
	}

	name := req.ModelName
	if name == "" {
		name = ModelName(req.Outfile)
	}
	identifier := slug.Make(name, cfg.allowUnicode)
	if identifier == "" {
		return nil, fmt.Errorf("%w: %q has no identifier characters", errs.ErrInvalidModelName, name)
	}

	guid := cfg.guid
	if guid == "" {
		guid = uuid.NewString()
	}

	fitOpts := append([]strategy.FitOption{strategy.WithLogger(logger)}, cfg.fitOpts...)
	fit, err := strategy.Fit(req.Table, req.Inputs, req.Outputs, req.Strategy, fitOpts...)
	if err != nil {
		return nil, err
	}
	logger.Info("fitted model", "strategy", req.Strategy.String(), "score", fit.Score())

	desc, err := modeldesc.Build(modeldesc.Info{
		ModelName:       name,
		ModelIdentifier: identifier,
		GUID:            guid,
		GeneratedAt:     cfg.now(),
		GenerationTool:  Tool,
	}, req.Inputs, req.Outputs)
	if err != nil {
		return nil, err
	}

	source, err := codegen.Render(codegen.Input{
		GUID:            guid,
		ModelIdentifier: identifier,
		Tool:            Tool,
		Variables:       desc.Variables(),
		Fit:             fit,
	})
	if err != nil {
		return nil, err
	}

	art, err := archive.Package(desc, []byte(source), "", assets.Headers(), archive.WithCompression(cfg.compression))
	if err != nil {
		return nil, err
	}
	logger.Debug("packaged sources", "entries", art.Len(), "digest", fmt.Sprintf("%016x", art.Digest()))

	res := &Result{
		ModelName:       name,
		ModelIdentifier: identifier,
		GUID:            guid,
		Fit:             fit,
		Descriptor:      desc,
		Artifact:        art,
	}

	if !cfg.skipBuild {
		buildOpts := append([]build.Option{build.WithLogger(logger)}, cfg.buildOpts...)
		orch, err := build.NewOrchestrator(buildOpts...)
		if err != nil {
			return nil, err
		}
		res.Build, err = orch.Compile(ctx, art, identifier, cfg.targets)
		if err != nil {
			return nil, err
		}
	}

	if req.Outfile != "" {
		if err := art.WriteFile(req.Outfile); err != nil {
			return nil, err
		}
		res.Outfile = req.Outfile
		logger.Info("wrote FMU", "path", req.Outfile, "entries", art.Len())
	}

	return res, nil
}
