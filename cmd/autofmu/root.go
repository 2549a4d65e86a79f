package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arloliu/autofmu"
	"github.com/arloliu/autofmu/build"
	"github.com/arloliu/autofmu/dataset"
	"github.com/arloliu/autofmu/format"
	"github.com/arloliu/autofmu/internal/config"
	"github.com/arloliu/autofmu/internal/logging"
	"github.com/arloliu/autofmu/strategy"
)

type generateFlags struct {
	inputs            []string
	outputs           []string
	outfile           string
	strategy          string
	verbose           bool
	version           bool
	targets           []string
	configPath        string
	compression       string
	noBuild           bool
	buildTimeout      time.Duration
	maxIter           int
	regularization    float64
	logFormat         string
	unicodeIdentifier bool
	cmake             string
	generator         string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "autofmu [flags] FILE...",
		Short: "Generate an FMI 2.0 FMU from tabular data",
		Long: `autofmu fits a model mapping input columns of one or more CSV files to output
columns, and packages it as an FMI 2.0 Functional Mock-up Unit with C sources and a
natively compiled library.

Strategies:
  linear    ordinary least squares per output (score: R²)
  logistic  multinomial classifier per output (score: accuracy)

Examples:
  autofmu --inputs x,y --outputs z data.csv
  autofmu --inputs temp --outputs state -s logistic -o phase.fmu runs/*.csv.gz
  autofmu --inputs x --outputs y --target win64=x86_64-w64-mingw32-gcc data.csv`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f, args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})

	flags := cmd.Flags()
	flags.StringSliceVar(&f.inputs, "inputs", nil, "input variable names (comma-separated or repeated)")
	flags.StringSliceVar(&f.outputs, "outputs", nil, "output variable names (comma-separated or repeated)")
	flags.StringVarP(&f.outfile, "outfile", "o", autofmu.DefaultOutfile, "FMU file to write; its name is the model name")
	flags.StringVarP(&f.strategy, "strategy", "s", "linear", "approximation strategy: linear or logistic")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")
	flags.BoolVarP(&f.version, "version", "V", false, "print the version and exit")
	flags.StringArrayVar(&f.targets, "target", nil, "cross target as PLATFORM=TOOLCHAIN (repeatable)")
	flags.StringVar(&f.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&f.compression, "compression", "deflate", "archive entry compression: none, deflate or zstd")
	flags.BoolVar(&f.noBuild, "no-build", false, "package the sources without compiling them")
	flags.DurationVar(&f.buildTimeout, "build-timeout", 0, "limit for each configure/build step (0 = none)")
	flags.IntVar(&f.maxIter, "max-iter", strategy.DefaultMaxIterations, "maximum optimizer iterations (logistic)")
	flags.Float64Var(&f.regularization, "regularization", strategy.DefaultRegularization, "inverse L2 regularization strength (logistic)")
	flags.StringVar(&f.logFormat, "log-format", logging.FormatText, "log format: text or json")
	flags.BoolVar(&f.unicodeIdentifier, "unicode-identifier", false, "keep non-ASCII letters in the model identifier")
	flags.StringVar(&f.cmake, "cmake", build.DefaultCMake, "cmake executable")
	flags.StringVar(&f.generator, "generator", "", "CMake generator")

	cmd.AddCommand(newInspectCommand())

	return cmd
}

// effectiveConfig merges the configuration file with the flags set on the command line.
func effectiveConfig(flags *pflag.FlagSet, f *generateFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("outfile") {
		cfg.Outfile = f.outfile
	}
	if flags.Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if flags.Changed("compression") {
		cfg.Compression = f.compression
	}
	if flags.Changed("unicode-identifier") {
		cfg.UnicodeIdentifier = f.unicodeIdentifier
	}
	if flags.Changed("max-iter") {
		cfg.Fit.MaxIterations = f.maxIter
	}
	if flags.Changed("regularization") {
		cfg.Fit.Regularization = f.regularization
	}
	if flags.Changed("no-build") {
		cfg.Build.Skip = f.noBuild
	}
	if flags.Changed("build-timeout") {
		cfg.Build.Timeout = f.buildTimeout
	}
	if flags.Changed("cmake") {
		cfg.Build.CMake = f.cmake
	}
	if flags.Changed("generator") {
		cfg.Build.Generator = f.generator
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	flagTargets, err := build.ParseTargets(f.targets)
	if err != nil {
		return nil, err
	}
	for _, t := range flagTargets {
		cfg.Build.Targets = append(cfg.Build.Targets, config.Target{Platform: t.Platform, Toolchain: t.Toolchain})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func runGenerate(cmd *cobra.Command, f *generateFlags, args []string) error {
	if f.version {
		fmt.Fprintln(cmd.OutOrStdout(), autofmu.Tool)
		return nil
	}

	switch {
	case len(args) == 0:
		return usageError("no dataset given")
	case len(f.inputs) == 0:
		return usageError("--inputs is required")
	case len(f.outputs) == 0:
		return usageError("--outputs is required")
	}

	cfg, err := effectiveConfig(cmd.Flags(), f)
	if err != nil {
		return usageErr(err)
	}

	kind, err := format.ParseStrategy(cfg.Strategy)
	if err != nil {
		return usageErr(err)
	}
	compression, err := format.ParseCompression(cfg.Compression)
	if err != nil {
		return usageErr(err)
	}

	targets := make([]build.Target, 0, len(cfg.Build.Targets))
	for _, t := range cfg.Build.Targets {
		target, err := build.ParseTarget(t.Platform + "=" + t.Toolchain)
		if err != nil {
			return usageErr(err)
		}
		targets = append(targets, target)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return usageErr(err)
	}
	ctx := logging.WithLogger(cmd.Context(), logger)

	table, err := dataset.Load(args...)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	logger.Debug("loaded dataset", "files", len(args), "rows", table.Len(), "columns", table.Names())

	var fitOpts []strategy.FitOption
	if cfg.Fit.MaxIterations > 0 {
		fitOpts = append(fitOpts, strategy.WithMaxIterations(cfg.Fit.MaxIterations))
	}
	if cfg.Fit.Regularization > 0 {
		fitOpts = append(fitOpts, strategy.WithRegularization(cfg.Fit.Regularization))
	}

	opts := []autofmu.Option{
		autofmu.WithCompression(compression),
		autofmu.WithFitOptions(fitOpts...),
		autofmu.WithTargets(targets...),
		autofmu.WithBuildOptions(
			build.WithTimeout(cfg.Build.Timeout),
			build.WithCMake(cfg.Build.CMake),
			build.WithGenerator(cfg.Build.Generator),
		),
	}
	if cfg.Build.Skip {
		opts = append(opts, autofmu.WithoutBuild())
	}
	if cfg.UnicodeIdentifier {
		opts = append(opts, autofmu.WithUnicodeIdentifier())
	}

	res, err := autofmu.Generate(ctx, autofmu.Request{
		Table:    table,
		Inputs:   f.inputs,
		Outputs:  f.outputs,
		Strategy: kind,
		Outfile:  cfg.Outfile,
	}, opts...)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %s (model %q, identifier %s, %s score %.6g)\n",
		res.Outfile, res.ModelName, res.ModelIdentifier, kind, res.Fit.Score())
	if res.Build != nil {
		for _, bin := range res.Build.Binaries {
			fmt.Fprintf(out, "  %s (%d bytes)\n", bin.Path, bin.Size)
		}
		for _, diag := range res.Build.Diagnostics {
			fmt.Fprintf(out, "  warning: %s\n", diag)
		}
	}

	return nil
}
