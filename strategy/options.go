package strategy

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/internal/options"
)

const (
	// DefaultMaxIterations bounds the L-BFGS iterations of each logistic classifier.
	DefaultMaxIterations = 100
	// DefaultRegularization is the default inverse L2 penalty strength C.
	DefaultRegularization = 1.0
)

type fitConfig struct {
	maxIterations  int
	regularization float64
	logger         *slog.Logger
}

func defaultFitConfig() *fitConfig {
	return &fitConfig{
		maxIterations:  DefaultMaxIterations,
		regularization: DefaultRegularization,
		logger:         slog.New(slog.DiscardHandler),
	}
}

// FitOption configures Fit.
type FitOption = options.Option[*fitConfig]

// WithMaxIterations sets the iteration bound of logistic fits. n must be positive.
func WithMaxIterations(n int) FitOption {
	return options.New(func(cfg *fitConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max iterations must be positive, got %d", errs.ErrInput, n)
		}
		cfg.maxIterations = n

		return nil
	})
}

// WithRegularization sets the inverse L2 penalty strength C of logistic fits.
// Smaller values regularize more; c must be positive and finite.
func WithRegularization(c float64) FitOption {
	return options.New(func(cfg *fitConfig) error {
		if !(c > 0) || math.IsInf(c, 1) {
			return fmt.Errorf("%w: regularization must be positive, got %v", errs.ErrInput, c)
		}
		cfg.regularization = c

		return nil
	})
}

// WithLogger sets the logger used for fit diagnostics. A nil logger is ignored.
func WithLogger(logger *slog.Logger) FitOption {
	return options.NoError(func(cfg *fitConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}
