package strategy

import (
	"fmt"

	"github.com/arloliu/autofmu/dataset"
	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
	"github.com/arloliu/autofmu/internal/options"
)

// Table is the read-only view of the training data needed by Fit.
// *dataset.Table implements it.
type Table interface {
	Len() int
	Column(name string) (dataset.Column, bool)
}

// Result is a fitted parameter set, either *LinearFit or *LogisticFit.
type Result interface {
	// Kind returns the strategy that produced the result.
	Kind() format.StrategyKind
	// Score returns the training score (average R² or average accuracy).
	Score() float64
}

// Fit fits kind on table, mapping the inputs columns to the outputs columns.
//
// Parameters:
//   - table: Training data; it is only read, never modified
//   - inputs: Input column names, in variable order
//   - outputs: Output column names, in variable order
//   - kind: Strategy to fit
//   - opts: Optional fit settings
//
// Returns:
//   - Result: *LinearFit or *LogisticFit
//   - error: An error wrapping errs.ErrInput (and errs.ErrFit for ill-posed fits)
func Fit(table Table, inputs, outputs []string, kind format.StrategyKind, opts ...FitOption) (Result, error) {
	cfg := defaultFitConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := validateNames(inputs, outputs); err != nil {
		return nil, err
	}

	cols := make(map[string]dataset.Column, len(inputs)+len(outputs))
	for _, name := range append(append([]string{}, inputs...), outputs...) {
		col, ok := table.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %w: %q", errs.ErrFit, errs.ErrColumnNotFound, name)
		}
		cols[name] = col
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: %w", errs.ErrFit, errs.ErrEmptyDataset)
	}

	x, err := numericColumns(cols, inputs)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("fitting strategy",
		"strategy", kind.String(), "rows", table.Len(), "inputs", len(inputs), "outputs", len(outputs))

	switch kind {
	case format.StrategyLinear:
		y, err := numericColumns(cols, outputs)
		if err != nil {
			return nil, err
		}

		return fitLinear(x, y, cfg)
	case format.StrategyLogistic:
		labels := make([][]string, len(outputs))
		for i, name := range outputs {
			labels[i] = cols[name].Strings()
		}

		return fitLogistic(x, labels, outputs, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidStrategy, kind)
	}
}

func validateNames(inputs, outputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: inputs", errs.ErrNoVariables)
	}
	if len(outputs) == 0 {
		return fmt.Errorf("%w: outputs", errs.ErrNoVariables)
	}

	seen := make(map[string]bool, len(inputs))
	for _, name := range inputs {
		if seen[name] {
			return fmt.Errorf("%w: input %q", errs.ErrDuplicateVariable, name)
		}
		seen[name] = true
	}

	outSeen := make(map[string]bool, len(outputs))
	for _, name := range outputs {
		if seen[name] {
			return fmt.Errorf("%w: %q", errs.ErrOverlappingVariables, name)
		}
		if outSeen[name] {
			return fmt.Errorf("%w: output %q", errs.ErrDuplicateVariable, name)
		}
		outSeen[name] = true
	}

	return nil
}

// numericColumns returns the named columns as float64 slices, column-major.
func numericColumns(cols map[string]dataset.Column, names []string) ([][]float64, error) {
	out := make([][]float64, len(names))
	for i, name := range names {
		values, err := cols[name].Float64s()
		if err != nil {
			return nil, err
		}
		out[i] = values
	}

	return out, nil
}
