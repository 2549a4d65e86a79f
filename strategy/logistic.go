package strategy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

// Classifier is a multinomial logistic model for one output column.
//
// Class k scores Intercepts[k] + Σ_i Coefficients[k][i]*input[i]; the prediction is the
// class with the highest score.
type Classifier struct {
	// Classes lists the distinct output labels in first-seen order.
	Classes []string
	// Coefficients has one row per class and one column per input.
	Coefficients [][]float64
	// Intercepts has one entry per class.
	Intercepts []float64
	// Converged reports whether the optimizer met its gradient tolerance before the
	// iteration limit.
	Converged bool
}

// PredictIndex returns the index into Classes of the highest-scoring class.
// Ties resolve to the lowest index.
func (c *Classifier) PredictIndex(x []float64) int {
	best, bestScore := 0, math.Inf(-1)
	for k, row := range c.Coefficients {
		s := c.Intercepts[k]
		for i, w := range row {
			s += w * x[i]
		}
		if s > bestScore {
			best, bestScore = k, s
		}
	}

	return best
}

// LogisticFit holds one independent classifier per output.
type LogisticFit struct {
	// Outputs has one classifier per output column, in output order.
	Outputs []Classifier
	// Accuracy is the average training accuracy over the outputs.
	Accuracy float64
}

var _ Result = (*LogisticFit)(nil)

// Kind returns format.StrategyLogistic.
func (f *LogisticFit) Kind() format.StrategyKind { return format.StrategyLogistic }

// Score returns the average training accuracy.
func (f *LogisticFit) Score() float64 { return f.Accuracy }

// Predict returns the predicted label of every output for one input vector.
func (f *LogisticFit) Predict(x []float64) []string {
	out := make([]string, len(f.Outputs))
	for j := range f.Outputs {
		c := &f.Outputs[j]
		out[j] = c.Classes[c.PredictIndex(x)]
	}

	return out
}

// String returns a short summary of the fit.
func (f *LogisticFit) String() string {
	return fmt.Sprintf("LogisticFit{Outputs: %d, Accuracy: %.4f}", len(f.Outputs), f.Accuracy)
}

// encodeLabels maps labels to class indices in first-seen order.
func encodeLabels(labels []string) (classes []string, codes []int) {
	index := make(map[string]int)
	codes = make([]int, len(labels))
	for i, l := range labels {
		k, ok := index[l]
		if !ok {
			k = len(classes)
			index[l] = k
			classes = append(classes, l)
		}
		codes[i] = k
	}

	return classes, codes
}

// fitLogistic fits one classifier per output. x is column-major.
func fitLogistic(x [][]float64, labels [][]string, names []string, cfg *fitConfig) (*LogisticFit, error) {
	// Validate every output before spending time on any fit.
	classes := make([][]string, len(labels))
	codes := make([][]int, len(labels))
	for j, l := range labels {
		classes[j], codes[j] = encodeLabels(l)
		if len(classes[j]) < 2 {
			return nil, fmt.Errorf("%w: %w: %q has %d", errs.ErrFit, errs.ErrDegenerateCategories, names[j], len(classes[j]))
		}
	}

	rows := transpose(x)
	fit := &LogisticFit{Outputs: make([]Classifier, len(labels))}
	accSum := 0.0
	for j := range labels {
		clf, err := fitClassifier(rows, codes[j], len(classes[j]), cfg)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", names[j], err)
		}
		clf.Classes = classes[j]
		if !clf.Converged {
			cfg.logger.Warn("logistic fit did not converge",
				"output", names[j], "max_iterations", cfg.maxIterations)
		}

		predicted := make([]int, len(rows))
		for r, row := range rows {
			predicted[r] = clf.PredictIndex(row)
		}
		accSum += calculateAccuracy(codes[j], predicted)
		fit.Outputs[j] = clf
	}
	fit.Accuracy = accSum / float64(len(labels))

	cfg.logger.Debug("logistic fit complete", "accuracy", fit.Accuracy)

	return fit, nil
}

func transpose(cols [][]float64) [][]float64 {
	n := len(cols[0])
	rows := make([][]float64, n)
	for r := range rows {
		rows[r] = make([]float64, len(cols))
		for i, col := range cols {
			rows[r][i] = col[r]
		}
	}

	return rows
}

// softmaxLoss is the penalized multinomial cross entropy averaged over the samples.
//
// Parameters are laid out per class as [w_0 .. w_{p-1}, b]; only weights are penalized.
type softmaxLoss struct {
	rows    [][]float64
	codes   []int
	classes int
	penalty float64 // 1/(C*n)

	scores []float64
}

func newSoftmaxLoss(rows [][]float64, codes []int, classes int, c float64) *softmaxLoss {
	return &softmaxLoss{
		rows:    rows,
		codes:   codes,
		classes: classes,
		penalty: 1 / (c * float64(len(rows))),
		scores:  make([]float64, classes),
	}
}

// probabilities fills l.scores with the class probabilities of row and returns
// the log of the softmax normalizer.
func (l *softmaxLoss) probabilities(params, row []float64) float64 {
	stride := len(row) + 1
	maxScore := math.Inf(-1)
	for k := range l.classes {
		w := params[k*stride : (k+1)*stride]
		s := w[len(row)]
		for i, v := range row {
			s += w[i] * v
		}
		l.scores[k] = s
		maxScore = math.Max(maxScore, s)
	}

	sum := 0.0
	for k := range l.scores {
		l.scores[k] = math.Exp(l.scores[k] - maxScore)
		sum += l.scores[k]
	}
	for k := range l.scores {
		l.scores[k] /= sum
	}

	return maxScore + math.Log(sum)
}

func (l *softmaxLoss) penaltyTerm(params []float64, stride int, fn func(idx int, w float64)) {
	for k := range l.classes {
		for i := range stride - 1 {
			idx := k*stride + i
			fn(idx, params[idx])
		}
	}
}

func (l *softmaxLoss) Func(params []float64) float64 {
	stride := len(l.rows[0]) + 1
	total := 0.0
	for r, row := range l.rows {
		lse := l.probabilities(params, row)
		k := l.codes[r]
		w := params[k*stride : (k+1)*stride]
		s := w[len(row)]
		for i, v := range row {
			s += w[i] * v
		}
		total += lse - s
	}
	f := total / float64(len(l.rows))

	reg := 0.0
	l.penaltyTerm(params, stride, func(_ int, w float64) { reg += w * w })

	return f + 0.5*l.penalty*reg
}

func (l *softmaxLoss) Grad(grad, params []float64) {
	stride := len(l.rows[0]) + 1
	for i := range grad {
		grad[i] = 0
	}

	inv := 1 / float64(len(l.rows))
	for r, row := range l.rows {
		l.probabilities(params, row)
		for k := range l.classes {
			d := l.scores[k]
			if k == l.codes[r] {
				d--
			}
			d *= inv
			g := grad[k*stride : (k+1)*stride]
			for i, v := range row {
				g[i] += d * v
			}
			g[len(row)] += d
		}
	}

	l.penaltyTerm(params, stride, func(idx int, w float64) { grad[idx] += l.penalty * w })
}

// gradientTolerance is the infinity-norm gradient bound at which a fit counts as converged.
const gradientTolerance = 1e-4

// fitClassifier minimizes the softmax loss with L-BFGS from a zero start.
func fitClassifier(rows [][]float64, codes []int, classes int, cfg *fitConfig) (Classifier, error) {
	p := len(rows[0])
	stride := p + 1
	loss := newSoftmaxLoss(rows, codes, classes, cfg.regularization)

	problem := optimize.Problem{
		Func: loss.Func,
		Grad: loss.Grad,
	}
	settings := &optimize.Settings{
		GradientThreshold: gradientTolerance,
		MajorIterations:   cfg.maxIterations,
	}

	x0 := make([]float64, classes*stride)
	res, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	// The optimizer reports line-search failures as errors but still returns the best
	// point found; only a missing result is fatal.
	if res == nil {
		return Classifier{}, fmt.Errorf("%w: %w", errs.ErrFit, err)
	}
	if !finite(res.X) {
		return Classifier{}, fmt.Errorf("%w: %w: classifier parameters", errs.ErrFit, errs.ErrNonFinite)
	}

	clf := Classifier{
		Coefficients: make([][]float64, classes),
		Intercepts:   make([]float64, classes),
		Converged:    err == nil && (res.Status == optimize.GradientThreshold || res.Status == optimize.FunctionConvergence),
	}
	for k := range classes {
		w := res.X[k*stride : (k+1)*stride]
		clf.Coefficients[k] = append([]float64(nil), w[:p]...)
		clf.Intercepts[k] = w[p]
	}

	return clf, nil
}
