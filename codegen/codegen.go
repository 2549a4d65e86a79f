// Package codegen renders the C source that implements a fitted model behind the
// FMI 2.0 C API.
//
// The template is the embedded assets.SourceTemplate; rendering is a pure function of
// the Input, so identical inputs give byte-identical sources.
package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/arloliu/autofmu/assets"
	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
	"github.com/arloliu/autofmu/internal/pool"
	"github.com/arloliu/autofmu/modeldesc"
	"github.com/arloliu/autofmu/strategy"
)

// Input is everything the generated source depends on.
type Input struct {
	// GUID must equal the model description's guid.
	GUID string
	// ModelIdentifier and Tool only appear in the header comment.
	ModelIdentifier string
	Tool            string
	// Variables are the model variables in value-reference order.
	Variables []modeldesc.Variable
	// Fit is a *strategy.LinearFit or *strategy.LogisticFit matching Variables.
	Fit strategy.Result
}

var parseTemplate = sync.OnceValues(func() (*template.Template, error) {
	return template.New("fmi2Functions.c").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(assets.SourceTemplate())
})

type variableData struct {
	NameLiteral    string
	ValueReference uint32
}

type linearData struct {
	Coefficients [][]string
	Intercepts   []string
}

type classData struct {
	Label        string
	Value        string
	Coefficients []string
	Intercept    string
}

type logisticData struct {
	NClasses int
	Offsets  []string
	Counts   []string
	Classes  []classData
}

type templateData struct {
	GUID            string
	ModelIdentifier string
	Tool            string
	Strategy        string
	Score           string
	NVariables      int
	Inputs          []variableData
	Outputs         []variableData
	Linear          *linearData
	Logistic        *logisticData
}

// Render returns the C source for in.
//
// Returns:
//   - string: The generated source
//   - error: errs.ErrInput when the fit does not match the variables,
//     errs.ErrNonFinite when a parameter is NaN or infinite
func Render(in Input) (string, error) {
	tmpl, err := parseTemplate()
	if err != nil {
		return "", fmt.Errorf("parse source template: %w", err)
	}

	data, err := buildData(in)
	if err != nil {
		return "", err
	}

	buf := pool.GetRenderBuffer()
	defer pool.PutRenderBuffer(buf)
	if err := tmpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("render source: %w", err)
	}

	return string(buf.Bytes()), nil
}

func buildData(in Input) (*templateData, error) {
	if in.GUID == "" {
		return nil, fmt.Errorf("%w: empty GUID", errs.ErrInput)
	}
	if in.Fit == nil {
		return nil, fmt.Errorf("%w: no fit result", errs.ErrInput)
	}

	data := &templateData{
		GUID:            StringLiteral(in.GUID),
		ModelIdentifier: commentSafe(in.ModelIdentifier),
		Tool:            commentSafe(in.Tool),
		Strategy:        in.Fit.Kind().String(),
		Score:           strconv.FormatFloat(in.Fit.Score(), 'g', 6, 64),
		NVariables:      len(in.Variables),
	}
	if data.Tool == "" {
		data.Tool = "autofmu"
	}

	for i, v := range in.Variables {
		if v.ValueReference != uint32(i+1) {
			return nil, fmt.Errorf("%w: variable %q has value reference %d at position %d", errs.ErrInput, v.Name, v.ValueReference, i+1)
		}
		vd := variableData{NameLiteral: StringLiteral(v.Name), ValueReference: v.ValueReference}
		switch v.Causality {
		case format.CausalityInput:
			if len(data.Outputs) > 0 {
				return nil, fmt.Errorf("%w: input %q follows an output", errs.ErrInput, v.Name)
			}
			data.Inputs = append(data.Inputs, vd)
		case format.CausalityOutput:
			data.Outputs = append(data.Outputs, vd)
		default:
			return nil, fmt.Errorf("%w: variable %q has causality %s", errs.ErrInput, v.Name, v.Causality)
		}
	}
	if len(data.Inputs) == 0 || len(data.Outputs) == 0 {
		return nil, fmt.Errorf("%w: need at least one input and one output", errs.ErrNoVariables)
	}

	var err error
	switch fit := in.Fit.(type) {
	case *strategy.LinearFit:
		data.Linear, err = linearParams(fit, len(data.Inputs), len(data.Outputs))
	case *strategy.LogisticFit:
		data.Logistic, err = logisticParams(fit, len(data.Inputs), len(data.Outputs))
	default:
		err = fmt.Errorf("%w: unsupported fit %T", errs.ErrInvalidStrategy, in.Fit)
	}
	if err != nil {
		return nil, err
	}

	return data, nil
}

func linearParams(fit *strategy.LinearFit, nIn, nOut int) (*linearData, error) {
	if len(fit.Coefficients) != nOut || len(fit.Intercepts) != nOut {
		return nil, fmt.Errorf("%w: linear fit has %d outputs, model has %d", errs.ErrInput, len(fit.Coefficients), nOut)
	}

	out := &linearData{Coefficients: make([][]string, nOut)}
	for j, row := range fit.Coefficients {
		if len(row) != nIn {
			return nil, fmt.Errorf("%w: linear fit output %d has %d coefficients, model has %d inputs", errs.ErrInput, j, len(row), nIn)
		}
		lits, err := floatLiterals(row)
		if err != nil {
			return nil, fmt.Errorf("output %d coefficients: %w", j, err)
		}
		out.Coefficients[j] = lits
	}

	var err error
	if out.Intercepts, err = floatLiterals(fit.Intercepts); err != nil {
		return nil, fmt.Errorf("intercepts: %w", err)
	}

	return out, nil
}

func logisticParams(fit *strategy.LogisticFit, nIn, nOut int) (*logisticData, error) {
	if len(fit.Outputs) != nOut {
		return nil, fmt.Errorf("%w: logistic fit has %d outputs, model has %d", errs.ErrInput, len(fit.Outputs), nOut)
	}

	out := &logisticData{}
	for j, clf := range fit.Outputs {
		n := len(clf.Classes)
		if n == 0 || len(clf.Coefficients) != n || len(clf.Intercepts) != n {
			return nil, fmt.Errorf("%w: classifier %d has inconsistent class tables", errs.ErrInput, j)
		}
		out.Offsets = append(out.Offsets, strconv.Itoa(out.NClasses))
		out.Counts = append(out.Counts, strconv.Itoa(n))
		out.NClasses += n

		values := classValues(clf.Classes)
		for k, label := range clf.Classes {
			if len(clf.Coefficients[k]) != nIn {
				return nil, fmt.Errorf("%w: classifier %d class %q has %d coefficients, model has %d inputs", errs.ErrInput, j, label, len(clf.Coefficients[k]), nIn)
			}
			coeffs, err := floatLiterals(clf.Coefficients[k])
			if err != nil {
				return nil, fmt.Errorf("output %d class %q: %w", j, label, err)
			}
			intercept, err := FloatLiteral(clf.Intercepts[k])
			if err != nil {
				return nil, fmt.Errorf("output %d class %q intercept: %w", j, label, err)
			}
			value, _ := FloatLiteral(values[k])
			out.Classes = append(out.Classes, classData{
				Label:        StringLiteral(label),
				Value:        value,
				Coefficients: coeffs,
				Intercept:    intercept,
			})
		}
	}

	return out, nil
}

// classValues returns the Real value an output takes for each class: the label
// itself when every label of the output is a finite number, otherwise the class index.
func classValues(labels []string) []float64 {
	values := make([]float64, len(labels))
	for i, l := range labels {
		v, err := strconv.ParseFloat(strings.TrimSpace(l), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			for k := range values {
				values[k] = float64(k)
			}

			return values
		}
		values[i] = v
	}

	return values
}
