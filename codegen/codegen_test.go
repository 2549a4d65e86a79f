package codegen

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/modeldesc"
	"github.com/arloliu/autofmu/strategy"
)

const testGUID = "5e1c6a2d-0b7f-4c39-a6de-2f1e9b8a7c64"

func linearInput() Input {
	return Input{
		GUID:            testGUID,
		ModelIdentifier: "plane",
		Variables:       modeldesc.Variables([]string{"x", "y"}, []string{"z"}),
		Fit: &strategy.LinearFit{
			Coefficients: [][]float64{{2, -3}},
			Intercepts:   []float64{1},
			RSquared:     1,
		},
	}
}

func TestRender_Linear(t *testing.T) {
	src, err := Render(linearInput())
	require.NoError(t, err)

	for _, want := range []string{
		`#define GUID "` + testGUID + `"`,
		"#define NINPUTS 2\n",
		"#define NOUTPUTS 1\n",
		"#define NVARIABLES 3\n",
		"INPUT_REFS[NINPUTS] = { 1, 2 };",
		"OUTPUT_REFS[NOUTPUTS] = { 3 };",
		"COEFFICIENTS[NOUTPUTS][NINPUTS] = {\n    { 2.0, -3.0 },\n};",
		"INTERCEPTS[NOUTPUTS] = { 1.0 };",
		"    \"x\",\n    \"y\",\n    \"z\",\n",
		"Model: plane (linear strategy, training score 1)",
		"fmi2Status fmi2DoStep(",
		"fmi2Status fmi2GetNominalsOfContinuousStates(",
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "CLASS_LABELS")
	assert.NotContains(t, src, "{{")
}

func TestRender_Deterministic(t *testing.T) {
	a, err := Render(linearInput())
	require.NoError(t, err)
	b, err := Render(linearInput())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRender_Logistic(t *testing.T) {
	in := Input{
		GUID:      testGUID,
		Variables: modeldesc.Variables([]string{"x"}, []string{"label", "level"}),
		Fit: &strategy.LogisticFit{
			Outputs: []strategy.Classifier{
				{
					Classes:      []string{"a", "b", `c"q`},
					Coefficients: [][]float64{{-1.5}, {0}, {1.5}},
					Intercepts:   []float64{0.25, 0.5, -0.75},
				},
				{
					Classes:      []string{"10", "2.5"},
					Coefficients: [][]float64{{0.1}, {-0.1}},
					Intercepts:   []float64{0, 0},
				},
			},
			Accuracy: 0.75,
		},
	}

	src, err := Render(in)
	require.NoError(t, err)

	for _, want := range []string{
		"#define NCLASSES 5\n",
		"CLASS_OFFSET[NOUTPUTS] = { 0, 3 };",
		"CLASS_COUNT[NOUTPUTS] = { 3, 2 };",
		"CLASS_LABELS[NCLASSES] = {\n    \"a\",\n    \"b\",\n    \"c\\\"q\",\n    \"10\",\n    \"2.5\",\n};",
		"CLASS_VALUES[NCLASSES] = {\n    0.0,\n    1.0,\n    2.0,\n    10.0,\n    2.5,\n};",
		"COEFFICIENTS[NCLASSES][NINPUTS] = {\n    { -1.5 },\n    { 0.0 },\n    { 1.5 },\n    { 0.1 },\n    { -0.1 },\n};",
		"INTERCEPTS[NCLASSES] = {\n    0.25,\n    0.5,\n    -0.75,\n    0.0,\n    0.0,\n};",
		"(logistic strategy, training score 0.75)",
		"-HUGE_VAL",
	} {
		assert.Contains(t, src, want)
	}
}

func TestRender_LiteralsRoundTrip(t *testing.T) {
	coeffs := []float64{0.1, 1.0 / 3, -2.5e-300, 6.02214076e23, math.Pi, 123456789012345680, -0.0}
	in := Input{
		GUID:      testGUID,
		Variables: modeldesc.Variables([]string{"a", "b", "c", "d", "e", "f", "g"}, []string{"out"}),
		Fit: &strategy.LinearFit{
			Coefficients: [][]float64{coeffs},
			Intercepts:   []float64{math.SmallestNonzeroFloat64},
		},
	}
	src, err := Render(in)
	require.NoError(t, err)

	row := regexp.MustCompile(`COEFFICIENTS\[NOUTPUTS\]\[NINPUTS\] = \{\n    \{ (.*) \},`).FindStringSubmatch(src)
	require.Len(t, row, 2)
	lits := strings.Split(row[1], ", ")
	require.Len(t, lits, len(coeffs))
	for i, lit := range lits {
		v, err := strconv.ParseFloat(lit, 64)
		require.NoError(t, err)
		require.Equal(t, math.Float64bits(coeffs[i]), math.Float64bits(v), "literal %q", lit)
	}
}

func TestRender_Errors(t *testing.T) {
	nan := linearInput()
	nan.Fit = &strategy.LinearFit{Coefficients: [][]float64{{math.NaN(), 1}}, Intercepts: []float64{0}}
	_, err := Render(nan)
	require.ErrorIs(t, err, errs.ErrNonFinite)

	inf := linearInput()
	inf.Fit = &strategy.LinearFit{Coefficients: [][]float64{{1, 1}}, Intercepts: []float64{math.Inf(-1)}}
	_, err = Render(inf)
	require.ErrorIs(t, err, errs.ErrNonFinite)

	shape := linearInput()
	shape.Fit = &strategy.LinearFit{Coefficients: [][]float64{{1}}, Intercepts: []float64{0}}
	_, err = Render(shape)
	require.ErrorIs(t, err, errs.ErrInput)

	outputs := linearInput()
	outputs.Variables = modeldesc.Variables([]string{"x", "y"}, []string{"z", "w"})
	_, err = Render(outputs)
	require.ErrorIs(t, err, errs.ErrInput)

	noGUID := linearInput()
	noGUID.GUID = ""
	_, err = Render(noGUID)
	require.ErrorIs(t, err, errs.ErrInput)

	badClasses := Input{
		GUID:      testGUID,
		Variables: modeldesc.Variables([]string{"x"}, []string{"y"}),
		Fit: &strategy.LogisticFit{Outputs: []strategy.Classifier{{
			Classes: []string{"a", "b"}, Coefficients: [][]float64{{1}}, Intercepts: []float64{0, 0},
		}}},
	}
	_, err = Render(badClasses)
	require.ErrorIs(t, err, errs.ErrInput)

	misordered := linearInput()
	misordered.Variables[0].ValueReference = 5
	_, err = Render(misordered)
	require.ErrorIs(t, err, errs.ErrInput)
}

func TestFloatLiteral(t *testing.T) {
	tests := map[float64]string{
		0:      "0.0",
		2:      "2.0",
		-3:     "-3.0",
		0.5:    "0.5",
		1e21:   "1e+21",
		1.5e-7: "1.5e-07",
	}
	for v, want := range tests {
		got, err := FloatLiteral(v)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := FloatLiteral(math.NaN())
	require.ErrorIs(t, err, errs.ErrNonFinite)
}

func TestStringLiteral(t *testing.T) {
	require.Equal(t, `"plain"`, StringLiteral("plain"))
	require.Equal(t, `"a\"b\\c"`, StringLiteral(`a"b\c`))
	require.Equal(t, `"what\?\?"`, StringLiteral("what??"))
	require.Equal(t, `"line\nbreak\ttab"`, StringLiteral("line\nbreak\ttab"))
	require.Equal(t, `"\303\251"`, StringLiteral("é"))
	require.Equal(t, `"\000"`, StringLiteral("\x00"))
}

func TestClassValues(t *testing.T) {
	require.Equal(t, []float64{1, -2.5}, classValues([]string{"1", " -2.5 "}))
	require.Equal(t, []float64{0, 1}, classValues([]string{"1", "two"}))
	require.Equal(t, []float64{0, 1}, classValues([]string{"NaN", "1"}))
}

func TestCommentSafe(t *testing.T) {
	require.Equal(t, "a* /b c", commentSafe("a*/b\nc"))
}
