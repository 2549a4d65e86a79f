package modeldesc

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

var testTime = time.Date(2024, 3, 9, 14, 30, 5, 999, time.FixedZone("CET", 3600))

func testInfo() Info {
	return Info{
		ModelName:       "My Model",
		ModelIdentifier: "my-model",
		GUID:            "3f2b1d7e-6a4c-4f7e-9a51-2b8c0d9e1f00",
		GeneratedAt:     testTime,
		GenerationTool:  "autofmu test",
	}
}

func TestVariables(t *testing.T) {
	vars := Variables([]string{"a", "b"}, []string{"c"})
	require.Equal(t, []Variable{
		{Name: "a", Causality: format.CausalityInput, ValueReference: 1},
		{Name: "b", Causality: format.CausalityInput, ValueReference: 2},
		{Name: "c", Causality: format.CausalityOutput, ValueReference: 3},
	}, vars)

	require.Equal(t, vars[2:], Filter(vars, format.CausalityOutput))
	require.Len(t, Filter(vars, format.CausalityInput), 2)
}

func TestBuild_Structure(t *testing.T) {
	desc, err := Build(testInfo(), []string{"x", "y"}, []string{"z"})
	require.NoError(t, err)

	root := desc.Root()
	require.Equal(t, "fmiModelDescription", root.Name)
	for name, want := range map[string]string{
		"fmiVersion":               "2.0",
		"modelName":                "My Model",
		"guid":                     testInfo().GUID,
		"generationTool":           "autofmu test",
		"generationDateAndTime":    "2024-03-09T13:30:05Z",
		"variableNamingConvention": "flat",
	} {
		got, ok := root.Attr(name)
		require.True(t, ok, name)
		require.Equal(t, want, got, name)
	}

	names := make([]string, len(root.Children))
	for i, c := range root.Children {
		names[i] = c.Name
	}
	require.Equal(t, []string{"ModelExchange", "CoSimulation", "LogCategories", "ModelVariables", "ModelStructure"}, names)

	for _, section := range []string{"ModelExchange", "CoSimulation"} {
		el, ok := root.Child(section)
		require.True(t, ok)
		id, _ := el.Attr("modelIdentifier")
		require.Equal(t, "my-model", id)
		files, ok := el.Child("SourceFiles")
		require.True(t, ok)
		name, _ := files.Children[0].Attr("name")
		require.Equal(t, "my-model.c", name)
	}

	vars, _ := root.Child("ModelVariables")
	require.Len(t, vars.Children, 3)
	start, ok := vars.Children[0].Children[0].Attr("start")
	require.True(t, ok)
	require.Equal(t, "0.0", start)
	_, ok = vars.Children[2].Children[0].Attr("start")
	require.False(t, ok)
}

func TestBuild_RootIsACopy(t *testing.T) {
	desc, err := Build(testInfo(), []string{"x"}, []string{"z"})
	require.NoError(t, err)

	root := desc.Root()
	root.Children[0].Attrs[0].Value = "tampered"
	root.Children = nil

	again := desc.Root()
	id, _ := again.Children[0].Attr("modelIdentifier")
	require.Equal(t, "my-model", id)
}

func TestBuild_InputErrors(t *testing.T) {
	info := testInfo()

	_, err := Build(info, nil, []string{"z"})
	require.ErrorIs(t, err, errs.ErrNoVariables)
	_, err = Build(info, []string{"x"}, nil)
	require.ErrorIs(t, err, errs.ErrNoVariables)
	_, err = Build(info, []string{"x", "x"}, []string{"z"})
	require.ErrorIs(t, err, errs.ErrDuplicateVariable)
	_, err = Build(info, []string{"x"}, []string{"x"})
	require.ErrorIs(t, err, errs.ErrOverlappingVariables)
	_, err = Build(info, []string{""}, []string{"z"})
	require.ErrorIs(t, err, errs.ErrInput)

	noID := info
	noID.ModelIdentifier = ""
	_, err = Build(noID, []string{"x"}, []string{"z"})
	require.ErrorIs(t, err, errs.ErrInvalidModelName)

	noGUID := info
	noGUID.GUID = ""
	_, err = Build(noGUID, []string{"x"}, []string{"z"})
	require.ErrorIs(t, err, errs.ErrInput)

	noTime := info
	noTime.GeneratedAt = time.Time{}
	_, err = Build(noTime, []string{"x"}, []string{"z"})
	require.ErrorIs(t, err, errs.ErrInput)
}

func TestBuild_DefaultGenerationTool(t *testing.T) {
	info := testInfo()
	info.GenerationTool = ""
	desc, err := Build(info, []string{"x"}, []string{"z"})
	require.NoError(t, err)
	require.Equal(t, "autofmu", desc.Info().GenerationTool)
}

func TestMarshal_Format(t *testing.T) {
	desc, err := Build(testInfo(), []string{"x", "y"}, []string{"z"})
	require.NoError(t, err)

	data, err := Marshal(desc)
	require.NoError(t, err)
	text := string(data)

	require.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`+"\n<fmiModelDescription "))
	require.True(t, strings.HasSuffix(text, "</fmiModelDescription>\n"))
	require.Contains(t, text, "\n  <ModelExchange modelIdentifier=\"my-model\">\n    <SourceFiles>\n      <File name=\"my-model.c\"/>\n")
	require.Contains(t, text, `<ScalarVariable name="x" valueReference="1" causality="input" variability="continuous">`)
	require.Contains(t, text, `<Real start="0.0"/>`)
	require.Contains(t, text, `<Unknown index="3" dependencies=""/>`)

	again, err := Marshal(desc)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestMarshal_EscapesAttributes(t *testing.T) {
	info := testInfo()
	info.ModelName = `a "quoted" <name> & more`
	desc, err := Build(info, []string{"in<1>"}, []string{"out&"})
	require.NoError(t, err)

	data, err := Marshal(desc)
	require.NoError(t, err)
	require.Contains(t, string(data), `modelName="a &#34;quoted&#34; &lt;name&gt; &amp; more"`)

	doc, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, info.ModelName, doc.ModelName)
	require.Equal(t, []string{"in<1>"}, doc.Names("input"))
	require.Equal(t, []string{"out&"}, doc.Names("output"))
}

func TestRoundTrip_Property(t *testing.T) {
	for nIn := 1; nIn <= 4; nIn++ {
		for nOut := 1; nOut <= 3; nOut++ {
			t.Run(fmt.Sprintf("%d_inputs_%d_outputs", nIn, nOut), func(t *testing.T) {
				var inputs, outputs []string
				for i := range nIn {
					inputs = append(inputs, fmt.Sprintf("in_%d", i))
				}
				for i := range nOut {
					outputs = append(outputs, fmt.Sprintf("out_%d", i))
				}

				desc, err := Build(testInfo(), inputs, outputs)
				require.NoError(t, err)
				data, err := Marshal(desc)
				require.NoError(t, err)
				doc, err := Unmarshal(data)
				require.NoError(t, err)
				require.NoError(t, doc.Validate())

				require.Len(t, doc.ModelVariables, nIn+nOut)
				for i, v := range doc.ModelVariables {
					require.Equal(t, uint32(i+1), v.ValueReference)
				}
				require.Len(t, doc.Outputs, nOut)
				require.Len(t, doc.InitialUnknowns, nOut)
				require.Equal(t, inputs, doc.Names("input"))
				require.Equal(t, outputs, doc.Names("output"))
				require.Equal(t, "my-model", doc.ModelIdentifier())
				require.Len(t, doc.LogCategories, 4)
			})
		}
	}
}

func TestDocumentValidate_Violations(t *testing.T) {
	desc, err := Build(testInfo(), []string{"x"}, []string{"z"})
	require.NoError(t, err)
	data, err := Marshal(desc)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(doc *Document)
		want   string
	}{
		{"version", func(doc *Document) { doc.FMIVersion = "3.0" }, "fmiVersion"},
		{"guid", func(doc *Document) { doc.GUID = "" }, "guid"},
		{"timestamp", func(doc *Document) { doc.GenerationDateAndTime = "yesterday" }, "generationDateAndTime"},
		{"interfaces", func(doc *Document) { doc.ModelExchange, doc.CoSimulation = nil, nil }, "neither"},
		{"identifier", func(doc *Document) { doc.CoSimulation.ModelIdentifier = "../x" }, "modelIdentifier"},
		{"duplicate name", func(doc *Document) { doc.ModelVariables[1].Name = "x" }, "duplicate variable"},
		{"value reference", func(doc *Document) { doc.ModelVariables[1].ValueReference = 7 }, "valueReference"},
		{"causality", func(doc *Document) { doc.ModelVariables[0].Causality = "sideways" }, "causality"},
		{"start", func(doc *Document) { doc.ModelVariables[0].Real.Start = nil }, "start value"},
		{"outputs", func(doc *Document) { doc.Outputs = nil }, "ModelStructure lists 0 outputs"},
		{"initial unknowns", func(doc *Document) { doc.InitialUnknowns[0].Index = 9 }, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Unmarshal(data)
			require.NoError(t, err)
			require.NoError(t, doc.Validate())

			tt.mutate(doc)
			err = doc.Validate()
			require.ErrorIs(t, err, errs.ErrSchema)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnmarshal_WrongRoot(t *testing.T) {
	_, err := Unmarshal([]byte(`<?xml version="1.0"?><notFMI/>`))
	require.ErrorIs(t, err, errs.ErrSchema)

	_, err = Unmarshal([]byte("not xml"))
	require.ErrorIs(t, err, errs.ErrSchema)
}
