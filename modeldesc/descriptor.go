package modeldesc

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

const (
	// FMIVersion is the fmiVersion attribute of every generated description.
	FMIVersion = "2.0"
	// FileName is the archive path of the model description.
	FileName = "modelDescription.xml"
	// TimeLayout is the layout of generationDateAndTime (always UTC).
	TimeLayout = "2006-01-02T15:04:05Z"
)

// LogCategories are the log categories every generated FMU declares.
var LogCategories = []string{"logAll", "logError", "logFmiCall", "logEvent"}

// Info carries the naming and provenance attributes of a description.
type Info struct {
	// ModelName is the human-readable model name.
	ModelName string
	// ModelIdentifier names the generated source file and binaries.
	ModelIdentifier string
	// GUID ties the description to the compiled binaries.
	GUID string
	// GeneratedAt is written as generationDateAndTime, in UTC.
	GeneratedAt time.Time
	// GenerationTool defaults to "autofmu" when empty.
	GenerationTool string
}

// SourceFile returns the name of the generated C source file.
func (i Info) SourceFile() string {
	return i.ModelIdentifier + ".c"
}

// Attr is one XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the description tree.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Element
}

// Attr returns the value of the named attribute.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// Child returns the first child element called name.
func (e Element) Child(name string) (Element, bool) {
	for _, c := range e.Children {
		if c.Name == name {
			return c, true
		}
	}

	return Element{}, false
}

func (e Element) clone() Element {
	out := Element{Name: e.Name, Attrs: append([]Attr(nil), e.Attrs...)}
	if len(e.Children) > 0 {
		out.Children = make([]Element, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.clone()
		}
	}

	return out
}

func elem(name string, attrs []Attr, children ...Element) Element {
	return Element{Name: name, Attrs: attrs, Children: children}
}

// Descriptor is a complete, validated model description. It is never modified
// after Build returns.
type Descriptor struct {
	info Info
	vars []Variable
	root Element
}

// Info returns the naming information the descriptor was built from.
func (d *Descriptor) Info() Info { return d.info }

// Variables returns a copy of the ordered variable list.
func (d *Descriptor) Variables() []Variable {
	return append([]Variable(nil), d.vars...)
}

// Root returns a deep copy of the document tree.
func (d *Descriptor) Root() Element { return d.root.clone() }

// Build assembles and validates the model description of a model with the given
// inputs and outputs.
//
// Parameters:
//   - info: Model name, identifier, GUID and timestamp; all but GenerationTool are required
//   - inputs: Input variable names, in order
//   - outputs: Output variable names, in order
//
// Returns:
//   - *Descriptor: The validated descriptor
//   - error: errs.ErrInput for bad names or info, errs.ErrSchema if the result is invalid
func Build(info Info, inputs, outputs []string) (*Descriptor, error) {
	if err := checkNames(inputs, outputs); err != nil {
		return nil, err
	}
	switch {
	case info.ModelName == "":
		return nil, fmt.Errorf("%w: empty model name", errs.ErrInvalidModelName)
	case info.ModelIdentifier == "":
		return nil, fmt.Errorf("%w: empty model identifier for %q", errs.ErrInvalidModelName, info.ModelName)
	case info.GUID == "":
		return nil, fmt.Errorf("%w: empty GUID", errs.ErrInput)
	case info.GeneratedAt.IsZero():
		return nil, fmt.Errorf("%w: missing generation time", errs.ErrInput)
	}
	if info.GenerationTool == "" {
		info.GenerationTool = "autofmu"
	}
	info.GeneratedAt = info.GeneratedAt.UTC().Truncate(time.Second)

	vars := Variables(inputs, outputs)
	d := &Descriptor{info: info, vars: vars, root: buildTree(info, vars)}
	if err := Validate(d); err != nil {
		return nil, err
	}

	return d, nil
}

func buildTree(info Info, vars []Variable) Element {
	sources := elem("SourceFiles", nil, elem("File", []Attr{{"name", info.SourceFile()}}))

	categories := make([]Element, len(LogCategories))
	for i, name := range LogCategories {
		categories[i] = elem("Category", []Attr{{"name", name}})
	}

	variables := make([]Element, len(vars))
	var outputs, initial []Element
	for i, v := range vars {
		ref := strconv.FormatUint(uint64(v.ValueReference), 10)
		typ := elem("Real", nil)
		if v.Causality == format.CausalityInput {
			typ.Attrs = []Attr{{"start", "0.0"}}
		}
		variables[i] = elem("ScalarVariable", []Attr{
			{"name", v.Name},
			{"valueReference", ref},
			{"causality", v.Causality.String()},
			{"variability", "continuous"},
		}, typ)

		if v.Causality == format.CausalityOutput {
			index := strconv.Itoa(i + 1)
			outputs = append(outputs, elem("Unknown", []Attr{{"index", index}, {"dependencies", ""}}))
			initial = append(initial, elem("Unknown", []Attr{{"index", index}}))
		}
	}

	return elem("fmiModelDescription",
		[]Attr{
			{"fmiVersion", FMIVersion},
			{"modelName", info.ModelName},
			{"guid", info.GUID},
			{"generationTool", info.GenerationTool},
			{"generationDateAndTime", info.GeneratedAt.Format(TimeLayout)},
			{"variableNamingConvention", "flat"},
			{"numberOfEventIndicators", "0"},
		},
		elem("ModelExchange", []Attr{{"modelIdentifier", info.ModelIdentifier}}, sources),
		elem("CoSimulation", []Attr{
			{"modelIdentifier", info.ModelIdentifier},
			{"canHandleVariableCommunicationStepSize", "true"},
		}, sources.clone()),
		elem("LogCategories", nil, categories...),
		elem("ModelVariables", nil, variables...),
		elem("ModelStructure", nil,
			elem("Outputs", nil, outputs...),
			elem("InitialUnknowns", nil, initial...),
		),
	)
}
