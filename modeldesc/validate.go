package modeldesc

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/autofmu/errs"
)

var causalities = map[string]bool{
	"parameter": true, "calculatedParameter": true, "input": true,
	"output": true, "local": true, "independent": true,
}

// Validate checks that d serializes to a structurally valid FMI 2.0 model description.
// The check runs on the serialized form, so it covers exactly what gets packaged.
func Validate(d *Descriptor) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	doc, err := Unmarshal(data)
	if err != nil {
		return err
	}

	return doc.Validate()
}

// Validate reports every structural rule doc violates, joined into one error
// wrapping errs.ErrSchema. It returns nil for a valid document.
//
// Checked rules:
//   - fmiVersion is "2.0"; modelName and guid are present
//   - generationDateAndTime, when present, is an ISO-8601 UTC timestamp
//   - at least one of ModelExchange and CoSimulation, each with a modelIdentifier
//     that is usable as a file name stem and at least one source file
//   - variables have unique non-empty names, a known causality, exactly one Real
//     element, and value references forming 1..N in document order
//   - inputs declare a start value
//   - ModelStructure/Outputs lists every output variable exactly once, in order;
//     InitialUnknowns indices are ascending and refer to variables
func (doc *Document) Validate() error {
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: "+format, append([]any{errs.ErrSchema}, args...)...))
	}

	if doc.FMIVersion != FMIVersion {
		fail("fmiVersion is %q, expected %q", doc.FMIVersion, FMIVersion)
	}
	if doc.ModelName == "" {
		fail("missing modelName")
	}
	if doc.GUID == "" {
		fail("missing guid")
	}
	if ts := doc.GenerationDateAndTime; ts != "" {
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			fail("generationDateAndTime %q is not ISO-8601", ts)
		}
	}
	switch doc.VariableNamingConvention {
	case "", "flat", "structured":
	default:
		fail("unknown variableNamingConvention %q", doc.VariableNamingConvention)
	}

	if doc.ModelExchange == nil && doc.CoSimulation == nil {
		fail("neither ModelExchange nor CoSimulation is declared")
	}
	for _, section := range []struct {
		name  string
		iface *Interface
	}{{"ModelExchange", doc.ModelExchange}, {"CoSimulation", doc.CoSimulation}} {
		name, iface := section.name, section.iface
		if iface == nil {
			continue
		}
		id := iface.ModelIdentifier
		if id == "" || strings.ContainsAny(id, `/\.`) || strings.TrimSpace(id) != id {
			fail("%s modelIdentifier %q is not a valid file name stem", name, id)
		}
		if len(iface.SourceFiles) == 0 {
			fail("%s lists no source files", name)
		}
		for _, f := range iface.SourceFiles {
			if f.Name == "" {
				fail("%s has a source file without a name", name)
			}
		}
	}

	if len(doc.ModelVariables) == 0 {
		fail("no ModelVariables")
	}
	names := make(map[string]bool, len(doc.ModelVariables))
	var outputs []int
	for i, v := range doc.ModelVariables {
		pos := i + 1
		if v.Name == "" {
			fail("variable %d has no name", pos)
		} else if names[v.Name] {
			fail("duplicate variable name %q", v.Name)
		}
		names[v.Name] = true

		if v.ValueReference != uint32(pos) {
			fail("variable %q has valueReference %d, expected %d", v.Name, v.ValueReference, pos)
		}
		if !causalities[v.Causality] {
			fail("variable %q has unknown causality %q", v.Name, v.Causality)
		}
		if v.Real == nil {
			fail("variable %q has no Real element", v.Name)
			continue
		}
		if v.Causality == "input" && v.Real.Start == nil {
			fail("input %q has no start value", v.Name)
		}
		if v.Causality == "output" {
			outputs = append(outputs, pos)
		}
	}

	if len(doc.Outputs) != len(outputs) {
		fail("ModelStructure lists %d outputs, model has %d", len(doc.Outputs), len(outputs))
	} else {
		for i, u := range doc.Outputs {
			if u.Index != outputs[i] {
				fail("ModelStructure output %d has index %d, expected %d", i+1, u.Index, outputs[i])
			}
		}
	}
	prev := 0
	for _, u := range doc.InitialUnknowns {
		if u.Index < 1 || u.Index > len(doc.ModelVariables) {
			fail("InitialUnknowns index %d out of range", u.Index)
		}
		if u.Index <= prev {
			fail("InitialUnknowns indices are not ascending at %d", u.Index)
		}
		prev = u.Index
	}

	return errors.Join(problems...)
}
