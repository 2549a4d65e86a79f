package modeldesc

import (
	"fmt"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

// Variable is one scalar model variable.
type Variable struct {
	Name           string
	Causality      format.Causality
	ValueReference uint32
}

// Variables numbers inputs then outputs with contiguous 1-based value references.
func Variables(inputs, outputs []string) []Variable {
	vars := make([]Variable, 0, len(inputs)+len(outputs))
	for _, name := range inputs {
		vars = append(vars, Variable{Name: name, Causality: format.CausalityInput, ValueReference: uint32(len(vars) + 1)})
	}
	for _, name := range outputs {
		vars = append(vars, Variable{Name: name, Causality: format.CausalityOutput, ValueReference: uint32(len(vars) + 1)})
	}

	return vars
}

// Filter returns the variables of vars with causality c, preserving order.
func Filter(vars []Variable, c format.Causality) []Variable {
	var out []Variable
	for _, v := range vars {
		if v.Causality == c {
			out = append(out, v)
		}
	}

	return out
}

func checkNames(inputs, outputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: inputs", errs.ErrNoVariables)
	}
	if len(outputs) == 0 {
		return fmt.Errorf("%w: outputs", errs.ErrNoVariables)
	}

	role := make(map[string]format.Causality, len(inputs)+len(outputs))
	for _, group := range []struct {
		names []string
		c     format.Causality
	}{{inputs, format.CausalityInput}, {outputs, format.CausalityOutput}} {
		for _, name := range group.names {
			if name == "" {
				return fmt.Errorf("%w: empty variable name", errs.ErrInput)
			}
			prev, seen := role[name]
			switch {
			case seen && prev == group.c:
				return fmt.Errorf("%w: %s %q", errs.ErrDuplicateVariable, group.c, name)
			case seen:
				return fmt.Errorf("%w: %q", errs.ErrOverlappingVariables, name)
			}
			role[name] = group.c
		}
	}

	return nil
}
