// Package modeldesc builds and serializes the FMI 2.0 model description
// (modelDescription.xml) of a generated FMU.
//
// The description depends only on the model's naming information and the ordered
// input/output variable names; it never looks at fitted parameters. Build produces an
// immutable Descriptor in one pass and validates it; Marshal turns it into bytes:
//
//	desc, err := modeldesc.Build(modeldesc.Info{
//	    ModelName:       "model",
//	    ModelIdentifier: "model",
//	    GUID:            uuid.NewString(),
//	    GeneratedAt:     time.Now(),
//	}, []string{"x", "y"}, []string{"z"})
//	if err != nil {
//	    return err
//	}
//	data, err := modeldesc.Marshal(desc)
//
// # Value References
//
// Variables are numbered by one 1-based sequence, inputs first then outputs, each in the
// given order. The number is both the variable's valueReference and its position in
// ModelVariables, which is what ModelStructure's Unknown index attributes refer to.
package modeldesc
