package modeldesc

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/internal/pool"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Marshal serializes d as UTF-8 XML with a declaration, two-space indentation and a
// trailing newline. Childless elements are written self-closing.
//
// Marshal has no side effects; the same descriptor always yields the same bytes.
func Marshal(d *Descriptor) ([]byte, error) {
	buf := pool.GetRenderBuffer()
	defer pool.PutRenderBuffer(buf)

	_, _ = buf.WriteString(xmlHeader)
	if err := writeElement(buf, d.root, 0); err != nil {
		return nil, err
	}

	return buf.Clone(), nil
}

func writeElement(buf *pool.ByteBuffer, e Element, depth int) error {
	indent := strings.Repeat("  ", depth)
	_, _ = buf.WriteString(indent)
	_, _ = buf.WriteString("<")
	_, _ = buf.WriteString(e.Name)
	for _, a := range e.Attrs {
		_, _ = buf.WriteString(" ")
		_, _ = buf.WriteString(a.Name)
		_, _ = buf.WriteString(`="`)
		if err := xml.EscapeText(buf, []byte(a.Value)); err != nil {
			return fmt.Errorf("%w: attribute %s: %w", errs.ErrSchema, a.Name, err)
		}
		_, _ = buf.WriteString(`"`)
	}

	if len(e.Children) == 0 {
		_, _ = buf.WriteString("/>\n")
		return nil
	}

	_, _ = buf.WriteString(">\n")
	for _, c := range e.Children {
		if err := writeElement(buf, c, depth+1); err != nil {
			return err
		}
	}
	_, _ = buf.WriteString(indent)
	_, _ = buf.WriteString("</")
	_, _ = buf.WriteString(e.Name)
	_, _ = buf.WriteString(">\n")

	return nil
}

// Document is the parsed form of a model description, as read back from an archive.
type Document struct {
	XMLName                  xml.Name         `xml:"fmiModelDescription"`
	FMIVersion               string           `xml:"fmiVersion,attr"`
	ModelName                string           `xml:"modelName,attr"`
	GUID                     string           `xml:"guid,attr"`
	GenerationTool           string           `xml:"generationTool,attr"`
	GenerationDateAndTime    string           `xml:"generationDateAndTime,attr"`
	VariableNamingConvention string           `xml:"variableNamingConvention,attr"`
	ModelExchange            *Interface       `xml:"ModelExchange"`
	CoSimulation             *Interface       `xml:"CoSimulation"`
	LogCategories            []Category       `xml:"LogCategories>Category"`
	ModelVariables           []ScalarVariable `xml:"ModelVariables>ScalarVariable"`
	Outputs                  []Unknown        `xml:"ModelStructure>Outputs>Unknown"`
	InitialUnknowns          []Unknown        `xml:"ModelStructure>InitialUnknowns>Unknown"`
}

// Interface is a ModelExchange or CoSimulation section.
type Interface struct {
	ModelIdentifier string       `xml:"modelIdentifier,attr"`
	SourceFiles     []SourceFile `xml:"SourceFiles>File"`
}

// SourceFile is one SourceFiles/File entry.
type SourceFile struct {
	Name string `xml:"name,attr"`
}

// Category is a log category.
type Category struct {
	Name string `xml:"name,attr"`
}

// ScalarVariable is a parsed ModelVariables entry.
type ScalarVariable struct {
	Name           string    `xml:"name,attr"`
	ValueReference uint32    `xml:"valueReference,attr"`
	Causality      string    `xml:"causality,attr"`
	Variability    string    `xml:"variability,attr"`
	Real           *RealType `xml:"Real"`
}

// RealType is the Real type element of a variable.
type RealType struct {
	Start *string `xml:"start,attr"`
}

// Unknown is a ModelStructure Unknown entry.
type Unknown struct {
	Index        int     `xml:"index,attr"`
	Dependencies *string `xml:"dependencies,attr"`
}

// Unmarshal parses a model description.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrSchema, err)
	}

	return &doc, nil
}

// Names returns the names of the variables with the given causality ("input" or
// "output"), in document order.
func (doc *Document) Names(causality string) []string {
	var out []string
	for _, v := range doc.ModelVariables {
		if v.Causality == causality {
			out = append(out, v.Name)
		}
	}

	return out
}

// ModelIdentifier returns the identifier of the first declared interface.
func (doc *Document) ModelIdentifier() string {
	switch {
	case doc.ModelExchange != nil:
		return doc.ModelExchange.ModelIdentifier
	case doc.CoSimulation != nil:
		return doc.CoSimulation.ModelIdentifier
	default:
		return ""
	}
}
