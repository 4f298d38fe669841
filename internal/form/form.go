// Package form renders input descriptors into the self-contained HTML
// document shown by a rendering surface.
//
// The document holds one element with class "input" per descriptor, in
// descriptor order, each with id "input{i}" and name "x{i}". Submitting the
// form joins the current values of those elements with input.Separator and
// hands the string to window.tissue.post, which the surface's bridge script
// defines. The result is written into the element with id "output".
package form

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"tissue/internal/input"
	"tissue/internal/numeric"
)

// OutputID is the id of the element that displays the function result.
const OutputID = "output"

//go:embed form.html.tmpl
var documentSource string

var document = template.Must(template.New("form").Parse(documentSource))

// Page carries the surface-specific parts of the document.
type Page struct {
	Title string
	// Stylesheet is trusted CSS inlined into the head.
	Stylesheet string
	// Bridge is trusted JavaScript that defines window.tissue.post and
	// window.tissue.result for the hosting surface.
	Bridge string
}

type field struct {
	Index   int
	Value   string
	Numeric bool
	Slider  bool
	Min     string
	Max     string
	Step    string
}

type documentData struct {
	Title      string
	Stylesheet template.CSS
	Bridge     template.JS
	Fields     []field
}

// Generate renders the document for inputs. The same inputs and page always
// yield the same bytes.
func Generate(inputs []input.Descriptor, page Page) (string, error) {
	fields := make([]field, 0, len(inputs))
	for i, in := range inputs {
		f, err := newField(i, in)
		if err != nil {
			return "", err
		}
		fields = append(fields, f)
	}

	data := documentData{
		Title:      page.Title,
		Stylesheet: template.CSS(page.Stylesheet),
		Bridge:     template.JS(page.Bridge),
		Fields:     fields,
	}

	var b strings.Builder
	if err := document.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render form: %w", err)
	}
	return b.String(), nil
}

func newField(index int, in input.Descriptor) (field, error) {
	switch v := in.(type) {
	case input.Number:
		return field{Index: index, Value: numeric.Format(float64(v)), Numeric: true}, nil
	case input.Text:
		return field{Index: index, Value: string(v)}, nil
	case input.Slider:
		return field{
			Index:  index,
			Value:  numeric.Format(v.Initial),
			Slider: true,
			Min:    numeric.Format(v.Min),
			Max:    numeric.Format(v.Max),
			Step:   numeric.Format(v.Step),
		}, nil
	default:
		return field{}, fmt.Errorf("input %d: unsupported descriptor %T", index, in)
	}
}
