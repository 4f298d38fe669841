package input

import (
	"fmt"
	"math"
	"strings"
)

// Separator is the character that joins submitted values. No rendered
// default may contain it.
const Separator = ","

// Kind identifies a descriptor variant.
type Kind string

const (
	KindNumber Kind = "number"
	KindText   Kind = "text"
	KindSlider Kind = "slider"
)

// Descriptor describes one positional parameter of the evaluated function.
// The set of variants is closed: Number, Text and Slider.
type Descriptor interface {
	Kind() Kind
	sealed()
}

// Number is a numeric field pre-filled with a fixed default.
type Number float64

// Text is a free-form field pre-filled with a textual default. Its value is
// still parsed as a number on submission.
type Text string

// Slider is a bounded range control with a paired read-only display.
// Bounds describe the control only; submitted values are not re-checked
// against them.
type Slider struct {
	Min     float64
	Max     float64
	Step    float64
	Initial float64
}

func (Number) Kind() Kind { return KindNumber }
func (Text) Kind() Kind   { return KindText }
func (Slider) Kind() Kind { return KindSlider }

func (Number) sealed() {}
func (Text) sealed()   {}
func (Slider) sealed() {}

// Validate checks every descriptor and reports the first problem together
// with its index.
func Validate(inputs []Descriptor) error {
	for i, in := range inputs {
		if err := validateOne(in); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}
	return nil
}

func validateOne(in Descriptor) error {
	switch v := in.(type) {
	case Number:
		return nil
	case Text:
		if strings.Contains(string(v), Separator) {
			return fmt.Errorf("text value %q contains reserved separator %q", string(v), Separator)
		}
		return nil
	case Slider:
		for _, f := range []float64{v.Min, v.Max, v.Step, v.Initial} {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("slider bounds must be finite")
			}
		}
		if v.Step <= 0 {
			return fmt.Errorf("slider step must be positive, got %v", v.Step)
		}
		if v.Min > v.Max {
			return fmt.Errorf("slider min %v exceeds max %v", v.Min, v.Max)
		}
		if v.Initial < v.Min || v.Initial > v.Max {
			return fmt.Errorf("slider initial %v outside [%v, %v]", v.Initial, v.Min, v.Max)
		}
		return nil
	case nil:
		return fmt.Errorf("nil descriptor")
	default:
		return fmt.Errorf("unknown descriptor %T", in)
	}
}
