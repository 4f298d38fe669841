// Package numeric parses and formats the floating-point types a submitted
// form can be evaluated with.
package numeric

import (
	"strconv"
	"strings"
	"unsafe"
)

// Float is the set of numeric types a function can take and return.
type Float interface {
	~float32 | ~float64
}

// Parse converts s into F, rounding to F's precision.
func Parse[F Float](s string) (F, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), bitSize[F]())
	if err != nil {
		return 0, err
	}
	return F(v), nil
}

// Format renders v in the shortest decimal form that parses back to v,
// without an exponent.
func Format[F Float](v F) string {
	return strconv.FormatFloat(float64(v), 'f', -1, bitSize[F]())
}

func bitSize[F Float]() int {
	var zero F
	return int(unsafe.Sizeof(zero)) * 8
}
