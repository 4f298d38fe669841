package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float32

func TestParse(t *testing.T) {
	v, err := Parse[float64]("234.289")
	require.NoError(t, err)
	assert.Equal(t, 234.289, v)

	f, err := Parse[float32](" 235.6 ")
	require.NoError(t, err)
	assert.Equal(t, float32(235.6), f)

	c, err := Parse[celsius]("-4.5")
	require.NoError(t, err)
	assert.Equal(t, celsius(-4.5), c)

	n, err := Parse[float64]("NaN")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(n))
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1.0.0", "1,0"} {
		_, err := Parse[float64](s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "469.889", Format(234.289+235.6))
	assert.Equal(t, "469.889", Format(float32(234.289)+float32(235.6)))
	assert.Equal(t, "1000000", Format(1e6))
	assert.Equal(t, "-0.25", Format(celsius(-0.25)))
	assert.Equal(t, "5", Format(5.0))
}
