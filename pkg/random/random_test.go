package random

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Reproducibility(t *testing.T) {
	c1 := NewContext(42)
	c2 := NewContext(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, c1.Float64(), c2.Float64())
	}
	assert.EqualValues(t, 42, c1.Seed())
}

func TestContext_DistinctSeedsDiverge(t *testing.T) {
	c1 := NewContext(1)
	c2 := NewContext(2)

	same := true
	for i := 0; i < 10; i++ {
		if c1.Int63() != c2.Int63() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestGenerator_TypedExtraction(t *testing.T) {
	rc := NewContext(7)
	gen := NewGenerator("small-int", rc, func(c *Context) any {
		return c.Intn(10)
	})

	assert.Equal(t, "small-int", gen.Name())

	i, err := IntValue(gen)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 10)

	_, err = StringValue(gen)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "small-int", mismatch.Generator)
}

func TestGenerator_StreamIsShared(t *testing.T) {
	// Two generators bound to the same Context consume one stream, so a
	// fixed seed fixes their interleaved outputs.
	draw := func() []string {
		rc := NewContext(99)
		a := NewGenerator("a", rc, func(c *Context) any { return fmt.Sprint(c.Intn(1000)) })
		b := NewGenerator("b", rc, func(c *Context) any { return fmt.Sprint(c.Intn(1000)) })
		var out []string
		for i := 0; i < 5; i++ {
			out = append(out, a.Value().(string), b.Value().(string))
		}
		return out
	}

	assert.Equal(t, draw(), draw())
}
