// Package random provides the seeded pseudo-random source shared by value
// generators and the model-exploration walk. A Context is created once per
// exploration and passed explicitly; a fixed seed reproduces the entire
// stream, and with it every walk and every generated value.
package random

import (
	"math/rand"
	"time"
)

// Context is a seeded pseudo-random stream. It is deliberately mutable and
// must be owned by a single executing run at a time; concurrent scenarios
// each create their own Context.
type Context struct {
	seed int64
	rand *rand.Rand
}

// NewContext creates a Context from an explicit seed.
func NewContext(seed int64) *Context {
	return &Context{
		seed: seed,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// NewTimeSeeded creates a Context seeded from the wall clock.
func NewTimeSeeded() *Context {
	return NewContext(time.Now().UnixNano())
}

// Seed returns the seed the Context was created with.
func (c *Context) Seed() int64 {
	return c.seed
}

// Float64 draws a uniform value in [0, 1).
func (c *Context) Float64() float64 {
	return c.rand.Float64()
}

// Intn draws a uniform value in [0, n).
func (c *Context) Intn(n int) int {
	return c.rand.Intn(n)
}

// Int63 draws a non-negative 63-bit value.
func (c *Context) Int63() int64 {
	return c.rand.Int63()
}

// Shuffle permutes n elements through the swap function.
func (c *Context) Shuffle(n int, swap func(i, j int)) {
	c.rand.Shuffle(n, swap)
}
