// Package model defines the transition graph explored by the check-model
// step: properties as nodes, weighted transitions as edges, forming a
// Markov chain walked with a seeded random source.
package model

import (
	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/random"
)

// MaxGenerators is the number of generator slots a model may bind.
const MaxGenerators = 6

// Property is a node of the exploration graph. Identity is its Description,
// which must be unique within one model.
type Property struct {
	// Description names the property in logs, errors and graph exports.
	Description string

	// PreCondition, when set, must succeed for the property to proceed.
	PreCondition domain.Step

	// Invariant produces the step to execute at this node. It receives the
	// model's bound generators, in slot order. A nil Invariant marks a
	// purely structural node with nothing to verify.
	Invariant func(gens ...random.Generator) domain.Step
}

// Transition is one weighted outgoing edge. Weight is a probability in
// (0, 1]; the weights of one source's ordered transition list partition
// [0, 1).
type Transition struct {
	Weight float64
	To     *Property
}

// TransitionTable maps each source property to its ordered outgoing edges.
// A property absent from the table is terminal: reaching it ends the run.
type TransitionTable map[*Property][]Transition

// Model is a complete exploration graph with its entry point.
type Model struct {
	Description string
	EntryPoint  *Property
	Transitions TransitionTable
}
