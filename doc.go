/*
Package espalier is a test-execution engine for black-box verification of running
services. Scenarios are ordered lists of steps threading an immutable key-value session;
a property-based mode explores a weighted transition graph (a Markov chain) with seeded
randomized walks, searching for invariant violations.

# Concept

A step consumes a run state (session, logs, nesting depth, pending cleanup steps) and
produces an updated state or a structured failure. Leaf steps perform atomic actions;
wrapper steps add control flow: named nesting (Attach), repetition (Repeat), bounded
retry (Eventually), and model exploration (CheckModel). Execution short-circuits on the
first failure, but cleanup steps registered along the way always run at teardown.

All state is passed by value: sessions and run states are copy-on-write, so nothing a
step holds can be mutated behind its back. The one shared mutable resource is the seeded
random context, owned by a single Runner; a fixed seed reproduces an entire exploration.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/seedbed/espalier"
		"github.com/seedbed/espalier/pkg/domain"
		"github.com/seedbed/espalier/pkg/session"
	)

	func main() {
		runner := espalier.NewRunner(espalier.WithSeed(42))

		scenario := espalier.Scenario{
			Title: "user signup",
			Steps: []domain.Step{
				espalier.Step("create user", func(ctx context.Context, s session.Session) (session.Session, error) {
					// call the service under test, record what matters
					return s.Add("user-id", "42")
				}),
			},
		}

		report, err := runner.Run(context.Background(), scenario)
		if err != nil {
			log.Fatalf("scenario failed: %v", err)
		}
		log.Printf("passed in %s", report.Duration)
	}

See examples/ for a complete model-exploration setup against an HTTP service.
*/
package espalier
