// Package testutil provides testing utilities for kinoplan.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic dynamics stubs, random state generation, exact
// nearest-neighbor ground truth and an invariant assertion helper.
//
// # Dynamics Stubs
//
//	sys := testutil.NewLine()              // s + u*n*dt clamped to [-10, 10]
//	sys := testutil.Infeasible{System: sys} // every propagation fails
//	sys := testutil.NewScripted(sys, ends)  // replays fixed end states
//
// # Random States
//
//	rng := testutil.NewRNG(seed)
//	states := rng.UniformStates(100, sys.StateBounds())
//
// # Exact Search (Ground Truth)
//
//	i, d := testutil.ExactNearest(query, states, distance.Euclidean)
package testutil
