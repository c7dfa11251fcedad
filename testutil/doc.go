// Package testutil provides deterministic fixtures for index tests and
// benchmarks: a seeded RNG, random acyclic topologies, and a reference
// reachability oracle.
package testutil
