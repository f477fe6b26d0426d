// Package engine declares the external collaborators the reactive-step
// controller drives: the MD relaxation process and the topology file
// format parser. Only the capability interfaces and a no-op pair for tests
// and dry runs live here; this module contains no concrete backend.
package engine

import "github.com/rmera/rsmd/topology"

// MDEngine runs the external molecular-dynamics relaxation for one cycle.
type MDEngine interface {
	// RunRelaxation synchronously relaxes the configuration written for
	// cycle and reports whether it converged. A false return (or non-nil
	// error) is fatal to the run.
	RunRelaxation(cycle int) (bool, error)
}

// TopologyParser reads and writes the per-cycle state files the MD engine
// and controller exchange.
type TopologyParser interface {
	// Read populates top from the engine's per-cycle state file.
	Read(top *topology.Topology, cycle int) error
	// ReadRelaxed populates top from the post-relaxation state file.
	ReadRelaxed(top *topology.Topology, cycle int) error
	// Write emits top for the next relaxation.
	Write(top *topology.Topology, cycle int) error
}

// Null is a no-op MDEngine and TopologyParser pair: relaxation always
// reports success without touching any file, and parser calls leave the
// topology untouched. It exists to exercise the controller's control flow
// in tests and dry-run mode without a real MD binary.
type Null struct{}

func (Null) RunRelaxation(cycle int) (bool, error) { return true, nil }

func (Null) Read(top *topology.Topology, cycle int) error { return nil }

func (Null) ReadRelaxed(top *topology.Topology, cycle int) error { return nil }

func (Null) Write(top *topology.Topology, cycle int) error { return nil }
