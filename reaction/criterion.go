// Package reaction provides reaction templates, their geometric criteria,
// and bound candidate instances awaiting acceptance.
package reaction

import (
	"fmt"

	"github.com/rmera/rsmd/topology"
	"github.com/rmera/rsmd/vec3"
)

// AtomRef names a single atom within a bound candidate: the index of the
// reactant pattern it belongs to, and the index of the atom within that
// reactant's atom list.
type AtomRef struct {
	Reactant int
	Atom     int
}

// Criterion is a predicate attached to a template and evaluated on bound
// reactants. EarliestK is the smallest k (reactant-tuple length minus one,
// i.e. the last reactant index the criterion touches) at which the
// criterion becomes evaluable; it is derived automatically from the atom
// references rather than declared separately, since no staged-enumeration
// concept exists to declare it against in the source this module is
// modeled on.
type Criterion interface {
	EarliestK() int
	Valid(reactants []*topology.Molecule, box vec3.Vec) bool
	Latest() float64
	Min() float64
	Max() float64
	Refs() []AtomRef
}

func earliestK(refs []AtomRef) int {
	k := 0
	for _, r := range refs {
		if r.Reactant > k {
			k = r.Reactant
		}
	}
	return k
}

func position(reactants []*topology.Molecule, ref AtomRef) vec3.Vec {
	return reactants[ref.Reactant].Atoms[ref.Atom].Position
}

// DistanceCriterion accepts a pair of atoms whose PBC distance falls within
// [Min, Max].
type DistanceCriterion struct {
	A, B     AtomRef
	MinValue float64
	MaxValue float64
	latest   float64
}

func (c *DistanceCriterion) EarliestK() int { return earliestK(c.Refs()) }
func (c *DistanceCriterion) Min() float64   { return c.MinValue }
func (c *DistanceCriterion) Max() float64   { return c.MaxValue }
func (c *DistanceCriterion) Latest() float64 { return c.latest }
func (c *DistanceCriterion) Refs() []AtomRef { return []AtomRef{c.A, c.B} }

func (c *DistanceCriterion) Valid(reactants []*topology.Molecule, box vec3.Vec) bool {
	c.latest = vec3.Distance(position(reactants, c.A), position(reactants, c.B), box)
	return c.latest >= c.MinValue && c.latest <= c.MaxValue
}

// AngleCriterion accepts a triple of atoms whose PBC-corrected angle (degrees)
// falls within [Min, Max].
type AngleCriterion struct {
	A, B, C  AtomRef
	MinValue float64
	MaxValue float64
	latest   float64
}

func (c *AngleCriterion) EarliestK() int    { return earliestK(c.Refs()) }
func (c *AngleCriterion) Min() float64      { return c.MinValue }
func (c *AngleCriterion) Max() float64      { return c.MaxValue }
func (c *AngleCriterion) Latest() float64   { return c.latest }
func (c *AngleCriterion) Refs() []AtomRef   { return []AtomRef{c.A, c.B, c.C} }

func (c *AngleCriterion) Valid(reactants []*topology.Molecule, box vec3.Vec) bool {
	c.latest = vec3.Angle(position(reactants, c.A), position(reactants, c.B), position(reactants, c.C), box)
	return c.latest >= c.MinValue && c.latest <= c.MaxValue
}

// DihedralCriterion accepts a quadruple of atoms whose PBC-corrected
// dihedral angle (degrees) falls within [Min, Max].
type DihedralCriterion struct {
	A, B, C, D AtomRef
	MinValue   float64
	MaxValue   float64
	latest     float64
}

func (c *DihedralCriterion) EarliestK() int  { return earliestK(c.Refs()) }
func (c *DihedralCriterion) Min() float64    { return c.MinValue }
func (c *DihedralCriterion) Max() float64    { return c.MaxValue }
func (c *DihedralCriterion) Latest() float64 { return c.latest }
func (c *DihedralCriterion) Refs() []AtomRef { return []AtomRef{c.A, c.B, c.C, c.D} }

func (c *DihedralCriterion) Valid(reactants []*topology.Molecule, box vec3.Vec) bool {
	c.latest = vec3.Dihedral(position(reactants, c.A), position(reactants, c.B), position(reactants, c.C), position(reactants, c.D), box)
	return c.latest >= c.MinValue && c.latest <= c.MaxValue
}

// validateRefs checks that every atom reference in refs points at a reactant
// index within [0, reactantCount), catching malformed templates at load
// time rather than with an out-of-range panic later.
func validateRefs(refs []AtomRef, reactantCount int) error {
	for _, r := range refs {
		if r.Reactant < 0 || r.Reactant >= reactantCount {
			return Error{message: fmt.Sprintf("criterion references reactant %d but template only has %d reactants", r.Reactant, reactantCount)}
		}
	}
	return nil
}
