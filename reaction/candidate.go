package reaction

import (
	"fmt"
	"strings"

	"github.com/rmera/rsmd/topology"
	"github.com/rmera/rsmd/vec3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReactionCandidate is a fully- (or partially-, during enumeration-) bound
// reaction instance. Reactants are held as indices into a stable snapshot
// topology rather than raw pointers: the snapshot is never mutated while a
// candidate is being built or evaluated, so an index stays valid for the
// candidate's whole lifetime and the candidate itself stays a small,
// comparable, freely copyable value.
type ReactionCandidate struct {
	Template   *ReactionTemplate
	Snapshot   *topology.Topology
	reactant   [4]int // indices into Snapshot.Molecules
	nReactants int
	// fromCell records, for R3 symmetry-breaking, the cell each reactant
	// was discovered in during enumeration. Not meaningful outside the
	// enumerator.
	fromCell [4]int
}

// NewCandidate returns an unbound candidate over template, to be filled in
// one UpdateReactant call per reactant slot.
func NewCandidate(template *ReactionTemplate, snapshot *topology.Topology) *ReactionCandidate {
	return &ReactionCandidate{Template: template, Snapshot: snapshot}
}

// UpdateReactant binds reactant slot i to the molecule at snapshot index
// molIndex.
func (c *ReactionCandidate) UpdateReactant(i, molIndex int) {
	c.reactant[i] = molIndex
	if i+1 > c.nReactants {
		c.nReactants = i + 1
	}
}

// SetFromCell records which cell reactant i was discovered in (used by the
// enumerator's R3 rule; harmless to leave unset outside enumeration).
func (c *ReactionCandidate) SetFromCell(i, cell int) { c.fromCell[i] = cell }

// FromCell returns the cell reactant i was discovered in.
func (c *ReactionCandidate) FromCell(i int) int { return c.fromCell[i] }

// NReactants returns how many reactant slots have been bound so far.
func (c *ReactionCandidate) NReactants() int { return c.nReactants }

// Reactant returns the bound molecule at slot i.
func (c *ReactionCandidate) Reactant(i int) *topology.Molecule {
	return c.Snapshot.Molecules[c.reactant[i]]
}

// Reactants returns every bound reactant molecule, in slot order.
func (c *ReactionCandidate) Reactants() []*topology.Molecule {
	out := make([]*topology.Molecule, c.nReactants)
	for i := 0; i < c.nReactants; i++ {
		out[i] = c.Reactant(i)
	}
	return out
}

// Valid evaluates every criterion whose EarliestK is <= k against the
// reactants bound so far, short-circuiting (and thus preserving Latest()
// for logging) on the first failure.
func (c *ReactionCandidate) Valid(box vec3.Vec, k int) bool {
	reactants := c.Reactants()
	for _, crit := range c.Template.Criteria {
		if crit.EarliestK() > k {
			continue
		}
		if !crit.Valid(reactants, box) {
			return false
		}
	}
	return true
}

// GetCurrentReactionRateValue returns the template's rate evaluated at the
// latest value of its first criterion (by convention, a distance
// criterion), i.e. the rate in the current local geometric context. When
// the reactants that criterion references are bound, it is re-evaluated on
// this candidate's own reactants first, since criteria are shared by every
// candidate of the template.
func (c *ReactionCandidate) GetCurrentReactionRateValue() float64 {
	if len(c.Template.Criteria) == 0 {
		return 0
	}
	first := c.Template.Criteria[0]
	if c.Snapshot != nil && first.EarliestK() < c.nReactants {
		first.Valid(c.Reactants(), c.Snapshot.Dimensions)
	}
	return c.Template.RateAt(first.Latest())
}

// ApplyTransitions materializes product molecules from the bound reactants
// using the template's transition table: ids, positions and velocities flow
// from the referenced reactant atom onto the referenced product atom.
func (c *ReactionCandidate) ApplyTransitions() []*topology.Molecule {
	products := make([]*topology.Molecule, len(c.Template.Products))
	for i, pp := range c.Template.Products {
		m := topology.NewMolecule(0, pp.Name)
		for _, at := range pp.Atoms {
			extra := make(map[string]float64, len(at.Extra))
			for k, v := range at.Extra {
				extra[k] = v
			}
			m.AddAtom(&topology.Atom{Name: at.Name, Extra: extra})
		}
		products[i] = m
	}
	for _, tt := range c.Template.Transitions {
		srcAtom := c.Reactant(tt.OldReactant).Atoms[tt.OldAtom]
		dstAtom := products[tt.NewProduct].Atoms[tt.NewAtom]
		dstAtom.Id = srcAtom.Id
		dstAtom.Position = srcAtom.Position
		dstAtom.Velocity = srcAtom.Velocity
	}
	return products
}

// ApplyTranslations applies each template-defined post-transition
// displacement: the Moving atom is shifted along the unit vector pointing
// from it towards the Towards atom, by Value.
func (c *ReactionCandidate) ApplyTranslations(products []*topology.Molecule) {
	for _, tt := range c.Template.Translations {
		moving := products[tt.Moving.Reactant].Atoms[tt.Moving.Atom]
		towards := products[tt.Towards.Reactant].Atoms[tt.Towards.Atom]

		delta := r3.Sub(towards.Position, moving.Position)
		norm := r3.Norm(delta)
		if norm == 0 {
			continue
		}
		unit := r3.Scale(1/norm, delta)
		moving.Position = r3.Add(moving.Position, r3.Scale(tt.Value, unit))
	}
}

// ShortInfo returns a one-line identifier used for logging, naming the
// template and every bound reactant's id and name.
func (c *ReactionCandidate) ShortInfo() string {
	var parts []string
	for i := 0; i < c.nReactants; i++ {
		r := c.Reactant(i)
		parts = append(parts, fmt.Sprintf("%d %s", r.Id, r.Name))
	}
	return fmt.Sprintf("<Reaction %s, reactants: %s>", c.Template.Name, strings.Join(parts, ", "))
}
