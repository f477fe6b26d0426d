// Package topology provides the molecule/atom container and the per-cycle
// reaction-record bookkeeping that lets a product molecule be tracked
// across topology sorts and MD relaxations.
package topology

import "github.com/rmera/rsmd/vec3"

// Atom is owned by exactly one Molecule. Id is stable until the owning
// topology is sorted, at which point every atom is renumbered 1..A.
type Atom struct {
	Id       int
	Name     string
	Position vec3.Vec
	Velocity vec3.Vec

	// Extra carries template-defined per-atom fields (charge, type, ...)
	// that are preserved verbatim through a reaction.
	Extra map[string]float64
}

// Copy returns a deep copy of the atom, including its Extra map.
func (a *Atom) Copy() *Atom {
	n := *a
	if a.Extra != nil {
		n.Extra = make(map[string]float64, len(a.Extra))
		for k, v := range a.Extra {
			n.Extra[k] = v
		}
	}
	return &n
}
