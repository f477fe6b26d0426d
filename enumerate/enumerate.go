// Package enumerate walks a cell index to generate every reactant tuple
// eligible for a reaction template, applying symmetry-breaking so each
// chemically-equivalent tuple surfaces exactly once.
package enumerate

import (
	"github.com/rmera/rsmd/cellindex"
	"github.com/rmera/rsmd/reaction"
	"github.com/rmera/rsmd/topology"
	"github.com/rmera/rsmd/vec3"
)

// Enumerate seeds the recursive walk from every cell of idx and returns every
// fully bound, criterion-satisfying candidate for template, using a single
// recursive routine for any reactant count, symmetry-broken identically at
// every position.
func Enumerate(template *reaction.ReactionTemplate, top *topology.Topology, idx *cellindex.Index, box vec3.Vec) []*reaction.ReactionCandidate {
	moleculeIndex := make(map[*topology.Molecule]int, len(top.Molecules))
	for i, m := range top.Molecules {
		moleculeIndex[m] = i
	}

	var out []*reaction.ReactionCandidate
	for c := 0; c < idx.NCells(); c++ {
		bound := reaction.NewCandidate(template, top)
		walk(template, idx, box, moleculeIndex, bound, 0, c, &out)
	}
	return out
}

// walk binds reactant slot j and recurses, always drawing candidates
// relative to the seed cell passed down from Enumerate (anchorCell never
// changes through the recursion for a given seed): slot 0 from the seed
// cell itself, every later slot from the seed cell's 27-cell neighbourhood.
func walk(
	template *reaction.ReactionTemplate,
	idx *cellindex.Index,
	box vec3.Vec,
	moleculeIndex map[*topology.Molecule]int,
	bound *reaction.ReactionCandidate,
	j int,
	anchorCell int,
	out *[]*reaction.ReactionCandidate,
) {
	k := template.ReactantCount()
	if j == k {
		if bound.Valid(box, j-1) {
			emit(bound, out)
		}
		return
	}

	name := template.Reactants[j].Name

	var mols []*topology.Molecule
	var fromCells []int
	if j == 0 {
		mols = idx.Cell(anchorCell, name)
		fromCells = make([]int, len(mols))
		for i := range fromCells {
			fromCells[i] = anchorCell
		}
	} else {
		mols, fromCells = idx.CellNeighbours(anchorCell, name)
	}

	// small grids repeat cells in the neighbour stencil, so the same molecule
	// can be listed more than once; bind each molecule at most once per slot.
	seen := make(map[*topology.Molecule]bool, len(mols))
	for mi, m := range mols {
		if seen[m] {
			continue
		}
		seen[m] = true
		fromCell := fromCells[mi]

		if violatesDistinctness(bound, j, m) {
			continue
		}
		if violatesCanonicalOrder(bound, j, m, fromCell) {
			continue
		}

		molIndex, ok := moleculeIndex[m]
		if !ok {
			continue
		}

		bound.UpdateReactant(j, molIndex)
		bound.SetFromCell(j, fromCell)

		if bound.Valid(box, j) {
			walk(template, idx, box, moleculeIndex, bound, j+1, anchorCell, out)
		}
	}
}

// violatesDistinctness implements R1: no molecule may occupy two reactant
// slots in the same tuple.
func violatesDistinctness(bound *reaction.ReactionCandidate, j int, m *topology.Molecule) bool {
	for i := 0; i < j; i++ {
		if bound.Reactant(i).Id == m.Id {
			return true
		}
	}
	return false
}

// violatesCanonicalOrder implements R2 (id-order for same-name reactants)
// and R3 (cell-order for same-name reactants), applied at every k to
// suppress permutation multiplicity and neighbour-stencil double-counting.
func violatesCanonicalOrder(bound *reaction.ReactionCandidate, j int, m *topology.Molecule, fromCell int) bool {
	for i := 0; i < j; i++ {
		prior := bound.Reactant(i)
		if prior.Name != m.Name {
			continue
		}
		if prior.Id > m.Id {
			return true
		}
		if bound.FromCell(i) > fromCell {
			return true
		}
	}
	return false
}

func emit(bound *reaction.ReactionCandidate, out *[]*reaction.ReactionCandidate) {
	cp := *bound
	*out = append(*out, &cp)
}
