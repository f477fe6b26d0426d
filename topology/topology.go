package topology

import (
	"fmt"
	"sort"

	"github.com/rmera/rsmd/vec3"
)

// Kind identifies the taxonomy of errors a Topology operation can return.
type Kind int

const (
	// KindNotFound marks a lookup of an absent molecule or reaction record.
	KindNotFound Kind = iota
	// KindMalformed marks a structurally invalid request, e.g. a non-positive box.
	KindMalformed
)

// Error is the error type returned by this package: an unexported message
// plus enough structure (Kind) for a caller to discriminate without parsing
// strings.
type Error struct {
	Kind    Kind
	message string
}

func (e Error) Error() string { return "topology: " + e.message }

func notFound(format string, args ...interface{}) Error {
	return Error{Kind: KindNotFound, message: fmt.Sprintf(format, args...)}
}

// Topology is an ordered collection of molecules plus the periodic box, the
// cell grid shape, and the bookkeeping that lets a caller track a molecule
// across an id-renumbering Sort.
type Topology struct {
	Molecules   []*Molecule
	Dimensions  vec3.Vec
	CellNumbers [3]int

	// reactedMoleculeRecords maps pre-sort molecule id -> current (latest) id.
	reactedMoleculeRecords map[int]int
	// reactedAtomRecords maps pre-sort atom id -> post-sort atom id, recomputed
	// on every Sort.
	reactedAtomRecords map[int]int
}

// New returns an empty topology with the given box dimensions.
func New(dimensions vec3.Vec) *Topology {
	return &Topology{
		Dimensions:             dimensions,
		reactedMoleculeRecords: make(map[int]int),
		reactedAtomRecords:     make(map[int]int),
	}
}

// AddMolecule appends a new, empty molecule with the given id and name and
// returns it.
func (t *Topology) AddMolecule(id int, name string) *Molecule {
	m := NewMolecule(id, name)
	t.Molecules = append(t.Molecules, m)
	return m
}

// AddMoleculeValue appends an already-constructed molecule.
func (t *Topology) AddMoleculeValue(m *Molecule) {
	t.Molecules = append(t.Molecules, m)
}

// GetOrAddMolecule returns the first molecule matching id, creating it (with
// the given name) if absent.
func (t *Topology) GetOrAddMolecule(id int, name string) *Molecule {
	for _, m := range t.Molecules {
		if m.Id == id {
			return m
		}
	}
	return t.AddMolecule(id, name)
}

// RemoveMoleculeID removes every molecule matching id. No error if absent.
func (t *Topology) RemoveMoleculeID(id int) {
	t.Molecules = filterMolecules(t.Molecules, func(m *Molecule) bool { return m.Id != id })
}

// RemoveMolecule removes every molecule matching mol's id and name. No error
// if absent.
func (t *Topology) RemoveMolecule(mol *Molecule) {
	t.Molecules = filterMolecules(t.Molecules, func(m *Molecule) bool { return !m.Same(mol) })
}

func filterMolecules(in []*Molecule, keep func(*Molecule) bool) []*Molecule {
	out := in[:0]
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// GetMolecule returns the first molecule matching id, or a NotFound Error.
func (t *Topology) GetMolecule(id int) (*Molecule, error) {
	for _, m := range t.Molecules {
		if m.Id == id {
			return m, nil
		}
	}
	return nil, notFound("no molecule with id %d", id)
}

// GetMolecules returns every molecule with the given name, in topology order.
func (t *Topology) GetMolecules(name string) []*Molecule {
	var out []*Molecule
	for _, m := range t.Molecules {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// ContainsMoleculeID reports whether a molecule with the given id exists.
func (t *Topology) ContainsMoleculeID(id int) bool {
	_, err := t.GetMolecule(id)
	return err == nil
}

// ContainsMolecule reports whether a molecule with mol's id and name exists.
func (t *Topology) ContainsMolecule(mol *Molecule) bool {
	for _, m := range t.Molecules {
		if m.Same(mol) {
			return true
		}
	}
	return false
}

// MoleculeTypes returns the de-duplicated sequence of molecule names, in
// first-occurrence order.
func (t *Topology) MoleculeTypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range t.Molecules {
		if !seen[m.Name] {
			seen[m.Name] = true
			out = append(out, m.Name)
		}
	}
	return out
}

// NAtoms returns the total number of atoms across all molecules.
func (t *Topology) NAtoms() int {
	n := 0
	for _, m := range t.Molecules {
		n += m.Len()
	}
	return n
}

// AddReactionRecord registers a freshly inserted product molecule: its
// current id maps to itself until the next Sort renumbers it.
func (t *Topology) AddReactionRecord(molID int) {
	if t.reactedMoleculeRecords == nil {
		t.reactedMoleculeRecords = make(map[int]int)
	}
	t.reactedMoleculeRecords[molID] = molID
}

// GetReactionRecordMolecule looks up the current id for a molecule recorded
// under oldID, failing with a NotFound Error if absent.
func (t *Topology) GetReactionRecordMolecule(oldID int) (int, error) {
	id, ok := t.reactedMoleculeRecords[oldID]
	if !ok {
		return 0, notFound("no reaction record for molecule id %d", oldID)
	}
	return id, nil
}

// ReactionRecordAtoms exposes the (oldAtomId -> newAtomId) map populated by
// the most recent Sort.
func (t *Topology) ReactionRecordAtoms() map[int]int {
	return t.reactedAtomRecords
}

// ClearReactionRecords empties both reaction-record maps; called at
// snapshot time (start of a reactive-step cycle).
func (t *Topology) ClearReactionRecords() {
	t.reactedMoleculeRecords = make(map[int]int)
	t.reactedAtomRecords = make(map[int]int)
}

// Sort stably sorts molecules by name, reassigns molecule ids 1..M and atom
// ids 1..A in molecule-then-in-molecule order, and updates the reaction
// records: reactedMoleculeRecords values (the current id a record tracks)
// are rewritten to the new ids -- via an old-id-to-new-id map built from
// this pass's renumbering, not by testing whether a molecule's pre-sort id
// happens to equal a map key, which only holds on the first Sort after a
// record is added -- and reactedAtomRecords is recomputed from scratch for
// atoms belonging to any molecule whose pre-sort id is a tracked value.
// This is the only operation permitted to mutate ids.
func (t *Topology) Sort() {
	sort.SliceStable(t.Molecules, func(i, j int) bool {
		return t.Molecules[i].Name < t.Molecules[j].Name
	})

	trackedID := make(map[int]bool, len(t.reactedMoleculeRecords))
	for _, id := range t.reactedMoleculeRecords {
		trackedID[id] = true
	}

	oldToNew := make(map[int]int, len(t.Molecules))
	newAtomRecords := make(map[int]int)

	moleculeCounter := 0
	atomCounter := 0
	for _, m := range t.Molecules {
		moleculeCounter++
		oldToNew[m.Id] = moleculeCounter
		isRecorded := trackedID[m.Id]
		m.Id = moleculeCounter
		for _, a := range m.Atoms {
			atomCounter++
			if isRecorded {
				newAtomRecords[a.Id] = atomCounter
			}
			a.Id = atomCounter
		}
	}

	for key, oldID := range t.reactedMoleculeRecords {
		if newID, ok := oldToNew[oldID]; ok {
			t.reactedMoleculeRecords[key] = newID
		}
	}
	t.reactedAtomRecords = newAtomRecords
}

// MakeMoleculeWhole repairs a molecule broken across the periodic
// boundary, bringing every atom within half a box-length of the first atom.
func (t *Topology) MakeMoleculeWhole(m *Molecule) error {
	if err := vec3.CheckBox(t.Dimensions); err != nil {
		return err
	}
	positions := make([]vec3.Vec, len(m.Atoms))
	for i, a := range m.Atoms {
		positions[i] = a.Position
	}
	repaired := vec3.MakeWhole(positions, t.Dimensions)
	for i, a := range m.Atoms {
		a.Position = repaired[i]
	}
	return nil
}

// Copy returns a deep copy of the topology, including molecules/atoms and
// its own copy of the reaction-record maps, so mutating the copy never
// affects t.
func (t *Topology) Copy() *Topology {
	n := &Topology{
		Dimensions:             t.Dimensions,
		CellNumbers:            t.CellNumbers,
		Molecules:              make([]*Molecule, len(t.Molecules)),
		reactedMoleculeRecords: make(map[int]int, len(t.reactedMoleculeRecords)),
		reactedAtomRecords:     make(map[int]int, len(t.reactedAtomRecords)),
	}
	for i, m := range t.Molecules {
		n.Molecules[i] = m.Copy()
	}
	for k, v := range t.reactedMoleculeRecords {
		n.reactedMoleculeRecords[k] = v
	}
	for k, v := range t.reactedAtomRecords {
		n.reactedAtomRecords[k] = v
	}
	return n
}
