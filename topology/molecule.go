package topology

// Molecule is an ordered, chemically-meaningful sequence of atoms. Ids are
// unique within a topology at rest; only Topology.Sort is permitted to
// reassign them.
type Molecule struct {
	Id    int
	Name  string
	Atoms []*Atom
}

// NewMolecule returns an empty molecule with the given id and name.
func NewMolecule(id int, name string) *Molecule {
	return &Molecule{Id: id, Name: name}
}

// AddAtom appends an atom to the end of the molecule.
func (m *Molecule) AddAtom(a *Atom) {
	m.Atoms = append(m.Atoms, a)
}

// Len returns the number of atoms in the molecule.
func (m *Molecule) Len() int { return len(m.Atoms) }

// ContainsAtom reports whether the molecule has an atom with the given id.
func (m *Molecule) ContainsAtom(id int) bool {
	for _, a := range m.Atoms {
		if a.Id == id {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the molecule and all of its atoms.
func (m *Molecule) Copy() *Molecule {
	n := &Molecule{Id: m.Id, Name: m.Name, Atoms: make([]*Atom, len(m.Atoms))}
	for i, a := range m.Atoms {
		n.Atoms[i] = a.Copy()
	}
	return n
}

// Same reports whether two molecules refer to the same logical molecule,
// i.e. matching id and name (the identity test used by Topology.ContainsMolecule
// and Topology.RemoveMolecule when given a Molecule rather than a bare id).
func (m *Molecule) Same(other *Molecule) bool {
	return m.Id == other.Id && m.Name == other.Name
}
