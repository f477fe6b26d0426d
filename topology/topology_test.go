package topology

import (
	"testing"

	"github.com/rmera/rsmd/vec3"
)

func addAtoms(m *Molecule, n int) {
	for i := 0; i < n; i++ {
		m.AddAtom(&Atom{Id: m.Id*100 + i})
	}
}

func TestSortIdempotence(t *testing.T) {
	top := New(vec3.Vec{X: 10, Y: 10, Z: 10})
	b := top.AddMolecule(2, "B")
	addAtoms(b, 2)
	a := top.AddMolecule(1, "A")
	addAtoms(a, 3)

	top.Sort()
	first := snapshotIDs(top)
	top.Sort()
	second := snapshotIDs(top)

	if first != second {
		t.Errorf("sort is not idempotent: %v != %v", first, second)
	}
}

func snapshotIDs(top *Topology) string {
	s := ""
	for _, m := range top.Molecules {
		s += m.Name + ":"
		for _, a := range m.Atoms {
			s += string(rune('0' + a.Id))
		}
	}
	return s
}

func TestSortStability(t *testing.T) {
	top := New(vec3.Vec{X: 10, Y: 10, Z: 10})
	top.AddMolecule(1, "A")
	top.AddMolecule(2, "B")
	top.AddMolecule(3, "A")
	top.AddMolecule(4, "A")

	top.Sort()

	var asInOrder []int
	for _, m := range top.Molecules {
		if m.Name == "A" {
			asInOrder = append(asInOrder, m.Id)
		}
	}
	// original insertion order among A's was ids 1,3,4; stable sort must
	// preserve that relative order even though ids get reassigned.
	if len(asInOrder) != 3 || asInOrder[0] >= asInOrder[1] || asInOrder[1] >= asInOrder[2] {
		t.Errorf("stable sort broke relative order of A molecules: %v", asInOrder)
	}
}

func TestRecordConsistencyAfterSort(t *testing.T) {
	top := New(vec3.Vec{X: 10, Y: 10, Z: 10})
	b := top.AddMolecule(2, "B")
	addAtoms(b, 2)
	a := top.AddMolecule(1, "A")
	addAtoms(a, 1)

	top.AddReactionRecord(2) // B was a product, reacted at id 2

	top.Sort()

	newID, err := top.GetReactionRecordMolecule(2)
	if err != nil {
		t.Fatalf("expected record for key 2, got error: %v", err)
	}
	mol, err := top.GetMolecule(newID)
	if err != nil {
		t.Fatalf("record points at missing molecule: %v", err)
	}
	if mol.Id != newID {
		t.Errorf("record inconsistent: mol.Id=%d newID=%d", mol.Id, newID)
	}

	for oldAtom, newAtom := range top.ReactionRecordAtoms() {
		found := false
		for _, m := range top.Molecules {
			if m.Id == newID {
				for _, at := range m.Atoms {
					if at.Id == newAtom {
						found = true
					}
				}
			}
		}
		if !found {
			t.Errorf("atom record %d->%d does not land in recorded molecule %d", oldAtom, newAtom, newID)
		}
	}
}

func TestGetMoleculeNotFound(t *testing.T) {
	top := New(vec3.Vec{X: 1, Y: 1, Z: 1})
	if _, err := top.GetMolecule(42); err == nil {
		t.Errorf("expected NotFound error")
	}
}

func TestRemoveMoleculeNoopIfAbsent(t *testing.T) {
	top := New(vec3.Vec{X: 1, Y: 1, Z: 1})
	top.AddMolecule(1, "A")
	top.RemoveMoleculeID(99)
	if len(top.Molecules) != 1 {
		t.Errorf("expected removal of absent id to be a no-op")
	}
}

func TestMoleculeTypesFirstOccurrence(t *testing.T) {
	top := New(vec3.Vec{X: 1, Y: 1, Z: 1})
	top.AddMolecule(1, "B")
	top.AddMolecule(2, "A")
	top.AddMolecule(3, "B")
	types := top.MoleculeTypes()
	if len(types) != 2 || types[0] != "B" || types[1] != "A" {
		t.Errorf("expected [B A] in first-occurrence order, got %v", types)
	}
}
