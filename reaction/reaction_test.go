package reaction

import (
	"testing"

	"github.com/rmera/rsmd/topology"
	"github.com/rmera/rsmd/vec3"
)

func simpleTemplate() *ReactionTemplate {
	return &ReactionTemplate{
		Name:      "bond",
		Reactants: []ReactantPattern{{Name: "A"}, {Name: "A"}},
		Products:  []ProductPattern{{Name: "AA", Atoms: []AtomTemplate{{Name: "X"}, {Name: "X"}}}},
		Criteria: []Criterion{
			&DistanceCriterion{A: AtomRef{0, 0}, B: AtomRef{1, 0}, MinValue: 0, MaxValue: 1.0},
		},
		Transitions: []Transition{
			{OldReactant: 0, OldAtom: 0, NewProduct: 0, NewAtom: 0},
			{OldReactant: 1, OldAtom: 0, NewProduct: 0, NewAtom: 1},
		},
		Rate: []RatePoint{{Threshold: 0, Rate: 0.1}, {Threshold: 0.5, Rate: 0.9}},
	}
}

func TestConsistencyCheckRejectsBadReactantIndex(t *testing.T) {
	tpl := simpleTemplate()
	tpl.Criteria = []Criterion{&DistanceCriterion{A: AtomRef{0, 0}, B: AtomRef{5, 0}}}
	if err := tpl.ConsistencyCheck(); err == nil {
		t.Errorf("expected error for out-of-range reactant reference")
	}
}

func TestConsistencyCheckAcceptsWellFormed(t *testing.T) {
	tpl := simpleTemplate()
	if err := tpl.ConsistencyCheck(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRateAtPiecewise(t *testing.T) {
	tpl := simpleTemplate()
	if got := tpl.RateAt(0); got != 0.1 {
		t.Errorf("RateAt(0) = %v, want 0.1", got)
	}
	if got := tpl.RateAt(0.3); got != 0.1 {
		t.Errorf("RateAt(0.3) = %v, want 0.1", got)
	}
	if got := tpl.RateAt(0.5); got != 0.9 {
		t.Errorf("RateAt(0.5) = %v, want 0.9", got)
	}
	if got := tpl.RateAt(10); got != 0.9 {
		t.Errorf("RateAt(10) = %v, want 0.9", got)
	}
}

func TestDistanceCriterionEarliestK(t *testing.T) {
	c := &DistanceCriterion{A: AtomRef{0, 0}, B: AtomRef{1, 0}}
	if c.EarliestK() != 1 {
		t.Errorf("EarliestK() = %d, want 1", c.EarliestK())
	}
}

func makeA(id int, x float64) *topology.Molecule {
	m := topology.NewMolecule(id, "A")
	m.AddAtom(&topology.Atom{Id: id, Name: "X", Position: vec3.Vec{X: x}})
	return m
}

func TestCandidateValidAndRate(t *testing.T) {
	tpl := simpleTemplate()
	top := topology.New(vec3.Vec{X: 100, Y: 100, Z: 100})
	top.AddMoleculeValue(makeA(1, 0.0))
	top.AddMoleculeValue(makeA(2, 0.3))

	cand := NewCandidate(tpl, top)
	cand.UpdateReactant(0, 0)
	cand.UpdateReactant(1, 1)

	if !cand.Valid(top.Dimensions, 1) {
		t.Fatalf("expected candidate to be valid at distance 0.3")
	}
	if rate := cand.GetCurrentReactionRateValue(); rate != 0.1 {
		t.Errorf("GetCurrentReactionRateValue() = %v, want 0.1", rate)
	}
}

func TestCandidateInvalidOutsideRange(t *testing.T) {
	tpl := simpleTemplate()
	top := topology.New(vec3.Vec{X: 100, Y: 100, Z: 100})
	top.AddMoleculeValue(makeA(1, 0.0))
	top.AddMoleculeValue(makeA(2, 5.0))

	cand := NewCandidate(tpl, top)
	cand.UpdateReactant(0, 0)
	cand.UpdateReactant(1, 1)

	if cand.Valid(top.Dimensions, 1) {
		t.Fatalf("expected candidate to be invalid at distance 5.0")
	}
}

func TestApplyTransitionsCarriesIdentity(t *testing.T) {
	tpl := simpleTemplate()
	top := topology.New(vec3.Vec{X: 100, Y: 100, Z: 100})
	top.AddMoleculeValue(makeA(11, 0.0))
	top.AddMoleculeValue(makeA(12, 0.3))

	cand := NewCandidate(tpl, top)
	cand.UpdateReactant(0, 0)
	cand.UpdateReactant(1, 1)

	products := cand.ApplyTransitions()
	if len(products) != 1 || len(products[0].Atoms) != 2 {
		t.Fatalf("expected one product with two atoms")
	}
	if products[0].Atoms[0].Id != 11 || products[0].Atoms[1].Id != 12 {
		t.Errorf("transitions did not carry reactant atom identities through")
	}
}

func TestApplyTranslationsMovesAlongUnitVector(t *testing.T) {
	tpl := simpleTemplate()
	tpl.Translations = []Translation{
		{Moving: AtomRef{0, 0}, Towards: AtomRef{0, 1}, Value: 1.0},
	}
	top := topology.New(vec3.Vec{X: 100, Y: 100, Z: 100})
	top.AddMoleculeValue(makeA(1, 0.0))
	top.AddMoleculeValue(makeA(2, 0.5))

	cand := NewCandidate(tpl, top)
	cand.UpdateReactant(0, 0)
	cand.UpdateReactant(1, 1)

	products := cand.ApplyTransitions()
	cand.ApplyTranslations(products)

	if got := products[0].Atoms[0].Position.X; got <= 0.0 {
		t.Errorf("expected moving atom to shift towards the other atom, got x=%v", got)
	}
}

func TestShortInfoNamesReactants(t *testing.T) {
	tpl := simpleTemplate()
	top := topology.New(vec3.Vec{X: 10, Y: 10, Z: 10})
	top.AddMoleculeValue(makeA(1, 0.0))
	top.AddMoleculeValue(makeA(2, 0.3))

	cand := NewCandidate(tpl, top)
	cand.UpdateReactant(0, 0)
	cand.UpdateReactant(1, 1)

	info := cand.ShortInfo()
	if info == "" {
		t.Errorf("expected non-empty ShortInfo")
	}
}
