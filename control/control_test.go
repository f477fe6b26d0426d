package control

import (
	"testing"

	"github.com/rmera/rsmd/reaction"
	"github.com/rmera/rsmd/topology"
	"github.com/rmera/rsmd/vec3"
)

func TestRateAcceptanceDeterministic(t *testing.T) {
	// frequency=0.25, rate=2.0, rnd=0.4 -> condition 0.5 -> accepted.
	tpl := &reaction.ReactionTemplate{
		Name: "r",
		Rate: []reaction.RatePoint{{Threshold: 0, Rate: 2.0}},
		Criteria: []reaction.Criterion{
			&reaction.DistanceCriterion{MinValue: 0, MaxValue: 100},
		},
	}
	cand := reaction.NewCandidate(tpl, nil)
	policy := RateAcceptance{Frequency: 0.25}
	if !policy.Accept(cand, 0.4) {
		t.Errorf("expected candidate to be accepted: 0.4 < 0.25*2.0=0.5")
	}
	if policy.Accept(cand, 0.6) {
		t.Errorf("expected candidate to be rejected: 0.6 !< 0.5")
	}
}

func TestMetropolisAcceptanceBoltzmann(t *testing.T) {
	tpl := &reaction.ReactionTemplate{Name: "r", Energy: 0}
	cand := reaction.NewCandidate(tpl, nil)
	policy := MetropolisAcceptance{Temperature: 300, GasConstant: 0.00831446}
	if !policy.Accept(cand, 0.999999) {
		t.Errorf("expected zero-energy candidate to always accept")
	}
}

func molA(id int) *topology.Molecule {
	m := topology.NewMolecule(id, "A")
	m.AddAtom(&topology.Atom{Id: id, Name: "X"})
	return m
}

// TestConsumedReactantUnavailableForNext checks that after accepting
// (1,2), molecule 2 is gone, so (2,3) must be reported unavailable rather
// than attempted.
func TestConsumedReactantUnavailableForNext(t *testing.T) {
	top := topology.New(vec3.Vec{X: 100, Y: 100, Z: 100})
	top.AddMoleculeValue(molA(1))
	top.AddMoleculeValue(molA(2))
	top.AddMoleculeValue(molA(3))

	tpl := &reaction.ReactionTemplate{
		Name:      "pair",
		Reactants: []reaction.ReactantPattern{{Name: "A"}, {Name: "A"}},
		Products:  []reaction.ProductPattern{{Name: "AA", Atoms: []reaction.AtomTemplate{{Name: "X"}, {Name: "X"}}}},
		Transitions: []reaction.Transition{
			{OldReactant: 0, OldAtom: 0, NewProduct: 0, NewAtom: 0},
			{OldReactant: 1, OldAtom: 0, NewProduct: 0, NewAtom: 1},
		},
	}

	c := &Controller{
		Old:                  top,
		New:                  top.Copy(),
		Templates:            []*reaction.ReactionTemplate{tpl},
		AttemptedPerTemplate: make(map[string]int),
		AcceptedPerTemplate:  make(map[string]int),
	}

	cand12 := reaction.NewCandidate(tpl, top)
	cand12.UpdateReactant(0, 0)
	cand12.UpdateReactant(1, 1)

	if !c.isAvailable(cand12) {
		t.Fatalf("expected (1,2) to be available before any reaction")
	}
	c.react(cand12)

	cand23 := reaction.NewCandidate(tpl, top)
	cand23.UpdateReactant(0, 1)
	cand23.UpdateReactant(1, 2)

	if c.isAvailable(cand23) {
		t.Errorf("expected (2,3) to be unavailable after molecule 2 was consumed")
	}
}

func TestReactRemovesReactantsAndAddsProduct(t *testing.T) {
	top := topology.New(vec3.Vec{X: 100, Y: 100, Z: 100})
	top.AddMoleculeValue(molA(1))
	top.AddMoleculeValue(molA(2))

	tpl := &reaction.ReactionTemplate{
		Name:      "pair",
		Reactants: []reaction.ReactantPattern{{Name: "A"}, {Name: "A"}},
		Products:  []reaction.ProductPattern{{Name: "AA", Atoms: []reaction.AtomTemplate{{Name: "X"}, {Name: "X"}}}},
		Transitions: []reaction.Transition{
			{OldReactant: 0, OldAtom: 0, NewProduct: 0, NewAtom: 0},
			{OldReactant: 1, OldAtom: 0, NewProduct: 0, NewAtom: 1},
		},
	}

	c := &Controller{Old: top, New: top.Copy()}
	cand := reaction.NewCandidate(tpl, top)
	cand.UpdateReactant(0, 0)
	cand.UpdateReactant(1, 1)

	ids := c.react(cand)

	if len(ids) != 1 {
		t.Fatalf("expected one product id, got %d", len(ids))
	}
	if c.New.ContainsMoleculeID(1) || c.New.ContainsMoleculeID(2) {
		t.Errorf("expected reactants 1 and 2 to be removed from New")
	}
	if !c.New.ContainsMoleculeID(ids[0]) {
		t.Errorf("expected product molecule %d to be present in New", ids[0])
	}
}
