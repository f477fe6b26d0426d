// Package control implements the reactive-step cycle: snapshotting the old
// topology, enumerating and weighted-shuffling candidates, checking
// availability and acceptance in strict order, mutating the new topology,
// and verifying post-relaxation movement.
package control

import (
	"fmt"
	"log"
	"math"

	"github.com/rmera/rsmd/cellindex"
	"github.com/rmera/rsmd/engine"
	"github.com/rmera/rsmd/enumerate"
	"github.com/rmera/rsmd/reaction"
	"github.com/rmera/rsmd/rng"
	"github.com/rmera/rsmd/topology"
	"github.com/rmera/rsmd/vec3"
)

// Kind identifies the taxonomy of errors a Controller operation can return:
// NotFound and Malformed are locally recoverable or fatal at setup,
// RelaxationFailed and ConsistencyWarning are runtime conditions.
type Kind int

const (
	KindNotFound Kind = iota
	KindMalformed
	KindRelaxationFailed
	KindConsistencyWarning
)

// Error is the error type returned by this package.
type Error struct {
	Kind    Kind
	message string
}

func (e Error) Error() string { return "control: " + e.message }

func errf(kind Kind, format string, args ...interface{}) Error {
	return Error{Kind: kind, message: fmt.Sprintf(format, args...)}
}

// Controller drives one reactive-step cycle at a time. Old is a read-only
// snapshot for the duration of a Step; only New is mutated, so a candidate
// bound against Old never observes an in-progress edit.
type Controller struct {
	Old     *topology.Topology
	New     *topology.Topology
	Relaxed *topology.Topology

	Templates  []*reaction.ReactionTemplate
	Acceptance Acceptance
	Source     rng.Source

	Engine engine.MDEngine
	Parser engine.TopologyParser
	Logger *log.Logger

	NCyclesWithReaction    int
	NCyclesWithoutReaction int
	// NCandidates is the number of candidates Step enumerated on its most
	// recent call, before any availability or acceptance filtering.
	NCandidates          int
	AttemptedPerTemplate map[string]int
	AcceptedPerTemplate  map[string]int
}

// NewController returns a Controller ready to run cycles against an
// already-populated base topology (whose dimensions and cell grid shape
// are reused for Old/New/Relaxed throughout the run).
func NewController(base *topology.Topology, templates []*reaction.ReactionTemplate, acceptance Acceptance, source rng.Source, eng engine.MDEngine, parser engine.TopologyParser, logger *log.Logger) *Controller {
	return &Controller{
		Old:                  base,
		Templates:            templates,
		Acceptance:           acceptance,
		Source:               source,
		Engine:               eng,
		Parser:               parser,
		Logger:               logger,
		AttemptedPerTemplate: make(map[string]int),
		AcceptedPerTemplate:  make(map[string]int),
	}
}

type pendingAccepted struct {
	templateName  string
	oldProductIDs []int
}

// Step performs exactly one reactive-step cycle for the given cycle number:
// it reads the topology, enumerates and weighted-shuffles candidates, walks
// them checking availability then acceptance, and -- if anything was
// accepted -- writes the mutated topology out, relaxes it, and checks
// product movement against the relaxed result.
func (c *Controller) Step(cycle int) error {
	if err := c.Parser.Read(c.Old, cycle); err != nil {
		return errf(KindNotFound, "reading topology for cycle %d: %v", cycle, err)
	}
	c.Old.ClearReactionRecords()
	c.New = c.Old.Copy()

	idx, err := cellindex.Build(c.Old)
	if err != nil {
		return errf(KindMalformed, "building cell index: %v", err)
	}

	var candidates []*reaction.ReactionCandidate
	for _, tpl := range c.Templates {
		candidates = append(candidates, enumerate.Enumerate(tpl, c.Old, idx, c.Old.Dimensions)...)
	}
	c.NCandidates = len(candidates)

	weights := make([]float64, len(candidates))
	for i, cand := range candidates {
		weights[i] = cand.GetCurrentReactionRateValue()
	}
	rng.WeightedShuffle(c.Source, candidates, weights)

	var accepted []pendingAccepted
	for _, cand := range candidates {
		tplName := cand.Template.Name
		if !c.isAvailable(cand) {
			if c.Logger != nil {
				c.Logger.Printf("... %s is no longer available for reaction", cand.ShortInfo())
			}
			continue
		}
		c.AttemptedPerTemplate[tplName]++

		if !c.Acceptance.Accept(cand, c.Source.Float64()) {
			continue
		}

		productIDs := c.react(cand)
		c.AcceptedPerTemplate[tplName]++
		accepted = append(accepted, pendingAccepted{templateName: tplName, oldProductIDs: productIDs})
		if c.Logger != nil {
			c.Logger.Printf("... reacted candidate %s", cand.ShortInfo())
		}
	}

	if len(accepted) > 0 {
		c.New.Sort()
		if err := c.Parser.Write(c.New, cycle); err != nil {
			return errf(KindRelaxationFailed, "writing topology for cycle %d: %v", cycle, err)
		}
		ok, err := c.Engine.RunRelaxation(cycle)
		if err != nil || !ok {
			return errf(KindRelaxationFailed, "relaxation failed at cycle %d: %v", cycle, err)
		}
		c.Relaxed = topology.New(c.New.Dimensions)
		if err := c.Parser.ReadRelaxed(c.Relaxed, cycle); err != nil {
			return errf(KindNotFound, "reading relaxed configuration for cycle %d: %v", cycle, err)
		}
		for _, a := range accepted {
			c.checkMovement(a.oldProductIDs)
		}
		c.NCyclesWithReaction++
	} else {
		c.NCyclesWithoutReaction++
	}

	if c.Logger != nil {
		c.Logger.Printf("cycle %d: %d candidates, %d accepted", cycle, len(candidates), len(accepted))
	}
	return nil
}

// isAvailable reports whether every reactant bound to the candidate is
// still present in New, under its original name.
func (c *Controller) isAvailable(candidate *reaction.ReactionCandidate) bool {
	for i := 0; i < candidate.NReactants(); i++ {
		r := candidate.Reactant(i)
		mol, err := c.New.GetMolecule(r.Id)
		if err != nil || mol.Name != r.Name {
			return false
		}
	}
	return true
}

// react applies a candidate's transitions and translations to New, removes
// the consumed reactants, inserts the freshly numbered products, and
// records them as reaction records. It returns the (pre-sort) ids assigned
// to the new product molecules, for later movement-checking.
func (c *Controller) react(candidate *reaction.ReactionCandidate) []int {
	products := candidate.ApplyTransitions()
	for _, p := range products {
		c.New.MakeMoleculeWhole(p)
	}
	candidate.ApplyTranslations(products)

	maxID := 0
	for _, m := range c.New.Molecules {
		if m.Id > maxID {
			maxID = m.Id
		}
	}
	for i := 0; i < candidate.NReactants(); i++ {
		c.New.RemoveMoleculeID(candidate.Reactant(i).Id)
	}

	ids := make([]int, len(products))
	for i, p := range products {
		maxID++
		p.Id = maxID
		c.New.AddMoleculeValue(p)
		c.New.AddReactionRecord(p.Id)
		ids[i] = p.Id
	}
	return ids
}

// checkMovement compares each accepted candidate's product atoms' position
// just before relaxation (held by New, whose ids were fixed by the Sort
// preceding Write) against their position in Relaxed, warning when an atom
// moved more than 2 (resp. 3) times the system's typical inter-atom
// distance d* = cbrt(3V / (4*pi*N)).
func (c *Controller) checkMovement(oldProductIDs []int) {
	volume := c.New.Dimensions.X * c.New.Dimensions.Y * c.New.Dimensions.Z
	n := c.New.NAtoms()
	if n == 0 {
		return
	}
	dStar := math.Cbrt((3.0 * volume) / (4.0 * math.Pi * float64(n)))

	for _, oldID := range oldProductIDs {
		newID, err := c.New.GetReactionRecordMolecule(oldID)
		if err != nil {
			continue
		}
		before, err := c.New.GetMolecule(newID)
		if err != nil {
			continue
		}
		after, err := c.Relaxed.GetMolecule(newID)
		if err != nil {
			continue
		}
		for i := 0; i < len(before.Atoms) && i < len(after.Atoms); i++ {
			d := vec3.Distance(before.Atoms[i].Position, after.Atoms[i].Position, c.New.Dimensions)
			switch {
			case d > 3*dStar:
				c.warnf("atom %d of molecule %s %d moved more than three times the typical distance: %.3f (> 3*%.3f)", after.Atoms[i].Id, after.Name, after.Id, d, dStar)
			case d > 2*dStar:
				c.warnf("atom %d of molecule %s %d moved more than twice the typical distance: %.3f (> 2*%.3f)", after.Atoms[i].Id, after.Name, after.Id, d, dStar)
			}
		}
	}
}

func (c *Controller) warnf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf("WARNING: "+format, args...)
	}
}

// Summary reports the per-run cycle counts: how many cycles produced at
// least one accepted reaction, and how many produced none.
func (c *Controller) Summary() string {
	return fmt.Sprintf("%d cycles with reaction, %d without", c.NCyclesWithReaction, c.NCyclesWithoutReaction)
}
