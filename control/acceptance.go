package control

import (
	"math"

	"github.com/rmera/rsmd/reaction"
)

// Acceptance decides whether a validated, still-available candidate fires,
// given one draw from U(0,1). Swapping the policy is the only difference
// between a rate-based run and a Monte Carlo run; the controller and
// candidate machinery stay the same either way.
type Acceptance interface {
	Accept(candidate *reaction.ReactionCandidate, rnd float64) bool
}

// RateAcceptance accepts iff rnd < frequency * rate(candidate). A product
// exceeding 1 always accepts, since rnd is drawn from [0,1).
type RateAcceptance struct {
	Frequency float64
}

func (r RateAcceptance) Accept(candidate *reaction.ReactionCandidate, rnd float64) bool {
	condition := r.Frequency * candidate.GetCurrentReactionRateValue()
	return rnd < condition
}

// MetropolisAcceptance accepts iff rnd < exp(-energy / (R*temperature)),
// where energy is the template's reaction energy: the standard Metropolis
// Boltzmann acceptance condition.
type MetropolisAcceptance struct {
	Temperature float64
	GasConstant float64
}

func (m MetropolisAcceptance) Accept(candidate *reaction.ReactionCandidate, rnd float64) bool {
	condition := math.Exp(-candidate.Template.Energy / (m.GasConstant * m.Temperature))
	return rnd < condition
}
