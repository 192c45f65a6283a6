package brackets

import (
	"context"
	"fmt"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() FixtureGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateFixture creates a single round-robin: every team plays every other team once.
// Pairs follow input order, (i, j) with i < j. There are never byes.
func (g *RoundRobinGenerator) GenerateFixture(ctx context.Context, params GenerateFixtureParams) (*Fixture, error) {
	teamIDs := params.TeamIDs
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughTeams, len(teamIDs))
	}
	if err := checkUnique(teamIDs); err != nil {
		return nil, err
	}

	fixture := &Fixture{
		Pairings: make([]Pairing, 0, len(teamIDs)*(len(teamIDs)-1)/2),
		Byes:     []int{},
	}
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			fixture.Pairings = append(fixture.Pairings, Pairing{TeamAID: teamIDs[i], TeamBID: teamIDs[j]})
		}
	}
	return fixture, nil
}
