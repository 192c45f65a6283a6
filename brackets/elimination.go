package brackets

import "context"

// EliminationGenerator pairs teams in input order, two at a time.
// With an odd count the last team is not paired and becomes a bye.
type EliminationGenerator struct{}

func NewEliminationGenerator() FixtureGenerator {
	return &EliminationGenerator{}
}

func (g *EliminationGenerator) GetName() string {
	return "Elimination"
}

func (g *EliminationGenerator) GenerateFixture(ctx context.Context, params GenerateFixtureParams) (*Fixture, error) {
	teamIDs := params.TeamIDs
	if len(teamIDs) == 0 {
		return nil, ErrNoTeams
	}
	if err := checkUnique(teamIDs); err != nil {
		return nil, err
	}

	fixture := &Fixture{
		Pairings: make([]Pairing, 0, len(teamIDs)/2),
		Byes:     make([]int, 0, 1),
	}
	for i := 0; i+1 < len(teamIDs); i += 2 {
		fixture.Pairings = append(fixture.Pairings, Pairing{TeamAID: teamIDs[i], TeamBID: teamIDs[i+1]})
	}
	if len(teamIDs)%2 == 1 {
		fixture.Byes = append(fixture.Byes, teamIDs[len(teamIDs)-1])
	}
	return fixture, nil
}
