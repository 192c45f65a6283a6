package brackets

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoTeams         = errors.New("fixture requires at least one team")
	ErrNotEnoughTeams  = errors.New("fixture requires at least two teams")
	ErrDuplicateTeamID = errors.New("duplicate team id in fixture input")
)

// Pairing is one match to be created, TeamAID being the earlier team of the input.
type Pairing struct {
	TeamAID int `json:"team_a_id"`
	TeamBID int `json:"team_b_id"`
}

type Fixture struct {
	Pairings []Pairing `json:"pairings"`
	Byes     []int     `json:"byes"`
}

type GenerateFixtureParams struct {
	TeamIDs []int
}

type FixtureGenerator interface {
	GenerateFixture(ctx context.Context, params GenerateFixtureParams) (*Fixture, error)

	GetName() string
}

func checkUnique(teamIDs []int) error {
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateTeamID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
