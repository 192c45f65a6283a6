package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
)

// standingsRebuilder replays every decided match of one series scope and
// overwrites the persisted rows with the totals.
type standingsRebuilder struct {
	teamRepo     repositories.TeamRepository
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
}

func newStandingsRebuilder(
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
) *standingsRebuilder {
	return &standingsRebuilder{teamRepo: teamRepo, matchRepo: matchRepo, standingRepo: standingRepo}
}

// roster is every team that belongs in the scope: existing rows (byes included)
// plus teams whose current series is the scope.
func (r *standingsRebuilder) roster(ctx context.Context, exec repositories.SQLExecutor, seriesID, tournamentID int) ([]int, error) {
	existing, err := r.standingRepo.List(ctx, exec, repositories.ListStandingsFilter{
		TournamentID: &tournamentID,
		SeriesID:     &seriesID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list standings of series %d: %w", seriesID, err)
	}
	teams, err := r.teamRepo.List(ctx, exec, repositories.ListTeamsFilter{
		TournamentID: &tournamentID,
		SeriesID:     &seriesID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of series %d: %w", seriesID, err)
	}

	seen := make(map[int]struct{}, len(existing)+len(teams))
	roster := make([]int, 0, len(existing)+len(teams))
	for _, s := range existing {
		roster = appendUnique(roster, seen, s.TeamID)
	}
	return appendUnique(roster, seen, teamIDsOf(teams)...), nil
}

func (r *standingsRebuilder) rebuild(ctx context.Context, exec repositories.SQLExecutor, seriesID, tournamentID int) ([]*models.Standing, error) {
	roster, err := r.roster(ctx, exec, seriesID, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := r.matchRepo.List(ctx, exec, repositories.ListMatchesFilter{
		TournamentID:  &tournamentID,
		SeriesID:      &seriesID,
		CompletedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of series %d: %w", seriesID, err)
	}

	rows := brackets.AggregateStandings(roster, matches, seriesID, tournamentID)
	if err := r.standingRepo.BatchUpsert(ctx, exec, rows); err != nil {
		return nil, handleRepositoryError(err)
	}
	return rows, nil
}
