package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-system/models"
)

const (
	PointsForWin  = 3
	PointsForLoss = 1
)

// ApplyResult adds one decided match to the two rows in place.
// a and b belong to match.TeamAID and match.TeamBID respectively.
// Matches without a result or with a draw are ignored and false is returned.
func ApplyResult(a, b *models.Standing, match *models.Match) bool {
	if match.Result == nil || match.Result.PointsA == match.Result.PointsB {
		return false
	}
	pa, pb := match.Result.PointsA, match.Result.PointsB

	a.MatchesPlayed++
	b.MatchesPlayed++
	a.PointsFor += pa
	a.PointsAgainst += pb
	b.PointsFor += pb
	b.PointsAgainst += pa

	winner, loser := a, b
	if pb > pa {
		winner, loser = b, a
	}
	winner.Wins++
	winner.Points += PointsForWin
	loser.Losses++
	loser.Points += PointsForLoss
	return true
}

// AggregateStandings recomputes the rows of one series from scratch.
// Every roster team gets a row even with no matches played, as does any team
// appearing in a match. Matches outside the series or without a result are skipped.
// The result is sorted by team id and does not depend on the order of matches.
func AggregateStandings(roster []int, matches []*models.Match, seriesID, tournamentID int) []*models.Standing {
	rows := make(map[int]*models.Standing, len(roster))
	row := func(teamID int) *models.Standing {
		s, ok := rows[teamID]
		if !ok {
			s = &models.Standing{TeamID: teamID, SeriesID: seriesID, TournamentID: tournamentID}
			rows[teamID] = s
		}
		return s
	}

	for _, teamID := range roster {
		row(teamID)
	}
	for _, m := range matches {
		if m.SeriesID != seriesID || m.TournamentID != tournamentID {
			continue
		}
		a, b := row(m.TeamAID), row(m.TeamBID)
		ApplyResult(a, b, m)
	}

	out := make([]*models.Standing, 0, len(rows))
	for _, s := range rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out
}
