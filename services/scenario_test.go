package services

import (
	"strconv"
	"testing"

	"github.com/Dosada05/bracket-system/models"
	"github.com/stretchr/testify/require"
)

const testOwnerID = 77

func (e *testEnv) newTournament(t *testing.T) *models.Tournament {
	t.Helper()
	tournament, err := e.tournaments.CreateTournament(e.ctx, CreateTournamentInput{Name: "Copa Verano", CategoryID: e.seed.ID}, testOwnerID)
	require.NoError(t, err)
	return tournament
}

func (e *testEnv) newSeries(t *testing.T, tournamentID int, name string) *models.Series {
	t.Helper()
	series, err := e.series.CreateSeries(e.ctx, CreateSeriesInput{Name: name, CategoryID: e.seed.ID, TournamentID: tournamentID})
	require.NoError(t, err)
	return series
}

func (e *testEnv) newTeam(t *testing.T, tournamentID, seriesID int, name string) *models.Team {
	t.Helper()
	team, err := e.teams.CreateTeam(e.ctx, CreateTeamInput{
		Name: name, Players: []string{name + " 1", name + " 2"}, SeriesID: seriesID, TournamentID: tournamentID,
	})
	require.NoError(t, err)
	return team
}

func matchInput(tournamentID, seriesID, a, b, pa, pb int) RecordMatchInput {
	return RecordMatchInput{
		TeamAID:      &a,
		TeamBID:      &b,
		SeriesID:     &seriesID,
		TournamentID: &tournamentID,
		Result:       &ResultInput{PointsA: &pa, PointsB: &pb},
	}
}

func (e *testEnv) play(t *testing.T, tournamentID, seriesID, a, b, pa, pb int) *models.Match {
	t.Helper()
	m, err := e.matches.RecordMatchResult(e.ctx, matchInput(tournamentID, seriesID, a, b, pa, pb))
	require.NoError(t, err)
	return m
}

// decide records a result on an existing (generated) match.
func (e *testEnv) decide(t *testing.T, m *models.Match, pa, pb int) *models.Match {
	t.Helper()
	updated, err := e.matches.CorrectMatchResult(e.ctx, m.ID, matchInput(m.TournamentID, m.SeriesID, m.TeamAID, m.TeamBID, pa, pb))
	require.NoError(t, err)
	return updated
}

// fourTeamGroup plays the full round robin A > B > C > D inside a new series.
func (e *testEnv) fourTeamGroup(t *testing.T, tournamentID int, name string) []*models.Team {
	t.Helper()
	group := e.newSeries(t, tournamentID, name)
	a := e.newTeam(t, tournamentID, group.ID, name+" A")
	b := e.newTeam(t, tournamentID, group.ID, name+" B")
	c := e.newTeam(t, tournamentID, group.ID, name+" C")
	d := e.newTeam(t, tournamentID, group.ID, name+" D")

	e.play(t, tournamentID, group.ID, a.ID, b.ID, 2, 0)
	e.play(t, tournamentID, group.ID, a.ID, c.ID, 2, 1)
	e.play(t, tournamentID, group.ID, a.ID, d.ID, 2, 0)
	e.play(t, tournamentID, group.ID, b.ID, c.ID, 2, 1)
	e.play(t, tournamentID, group.ID, b.ID, d.ID, 2, 1)
	e.play(t, tournamentID, group.ID, c.ID, d.ID, 2, 0)
	return []*models.Team{a, b, c, d}
}

func (e *testEnv) standingOf(t *testing.T, teamID, seriesID, tournamentID int) *models.Standing {
	t.Helper()
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	for _, s := range e.db.standings {
		if s.TeamID == teamID && s.SeriesID == seriesID && s.TournamentID == tournamentID {
			return cloneStanding(s)
		}
	}
	t.Fatalf("no standing for team %d in series %d", teamID, seriesID)
	return nil
}

func (e *testEnv) categoryID(t *testing.T, name models.CategoryName) int {
	t.Helper()
	categories, err := e.categories.ListCategories(e.ctx)
	require.NoError(t, err)
	for _, c := range categories {
		if c.Name == name {
			return c.ID
		}
	}
	c, err := e.categories.CreateCategory(e.ctx, string(name))
	require.NoError(t, err)
	return c.ID
}

func jsonKey(id int) string {
	return strconv.Itoa(id)
}

func ids(teams []*models.Team) []int {
	out := make([]int, len(teams))
	for i, t := range teams {
		out[i] = t.ID
	}
	return out
}
