package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
	"golang.org/x/sync/errgroup"
)

// AdvanceScope selects the tournament, optionally narrowed to one category.
type AdvanceScope struct {
	TournamentID int
	CategoryID   *int
}

type AdvanceResult struct {
	TournamentID  int            `json:"tournament_id"`
	ChampionFound bool           `json:"champion_found"`
	Champion      *models.Team   `json:"champion,omitempty"`
	Series        *models.Series `json:"series,omitempty"`
	TeamsAdvanced int            `json:"teams_advanced"`
	MatchIDs      []int          `json:"match_ids"`
	AutoQualified []int          `json:"auto_qualified"`
}

type BracketService interface {
	// AdvanceRound moves the scope one phase forward: group stage to the first
	// elimination round, or the current elimination round to the next one.
	AdvanceRound(ctx context.Context, scope AdvanceScope) (*AdvanceResult, error)
	// GenerateGroupFixture creates the round-robin matches of a group-stage series.
	GenerateGroupFixture(ctx context.Context, seriesID int) ([]*models.Match, error)
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	seriesRepo     repositories.SeriesRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	txManager      repositories.TxManager
	elimination    brackets.FixtureGenerator
	roundRobin     brackets.FixtureGenerator
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	seriesRepo repositories.SeriesRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	txManager repositories.TxManager,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tournamentRepo: tournamentRepo,
		seriesRepo:     seriesRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		txManager:      txManager,
		elimination:    brackets.NewEliminationGenerator(),
		roundRobin:     brackets.NewRoundRobinGenerator(),
		logger:         logger,
	}
}

// advanceInput is everything AdvanceRound reads before deciding anything.
type advanceInput struct {
	tournament *models.Tournament
	series     []*models.Series
	matches    []*models.Match
	teams      []*models.Team
	standings  []*models.Standing
}

func (s *bracketService) loadAdvanceInput(ctx context.Context, scope AdvanceScope) (*advanceInput, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, scope.TournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := ensureOpen(tournament); err != nil {
		return nil, err
	}

	in := &advanceInput{tournament: tournament}
	tournamentID := tournament.ID

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		series, err := s.seriesRepo.ListByTournament(gCtx, nil, tournamentID, scope.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to list series of tournament %d: %w", tournamentID, err)
		}
		in.series = series
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.List(gCtx, nil, repositories.ListMatchesFilter{TournamentID: &tournamentID})
		if err != nil {
			return fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
		}
		in.matches = matches
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.List(gCtx, nil, repositories.ListTeamsFilter{TournamentID: &tournamentID})
		if err != nil {
			return fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
		}
		in.teams = teams
		return nil
	})
	g.Go(func() error {
		standings, err := s.standingRepo.List(gCtx, nil, repositories.ListStandingsFilter{TournamentID: &tournamentID})
		if err != nil {
			return fmt.Errorf("failed to list standings of tournament %d: %w", tournamentID, err)
		}
		in.standings = standings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func matchesOf(matches []*models.Match, seriesID int) []*models.Match {
	out := make([]*models.Match, 0)
	for _, m := range matches {
		if m.SeriesID == seriesID {
			out = append(out, m)
		}
	}
	return out
}

func checkSeriesDecided(series *models.Series, matches []*models.Match) error {
	for _, m := range matches {
		if m.WinnerID == nil {
			return fmt.Errorf("%w: %q (match %d)", ErrSeriesIncomplete, series.Name, m.ID)
		}
	}
	return nil
}

// groupQualifiers returns the winner of each group in group-creation order.
func (in *advanceInput) groupQualifiers(groups []*models.Series) ([]int, error) {
	for _, group := range groups {
		if err := checkSeriesDecided(group, matchesOf(in.matches, group.ID)); err != nil {
			return nil, err
		}
	}

	seen := make(map[int]struct{})
	qualifiers := make([]int, 0, len(groups))
	for _, group := range groups {
		seenInGroup := make(map[int]struct{})
		roster := make([]int, 0)
		for _, t := range in.teams {
			if t.SeriesID == group.ID {
				roster = appendUnique(roster, seenInGroup, t.ID)
			}
		}
		for _, st := range in.standings {
			if st.SeriesID == group.ID {
				roster = appendUnique(roster, seenInGroup, st.TeamID)
			}
		}

		rows := brackets.AggregateStandings(roster, matchesOf(in.matches, group.ID), group.ID, in.tournament.ID)
		if top, ok := brackets.TopTeam(rows); ok {
			qualifiers = appendUnique(qualifiers, seen, top)
		}
	}
	return qualifiers, nil
}

// eliminationQualifiers returns match winners in match order followed by the
// byes stored on the series.
func (in *advanceInput) eliminationQualifiers(current *models.Series) ([]int, error) {
	matches := matchesOf(in.matches, current.ID)
	if err := checkSeriesDecided(current, matches); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	qualifiers := make([]int, 0, len(matches)+len(current.AutoQualified))
	for _, m := range matches {
		if !m.Involves(*m.WinnerID) {
			return nil, fmt.Errorf("%w: match %d winner %d", ErrWinnerNotInMatch, m.ID, *m.WinnerID)
		}
		qualifiers = appendUnique(qualifiers, seen, *m.WinnerID)
	}
	return appendUnique(qualifiers, seen, current.AutoQualified...), nil
}

func (in *advanceInput) teamsByID(ids []int) ([]*models.Team, error) {
	index := make(map[int]*models.Team, len(in.teams))
	for _, t := range in.teams {
		index[t.ID] = t
	}
	out := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		t, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: team %d", ErrQualifierMissing, id)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *bracketService) AdvanceRound(ctx context.Context, scope AdvanceScope) (*AdvanceResult, error) {
	in, err := s.loadAdvanceInput(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(in.series) == 0 {
		return nil, ErrNoSeries
	}

	phases := brackets.ClassifySeries(in.series)
	current := phases.Current()

	var qualifiers []int
	var roundName string
	categoryID := in.tournament.CategoryID
	if scope.CategoryID != nil {
		categoryID = *scope.CategoryID
	}

	if current == nil {
		qualifiers, err = in.groupQualifiers(phases.Group)
		if err != nil {
			return nil, err
		}
		roundName = brackets.FirstEliminationRoundName(len(qualifiers))
	} else {
		qualifiers, err = in.eliminationQualifiers(current)
		if err != nil {
			return nil, err
		}
		roundName = brackets.NextRoundName(len(qualifiers))
		if scope.CategoryID == nil {
			categoryID = current.CategoryID
		}
	}

	if len(qualifiers) == 0 {
		return nil, ErrNotEnoughChampions
	}
	teams, err := in.teamsByID(qualifiers)
	if err != nil {
		return nil, err
	}

	if len(qualifiers) == 1 {
		return s.declareChampion(ctx, in.tournament.ID, teams[0])
	}

	fixture, err := s.elimination.GenerateFixture(ctx, brackets.GenerateFixtureParams{TeamIDs: qualifiers})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	next := &models.Series{
		Name:          roundName,
		CategoryID:    categoryID,
		TournamentID:  in.tournament.ID,
		AutoQualified: []int{},
	}
	matches := make([]*models.Match, len(fixture.Pairings))
	for i, p := range fixture.Pairings {
		matches[i] = &models.Match{TeamAID: p.TeamAID, TeamBID: p.TeamBID, TournamentID: in.tournament.ID}
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		locked, err := s.tournamentRepo.LockByID(ctx, exec, in.tournament.ID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if err := ensureOpen(locked); err != nil {
			return err
		}

		if err := s.seriesRepo.Create(ctx, exec, next); err != nil {
			return handleRepositoryError(err)
		}
		if err := s.teamRepo.UpdateSeries(ctx, exec, qualifiers, next.ID); err != nil {
			return handleRepositoryError(err)
		}
		if err := s.standingRepo.EnsureSeeded(ctx, exec, qualifiers, next.ID, in.tournament.ID); err != nil {
			return handleRepositoryError(err)
		}
		for _, m := range matches {
			m.SeriesID = next.ID
		}
		if err := s.matchRepo.BatchCreate(ctx, exec, matches); err != nil {
			return handleRepositoryError(err)
		}
		if err := s.seriesRepo.UpdateAutoQualified(ctx, exec, next.ID, fixture.Byes); err != nil {
			return handleRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	next.AutoQualified = fixture.Byes

	matchIDs := make([]int, len(matches))
	for i, m := range matches {
		matchIDs[i] = m.ID
	}

	s.logger.InfoContext(ctx, "round advanced",
		slog.Int("tournament_id", in.tournament.ID),
		slog.Int("series_id", next.ID),
		slog.String("series_name", next.Name),
		slog.Int("teams_advanced", len(qualifiers)),
		slog.Any("auto_qualified", fixture.Byes),
	)

	return &AdvanceResult{
		TournamentID:  in.tournament.ID,
		Series:        next,
		TeamsAdvanced: len(qualifiers),
		MatchIDs:      matchIDs,
		AutoQualified: fixture.Byes,
	}, nil
}

func (s *bracketService) declareChampion(ctx context.Context, tournamentID int, champion *models.Team) (*AdvanceResult, error) {
	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		locked, err := s.tournamentRepo.LockByID(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if err := ensureOpen(locked); err != nil {
			return err
		}
		if locked.ChampionTeamID != nil && *locked.ChampionTeamID == champion.ID {
			return nil
		}
		return handleRepositoryError(s.tournamentRepo.UpdateChampion(ctx, exec, tournamentID, &champion.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "champion found",
		slog.Int("tournament_id", tournamentID),
		slog.Int("team_id", champion.ID),
		slog.String("team_name", champion.Name),
	)
	return &AdvanceResult{
		TournamentID:  tournamentID,
		ChampionFound: true,
		Champion:      champion,
		MatchIDs:      []int{},
		AutoQualified: []int{},
	}, nil
}

func (s *bracketService) GenerateGroupFixture(ctx context.Context, seriesID int) ([]*models.Match, error) {
	series, err := s.seriesRepo.GetByID(ctx, nil, seriesID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if brackets.IsElimination(series.Name) {
		return nil, fmt.Errorf("%w: %q", ErrNotGroupSeries, series.Name)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, series.TournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := ensureOpen(tournament); err != nil {
		return nil, err
	}

	existing, err := s.matchRepo.List(ctx, nil, repositories.ListMatchesFilter{SeriesID: &series.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of series %d: %w", series.ID, err)
	}
	if len(existing) > 0 {
		return nil, ErrFixtureExists
	}

	teams, err := s.teamRepo.List(ctx, nil, repositories.ListTeamsFilter{TournamentID: &series.TournamentID, SeriesID: &series.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of series %d: %w", series.ID, err)
	}
	teamIDs := teamIDsOf(teams)

	fixture, err := s.roundRobin.GenerateFixture(ctx, brackets.GenerateFixtureParams{TeamIDs: teamIDs})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	matches := make([]*models.Match, len(fixture.Pairings))
	for i, p := range fixture.Pairings {
		matches[i] = &models.Match{TeamAID: p.TeamAID, TeamBID: p.TeamBID, SeriesID: series.ID, TournamentID: series.TournamentID}
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		locked, err := s.tournamentRepo.LockByID(ctx, exec, series.TournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if err := ensureOpen(locked); err != nil {
			return err
		}
		if err := s.standingRepo.EnsureSeeded(ctx, exec, teamIDs, series.ID, series.TournamentID); err != nil {
			return handleRepositoryError(err)
		}
		return handleRepositoryError(s.matchRepo.BatchCreate(ctx, exec, matches))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "group fixture generated",
		slog.Int("series_id", series.ID),
		slog.Int("matches", len(matches)),
		slog.String("generator", s.roundRobin.GetName()),
	)
	return matches, nil
}
