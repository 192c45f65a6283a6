package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type CreateTeamInput struct {
	Name         string   `json:"name"`
	Players      []string `json:"players"`
	SeriesID     int      `json:"series_id"`
	TournamentID int      `json:"tournament_id"`
}

type ListTeamsFilter struct {
	TournamentID *int
	SeriesID     *int
	Search       string
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context, filter ListTeamsFilter) ([]*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type teamService struct {
	tournamentRepo repositories.TournamentRepository
	seriesRepo     repositories.SeriesRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	txManager      repositories.TxManager
	logger         *slog.Logger
}

func NewTeamService(
	tournamentRepo repositories.TournamentRepository,
	seriesRepo repositories.SeriesRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	txManager repositories.TxManager,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		tournamentRepo: tournamentRepo,
		seriesRepo:     seriesRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.SeriesID <= 0 {
		return nil, fmt.Errorf("%w: series_id", ErrFieldRequired)
	}
	if input.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id", ErrFieldRequired)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := ensureOpen(tournament); err != nil {
		return nil, err
	}
	series, err := s.seriesRepo.GetByID(ctx, nil, input.SeriesID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if series.TournamentID != tournament.ID {
		return nil, fmt.Errorf("%w: series %d", ErrSeriesNotInTournament, series.ID)
	}

	players := make([]string, 0, len(input.Players))
	for _, p := range input.Players {
		if p = strings.TrimSpace(p); p != "" {
			players = append(players, p)
		}
	}

	team := &models.Team{
		Name:         name,
		Players:      players,
		CategoryID:   series.CategoryID,
		SeriesID:     series.ID,
		TournamentID: tournament.ID,
	}
	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return handleRepositoryError(err)
		}
		return handleRepositoryError(s.standingRepo.EnsureSeeded(ctx, exec, []int{team.ID}, series.ID, tournament.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team created", slog.Int("team_id", team.ID), slog.Int("series_id", team.SeriesID))
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return team, nil
}

// ListTeams filters by scope, then keeps names that fuzzy-match Search, if given.
func (s *teamService) ListTeams(ctx context.Context, filter ListTeamsFilter) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil, repositories.ListTeamsFilter{
		TournamentID: filter.TournamentID,
		SeriesID:     filter.SeriesID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return filterTeamsByName(teams, filter.Search), nil
}

func filterTeamsByName(teams []*models.Team, search string) []*models.Team {
	search = strings.TrimSpace(search)
	if search == "" {
		return teams
	}
	matched := make([]*models.Team, 0, len(teams))
	for _, t := range teams {
		if fuzzy.MatchFold(search, t.Name) {
			matched = append(matched, t)
		}
	}
	return matched
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return handleRepositoryError(err)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, team.TournamentID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := ensureOpen(tournament); err != nil {
		return err
	}

	matches, err := s.matchRepo.List(ctx, nil, repositories.ListMatchesFilter{TeamID: &id})
	if err != nil {
		return fmt.Errorf("failed to list matches of team %d: %w", id, err)
	}
	if len(matches) > 0 {
		return ErrTeamInUse
	}

	if err := s.teamRepo.Delete(ctx, nil, id); err != nil {
		return handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "team deleted", slog.Int("team_id", id))
	return nil
}
