package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
)

// SeriesStandings is the ranked table of one series.
type SeriesStandings struct {
	SeriesID  int                `json:"series_id"`
	Standings []*models.Standing `json:"standings"`
}

type StandingService interface {
	// ListStandings returns ranked tables per series, series in id order.
	ListStandings(ctx context.Context, tournamentID int, seriesID *int) ([]SeriesStandings, error)
	RebuildSeries(ctx context.Context, seriesID int) (*SeriesStandings, error)
}

type standingService struct {
	tournamentRepo repositories.TournamentRepository
	seriesRepo     repositories.SeriesRepository
	teamRepo       repositories.TeamRepository
	standingRepo   repositories.StandingRepository
	txManager      repositories.TxManager
	rebuilder      *standingsRebuilder
	logger         *slog.Logger
}

func NewStandingService(
	tournamentRepo repositories.TournamentRepository,
	seriesRepo repositories.SeriesRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	txManager repositories.TxManager,
	logger *slog.Logger,
) StandingService {
	return &standingService{
		tournamentRepo: tournamentRepo,
		seriesRepo:     seriesRepo,
		teamRepo:       teamRepo,
		standingRepo:   standingRepo,
		txManager:      txManager,
		rebuilder:      newStandingsRebuilder(teamRepo, matchRepo, standingRepo),
		logger:         logger,
	}
}

func (s *standingService) ListStandings(ctx context.Context, tournamentID int, seriesID *int) ([]SeriesStandings, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	rows, err := s.standingRepo.List(ctx, nil, repositories.ListStandingsFilter{
		TournamentID: &tournamentID,
		SeriesID:     seriesID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}

	teams, err := s.teamRepo.List(ctx, nil, repositories.ListTeamsFilter{TournamentID: &tournamentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	teamIndex := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamIndex[t.ID] = t
	}
	for _, r := range rows {
		r.Team = teamIndex[r.TeamID]
	}

	groups := groupBySeries(rows)
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]SeriesStandings, 0, len(ids))
	for _, id := range ids {
		out = append(out, SeriesStandings{SeriesID: id, Standings: brackets.RankStandings(groups[id])})
	}
	return out, nil
}

func (s *standingService) RebuildSeries(ctx context.Context, seriesID int) (*SeriesStandings, error) {
	series, err := s.seriesRepo.GetByID(ctx, nil, seriesID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	var rows []*models.Standing
	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.LockByID(ctx, exec, series.TournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if err := ensureOpen(t); err != nil {
			return err
		}
		rows, err = s.rebuilder.rebuild(ctx, exec, series.ID, series.TournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "standings rebuilt", slog.Int("series_id", series.ID), slog.Int("rows", len(rows)))
	return &SeriesStandings{SeriesID: series.ID, Standings: brackets.RankStandings(rows)}, nil
}
