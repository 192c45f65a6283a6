package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
)

type CreateSeriesInput struct {
	Name         string `json:"name"`
	CategoryID   int    `json:"category_id"`
	TournamentID int    `json:"tournament_id"`
}

type SeriesService interface {
	CreateSeries(ctx context.Context, input CreateSeriesInput) (*models.Series, error)
	GetSeriesByID(ctx context.Context, id int) (*models.Series, error)
	ListSeries(ctx context.Context, tournamentID *int) ([]*models.Series, error)
	DeleteSeries(ctx context.Context, id int) error
}

type seriesService struct {
	tournamentRepo repositories.TournamentRepository
	categoryRepo   repositories.CategoryRepository
	seriesRepo     repositories.SeriesRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewSeriesService(
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	seriesRepo repositories.SeriesRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) SeriesService {
	return &seriesService{
		tournamentRepo: tournamentRepo,
		categoryRepo:   categoryRepo,
		seriesRepo:     seriesRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *seriesService) CreateSeries(ctx context.Context, input CreateSeriesInput) (*models.Series, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id", ErrFieldRequired)
	}
	if input.CategoryID <= 0 {
		return nil, fmt.Errorf("%w: category_id", ErrFieldRequired)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := ensureOpen(tournament); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, nil, input.CategoryID); err != nil {
		return nil, handleRepositoryError(err)
	}

	series := &models.Series{
		Name:          name,
		CategoryID:    input.CategoryID,
		TournamentID:  input.TournamentID,
		AutoQualified: []int{},
	}
	if err := s.seriesRepo.Create(ctx, nil, series); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "series created", slog.Int("series_id", series.ID), slog.Int("tournament_id", series.TournamentID))
	return series, nil
}

func (s *seriesService) GetSeriesByID(ctx context.Context, id int) (*models.Series, error) {
	series, err := s.seriesRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return series, nil
}

func (s *seriesService) ListSeries(ctx context.Context, tournamentID *int) ([]*models.Series, error) {
	var (
		series []*models.Series
		err    error
	)
	if tournamentID != nil {
		series, err = s.seriesRepo.ListByTournament(ctx, nil, *tournamentID, nil)
	} else {
		series, err = s.seriesRepo.List(ctx, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return series, nil
}

func (s *seriesService) DeleteSeries(ctx context.Context, id int) error {
	series, err := s.seriesRepo.GetByID(ctx, nil, id)
	if err != nil {
		return handleRepositoryError(err)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, series.TournamentID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := ensureOpen(tournament); err != nil {
		return err
	}

	teams, err := s.teamRepo.List(ctx, nil, repositories.ListTeamsFilter{SeriesID: &id})
	if err != nil {
		return fmt.Errorf("failed to list teams of series %d: %w", id, err)
	}
	matches, err := s.matchRepo.List(ctx, nil, repositories.ListMatchesFilter{SeriesID: &id})
	if err != nil {
		return fmt.Errorf("failed to list matches of series %d: %w", id, err)
	}
	if len(teams) > 0 || len(matches) > 0 {
		return ErrSeriesInUse
	}

	if err := s.seriesRepo.Delete(ctx, nil, id); err != nil {
		return handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "series deleted", slog.Int("series_id", id))
	return nil
}
