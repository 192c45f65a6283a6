package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
)

// RecordMatchInput carries a full match submission. Every reference and the
// result are required; pointers distinguish "missing" from zero.
type RecordMatchInput struct {
	TeamAID      *int         `json:"team_a_id"`
	TeamBID      *int         `json:"team_b_id"`
	SeriesID     *int         `json:"series_id"`
	TournamentID *int         `json:"tournament_id"`
	Result       *ResultInput `json:"result"`
	StartTime    *time.Time   `json:"start_time,omitempty"`
	EndTime      *time.Time   `json:"end_time,omitempty"`
}

// ResultInput is the submitted score. Both sides are required together.
type ResultInput struct {
	PointsA *int `json:"points_a"`
	PointsB *int `json:"points_b"`
}

type ListMatchesFilter struct {
	TournamentID *int
	SeriesID     *int
	TeamID       *int
}

type MatchService interface {
	RecordMatchResult(ctx context.Context, input RecordMatchInput) (*models.Match, error)
	CorrectMatchResult(ctx context.Context, matchID int, input RecordMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id int) (*models.Match, error)
	ListMatches(ctx context.Context, filter ListMatchesFilter) ([]*models.Match, error)
}

type matchService struct {
	tournamentRepo repositories.TournamentRepository
	seriesRepo     repositories.SeriesRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	txManager      repositories.TxManager
	rebuilder      *standingsRebuilder
	logger         *slog.Logger
}

func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	seriesRepo repositories.SeriesRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	txManager repositories.TxManager,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tournamentRepo: tournamentRepo,
		seriesRepo:     seriesRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		txManager:      txManager,
		rebuilder:      newStandingsRebuilder(teamRepo, matchRepo, standingRepo),
		logger:         logger,
	}
}

func validateMatchInput(input RecordMatchInput) error {
	switch {
	case input.TeamAID == nil:
		return fmt.Errorf("%w: team_a_id", ErrFieldRequired)
	case input.TeamBID == nil:
		return fmt.Errorf("%w: team_b_id", ErrFieldRequired)
	case input.SeriesID == nil:
		return fmt.Errorf("%w: series_id", ErrFieldRequired)
	case input.TournamentID == nil:
		return fmt.Errorf("%w: tournament_id", ErrFieldRequired)
	case input.Result == nil:
		return fmt.Errorf("%w: result", ErrFieldRequired)
	case input.Result.PointsA == nil:
		return fmt.Errorf("%w: result.points_a", ErrFieldRequired)
	case input.Result.PointsB == nil:
		return fmt.Errorf("%w: result.points_b", ErrFieldRequired)
	}
	pointsA, pointsB := *input.Result.PointsA, *input.Result.PointsB
	if pointsA == pointsB {
		return ErrDrawNotAllowed
	}
	if pointsA < 0 || pointsB < 0 {
		return ErrNegativeScore
	}
	if *input.TeamAID == *input.TeamBID {
		return ErrSameTeams
	}
	if input.StartTime != nil && input.EndTime != nil && input.EndTime.Before(*input.StartTime) {
		return fmt.Errorf("%w: end_time is before start_time", ErrValidationFailed)
	}
	return nil
}

// checkReferences loads everything the match points at and verifies it all
// belongs to one open tournament.
func (s *matchService) checkReferences(ctx context.Context, input RecordMatchInput) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, *input.TournamentID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := ensureOpen(tournament); err != nil {
		return err
	}

	series, err := s.seriesRepo.GetByID(ctx, nil, *input.SeriesID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if series.TournamentID != tournament.ID {
		return fmt.Errorf("%w: series %d", ErrSeriesNotInTournament, series.ID)
	}

	for _, teamID := range []int{*input.TeamAID, *input.TeamBID} {
		team, err := s.teamRepo.GetByID(ctx, nil, teamID)
		if err != nil {
			return fmt.Errorf("team %d: %w", teamID, handleRepositoryError(err))
		}
		if team.TournamentID != tournament.ID {
			return fmt.Errorf("%w: team %d", ErrTeamNotInTournament, teamID)
		}
	}
	return nil
}

func applyInput(m *models.Match, input RecordMatchInput) {
	m.TeamAID = *input.TeamAID
	m.TeamBID = *input.TeamBID
	m.SeriesID = *input.SeriesID
	m.TournamentID = *input.TournamentID
	m.StartTime = input.StartTime
	m.EndTime = input.EndTime
	result := models.MatchResult{PointsA: *input.Result.PointsA, PointsB: *input.Result.PointsB}
	m.Result = &result
	winner := m.TeamAID
	if result.PointsB > result.PointsA {
		winner = m.TeamBID
	}
	m.WinnerID = &winner
}

func (s *matchService) RecordMatchResult(ctx context.Context, input RecordMatchInput) (*models.Match, error) {
	if err := validateMatchInput(input); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	match := &models.Match{}
	applyInput(match, input)

	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.lockOpenTournament(ctx, exec, match.TournamentID); err != nil {
			return err
		}
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return handleRepositoryError(err)
		}

		rowA, err := s.standingRepo.GetOrCreate(ctx, exec, match.TeamAID, match.SeriesID, match.TournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		rowB, err := s.standingRepo.GetOrCreate(ctx, exec, match.TeamBID, match.SeriesID, match.TournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		brackets.ApplyResult(rowA, rowB, match)

		if err := s.standingRepo.Update(ctx, exec, rowA); err != nil {
			return fmt.Errorf("failed to update standing of team %d: %w", rowA.TeamID, err)
		}
		if err := s.standingRepo.Update(ctx, exec, rowB); err != nil {
			return fmt.Errorf("failed to update standing of team %d: %w", rowB.TeamID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "match result recorded",
		slog.Int("match_id", match.ID),
		slog.Int("series_id", match.SeriesID),
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("winner_id", *match.WinnerID),
	)
	return match, nil
}

func (s *matchService) CorrectMatchResult(ctx context.Context, matchID int, input RecordMatchInput) (*models.Match, error) {
	if err := validateMatchInput(input); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if match.TournamentID != *input.TournamentID {
		return nil, ErrMatchTournamentChanged
	}
	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	previousSeriesID := match.SeriesID
	applyInput(match, input)

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.lockOpenTournament(ctx, exec, match.TournamentID); err != nil {
			return err
		}
		if err := s.matchRepo.Update(ctx, exec, match); err != nil {
			return handleRepositoryError(err)
		}
		if _, err := s.rebuilder.rebuild(ctx, exec, match.SeriesID, match.TournamentID); err != nil {
			return err
		}
		if previousSeriesID != match.SeriesID {
			if _, err := s.rebuilder.rebuild(ctx, exec, previousSeriesID, match.TournamentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "match result corrected",
		slog.Int("match_id", match.ID),
		slog.Int("series_id", match.SeriesID),
		slog.Int("previous_series_id", previousSeriesID),
	)
	return match, nil
}

// lockOpenTournament re-reads the tournament under a row lock; it must still be open.
func (s *matchService) lockOpenTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	t, err := s.tournamentRepo.LockByID(ctx, exec, tournamentID)
	if err != nil {
		return handleRepositoryError(err)
	}
	return ensureOpen(t)
}

func (s *matchService) GetMatchByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context, filter ListMatchesFilter) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, nil, repositories.ListMatchesFilter{
		TournamentID: filter.TournamentID,
		SeriesID:     filter.SeriesID,
		TeamID:       filter.TeamID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}
