package handlers

import (
	"context"

	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/services"
)

type stubAuthService struct {
	user *models.User
	err  error
}

func (s *stubAuthService) Register(_ context.Context, input services.RegisterInput) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: 1, Name: input.Name, Email: input.Email}, nil
}

func (s *stubAuthService) Login(context.Context, services.LoginInput) (*models.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) GetUserByID(_ context.Context, id int) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: id, Name: s.user.Name, Email: s.user.Email}, nil
}

type stubTournamentService struct {
	services.TournamentService
	ownerID     int
	finalizeErr error
	finalized   []int
	lastFilter  services.ListTournamentsFilter
}

func (s *stubTournamentService) IsOwner(_ context.Context, _ int, userID int) (bool, error) {
	return userID == s.ownerID, nil
}

func (s *stubTournamentService) FinalizeTournament(_ context.Context, id int) (*models.Tournament, error) {
	if s.finalizeErr != nil {
		return nil, s.finalizeErr
	}
	s.finalized = append(s.finalized, id)
	return &models.Tournament{ID: id, Status: models.StatusClosed}, nil
}

func (s *stubTournamentService) ListTournaments(_ context.Context, filter services.ListTournamentsFilter) ([]*models.Tournament, error) {
	s.lastFilter = filter
	return []*models.Tournament{}, nil
}

type stubBracketService struct {
	services.BracketService
	scopes []services.AdvanceScope
	err    error
}

func (s *stubBracketService) AdvanceRound(_ context.Context, scope services.AdvanceScope) (*services.AdvanceResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.scopes = append(s.scopes, scope)
	return &services.AdvanceResult{TournamentID: scope.TournamentID, TeamsAdvanced: 2, MatchIDs: []int{10}}, nil
}

type stubMatchService struct {
	services.MatchService
	err       error
	recorded  []services.RecordMatchInput
	corrected map[int]services.RecordMatchInput
}

func (s *stubMatchService) RecordMatchResult(_ context.Context, input services.RecordMatchInput) (*models.Match, error) {
	s.recorded = append(s.recorded, input)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Match{ID: 5, TeamAID: *input.TeamAID, TeamBID: *input.TeamBID}, nil
}

func (s *stubMatchService) CorrectMatchResult(_ context.Context, id int, input services.RecordMatchInput) (*models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.corrected == nil {
		s.corrected = map[int]services.RecordMatchInput{}
	}
	s.corrected[id] = input
	return &models.Match{ID: id}, nil
}

type stubStandingService struct {
	services.StandingService
	calls int
}

func (s *stubStandingService) ListStandings(context.Context, int, *int) ([]services.SeriesStandings, error) {
	s.calls++
	return []services.SeriesStandings{}, nil
}
