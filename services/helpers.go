package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
)

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисного слоя.
// Неизвестные ошибки возвращаются как есть.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrSeriesNotFound):
		return ErrSeriesNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrCategoryNotFound),
		errors.Is(err, repositories.ErrTournamentInvalidCategory),
		errors.Is(err, repositories.ErrSeriesInvalidCategory),
		errors.Is(err, repositories.ErrTeamInvalidCategory):
		return ErrCategoryNotFound
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrTournamentInvalidOwner):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrSeriesInvalidTournament),
		errors.Is(err, repositories.ErrTeamInvalidTournament),
		errors.Is(err, repositories.ErrMatchInvalidTournament):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTeamInvalidSeries),
		errors.Is(err, repositories.ErrMatchInvalidSeries):
		return ErrSeriesNotFound
	case errors.Is(err, repositories.ErrMatchInvalidTeam),
		errors.Is(err, repositories.ErrTournamentInvalidChampion):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrSeriesInUse):
		return ErrSeriesInUse
	case errors.Is(err, repositories.ErrTeamInUse):
		return ErrTeamInUse
	case errors.Is(err, repositories.ErrCategoryNameConflict):
		return ErrCategoryNameConflict
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrStandingInvalidTeam):
		return ErrQualifierMissing
	case errors.Is(err, repositories.ErrMatchInvalidResult),
		errors.Is(err, brackets.ErrNoTeams),
		errors.Is(err, brackets.ErrNotEnoughTeams),
		errors.Is(err, brackets.ErrDuplicateTeamID):
		return wrapValidation(err)
	}
	return err
}

func wrapValidation(err error) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}

func ensureOpen(t *models.Tournament) error {
	if t.IsClosed() {
		return ErrTournamentClosed
	}
	return nil
}

func teamIDsOf(teams []*models.Team) []int {
	ids := make([]int, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids
}

// appendUnique appends ids not already present in seen, preserving order.
func appendUnique(dst []int, seen map[int]struct{}, ids ...int) []int {
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		dst = append(dst, id)
	}
	return dst
}

func intPtr(v int) *int {
	return &v
}
