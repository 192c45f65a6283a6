package services

import "errors"

// Классы ошибок. Каждая конкретная ошибка ниже оборачивает один из них,
// так что errors.Is(err, ErrNotFound) работает для всех "не найдено".
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrNotFound             = errors.New("requested resource not found")
	ErrStateConflict        = errors.New("state conflict")
	ErrIntegrity            = errors.New("data integrity violation")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)

type classifiedError struct {
	class error
	msg   string
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.class }

func newError(class error, msg string) error {
	return &classifiedError{class: class, msg: msg}
}

var (
	// Не найдено
	ErrTournamentNotFound = newError(ErrNotFound, "tournament not found")
	ErrSeriesNotFound     = newError(ErrNotFound, "series not found")
	ErrTeamNotFound       = newError(ErrNotFound, "team not found")
	ErrMatchNotFound      = newError(ErrNotFound, "match not found")
	ErrCategoryNotFound   = newError(ErrNotFound, "category not found")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")

	// Валидация
	ErrFieldRequired          = newError(ErrValidationFailed, "required field is missing")
	ErrDrawNotAllowed         = newError(ErrValidationFailed, "no draws allowed")
	ErrNegativeScore          = newError(ErrValidationFailed, "scores must not be negative")
	ErrSameTeams              = newError(ErrValidationFailed, "a team cannot play against itself")
	ErrSeriesNotInTournament  = newError(ErrValidationFailed, "series does not belong to the tournament")
	ErrTeamNotInTournament    = newError(ErrValidationFailed, "team does not belong to the tournament")
	ErrMatchTournamentChanged = newError(ErrValidationFailed, "a match cannot be moved to another tournament")
	ErrInvalidCategoryName    = newError(ErrValidationFailed, "category must be one of Masculino, Femenino, Mixto")
	ErrNameRequired           = newError(ErrValidationFailed, "name is required")
	ErrInvalidEmail           = newError(ErrValidationFailed, "email address is invalid")
	ErrPasswordTooShort       = newError(ErrValidationFailed, "password is too short")

	// Конфликты состояния
	ErrTournamentClosed        = newError(ErrStateConflict, "tournament is closed")
	ErrTournamentAlreadyClosed = newError(ErrStateConflict, "tournament is already closed")
	ErrNoSeries                = newError(ErrStateConflict, "tournament has no series to advance")
	ErrSeriesIncomplete        = newError(ErrStateConflict, "series has undecided matches")
	ErrNotEnoughChampions      = newError(ErrStateConflict, "not enough champions")
	ErrSeriesInUse             = newError(ErrStateConflict, "series has teams or matches attached")
	ErrTeamInUse               = newError(ErrStateConflict, "team has matches attached")
	ErrFixtureExists           = newError(ErrStateConflict, "series already has matches")
	ErrNotGroupSeries          = newError(ErrStateConflict, "fixture generation is only for group-stage series")
	ErrCategoryNameConflict    = newError(ErrStateConflict, "category already exists")
	ErrUserEmailConflict       = newError(ErrStateConflict, "email address is already in use")

	// Целостность данных
	ErrQualifierMissing = newError(ErrIntegrity, "qualifying team is missing from roster and standings")
	ErrWinnerNotInMatch = newError(ErrIntegrity, "match winner is not one of its teams")

	ErrInvalidCredentials = newError(ErrAuthenticationFailed, "invalid email or password")
)
