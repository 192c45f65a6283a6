package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/bracket-system/models"
)

var (
	ErrStandingNotFound    = errors.New("standing not found")
	ErrStandingInvalidTeam = errors.New("standing team, series or tournament reference invalid")
)

type ListStandingsFilter struct {
	TournamentID *int
	SeriesID     *int
}

type StandingRepository interface {
	GetOrCreate(ctx context.Context, exec SQLExecutor, teamID, seriesID, tournamentID int) (*models.Standing, error)
	Update(ctx context.Context, exec SQLExecutor, standing *models.Standing) error
	// EnsureSeeded inserts zero rows for teams that have none in the scope; existing rows are untouched.
	EnsureSeeded(ctx context.Context, exec SQLExecutor, teamIDs []int, seriesID, tournamentID int) error
	// BatchUpsert overwrites the counters of each (team, series, tournament) row, inserting missing ones.
	BatchUpsert(ctx context.Context, exec SQLExecutor, standings []*models.Standing) error
	// List returns rows ordered by series then team id; ranking is applied by the caller.
	List(ctx context.Context, exec SQLExecutor, filter ListStandingsFilter) ([]*models.Standing, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const standingColumns = `id, team_id, series_id, tournament_id, matches_played, wins, losses,
		points_for, points_against, points, updated_at`

func scanStanding(row rowScanner) (*models.Standing, error) {
	var s models.Standing
	err := row.Scan(
		&s.ID, &s.TeamID, &s.SeriesID, &s.TournamentID, &s.MatchesPlayed, &s.Wins, &s.Losses,
		&s.PointsFor, &s.PointsAgainst, &s.Points, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetOrCreate relies on the unique key: a concurrent insert of the same row is absorbed by ON CONFLICT.
func (r *postgresStandingRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, teamID, seriesID, tournamentID int) (*models.Standing, error) {
	executor := r.getExecutor(exec)
	insert := `
		INSERT INTO standings (team_id, series_id, tournament_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, series_id, tournament_id) DO NOTHING`
	if _, err := executor.ExecContext(ctx, insert, teamID, seriesID, tournamentID); err != nil {
		if code, _ := pqErrorCode(err); code == pqForeignKeyViolation {
			return nil, ErrStandingInvalidTeam
		}
		return nil, fmt.Errorf("failed to create standing for team:%d series:%d: %w", teamID, seriesID, err)
	}

	query := `SELECT ` + standingColumns + `
		FROM standings
		WHERE team_id = $1 AND series_id = $2 AND tournament_id = $3`
	return scanStanding(executor.QueryRowContext(ctx, query, teamID, seriesID, tournamentID))
}

func (r *postgresStandingRepository) Update(ctx context.Context, exec SQLExecutor, s *models.Standing) error {
	s.UpdatedAt = time.Now()
	query := `
		UPDATE standings SET
			matches_played = $1, wins = $2, losses = $3,
			points_for = $4, points_against = $5, points = $6, updated_at = $7
		WHERE id = $8`
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		s.MatchesPlayed, s.Wins, s.Losses, s.PointsFor, s.PointsAgainst, s.Points, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *postgresStandingRepository) EnsureSeeded(ctx context.Context, exec SQLExecutor, teamIDs []int, seriesID, tournamentID int) error {
	if len(teamIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO standings (team_id, series_id, tournament_id)
		SELECT t, $2, $3 FROM UNNEST($1::integer[]) AS t
		ON CONFLICT (team_id, series_id, tournament_id) DO NOTHING`
	if _, err := r.getExecutor(exec).ExecContext(ctx, query, toInt64Array(teamIDs), seriesID, tournamentID); err != nil {
		if code, _ := pqErrorCode(err); code == pqForeignKeyViolation {
			return ErrStandingInvalidTeam
		}
		return fmt.Errorf("failed to seed standings for series %d: %w", seriesID, err)
	}
	return nil
}

func (r *postgresStandingRepository) BatchUpsert(ctx context.Context, exec SQLExecutor, standings []*models.Standing) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO standings
			(team_id, series_id, tournament_id, matches_played, wins, losses, points_for, points_against, points, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (team_id, series_id, tournament_id) DO UPDATE SET
			matches_played = EXCLUDED.matches_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			points_for = EXCLUDED.points_for,
			points_against = EXCLUDED.points_against,
			points = EXCLUDED.points,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	now := time.Now()
	for _, s := range standings {
		s.UpdatedAt = now
		err := executor.QueryRowContext(ctx, query,
			s.TeamID, s.SeriesID, s.TournamentID, s.MatchesPlayed, s.Wins, s.Losses,
			s.PointsFor, s.PointsAgainst, s.Points, s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			if code, _ := pqErrorCode(err); code == pqForeignKeyViolation {
				return fmt.Errorf("team %d: %w", s.TeamID, ErrStandingInvalidTeam)
			}
			return fmt.Errorf("upsert failed for team %d: %w", s.TeamID, err)
		}
	}
	return nil
}

func (r *postgresStandingRepository) List(ctx context.Context, exec SQLExecutor, filter ListStandingsFilter) ([]*models.Standing, error) {
	query := `SELECT ` + standingColumns + ` FROM standings WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.TournamentID != nil {
		query += fmt.Sprintf(" AND tournament_id = $%d", argID)
		args = append(args, *filter.TournamentID)
		argID++
	}
	if filter.SeriesID != nil {
		query += fmt.Sprintf(" AND series_id = $%d", argID)
		args = append(args, *filter.SeriesID)
	}
	query += " ORDER BY series_id ASC, team_id ASC"

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		s, errScan := scanStanding(rows)
		if errScan != nil {
			return nil, errScan
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}
