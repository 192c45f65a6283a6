package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-system/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchInvalidTeam       = errors.New("invalid team reference in match")
	ErrMatchInvalidSeries     = errors.New("invalid series reference in match")
	ErrMatchInvalidTournament = errors.New("invalid tournament reference in match")
	ErrMatchInvalidResult     = errors.New("match result violates constraints")
)

type ListMatchesFilter struct {
	TournamentID  *int
	SeriesID      *int
	TeamID        *int
	CompletedOnly bool
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// List returns matches ordered by id, which is creation order.
	List(ctx context.Context, exec SQLExecutor, filter ListMatchesFilter) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, team_a_id, team_b_id, series_id, tournament_id, start_time, end_time, points_a, points_b, winner_id, created_at`

func scanMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	var startTime, endTime sql.NullTime
	var pointsA, pointsB, winnerID sql.NullInt64
	err := row.Scan(&m.ID, &m.TeamAID, &m.TeamBID, &m.SeriesID, &m.TournamentID,
		&startTime, &endTime, &pointsA, &pointsB, &winnerID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if startTime.Valid {
		m.StartTime = &startTime.Time
	}
	if endTime.Valid {
		m.EndTime = &endTime.Time
	}
	if pointsA.Valid && pointsB.Valid {
		m.Result = &models.MatchResult{PointsA: int(pointsA.Int64), PointsB: int(pointsB.Int64)}
	}
	m.WinnerID = nullIntPtr(winnerID)
	return m, nil
}

func resultArgs(m *models.Match) (interface{}, interface{}) {
	if m.Result == nil {
		return nil, nil
	}
	return m.Result.PointsA, m.Result.PointsB
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches (team_a_id, team_b_id, series_id, tournament_id, start_time, end_time, points_a, points_b, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	pointsA, pointsB := resultArgs(m)
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		m.TeamAID, m.TeamBID, m.SeriesID, m.TournamentID, m.StartTime, m.EndTime, pointsA, pointsB, m.WinnerID,
	).Scan(&m.ID, &m.CreatedAt)
	return r.handleMatchError(err)
}

// BatchCreate inserts matches in slice order so ids follow the fixture order.
func (r *postgresMatchRepository) BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	for i, m := range matches {
		if err := r.Create(ctx, exec, m); err != nil {
			return fmt.Errorf("batch create failed at match %d (%d vs %d): %w", i, m.TeamAID, m.TeamBID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter ListMatchesFilter) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE 1=1`
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
		argID++
	}
	if filter.TeamID != nil {
		query += fmt.Sprintf(" AND (team_a_id = $%d OR team_b_id = $%d)", argID, argID)
		args = append(args, *filter.TeamID)
	}
	if filter.CompletedOnly {
		query += " AND points_a IS NOT NULL AND winner_id IS NOT NULL"
	}
	query += " ORDER BY id ASC"

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET
			team_a_id = $1, team_b_id = $2, series_id = $3, tournament_id = $4,
			start_time = $5, end_time = $6, points_a = $7, points_b = $8, winner_id = $9
		WHERE id = $10`

	pointsA, pointsB := resultArgs(m)
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		m.TeamAID, m.TeamBID, m.SeriesID, m.TournamentID, m.StartTime, m.EndTime, pointsA, pointsB, m.WinnerID, m.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint := pqErrorCode(err)
	switch code {
	case pqForeignKeyViolation:
		switch constraint {
		case "matches_series_id_fkey":
			return ErrMatchInvalidSeries
		case "matches_tournament_id_fkey":
			return ErrMatchInvalidTournament
		default:
			return ErrMatchInvalidTeam
		}
	case pqCheckViolation:
		return ErrMatchInvalidResult
	}
	return err
}
