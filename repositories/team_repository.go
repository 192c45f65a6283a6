package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-system/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamInUse             = errors.New("team is in use (matches exist)")
	ErrTeamInvalidSeries     = errors.New("invalid series reference")
	ErrTeamInvalidTournament = errors.New("invalid tournament reference")
	ErrTeamInvalidCategory   = errors.New("invalid category reference")
)

type ListTeamsFilter struct {
	TournamentID *int
	SeriesID     *int
}

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Team, error)
	List(ctx context.Context, exec SQLExecutor, filter ListTeamsFilter) ([]*models.Team, error)
	// UpdateSeries moves the given teams into seriesID.
	UpdateSeries(ctx context.Context, exec SQLExecutor, teamIDs []int, seriesID int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, name, players, category_id, series_id, tournament_id, created_at`

func scanTeam(row rowScanner) (*models.Team, error) {
	t := &models.Team{}
	var players pq.StringArray
	if err := row.Scan(&t.ID, &t.Name, &players, &t.CategoryID, &t.SeriesID, &t.TournamentID, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	t.Players = []string(players)
	if t.Players == nil {
		t.Players = []string{}
	}
	return t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Team) error {
	query := `
		INSERT INTO teams (name, players, category_id, series_id, tournament_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, pq.Array(t.Players), t.CategoryID, t.SeriesID, t.TournamentID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return r.handleTeamError(err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1) ORDER BY id ASC`
	return r.list(ctx, exec, query, toInt64Array(ids))
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor, filter ListTeamsFilter) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE 1=1`
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
	query += " ORDER BY id ASC"
	return r.list(ctx, exec, query, args...)
}

func (r *postgresTeamRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateSeries(ctx context.Context, exec SQLExecutor, teamIDs []int, seriesID int) error {
	if len(teamIDs) == 0 {
		return nil
	}
	query := `UPDATE teams SET series_id = $1 WHERE id = ANY($2)`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, seriesID, toInt64Array(teamIDs))
	if err != nil {
		return r.handleTeamError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if int(affected) != len(teamIDs) {
		return fmt.Errorf("%w: moved %d of %d teams", ErrTeamNotFound, affected, len(teamIDs))
	}
	return nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqErrorCode(err); code == pqForeignKeyViolation {
			return ErrTeamInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	code, constraint := pqErrorCode(err)
	if code == pqForeignKeyViolation {
		switch constraint {
		case "teams_series_id_fkey":
			return ErrTeamInvalidSeries
		case "teams_tournament_id_fkey":
			return ErrTeamInvalidTournament
		case "teams_category_id_fkey":
			return ErrTeamInvalidCategory
		}
	}
	return err
}
