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
	ErrSeriesNotFound          = errors.New("series not found")
	ErrSeriesInUse             = errors.New("series is in use (teams/matches exist)")
	ErrSeriesInvalidTournament = errors.New("invalid tournament reference")
	ErrSeriesInvalidCategory   = errors.New("invalid category reference")
)

type SeriesRepository interface {
	Create(ctx context.Context, exec SQLExecutor, series *models.Series) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Series, error)
	// ListByTournament returns series in creation order. A nil categoryID means all categories.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, categoryID *int) ([]*models.Series, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Series, error)
	UpdateAutoQualified(ctx context.Context, exec SQLExecutor, id int, teamIDs []int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresSeriesRepository struct {
	db *sql.DB
}

func NewPostgresSeriesRepository(db *sql.DB) SeriesRepository {
	return &postgresSeriesRepository{db: db}
}

func (r *postgresSeriesRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const seriesColumns = `id, name, category_id, tournament_id, auto_qualified, created_at`

func scanSeries(row rowScanner) (*models.Series, error) {
	s := &models.Series{}
	var autoQualified pq.Int64Array
	if err := row.Scan(&s.ID, &s.Name, &s.CategoryID, &s.TournamentID, &autoQualified, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	s.AutoQualified = make([]int, len(autoQualified))
	for i, id := range autoQualified {
		s.AutoQualified[i] = int(id)
	}
	return s, nil
}

func toInt64Array(ids []int) pq.Int64Array {
	arr := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		arr[i] = int64(id)
	}
	return arr
}

func (r *postgresSeriesRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Series) error {
	query := `
		INSERT INTO series (name, category_id, tournament_id, auto_qualified)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.Name, s.CategoryID, s.TournamentID, toInt64Array(s.AutoQualified),
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return r.handleSeriesError(err)
	}
	if s.AutoQualified == nil {
		s.AutoQualified = []int{}
	}
	return nil
}

func (r *postgresSeriesRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE id = $1`
	return scanSeries(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresSeriesRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, categoryID *int) ([]*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if categoryID != nil {
		query += " AND category_id = $2"
		args = append(args, *categoryID)
	}
	query += " ORDER BY created_at ASC, id ASC"
	return r.list(ctx, exec, query, args...)
}

func (r *postgresSeriesRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series ORDER BY created_at ASC, id ASC`
	return r.list(ctx, exec, query)
}

func (r *postgresSeriesRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Series, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*models.Series, 0)
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresSeriesRepository) UpdateAutoQualified(ctx context.Context, exec SQLExecutor, id int, teamIDs []int) error {
	query := `UPDATE series SET auto_qualified = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, toInt64Array(teamIDs), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeriesNotFound)
}

func (r *postgresSeriesRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM series WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqErrorCode(err); code == pqForeignKeyViolation {
			return ErrSeriesInUse
		}
		return fmt.Errorf("failed to delete series %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeriesNotFound)
}

func (r *postgresSeriesRepository) handleSeriesError(err error) error {
	code, constraint := pqErrorCode(err)
	if code == pqForeignKeyViolation {
		switch constraint {
		case "series_tournament_id_fkey":
			return ErrSeriesInvalidTournament
		case "series_category_id_fkey":
			return ErrSeriesInvalidCategory
		}
	}
	return err
}
