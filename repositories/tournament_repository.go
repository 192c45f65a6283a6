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
	ErrTournamentNotFound        = errors.New("tournament not found")
	ErrTournamentInvalidCategory = errors.New("invalid category reference")
	ErrTournamentInvalidOwner    = errors.New("invalid owner reference")
	ErrTournamentInvalidChampion = errors.New("invalid champion team reference")
)

type ListTournamentsFilter struct {
	OwnerID *int
	Status  *models.TournamentStatus
	Limit   int
	Offset  int
}

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// LockByID re-reads the row with FOR UPDATE. Only meaningful inside a transaction.
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, exec SQLExecutor, filter ListTournamentsFilter) ([]*models.Tournament, error)
	Close(ctx context.Context, exec SQLExecutor, id int, finishedAt time.Time) error
	UpdateChampion(ctx context.Context, exec SQLExecutor, id int, championTeamID *int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `id, name, category_id, status, created_at, finished_at, owner_id, champion_team_id`

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var finishedAt sql.NullTime
	var ownerID, championID sql.NullInt64
	err := row.Scan(&t.ID, &t.Name, &t.CategoryID, &t.Status, &t.CreatedAt, &finishedAt, &ownerID, &championID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if finishedAt.Valid {
		t.FinishedAt = &finishedAt.Time
	}
	t.OwnerID = nullIntPtr(ownerID)
	t.ChampionTeamID = nullIntPtr(championID)
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	if t.Status == "" {
		t.Status = models.StatusOpen
	}
	query := `
		INSERT INTO tournaments (name, category_id, status, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, t.Name, t.CategoryID, t.Status, t.OwnerID).
		Scan(&t.ID, &t.CreatedAt)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return scanTournament(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`
	return scanTournament(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, exec SQLExecutor, filter ListTournamentsFilter) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argID)
		args = append(args, *filter.OwnerID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Close(ctx context.Context, exec SQLExecutor, id int, finishedAt time.Time) error {
	query := `UPDATE tournaments SET status = $1, finished_at = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, models.StatusClosed, finishedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateChampion(ctx context.Context, exec SQLExecutor, id int, championTeamID *int) error {
	query := `UPDATE tournaments SET champion_team_id = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, championTeamID, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint := pqErrorCode(err)
	if code == pqForeignKeyViolation {
		switch constraint {
		case "tournaments_category_id_fkey":
			return ErrTournamentInvalidCategory
		case "tournaments_owner_id_fkey":
			return ErrTournamentInvalidOwner
		case "fk_tournaments_champion":
			return ErrTournamentInvalidChampion
		}
	}
	return err
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
