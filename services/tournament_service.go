package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
	"github.com/Dosada05/bracket-system/storage"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentInput struct {
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
}

type ListTournamentsFilter struct {
	OwnerID *int
	Status  *models.TournamentStatus
	Limit   int
	Offset  int
}

// TournamentArchive is the document stored when a tournament is finalized.
type TournamentArchive struct {
	Tournament *models.Tournament            `json:"tournament"`
	Series     []*models.Series              `json:"series"`
	Standings  map[string][]*models.Standing `json:"standings"` // by series id
	ArchivedAt time.Time                     `json:"archived_at"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput, ownerID int) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error)
	FinalizeTournament(ctx context.Context, id int) (*models.Tournament, error)
	IsOwner(ctx context.Context, tournamentID, userID int) (bool, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	categoryRepo   repositories.CategoryRepository
	seriesRepo     repositories.SeriesRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	txManager      repositories.TxManager
	uploader       storage.FileUploader // nil when object storage is not configured
	logger         *slog.Logger
	now            func() time.Time
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	seriesRepo repositories.SeriesRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	txManager repositories.TxManager,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		categoryRepo:   categoryRepo,
		seriesRepo:     seriesRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		txManager:      txManager,
		uploader:       uploader,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput, ownerID int) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.CategoryID <= 0 {
		return nil, fmt.Errorf("%w: category_id", ErrFieldRequired)
	}
	if _, err := s.categoryRepo.GetByID(ctx, nil, input.CategoryID); err != nil {
		return nil, handleRepositoryError(err)
	}

	tournament := &models.Tournament{
		Name:       name,
		CategoryID: input.CategoryID,
		Status:     models.StatusOpen,
		OwnerID:    &ownerID,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "tournament created", slog.Int("tournament_id", tournament.ID), slog.Int("owner_id", ownerID))
	return tournament, nil
}

// GetTournamentByID loads the tournament with its category and membership lists.
func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		category, err := s.categoryRepo.GetByID(gCtx, nil, tournament.CategoryID)
		if err != nil {
			s.logger.WarnContext(gCtx, "failed to load tournament category",
				slog.Int("tournament_id", id), slog.Int("category_id", tournament.CategoryID), slog.Any("error", err))
			return nil
		}
		tournament.Category = category
		return nil
	})
	g.Go(func() error {
		series, err := s.seriesRepo.ListByTournament(gCtx, nil, id, nil)
		if err != nil {
			return fmt.Errorf("failed to load series of tournament %d: %w", id, err)
		}
		tournament.SeriesIDs = make([]int, len(series))
		for i, sr := range series {
			tournament.SeriesIDs[i] = sr.ID
		}
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.List(gCtx, nil, repositories.ListTeamsFilter{TournamentID: &id})
		if err != nil {
			return fmt.Errorf("failed to load teams of tournament %d: %w", id, err)
		}
		tournament.TeamIDs = teamIDsOf(teams)
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.List(gCtx, nil, repositories.ListMatchesFilter{TournamentID: &id})
		if err != nil {
			return fmt.Errorf("failed to load matches of tournament %d: %w", id, err)
		}
		tournament.MatchIDs = make([]int, len(matches))
		for i, m := range matches {
			tournament.MatchIDs[i] = m.ID
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, nil, repositories.ListTournamentsFilter{
		OwnerID: filter.OwnerID,
		Status:  filter.Status,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) FinalizeTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var tournament *models.Tournament
	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.LockByID(ctx, exec, id)
		if err != nil {
			return handleRepositoryError(err)
		}
		if t.IsClosed() {
			return ErrTournamentAlreadyClosed
		}
		finishedAt := s.now().UTC()
		if err := s.tournamentRepo.Close(ctx, exec, id, finishedAt); err != nil {
			return handleRepositoryError(err)
		}
		t.Status = models.StatusClosed
		t.FinishedAt = &finishedAt
		tournament = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tournament finalized", slog.Int("tournament_id", id))

	if s.uploader != nil {
		if err := s.archive(ctx, tournament); err != nil {
			s.logger.ErrorContext(ctx, "failed to archive finalized tournament",
				slog.Int("tournament_id", id), slog.Any("error", err))
		}
	}
	return tournament, nil
}

func (s *tournamentService) archive(ctx context.Context, tournament *models.Tournament) error {
	series, err := s.seriesRepo.ListByTournament(ctx, nil, tournament.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}
	rows, err := s.standingRepo.List(ctx, nil, repositories.ListStandingsFilter{TournamentID: &tournament.ID})
	if err != nil {
		return fmt.Errorf("failed to load standings: %w", err)
	}

	doc := TournamentArchive{
		Tournament: tournament,
		Series:     series,
		Standings:  make(map[string][]*models.Standing, len(series)),
		ArchivedAt: s.now().UTC(),
	}
	for seriesID, group := range groupBySeries(rows) {
		doc.Standings[fmt.Sprint(seriesID)] = brackets.RankStandings(group)
	}

	res, err := storage.UploadJSON(ctx, s.uploader, storage.TournamentArchiveKey(tournament.ID), doc)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "tournament archived", slog.Int("tournament_id", tournament.ID), slog.String("location", res.Location))
	return nil
}

func (s *tournamentService) IsOwner(ctx context.Context, tournamentID, userID int) (bool, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return false, handleRepositoryError(err)
	}
	return tournament.OwnerID != nil && *tournament.OwnerID == userID, nil
}

func groupBySeries(rows []*models.Standing) map[int][]*models.Standing {
	groups := make(map[int][]*models.Standing)
	for _, r := range rows {
		groups[r.SeriesID] = append(groups[r.SeriesID], r)
	}
	return groups
}
