// Package app wires repositories and services for the server and the operator CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-system/config"
	"github.com/Dosada05/bracket-system/repositories"
	"github.com/Dosada05/bracket-system/services"
	"github.com/Dosada05/bracket-system/storage"
)

type Services struct {
	Auth       services.AuthService
	Categories services.CategoryService
	Tournament services.TournamentService
	Series     services.SeriesService
	Teams      services.TeamService
	Matches    services.MatchService
	Standings  services.StandingService
	Bracket    services.BracketService
}

// NewUploader returns nil when object storage is not configured.
func NewUploader(ctx context.Context, cfg *config.Config) (storage.FileUploader, error) {
	if !cfg.StorageEnabled() {
		return nil, nil
	}
	uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
	}
	return uploader, nil
}

func NewServices(dbConn *sql.DB, uploader storage.FileUploader, logger *slog.Logger) *Services {
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	seriesRepo := repositories.NewPostgresSeriesRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	txManager := repositories.NewTxManager(dbConn, logger)

	return &Services{
		Auth:       services.NewAuthService(userRepo),
		Categories: services.NewCategoryService(categoryRepo),
		Tournament: services.NewTournamentService(
			tournamentRepo, categoryRepo, seriesRepo, teamRepo, matchRepo, standingRepo,
			txManager, uploader, logger,
		),
		Series:    services.NewSeriesService(tournamentRepo, categoryRepo, seriesRepo, teamRepo, matchRepo, logger),
		Teams:     services.NewTeamService(tournamentRepo, seriesRepo, teamRepo, matchRepo, standingRepo, txManager, logger),
		Matches:   services.NewMatchService(tournamentRepo, seriesRepo, teamRepo, matchRepo, standingRepo, txManager, logger),
		Standings: services.NewStandingService(tournamentRepo, seriesRepo, teamRepo, matchRepo, standingRepo, txManager, logger),
		Bracket:   services.NewBracketService(tournamentRepo, seriesRepo, teamRepo, matchRepo, standingRepo, txManager, logger),
	}
}
