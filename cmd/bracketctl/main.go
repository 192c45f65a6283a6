package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/bracket-system/app"
	"github.com/Dosada05/bracket-system/config"
	"github.com/Dosada05/bracket-system/db"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type globalCmd struct {
	DatabaseURL string `help:"Postgres connection string." env:"DATABASE_URL" required:""`
	Verbose     bool   `help:"Log service activity to stderr." short:"v"`

	R2AccountID       string `help:"Cloudflare R2 account." env:"R2_ACCOUNT_ID" hidden:""`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID" hidden:""`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY" hidden:""`
	R2BucketName      string `env:"R2_BUCKET_NAME" hidden:""`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL" hidden:""`
}

var CLI struct {
	globalCmd

	Advance   advanceCmd   `cmd:"" help:"Advance a tournament to its next phase."`
	Standings standingsCmd `cmd:"" help:"Print ranked standings."`
	Export    exportCmd    `cmd:"" help:"Export ranked standings to an Excel workbook."`
	Rebuild   rebuildCmd   `cmd:"" help:"Recompute the standings of a series from its matches."`
	Finalize  finalizeCmd  `cmd:"" help:"Close a tournament."`
}

func (g *globalCmd) logger() *slog.Logger {
	level := slog.LevelWarn
	if g.Verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// open connects to the database and wires the services; close the returned handle when done.
func (g *globalCmd) open(ctx context.Context) (*app.Services, *sql.DB, error) {
	logger := g.logger()
	dbConn, err := db.Connect(g.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, nil, err
	}
	uploader, err := app.NewUploader(ctx, &config.Config{
		R2AccountID:       g.R2AccountID,
		R2AccessKeyID:     g.R2AccessKeyID,
		R2SecretAccessKey: g.R2SecretAccessKey,
		R2BucketName:      g.R2BucketName,
		R2PublicBaseURL:   g.R2PublicBaseURL,
	})
	if err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	return app.NewServices(dbConn, uploader, logger), dbConn, nil
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("bracketctl"),
		kong.Description("Operator tool for tournament brackets."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&CLI.globalCmd)
	ctx.FatalIfErrorf(err)
}
