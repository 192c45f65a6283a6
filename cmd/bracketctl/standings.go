package main

import (
	"context"
	"os"

	"github.com/Dosada05/bracket-system/app"
	"github.com/Dosada05/bracket-system/internal/report"
)

type standingsCmd struct {
	Tournament int `arg:"" help:"Tournament ID."`
	Series     int `help:"Only this series."`
}

func (a *standingsCmd) Run(g *globalCmd) error {
	ctx := context.Background()
	svc, dbConn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	tables, err := loadTables(ctx, svc, a.Tournament, optionalID(a.Series))
	if err != nil {
		return err
	}
	report.Render(os.Stdout, tables)
	return nil
}

func loadTables(ctx context.Context, svc *app.Services, tournamentID int, seriesID *int) ([]report.Table, error) {
	ranked, err := svc.Standings.ListStandings(ctx, tournamentID, seriesID)
	if err != nil {
		return nil, err
	}
	series, err := svc.Series.ListSeries(ctx, &tournamentID)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(series))
	for _, s := range series {
		names[s.ID] = s.Name
	}

	tables := make([]report.Table, len(ranked))
	for i, r := range ranked {
		tables[i] = report.Table{SeriesID: r.SeriesID, SeriesName: names[r.SeriesID], Rows: r.Standings}
	}
	return tables, nil
}

func optionalID(id int) *int {
	if id <= 0 {
		return nil
	}
	return &id
}
