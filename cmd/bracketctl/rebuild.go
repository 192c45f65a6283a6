package main

import (
	"context"
	"os"

	"github.com/Dosada05/bracket-system/internal/report"
)

type rebuildCmd struct {
	Series int `arg:"" help:"Series ID."`
}

func (a *rebuildCmd) Run(g *globalCmd) error {
	ctx := context.Background()
	svc, dbConn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	table, err := svc.Standings.RebuildSeries(ctx, a.Series)
	if err != nil {
		return err
	}
	series, err := svc.Series.GetSeriesByID(ctx, a.Series)
	if err != nil {
		return err
	}
	report.Render(os.Stdout, []report.Table{{SeriesID: series.ID, SeriesName: series.Name, Rows: table.Standings}})
	return nil
}
