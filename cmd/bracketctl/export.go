package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Dosada05/bracket-system/internal/report"
)

type exportCmd struct {
	Tournament int    `arg:"" help:"Tournament ID."`
	Output     string `short:"o" help:"Workbook path." default:"standings.xlsx" type:"path"`
}

func (a *exportCmd) Run(g *globalCmd) error {
	ctx := context.Background()
	svc, dbConn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	tables, err := loadTables(ctx, svc, a.Tournament, nil)
	if err != nil {
		return err
	}
	xl, err := report.Workbook(tables)
	if err != nil {
		return fmt.Errorf("unable to build workbook: %w", err)
	}
	defer xl.Close()

	f, err := os.Create(a.Output)
	if err != nil {
		return err
	}
	if _, err := xl.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to write Excel file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d series to %s\n", len(tables), a.Output)
	return nil
}
