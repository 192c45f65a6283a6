package main

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracket-system/services"
)

type advanceCmd struct {
	Tournament int `arg:"" help:"Tournament ID."`
	Category   int `help:"Only advance this category (0 for all)."`
}

func (a *advanceCmd) Run(g *globalCmd) error {
	ctx := context.Background()
	svc, dbConn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	result, err := svc.Bracket.AdvanceRound(ctx, services.AdvanceScope{TournamentID: a.Tournament, CategoryID: optionalID(a.Category)})
	if err != nil {
		return err
	}

	if result.ChampionFound {
		fmt.Printf("Champion: %s (team #%d)\n", result.Champion.Name, result.Champion.ID)
		return nil
	}
	fmt.Printf("Created %q with %d teams and %d matches\n", result.Series.Name, result.TeamsAdvanced, len(result.MatchIDs))
	if len(result.AutoQualified) > 0 {
		fmt.Printf("Byes: %v\n", result.AutoQualified)
	}
	return nil
}
