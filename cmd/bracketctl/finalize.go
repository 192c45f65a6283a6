package main

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

type finalizeCmd struct {
	Tournament int  `arg:"" help:"Tournament ID."`
	Yes        bool `short:"y" help:"Do not ask for confirmation."`
}

func (a *finalizeCmd) Run(g *globalCmd) error {
	ctx := context.Background()
	svc, dbConn, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	tournament, err := svc.Tournament.GetTournamentByID(ctx, a.Tournament)
	if err != nil {
		return err
	}

	if !a.Yes {
		confirmed := false
		q := &survey.Confirm{
			Message: fmt.Sprintf("Close %q (%d series, %d matches)? This cannot be undone.",
				tournament.Name, len(tournament.SeriesIDs), len(tournament.MatchIDs)),
		}
		if err := survey.AskOne(q, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	closed, err := svc.Tournament.FinalizeTournament(ctx, a.Tournament)
	if err != nil {
		return err
	}
	fmt.Printf("Tournament %q closed at %s\n", closed.Name, closed.FinishedAt.Format("2006-01-02 15:04"))
	return nil
}
