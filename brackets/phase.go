package brackets

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/Dosada05/bracket-system/models"
)

var eliminationNamePattern = regexp.MustCompile(`(?i)final|semifinal|cuartos|elimin|ronda`)

// IsElimination reports whether a series name belongs to the elimination stage.
func IsElimination(name string) bool {
	return eliminationNamePattern.MatchString(name)
}

type Phases struct {
	Group       []*models.Series
	Elimination []*models.Series
}

// ClassifySeries splits series by stage, keeping the input order inside each part.
func ClassifySeries(series []*models.Series) Phases {
	var p Phases
	for _, s := range series {
		if IsElimination(s.Name) {
			p.Elimination = append(p.Elimination, s)
		} else {
			p.Group = append(p.Group, s)
		}
	}
	return p
}

// Current is the most recently created elimination series, or nil while the
// tournament is still in the group stage.
func (p Phases) Current() *models.Series {
	if len(p.Elimination) == 0 {
		return nil
	}
	elim := make([]*models.Series, len(p.Elimination))
	copy(elim, p.Elimination)
	sort.SliceStable(elim, func(i, j int) bool {
		if !elim[i].CreatedAt.Equal(elim[j].CreatedAt) {
			return elim[i].CreatedAt.After(elim[j].CreatedAt)
		}
		return elim[i].ID > elim[j].ID
	})
	return elim[0]
}

// NextRoundName names an elimination round by the number of teams entering it.
func NextRoundName(qualifiers int) string {
	switch qualifiers {
	case 8:
		return "Cuartos de final"
	case 4:
		return "Semifinales"
	case 2:
		return "Final"
	}
	return fmt.Sprintf("Ronda %d", qualifiers)
}

// FirstEliminationRoundName names the round built from group winners.
func FirstEliminationRoundName(qualifiers int) string {
	if qualifiers == 2 {
		return "Final"
	}
	return "Finales"
}
