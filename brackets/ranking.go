package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-system/models"
)

// CompareStandings orders rows best first: wins, then points, then point
// difference, then points scored. The lower team id wins any remaining tie,
// so the order is total.
func CompareStandings(a, b *models.Standing) int {
	switch {
	case a.Wins != b.Wins:
		return b.Wins - a.Wins
	case a.Points != b.Points:
		return b.Points - a.Points
	case a.PointDifference() != b.PointDifference():
		return b.PointDifference() - a.PointDifference()
	case a.PointsFor != b.PointsFor:
		return b.PointsFor - a.PointsFor
	}
	return a.TeamID - b.TeamID
}

// RankStandings sorts rows in place and assigns 1-based positions.
func RankStandings(rows []*models.Standing) []*models.Standing {
	sort.SliceStable(rows, func(i, j int) bool {
		return CompareStandings(rows[i], rows[j]) < 0
	})
	for i, s := range rows {
		pos := i + 1
		s.Position = &pos
	}
	return rows
}

// TopTeam returns the first-ranked team of rows, or false for an empty slice.
func TopTeam(rows []*models.Standing) (int, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	ranked := make([]*models.Standing, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return CompareStandings(ranked[i], ranked[j]) < 0
	})
	return ranked[0].TeamID, true
}
