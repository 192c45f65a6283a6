// Package report renders ranked standings for the operator CLI.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/bracket-system/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/xuri/excelize/v2"
)

// Table is one ranked series table.
type Table struct {
	SeriesID   int
	SeriesName string
	Rows       []*models.Standing
}

var header = []interface{}{"Pos", "Team", "MP", "W", "L", "PF", "PA", "Diff", "Pts"}

func row(s *models.Standing) []interface{} {
	pos := ""
	if s.Position != nil {
		pos = fmt.Sprint(*s.Position)
	}
	name := fmt.Sprintf("team #%d", s.TeamID)
	if s.Team != nil {
		name = s.Team.Name
	}
	return []interface{}{pos, name, s.MatchesPlayed, s.Wins, s.Losses, s.PointsFor, s.PointsAgainst, s.PointDifference(), s.Points}
}

// Render writes one box table per series.
func Render(w io.Writer, tables []Table) {
	for i, tb := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle(tb.SeriesName)
		t.AppendHeader(table.Row(header))
		for _, s := range tb.Rows {
			t.AppendRow(table.Row(row(s)))
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight},
		})
		t.SetStyle(table.StyleLight)
		t.Render()
	}
}

// Workbook builds an in-memory xlsx with one sheet per series.
func Workbook(tables []Table) (*excelize.File, error) {
	xl := excelize.NewFile()
	first := xl.GetSheetName(xl.GetActiveSheetIndex())
	if len(tables) == 0 {
		if err := xl.SetSheetName(first, "Standings"); err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow("Standings", "A1", &header); err != nil {
			return nil, err
		}
		return xl, nil
	}

	used := make(map[string]bool, len(tables))
	for i, tb := range tables {
		name := uniqueSheetName(tb, used)
		if i == 0 {
			if err := xl.SetSheetName(first, name); err != nil {
				return nil, err
			}
		} else if _, err := xl.NewSheet(name); err != nil {
			return nil, err
		}

		if err := xl.SetSheetRow(name, "A1", &header); err != nil {
			return nil, err
		}
		for r, s := range tb.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			values := row(s)
			if err := xl.SetSheetRow(name, cell, &values); err != nil {
				return nil, fmt.Errorf("failed writing row %d of %q: %w", r+1, name, err)
			}
		}
	}
	return xl, nil
}

// Excel limits sheet names to 31 characters and forbids a few symbols.
func uniqueSheetName(tb Table, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(tb.SeriesName))
	if base == "" {
		base = fmt.Sprintf("Series %d", tb.SeriesID)
	}
	base = truncate(base, 31)

	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, 31-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
