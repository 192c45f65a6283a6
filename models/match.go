package models

import "time"

type MatchResult struct {
	PointsA int `json:"points_a"`
	PointsB int `json:"points_b"`
}

type Match struct {
	ID           int          `json:"id" db:"id"`
	TeamAID      int          `json:"team_a_id" db:"team_a_id"`
	TeamBID      int          `json:"team_b_id" db:"team_b_id"`
	SeriesID     int          `json:"series_id" db:"series_id"`
	TournamentID int          `json:"tournament_id" db:"tournament_id"`
	StartTime    *time.Time   `json:"start_time,omitempty" db:"start_time"`
	EndTime      *time.Time   `json:"end_time,omitempty" db:"end_time"`
	Result       *MatchResult `json:"result,omitempty" db:"-"` // points_a / points_b
	WinnerID     *int         `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// Decided reports whether a result has been recorded for the match.
func (m *Match) Decided() bool {
	return m.Result != nil && m.WinnerID != nil
}

// Involves reports whether teamID is one of the two sides.
func (m *Match) Involves(teamID int) bool {
	return m.TeamAID == teamID || m.TeamBID == teamID
}
