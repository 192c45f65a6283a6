package models

import "time"

// Standing is the running statistics of one team within one series of a tournament.
type Standing struct {
	ID            int       `json:"id" db:"id"`
	TeamID        int       `json:"team_id" db:"team_id"`
	SeriesID      int       `json:"series_id" db:"series_id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	MatchesPlayed int       `json:"matches_played" db:"matches_played"`
	Wins          int       `json:"wins" db:"wins"`
	Losses        int       `json:"losses" db:"losses"`
	PointsFor     int       `json:"points_for" db:"points_for"`
	PointsAgainst int       `json:"points_against" db:"points_against"`
	Points        int       `json:"points" db:"points"`
	Position      *int      `json:"position,omitempty" db:"-"` // assigned by ranking, not stored
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

func (s *Standing) PointDifference() int {
	return s.PointsFor - s.PointsAgainst
}
