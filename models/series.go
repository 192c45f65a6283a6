package models

import "time"

// Series is a group or an elimination round of a tournament.
// AutoQualified holds the teams that entered it on a bye.
type Series struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	CategoryID    int       `json:"category_id" db:"category_id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	AutoQualified []int     `json:"auto_qualified" db:"auto_qualified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
