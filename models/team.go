package models

import "time"

type Team struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Players      []string  `json:"players" db:"players"`
	CategoryID   int       `json:"category_id" db:"category_id"`
	SeriesID     int       `json:"series_id" db:"series_id"` // текущая серия, меняется при выходе в следующий раунд
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
