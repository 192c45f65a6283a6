package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusOpen   TournamentStatus = "open"
	StatusClosed TournamentStatus = "closed"
)

// Tournament представляет турнир. Закрытый турнир больше не изменяется.
type Tournament struct {
	ID             int              `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	CategoryID     int              `json:"category_id" db:"category_id"`
	Status         TournamentStatus `json:"status" db:"status"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	FinishedAt     *time.Time       `json:"finished_at,omitempty" db:"finished_at"`
	OwnerID        *int             `json:"owner_id,omitempty" db:"owner_id"`
	ChampionTeamID *int             `json:"champion_team_id,omitempty" db:"champion_team_id"`

	// Membership is derived from the tournament_id foreign keys, populated by the service.
	SeriesIDs []int `json:"series,omitempty" db:"-"`
	TeamIDs   []int `json:"teams,omitempty" db:"-"`
	MatchIDs  []int `json:"matches,omitempty" db:"-"`

	Category *Category `json:"category,omitempty" db:"-"`
}

func (t *Tournament) IsClosed() bool {
	return t.Status == StatusClosed
}
