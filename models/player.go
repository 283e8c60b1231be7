package models

import "time"

// Player is an opaque roster entry attached to a team for display
// purposes. Players carry no stats of their own.
type Player struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
