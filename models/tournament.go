package models

import "time"

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusUpcoming  TournamentStatus = "upcoming"
	TournamentStatusOngoing   TournamentStatus = "ongoing"
	TournamentStatusCompleted TournamentStatus = "completed"
)

// Tournament is a single round-robin event with a fixed knockout tail
// (two semifinals and a final). The semifinal slots are named fields,
// not a positional list: Semifinal1ID always refers to the rank-1 vs
// rank-2 pairing and Semifinal2ID to the rank-3 seed awaiting the
// semifinal-1 loser.
type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Status       TournamentStatus `json:"status" db:"status"`
	StartDate    time.Time        `json:"start_date" db:"start_date"`
	Semifinal1ID *int             `json:"semifinal1_id,omitempty" db:"semifinal1_id"`
	Semifinal2ID *int             `json:"semifinal2_id,omitempty" db:"semifinal2_id"`
	FinalID      *int             `json:"final_id,omitempty" db:"final_id"`
	WinnerTeamID *int             `json:"winner_team_id,omitempty" db:"winner_team_id"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`

	// Optional linked entities, populated by the service layer.
	Teams   []*Team  `json:"teams,omitempty" db:"-"`
	Matches []*Match `json:"matches,omitempty" db:"-"`
}

// IsSemifinal1 reports whether the given match occupies the semifinal-1
// slot. Callers must use this, never a matchType filter, to tell the
// two semifinals apart.
func (t *Tournament) IsSemifinal1(matchID int) bool {
	return t.Semifinal1ID != nil && *t.Semifinal1ID == matchID
}

func (t *Tournament) IsSemifinal2(matchID int) bool {
	return t.Semifinal2ID != nil && *t.Semifinal2ID == matchID
}

func (t *Tournament) IsFinal(matchID int) bool {
	return t.FinalID != nil && *t.FinalID == matchID
}
