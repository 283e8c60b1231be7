package models

// Standing is one computed row of a tournament table. It is derived,
// never persisted.
type Standing struct {
	Rank          int     `json:"rank"`
	TeamID        int     `json:"team_id"`
	TeamName      string  `json:"team_name"`
	Points        int     `json:"points"`
	MatchesPlayed int     `json:"matches_played"`
	MatchesWon    int     `json:"matches_won"`
	MatchesLost   int     `json:"matches_lost"`
	NetRate       float64 `json:"net_rate"`

	// Tied marks a row whose order against its neighbour was settled
	// only by the alphabetical fallback.
	Tied bool `json:"tied,omitempty"`

	Team *Team `json:"-"`
}
