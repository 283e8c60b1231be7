package models

import "time"

// Team belongs to exactly one tournament. The four accumulators are
// mutated only by the progression service as a side effect of group
// match completion or deletion, never for semifinal or final matches.
type Team struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	Name          string    `json:"name" db:"name"`
	MatchesPlayed int       `json:"matches_played" db:"matches_played"`
	MatchesWon    int       `json:"matches_won" db:"matches_won"`
	MatchesLost   int       `json:"matches_lost" db:"matches_lost"`
	Points        int       `json:"points" db:"points"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Players []*Player `json:"players,omitempty" db:"-"`
}

// WinRate is matchesWon over matchesPlayed, with a floor of one game to
// avoid dividing by zero.
func (t *Team) WinRate() float64 {
	played := t.MatchesPlayed
	if played < 1 {
		played = 1
	}
	return float64(t.MatchesWon) / float64(played)
}
