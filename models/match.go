package models

import (
	"sort"
	"time"
)

type MatchType string

const (
	MatchTypeGroup        MatchType = "group"
	MatchTypeQuarterfinal MatchType = "quarterfinal" // reserved, not generated
	MatchTypeSemifinal    MatchType = "semifinal"
	MatchTypeFinal        MatchType = "final"
)

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// SetsToWin is the fixed best-of-5 threshold. A match is decided once a
// side has won this many sets.
const SetsToWin = 3

// SetScore is one set of a match, owned by the match and unique per
// set number.
type SetScore struct {
	SetNumber  int `json:"set_number" db:"set_number"`
	Team1Score int `json:"team1_score" db:"team1_score"`
	Team2Score int `json:"team2_score" db:"team2_score"`
}

// Match is a fixture between two teams of the same tournament. Team2ID
// is nil only for the semifinal-2 placeholder awaiting the semifinal-1
// loser.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Team1ID      int         `json:"team1_id" db:"team1_id"`
	Team2ID      *int        `json:"team2_id,omitempty" db:"team2_id"`
	Type         MatchType   `json:"match_type" db:"match_type"`
	Status       MatchStatus `json:"status" db:"status"`
	WinnerTeamID *int        `json:"winner_team_id,omitempty" db:"winner_team_id"`
	MatchDate    time.Time   `json:"match_date" db:"match_date"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Sets []SetScore `json:"sets,omitempty" db:"-"`
}

// SetWins counts decided sets per side. A drawn set counts toward
// neither.
func (m *Match) SetWins() (team1Wins, team2Wins int) {
	for _, s := range m.Sets {
		switch {
		case s.Team1Score > s.Team2Score:
			team1Wins++
		case s.Team2Score > s.Team1Score:
			team2Wins++
		}
	}
	return team1Wins, team2Wins
}

// Decided reports whether the recorded sets settle the match, and if so
// which team won. Requires at least three recorded sets, one side at
// SetsToWin, and a strict set-win lead.
func (m *Match) Decided() (winnerTeamID int, ok bool) {
	if len(m.Sets) < SetsToWin || m.Team2ID == nil {
		return 0, false
	}
	t1, t2 := m.SetWins()
	if t1 < SetsToWin && t2 < SetsToWin {
		return 0, false
	}
	switch {
	case t1 > t2:
		return m.Team1ID, true
	case t2 > t1:
		return *m.Team2ID, true
	default:
		return 0, false
	}
}

// SortSets orders the set scores by set number ascending.
func (m *Match) SortSets() {
	sort.Slice(m.Sets, func(i, j int) bool {
		return m.Sets[i].SetNumber < m.Sets[j].SetNumber
	})
}

// LoserTeamID returns the side that did not win. Valid only for a
// completed match with both teams and a winner set.
func (m *Match) LoserTeamID() (int, bool) {
	if m.WinnerTeamID == nil || m.Team2ID == nil {
		return 0, false
	}
	if *m.WinnerTeamID == m.Team1ID {
		return *m.Team2ID, true
	}
	return m.Team1ID, true
}
