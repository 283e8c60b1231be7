package brackets

import "fmt"

// SemifinalSeeding is the fixed knockout shape fed by group standings:
// the two best teams meet in semifinal 1, the third seed waits in
// semifinal 2 for the semifinal-1 loser.
type SemifinalSeeding struct {
	Semifinal1Team1 int // rank 1
	Semifinal1Team2 int // rank 2
	Semifinal2Team1 int // rank 3, opponent backfilled later
}

// SeedSemifinals maps a ranked team list (best first) onto the
// semifinal shape. Teams beyond rank 3 do not advance.
func SeedSemifinals(rankedTeamIDs []int) (SemifinalSeeding, error) {
	if len(rankedTeamIDs) < 3 {
		return SemifinalSeeding{}, fmt.Errorf("semifinals require at least 3 ranked teams, got %d", len(rankedTeamIDs))
	}
	return SemifinalSeeding{
		Semifinal1Team1: rankedTeamIDs[0],
		Semifinal1Team2: rankedTeamIDs[1],
		Semifinal2Team1: rankedTeamIDs[2],
	}, nil
}

// SemifinalLoser picks the side of a decided semifinal that did not
// win.
func SemifinalLoser(team1ID, team2ID, winnerTeamID int) int {
	if winnerTeamID == team1ID {
		return team2ID
	}
	return team1ID
}
