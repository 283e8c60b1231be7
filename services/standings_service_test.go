package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nayan91296/TT-scrore-board-sub000/models"
)

func team(id int, name string, played, won, lost, points int) *models.Team {
	return &models.Team{
		ID:            id,
		Name:          name,
		MatchesPlayed: played,
		MatchesWon:    won,
		MatchesLost:   lost,
		Points:        points,
	}
}

func completedGroupMatch(team1ID, team2ID, winnerID int, sets ...models.SetScore) *models.Match {
	t2, w := team2ID, winnerID
	return &models.Match{
		Team1ID:      team1ID,
		Team2ID:      &t2,
		Type:         models.MatchTypeGroup,
		Status:       models.MatchStatusCompleted,
		WinnerTeamID: &w,
		Sets:         sets,
	}
}

func rankedNames(standings []*models.Standing) []string {
	names := make([]string, len(standings))
	for i, row := range standings {
		names[i] = row.TeamName
	}
	return names
}

func TestNetRate(t *testing.T) {
	matches := []*models.Match{
		completedGroupMatch(1, 2, 1,
			models.SetScore{SetNumber: 1, Team1Score: 11, Team2Score: 5},
			models.SetScore{SetNumber: 2, Team1Score: 7, Team2Score: 11},
			models.SetScore{SetNumber: 3, Team1Score: 11, Team2Score: 9},
		),
	}

	// Team 1: scored 29, conceded 25 over 3 sets.
	assert.InDelta(t, 4.0/3.0, NetRate(1, matches), 1e-9)
	assert.InDelta(t, -4.0/3.0, NetRate(2, matches), 1e-9)
	assert.Zero(t, NetRate(3, matches))
}

func TestNetRateIgnoresUnfinishedAndSetlessMatches(t *testing.T) {
	t2 := 2
	matches := []*models.Match{
		{
			Team1ID: 1, Team2ID: &t2,
			Type:   models.MatchTypeGroup,
			Status: models.MatchStatusInProgress,
			Sets:   []models.SetScore{{SetNumber: 1, Team1Score: 11, Team2Score: 0}},
		},
		completedGroupMatch(1, 2, 1), // no sets recorded
	}

	assert.Zero(t, NetRate(1, matches))
	assert.Zero(t, NetRate(2, matches))
}

func TestRankTeamsByPoints(t *testing.T) {
	teams := []*models.Team{
		team(1, "Delta", 3, 1, 2, 2),
		team(2, "Alpha", 3, 3, 0, 6),
		team(3, "Charlie", 3, 2, 1, 4),
	}

	standings := RankTeams(teams, nil)

	assert.Equal(t, []string{"Alpha", "Charlie", "Delta"}, rankedNames(standings))
	for i, row := range standings {
		assert.Equal(t, i+1, row.Rank)
		assert.False(t, row.Tied)
	}
}

func TestRankTeamsNetRateBreaksPointsTie(t *testing.T) {
	teams := []*models.Team{
		team(1, "Alpha", 1, 1, 0, 2),
		team(2, "Bravo", 1, 1, 0, 2),
	}
	// Alpha nets +1.0 per set, Bravo +2.0 per set.
	matches := []*models.Match{
		completedGroupMatch(1, 3, 1, models.SetScore{SetNumber: 1, Team1Score: 11, Team2Score: 10}),
		completedGroupMatch(2, 4, 2, models.SetScore{SetNumber: 1, Team1Score: 12, Team2Score: 10}),
	}

	standings := RankTeams(teams, matches)

	assert.Equal(t, []string{"Bravo", "Alpha"}, rankedNames(standings))
	assert.False(t, standings[0].Tied)
}

func TestRankTeamsNetRateWithinEpsilonFallsThrough(t *testing.T) {
	// Equal points, both net-rates zero, so matches won decides.
	teams := []*models.Team{
		team(1, "Alpha", 4, 2, 2, 4),
		team(2, "Bravo", 3, 2, 1, 4),
		team(3, "Charlie", 3, 3, 0, 4),
	}

	standings := RankTeams(teams, nil)

	// Charlie leads on matches won; Bravo beats Alpha on win rate.
	assert.Equal(t, []string{"Charlie", "Bravo", "Alpha"}, rankedNames(standings))
}

func TestRankTeamsMatchesLostBreaksWinRateTie(t *testing.T) {
	// Identical points, net-rate, wins and win rate; fewer losses ranks
	// higher.
	teams := []*models.Team{
		team(1, "Alpha", 0, 0, 2, 0),
		team(2, "Bravo", 0, 0, 1, 0),
	}

	standings := RankTeams(teams, nil)

	assert.Equal(t, []string{"Bravo", "Alpha"}, rankedNames(standings))
}

func TestRankTeamsHeadToHead(t *testing.T) {
	teams := []*models.Team{
		team(1, "Alpha", 3, 2, 1, 4),
		team(2, "Bravo", 3, 2, 1, 4),
	}
	// Drawn set scores keep both net-rates at zero so only the recorded
	// winner separates the pair.
	matches := []*models.Match{
		completedGroupMatch(1, 2, 2,
			models.SetScore{SetNumber: 1, Team1Score: 10, Team2Score: 10},
			models.SetScore{SetNumber: 2, Team1Score: 10, Team2Score: 10},
		),
	}

	standings := RankTeams(teams, matches)

	assert.Equal(t, []string{"Bravo", "Alpha"}, rankedNames(standings))
	assert.False(t, standings[0].Tied, "head-to-head is a real separation, not an alphabetical one")
}

func TestRankTeamsAlphabeticalFallbackFlagsTie(t *testing.T) {
	teams := []*models.Team{
		team(2, "Bravo", 3, 2, 1, 4),
		team(1, "Alpha", 3, 2, 1, 4),
		team(3, "Charlie", 3, 0, 3, 0),
	}

	standings := RankTeams(teams, nil)

	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, rankedNames(standings))
	assert.True(t, standings[0].Tied)
	assert.True(t, standings[1].Tied)
	assert.False(t, standings[2].Tied)
}

func TestRankTeamsDeterministicUnderPermutation(t *testing.T) {
	build := func() []*models.Team {
		return []*models.Team{
			team(1, "Alpha", 3, 2, 1, 4),
			team(2, "Bravo", 3, 2, 1, 4),
			team(3, "Charlie", 3, 3, 0, 6),
			team(4, "Delta", 3, 0, 3, 0),
		}
	}

	forward := RankTeams(build(), nil)

	reversed := build()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	backward := RankTeams(reversed, nil)

	assert.Equal(t, rankedNames(forward), rankedNames(backward))
}

func TestStandingsServiceRank(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, "Spring Open")
	alpha := env.createTeam(t, tournament.ID, "Alpha")
	bravo := env.createTeam(t, tournament.ID, "Bravo")

	_, err := env.bracket.GenerateGroupMatches(context.Background(), tournament.ID, false)
	require.NoError(t, err)
	env.playMatch(t, env.findGroupMatch(t, tournament.ID, alpha.ID, bravo.ID), alpha.ID)

	standings, err := env.standings.Rank(context.Background(), tournament.ID)
	require.NoError(t, err)

	require.Len(t, standings, 2)
	assert.Equal(t, alpha.ID, standings[0].TeamID)
	assert.Equal(t, 2, standings[0].Points)
	assert.Equal(t, 1, standings[0].MatchesWon)
	assert.Equal(t, bravo.ID, standings[1].TeamID)
	assert.Equal(t, 1, standings[1].MatchesLost)
	assert.Greater(t, standings[0].NetRate, standings[1].NetRate)
}

func TestStandingsServiceRankUnknownTournament(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.standings.Rank(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
