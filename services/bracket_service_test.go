package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nayan91296/TT-scrore-board-sub000/models"
)

// seedFourTeams creates a tournament whose accumulated stats already
// rank Alpha > Bravo > Charlie > Delta.
func seedFourTeams(t *testing.T, env *testEnv) (*models.Tournament, []*models.Team) {
	t.Helper()
	tournament := env.createTournament(t, "Club Championship")
	teams := []*models.Team{
		env.createTeam(t, tournament.ID, "Alpha"),
		env.createTeam(t, tournament.ID, "Bravo"),
		env.createTeam(t, tournament.ID, "Charlie"),
		env.createTeam(t, tournament.ID, "Delta"),
	}
	ctx := context.Background()
	require.NoError(t, env.teams.ApplyStatDelta(ctx, teams[0].ID, 3, 3, 0, 6))
	require.NoError(t, env.teams.ApplyStatDelta(ctx, teams[1].ID, 3, 2, 1, 4))
	require.NoError(t, env.teams.ApplyStatDelta(ctx, teams[2].ID, 3, 1, 2, 2))
	require.NoError(t, env.teams.ApplyStatDelta(ctx, teams[3].ID, 3, 0, 3, 0))
	return tournament, teams
}

func TestGenerateGroupMatches(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, "Club Championship")
	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta"} {
		env.createTeam(t, tournament.ID, name)
	}

	matches, err := env.bracket.GenerateGroupMatches(context.Background(), tournament.ID, false)
	require.NoError(t, err)

	// Four teams pair into six fixtures.
	require.Len(t, matches, 6)
	for _, match := range matches {
		assert.Equal(t, models.MatchTypeGroup, match.Type)
		assert.Equal(t, models.MatchStatusScheduled, match.Status)
		require.NotNil(t, match.Team2ID)
		assert.NotEqual(t, match.Team1ID, *match.Team2ID)
		assert.Equal(t, tournament.StartDate, match.MatchDate)
	}

	assert.Equal(t, models.TournamentStatusOngoing, env.getTournament(t, tournament.ID).Status)
}

func TestGenerateGroupMatchesRequiresTwoTeams(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, "Club Championship")
	env.createTeam(t, tournament.ID, "Alpha")

	_, err := env.bracket.GenerateGroupMatches(context.Background(), tournament.ID, false)
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}

func TestGenerateGroupMatchesConflictWithoutReplace(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, "Club Championship")
	env.createTeam(t, tournament.ID, "Alpha")
	env.createTeam(t, tournament.ID, "Bravo")

	_, err := env.bracket.GenerateGroupMatches(context.Background(), tournament.ID, false)
	require.NoError(t, err)

	_, err = env.bracket.GenerateGroupMatches(context.Background(), tournament.ID, false)
	assert.ErrorIs(t, err, ErrGroupMatchesExist)
}

func TestGenerateGroupMatchesReplaceResetsStats(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, "Club Championship")
	alpha := env.createTeam(t, tournament.ID, "Alpha")
	bravo := env.createTeam(t, tournament.ID, "Bravo")
	charlie := env.createTeam(t, tournament.ID, "Charlie")

	_, err := env.bracket.GenerateGroupMatches(context.Background(), tournament.ID, false)
	require.NoError(t, err)
	env.playMatch(t, env.findGroupMatch(t, tournament.ID, alpha.ID, bravo.ID), alpha.ID)
	require.Equal(t, 2, env.getTeam(t, alpha.ID).Points)

	matches, err := env.bracket.GenerateGroupMatches(context.Background(), tournament.ID, true)
	require.NoError(t, err)

	require.Len(t, matches, 3)
	for _, match := range matches {
		assert.Equal(t, models.MatchStatusScheduled, match.Status)
	}
	for _, teamID := range []int{alpha.ID, bravo.ID, charlie.ID} {
		team := env.getTeam(t, teamID)
		assert.Zero(t, team.MatchesPlayed)
		assert.Zero(t, team.MatchesWon)
		assert.Zero(t, team.MatchesLost)
		assert.Zero(t, team.Points)
	}
}

func TestGenerateGroupMatchesOnCompletedTournament(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, "Club Championship")
	env.createTeam(t, tournament.ID, "Alpha")
	env.createTeam(t, tournament.ID, "Bravo")
	require.NoError(t, env.tournaments.UpdateStatus(context.Background(), tournament.ID, models.TournamentStatusCompleted))

	_, err := env.bracket.GenerateGroupMatches(context.Background(), tournament.ID, false)
	assert.ErrorIs(t, err, ErrTournamentCompleted)
}

func TestGenerateSemifinalsSeeding(t *testing.T) {
	env := newTestEnv(t)
	tournament, teams := seedFourTeams(t, env)

	semifinals, err := env.bracket.GenerateSemifinals(context.Background(), tournament.ID)
	require.NoError(t, err)
	require.Len(t, semifinals, 2)

	semifinal1, semifinal2 := semifinals[0], semifinals[1]
	assert.Equal(t, models.MatchTypeSemifinal, semifinal1.Type)
	assert.Equal(t, teams[0].ID, semifinal1.Team1ID)
	require.NotNil(t, semifinal1.Team2ID)
	assert.Equal(t, teams[1].ID, *semifinal1.Team2ID)

	assert.Equal(t, models.MatchTypeSemifinal, semifinal2.Type)
	assert.Equal(t, teams[2].ID, semifinal2.Team1ID)
	assert.Nil(t, semifinal2.Team2ID, "semifinal 2 waits for the semifinal-1 loser")

	stored := env.getTournament(t, tournament.ID)
	require.NotNil(t, stored.Semifinal1ID)
	require.NotNil(t, stored.Semifinal2ID)
	assert.Equal(t, semifinal1.ID, *stored.Semifinal1ID)
	assert.Equal(t, semifinal2.ID, *stored.Semifinal2ID)
}

func TestGenerateSemifinalsRequiresThreeTeams(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createTournament(t, "Club Championship")
	env.createTeam(t, tournament.ID, "Alpha")
	env.createTeam(t, tournament.ID, "Bravo")

	_, err := env.bracket.GenerateSemifinals(context.Background(), tournament.ID)
	assert.ErrorIs(t, err, ErrNotEnoughTeamsForKnockout)
}

func TestGenerateSemifinalsRegenerates(t *testing.T) {
	env := newTestEnv(t)
	tournament, _ := seedFourTeams(t, env)

	first, err := env.bracket.GenerateSemifinals(context.Background(), tournament.ID)
	require.NoError(t, err)
	second, err := env.bracket.GenerateSemifinals(context.Background(), tournament.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first[0].ID, second[0].ID)
	semifinalType := models.MatchTypeSemifinal
	remaining, err := env.matches.ListByTournament(context.Background(), tournament.ID, &semifinalType, nil)
	require.NoError(t, err)
	assert.Len(t, remaining, 2, "old semifinals must be dropped on regeneration")
}

func TestBackfillSemifinal2(t *testing.T) {
	env := newTestEnv(t)
	tournament, teams := seedFourTeams(t, env)
	ctx := context.Background()

	// No semifinals yet: quiet no-op.
	match, err := env.bracket.BackfillSemifinal2(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Nil(t, match)

	semifinals, err := env.bracket.GenerateSemifinals(ctx, tournament.ID)
	require.NoError(t, err)

	// Semifinal 1 still open: quiet no-op.
	match, err = env.bracket.BackfillSemifinal2(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Nil(t, match)

	// Alpha wins semifinal 1; Bravo drops into the open slot. The
	// scoring path triggers the backfill on its own.
	env.playMatch(t, semifinals[0], teams[0].ID)

	semifinal2 := env.getMatch(t, semifinals[1].ID)
	require.NotNil(t, semifinal2.Team2ID)
	assert.Equal(t, teams[1].ID, *semifinal2.Team2ID)

	// A repeated call returns the filled match untouched.
	match, err = env.bracket.BackfillSemifinal2(ctx, tournament.ID)
	require.NoError(t, err)
	require.NotNil(t, match)
	require.NotNil(t, match.Team2ID)
	assert.Equal(t, teams[1].ID, *match.Team2ID)
}

func TestGenerateFinal(t *testing.T) {
	env := newTestEnv(t)
	tournament, teams := seedFourTeams(t, env)
	ctx := context.Background()

	_, err := env.bracket.GenerateFinal(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrSemifinalsNotCompleted)

	semifinals, err := env.bracket.GenerateSemifinals(ctx, tournament.ID)
	require.NoError(t, err)

	_, err = env.bracket.GenerateFinal(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrSemifinalsNotCompleted)

	env.playMatch(t, semifinals[0], teams[0].ID)
	env.playMatch(t, env.getMatch(t, semifinals[1].ID), teams[2].ID)

	// The semifinal-2 completion already cascaded into the final.
	stored := env.getTournament(t, tournament.ID)
	require.NotNil(t, stored.FinalID)
	final := env.getMatch(t, *stored.FinalID)
	assert.Equal(t, models.MatchTypeFinal, final.Type)
	assert.Equal(t, teams[0].ID, final.Team1ID)
	require.NotNil(t, final.Team2ID)
	assert.Equal(t, teams[2].ID, *final.Team2ID)

	_, err = env.bracket.GenerateFinal(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrFinalExists)
}
