package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nayan91296/TT-scrore-board-sub000/brackets"
	"github.com/nayan91296/TT-scrore-board-sub000/models"
)

// testEnv wires the full service graph over the in-memory store, so
// service tests exercise the same cascade paths as production.
type testEnv struct {
	store       *memStore
	tournaments *memTournamentRepo
	teams       *memTeamRepo
	matches     *memMatchRepo

	bracket     BracketService
	progression ProgressionService
	scoring     ScoringService
	standings   StandingsService
	matchSvc    MatchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	tournaments := &memTournamentRepo{s: store}
	teams := &memTeamRepo{s: store}
	matches := &memMatchRepo{s: store}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := brackets.NewHub()
	// Seeded generator keeps fixture order reproducible across runs.
	roundRobin := brackets.NewSeededRoundRobinGenerator(42)

	bracket := NewBracketService(tournaments, teams, matches, roundRobin, hub, logger)
	progression := NewProgressionService(tournaments, teams, matches, bracket, hub, logger)

	return &testEnv{
		store:       store,
		tournaments: tournaments,
		teams:       teams,
		matches:     matches,
		bracket:     bracket,
		progression: progression,
		scoring:     NewScoringService(matches, progression, hub, logger),
		standings:   NewStandingsService(tournaments, teams, matches, logger),
		matchSvc:    NewMatchService(matches, teams, tournaments, progression, hub, logger),
	}
}

func (env *testEnv) createTournament(t *testing.T, name string) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		Name:      name,
		Status:    models.TournamentStatusUpcoming,
		StartDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, env.tournaments.Create(context.Background(), tournament))
	return tournament
}

func (env *testEnv) createTeam(t *testing.T, tournamentID int, name string) *models.Team {
	t.Helper()
	team := &models.Team{TournamentID: tournamentID, Name: name}
	require.NoError(t, env.teams.Create(context.Background(), team))
	return team
}

// playMatch records three straight sets so that the given winner takes
// the match through the regular scoring path, cascade included.
func (env *testEnv) playMatch(t *testing.T, match *models.Match, winnerTeamID int) *models.Match {
	t.Helper()
	winnerIsTeam1 := match.Team1ID == winnerTeamID

	var result *models.Match
	for setNumber := 1; setNumber <= models.SetsToWin; setNumber++ {
		team1Score, team2Score := 11, 5
		if !winnerIsTeam1 {
			team1Score, team2Score = 5, 11
		}
		var err error
		result, err = env.scoring.RecordSet(context.Background(), match.ID, setNumber, team1Score, team2Score)
		require.NoError(t, err)
	}
	require.Equal(t, models.MatchStatusCompleted, result.Status)
	require.NotNil(t, result.WinnerTeamID)
	require.Equal(t, winnerTeamID, *result.WinnerTeamID)
	return result
}

func (env *testEnv) getTeam(t *testing.T, id int) *models.Team {
	t.Helper()
	team, err := env.teams.GetByID(context.Background(), id)
	require.NoError(t, err)
	return team
}

func (env *testEnv) getTournament(t *testing.T, id int) *models.Tournament {
	t.Helper()
	tournament, err := env.tournaments.GetByID(context.Background(), id)
	require.NoError(t, err)
	return tournament
}

func (env *testEnv) getMatch(t *testing.T, id int) *models.Match {
	t.Helper()
	match, err := env.matches.GetByID(context.Background(), id)
	require.NoError(t, err)
	return match
}

// findGroupMatch returns the group fixture between the two teams, in
// either orientation.
func (env *testEnv) findGroupMatch(t *testing.T, tournamentID, teamA, teamB int) *models.Match {
	t.Helper()
	groupType := models.MatchTypeGroup
	fixtures, err := env.matches.ListByTournament(context.Background(), tournamentID, &groupType, nil)
	require.NoError(t, err)
	for _, m := range fixtures {
		if m.Team2ID == nil {
			continue
		}
		if (m.Team1ID == teamA && *m.Team2ID == teamB) || (m.Team1ID == teamB && *m.Team2ID == teamA) {
			return m
		}
	}
	t.Fatalf("no group fixture between teams %d and %d", teamA, teamB)
	return nil
}
