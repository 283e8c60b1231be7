package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/nayan91296/TT-scrore-board-sub000/models"
	"github.com/nayan91296/TT-scrore-board-sub000/repositories"
	"golang.org/x/sync/errgroup"
)

// netRateEpsilon is the tolerance below which two net-rates compare
// equal, so floating-point noise never decides a ranking.
const netRateEpsilon = 0.001

type StandingsService interface {
	Rank(ctx context.Context, tournamentID int) ([]*models.Standing, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *standingsService) Rank(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	var (
		teams        []*models.Team
		groupMatches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		groupType := models.MatchTypeGroup
		var err error
		groupMatches, err = s.matchRepo.ListByTournament(gCtx, tournamentID, &groupType, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings data for tournament %d: %w", tournamentID, err)
	}

	standings := RankTeams(teams, groupMatches)
	for _, row := range standings {
		if row.Tied {
			s.logger.Warn("standings order settled alphabetically",
				slog.Int("tournament_id", tournamentID),
				slog.Int("team_id", row.TeamID),
				slog.Int("rank", row.Rank))
		}
	}
	return standings, nil
}

// RankTeams orders teams with the tie-break cascade: points, net-rate
// (within epsilon), matches won, win rate, matches lost ascending,
// head-to-head wins, team name. The alphabetical step always yields a
// total order; rows that needed it are flagged as tied.
func RankTeams(teams []*models.Team, groupMatches []*models.Match) []*models.Standing {
	netRates := make(map[int]float64, len(teams))
	for _, team := range teams {
		netRates[team.ID] = NetRate(team.ID, groupMatches)
	}

	ranked := make([]*models.Team, len(teams))
	copy(ranked, teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		return compareTeams(ranked[i], ranked[j], netRates, groupMatches) < 0
	})

	standings := make([]*models.Standing, len(ranked))
	for i, team := range ranked {
		standings[i] = &models.Standing{
			Rank:          i + 1,
			TeamID:        team.ID,
			TeamName:      team.Name,
			Points:        team.Points,
			MatchesPlayed: team.MatchesPlayed,
			MatchesWon:    team.MatchesWon,
			MatchesLost:   team.MatchesLost,
			NetRate:       netRates[team.ID],
			Team:          team,
		}
	}
	for i := 1; i < len(ranked); i++ {
		if trulyTied(ranked[i-1], ranked[i], netRates, groupMatches) {
			standings[i-1].Tied = true
			standings[i].Tied = true
		}
	}
	return standings
}

// NetRate is the team's average point differential per set across
// completed group matches with at least one recorded set. A team with
// no recorded sets rates zero.
func NetRate(teamID int, groupMatches []*models.Match) float64 {
	scored, conceded, setsPlayed := 0, 0, 0
	for _, match := range groupMatches {
		if match.Type != models.MatchTypeGroup || match.Status != models.MatchStatusCompleted || len(match.Sets) == 0 {
			continue
		}
		if match.Team2ID == nil {
			continue
		}
		switch teamID {
		case match.Team1ID:
			for _, set := range match.Sets {
				scored += set.Team1Score
				conceded += set.Team2Score
			}
		case *match.Team2ID:
			for _, set := range match.Sets {
				scored += set.Team2Score
				conceded += set.Team1Score
			}
		default:
			continue
		}
		setsPlayed += len(match.Sets)
	}
	if setsPlayed == 0 {
		return 0
	}
	return float64(scored-conceded) / float64(setsPlayed)
}

// compareTeams returns a negative value when a ranks above b. The
// final name comparison makes the order total whenever names differ.
func compareTeams(a, b *models.Team, netRates map[int]float64, groupMatches []*models.Match) int {
	if c := compareNumericCascade(a, b, netRates); c != 0 {
		return c
	}
	if c := compareHeadToHead(a, b, groupMatches); c != 0 {
		return c
	}
	switch {
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	default:
		return 0
	}
}

func compareNumericCascade(a, b *models.Team, netRates map[int]float64) int {
	if a.Points != b.Points {
		return b.Points - a.Points
	}
	if diff := netRates[a.ID] - netRates[b.ID]; math.Abs(diff) >= netRateEpsilon {
		if diff > 0 {
			return -1
		}
		return 1
	}
	if a.MatchesWon != b.MatchesWon {
		return b.MatchesWon - a.MatchesWon
	}
	if aRate, bRate := a.WinRate(), b.WinRate(); aRate != bRate {
		if aRate > bRate {
			return -1
		}
		return 1
	}
	if a.MatchesLost != b.MatchesLost {
		return a.MatchesLost - b.MatchesLost
	}
	return 0
}

// compareHeadToHead looks only at completed group matches directly
// between the two teams. Equal win counts, including none played, do
// not discriminate.
func compareHeadToHead(a, b *models.Team, groupMatches []*models.Match) int {
	aWins, bWins := 0, 0
	for _, match := range groupMatches {
		if match.Type != models.MatchTypeGroup || match.Status != models.MatchStatusCompleted {
			continue
		}
		if match.Team2ID == nil || match.WinnerTeamID == nil {
			continue
		}
		between := (match.Team1ID == a.ID && *match.Team2ID == b.ID) ||
			(match.Team1ID == b.ID && *match.Team2ID == a.ID)
		if !between {
			continue
		}
		switch *match.WinnerTeamID {
		case a.ID:
			aWins++
		case b.ID:
			bWins++
		}
	}
	return bWins - aWins
}

// trulyTied reports whether every criterion before the alphabetical
// fallback failed to separate the two teams.
func trulyTied(a, b *models.Team, netRates map[int]float64, groupMatches []*models.Match) bool {
	return compareNumericCascade(a, b, netRates) == 0 && compareHeadToHead(a, b, groupMatches) == 0
}
