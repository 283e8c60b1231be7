package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nayan91296/TT-scrore-board-sub000/brackets"
	"github.com/nayan91296/TT-scrore-board-sub000/models"
	"github.com/nayan91296/TT-scrore-board-sub000/repositories"
)

type BracketService interface {
	// GenerateGroupMatches creates one scheduled group fixture per
	// unordered team pair. When fixtures already exist it fails unless
	// replace is set, in which case the old fixtures are removed (and
	// their stat effects reversed) first.
	GenerateGroupMatches(ctx context.Context, tournamentID int, replace bool) ([]*models.Match, error)
	// GenerateSemifinals seeds semifinal 1 with the top two ranked
	// teams and semifinal 2 with the third seed awaiting the
	// semifinal-1 loser. Existing semifinals are regenerated.
	GenerateSemifinals(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// BackfillSemifinal2 fills the open semifinal-2 slot with the
	// semifinal-1 loser. It is a no-op, not an error, while its
	// preconditions do not hold or once the slot is taken.
	BackfillSemifinal2(ctx context.Context, tournamentID int) (*models.Match, error)
	// GenerateFinal pairs the two semifinal winners. Fails while a
	// semifinal is unfinished or once a final exists.
	GenerateFinal(ctx context.Context, tournamentID int) (*models.Match, error)
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	roundRobin     *brackets.RoundRobinGenerator
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	roundRobin *brackets.RoundRobinGenerator,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		roundRobin:     roundRobin,
		hub:            hub,
		logger:         logger,
	}
}

func (s *bracketService) GenerateGroupMatches(ctx context.Context, tournamentID int, replace bool) ([]*models.Match, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.TournamentStatusCompleted {
		return nil, ErrTournamentCompleted
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teams))
	}

	existing, err := s.matchRepo.CountByTournamentAndType(ctx, tournamentID, models.MatchTypeGroup)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		if !replace {
			return nil, fmt.Errorf("%w: %d existing", ErrGroupMatchesExist, existing)
		}
		if err := s.removeGroupMatches(ctx, tournamentID); err != nil {
			return nil, err
		}
	}

	teamIDs := make([]int, len(teams))
	for i, team := range teams {
		teamIDs[i] = team.ID
	}
	fixtures, err := s.roundRobin.Generate(teamIDs)
	if err != nil {
		return nil, err
	}

	matchDate := tournament.StartDate
	if matchDate.IsZero() {
		matchDate = time.Now()
	}
	matches := make([]*models.Match, 0, len(fixtures))
	for _, fixture := range fixtures {
		team2ID := fixture.Team2ID
		match := &models.Match{
			TournamentID: tournamentID,
			Team1ID:      fixture.Team1ID,
			Team2ID:      &team2ID,
			Type:         models.MatchTypeGroup,
			Status:       models.MatchStatusScheduled,
			MatchDate:    matchDate,
		}
		if err := s.matchRepo.Create(ctx, match); err != nil {
			return nil, fmt.Errorf("failed to create group fixture for tournament %d: %w", tournamentID, err)
		}
		matches = append(matches, match)
	}

	if tournament.Status == models.TournamentStatusUpcoming {
		if err := s.tournamentRepo.UpdateStatus(ctx, tournamentID, models.TournamentStatusOngoing); err != nil {
			return nil, err
		}
	}

	s.logger.Info("group fixtures generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("fixtures", len(matches)),
		slog.Bool("replaced", existing > 0))
	s.hub.BroadcastEvent(tournamentID, brackets.EventBracketUpdated, matches)
	return matches, nil
}

// removeGroupMatches reverses the stat effects of completed fixtures
// before bulk-deleting the group stage, so regeneration starts from a
// clean table.
func (s *bracketService) removeGroupMatches(ctx context.Context, tournamentID int) error {
	groupType := models.MatchTypeGroup
	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, &groupType, nil)
	if err != nil {
		return err
	}
	for _, match := range existing {
		if match.Status == models.MatchStatusCompleted && match.WinnerTeamID != nil {
			if err := applyGroupResult(ctx, s.teamRepo, match, -1); err != nil {
				return err
			}
		}
	}
	_, err = s.matchRepo.DeleteByTournamentAndType(ctx, tournamentID, models.MatchTypeGroup)
	return err
}

func (s *bracketService) GenerateSemifinals(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.TournamentStatusCompleted {
		return nil, ErrTournamentCompleted
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(teams) < 3 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeamsForKnockout, len(teams))
	}

	groupType := models.MatchTypeGroup
	groupMatches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &groupType, nil)
	if err != nil {
		return nil, err
	}

	// Regenerate flow: drop any existing semifinals and their slots on
	// the tournament before seeding fresh ones.
	if tournament.Semifinal1ID != nil || tournament.Semifinal2ID != nil {
		if err := s.tournamentRepo.ClearSemifinals(ctx, tournamentID); err != nil {
			return nil, err
		}
	}
	if _, err := s.matchRepo.DeleteByTournamentAndType(ctx, tournamentID, models.MatchTypeSemifinal); err != nil {
		return nil, err
	}

	standings := RankTeams(teams, groupMatches)
	rankedIDs := make([]int, len(standings))
	for i, row := range standings {
		rankedIDs[i] = row.TeamID
	}
	seeding, err := brackets.SeedSemifinals(rankedIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	semifinal1Team2 := seeding.Semifinal1Team2
	semifinal1 := &models.Match{
		TournamentID: tournamentID,
		Team1ID:      seeding.Semifinal1Team1,
		Team2ID:      &semifinal1Team2,
		Type:         models.MatchTypeSemifinal,
		Status:       models.MatchStatusScheduled,
		MatchDate:    now,
	}
	if err := s.matchRepo.Create(ctx, semifinal1); err != nil {
		return nil, err
	}
	semifinal2 := &models.Match{
		TournamentID: tournamentID,
		Team1ID:      seeding.Semifinal2Team1,
		Team2ID:      nil, // awaits the semifinal-1 loser
		Type:         models.MatchTypeSemifinal,
		Status:       models.MatchStatusScheduled,
		MatchDate:    now,
	}
	if err := s.matchRepo.Create(ctx, semifinal2); err != nil {
		return nil, err
	}
	if err := s.tournamentRepo.SetSemifinals(ctx, tournamentID, semifinal1.ID, semifinal2.ID); err != nil {
		return nil, err
	}

	s.logger.Info("semifinals seeded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("semifinal1_id", semifinal1.ID),
		slog.Int("semifinal2_id", semifinal2.ID))
	s.hub.BroadcastEvent(tournamentID, brackets.EventBracketUpdated, []*models.Match{semifinal1, semifinal2})
	return []*models.Match{semifinal1, semifinal2}, nil
}

func (s *bracketService) BackfillSemifinal2(ctx context.Context, tournamentID int) (*models.Match, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Semifinal1ID == nil || tournament.Semifinal2ID == nil {
		return nil, nil
	}

	semifinal1, err := s.matchRepo.GetByID(ctx, *tournament.Semifinal1ID)
	if err != nil {
		return nil, err
	}
	if semifinal1.Status != models.MatchStatusCompleted || semifinal1.WinnerTeamID == nil || semifinal1.Team2ID == nil {
		return nil, nil
	}

	semifinal2, err := s.matchRepo.GetByID(ctx, *tournament.Semifinal2ID)
	if err != nil {
		return nil, err
	}
	if semifinal2.Team2ID != nil {
		return semifinal2, nil
	}

	loser := brackets.SemifinalLoser(semifinal1.Team1ID, *semifinal1.Team2ID, *semifinal1.WinnerTeamID)
	if err := s.matchRepo.SetTeam2(ctx, semifinal2.ID, loser); err != nil {
		// A concurrent backfill may have taken the slot; re-read and
		// accept the persisted outcome.
		if !errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, err
		}
	}
	semifinal2, err = s.matchRepo.GetByID(ctx, semifinal2.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("semifinal 2 backfilled",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", semifinal2.ID),
		slog.Int("team_id", loser))
	s.hub.BroadcastEvent(tournamentID, brackets.EventBracketUpdated, semifinal2)
	return semifinal2, nil
}

func (s *bracketService) GenerateFinal(ctx context.Context, tournamentID int) (*models.Match, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.FinalID != nil {
		return nil, ErrFinalExists
	}
	if tournament.Semifinal1ID == nil || tournament.Semifinal2ID == nil {
		return nil, fmt.Errorf("%w: semifinals not generated", ErrSemifinalsNotCompleted)
	}

	semifinal1, err := s.matchRepo.GetByID(ctx, *tournament.Semifinal1ID)
	if err != nil {
		return nil, err
	}
	semifinal2, err := s.matchRepo.GetByID(ctx, *tournament.Semifinal2ID)
	if err != nil {
		return nil, err
	}
	for _, semifinal := range []*models.Match{semifinal1, semifinal2} {
		if semifinal.Status != models.MatchStatusCompleted || semifinal.WinnerTeamID == nil {
			return nil, fmt.Errorf("%w: match %d is %s", ErrSemifinalsNotCompleted, semifinal.ID, semifinal.Status)
		}
	}

	finalTeam2 := *semifinal2.WinnerTeamID
	final := &models.Match{
		TournamentID: tournamentID,
		Team1ID:      *semifinal1.WinnerTeamID,
		Team2ID:      &finalTeam2,
		Type:         models.MatchTypeFinal,
		Status:       models.MatchStatusScheduled,
		MatchDate:    time.Now(),
	}
	if err := s.matchRepo.Create(ctx, final); err != nil {
		return nil, err
	}
	if err := s.tournamentRepo.SetFinal(ctx, tournamentID, &final.ID); err != nil {
		return nil, err
	}

	s.logger.Info("final generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", final.ID))
	s.hub.BroadcastEvent(tournamentID, brackets.EventBracketUpdated, final)
	return final, nil
}

func (s *bracketService) getTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}
