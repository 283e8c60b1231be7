package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nayan91296/TT-scrore-board-sub000/brackets"
	"github.com/nayan91296/TT-scrore-board-sub000/models"
	"github.com/nayan91296/TT-scrore-board-sub000/repositories"
)

// ProgressionService drives everything that follows a match reaching
// completed: team stat deltas for group matches, semifinal seeding and
// backfill, final creation, and the tournament winner. Callers invoke
// OnMatchCompleted only after a real scheduled/in-progress → completed
// transition, which is what keeps the stat deltas exactly-once.
type ProgressionService interface {
	OnMatchCompleted(ctx context.Context, match *models.Match) error
	// DeleteMatch removes a match and reverses any derived state it
	// produced: group stat deltas (floored at zero), bracket slots on
	// the tournament, and the tournament winner when the deleted match
	// is the final that produced it.
	DeleteMatch(ctx context.Context, matchID int) error
}

type progressionService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	bracket        BracketService
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewProgressionService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	bracket BracketService,
	hub *brackets.Hub,
	logger *slog.Logger,
) ProgressionService {
	return &progressionService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		bracket:        bracket,
		hub:            hub,
		logger:         logger,
	}
}

func (s *progressionService) OnMatchCompleted(ctx context.Context, match *models.Match) error {
	if match.WinnerTeamID == nil {
		return fmt.Errorf("match %d completed without a winner", match.ID)
	}

	switch match.Type {
	case models.MatchTypeGroup:
		return s.onGroupMatchCompleted(ctx, match)
	case models.MatchTypeSemifinal:
		return s.onSemifinalCompleted(ctx, match)
	case models.MatchTypeFinal:
		return s.onFinalCompleted(ctx, match)
	default:
		// Quarterfinals are reserved and never generated; nothing
		// cascades from them.
		return nil
	}
}

func (s *progressionService) onGroupMatchCompleted(ctx context.Context, match *models.Match) error {
	if err := applyGroupResult(ctx, s.teamRepo, match, +1); err != nil {
		return fmt.Errorf("failed to apply stat delta for match %d: %w", match.ID, err)
	}
	s.broadcastStandings(ctx, match.TournamentID)

	groupType := models.MatchTypeGroup
	groupMatches, err := s.matchRepo.ListByTournament(ctx, match.TournamentID, &groupType, nil)
	if err != nil {
		return err
	}
	for _, m := range groupMatches {
		if m.Status != models.MatchStatusCompleted || m.WinnerTeamID == nil {
			return nil
		}
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return err
	}
	if tournament.Semifinal1ID != nil {
		return nil
	}
	if _, err := s.bracket.GenerateSemifinals(ctx, match.TournamentID); err != nil {
		if errors.Is(err, ErrNotEnoughTeamsForKnockout) {
			// Two-team tournaments finish with the group stage.
			s.logger.Info("group stage complete, no knockout seeded",
				slog.Int("tournament_id", match.TournamentID))
			return nil
		}
		return fmt.Errorf("group stage complete but semifinal seeding failed: %w", err)
	}
	return nil
}

func (s *progressionService) onSemifinalCompleted(ctx context.Context, match *models.Match) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return err
	}

	// Semifinal identity comes from the stored slot, never from the
	// match type alone.
	switch {
	case tournament.IsSemifinal1(match.ID):
		if _, err := s.bracket.BackfillSemifinal2(ctx, match.TournamentID); err != nil {
			return err
		}
		if tournament.Semifinal2ID == nil {
			return nil
		}
		return s.generateFinalIfReady(ctx, tournament, *tournament.Semifinal2ID)
	case tournament.IsSemifinal2(match.ID):
		if tournament.Semifinal1ID == nil {
			return nil
		}
		return s.generateFinalIfReady(ctx, tournament, *tournament.Semifinal1ID)
	default:
		s.logger.Warn("completed semifinal not referenced by its tournament",
			slog.Int("match_id", match.ID),
			slog.Int("tournament_id", match.TournamentID))
		return nil
	}
}

// generateFinalIfReady creates the final once the other semifinal is
// also completed. A concurrently created final is treated as success.
func (s *progressionService) generateFinalIfReady(ctx context.Context, tournament *models.Tournament, otherSemifinalID int) error {
	if tournament.FinalID != nil {
		return nil
	}
	other, err := s.matchRepo.GetByID(ctx, otherSemifinalID)
	if err != nil {
		return err
	}
	if other.Status != models.MatchStatusCompleted || other.WinnerTeamID == nil {
		return nil
	}
	if _, err := s.bracket.GenerateFinal(ctx, tournament.ID); err != nil {
		if errors.Is(err, ErrFinalExists) {
			return nil
		}
		return err
	}
	return nil
}

func (s *progressionService) onFinalCompleted(ctx context.Context, match *models.Match) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return err
	}
	if !tournament.IsFinal(match.ID) {
		s.logger.Warn("completed final not referenced by its tournament",
			slog.Int("match_id", match.ID),
			slog.Int("tournament_id", match.TournamentID))
		return nil
	}

	transitioned, err := s.tournamentRepo.SetWinnerIfUnset(ctx, tournament.ID, *match.WinnerTeamID)
	if err != nil {
		return err
	}
	if transitioned {
		s.logger.Info("tournament completed",
			slog.Int("tournament_id", tournament.ID),
			slog.Int("winner_team_id", *match.WinnerTeamID))
		s.hub.BroadcastEvent(tournament.ID, brackets.EventTournamentCompleted, map[string]int{
			"tournament_id":  tournament.ID,
			"winner_team_id": *match.WinnerTeamID,
		})
	}
	return nil
}

func (s *progressionService) DeleteMatch(ctx context.Context, matchID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return err
	}

	// Deleting the final that decided the tournament is the one lawful
	// way to touch a completed tournament: it reverts the completion.
	producedWinner := tournament.IsFinal(match.ID) &&
		tournament.WinnerTeamID != nil && match.WinnerTeamID != nil &&
		*tournament.WinnerTeamID == *match.WinnerTeamID
	if tournament.Status == models.TournamentStatusCompleted && !producedWinner {
		return ErrTournamentCompleted
	}

	if match.Type == models.MatchTypeGroup &&
		match.Status == models.MatchStatusCompleted && match.WinnerTeamID != nil {
		if err := applyGroupResult(ctx, s.teamRepo, match, -1); err != nil {
			return fmt.Errorf("failed to reverse stat delta for match %d: %w", matchID, err)
		}
	}

	switch {
	case tournament.IsSemifinal1(match.ID):
		if err := s.tournamentRepo.SetSemifinal1(ctx, tournament.ID, nil); err != nil {
			return err
		}
	case tournament.IsSemifinal2(match.ID):
		if err := s.tournamentRepo.SetSemifinal2(ctx, tournament.ID, nil); err != nil {
			return err
		}
	case tournament.IsFinal(match.ID):
		if producedWinner {
			if err := s.tournamentRepo.ClearWinner(ctx, tournament.ID); err != nil {
				return err
			}
		}
		if err := s.tournamentRepo.SetFinal(ctx, tournament.ID, nil); err != nil {
			return err
		}
	}

	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return err
	}

	s.logger.Info("match deleted",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", match.TournamentID),
		slog.String("match_type", string(match.Type)))
	s.hub.BroadcastEvent(match.TournamentID, brackets.EventBracketUpdated, nil)
	if match.Type == models.MatchTypeGroup {
		s.broadcastStandings(ctx, match.TournamentID)
	}
	return nil
}

func (s *progressionService) broadcastStandings(ctx context.Context, tournamentID int) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		s.logger.Error("failed to load teams for standings broadcast", slog.Any("error", err))
		return
	}
	groupType := models.MatchTypeGroup
	groupMatches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &groupType, nil)
	if err != nil {
		s.logger.Error("failed to load matches for standings broadcast", slog.Any("error", err))
		return
	}
	s.hub.BroadcastEvent(tournamentID, brackets.EventStandingsUpdated, RankTeams(teams, groupMatches))
}

// applyGroupResult applies (sign=+1) or reverses (sign=-1) the stat
// delta of one decided group match: winner +1 played, +1 won, +2
// points; loser +1 played, +1 lost. Reversals floor at zero in the
// repository.
func applyGroupResult(ctx context.Context, teamRepo repositories.TeamRepository, match *models.Match, sign int) error {
	winnerID := *match.WinnerTeamID
	loserID, ok := match.LoserTeamID()
	if !ok {
		return fmt.Errorf("match %d has no identifiable loser", match.ID)
	}
	if err := teamRepo.ApplyStatDelta(ctx, winnerID, sign, sign, 0, 2*sign); err != nil {
		return err
	}
	return teamRepo.ApplyStatDelta(ctx, loserID, sign, 0, sign, 0)
}
