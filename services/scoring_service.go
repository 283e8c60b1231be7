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

type ScoringService interface {
	// RecordSet writes one set score, overwriting an existing entry for
	// the same set number, and drives the match state machine:
	// scheduled matches go in-progress on their first set, and the
	// match completes once a side reaches the best-of-5 threshold.
	RecordSet(ctx context.Context, matchID, setNumber, team1Score, team2Score int) (*models.Match, error)
}

type scoringService struct {
	matchRepo   repositories.MatchRepository
	progression ProgressionService
	hub         *brackets.Hub
	logger      *slog.Logger
}

func NewScoringService(
	matchRepo repositories.MatchRepository,
	progression ProgressionService,
	hub *brackets.Hub,
	logger *slog.Logger,
) ScoringService {
	return &scoringService{
		matchRepo:   matchRepo,
		progression: progression,
		hub:         hub,
		logger:      logger,
	}
}

func (s *scoringService) RecordSet(ctx context.Context, matchID, setNumber, team1Score, team2Score int) (*models.Match, error) {
	if setNumber < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrSetNumberInvalid, setNumber)
	}
	// Lenient score policy carried over from the original behavior:
	// out-of-range input is coerced to zero instead of being rejected.
	team1Score = clampScore(team1Score)
	team2Score = clampScore(team2Score)

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.Team2ID == nil {
		return nil, ErrMissingOpponent
	}

	if err := s.matchRepo.UpsertSet(ctx, matchID, setNumber, team1Score, team2Score); err != nil {
		return nil, fmt.Errorf("failed to record set %d for match %d: %w", setNumber, matchID, err)
	}
	if match.Status == models.MatchStatusScheduled {
		if err := s.matchRepo.UpdateStatus(ctx, matchID, models.MatchStatusInProgress); err != nil {
			return nil, err
		}
	}

	// Re-read so completion is evaluated against persisted state, not
	// the snapshot taken before the write.
	match, err = s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if winnerID, decided := match.Decided(); decided {
		transitioned, err := s.matchRepo.CompleteMatch(ctx, matchID, winnerID)
		if err != nil {
			return nil, err
		}
		if transitioned {
			match.Status = models.MatchStatusCompleted
			match.WinnerTeamID = &winnerID
			s.logger.Info("match completed",
				slog.Int("match_id", matchID),
				slog.Int("winner_team_id", winnerID),
				slog.String("match_type", string(match.Type)))
			if err := s.progression.OnMatchCompleted(ctx, match); err != nil {
				return nil, fmt.Errorf("match %d completed but progression failed: %w", matchID, err)
			}
			match, err = s.matchRepo.GetByID(ctx, matchID)
			if err != nil {
				return nil, err
			}
		}
	}

	s.hub.BroadcastEvent(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	return score
}
