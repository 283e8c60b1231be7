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

type CreateMatchInput struct {
	TournamentID int       `json:"tournament_id"`
	Team1ID      int       `json:"team1_id"`
	Team2ID      int       `json:"team2_id"`
	MatchDate    time.Time `json:"match_date"`
}

type MatchService interface {
	// Create adds a single group fixture by hand. Semifinals and the
	// final are only ever created by the bracket service.
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, matchType *models.MatchType, status *models.MatchStatus) ([]*models.Match, error)
	UpdateDate(ctx context.Context, id int, date time.Time) (*models.Match, error)
	// UpdateStatus handles direct status changes. Setting completed
	// requires the recorded sets to already decide the match and feeds
	// the same progression cascade as score recording.
	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) (*models.Match, error)
	Delete(ctx context.Context, id int) error
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	progression    ProgressionService
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	progression ProgressionService,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		progression:    progression,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status == models.TournamentStatusCompleted {
		return nil, ErrTournamentCompleted
	}
	if input.Team1ID == input.Team2ID {
		return nil, ErrSameTeam
	}

	for _, teamID := range []int{input.Team1ID, input.Team2ID} {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrTeamNotFound, teamID)
			}
			return nil, err
		}
		if team.TournamentID != input.TournamentID {
			return nil, fmt.Errorf("%w: team %d belongs to tournament %d", ErrTeamTournamentMismatch, teamID, team.TournamentID)
		}
	}

	matchDate := input.MatchDate
	if matchDate.IsZero() {
		matchDate = time.Now()
	}
	team2ID := input.Team2ID
	match := &models.Match{
		TournamentID: input.TournamentID,
		Team1ID:      input.Team1ID,
		Team2ID:      &team2ID,
		Type:         models.MatchTypeGroup,
		Status:       models.MatchStatusScheduled,
		MatchDate:    matchDate,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, matchType *models.MatchType, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, matchType, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) UpdateDate(ctx context.Context, id int, date time.Time) (*models.Match, error) {
	if err := s.matchRepo.UpdateDate(ctx, id, date); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *matchService) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) (*models.Match, error) {
	match, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.MatchStatusScheduled, models.MatchStatusInProgress:
		if match.Status == models.MatchStatusCompleted {
			return nil, ErrMatchStatusChangeForbidden
		}
		if err := s.matchRepo.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
	case models.MatchStatusCompleted:
		winnerID, decided := match.Decided()
		if !decided {
			if match.Team2ID == nil {
				return nil, ErrMissingOpponent
			}
			return nil, fmt.Errorf("%w: match %d", ErrMatchNotDecided, id)
		}
		transitioned, err := s.matchRepo.CompleteMatch(ctx, id, winnerID)
		if err != nil {
			return nil, err
		}
		if transitioned {
			match.Status = models.MatchStatusCompleted
			match.WinnerTeamID = &winnerID
			if err := s.progression.OnMatchCompleted(ctx, match); err != nil {
				return nil, fmt.Errorf("match %d completed but progression failed: %w", id, err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrMatchStatusInvalid, status)
	}

	match, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastEvent(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	return s.progression.DeleteMatch(ctx, id)
}
