package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPlayerNotFound     = errors.New("player not found")

	// Invalid input
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrPlayerNameRequired     = errors.New("player name is required")
	ErrSetNumberInvalid       = errors.New("set number must be a positive integer")
	ErrMissingOpponent        = errors.New("match has no second team yet")
	ErrSameTeam               = errors.New("a match requires two distinct teams")
	ErrTeamTournamentMismatch = errors.New("both teams must belong to the match tournament")
	ErrMatchTypeInvalid       = errors.New("invalid match type")
	ErrMatchStatusInvalid     = errors.New("invalid match status")

	// Precondition failed
	ErrTournamentCompleted        = errors.New("tournament is already completed")
	ErrNotEnoughTeams             = errors.New("at least 2 teams are required to generate group matches")
	ErrNotEnoughTeamsForKnockout  = errors.New("at least 3 teams are required to seed semifinals")
	ErrSemifinalsNotCompleted     = errors.New("both semifinals must be completed before the final")
	ErrMatchNotDecided            = errors.New("recorded sets do not decide the match")
	ErrInvalidStatusTransition    = errors.New("invalid tournament status transition")
	ErrMatchStatusChangeForbidden = errors.New("completed matches cannot be reverted")

	// Conflicts
	ErrGroupMatchesExist      = errors.New("group matches already exist for this tournament")
	ErrFinalExists            = errors.New("final match already exists for this tournament")
	ErrTournamentNameConflict = errors.New("tournament name already in use")
	ErrTeamNameConflict       = errors.New("team name already in use in this tournament")

	// Auth
	ErrInvalidPIN = errors.New("invalid admin pin")
)
