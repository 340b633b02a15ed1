package services

import "errors"

// Shared errors across services, mapped to HTTP statuses in the handlers
// layer.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrBracketNotFound    = errors.New("bracket not found")
	ErrFixtureNotFound    = errors.New("fixture not found")

	// Validation and business rules
	ErrValidationFailed         = errors.New("validation failed")
	ErrPlayerNameRequired       = errors.New("player name is required")
	ErrInvalidAgeBracket        = errors.New("invalid age bracket")
	ErrInvalidSkillTier         = errors.New("invalid skill tier")
	ErrInvalidScoringMode       = errors.New("invalid scoring mode")
	ErrScoreMalformed           = errors.New("score string could not be parsed")
	ErrTierMismatch             = errors.New("players are in different skill tiers")
	ErrBracketNotAllowed        = errors.New("player may not be scheduled in a younger age bracket")
	ErrNotEnoughParticipants    = errors.New("not enough eligible participants")
	ErrSamePlayerTwice          = errors.New("a fixture needs two distinct players")
	ErrTournamentNameRequired   = errors.New("tournament name is required")
	ErrGroupStageMissing        = errors.New("no group stage exists for this bracket")
	ErrKnockoutMissing          = errors.New("no knockout bracket exists for this bracket")
	ErrPasswordTooShort         = errors.New("password is too short")
	ErrTeamMembersRequired      = errors.New("a doubles team needs two distinct players")

	// Conflicts
	ErrResultConflict   = errors.New("a different score was recorded concurrently, reload before retrying")
	ErrDocumentConflict = errors.New("data was modified concurrently, reload before retrying")
	ErrUsernameConflict = errors.New("username is already in use")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid username or password")
)
