package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/engine"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

// RecordMatchInput is one side's report of a played fixture. The opponent's
// mirrored record is derived here, never submitted.
type RecordMatchInput struct {
	TournamentID string             `json:"tournament_id"`
	FixtureID    string             `json:"fixture_id"`
	RoundID      *string            `json:"round_id,omitempty"`
	PlayerID     string             `json:"player_id"`
	OpponentID   string             `json:"opponent_id"`
	Score        string             `json:"score"`
	Mode         models.ScoringMode `json:"mode"`
	PlayedAt     *time.Time         `json:"played_at,omitempty"`

	// LastObservedScore is the score the submitter saw for this fixture
	// before editing, nil when they believe it is unscored. A stored score
	// that differs from it rejects the write with ErrResultConflict.
	LastObservedScore *string `json:"last_observed_score,omitempty"`
}

type DeleteMatchInput struct {
	TournamentID string `json:"tournament_id"`
	FixtureID    string `json:"fixture_id"`
	PlayerID     string `json:"player_id"`
	OpponentID   string `json:"opponent_id"`
}

type ResultService interface {
	RecordMatch(ctx context.Context, input RecordMatchInput) (*repositories.FixtureWriteReceipt, error)
	DeleteMatch(ctx context.Context, input DeleteMatchInput) error

	GetPlayerResult(ctx context.Context, tournamentID, playerID string) (*models.TournamentResult, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.TournamentResult, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*models.TournamentResult, error)
}

type resultService struct {
	results   repositories.ResultRepository
	documents repositories.DocumentRepository
	notifier  Notifier
	now       func() time.Time
}

func NewResultService(
	results repositories.ResultRepository,
	documents repositories.DocumentRepository,
	notifier Notifier,
) ResultService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &resultService{
		results:   results,
		documents: documents,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *resultService) RecordMatch(ctx context.Context, input RecordMatchInput) (*repositories.FixtureWriteReceipt, error) {
	if input.TournamentID == "" || input.FixtureID == "" {
		return nil, fmt.Errorf("%w: tournament and fixture ids are required", ErrValidationFailed)
	}
	if input.PlayerID == input.OpponentID {
		return nil, ErrSamePlayerTwice
	}
	if !input.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScoringMode, input.Mode)
	}
	if !engine.Wellformed(input.Score) {
		return nil, fmt.Errorf("%w: %q", ErrScoreMalformed, input.Score)
	}

	player, opponent, err := s.lookupPair(ctx, input.PlayerID, input.OpponentID)
	if err != nil {
		return nil, err
	}
	if player.Tier != opponent.Tier {
		return nil, fmt.Errorf("%w: %s is %s, %s is %s",
			ErrTierMismatch, player.Name, player.Tier, opponent.Name, opponent.Tier)
	}

	playedAt := s.now()
	if input.PlayedAt != nil {
		playedAt = *input.PlayedAt
	}

	outcome := engine.Analyze(input.Score, input.Mode)
	mirrored := engine.Reverse(input.Score)
	mirroredOutcome := engine.Analyze(mirrored, input.Mode)

	fixtureID := input.FixtureID
	playerRecord := models.MatchRecord{
		FixtureID:    &fixtureID,
		RoundID:      input.RoundID,
		OpponentID:   opponent.ID,
		OpponentName: opponent.Name,
		Score:        input.Score,
		IsWin:        outcome.IsWin,
		IsCloseLoss:  outcome.IsCloseLoss,
		Mode:         input.Mode,
		Tier:         player.Tier,
		PlayedAt:     playedAt,
	}
	opponentRecord := models.MatchRecord{
		FixtureID:    &fixtureID,
		RoundID:      input.RoundID,
		OpponentID:   player.ID,
		OpponentName: player.Name,
		Score:        mirrored,
		IsWin:        mirroredOutcome.IsWin,
		IsCloseLoss:  mirroredOutcome.IsCloseLoss,
		Mode:         input.Mode,
		Tier:         opponent.Tier,
		PlayedAt:     playedAt,
	}

	var lastObservedMirror *string
	if input.LastObservedScore != nil {
		rev := engine.Reverse(*input.LastObservedScore)
		lastObservedMirror = &rev
	}

	receipt, err := s.results.UpsertFixtureResult(ctx, repositories.UpsertFixtureResultParams{
		TournamentID:              input.TournamentID,
		FixtureID:                 input.FixtureID,
		PlayerID:                  player.ID,
		OpponentID:                opponent.ID,
		PlayerRecord:              playerRecord,
		OpponentRecord:            opponentRecord,
		LastObservedScore:         input.LastObservedScore,
		LastObservedOpponentScore: lastObservedMirror,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrResultConflict) {
			return nil, ErrResultConflict
		}
		return nil, err
	}

	s.notifier.BroadcastToRoom(input.TournamentID, LiveEvent{
		Type: EventResultRecorded,
		Payload: map[string]interface{}{
			"fixture_id": input.FixtureID,
			"player_id":  player.ID,
			"score":      input.Score,
			"receipt":    receipt,
		},
	})
	return receipt, nil
}

func (s *resultService) DeleteMatch(ctx context.Context, input DeleteMatchInput) error {
	err := s.results.DeleteFixtureResult(ctx, repositories.DeleteFixtureResultParams{
		TournamentID: input.TournamentID,
		FixtureID:    input.FixtureID,
		PlayerID:     input.PlayerID,
		OpponentID:   input.OpponentID,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchRecordNotFound) || errors.Is(err, repositories.ErrResultNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.notifier.BroadcastToRoom(input.TournamentID, LiveEvent{
		Type: EventResultDeleted,
		Payload: map[string]interface{}{
			"fixture_id": input.FixtureID,
			"player_id":  input.PlayerID,
		},
	})
	return nil
}

func (s *resultService) GetPlayerResult(ctx context.Context, tournamentID, playerID string) (*models.TournamentResult, error) {
	result, err := s.results.GetByPlayerAndTournament(ctx, tournamentID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *resultService) ListByTournament(ctx context.Context, tournamentID string) ([]*models.TournamentResult, error) {
	return s.results.ListByTournament(ctx, tournamentID)
}

func (s *resultService) ListByPlayer(ctx context.Context, playerID string) ([]*models.TournamentResult, error) {
	return s.results.ListByPlayer(ctx, playerID)
}

func (s *resultService) lookupPair(ctx context.Context, playerID, opponentID string) (*models.Player, *models.Player, error) {
	var players []models.Player
	if _, _, err := loadInto(ctx, s.documents, docPlayers, &players); err != nil {
		return nil, nil, err
	}
	var player, opponent *models.Player
	for i := range players {
		switch players[i].ID {
		case playerID:
			player = &players[i]
		case opponentID:
			opponent = &players[i]
		}
	}
	if player == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if opponent == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, opponentID)
	}
	return player, opponent, nil
}
