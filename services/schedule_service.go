package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/engine"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

// Notifier pushes live events to connected operators. The websocket hub
// satisfies it; tests pass a no-op.
type Notifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) BroadcastToRoom(string, interface{}) {}

type GenerateFixturesInput struct {
	TournamentID string                 `json:"tournament_id"`
	AgeBracket   models.AgeBracket      `json:"age_bracket"`
	Tier         models.SkillTier       `json:"tier"`
	PlayerIDs    []string               `json:"player_ids,omitempty"` // empty = all eligible players
	Mode         *engine.RoundRobinMode `json:"mode,omitempty"`       // nil = size-based default
}

type BuildBracketInput struct {
	AgeBracket   models.AgeBracket `json:"age_bracket"`
	Tier         models.SkillTier  `json:"tier"`
	TournamentID string            `json:"tournament_id"`
	PlayerIDs    []string          `json:"player_ids,omitempty"`
	Size         int               `json:"size,omitempty"` // 0 = fit automatically
	Randomize    bool              `json:"randomize"`
}

type GenerateGroupsInput struct {
	AgeBracket   models.AgeBracket `json:"age_bracket"`
	Tier         models.SkillTier  `json:"tier"`
	TournamentID string            `json:"tournament_id"`
	GroupSize    int               `json:"group_size"`
}

type GroupTable struct {
	Group     string                 `json:"group"`
	Standings []models.GroupStanding `json:"standings"`
}

type ScheduleService interface {
	GenerateFixtures(ctx context.Context, input GenerateFixturesInput) ([]models.Fixture, error)
	ListFixtures(ctx context.Context, tournamentID string) ([]models.Fixture, error)
	RescheduleFixture(ctx context.Context, tournamentID, fixtureID string, at *time.Time, venue *string) (*models.Fixture, error)
	WithdrawFixture(ctx context.Context, tournamentID, fixtureID string) error

	BuildKnockout(ctx context.Context, input BuildBracketInput) (*models.Bracket, error)
	GetBracket(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier) (*models.Bracket, error)
	AdvanceKnockout(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier, round, match int, winnerID string) (*models.Bracket, error)

	GenerateGroups(ctx context.Context, input GenerateGroupsInput) (*models.Bracket, error)
	UpdateGroupMatch(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier, groupIndex, matchIndex int, score string, mode models.ScoringMode) (*models.Bracket, error)
	PromoteGroups(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier) (*models.Bracket, error)
	Standings(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier) ([]GroupTable, error)
}

type scheduleService struct {
	documents  repositories.DocumentRepository
	classifier *engine.Classifier
	notifier   Notifier
}

func NewScheduleService(
	documents repositories.DocumentRepository,
	classifier *engine.Classifier,
	notifier Notifier,
) ScheduleService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &scheduleService{
		documents:  documents,
		classifier: classifier,
		notifier:   notifier,
	}
}

// eligiblePlayers selects the cell's participants: same skill tier, and
// allowed to play in the target age bracket (their own or a younger
// natural bracket, never an older one).
func (s *scheduleService) eligiblePlayers(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier, explicit []string) ([]models.Player, error) {
	var players []models.Player
	if _, _, err := loadInto(ctx, s.documents, docPlayers, &players); err != nil {
		return nil, err
	}

	if len(explicit) > 0 {
		byID := make(map[string]models.Player, len(players))
		for _, p := range players {
			byID[p.ID] = p
		}
		selected := make([]models.Player, 0, len(explicit))
		for _, id := range explicit {
			p, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
			}
			if p.Tier != tier {
				return nil, fmt.Errorf("%w: player %s is tier %s", ErrTierMismatch, p.Name, p.Tier)
			}
			if !s.classifier.CanPlayUp(&p, bracket) {
				return nil, fmt.Errorf("%w: %s is %s", ErrBracketNotAllowed, p.Name, s.classifier.Classify(&p))
			}
			selected = append(selected, p)
		}
		return selected, nil
	}

	selected := make([]models.Player, 0)
	for _, p := range players {
		if p.Tier == tier && s.classifier.Classify(&p) == bracket {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

func (s *scheduleService) GenerateFixtures(ctx context.Context, input GenerateFixturesInput) ([]models.Fixture, error) {
	if !input.AgeBracket.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAgeBracket, input.AgeBracket)
	}
	if !input.Tier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSkillTier, input.Tier)
	}

	players, err := s.eligiblePlayers(ctx, input.AgeBracket, input.Tier, input.PlayerIDs)
	if err != nil {
		return nil, err
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: found %d in %s/%s", ErrNotEnoughParticipants, len(players), input.AgeBracket, input.Tier)
	}

	mode := engine.DefaultRoundRobinMode(len(players))
	if input.Mode != nil {
		if !input.Mode.Valid() {
			return nil, fmt.Errorf("%w: invalid round robin mode %q", ErrValidationFailed, *input.Mode)
		}
		mode = *input.Mode
	}

	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}

	generated := make([]models.Fixture, 0)
	for _, pairing := range engine.GenerateRoundRobin(ids, mode) {
		generated = append(generated, models.Fixture{
			ID:         uuid.NewString(),
			AgeBracket: input.AgeBracket,
			Tier:       input.Tier,
			Round:      pairing.Round,
			AID:        pairing.A,
			BID:        pairing.B,
		})
	}

	_, err = mutateDocument(ctx, s.documents, fixturesDocKey(input.TournamentID), func(fixtures []models.Fixture) ([]models.Fixture, error) {
		return append(fixtures, generated...), nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BroadcastToRoom(input.TournamentID, LiveEvent{
		Type:    EventFixturesGenerated,
		Payload: generated,
	})
	return generated, nil
}

func (s *scheduleService) ListFixtures(ctx context.Context, tournamentID string) ([]models.Fixture, error) {
	var fixtures []models.Fixture
	if _, _, err := loadInto(ctx, s.documents, fixturesDocKey(tournamentID), &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// RescheduleFixture changes time and venue, the only mutable fixture
// attributes.
func (s *scheduleService) RescheduleFixture(ctx context.Context, tournamentID, fixtureID string, at *time.Time, venue *string) (*models.Fixture, error) {
	var updated *models.Fixture
	_, err := mutateDocument(ctx, s.documents, fixturesDocKey(tournamentID), func(fixtures []models.Fixture) ([]models.Fixture, error) {
		for i := range fixtures {
			if fixtures[i].ID == fixtureID {
				fixtures[i].ScheduledAt = at
				fixtures[i].Venue = venue
				copied := fixtures[i]
				updated = &copied
				return fixtures, nil
			}
		}
		return nil, ErrFixtureNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// WithdrawFixture deletes the fixture outright; fixtures are never
// mutated into a withdrawn state.
func (s *scheduleService) WithdrawFixture(ctx context.Context, tournamentID, fixtureID string) error {
	_, err := mutateDocument(ctx, s.documents, fixturesDocKey(tournamentID), func(fixtures []models.Fixture) ([]models.Fixture, error) {
		for i := range fixtures {
			if fixtures[i].ID == fixtureID {
				return append(fixtures[:i], fixtures[i+1:]...), nil
			}
		}
		return nil, ErrFixtureNotFound
	})
	return err
}

func (s *scheduleService) BuildKnockout(ctx context.Context, input BuildBracketInput) (*models.Bracket, error) {
	if !input.AgeBracket.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAgeBracket, input.AgeBracket)
	}
	if !input.Tier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSkillTier, input.Tier)
	}

	players, err := s.eligiblePlayers(ctx, input.AgeBracket, input.Tier, input.PlayerIDs)
	if err != nil {
		return nil, err
	}
	seeds := make([]string, len(players))
	for i, p := range players {
		seeds[i] = p.ID
	}

	tree, err := engine.BuildBracket(seeds, input.Size, input.Randomize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	tree.AgeBracket = input.AgeBracket
	tree.Tier = input.Tier
	tree.TournamentID = input.TournamentID

	if _, err := s.documents.Save(ctx, bracketDocKey(input.AgeBracket, input.Tier), tree); err != nil {
		return nil, err
	}
	s.notifier.BroadcastToRoom(input.TournamentID, LiveEvent{Type: EventBracketCreated, Payload: tree})
	return tree, nil
}

func (s *scheduleService) GetBracket(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier) (*models.Bracket, error) {
	var b models.Bracket
	_, ok, err := loadInto(ctx, s.documents, bracketDocKey(bracket, tier), &b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBracketNotFound
	}
	return &b, nil
}

func (s *scheduleService) AdvanceKnockout(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier, round, match int, winnerID string) (*models.Bracket, error) {
	var advanced *models.Bracket
	_, err := mutateDocument(ctx, s.documents, bracketDocKey(bracket, tier), func(b *models.Bracket) (*models.Bracket, error) {
		if b == nil || b.Type != models.BracketKnockout {
			return nil, ErrKnockoutMissing
		}
		if err := engine.Advance(b, round, match, winnerID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		advanced = b
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.BroadcastToRoom(advanced.TournamentID, LiveEvent{Type: EventBracketAdvanced, Payload: advanced})
	return advanced, nil
}

func (s *scheduleService) GenerateGroups(ctx context.Context, input GenerateGroupsInput) (*models.Bracket, error) {
	if input.GroupSize < 2 {
		return nil, fmt.Errorf("%w: group size must be at least 2", ErrValidationFailed)
	}
	players, err := s.eligiblePlayers(ctx, input.AgeBracket, input.Tier, nil)
	if err != nil {
		return nil, err
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: found %d in %s/%s", ErrNotEnoughParticipants, len(players), input.AgeBracket, input.Tier)
	}

	shuffled := make([]models.Player, len(players))
	copy(shuffled, players)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	numGroups := (len(shuffled) + input.GroupSize - 1) / input.GroupSize
	groups := make([]models.Group, numGroups)
	for i := range groups {
		groups[i] = models.Group{Name: fmt.Sprintf("Gruppe %c", 'A'+i)}
	}
	for i, p := range shuffled {
		g := &groups[i%numGroups]
		g.PlayerIDs = append(g.PlayerIDs, p.ID)
	}

	for i := range groups {
		mode := engine.DefaultRoundRobinMode(len(groups[i].PlayerIDs))
		for _, pairing := range engine.GenerateRoundRobin(groups[i].PlayerIDs, mode) {
			groups[i].Matches = append(groups[i].Matches, models.GroupMatch{
				ID:    uuid.NewString(),
				Round: pairing.Round,
				AID:   pairing.A,
				BID:   pairing.B,
			})
		}
	}

	stage := &models.Bracket{
		Type:         models.BracketGroups,
		AgeBracket:   input.AgeBracket,
		Tier:         input.Tier,
		TournamentID: input.TournamentID,
		Groups:       groups,
	}
	if _, err := s.documents.Save(ctx, bracketDocKey(input.AgeBracket, input.Tier), stage); err != nil {
		return nil, err
	}
	s.notifier.BroadcastToRoom(input.TournamentID, LiveEvent{Type: EventBracketCreated, Payload: stage})
	return stage, nil
}

func (s *scheduleService) UpdateGroupMatch(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier, groupIndex, matchIndex int, score string, mode models.ScoringMode) (*models.Bracket, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScoringMode, mode)
	}

	var updated *models.Bracket
	_, err := mutateDocument(ctx, s.documents, bracketDocKey(bracket, tier), func(b *models.Bracket) (*models.Bracket, error) {
		if b == nil || b.Type != models.BracketGroups {
			return nil, ErrGroupStageMissing
		}
		if groupIndex < 0 || groupIndex >= len(b.Groups) {
			return nil, fmt.Errorf("%w: group index %d", ErrValidationFailed, groupIndex)
		}
		group := &b.Groups[groupIndex]
		if matchIndex < 0 || matchIndex >= len(group.Matches) {
			return nil, fmt.Errorf("%w: match index %d", ErrValidationFailed, matchIndex)
		}

		m := &group.Matches[matchIndex]
		m.Score = score
		switch {
		case engine.Analyze(score, mode).IsWin:
			winner := m.AID
			m.WinnerID = &winner
		case engine.Analyze(engine.Reverse(score), mode).IsWin:
			winner := m.BID
			m.WinnerID = &winner
		default:
			m.WinnerID = nil
		}
		updated = b
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.BroadcastToRoom(updated.TournamentID, LiveEvent{Type: EventBracketAdvanced, Payload: updated})
	return updated, nil
}

// PromoteGroups replaces the cell's group stage with a knockout tree
// seeded from the group standings.
func (s *scheduleService) PromoteGroups(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier) (*models.Bracket, error) {
	stage, err := s.GetBracket(ctx, bracket, tier)
	if err != nil {
		return nil, err
	}
	if stage.Type != models.BracketGroups {
		return nil, ErrGroupStageMissing
	}

	seeds, err := engine.Promote(stage.Groups)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEnoughParticipants, err)
	}

	tree, err := engine.BuildBracket(seeds, 0, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	tree.AgeBracket = bracket
	tree.Tier = tier
	tree.TournamentID = stage.TournamentID

	if _, err := s.documents.Save(ctx, bracketDocKey(bracket, tier), tree); err != nil {
		return nil, err
	}
	s.notifier.BroadcastToRoom(tree.TournamentID, LiveEvent{Type: EventBracketCreated, Payload: tree})
	return tree, nil
}

func (s *scheduleService) Standings(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier) ([]GroupTable, error) {
	stage, err := s.GetBracket(ctx, bracket, tier)
	if err != nil {
		return nil, err
	}
	if stage.Type != models.BracketGroups {
		return nil, ErrGroupStageMissing
	}

	tables := make([]GroupTable, len(stage.Groups))
	g, _ := errgroup.WithContext(ctx)
	for i := range stage.Groups {
		i := i
		g.Go(func() error {
			tables[i] = GroupTable{
				Group:     stage.Groups[i].Name,
				Standings: engine.Standings(stage.Groups[i]),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
