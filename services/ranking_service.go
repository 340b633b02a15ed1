package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/engine"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

// RankingScope narrows which matches count. Empty TournamentID means the
// all-time overall ranking; a RoundID additionally restricts to one round
// of that tournament.
type RankingScope struct {
	TournamentID string `json:"tournament_id,omitempty"`
	RoundID      string `json:"round_id,omitempty"`
}

// PointsBreakdown explains one tournament's contribution to a player's
// total.
type PointsBreakdown struct {
	TournamentID        string  `json:"tournament_id"`
	WeightedPoints      float64 `json:"weighted_points"`
	ParticipationPoints int     `json:"participation_points"`
	Wins                int     `json:"wins"`
	CloseLosses         int     `json:"close_losses"`
	Matches             int     `json:"matches"`
}

type PlayerPoints struct {
	PlayerID  string            `json:"player_id"`
	Name      string            `json:"name"`
	Total     float64           `json:"total"`
	Breakdown []PointsBreakdown `json:"breakdown"`
}

type RankingService interface {
	// Points computes one player's total and per-tournament breakdown.
	Points(ctx context.Context, playerID string, scope RankingScope) (*PlayerPoints, error)
	// Ranking lists every in-scope player sorted by total descending.
	Ranking(ctx context.Context, scope RankingScope) ([]PlayerPoints, error)

	// Weight overrides pin a cell's multiplier, bypassing the size-based
	// computation on the next ranking read.
	ListWeightOverrides(ctx context.Context) (map[string]float64, error)
	SetWeightOverride(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier, weight float64) error
	ClearWeightOverride(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier) error
}

type rankingService struct {
	results    repositories.ResultRepository
	documents  repositories.DocumentRepository
	classifier *engine.Classifier
}

func NewRankingService(
	results repositories.ResultRepository,
	documents repositories.DocumentRepository,
	classifier *engine.Classifier,
) RankingService {
	return &rankingService{
		results:    results,
		documents:  documents,
		classifier: classifier,
	}
}

// rankingData is everything a ranking pass needs, loaded up front so that
// the computation itself stays pure.
type rankingData struct {
	players   map[string]models.Player
	names     map[string]string
	brackets  map[string]models.AgeBracket
	overrides map[engine.GroupKey]float64
	results   []*models.TournamentResult
}

func (s *rankingService) load(ctx context.Context, scope RankingScope) (*rankingData, error) {
	data := &rankingData{
		players:   make(map[string]models.Player),
		names:     make(map[string]string),
		brackets:  make(map[string]models.AgeBracket),
		overrides: make(map[engine.GroupKey]float64),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var players []models.Player
		if _, _, err := loadInto(gctx, s.documents, docPlayers, &players); err != nil {
			return err
		}
		for _, p := range players {
			data.players[p.ID] = p
			data.names[p.ID] = p.Name
			data.brackets[p.ID] = s.classifier.Classify(&p)
		}
		return nil
	})

	g.Go(func() error {
		// Overrides are stored keyed "<bracket>/<tier>".
		var raw map[string]float64
		if _, _, err := loadInto(gctx, s.documents, docWeights, &raw); err != nil {
			return err
		}
		for key, w := range raw {
			bracket, tier, ok := strings.Cut(key, "/")
			if !ok {
				continue
			}
			data.overrides[engine.GroupKey{
				Bracket: models.AgeBracket(bracket),
				Tier:    models.SkillTier(tier),
			}] = w
		}
		return nil
	})

	g.Go(func() error {
		var (
			results []*models.TournamentResult
			err     error
		)
		if scope.TournamentID == "" {
			results, err = s.results.ListAll(gctx)
		} else {
			results, err = s.results.ListByTournament(gctx, scope.TournamentID)
		}
		if err != nil {
			return err
		}
		data.results = results
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// roundRef keys the participant counts used for weighting: one count per
// round of a tournament, plus a tournament-wide count ("") for records
// that carry no round.
type roundRef struct {
	tournamentID string
	roundID      string
}

// cellCounts builds, per round, the participant count of every competition
// cell from the full result set. A player counts once per round they have
// a record in, in the cell given by their current age bracket and the tier
// stored on the record.
func (d *rankingData) cellCounts() map[roundRef]map[engine.GroupKey]map[string]struct{} {
	counts := make(map[roundRef]map[engine.GroupKey]map[string]struct{})
	add := func(ref roundRef, key engine.GroupKey, playerID string) {
		if counts[ref] == nil {
			counts[ref] = make(map[engine.GroupKey]map[string]struct{})
		}
		if counts[ref][key] == nil {
			counts[ref][key] = make(map[string]struct{})
		}
		counts[ref][key][playerID] = struct{}{}
	}
	for _, result := range d.results {
		bracket, ok := d.brackets[result.PlayerID]
		if !ok {
			bracket = models.BracketOpen
		}
		for _, m := range result.Matches {
			key := engine.GroupKey{Bracket: bracket, Tier: m.Tier}
			roundID := ""
			if m.RoundID != nil {
				roundID = *m.RoundID
			}
			add(roundRef{result.TournamentID, roundID}, key, result.PlayerID)
			// Every match also feeds the tournament-wide fallback count.
			add(roundRef{result.TournamentID, ""}, key, result.PlayerID)
		}
	}
	return counts
}

func (d *rankingData) weightTable(counts map[roundRef]map[engine.GroupKey]map[string]struct{}, ref roundRef) engine.WeightTable {
	sizes := make(map[engine.GroupKey]int)
	for key, members := range counts[ref] {
		sizes[key] = len(members)
	}
	return engine.WeightTable{Sizes: sizes, Overrides: d.overrides}
}

func inScope(m models.MatchRecord, scope RankingScope) bool {
	if scope.RoundID == "" {
		return true
	}
	return m.RoundID != nil && *m.RoundID == scope.RoundID
}

// compute folds one player's results into a total under the scope. Wins
// count 2x the round's group weight, close losses 1x, plain losses 0;
// each distinct round played adds one unweighted participation point.
func (d *rankingData) compute(playerID string, scope RankingScope, counts map[roundRef]map[engine.GroupKey]map[string]struct{}) PlayerPoints {
	points := PlayerPoints{PlayerID: playerID, Name: d.names[playerID]}
	bracket, ok := d.brackets[playerID]
	if !ok {
		bracket = models.BracketOpen
	}

	total := 0.0
	for _, result := range d.results {
		if result.PlayerID != playerID {
			continue
		}
		breakdown := PointsBreakdown{TournamentID: result.TournamentID}
		roundsPlayed := make(map[string]struct{})

		for _, m := range result.Matches {
			if !inScope(m, scope) {
				continue
			}
			roundID := ""
			if m.RoundID != nil {
				roundID = *m.RoundID
			}
			ref := roundRef{result.TournamentID, roundID}
			key := engine.GroupKey{Bracket: bracket, Tier: m.Tier}
			table := d.weightTable(counts, ref)
			weight := table.GroupWeight(len(counts[ref][key]), bracket, m.Tier)

			breakdown.Matches++
			switch {
			case m.IsWin:
				breakdown.Wins++
				breakdown.WeightedPoints += 2 * weight
			case m.IsCloseLoss:
				breakdown.CloseLosses++
				breakdown.WeightedPoints += 1 * weight
			}
			roundsPlayed[roundID] = struct{}{}
		}

		if breakdown.Matches == 0 {
			continue
		}
		breakdown.ParticipationPoints = len(roundsPlayed)
		breakdown.WeightedPoints = round1(breakdown.WeightedPoints)
		total += breakdown.WeightedPoints + float64(breakdown.ParticipationPoints)
		points.Breakdown = append(points.Breakdown, breakdown)
	}

	points.Total = round1(total)
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *rankingService) Points(ctx context.Context, playerID string, scope RankingScope) (*PlayerPoints, error) {
	data, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	if _, ok := data.players[playerID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	points := data.compute(playerID, scope, data.cellCounts())
	return &points, nil
}

func (s *rankingService) Ranking(ctx context.Context, scope RankingScope) ([]PlayerPoints, error) {
	data, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	counts := data.cellCounts()

	seen := make(map[string]struct{})
	ranking := make([]PlayerPoints, 0)
	for _, result := range data.results {
		if _, dup := seen[result.PlayerID]; dup {
			continue
		}
		seen[result.PlayerID] = struct{}{}

		points := data.compute(result.PlayerID, scope, counts)
		if !includeInRanking(points, scope) {
			continue
		}
		ranking = append(ranking, points)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Total != ranking[j].Total {
			return ranking[i].Total > ranking[j].Total
		}
		return ranking[i].Name < ranking[j].Name
	})
	return ranking, nil
}

func overrideKey(bracket models.AgeBracket, tier models.SkillTier) string {
	return string(bracket) + "/" + string(tier)
}

func (s *rankingService) ListWeightOverrides(ctx context.Context) (map[string]float64, error) {
	overrides := make(map[string]float64)
	if _, _, err := loadInto(ctx, s.documents, docWeights, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (s *rankingService) SetWeightOverride(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier, weight float64) error {
	if !bracket.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAgeBracket, bracket)
	}
	if !tier.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSkillTier, tier)
	}
	if weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrValidationFailed)
	}
	_, err := mutateDocument(ctx, s.documents, docWeights, func(overrides map[string]float64) (map[string]float64, error) {
		if overrides == nil {
			overrides = make(map[string]float64)
		}
		overrides[overrideKey(bracket, tier)] = weight
		return overrides, nil
	})
	return err
}

func (s *rankingService) ClearWeightOverride(ctx context.Context, bracket models.AgeBracket, tier models.SkillTier) error {
	_, err := mutateDocument(ctx, s.documents, docWeights, func(overrides map[string]float64) (map[string]float64, error) {
		if overrides == nil {
			return nil, ErrNotFound
		}
		key := overrideKey(bracket, tier)
		if _, ok := overrides[key]; !ok {
			return nil, ErrNotFound
		}
		delete(overrides, key)
		return overrides, nil
	})
	return err
}

// includeInRanking applies the scope's visibility rules: narrow scopes
// only list players who actually played in them, and a round-scoped view
// additionally hides players without a single in-scope win.
func includeInRanking(points PlayerPoints, scope RankingScope) bool {
	matches, wins := 0, 0
	for _, b := range points.Breakdown {
		matches += b.Matches
		wins += b.Wins
	}
	if scope.TournamentID == "" {
		return matches > 0 || points.Total > 0
	}
	if matches == 0 {
		return false
	}
	if scope.RoundID != "" && wins == 0 {
		return false
	}
	return true
}
