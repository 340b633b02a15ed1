package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

var (
	ErrNotEnoughParticipants = errors.New("not enough participants")
	ErrInvalidBracketSize    = errors.New("invalid bracket size")
	ErrSlotOutOfRange        = errors.New("bracket slot out of range")
	ErrNotKnockout           = errors.New("bracket is not a knockout tree")
)

// bracketSizes are the supported knockout tree sizes.
var bracketSizes = []int{4, 8, 16, 32, 64}

// FitBracketSize returns the smallest supported bracket size that holds
// seedCount participants.
func FitBracketSize(seedCount int) (int, error) {
	for _, size := range bracketSizes {
		if seedCount <= size {
			return size, nil
		}
	}
	return 0, fmt.Errorf("%w: %d seeds exceed the largest bracket", ErrInvalidBracketSize, seedCount)
}

// BuildBracket creates a single-elimination tree from an ordered seed
// list. The list is padded with empty slots up to size (pass 0 to choose
// the smallest suitable size automatically); round one pairs consecutive
// seeds and every later round starts empty with half the slots of the
// previous one. With randomize set, seeds are shuffled before padding.
func BuildBracket(seedIDs []string, size int, randomize bool) (*models.Bracket, error) {
	if len(seedIDs) < 2 {
		return nil, fmt.Errorf("%w: found %d, min 2 required", ErrNotEnoughParticipants, len(seedIDs))
	}

	if size == 0 {
		fitted, err := FitBracketSize(len(seedIDs))
		if err != nil {
			return nil, err
		}
		size = fitted
	} else {
		supported := false
		for _, s := range bracketSizes {
			if s == size {
				supported = true
				break
			}
		}
		if !supported {
			return nil, fmt.Errorf("%w: %d", ErrInvalidBracketSize, size)
		}
		if len(seedIDs) > size {
			return nil, fmt.Errorf("%w: %d seeds do not fit bracket of %d", ErrInvalidBracketSize, len(seedIDs), size)
		}
	}

	seeds := make([]*string, size)
	order := make([]string, len(seedIDs))
	copy(order, seedIDs)
	if randomize {
		rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	for i := range order {
		id := order[i]
		seeds[i] = &id
	}

	numRounds := 0
	for s := size; s > 1; s /= 2 {
		numRounds++
	}

	rounds := make([][]models.BracketSlot, 0, numRounds)
	first := make([]models.BracketSlot, 0, size/2)
	for i := 0; i < size; i += 2 {
		first = append(first, models.BracketSlot{
			ID: uuid.NewString(),
			A:  seeds[i],
			B:  seeds[i+1],
		})
	}
	rounds = append(rounds, first)

	for slots := size / 4; slots >= 1; slots /= 2 {
		round := make([]models.BracketSlot, slots)
		for i := range round {
			round[i] = models.BracketSlot{ID: uuid.NewString()}
		}
		rounds = append(rounds, round)
	}

	return &models.Bracket{
		Type:   models.BracketKnockout,
		Rounds: rounds,
	}, nil
}

// Advance records the winner of the given slot and, if a next round
// exists, writes them into slot floor(matchIndex/2) of it, side A when
// matchIndex is even and side B otherwise.
//
// Re-advancing a decided match overwrites the recorded winner and the
// immediate next-round slot, but does not clear deeper rounds that were
// already filled from the old winner. Operators changing an outcome late
// must re-advance the affected downstream matches themselves.
func Advance(b *models.Bracket, roundIndex, matchIndex int, winnerID string) error {
	if b == nil || b.Type != models.BracketKnockout {
		return ErrNotKnockout
	}
	if roundIndex < 0 || roundIndex >= len(b.Rounds) {
		return fmt.Errorf("%w: round %d", ErrSlotOutOfRange, roundIndex)
	}
	if matchIndex < 0 || matchIndex >= len(b.Rounds[roundIndex]) {
		return fmt.Errorf("%w: match %d in round %d", ErrSlotOutOfRange, matchIndex, roundIndex)
	}

	winner := winnerID
	b.Rounds[roundIndex][matchIndex].Winner = &winner

	next := roundIndex + 1
	if next < len(b.Rounds) {
		slot := &b.Rounds[next][matchIndex/2]
		if matchIndex%2 == 0 {
			slot.A = &winner
		} else {
			slot.B = &winner
		}
	}
	return nil
}

// Promote derives a knockout seed list from group standings: the winner of
// group i is paired with the runner-up of group (i+1) mod n, and any
// runner-up left over is appended, producing a bye in the resulting tree.
func Promote(groups []models.Group) ([]string, error) {
	firsts := make([]string, 0, len(groups))
	seconds := make([]string, 0, len(groups))
	for _, g := range groups {
		standings := Standings(g)
		if len(standings) > 0 {
			firsts = append(firsts, standings[0].PlayerID)
		}
		if len(standings) > 1 {
			seconds = append(seconds, standings[1].PlayerID)
		}
	}

	seeds := make([]string, 0, len(firsts)+len(seconds))
	used := make(map[string]bool, len(seconds))
	for i, first := range firsts {
		seeds = append(seeds, first)
		if len(seconds) == 0 {
			continue
		}
		second := seconds[(i+1)%len(seconds)]
		if !used[second] {
			seeds = append(seeds, second)
			used[second] = true
		}
	}
	for _, second := range seconds {
		if !used[second] {
			seeds = append(seeds, second)
			used[second] = true
		}
	}

	if len(seeds) < 2 {
		return nil, fmt.Errorf("%w: %d qualifiers from %d groups", ErrNotEnoughParticipants, len(seeds), len(groups))
	}
	return seeds, nil
}
