package engine

// RoundRobinMode selects whether every pair meets once or twice.
type RoundRobinMode string

const (
	RoundRobinSingle RoundRobinMode = "single"
	RoundRobinDouble RoundRobinMode = "double"
)

func (m RoundRobinMode) Valid() bool {
	return m == RoundRobinSingle || m == RoundRobinDouble
}

// DefaultRoundRobinMode picks double for groups of four or fewer: small
// groups need the extra fixtures to produce a meaningful ranking.
func DefaultRoundRobinMode(participantCount int) RoundRobinMode {
	if participantCount <= 4 {
		return RoundRobinDouble
	}
	return RoundRobinSingle
}

// Pairing is one generated fixture: participants A and B meet in the given
// 1-based round.
type Pairing struct {
	Round int
	A     string
	B     string
}

// GenerateRoundRobin produces round-robin pairings with the circle method:
// an odd participant count gets a bye slot, the first participant stays
// fixed while the rest rotate after each round, and pairs involving the
// bye are dropped. In double mode a mirrored second series with swapped
// sides follows the first, offset by its round count. Zero or one
// participants yield no pairings.
func GenerateRoundRobin(ids []string, mode RoundRobinMode) []Pairing {
	if len(ids) < 2 {
		return nil
	}

	circle := make([]string, len(ids))
	copy(circle, ids)
	if len(circle)%2 != 0 {
		circle = append(circle, "") // bye
	}
	n := len(circle)
	roundsPerSeries := n - 1

	var pairings []Pairing
	for round := 1; round <= roundsPerSeries; round++ {
		for i := 0; i < n/2; i++ {
			a, b := circle[i], circle[n-1-i]
			if a == "" || b == "" {
				continue
			}
			pairings = append(pairings, Pairing{Round: round, A: a, B: b})
		}
		// Rotate everything but the first position.
		last := circle[n-1]
		copy(circle[2:], circle[1:n-1])
		circle[1] = last
	}

	if mode == RoundRobinDouble {
		reverse := make([]Pairing, 0, len(pairings))
		for _, p := range pairings {
			reverse = append(reverse, Pairing{
				Round: p.Round + roundsPerSeries,
				A:     p.B,
				B:     p.A,
			})
		}
		pairings = append(pairings, reverse...)
	}
	return pairings
}
