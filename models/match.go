package models

import "time"

// ScoringMode selects how a raw score string is interpreted when a result
// is recorded.
type ScoringMode string

const (
	ModeSets   ScoringMode = "sets"
	ModeRace4  ScoringMode = "race4"
	ModeRace10 ScoringMode = "race10"
	ModeRace15 ScoringMode = "race15"
)

func (m ScoringMode) Valid() bool {
	switch m {
	case ModeSets, ModeRace4, ModeRace10, ModeRace15:
		return true
	}
	return false
}

// MatchRecord is one player's view of a played fixture. Every completed
// fixture produces exactly two records, one per player, whose score
// strings are mirror images of each other.
type MatchRecord struct {
	ID           string      `json:"id"`
	FixtureID    *string     `json:"fixture_id,omitempty"`
	RoundID      *string     `json:"round_id,omitempty"`
	OpponentID   string      `json:"opponent_id"`
	OpponentName string      `json:"opponent_name"` // snapshot at record time
	Score        string      `json:"score"`
	IsWin        bool        `json:"is_win"`
	IsCloseLoss  bool        `json:"is_close_loss"`
	Mode         ScoringMode `json:"mode"`
	Tier         SkillTier   `json:"tier"` // tier at time of play
	PlayedAt     time.Time   `json:"played_at"`
}

// TournamentResult owns the ordered match history of one player in one
// tournament. It is created lazily on the first recorded match. Version
// counts committed writes to the row and lets callers detect staleness
// without re-reading the whole document.
type TournamentResult struct {
	ID           string        `json:"id"`
	PlayerID     string        `json:"player_id"`
	TournamentID string        `json:"tournament_id"`
	Matches      []MatchRecord `json:"matches"`
	Version      int64         `json:"version"`
}
