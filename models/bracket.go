package models

type BracketType string

const (
	BracketKnockout BracketType = "ko"
	BracketGroups   BracketType = "group"
)

// BracketSlot is one match position inside a knockout round. Participant
// references are nullable: empty slots are filled as earlier rounds are
// decided.
type BracketSlot struct {
	ID     string  `json:"id"`
	A      *string `json:"a,omitempty"`
	B      *string `json:"b,omitempty"`
	Winner *string `json:"winner,omitempty"`
}

// GroupMatch is a round-robin pairing inside a group stage. These records
// live on the bracket document and are distinct from the players'
// TournamentResult streams.
type GroupMatch struct {
	ID       string  `json:"id"`
	Round    int     `json:"round"`
	AID      string  `json:"a_id"`
	BID      string  `json:"b_id"`
	Score    string  `json:"score"`
	WinnerID *string `json:"winner_id,omitempty"`
}

type Group struct {
	Name      string       `json:"name"`
	PlayerIDs []string     `json:"player_ids"`
	Matches   []GroupMatch `json:"matches"`
}

// Bracket is either a knockout tree (Rounds set) or a group stage
// (Groups set), keyed by (age bracket, skill tier).
//
// Knockout invariants: round count = log2(padded size); each round holds
// half the slots of the previous one; the winner of match m in round r
// moves to slot floor(m/2) of round r+1, side A if m is even, side B
// otherwise.
type Bracket struct {
	Type         BracketType     `json:"type"`
	AgeBracket   AgeBracket      `json:"age_bracket"`
	Tier         SkillTier       `json:"tier"`
	TournamentID string          `json:"tournament_id,omitempty"`
	Rounds       [][]BracketSlot `json:"rounds,omitempty"`
	Groups       []Group         `json:"groups,omitempty"`
}

// GroupStanding is the derived table position of one player within a
// group. It is recomputed from the group's matches on demand and never
// persisted.
type GroupStanding struct {
	PlayerID  string `json:"player_id"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	SetsWon   int    `json:"sets_won"`
	SetsLost  int    `json:"sets_lost"`
	GamesWon  int    `json:"games_won"`
	GamesLost int    `json:"games_lost"`
	Points    int    `json:"points"`
}
