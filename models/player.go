package models

import "time"

// AgeBracket is the cohort a player competes in, derived from the birth
// year. The four values are ordered youngest to oldest; a player may be
// scheduled in their own bracket or any older one, never a younger one.
type AgeBracket string

const (
	BracketU12  AgeBracket = "U12"
	BracketU15  AgeBracket = "U15"
	BracketU18  AgeBracket = "U18"
	BracketOpen AgeBracket = "Open"
)

// Ordinal returns the position of the bracket in the age ordering,
// 0 for the youngest. Unknown values sort oldest.
func (b AgeBracket) Ordinal() int {
	switch b {
	case BracketU12:
		return 0
	case BracketU15:
		return 1
	case BracketU18:
		return 2
	default:
		return 3
	}
}

func (b AgeBracket) Valid() bool {
	switch b {
	case BracketU12, BracketU15, BracketU18, BracketOpen:
		return true
	}
	return false
}

// SkillTier is one of three competitive levels. Fixtures between players
// of different tiers are rejected.
type SkillTier string

const (
	TierA SkillTier = "A"
	TierB SkillTier = "B"
	TierC SkillTier = "C"
)

func (t SkillTier) Valid() bool {
	switch t {
	case TierA, TierB, TierC:
		return true
	}
	return false
}

type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	BirthDate *string     `json:"birth_date,omitempty"` // YYYY-MM-DD, may be absent
	Override  *AgeBracket `json:"age_override,omitempty"`
	Tier      SkillTier   `json:"tier"`

	// Club and contact data are carried for display only and never
	// influence scheduling or scoring.
	Club  *string `json:"club,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`

	// Doubles teams are stored as synthetic players referencing their
	// two members.
	IsTeam    bool     `json:"is_team,omitempty"`
	MemberIDs []string `json:"member_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
