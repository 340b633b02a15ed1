package models

import "time"

// Fixture is a scheduled pairing, not yet necessarily played. Apart from
// time and venue a fixture is immutable once generated; withdrawing one
// deletes it instead of mutating it. The fixture id is the only key that
// correlates the two mirrored MatchRecords of a played fixture.
type Fixture struct {
	ID         string     `json:"id"`
	AgeBracket AgeBracket `json:"age_bracket"`
	Tier       SkillTier  `json:"tier"`
	Round      int        `json:"round"` // 1-based within its generation batch
	AID        string     `json:"a_id"`
	BID        string     `json:"b_id"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
}
