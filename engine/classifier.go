package engine

import (
	"time"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

// Classifier maps players to age brackets. Boundaries are inclusive birth
// year ranges anchored at a fixed season year, so classification is stable
// for the whole season regardless of when it runs.
type Classifier struct {
	season int
}

func NewClassifier(seasonYear int) *Classifier {
	if seasonYear <= 0 {
		seasonYear = time.Now().Year()
	}
	return &Classifier{season: seasonYear}
}

// Classify returns the player's age bracket: the manual override if one is
// set, otherwise the bracket derived from the birth year. Players with a
// missing or unparseable birth date resolve to the oldest bracket; this is
// a deliberate silent fallback, not an error.
func (c *Classifier) Classify(p *models.Player) models.AgeBracket {
	if p == nil {
		return models.BracketOpen
	}
	if p.Override != nil && p.Override.Valid() {
		return *p.Override
	}
	year, ok := birthYear(p.BirthDate)
	if !ok {
		return models.BracketOpen
	}
	age := c.season - year
	switch {
	case age <= 12:
		return models.BracketU12
	case age <= 15:
		return models.BracketU15
	case age <= 18:
		return models.BracketU18
	default:
		return models.BracketOpen
	}
}

// CanPlayUp reports whether the player may be scheduled in target: their
// own bracket or any older one, never a younger one.
func (c *Classifier) CanPlayUp(p *models.Player, target models.AgeBracket) bool {
	return c.Classify(p).Ordinal() <= target.Ordinal()
}

func birthYear(birthDate *string) (int, bool) {
	if birthDate == nil || *birthDate == "" {
		return 0, false
	}
	for _, layout := range []string{"2006-01-02", "2006"} {
		if t, err := time.Parse(layout, *birthDate); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}
