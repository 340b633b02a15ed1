package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

// Outcome classifies a score from the perspective of the player listed
// first in every token. A close loss earns partial ranking points.
type Outcome struct {
	IsWin       bool `json:"is_win"`
	IsCloseLoss bool `json:"is_close_loss"`
}

var scoreTokenRe = regexp.MustCompile(`^(\d+)[:\-](\d+)$`)

// Reverse swaps the two numbers in every token of a score string, deriving
// the opponent's mirrored record from one side's input. Tokens that do not
// look like a score pass through unchanged.
func Reverse(score string) string {
	tokens := strings.Fields(normalizeScore(score))
	for i, tok := range tokens {
		if m := scoreTokenRe.FindStringSubmatch(tok); m != nil {
			tokens[i] = m[2] + ":" + m[1]
		}
	}
	return strings.Join(tokens, " ")
}

// Wellformed reports whether the string contains at least one parseable
// a:b token. Callers reject input before recording rather than storing a
// score that can never count as a win or a close loss.
func Wellformed(score string) bool {
	for _, tok := range strings.Fields(normalizeScore(score)) {
		if scoreTokenRe.MatchString(tok) {
			return true
		}
	}
	return false
}

// Analyze parses a raw score string under the given scoring mode.
//
// Race modes read only the first token a:b; the entering player wins iff
// a > b, and a loss is close when the loser got near the target (race10:
// loser >= 8 and margin <= 2; race15: loser >= 12 and margin <= 3; race4:
// never).
//
// Sets mode scores every token as a set. A lost tiebreak-style set (either
// side >= 9, or the third set of three) is close at margin <= 2; a lost
// ordinary set is close only at margin 1. The player wins iff they won
// more sets than they lost, and a loss is close iff any lost set
// qualified.
//
// Malformed tokens are skipped; an entirely malformed string yields a
// plain loss.
func Analyze(score string, mode models.ScoringMode) Outcome {
	clean := normalizeScore(score)
	if clean == "" {
		return Outcome{}
	}
	tokens := strings.Split(clean, " ")

	switch mode {
	case models.ModeRace4, models.ModeRace10, models.ModeRace15:
		return analyzeRace(tokens[0], mode)
	default:
		return analyzeSets(tokens)
	}
}

func analyzeRace(token string, mode models.ScoringMode) Outcome {
	a, b, ok := parseToken(token)
	if !ok {
		return Outcome{}
	}
	if a > b {
		return Outcome{IsWin: true}
	}
	margin := b - a
	switch mode {
	case models.ModeRace10:
		return Outcome{IsCloseLoss: a >= 8 && margin <= 2}
	case models.ModeRace15:
		return Outcome{IsCloseLoss: a >= 12 && margin <= 3}
	default: // race4 is never close
		return Outcome{}
	}
}

func analyzeSets(tokens []string) Outcome {
	setsWon, setsLost := 0, 0
	closeSetLoss := false
	closeTiebreakLoss := false

	for i, tok := range tokens {
		a, b, ok := parseToken(tok)
		if !ok {
			continue
		}
		if a > b {
			setsWon++
			continue
		}
		setsLost++
		margin := b - a
		// A match tiebreak replaces the third set; scores of 9 or more
		// also mark a tiebreak-style set.
		tiebreak := (len(tokens) == 3 && i == 2) || a >= 9 || b >= 9
		if tiebreak {
			if margin <= 2 {
				closeTiebreakLoss = true
			}
		} else if margin < 2 {
			closeSetLoss = true
		}
	}

	isWin := setsWon > setsLost
	return Outcome{
		IsWin:       isWin,
		IsCloseLoss: !isWin && (closeSetLoss || closeTiebreakLoss),
	}
}

func parseToken(token string) (int, int, bool) {
	m := scoreTokenRe.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, false
	}
	a, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

var scoreSeparatorRe = regexp.MustCompile(`[,;]+`)
var whitespaceRe = regexp.MustCompile(`\s+`)

func normalizeScore(score string) string {
	s := scoreSeparatorRe.ReplaceAllString(score, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
