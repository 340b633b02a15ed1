package engine

import (
	"sort"
	"strings"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

// Standings folds a group's matches into a ranked table. Undecided matches
// contribute nothing; decided ones count a win (one point) and a loss, and
// every parseable score token adds to the game and set tallies. Tied
// tokens count for neither side's sets. The sort key is points, then set
// differential, then game differential, all descending.
func Standings(g models.Group) []models.GroupStanding {
	index := make(map[string]*models.GroupStanding, len(g.PlayerIDs))
	table := make([]*models.GroupStanding, 0, len(g.PlayerIDs))
	for _, id := range g.PlayerIDs {
		entry := &models.GroupStanding{PlayerID: id}
		index[id] = entry
		table = append(table, entry)
	}

	for _, m := range g.Matches {
		a, b := index[m.AID], index[m.BID]
		if a == nil || b == nil {
			continue
		}

		if m.WinnerID != nil {
			switch *m.WinnerID {
			case m.AID:
				a.Wins++
				a.Points++
				b.Losses++
			case m.BID:
				b.Wins++
				b.Points++
				a.Losses++
			}
		}

		for _, tok := range splitScoreTokens(m.Score) {
			ga, gb, ok := parseToken(tok)
			if !ok {
				continue
			}
			a.GamesWon += ga
			a.GamesLost += gb
			b.GamesWon += gb
			b.GamesLost += ga
			if ga > gb {
				a.SetsWon++
				b.SetsLost++
			} else if gb > ga {
				b.SetsWon++
				a.SetsLost++
			}
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		setDiffI := table[i].SetsWon - table[i].SetsLost
		setDiffJ := table[j].SetsWon - table[j].SetsLost
		if setDiffI != setDiffJ {
			return setDiffI > setDiffJ
		}
		gameDiffI := table[i].GamesWon - table[i].GamesLost
		gameDiffJ := table[j].GamesWon - table[j].GamesLost
		return gameDiffI > gameDiffJ
	})

	out := make([]models.GroupStanding, len(table))
	for i, entry := range table {
		out[i] = *entry
	}
	return out
}

func splitScoreTokens(score string) []string {
	return strings.Fields(normalizeScore(score))
}
