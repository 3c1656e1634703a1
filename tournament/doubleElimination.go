package tournament

import (
	"github.com/justinjudd/tennisbracket/models"
)

var doubleEliminationBrackets = []string{"Winners Bracket", "Losers Bracket", "Finals"}

// Route is where the winner and loser of a match go, and which slot they take there
type Route struct {
	NextWin  string // "" when the winner doesn't move on
	WinSlot  int
	NextLose string // "" when the loser is eliminated
	LoseSlot int
	Side     models.Side
}

// Topology of the eight team double elimination bracket, keyed by match id
var Topology = map[string]Route{
	"w1": {NextWin: "w5", WinSlot: 0, NextLose: "l1", LoseSlot: 0, Side: models.Side_WINNERS},
	"w2": {NextWin: "w5", WinSlot: 1, NextLose: "l1", LoseSlot: 1, Side: models.Side_WINNERS},
	"w3": {NextWin: "w6", WinSlot: 0, NextLose: "l2", LoseSlot: 0, Side: models.Side_WINNERS},
	"w4": {NextWin: "w6", WinSlot: 1, NextLose: "l2", LoseSlot: 1, Side: models.Side_WINNERS},
	"w5": {NextWin: "w7", WinSlot: 0, NextLose: "l4", LoseSlot: 1, Side: models.Side_WINNERS},
	"w6": {NextWin: "w7", WinSlot: 1, NextLose: "l3", LoseSlot: 1, Side: models.Side_WINNERS},
	"w7": {NextWin: "gf", WinSlot: 0, NextLose: "l6", LoseSlot: 1, Side: models.Side_WINNERS},
	"l1": {NextWin: "l3", WinSlot: 0, Side: models.Side_LOSERS},
	"l2": {NextWin: "l4", WinSlot: 0, Side: models.Side_LOSERS},
	"l3": {NextWin: "l5", WinSlot: 0, Side: models.Side_LOSERS},
	"l4": {NextWin: "l5", WinSlot: 1, Side: models.Side_LOSERS},
	"l5": {NextWin: "l6", WinSlot: 0, Side: models.Side_LOSERS},
	"l6": {NextWin: "gf", WinSlot: 1, Side: models.Side_LOSERS},
	"gf": {Side: models.Side_FINALS},
}

// GetBracketOrder returns the display names of the bracket sections, in display order
func GetBracketOrder() []string {
	return doubleEliminationBrackets
}

// SideName is the display name of a bracket section
func SideName(s models.Side) string {
	if int(s) < 0 || int(s) >= len(doubleEliminationBrackets) {
		return ""
	}
	return doubleEliminationBrackets[s]
}

// Advance records the teams and scores for one match and moves its winner and loser into the
// matches they feed. The input bracket is never modified; a new bracket is returned.
//
// Only the names of the two downstream slots are written. Matches further along are left
// alone even if an earlier result is changed after they were filled.
func Advance(b models.Bracket, matchID string, teams [2]models.Team) models.Bracket {
	updated := b.Clone()

	i := updated.Index(matchID)
	if i < 0 {
		return updated
	}
	updated[i].Teams = teams
	current := updated[i]

	winner, loser, ok := current.Result()
	if !ok {
		return updated
	}

	route := Topology[matchID]
	if next := models.Deref(current.NextWin); next != "" {
		placeTeam(updated, next, route.WinSlot, current.Teams[winner].Name)
	}
	if next := models.Deref(current.NextLose); next != "" {
		placeTeam(updated, next, route.LoseSlot, current.Teams[loser].Name)
	}

	return updated
}

// placeTeam overwrites the name in one slot of a match, keeping its score and placeholder.
func placeTeam(b models.Bracket, matchID string, slot int, name string) {
	j := b.Index(matchID)
	if j < 0 {
		return
	}
	b[j].Teams[slot].Name = name
}

// Champion returns the winner of the grand final once it has been played
func Champion(b models.Bracket) (string, bool) {
	gf, ok := b.Match("gf")
	if !ok || !gf.Completed() {
		return "", false
	}
	winner, _, _ := gf.Result()
	return gf.Teams[winner].Name, true
}
