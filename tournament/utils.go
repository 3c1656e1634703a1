package tournament

import (
	"errors"
	"fmt"

	"github.com/justinjudd/tennisbracket/models"
)

// ErrInvalidBracket is wrapped by every error Validate returns
var ErrInvalidBracket = errors.New("invalid bracket")

// Entrants are the eight teams the first round is seeded with
var Entrants = []string{"组合 A", "组合 B", "组合 C", "组合 D", "组合 E", "组合 F", "组合 G", "组合 H"}

type seedMatch struct {
	id           string
	name         string
	placeholders [2]string
}

// seedOrder lists every match in the order brackets are stored and drawn.
var seedOrder = []seedMatch{
	{"w1", "R1-A", [2]string{}},
	{"w2", "R1-B", [2]string{}},
	{"w3", "R1-C", [2]string{}},
	{"w4", "R1-D", [2]string{}},
	{"l1", "L-R1-A", [2]string{"W1败者", "W2败者"}},
	{"l2", "L-R1-B", [2]string{"W3败者", "W4败者"}},
	{"w5", "W-Semi-A", [2]string{"W1胜者", "W2胜者"}},
	{"w6", "W-Semi-B", [2]string{"W3胜者", "W4胜者"}},
	{"l3", "L-R2-A", [2]string{"L1胜者", "W6败者"}},
	{"l4", "L-R2-B", [2]string{"L2胜者", "W5败者"}},
	{"l5", "L-Semi", [2]string{"L3胜者", "L4胜者"}},
	{"w7", "W-Final", [2]string{"W5胜者", "W6胜者"}},
	{"l6", "L-Final", [2]string{"L5胜者", "W7败者"}},
	{"gf", "Grand Final", [2]string{"胜者组冠军", "败者组冠军"}},
}

// firstRound are the matches whose team names may be typed in
var firstRound = map[string]bool{"w1": true, "w2": true, "w3": true, "w4": true}

// NewBracket creates the starting bracket: the entrants in the first round, every other slot TBD
func NewBracket() models.Bracket {
	b := make(models.Bracket, 0, len(seedOrder))
	entrant := 0
	for _, s := range seedOrder {
		route := Topology[s.id]
		m := models.Match{ID: s.id, Name: s.name}
		if route.NextWin != "" {
			m.NextWin = models.Ref(route.NextWin)
		}
		if route.NextLose != "" {
			m.NextLose = models.Ref(route.NextLose)
		}
		for slot := range m.Teams {
			if firstRound[s.id] {
				m.Teams[slot] = models.Team{Name: Entrants[entrant]}
				entrant++
				continue
			}
			m.Teams[slot] = models.Team{Name: models.TBD, Placeholder: s.placeholders[slot]}
		}
		b = append(b, m)
	}
	return b
}

// SideOf returns which part of the bracket a match is drawn in
func SideOf(matchID string) models.Side {
	return Topology[matchID].Side
}

// EditableNames reports if a match accepts new team names, which only first round matches do
func EditableNames(matchID string) bool {
	return firstRound[matchID]
}

// Validate checks that a bracket, usually one read back from storage, has the fixed layout
func Validate(b models.Bracket) error {
	if len(b) != len(Topology) {
		return fmt.Errorf("%w: %d matches, want %d", ErrInvalidBracket, len(b), len(Topology))
	}
	seen := map[string]bool{}
	for _, m := range b {
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate match %q", ErrInvalidBracket, m.ID)
		}
		seen[m.ID] = true
		route, ok := Topology[m.ID]
		if !ok {
			return fmt.Errorf("%w: unknown match %q", ErrInvalidBracket, m.ID)
		}
		if models.Deref(m.NextWin) != route.NextWin {
			return fmt.Errorf("%w: match %q advances winner to %q, want %q", ErrInvalidBracket, m.ID, models.Deref(m.NextWin), route.NextWin)
		}
		if models.Deref(m.NextLose) != route.NextLose {
			return fmt.Errorf("%w: match %q drops loser to %q, want %q", ErrInvalidBracket, m.ID, models.Deref(m.NextLose), route.NextLose)
		}
	}
	return nil
}

// FormTeam is a team as submitted from the score entry form
type FormTeam struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// ApplyForm builds the team pair to pass to Advance from a submitted form.
// Names are only taken from the form for first round matches; placeholders always come from the current match.
func ApplyForm(current models.Match, form [2]FormTeam) [2]models.Team {
	var teams [2]models.Team
	for i := range teams {
		teams[i] = current.Teams[i]
		teams[i].Score = form[i].Score
		if EditableNames(current.ID) {
			teams[i].Name = form[i].Name
		}
	}
	return teams
}
