package models

import (
	"strconv"
	"strings"
)

// NoScore is the value an empty or unreadable score compares as
const NoScore = -1

// IsTBD determines if a team slot is still waiting on an earlier match
func (t Team) IsTBD() bool {
	return t.Name == TBD
}

// DisplayName is the text shown for a slot, the placeholder while the slot is TBD
func (t Team) DisplayName() string {
	if t.IsTBD() && t.Placeholder != "" {
		return t.Placeholder
	}
	return t.Name
}

// ParseScore reads a score typed by a user. Blank, non-numeric and negative input is reported as not ok.
func ParseScore(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoScore, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return NoScore, false
	}
	return n, true
}

// Scores returns both parsed scores, using NoScore for anything unreadable
func (m Match) Scores() (int, int) {
	a, _ := ParseScore(m.Teams[0].Score)
	b, _ := ParseScore(m.Teams[1].Score)
	return a, b
}

// Result gives the winning and losing slot. ok is false when the two scores compare equal, which covers ties and two empty scores.
func (m Match) Result() (winner, loser int, ok bool) {
	a, b := m.Scores()
	if a == b {
		return 0, 0, false
	}
	if a > b {
		return 0, 1, true
	}
	return 1, 0, true
}

// Completed reports if both scores were entered and a winner can be named
func (m Match) Completed() bool {
	a, okA := ParseScore(m.Teams[0].Score)
	b, okB := ParseScore(m.Teams[1].Score)
	return okA && okB && a != b
}

// Status of the match: NEW with no scores, COMPLETED with a winner, ONGOING otherwise
func (m Match) Status() Status {
	if m.Completed() {
		return Status_COMPLETED
	}
	if strings.TrimSpace(m.Teams[0].Score) == "" && strings.TrimSpace(m.Teams[1].Score) == "" {
		return Status_NEW
	}
	return Status_ONGOING
}

// IsWinner determines if the team in slot is the winner of a completed match
func (m Match) IsWinner(slot int) bool {
	if !m.Completed() {
		return false
	}
	winner, _, _ := m.Result()
	return winner == slot
}

// Ref turns a match id into the pointer form used for NextWin and NextLose
func Ref(id string) *string {
	return &id
}

// Deref returns the id a NextWin/NextLose pointer refers to, or "" for none
func Deref(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// Index returns the position of the match with the given id, or -1
func (b Bracket) Index(id string) int {
	for i, m := range b {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Match looks up a match by id
func (b Bracket) Match(id string) (Match, bool) {
	i := b.Index(id)
	if i < 0 {
		return Match{}, false
	}
	return b[i], true
}

// Clone copies the bracket so the copy can be changed without touching b
func (b Bracket) Clone() Bracket {
	if b == nil {
		return nil
	}
	out := make(Bracket, len(b))
	copy(out, b)
	return out
}
