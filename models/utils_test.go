package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"6", 6, true},
		{" 7 ", 7, true},
		{"0", 0, true},
		{"999", 999, true},
		{"1000", 1000, true},
		{"99999999999999999999", NoScore, false},
		{"", NoScore, false},
		{"-3", NoScore, false},
		{"abc", NoScore, false},
		{"6.5", NoScore, false},
	}
	for _, tt := range tests {
		got, ok := ParseScore(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestMatchResult(t *testing.T) {
	m := Match{Teams: [2]Team{{Name: "A", Score: "3"}, {Name: "B", Score: "6"}}}
	w, l, ok := m.Result()
	assert.True(t, ok)
	assert.Equal(t, 1, w)
	assert.Equal(t, 0, l)
	assert.True(t, m.Completed())
	assert.True(t, m.IsWinner(1))
	assert.False(t, m.IsWinner(0))
	assert.Equal(t, Status_COMPLETED, m.Status())

	m.Teams[1].Score = "3"
	_, _, ok = m.Result()
	assert.False(t, ok)
	assert.False(t, m.Completed())
	assert.Equal(t, Status_ONGOING, m.Status())

	m.Teams[1].Score = ""
	w, _, ok = m.Result()
	assert.True(t, ok)
	assert.Equal(t, 0, w)
	assert.False(t, m.Completed())
	assert.False(t, m.IsWinner(0))

	m.Teams[0].Score = ""
	assert.Equal(t, Status_NEW, m.Status())
	assert.Equal(t, "new", m.Status().String())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "W1胜者", Team{Name: TBD, Placeholder: "W1胜者"}.DisplayName())
	assert.Equal(t, TBD, Team{Name: TBD}.DisplayName())
	assert.Equal(t, "A", Team{Name: "A", Placeholder: "W1胜者"}.DisplayName())
}

func TestBracketLookupAndClone(t *testing.T) {
	b := Bracket{
		{ID: "w1", NextWin: Ref("w5"), Teams: [2]Team{{Name: "A"}, {Name: "B"}}},
		{ID: "w5", Teams: [2]Team{{Name: TBD}, {Name: TBD}}},
	}
	assert.Equal(t, 1, b.Index("w5"))
	assert.Equal(t, -1, b.Index("gf"))
	_, ok := b.Match("gf")
	assert.False(t, ok)

	c := b.Clone()
	c[1].Teams[0].Name = "A"
	assert.Equal(t, TBD, b[1].Teams[0].Name)
	assert.Nil(t, Bracket(nil).Clone())
	assert.Equal(t, "w5", Deref(b[0].NextWin))
	assert.Equal(t, "", Deref(b[1].NextWin))
}

func TestMatchJSON(t *testing.T) {
	m := Match{
		ID:      "l1",
		Name:    "L-R1-A",
		NextWin: Ref("l3"),
		Teams:   [2]Team{{Name: TBD, Placeholder: "W1败者"}, {Name: "B", Score: "2"}},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"l1","name":"L-R1-A","nextWin":"l3","nextLose":null,
		"teams":[{"name":"TBD","score":"","placeholder":"W1败者"},{"name":"B","score":"2"}]}`, string(data))
}
