package models

import (
	"errors"
	"time"
)

// Status is the basic status for matches and the bracket as a whole
type Status int32

const (
	Status_NEW       Status = 0
	Status_ONGOING   Status = 1
	Status_COMPLETED Status = 2
)

func (s Status) String() string {
	switch s {
	case Status_NEW:
		return "new"
	case Status_ONGOING:
		return "ongoing"
	case Status_COMPLETED:
		return "completed"
	}
	return "unknown"
}

// Side is the part of the bracket a match belongs to
type Side int32

const (
	Side_WINNERS Side = 0
	Side_LOSERS  Side = 1
	Side_FINALS  Side = 2
)

// TBD is the name of a slot that no finished match has filled yet
const TBD = "TBD"

// Team is one of the two slots of a match. Score is kept as the raw text the user entered.
type Team struct {
	Name        string `json:"name"`
	Score       string `json:"score"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Match is a single game between two teams, with the ids of the matches its winner and loser move on to
type Match struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	NextWin  *string `json:"nextWin"`
	NextLose *string `json:"nextLose"`
	Teams    [2]Team `json:"teams"`
}

// Bracket is the ordered list of every match in the tournament
type Bracket []Match

var (
	// ErrNoBracket is returned by a StorageEngine that has nothing persisted yet
	ErrNoBracket = errors.New("no bracket stored")
	// ErrMalformedBracket is returned when persisted bytes can't be turned back into a bracket
	ErrMalformedBracket = errors.New("malformed bracket")
)

// Snapshot describes one persisted copy of the bracket
type Snapshot struct {
	Revision string
	SavedAt  time.Time
}

// StorageEngine is a backing that keeps the latest bracket between restarts
type StorageEngine interface {
	LoadBracket() (Bracket, Snapshot, error)
	SaveBracket(b Bracket) (Snapshot, error)
	ClearBracket() error
	Close() error
}
