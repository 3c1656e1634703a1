package tennisbracket

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/justinjudd/tennisbracket/models"
	"github.com/justinjudd/tennisbracket/tournament"
)

// ErrUnknownMatch is returned when an update names a match the bracket doesn't have
var ErrUnknownMatch = errors.New("unknown match")

// Board holds the live bracket. Every change goes through Advance and is saved before it becomes visible.
type Board struct {
	mu       sync.Mutex
	engine   models.StorageEngine
	logger   *slog.Logger
	bracket  models.Bracket
	snapshot models.Snapshot
	subs     []func(models.Bracket)
}

// NewBoard loads the saved bracket from engine, starting from the seed bracket when nothing usable is stored
func NewBoard(engine models.StorageEngine, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Board{engine: engine, logger: logger}

	bracket, snap, err := engine.LoadBracket()
	switch {
	case err == nil:
		b.bracket, b.snapshot = bracket, snap
		logger.Info("bracket loaded", slog.String("revision", snap.Revision))
	case errors.Is(err, models.ErrNoBracket):
		b.bracket = tournament.NewBracket()
		logger.Info("no saved bracket, starting from seed")
	default:
		b.bracket = tournament.NewBracket()
		logger.Warn("saved bracket unreadable, starting from seed", slog.Any("error", err))
	}
	return b
}

// Bracket returns the current bracket. The caller gets its own copy.
func (b *Board) Bracket() models.Bracket {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bracket.Clone()
}

// Revision of the last saved bracket, empty until the first save
func (b *Board) Revision() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot.Revision
}

// Match returns the current state of one match
func (b *Board) Match(id string) (models.Match, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bracket.Match(id)
}

// Update enters the teams and scores for a match and saves the result
func (b *Board) Update(matchID string, teams [2]models.Team) (models.Bracket, error) {
	return b.update(matchID, func(models.Match) [2]models.Team { return teams })
}

// UpdateForm applies a submitted form to the match as it stands when the update runs, then saves the result
func (b *Board) UpdateForm(matchID string, form [2]tournament.FormTeam) (models.Bracket, error) {
	return b.update(matchID, func(current models.Match) [2]models.Team {
		return tournament.ApplyForm(current, form)
	})
}

func (b *Board) update(matchID string, build func(current models.Match) [2]models.Team) (models.Bracket, error) {
	b.mu.Lock()
	current, ok := b.bracket.Match(matchID)
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownMatch, matchID)
	}

	teams := build(current)
	next := tournament.Advance(b.bracket, matchID, teams)
	snap, err := b.engine.SaveBracket(next)
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	b.bracket, b.snapshot = next, snap
	subs := b.subs
	b.mu.Unlock()

	b.logger.Info("match updated",
		slog.String("match", matchID),
		slog.String("score", teams[0].Score+"-"+teams[1].Score),
		slog.String("revision", snap.Revision))
	b.notify(subs, next)
	return next.Clone(), nil
}

// Reset throws away all results and goes back to the seed bracket
func (b *Board) Reset() (models.Bracket, error) {
	b.mu.Lock()
	if err := b.engine.ClearBracket(); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	b.bracket = tournament.NewBracket()
	b.snapshot = models.Snapshot{}
	next := b.bracket
	subs := b.subs
	b.mu.Unlock()

	b.logger.Info("bracket reset")
	b.notify(subs, next)
	return next.Clone(), nil
}

// Subscribe registers fn to be called with the new bracket after every update or reset
func (b *Board) Subscribe(fn func(models.Bracket)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Board) notify(subs []func(models.Bracket), bracket models.Bracket) {
	for _, fn := range subs {
		fn(bracket.Clone())
	}
}
