package storm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/justinjudd/tennisbracket/models"
	"github.com/justinjudd/tennisbracket/tournament"

	"github.com/asdine/storm"
	"github.com/rs/xid"
)

// currentKey is the id of the single snapshot record the engine keeps
const currentKey = "current"

type engine struct {
	*storm.DB
	now func() time.Time
}

// snapshot is the stored record. Data holds the bracket as the same JSON the HTTP API serves.
type snapshot struct {
	ID       string `storm:"id"`
	Revision string
	SavedAt  time.Time
	Data     []byte
}

// NewStorageEngine creates and returns a StorageEngine meeting the engine interface, using a storm db backend
func NewStorageEngine(path string) (models.StorageEngine, error) {
	db, err := storm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Unable to open storage engine: %w", err)
	}

	return &engine{db, time.Now}, nil
}

func (e *engine) LoadBracket() (models.Bracket, models.Snapshot, error) {
	var s snapshot
	err := e.One("ID", currentKey, &s)
	if errors.Is(err, storm.ErrNotFound) {
		return nil, models.Snapshot{}, models.ErrNoBracket
	}
	if err != nil {
		return nil, models.Snapshot{}, fmt.Errorf("%w: %v", models.ErrMalformedBracket, err)
	}

	meta := models.Snapshot{Revision: s.Revision, SavedAt: s.SavedAt}
	var b models.Bracket
	if err := json.Unmarshal(s.Data, &b); err != nil {
		return nil, meta, fmt.Errorf("%w: %v", models.ErrMalformedBracket, err)
	}
	if err := tournament.Validate(b); err != nil {
		return nil, meta, fmt.Errorf("%w: %v", models.ErrMalformedBracket, err)
	}

	return b, meta, nil
}

func (e *engine) SaveBracket(b models.Bracket) (models.Snapshot, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("Unable to encode bracket: %w", err)
	}
	s := snapshot{ID: currentKey, Revision: xid.New().String(), SavedAt: e.now().UTC(), Data: data}
	if err := e.Save(&s); err != nil {
		return models.Snapshot{}, fmt.Errorf("Unable to save bracket: %w", err)
	}

	return models.Snapshot{Revision: s.Revision, SavedAt: s.SavedAt}, nil
}

func (e *engine) ClearBracket() error {
	err := e.DeleteStruct(&snapshot{ID: currentKey})
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return fmt.Errorf("Unable to clear bracket: %w", err)
	}
	return nil
}
