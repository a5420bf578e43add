// Package history keeps the local list of recent conversions and the
// user's favorite unit pairs in a badger database.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// MaxEntries is the number of conversions kept in history.
const MaxEntries = 20

const (
	keyHistory   = "history:v1"
	keyFavorites = "favorites:v1"
)

// Entry is one recorded conversion.
type Entry struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Input     float64   `json:"input"`
	Output    float64   `json:"output"`
	Formatted string    `json:"formatted"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite is a saved unit pair, optionally with a value.
type Favorite struct {
	Category string    `json:"category"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Value    string    `json:"value,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// Key identifies a favorite. Two favorites with the same key are the same
// favorite.
func (f Favorite) Key() string {
	return f.Category + "::" + f.From + "::" + f.To + "::" + f.Value
}

// Store persists history and favorites. Every mutation is a single
// read-modify-write transaction.
type Store struct {
	db     *badger.DB
	clock  clockwork.Clock
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Open opens the store at path. An empty path keeps everything in memory.
func Open(path string, logger *slog.Logger, opts ...Option) (*Store, error) {
	bopts := badger.DefaultOptions(path)
	if path == "" {
		bopts = bopts.WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	s := &Store{db: db, clock: clockwork.NewRealClock(), logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Push records a conversion at the head of the history, evicting the oldest
// entries beyond MaxEntries. The stored entry is returned with its ID and
// timestamp filled in.
func (s *Store) Push(ctx context.Context, e Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	e.ID = uuid.NewString()
	e.CreatedAt = s.clock.Now().UTC()

	err := s.db.Update(func(txn *badger.Txn) error {
		var entries []Entry
		if err := getJSON(txn, keyHistory, &entries); err != nil {
			return err
		}
		entries = append([]Entry{e}, entries...)
		if len(entries) > MaxEntries {
			entries = entries[:MaxEntries]
		}
		return setJSON(txn, keyHistory, entries)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("push history entry: %w", err)
	}

	s.logger.Debug("history entry recorded", "id", e.ID, "category", e.Category)
	return e, nil
}

// History returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (s *Store) History(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyHistory, &entries)
	})
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ClearHistory removes every history entry. Favorites are kept.
func (s *Store) ClearHistory(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyHistory))
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// ToggleFavorite removes f if a favorite with the same key exists, otherwise
// adds it at the head of the list. It reports whether f is now a favorite.
func (s *Store) ToggleFavorite(ctx context.Context, f Favorite) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var added bool
	err := s.db.Update(func(txn *badger.Txn) error {
		var favs []Favorite
		if err := getJSON(txn, keyFavorites, &favs); err != nil {
			return err
		}

		key := f.Key()
		for i := range favs {
			if favs[i].Key() == key {
				favs = append(favs[:i], favs[i+1:]...)
				return setJSON(txn, keyFavorites, favs)
			}
		}

		f.AddedAt = s.clock.Now().UTC()
		favs = append([]Favorite{f}, favs...)
		added = true
		return setJSON(txn, keyFavorites, favs)
	})
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return added, nil
}

// Favorites returns the saved favorites, most recently added first.
func (s *Store) Favorites(ctx context.Context) ([]Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var favs []Favorite
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyFavorites, &favs)
	})
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	return favs, nil
}

// getJSON decodes the value at key into dest. A missing key leaves dest
// untouched.
func getJSON(txn *badger.Txn, key string, dest any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}
