// Package history keeps the bounded, most-recent-first log of searched
// usernames and persists it through a key-value store.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/logger"
)

const (
	// DefaultKey is the storage key the ledger is persisted under.
	DefaultKey = "searchHistory"
	// Capacity is the maximum number of entries kept.
	Capacity = 10

	// timestampLayout matches JavaScript's Date.toISOString.
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// ErrMalformedStore is reported (and recovered from) when the persisted
// ledger cannot be parsed.
var ErrMalformedStore = errors.New("malformed history store")

// Entry is one past search.
type Entry struct {
	Term      string   `json:"term"`
	Timestamp string   `json:"timestamp"`
	Platforms []string `json:"platforms"`
}

// KV is the key-value capability the ledger persists through.
type KV interface {
	// Get returns ok=false when the key does not exist.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Updater is implemented by stores that can read, change and write one key
// atomically, even when other processes share the store. fn receives the
// current value and returns the one to write.
type Updater interface {
	Update(ctx context.Context, key string, fn func(current []byte, ok bool) ([]byte, error)) error
}

// Ledger keeps the history in the store, which may be shared by several
// processes (the server, the CLI, other replicas). Reads go to the store and
// every change is a read-modify-write of the stored value, so entries written
// elsewhere are never overwritten. The in-memory copy is the last state seen
// and is served only when the store cannot be read.
type Ledger struct {
	mu      sync.Mutex
	kv      KV
	key     string
	log     logger.Logger
	now     func() time.Time
	entries []Entry
}

// NewLedger creates an empty ledger bound to kv under key. Call Load to
// restore persisted entries.
func NewLedger(kv KV, key string, log logger.Logger) *Ledger {
	if key == "" {
		key = DefaultKey
	}
	return &Ledger{
		kv:      kv,
		key:     key,
		log:     log,
		now:     time.Now,
		entries: []Entry{},
	}
}

// Load restores the persisted ledger. Unparseable data yields an empty
// ledger and no error; only store failures are returned.
func (l *Ledger) Load(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read(ctx)
	if err != nil {
		return []Entry{}, err
	}
	l.entries = entries
	return l.snapshot(), nil
}

// Record moves term to the front of the ledger, stamped with the current
// time, and persists the result.
func (l *Ledger) Record(ctx context.Context, term string, platforms []string) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, len(platforms))
	copy(names, platforms)
	entry := Entry{
		Term:      term,
		Timestamp: l.now().UTC().Format(timestampLayout),
		Platforms: names,
	}

	err := l.update(ctx, func(current []Entry) []Entry {
		next := make([]Entry, 0, Capacity+1)
		next = append(next, entry)
		for _, e := range current {
			if e.Term != term {
				next = append(next, e)
			}
		}
		if len(next) > Capacity {
			next = next[:Capacity]
		}
		return next
	})
	return l.snapshot(), err
}

// Clear erases the persisted ledger.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.kv.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	l.entries = []Entry{}
	return nil
}

// Entries returns the persisted ledger, most recent first. When the store
// cannot be read the last known entries are returned.
func (l *Ledger) Entries(ctx context.Context) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refresh(ctx)
	return l.snapshot()
}

// Find returns the entry recorded for term.
func (l *Ledger) Find(ctx context.Context, term string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refresh(ctx)
	for _, e := range l.entries {
		if e.Term == term {
			return copyEntry(e), true
		}
	}
	return Entry{}, false
}

func (l *Ledger) refresh(ctx context.Context) {
	entries, err := l.read(ctx)
	if err != nil {
		l.log.Warn("history store unreadable, serving last known entries",
			logger.String("key", l.key), logger.Error(err))
		return
	}
	l.entries = entries
}

func (l *Ledger) read(ctx context.Context) ([]Entry, error) {
	data, ok, err := l.kv.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return l.decode(data, ok), nil
}

// decode never fails: missing or unreadable data is an empty ledger.
func (l *Ledger) decode(data []byte, ok bool) []Entry {
	if !ok || len(data) == 0 {
		return []Entry{}
	}
	var stored []Entry
	if err := json.Unmarshal(data, &stored); err != nil {
		l.log.Warn("discarding unreadable search history",
			logger.String("key", l.key),
			logger.Error(fmt.Errorf("%w: %v", ErrMalformedStore, err)))
		return []Entry{}
	}
	return sanitize(stored)
}

// update applies change to the stored ledger. The in-memory copy is only
// replaced once the write succeeded.
func (l *Ledger) update(ctx context.Context, change func([]Entry) []Entry) error {
	var next []Entry
	apply := func(current []byte, ok bool) ([]byte, error) {
		next = change(l.decode(current, ok))
		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal history: %w", err)
		}
		return data, nil
	}

	if u, ok := l.kv.(Updater); ok {
		if err := u.Update(ctx, l.key, apply); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
	} else {
		current, found, err := l.kv.Get(ctx, l.key)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		data, err := apply(current, found)
		if err != nil {
			return err
		}
		if err := l.kv.Set(ctx, l.key, data); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
	}

	l.entries = next
	return nil
}

func (l *Ledger) snapshot() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = copyEntry(e)
	}
	return out
}

func copyEntry(e Entry) Entry {
	platforms := make([]string, len(e.Platforms))
	copy(platforms, e.Platforms)
	e.Platforms = platforms
	return e
}

// sanitize enforces the ledger invariants on data written by someone else:
// first occurrence of a term wins and the list is cut at Capacity.
func sanitize(stored []Entry) []Entry {
	seen := make(map[string]bool, len(stored))
	out := make([]Entry, 0, min(len(stored), Capacity))
	for _, e := range stored {
		if e.Term == "" || seen[e.Term] {
			continue
		}
		seen[e.Term] = true
		if e.Platforms == nil {
			e.Platforms = []string{}
		}
		out = append(out, e)
		if len(out) == Capacity {
			break
		}
	}
	return out
}
