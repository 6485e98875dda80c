package history

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/store/memory"
)

func newTestLedger(kv KV) *Ledger {
	l := NewLedger(kv, DefaultKey, logger.NewNop())
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	l.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return l
}

func terms(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Term
	}
	return out
}

func TestRecordPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	l := newTestLedger(kv)

	if _, err := l.Record(ctx, "alice", []string{"GitHub"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	entries, err := l.Record(ctx, "bob", []string{"Twitter", "Reddit"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if got := terms(entries); !slices.Equal(got, []string{"bob", "alice"}) {
		t.Errorf("terms = %v, want [bob alice]", got)
	}
	if entries[0].Timestamp != "2024-05-01T12:00:02.000Z" {
		t.Errorf("Timestamp = %q", entries[0].Timestamp)
	}

	// A fresh ledger over the same store sees the same entries.
	reloaded, err := newTestLedger(kv).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := terms(reloaded); !slices.Equal(got, []string{"bob", "alice"}) {
		t.Errorf("reloaded terms = %v, want [bob alice]", got)
	}
	if !slices.Equal(reloaded[0].Platforms, []string{"Twitter", "Reddit"}) {
		t.Errorf("reloaded platforms = %v", reloaded[0].Platforms)
	}
}

func TestRecordSameTermTwice(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(memory.NewStore())

	_, _ = l.Record(ctx, "octocat", []string{"GitHub"})
	_, _ = l.Record(ctx, "other", nil)
	entries, _ := l.Record(ctx, "octocat", []string{"GitHub", "Twitter"})

	if got := terms(entries); !slices.Equal(got, []string{"octocat", "other"}) {
		t.Errorf("terms = %v, want [octocat other]", got)
	}
	if !slices.Equal(entries[0].Platforms, []string{"GitHub", "Twitter"}) {
		t.Errorf("platforms = %v, want latest selection", entries[0].Platforms)
	}
}

func TestRecordIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(memory.NewStore())

	_, _ = l.Record(ctx, "Octocat", nil)
	entries, _ := l.Record(ctx, "octocat", nil)

	if len(entries) != 2 {
		t.Errorf("len = %d, want 2 distinct entries", len(entries))
	}
}

func TestRecordEvictsOldest(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(memory.NewStore())

	var entries []Entry
	for i := 0; i < 11; i++ {
		var err error
		entries, err = l.Record(ctx, fmt.Sprintf("user%d", i), nil)
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	if len(entries) != Capacity {
		t.Fatalf("len = %d, want %d", len(entries), Capacity)
	}
	if entries[0].Term != "user10" {
		t.Errorf("first = %q, want user10", entries[0].Term)
	}
	if _, ok := l.Find(ctx, "user0"); ok {
		t.Error("oldest entry user0 should be evicted")
	}
	if _, ok := l.Find(ctx, "user1"); !ok {
		t.Error("user1 should still be present")
	}
}

func TestLoadMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value []byte
		set   bool
	}{
		{name: "missing key", set: false},
		{name: "empty value", value: []byte{}, set: true},
		{name: "not json", value: []byte("{oops"), set: true},
		{name: "wrong shape", value: []byte(`{"term":"x"}`), set: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := memory.NewStore()
			if tt.set {
				_ = kv.Set(ctx, DefaultKey, tt.value)
			}

			l := newTestLedger(kv)
			entries, err := l.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(entries) != 0 {
				t.Errorf("Load() = %v, want empty", entries)
			}

			// A corrupt store must not block later searches.
			if _, err := l.Record(ctx, "next", nil); err != nil {
				t.Errorf("Record() after corrupt load error = %v", err)
			}
		})
	}
}

func TestLoadSanitizes(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()

	stored := `[`
	for i := 0; i < 12; i++ {
		if i > 0 {
			stored += ","
		}
		stored += fmt.Sprintf(`{"term":"u%d","timestamp":"t","platforms":null}`, i%11)
	}
	stored += `]`
	_ = kv.Set(ctx, DefaultKey, []byte(stored))

	entries, err := newTestLedger(kv).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != Capacity {
		t.Errorf("len = %d, want %d", len(entries), Capacity)
	}
	if entries[0].Platforms == nil {
		t.Error("nil platforms should be normalized to empty")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	l := newTestLedger(kv)

	_, _ = l.Record(ctx, "alice", nil)
	if err := l.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if len(l.Entries(ctx)) != 0 {
		t.Error("Entries() should be empty after Clear()")
	}
	if _, ok, _ := kv.Get(ctx, DefaultKey); ok {
		t.Error("persisted key should be removed by Clear()")
	}
}

type failingKV struct {
	*memory.Store
	setErr error
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func (f *failingKV) Update(ctx context.Context, key string, fn func([]byte, bool) ([]byte, error)) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Update(ctx, key, fn)
}

// plainKV hides the memory store's Update so the ledger falls back to Get
// and Set.
type plainKV struct {
	s *memory.Store
}

func (p plainKV) Get(ctx context.Context, key string) ([]byte, bool, error) { return p.s.Get(ctx, key) }
func (p plainKV) Set(ctx context.Context, key string, v []byte) error       { return p.s.Set(ctx, key, v) }
func (p plainKV) Delete(ctx context.Context, key string) error              { return p.s.Delete(ctx, key) }

func TestLedgersSharingOneStore(t *testing.T) {
	stores := map[string]func(*memory.Store) KV{
		"atomic update": func(s *memory.Store) KV { return s },
		"get and set":   func(s *memory.Store) KV { return plainKV{s} },
	}

	for name, wrap := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			shared := memory.NewStore()
			server := newTestLedger(wrap(shared))
			cli := newTestLedger(wrap(shared))

			if _, err := server.Load(ctx); err != nil {
				t.Fatal(err)
			}
			if _, err := cli.Record(ctx, "from-cli", []string{"GitHub"}); err != nil {
				t.Fatal(err)
			}
			entries, err := server.Record(ctx, "from-server", nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := terms(entries); !slices.Equal(got, []string{"from-server", "from-cli"}) {
				t.Errorf("server view after record = %v", got)
			}

			persisted, _ := newTestLedger(wrap(shared)).Load(ctx)
			if got := terms(persisted); !slices.Equal(got, []string{"from-server", "from-cli"}) {
				t.Errorf("persisted terms = %v, want [from-server from-cli]", got)
			}

			if e, ok := server.Find(ctx, "from-cli"); !ok || e.Platforms[0] != "GitHub" {
				t.Errorf("Find(from-cli) = %+v, %v", e, ok)
			}

			if err := cli.Clear(ctx); err != nil {
				t.Fatal(err)
			}
			if got := server.Entries(ctx); len(got) != 0 {
				t.Errorf("server still sees %v after another ledger cleared the store", terms(got))
			}
		})
	}
}

type unreadableKV struct {
	*memory.Store
	getErr error
}

func (u *unreadableKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if u.getErr != nil {
		return nil, false, u.getErr
	}
	return u.Store.Get(ctx, key)
}

func TestEntriesFallsBackWhenStoreUnreadable(t *testing.T) {
	ctx := context.Background()
	kv := &unreadableKV{Store: memory.NewStore()}
	l := newTestLedger(kv)
	_, _ = l.Record(ctx, "alice", nil)

	kv.getErr = errors.New("connection reset")
	if got := terms(l.Entries(ctx)); !slices.Equal(got, []string{"alice"}) {
		t.Errorf("Entries() with unreadable store = %v, want last known [alice]", got)
	}
}

func TestRecordKeepsMemoryInSyncOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Store: memory.NewStore()}
	l := newTestLedger(kv)

	_, _ = l.Record(ctx, "alice", nil)

	kv.setErr = errors.New("disk full")
	entries, err := l.Record(ctx, "bob", nil)
	if err == nil {
		t.Fatal("Record() should surface the store error")
	}
	if got := terms(entries); !slices.Equal(got, []string{"alice"}) {
		t.Errorf("terms after failed write = %v, want [alice]", got)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(memory.NewStore())
	_, _ = l.Record(ctx, "alice", []string{"GitHub"})

	entries := l.Entries(ctx)
	entries[0].Platforms[0] = "changed"

	if e, _ := l.Find(ctx, "alice"); e.Platforms[0] != "GitHub" {
		t.Error("mutating Entries() result leaked into the ledger")
	}
}
