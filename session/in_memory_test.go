package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/deskmind/deskmind/core"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_LoadMissing(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Load(context.Background(), "nope")
	if !errors.Is(err, core.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestInMemoryStore_SaveThenLoadPreservesHistory(t *testing.T) {
	store := NewInMemoryStore()
	sess := core.NewSession("s1", "agent-a", "user-1")
	sess.AddTurn(core.Turn{Role: "user", Content: "hello"})
	sess.AddTurn(core.Turn{Role: "assistant", Content: "hi there", Handler: "greeting"})

	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// reload twice: history must be identical up to the second call
	first, err := store.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	second, _ := store.Load(context.Background(), "s1")
	if len(first.GetTurns()) != 2 || len(second.GetTurns()) != 2 {
		t.Fatalf("history lost on reload: %d / %d", len(first.GetTurns()), len(second.GetTurns()))
	}

	// mutation safety: returned session is a clone
	first.AddTurn(core.Turn{Role: "user", Content: "extra"})
	third, _ := store.Load(context.Background(), "s1")
	if len(third.GetTurns()) != 2 {
		t.Fatal("store leaked internal session state")
	}
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryStore()
	wg := sync.WaitGroup{}
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + (i % 5)))
			sess := core.NewSession(id, "agent-a", "user-1")
			if err := store.Save(context.Background(), sess); err != nil {
				t.Errorf("save error: %v", err)
			}
			if _, err := store.Load(context.Background(), id); err != nil && !errors.Is(err, core.ErrSessionNotFound) {
				t.Errorf("load error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if store.Len() != 5 {
		t.Fatalf("expected 5 sessions, got %d", store.Len())
	}
}
