package cart_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/banmai-pos/console/internal/cart"
)

func TestMemoryStoreGetUnknownTerminalIsEmpty(t *testing.T) {
	store := cart.NewMemoryStore()

	st, err := store.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !st.IsEmpty() {
		t.Error("expected empty cart for unknown terminal")
	}
}

func TestMemoryStoreMutatePersists(t *testing.T) {
	store := cart.NewMemoryStore()
	terminalID := uuid.New()
	coffee := menuItem("Ca Phe Sua Da", 20000)

	_, err := store.Mutate(context.Background(), terminalID, func(s *cart.State) {
		s.AddItem(coffee)
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	st, _ := store.Get(context.Background(), terminalID)
	if len(st.Lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(st.Lines))
	}
}

func TestMemoryStoreTerminalsAreIsolated(t *testing.T) {
	store := cart.NewMemoryStore()
	termA := uuid.New()
	termB := uuid.New()

	store.Mutate(context.Background(), termA, func(s *cart.State) {
		s.AddItem(menuItem("Ca Phe Sua Da", 20000))
	})

	st, _ := store.Get(context.Background(), termB)
	if !st.IsEmpty() {
		t.Error("terminal B must not see terminal A's cart")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := cart.NewMemoryStore()
	terminalID := uuid.New()

	store.Mutate(context.Background(), terminalID, func(s *cart.State) {
		s.AddItem(menuItem("Ca Phe Sua Da", 20000))
	})
	if err := store.Clear(context.Background(), terminalID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	st, _ := store.Get(context.Background(), terminalID)
	if !st.IsEmpty() {
		t.Error("expected cleared cart to read empty")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := cart.NewMemoryStore()
	terminalID := uuid.New()
	coffee := menuItem("Ca Phe Sua Da", 20000)

	store.Mutate(context.Background(), terminalID, func(s *cart.State) {
		s.AddItem(coffee)
	})

	st, _ := store.Get(context.Background(), terminalID)
	st.Lines[0].Quantity = 99
	st.AddItem(menuItem("Tra Dao", 15000))

	stored, _ := store.Get(context.Background(), terminalID)
	if stored.Lines[0].Quantity != 1 || len(stored.Lines) != 1 {
		t.Error("mutating a returned state must not affect the store")
	}
}

func TestMemoryStoreConcurrentMutations(t *testing.T) {
	store := cart.NewMemoryStore()
	terminalID := uuid.New()
	coffee := menuItem("Ca Phe Sua Da", 20000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Mutate(context.Background(), terminalID, func(s *cart.State) {
				s.AddItem(coffee)
			})
		}()
	}
	wg.Wait()

	st, _ := store.Get(context.Background(), terminalID)
	if st.TotalQuantity() != 50 {
		t.Errorf("total quantity: got %d, want 50", st.TotalQuantity())
	}
}
