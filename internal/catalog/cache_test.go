package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/cart"
)

// mockAPI implements API with configurable behavior.
type mockAPI struct {
	listMenuItemsFn  func(ctx context.Context, token string) ([]backend.MenuItem, error)
	listTablesFn     func(ctx context.Context, token string) ([]backend.Table, error)
	listPromotionsFn func(ctx context.Context, token string) ([]cart.Promotion, error)
}

func (m *mockAPI) ListMenuItems(ctx context.Context, token string) ([]backend.MenuItem, error) {
	return m.listMenuItemsFn(ctx, token)
}
func (m *mockAPI) ListTables(ctx context.Context, token string) ([]backend.Table, error) {
	return m.listTablesFn(ctx, token)
}
func (m *mockAPI) ListPromotions(ctx context.Context, token string) ([]cart.Promotion, error) {
	return m.listPromotionsFn(ctx, token)
}

func TestMenuItemResolvesAvailableItem(t *testing.T) {
	itemID := uuid.New()
	api := &mockAPI{
		listMenuItemsFn: func(context.Context, string) ([]backend.MenuItem, error) {
			return []backend.MenuItem{
				{ID: itemID, Name: "Ca Phe Sua Da", UnitPrice: decimal.NewFromInt(20000), Available: true},
			}, nil
		},
	}
	cache := NewCache(api, nil, 0)

	item, err := cache.MenuItem(context.Background(), "tok", itemID)
	if err != nil {
		t.Fatalf("menu item: %v", err)
	}
	if item.Name != "Ca Phe Sua Da" {
		t.Errorf("name: got %q", item.Name)
	}
}

func TestMenuItemUnavailableIsNotFound(t *testing.T) {
	itemID := uuid.New()
	api := &mockAPI{
		listMenuItemsFn: func(context.Context, string) ([]backend.MenuItem, error) {
			return []backend.MenuItem{{ID: itemID, Name: "Banh Mi", Available: false}}, nil
		},
	}
	cache := NewCache(api, nil, 0)

	_, err := cache.MenuItem(context.Background(), "tok", itemID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error: got %v, want ErrNotFound", err)
	}
}

func TestMenuItemUnknownIDIsNotFound(t *testing.T) {
	api := &mockAPI{
		listMenuItemsFn: func(context.Context, string) ([]backend.MenuItem, error) {
			return nil, nil
		},
	}
	cache := NewCache(api, nil, 0)

	_, err := cache.MenuItem(context.Background(), "tok", uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error: got %v, want ErrNotFound", err)
	}
}

func TestNilRedisPassesThrough(t *testing.T) {
	calls := 0
	api := &mockAPI{
		listTablesFn: func(context.Context, string) ([]backend.Table, error) {
			calls++
			return []backend.Table{{ID: uuid.New(), Name: "T1"}}, nil
		},
	}
	cache := NewCache(api, nil, 0)

	cache.Tables(context.Background(), "tok")
	cache.Tables(context.Background(), "tok")

	if calls != 2 {
		t.Errorf("backend calls: got %d, want 2 (no cache without redis)", calls)
	}
}

func TestBackendErrorPropagates(t *testing.T) {
	api := &mockAPI{
		listPromotionsFn: func(context.Context, string) ([]cart.Promotion, error) {
			return nil, errors.New("backend down")
		},
	}
	cache := NewCache(api, nil, 0)

	if _, err := cache.Promotions(context.Background(), "tok"); err == nil {
		t.Fatal("expected error")
	}
}
