package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

// stubClinic overrides only the cart slice of the gateway; anything else
// called by accident panics through the embedded nil interface.
type stubClinic struct {
	ports.ClinicGateway

	cart     *domain.Cart
	updated  map[int64]int
	removed  []int64
	checkout func() (*domain.Sale, error)
}

func (s *stubClinic) Cart(context.Context, string) (*domain.Cart, error) {
	return s.cart, nil
}

func (s *stubClinic) UpdateCartItem(_ context.Context, _ string, itemID int64, qty int) (*domain.Cart, error) {
	if s.updated == nil {
		s.updated = make(map[int64]int)
	}
	s.updated[itemID] = qty
	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			s.cart.Items[i].Quantity = qty
		}
	}
	return s.cart, nil
}

func (s *stubClinic) RemoveCartItem(_ context.Context, _ string, itemID int64) (*domain.Cart, error) {
	s.removed = append(s.removed, itemID)
	items := s.cart.Items[:0]
	for _, it := range s.cart.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	s.cart.Items = items
	return s.cart, nil
}

func (s *stubClinic) Checkout(context.Context, string) (*domain.Sale, error) {
	return s.checkout()
}

func twoLineCart() *domain.Cart {
	return &domain.Cart{Items: []domain.CartItem{
		{ID: 1, ProductID: 10, Quantity: 2},
		{ID: 2, ProductID: 20, Quantity: 1},
	}}
}

func TestCartStore_Reconcile_AppliesOnlyChanges(t *testing.T) {
	clinic := &stubClinic{cart: twoLineCart()}
	carts := NewCartStore(clinic, zerolog.Nop())

	cart, err := carts.Reconcile(context.Background(), "c=1", map[int64]int{1: 5, 2: 1})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(clinic.updated) != 1 || clinic.updated[1] != 5 {
		t.Fatalf("expected a single update for item 1, got %v", clinic.updated)
	}
	if len(clinic.removed) != 0 {
		t.Fatalf("nothing should be removed, got %v", clinic.removed)
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("refreshed cart not returned: %+v", cart.Items)
	}
}

func TestCartStore_Reconcile_ZeroRemovesLine(t *testing.T) {
	clinic := &stubClinic{cart: twoLineCart()}
	carts := NewCartStore(clinic, zerolog.Nop())

	cart, err := carts.Reconcile(context.Background(), "c=1", map[int64]int{2: 0})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(clinic.removed) != 1 || clinic.removed[0] != 2 {
		t.Fatalf("expected item 2 removed, got %v", clinic.removed)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != 1 {
		t.Fatalf("unexpected cart after removal: %+v", cart.Items)
	}
}

func TestCartStore_Reconcile_NoChangesNoCalls(t *testing.T) {
	clinic := &stubClinic{cart: twoLineCart()}
	carts := NewCartStore(clinic, zerolog.Nop())

	if _, err := carts.Reconcile(context.Background(), "c=1", map[int64]int{1: 2}); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(clinic.updated) != 0 || len(clinic.removed) != 0 {
		t.Fatalf("no API calls expected: updated=%v removed=%v", clinic.updated, clinic.removed)
	}
}

func TestCartStore_Checkout_EmptyCart(t *testing.T) {
	clinic := &stubClinic{cart: &domain.Cart{}}
	carts := NewCartStore(clinic, zerolog.Nop())

	_, err := carts.Checkout(context.Background(), "c=1", nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an empty cart, got %v", err)
	}
}

func TestCartStore_Checkout_ReconcilesFirst(t *testing.T) {
	clinic := &stubClinic{
		cart:     twoLineCart(),
		checkout: func() (*domain.Sale, error) { return &domain.Sale{ID: 42, Total: 99.5}, nil },
	}
	carts := NewCartStore(clinic, zerolog.Nop())

	sale, err := carts.Checkout(context.Background(), "c=1", map[int64]int{1: 3})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if sale.ID != 42 {
		t.Fatalf("unexpected sale: %+v", sale)
	}
	if clinic.updated[1] != 3 {
		t.Fatalf("quantity edit must land before checkout, got %v", clinic.updated)
	}
}
