package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

// CartStore reconciles the quantities a user edited on the cart page with the
// server-held cart before checkout. The backend owns pricing and stock; this
// only translates one submitted form into the minimal set of API calls.
type CartStore struct {
	clinic ports.ClinicGateway
	log    zerolog.Logger
}

func NewCartStore(clinic ports.ClinicGateway, log zerolog.Logger) *CartStore {
	return &CartStore{clinic: clinic, log: log}
}

// Reconcile applies the desired quantities (keyed by cart item ID) to the
// server cart. Items absent from desired are left untouched; non-positive
// quantities remove the line. Returns the refreshed cart.
func (s *CartStore) Reconcile(ctx context.Context, cookie string, desired map[int64]int) (*domain.Cart, error) {
	cart, err := s.clinic.Cart(ctx, cookie)
	if err != nil {
		return nil, err
	}

	changed := false
	for _, item := range cart.Items {
		want, ok := desired[item.ID]
		if !ok || want == item.Quantity {
			continue
		}
		if want <= 0 {
			if _, err := s.clinic.RemoveCartItem(ctx, cookie, item.ID); err != nil {
				return nil, err
			}
		} else {
			if _, err := s.clinic.UpdateCartItem(ctx, cookie, item.ID, want); err != nil {
				return nil, err
			}
		}
		changed = true
	}

	if !changed {
		return cart, nil
	}
	return s.clinic.Cart(ctx, cookie)
}

// Checkout reconciles pending quantity edits and then completes the purchase.
func (s *CartStore) Checkout(ctx context.Context, cookie string, desired map[int64]int) (*domain.Sale, error) {
	cart, err := s.Reconcile(ctx, cookie, desired)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrNotFound
	}

	sale, err := s.clinic.Checkout(ctx, cookie)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("sale_id", sale.ID).Float64("total", sale.Total).Msg("checkout completed")
	return sale, nil
}
