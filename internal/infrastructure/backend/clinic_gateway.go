package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
)

// ClinicGateway implements ports.ClinicGateway. Paths mirror the backend's
// REST surface one-to-one; the portal never reinterprets the payloads.
type ClinicGateway struct {
	*Client
}

func NewClinicGateway(client *Client) *ClinicGateway {
	return &ClinicGateway{Client: client}
}

// ── Pets ─────────────────────────────────────────────────────────────────────

func (g *ClinicGateway) Pets(ctx context.Context, cookie string) ([]domain.Pet, error) {
	var pets []domain.Pet
	if err := g.do(ctx, "list_pets", http.MethodGet, "/pets", cookie, nil, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

func (g *ClinicGateway) CreatePet(ctx context.Context, cookie string, pet domain.Pet) (*domain.Pet, error) {
	var created domain.Pet
	if err := g.do(ctx, "create_pet", http.MethodPost, "/pets", cookie, pet, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *ClinicGateway) DeletePet(ctx context.Context, cookie string, id int64) error {
	return g.do(ctx, "delete_pet", http.MethodDelete, fmt.Sprintf("/pets/%d", id), cookie, nil, nil)
}

// ── Taxonomy ─────────────────────────────────────────────────────────────────

func (g *ClinicGateway) SpeciesList(ctx context.Context, cookie string) ([]domain.Species, error) {
	var out []domain.Species
	if err := g.do(ctx, "list_species", http.MethodGet, "/species", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *ClinicGateway) CreateSpecies(ctx context.Context, cookie string, name string) (*domain.Species, error) {
	var created domain.Species
	body := map[string]string{"name": name}
	if err := g.do(ctx, "create_species", http.MethodPost, "/admin/species", cookie, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *ClinicGateway) Breeds(ctx context.Context, cookie string) ([]domain.Breed, error) {
	var out []domain.Breed
	if err := g.do(ctx, "list_breeds", http.MethodGet, "/breeds", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *ClinicGateway) CreateBreed(ctx context.Context, cookie string, breed domain.Breed) (*domain.Breed, error) {
	var created domain.Breed
	if err := g.do(ctx, "create_breed", http.MethodPost, "/admin/breeds", cookie, breed, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ── Appointments ─────────────────────────────────────────────────────────────

func (g *ClinicGateway) Appointments(ctx context.Context, cookie string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	if err := g.do(ctx, "list_appointments", http.MethodGet, "/appointments", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *ClinicGateway) CreateAppointment(ctx context.Context, cookie string, req domain.AppointmentRequest) (*domain.Appointment, error) {
	var created domain.Appointment
	if err := g.do(ctx, "create_appointment", http.MethodPost, "/appointments", cookie, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *ClinicGateway) CancelAppointment(ctx context.Context, cookie string, id int64) error {
	return g.do(ctx, "cancel_appointment", http.MethodPut, fmt.Sprintf("/appointments/%d/cancel", id), cookie, nil, nil)
}

func (g *ClinicGateway) UpdateAppointmentStatus(ctx context.Context, cookie string, id int64, status domain.AppointmentStatus) error {
	body := map[string]string{"status": string(status)}
	return g.do(ctx, "update_appointment_status", http.MethodPut, fmt.Sprintf("/appointments/%d/status", id), cookie, body, nil)
}

// ── Services ─────────────────────────────────────────────────────────────────

func (g *ClinicGateway) Services(ctx context.Context, cookie string) ([]domain.ClinicService, error) {
	var out []domain.ClinicService
	if err := g.do(ctx, "list_services", http.MethodGet, "/services", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (g *ClinicGateway) Products(ctx context.Context, cookie string) ([]domain.Product, error) {
	var out []domain.Product
	if err := g.do(ctx, "list_products", http.MethodGet, "/products", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *ClinicGateway) Product(ctx context.Context, cookie string, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := g.do(ctx, "get_product", http.MethodGet, fmt.Sprintf("/products/%d", id), cookie, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *ClinicGateway) CreateProduct(ctx context.Context, cookie string, p domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := g.do(ctx, "create_product", http.MethodPost, "/admin/products", cookie, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *ClinicGateway) UpdateProduct(ctx context.Context, cookie string, p domain.Product) (*domain.Product, error) {
	var updated domain.Product
	if err := g.do(ctx, "update_product", http.MethodPut, fmt.Sprintf("/admin/products/%d", p.ID), cookie, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *ClinicGateway) DeleteProduct(ctx context.Context, cookie string, id int64) error {
	return g.do(ctx, "delete_product", http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), cookie, nil, nil)
}

// ── Cart & purchases ─────────────────────────────────────────────────────────

func (g *ClinicGateway) Cart(ctx context.Context, cookie string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := g.do(ctx, "get_cart", http.MethodGet, "/cart", cookie, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (g *ClinicGateway) AddToCart(ctx context.Context, cookie string, productID int64, quantity int) (*domain.Cart, error) {
	var cart domain.Cart
	body := map[string]any{"productId": productID, "quantity": quantity}
	if err := g.do(ctx, "add_to_cart", http.MethodPost, "/cart/items", cookie, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (g *ClinicGateway) UpdateCartItem(ctx context.Context, cookie string, itemID int64, quantity int) (*domain.Cart, error) {
	var cart domain.Cart
	body := map[string]int{"quantity": quantity}
	if err := g.do(ctx, "update_cart_item", http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), cookie, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (g *ClinicGateway) RemoveCartItem(ctx context.Context, cookie string, itemID int64) (*domain.Cart, error) {
	var cart domain.Cart
	if err := g.do(ctx, "remove_cart_item", http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), cookie, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (g *ClinicGateway) ClearCart(ctx context.Context, cookie string) error {
	return g.do(ctx, "clear_cart", http.MethodDelete, "/cart", cookie, nil, nil)
}

func (g *ClinicGateway) Checkout(ctx context.Context, cookie string) (*domain.Sale, error) {
	var sale domain.Sale
	if err := g.do(ctx, "checkout", http.MethodPost, "/cart/purchase", cookie, nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (g *ClinicGateway) Purchases(ctx context.Context, cookie string) ([]domain.Sale, error) {
	var out []domain.Sale
	if err := g.do(ctx, "list_purchases", http.MethodGet, "/purchases", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

func (g *ClinicGateway) Sales(ctx context.Context, cookie string) ([]domain.Sale, error) {
	var out []domain.Sale
	if err := g.do(ctx, "list_sales", http.MethodGet, "/sales", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *ClinicGateway) RegisterSale(ctx context.Context, cookie string, req domain.SaleRequest) (*domain.Sale, error) {
	var sale domain.Sale
	if err := g.do(ctx, "register_sale", http.MethodPost, "/sales", cookie, req, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// ── Accounts ─────────────────────────────────────────────────────────────────

func (g *ClinicGateway) Users(ctx context.Context, cookie string) ([]domain.User, error) {
	var out []domain.User
	if err := g.do(ctx, "list_users", http.MethodGet, "/users", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *ClinicGateway) UpdateUserRole(ctx context.Context, cookie string, id int64, role domain.Role) error {
	body := map[string]string{"role": string(role)}
	return g.do(ctx, "update_user_role", http.MethodPut, fmt.Sprintf("/admin/users/%d/role", id), cookie, body, nil)
}

func (g *ClinicGateway) SetUserActive(ctx context.Context, cookie string, id int64, active bool) error {
	action := "deactivate"
	if active {
		action = "activate"
	}
	return g.do(ctx, "set_user_active", http.MethodPut, fmt.Sprintf("/admin/users/%d/%s", id, action), cookie, nil, nil)
}
