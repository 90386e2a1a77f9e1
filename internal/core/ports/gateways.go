package ports

import (
	"context"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
)

// AuthGateway is the slice of the clinic backend that establishes and
// resolves identities. All credential checks happen server-side; the portal
// only relays them.
type AuthGateway interface {
	// Register creates a new pet-owner account. Rejections the user can act
	// on (duplicate email, weak password) surface as *domain.AuthError.
	Register(ctx context.Context, reg domain.Registration) error

	// Login confirms credentials and returns the backend's session cookie.
	// Rejections surface as *domain.AuthError.
	Login(ctx context.Context, email, password string) (string, error)

	// CurrentIdentity resolves the canonical identity for the given cookie.
	// An absent or expired cookie yields domain.ErrSessionExpired.
	CurrentIdentity(ctx context.Context, cookie string) (*domain.Identity, error)

	// Logout invalidates the server-side session. Best-effort.
	Logout(ctx context.Context, cookie string) error

	// UpdateProfile edits the user's own profile fields and returns the
	// updated identity.
	UpdateProfile(ctx context.Context, cookie string, id int64, update domain.IdentityUpdate) (*domain.Identity, error)
}

// ClinicGateway is the remaining backend surface the pages consume. Every
// call replays the session's upstream cookie; the portal adds no business
// rules on top.
type ClinicGateway interface {
	// Pets
	Pets(ctx context.Context, cookie string) ([]domain.Pet, error)
	CreatePet(ctx context.Context, cookie string, pet domain.Pet) (*domain.Pet, error)
	DeletePet(ctx context.Context, cookie string, id int64) error

	// Taxonomy (admin)
	SpeciesList(ctx context.Context, cookie string) ([]domain.Species, error)
	CreateSpecies(ctx context.Context, cookie string, name string) (*domain.Species, error)
	Breeds(ctx context.Context, cookie string) ([]domain.Breed, error)
	CreateBreed(ctx context.Context, cookie string, breed domain.Breed) (*domain.Breed, error)

	// Appointments
	Appointments(ctx context.Context, cookie string) ([]domain.Appointment, error)
	CreateAppointment(ctx context.Context, cookie string, req domain.AppointmentRequest) (*domain.Appointment, error)
	CancelAppointment(ctx context.Context, cookie string, id int64) error
	UpdateAppointmentStatus(ctx context.Context, cookie string, id int64, status domain.AppointmentStatus) error

	// Services
	Services(ctx context.Context, cookie string) ([]domain.ClinicService, error)

	// Catalog
	Products(ctx context.Context, cookie string) ([]domain.Product, error)
	Product(ctx context.Context, cookie string, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, cookie string, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, cookie string, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, cookie string, id int64) error

	// Cart & purchases
	Cart(ctx context.Context, cookie string) (*domain.Cart, error)
	AddToCart(ctx context.Context, cookie string, productID int64, quantity int) (*domain.Cart, error)
	UpdateCartItem(ctx context.Context, cookie string, itemID int64, quantity int) (*domain.Cart, error)
	RemoveCartItem(ctx context.Context, cookie string, itemID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, cookie string) error
	Checkout(ctx context.Context, cookie string) (*domain.Sale, error)
	Purchases(ctx context.Context, cookie string) ([]domain.Sale, error)

	// Sales (employee)
	Sales(ctx context.Context, cookie string) ([]domain.Sale, error)
	RegisterSale(ctx context.Context, cookie string, req domain.SaleRequest) (*domain.Sale, error)

	// Accounts (admin)
	Users(ctx context.Context, cookie string) ([]domain.User, error)
	UpdateUserRole(ctx context.Context, cookie string, id int64, role domain.Role) error
	SetUserActive(ctx context.Context, cookie string, id int64, active bool) error
}
