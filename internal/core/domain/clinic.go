package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment as the
// clinic backend reports it.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentAccepted  AppointmentStatus = "ACCEPTED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// appointmentTransitions defines the status changes the portal offers in its
// UI. The backend is the authority; this only gates which buttons render.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:  {AppointmentAccepted, AppointmentCancelled},
	AppointmentAccepted: {AppointmentCompleted, AppointmentCancelled},
}

// CanTransitionTo reports whether moving from s to next is offered.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Pet is an owner's registered animal.
type Pet struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed"`
	BirthDate time.Time `json:"birthDate"`
	OwnerID   int64     `json:"ownerId"`
	OwnerName string    `json:"ownerName,omitempty"`
}

// Species and Breed form the admin-managed taxonomy.
type Species struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Breed struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SpeciesID int64  `json:"speciesId"`
}

// ClinicService is a bookable service (consultation, vaccination, grooming).
type ClinicService struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

// Appointment is a scheduled visit.
type Appointment struct {
	ID             int64             `json:"id"`
	PetID          int64             `json:"petId"`
	PetName        string            `json:"petName"`
	ServiceID      int64             `json:"serviceId"`
	ServiceName    string            `json:"serviceName"`
	AssignedToID   int64             `json:"assignedToId"`
	AssignedToName string            `json:"assignedToName"`
	Start          time.Time         `json:"startDateTime"`
	Note           string            `json:"note"`
	Status         AppointmentStatus `json:"status"`
}

// CanCancel, CanAccept and CanComplete report which transition controls the
// pages should offer for this appointment.
func (a Appointment) CanCancel() bool   { return a.Status.CanTransitionTo(AppointmentCancelled) }
func (a Appointment) CanAccept() bool   { return a.Status.CanTransitionTo(AppointmentAccepted) }
func (a Appointment) CanComplete() bool { return a.Status.CanTransitionTo(AppointmentCompleted) }

// AppointmentRequest is the booking payload sent to the backend.
type AppointmentRequest struct {
	PetID        int64     `json:"petId"`
	ServiceID    int64     `json:"serviceId"`
	AssignedToID int64     `json:"assignedToId"`
	Start        time.Time `json:"startDateTime"`
	Note         string    `json:"note"`
}

// Product is a catalog entry.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Active      bool    `json:"active"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// CartItem is a line in the server-held shopping cart. The item ID, not the
// product ID, addresses the line on update and remove calls.
type CartItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// Cart is the backend's cart representation for the current user.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	Total      float64    `json:"total"`
}

// SaleItem is a purchased line inside a completed sale.
type SaleItem struct {
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// Sale is a completed purchase, seen as "purchase history" by owners and as
// "sales history" by employees.
type Sale struct {
	ID           int64      `json:"id"`
	Date         time.Time  `json:"date"`
	CustomerID   int64      `json:"customerId"`
	CustomerName string     `json:"customerName"`
	Items        []SaleItem `json:"items"`
	Total        float64    `json:"total"`
}

// SaleRequest registers an in-person sale at the counter.
type SaleRequest struct {
	CustomerID int64           `json:"customerId"`
	Items      []SaleLineInput `json:"items"`
}

type SaleLineInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// User is the admin-facing account listing entry.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Active      bool   `json:"active"`
}
