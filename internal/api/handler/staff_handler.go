package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

// StaffHandler serves the employee and veterinarian areas.
type StaffHandler struct {
	clinic   ports.ClinicGateway
	sessions ports.SessionStore
}

func NewStaffHandler(clinic ports.ClinicGateway, sessions ports.SessionStore) *StaffHandler {
	return &StaffHandler{clinic: clinic, sessions: sessions}
}

func (h *StaffHandler) EmployeeDashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "employee_dashboard", page(c, "Front desk", nil))
}

func (h *StaffHandler) Sales(c echo.Context) error {
	return h.renderSales(c, "")
}

type saleForm struct {
	CustomerID int64 `form:"customerId" validate:"required"`
	ProductID  int64 `form:"productId" validate:"required"`
	Quantity   int   `form:"quantity" validate:"required,min=1"`
}

func (h *StaffHandler) RegisterSale(c echo.Context) error {
	var form saleForm
	if err := c.Bind(&form); err != nil {
		return h.renderSales(c, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderSales(c, err.Error())
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	req := domain.SaleRequest{
		CustomerID: form.CustomerID,
		Items:      []domain.SaleLineInput{{ProductID: form.ProductID, Quantity: form.Quantity}},
	}
	if _, err := h.clinic.RegisterSale(c.Request().Context(), cookie, req); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/employee/sales")
}

func (h *StaffHandler) VetDashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "vet_dashboard", page(c, "Veterinarian", nil))
}

func (h *StaffHandler) VetAppointments(c echo.Context) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	appointments, err := h.clinic.Appointments(c.Request().Context(), cookie)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "vet_appointments", page(c, "Assigned appointments", echo.Map{
		"Appointments": appointments,
	}))
}

type statusForm struct {
	Status string `form:"status" validate:"required,oneof=ACCEPTED COMPLETED CANCELLED"`
}

func (h *StaffHandler) UpdateAppointmentStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var form statusForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.clinic.UpdateAppointmentStatus(c.Request().Context(), cookie, id, domain.AppointmentStatus(form.Status)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/vet/appointments")
}

// renderSales builds the combined history + register page. Customers are the
// OWNER accounts; the backend returns all users and the portal filters.
func (h *StaffHandler) renderSales(c echo.Context, formErr string) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	sales, err := h.clinic.Sales(ctx, cookie)
	if err != nil {
		return err
	}
	products, err := h.clinic.Products(ctx, cookie)
	if err != nil {
		return err
	}
	users, err := h.clinic.Users(ctx, cookie)
	if err != nil {
		return err
	}

	customers := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Role == domain.RoleOwner && u.Active {
			customers = append(customers, u)
		}
	}

	status := http.StatusOK
	if formErr != "" {
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, "sales", page(c, "Sales", echo.Map{
		"Sales":     sales,
		"Products":  products,
		"Customers": customers,
		"Error":     formErr,
	}))
}
