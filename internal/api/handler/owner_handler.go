package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

// OwnerHandler serves the pet-owner area: dashboard, pets, appointments and
// purchase history. Every operation proxies the clinic backend with the
// session's upstream cookie.
type OwnerHandler struct {
	clinic   ports.ClinicGateway
	sessions ports.SessionStore
}

func NewOwnerHandler(clinic ports.ClinicGateway, sessions ports.SessionStore) *OwnerHandler {
	return &OwnerHandler{clinic: clinic, sessions: sessions}
}

func (h *OwnerHandler) Dashboard(c echo.Context) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	pets, err := h.clinic.Pets(ctx, cookie)
	if err != nil {
		return err
	}
	appointments, err := h.clinic.Appointments(ctx, cookie)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "owner_dashboard", page(c, "My dashboard", echo.Map{
		"Pets":         pets,
		"Appointments": appointments,
	}))
}

func (h *OwnerHandler) Pets(c echo.Context) error {
	return h.renderPets(c, "")
}

type petForm struct {
	Name      string `form:"name" validate:"required"`
	Species   string `form:"species" validate:"required"`
	Breed     string `form:"breed"`
	BirthDate string `form:"birthDate"`
}

func (h *OwnerHandler) CreatePet(c echo.Context) error {
	var form petForm
	if err := c.Bind(&form); err != nil {
		return h.renderPets(c, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderPets(c, err.Error())
	}

	pet := domain.Pet{Name: form.Name, Species: form.Species, Breed: form.Breed}
	if form.BirthDate != "" {
		born, err := time.Parse("2006-01-02", form.BirthDate)
		if err != nil {
			return h.renderPets(c, "birth date must be YYYY-MM-DD")
		}
		pet.BirthDate = born
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if _, err := h.clinic.CreatePet(c.Request().Context(), cookie, pet); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/owner/pets")
}

func (h *OwnerHandler) DeletePet(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.clinic.DeletePet(c.Request().Context(), cookie, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/owner/pets")
}

func (h *OwnerHandler) Appointments(c echo.Context) error {
	return h.renderAppointments(c, "")
}

type appointmentForm struct {
	PetID     int64  `form:"petId" validate:"required"`
	ServiceID int64  `form:"serviceId" validate:"required"`
	Start     string `form:"start" validate:"required"`
	Note      string `form:"note"`
}

func (h *OwnerHandler) BookAppointment(c echo.Context) error {
	var form appointmentForm
	if err := c.Bind(&form); err != nil {
		return h.renderAppointments(c, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderAppointments(c, err.Error())
	}

	start, err := time.ParseInLocation("2006-01-02T15:04", form.Start, time.Local)
	if err != nil {
		return h.renderAppointments(c, "pick a valid date and time")
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	req := domain.AppointmentRequest{
		PetID:     form.PetID,
		ServiceID: form.ServiceID,
		Start:     start,
		Note:      form.Note,
	}
	if _, err := h.clinic.CreateAppointment(c.Request().Context(), cookie, req); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/owner/appointments")
}

func (h *OwnerHandler) CancelAppointment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.clinic.CancelAppointment(c.Request().Context(), cookie, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/owner/appointments")
}

func (h *OwnerHandler) Purchases(c echo.Context) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	purchases, err := h.clinic.Purchases(c.Request().Context(), cookie)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "purchases", page(c, "Purchase history", echo.Map{
		"Purchases": purchases,
	}))
}

func (h *OwnerHandler) renderPets(c echo.Context, formErr string) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	pets, err := h.clinic.Pets(c.Request().Context(), cookie)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if formErr != "" {
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, "pets", page(c, "My pets", echo.Map{
		"Pets":  pets,
		"Error": formErr,
	}))
}

func (h *OwnerHandler) renderAppointments(c echo.Context, formErr string) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	appointments, err := h.clinic.Appointments(ctx, cookie)
	if err != nil {
		return err
	}
	pets, err := h.clinic.Pets(ctx, cookie)
	if err != nil {
		return err
	}
	services, err := h.clinic.Services(ctx, cookie)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if formErr != "" {
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, "appointments", page(c, "My appointments", echo.Map{
		"Appointments": appointments,
		"Pets":         pets,
		"Services":     services,
		"Error":        formErr,
	}))
}
