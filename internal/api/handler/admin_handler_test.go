package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/api/middleware"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

type stubClinicGateway struct {
	ports.ClinicGateway

	pets        []domain.Pet
	deletedPets []int64
}

func (s *stubClinicGateway) Pets(_ context.Context, cookie string) ([]domain.Pet, error) {
	if cookie == "" {
		return nil, domain.ErrForbidden
	}
	return s.pets, nil
}

func (s *stubClinicGateway) DeletePet(_ context.Context, _ string, id int64) error {
	s.deletedPets = append(s.deletedPets, id)
	return nil
}

func adminContext(t *testing.T, e *echo.Echo, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetSession(c, domain.Session{
		Identity:   &domain.Identity{ID: 1, DisplayName: "Root", Role: domain.RoleAdministrator},
		IsResolved: true,
	}, "sid-admin")
	return c, rec
}

func TestAdminHandler_Pets_ListsClinicWide(t *testing.T) {
	e := newTestEcho(t)
	clinic := &stubClinicGateway{pets: []domain.Pet{
		{ID: 1, Name: "Firulais", Species: "Dog", Breed: "Beagle", OwnerName: "Ana Torres"},
		{ID: 2, Name: "Michi", Species: "Cat", OwnerName: "Luis Paz"},
	}}
	h := NewAdminHandler(clinic, &stubSessionStore{cookie: "JSESSIONID=abc"})

	c, rec := adminContext(t, e, http.MethodGet, "/admin/pets")
	if err := h.Pets(c); err != nil {
		t.Fatalf("pets: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Firulais", "Michi", "Ana Torres", "Luis Paz"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q on the page", want)
		}
	}
}

func TestAdminHandler_DeletePet(t *testing.T) {
	e := newTestEcho(t)
	clinic := &stubClinicGateway{}
	h := NewAdminHandler(clinic, &stubSessionStore{cookie: "JSESSIONID=abc"})

	c, rec := adminContext(t, e, http.MethodPost, "/admin/pets/5/delete")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.DeletePet(c); err != nil {
		t.Fatalf("delete pet: %v", err)
	}

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/admin/pets" {
		t.Fatalf("expected 303 back to the listing, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if len(clinic.deletedPets) != 1 || clinic.deletedPets[0] != 5 {
		t.Fatalf("expected pet 5 deleted, got %v", clinic.deletedPets)
	}
}
