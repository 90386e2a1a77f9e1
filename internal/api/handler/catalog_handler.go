package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/api/middleware"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

// CatalogHandler serves the public product catalog. The pages are reachable
// without a session; an owner additionally sees the add-to-cart control.
type CatalogHandler struct {
	clinic ports.ClinicGateway
}

func NewCatalogHandler(clinic ports.ClinicGateway) *CatalogHandler {
	return &CatalogHandler{clinic: clinic}
}

func (h *CatalogHandler) List(c echo.Context) error {
	products, err := h.clinic.Products(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "catalog", page(c, "Catalog", echo.Map{
		"Products": products,
	}))
}

func (h *CatalogHandler) Detail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.clinic.Product(c.Request().Context(), "", id)
	if err != nil {
		return err
	}

	sess := middleware.CurrentSession(c)
	canBuy := sess.Authenticated() &&
		sess.Identity.Role == domain.RoleOwner &&
		product.Active && product.Stock > 0

	return c.Render(http.StatusOK, "product", page(c, product.Name, echo.Map{
		"Product": product,
		"CanBuy":  canBuy,
	}))
}
