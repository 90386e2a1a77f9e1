package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
)

// AdminHandler serves the administration area: catalog management, the
// species/breed taxonomy and user accounts.
type AdminHandler struct {
	clinic   ports.ClinicGateway
	sessions ports.SessionStore
}

func NewAdminHandler(clinic ports.ClinicGateway, sessions ports.SessionStore) *AdminHandler {
	return &AdminHandler{clinic: clinic, sessions: sessions}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	products, err := h.clinic.Products(ctx, cookie)
	if err != nil {
		return err
	}
	users, err := h.clinic.Users(ctx, cookie)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "admin_dashboard", page(c, "Administration", echo.Map{
		"ProductCount": len(products),
		"UserCount":    len(users),
	}))
}

func (h *AdminHandler) Products(c echo.Context) error {
	return h.renderProducts(c, "")
}

type productForm struct {
	Name        string  `form:"name" validate:"required"`
	Category    string  `form:"category"`
	Description string  `form:"description"`
	Price       float64 `form:"price" validate:"required,gt=0"`
	Stock       int     `form:"stock" validate:"min=0"`
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var form productForm
	if err := c.Bind(&form); err != nil {
		return h.renderProducts(c, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderProducts(c, err.Error())
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	product := domain.Product{
		Name:        form.Name,
		Category:    form.Category,
		Description: form.Description,
		Price:       form.Price,
		Stock:       form.Stock,
		Active:      true,
	}
	if _, err := h.clinic.CreateProduct(c.Request().Context(), cookie, product); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/products")
}

// ToggleProduct flips a product's availability without losing its history;
// deletion stays reserved for catalog mistakes.
func (h *AdminHandler) ToggleProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	product, err := h.clinic.Product(ctx, cookie, id)
	if err != nil {
		return err
	}
	product.Active = !product.Active
	if _, err := h.clinic.UpdateProduct(ctx, cookie, *product); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/products")
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.clinic.DeleteProduct(c.Request().Context(), cookie, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/products")
}

// Pets lists every registered pet with its owner. The backend scopes /pets by
// the caller's role, so the admin cookie yields the clinic-wide view.
func (h *AdminHandler) Pets(c echo.Context) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	pets, err := h.clinic.Pets(c.Request().Context(), cookie)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "admin_pets", page(c, "Registered pets", echo.Map{
		"Pets": pets,
	}))
}

func (h *AdminHandler) DeletePet(c echo.Context) error {
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
	return c.Redirect(http.StatusSeeOther, "/admin/pets")
}

func (h *AdminHandler) Taxonomy(c echo.Context) error {
	return h.renderTaxonomy(c, "")
}

type nameForm struct {
	Name string `form:"name" validate:"required"`
}

func (h *AdminHandler) CreateSpecies(c echo.Context) error {
	var form nameForm
	if err := c.Bind(&form); err != nil {
		return h.renderTaxonomy(c, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderTaxonomy(c, err.Error())
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if _, err := h.clinic.CreateSpecies(c.Request().Context(), cookie, form.Name); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/taxonomy")
}

type breedForm struct {
	Name      string `form:"name" validate:"required"`
	SpeciesID int64  `form:"speciesId" validate:"required"`
}

func (h *AdminHandler) CreateBreed(c echo.Context) error {
	var form breedForm
	if err := c.Bind(&form); err != nil {
		return h.renderTaxonomy(c, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderTaxonomy(c, err.Error())
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	breed := domain.Breed{Name: form.Name, SpeciesID: form.SpeciesID}
	if _, err := h.clinic.CreateBreed(c.Request().Context(), cookie, breed); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/taxonomy")
}

func (h *AdminHandler) Users(c echo.Context) error {
	return h.renderUsers(c, "")
}

func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	role, err := domain.ParseRole(c.FormValue("role"))
	if err != nil {
		return h.renderUsers(c, "unknown role")
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.clinic.UpdateUserRole(c.Request().Context(), cookie, id, role); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/users")
}

func (h *AdminHandler) SetUserActive(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	active, err := strconv.ParseBool(c.FormValue("active"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.clinic.SetUserActive(c.Request().Context(), cookie, id, active); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/users")
}

func (h *AdminHandler) renderProducts(c echo.Context, formErr string) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	products, err := h.clinic.Products(c.Request().Context(), cookie)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if formErr != "" {
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, "admin_products", page(c, "Products", echo.Map{
		"Products": products,
		"Error":    formErr,
	}))
}

func (h *AdminHandler) renderTaxonomy(c echo.Context, formErr string) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	species, err := h.clinic.SpeciesList(ctx, cookie)
	if err != nil {
		return err
	}
	breeds, err := h.clinic.Breeds(ctx, cookie)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if formErr != "" {
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, "admin_taxonomy", page(c, "Species & breeds", echo.Map{
		"Species": species,
		"Breeds":  breeds,
		"Error":   formErr,
	}))
}

func (h *AdminHandler) renderUsers(c echo.Context, formErr string) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	users, err := h.clinic.Users(c.Request().Context(), cookie)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if formErr != "" {
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, "admin_users", page(c, "User accounts", echo.Map{
		"Users": users,
		"Roles": domain.AllRoles(),
		"Error": formErr,
	}))
}
