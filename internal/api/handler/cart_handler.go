package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
	"github.com/vetcareservices/clinic-portal/internal/core/service"
)

// CartHandler serves the owner's shopping cart. Quantity edits arrive as one
// form (qty_<itemID> fields); the CartStore reconciles them against the
// server cart before any checkout.
type CartHandler struct {
	carts    *service.CartStore
	clinic   ports.ClinicGateway
	sessions ports.SessionStore
}

func NewCartHandler(carts *service.CartStore, clinic ports.ClinicGateway, sessions ports.SessionStore) *CartHandler {
	return &CartHandler{carts: carts, clinic: clinic, sessions: sessions}
}

func (h *CartHandler) View(c echo.Context) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	cart, err := h.clinic.Cart(c.Request().Context(), cookie)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "cart", page(c, "Shopping cart", echo.Map{"Cart": cart}))
}

// Submit handles both buttons on the cart form: "update" reconciles the
// edited quantities, "checkout" reconciles and completes the purchase.
func (h *CartHandler) Submit(c echo.Context) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	desired := desiredQuantities(form)

	ctx := c.Request().Context()
	switch c.FormValue("action") {
	case "checkout":
		sale, err := h.carts.Checkout(ctx, cookie, desired)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return h.renderCartError(c, cookie, "your cart is empty")
			}
			return err
		}
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/owner/purchases?placed=%d", sale.ID))
	default:
		if _, err := h.carts.Reconcile(ctx, cookie, desired); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/owner/cart")
	}
}

type addToCartForm struct {
	ProductID int64 `form:"productId" validate:"required"`
	Quantity  int   `form:"quantity" validate:"required,min=1"`
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var form addToCartForm
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
	if _, err := h.clinic.AddToCart(c.Request().Context(), cookie, form.ProductID, form.Quantity); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/owner/cart")
}

func (h *CartHandler) Clear(c echo.Context) error {
	cookie, err := upstreamCookie(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.clinic.ClearCart(c.Request().Context(), cookie); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/owner/cart")
}

func (h *CartHandler) renderCartError(c echo.Context, cookie, msg string) error {
	cart, err := h.clinic.Cart(c.Request().Context(), cookie)
	if err != nil {
		return err
	}
	return c.Render(http.StatusUnprocessableEntity, "cart", page(c, "Shopping cart", echo.Map{
		"Cart":  cart,
		"Error": msg,
	}))
}

// desiredQuantities extracts qty_<itemID> fields. Unparseable values are
// skipped: the reconciliation then leaves those lines untouched.
func desiredQuantities(form map[string][]string) map[int64]int {
	desired := make(map[int64]int)
	for key, values := range form {
		id, ok := strings.CutPrefix(key, "qty_")
		if !ok || len(values) == 0 {
			continue
		}
		itemID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			continue
		}
		desired[itemID] = qty
	}
	return desired
}
