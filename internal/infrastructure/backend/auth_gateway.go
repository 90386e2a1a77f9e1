package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vetcareservices/clinic-portal/internal/core/domain"
)

// AuthGateway implements ports.AuthGateway against the clinic backend's
// cookie-based authentication endpoints.
type AuthGateway struct {
	*Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{Client: client}
}

// identityDTO is the wire shape of GET /users/me. The backend's role values
// are canonicalized through ParseRole; an unknown role fails resolution
// instead of silently denying access.
type identityDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (d identityDTO) toDomain() (*domain.Identity, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{
		ID:          d.ID,
		DisplayName: d.FullName,
		Email:       d.Email,
		Role:        role,
	}, nil
}

// Register creates a pet-owner account via POST /users/register. 400 and 409
// carry a reason the user can act on and map to AuthError for inline display.
func (g *AuthGateway) Register(ctx context.Context, reg domain.Registration) error {
	resp, err := g.roundTrip(ctx, "register", http.MethodPost, "/users/register", "", reg)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)
		return &domain.AuthError{Status: resp.StatusCode, Message: eb.text()}
	}
	return g.statusError("register", resp)
}

// Login confirms credentials via POST /auth/login and returns the backend's
// session cookies as a single replayable Cookie header value.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := g.roundTrip(ctx, "login", http.MethodPost, "/auth/login", "", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", g.statusError("login", resp)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return "", fmt.Errorf("login: backend confirmed credentials but set no session cookie")
	}

	pairs := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return strings.Join(pairs, "; "), nil
}

// CurrentIdentity resolves the canonical identity for the given cookie. A 401
// means the cookie is absent or expired and maps to ErrSessionExpired.
func (g *AuthGateway) CurrentIdentity(ctx context.Context, cookie string) (*domain.Identity, error) {
	var dto identityDTO
	if err := g.do(ctx, "current_identity", http.MethodGet, "/users/me", cookie, nil, &dto); err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}
	return dto.toDomain()
}

// Logout invalidates the server-side session. Callers treat this as
// best-effort; the error is reported for logging only.
func (g *AuthGateway) Logout(ctx context.Context, cookie string) error {
	return g.do(ctx, "logout", http.MethodPost, "/auth/logout", cookie, nil, nil)
}

// UpdateProfile edits the user's own profile fields via PUT /users/{id} and
// returns the updated identity.
func (g *AuthGateway) UpdateProfile(ctx context.Context, cookie string, id int64, update domain.IdentityUpdate) (*domain.Identity, error) {
	body := map[string]string{}
	if update.DisplayName != "" {
		body["fullName"] = update.DisplayName
	}
	if update.Email != "" {
		body["email"] = update.Email
	}

	var dto identityDTO
	if err := g.do(ctx, "update_profile", http.MethodPut, fmt.Sprintf("/users/%d", id), cookie, body, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain()
}
