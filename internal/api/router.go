package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vetcareservices/clinic-portal/internal/api/handler"
	"github.com/vetcareservices/clinic-portal/internal/api/middleware"
	"github.com/vetcareservices/clinic-portal/internal/api/render"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
	"github.com/vetcareservices/clinic-portal/internal/core/ports"
	"github.com/vetcareservices/clinic-portal/internal/core/service"
)

// RouterDeps carries everything the route tree needs.
type RouterDeps struct {
	Sessions      ports.SessionStore
	Auth          ports.AuthGateway
	Carts         *service.CartStore
	Clinic        ports.ClinicGateway
	Redis         *redis.Client
	Codec         middleware.TokenCodec
	SecureCookies bool
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every request passes ResolveSession; the per-area Guard rules then decide
// render vs redirect before any page handler runs.
func NewRouter(deps RouterDeps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))
	e.Use(middleware.ResolveSession(deps.Sessions, deps.Codec))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions, deps.Auth, deps.Codec, deps.SecureCookies)
	pagesHandler := handler.NewPagesHandler()
	catalogHandler := handler.NewCatalogHandler(deps.Clinic)
	ownerHandler := handler.NewOwnerHandler(deps.Clinic, deps.Sessions)
	cartHandler := handler.NewCartHandler(deps.Carts, deps.Clinic, deps.Sessions)
	staffHandler := handler.NewStaffHandler(deps.Clinic, deps.Sessions)
	adminHandler := handler.NewAdminHandler(deps.Clinic, deps.Sessions)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Redis)

	// --- Public pages ---
	e.GET("/", pagesHandler.Home)
	e.GET("/login", authHandler.ShowLogin)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.ShowRegister)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout)
	e.GET("/unauthorized", pagesHandler.Unauthorized)
	e.GET("/catalog", catalogHandler.List)
	e.GET("/catalog/:id", catalogHandler.Detail)

	// --- Probes & metrics ---
	e.GET("/healthz", healthHandler.Liveness)
	e.GET("/healthz/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Any authenticated role ---
	profile := e.Group("/profile", middleware.Guard(middleware.AnyRole()))
	profile.GET("", authHandler.ShowProfile)
	profile.POST("", authHandler.UpdateProfile)

	// --- Pet owners ---
	owner := e.Group("/owner", middleware.Guard(middleware.NewAccessRule(domain.RoleOwner)))
	owner.GET("", ownerHandler.Dashboard)
	owner.GET("/pets", ownerHandler.Pets)
	owner.POST("/pets", ownerHandler.CreatePet)
	owner.POST("/pets/:id/delete", ownerHandler.DeletePet)
	owner.GET("/appointments", ownerHandler.Appointments)
	owner.POST("/appointments", ownerHandler.BookAppointment)
	owner.POST("/appointments/:id/cancel", ownerHandler.CancelAppointment)
	owner.GET("/cart", cartHandler.View)
	owner.POST("/cart", cartHandler.Submit)
	owner.POST("/cart/items", cartHandler.AddItem)
	owner.POST("/cart/clear", cartHandler.Clear)
	owner.GET("/purchases", ownerHandler.Purchases)

	// --- Front-desk employees ---
	employee := e.Group("/employee", middleware.Guard(middleware.NewAccessRule(domain.RoleEmployee)))
	employee.GET("", staffHandler.EmployeeDashboard)
	employee.GET("/sales", staffHandler.Sales)
	employee.POST("/sales", staffHandler.RegisterSale)

	// --- Veterinarians ---
	vet := e.Group("/vet", middleware.Guard(middleware.NewAccessRule(domain.RoleVeterinarian)))
	vet.GET("", staffHandler.VetDashboard)
	vet.GET("/appointments", staffHandler.VetAppointments)
	vet.POST("/appointments/:id/status", staffHandler.UpdateAppointmentStatus)

	// --- Administrators ---
	admin := e.Group("/admin", middleware.Guard(middleware.NewAccessRule(domain.RoleAdministrator)))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/pets", adminHandler.Pets)
	admin.POST("/pets/:id/delete", adminHandler.DeletePet)
	admin.GET("/products", adminHandler.Products)
	admin.POST("/products", adminHandler.CreateProduct)
	admin.POST("/products/:id/toggle", adminHandler.ToggleProduct)
	admin.POST("/products/:id/delete", adminHandler.DeleteProduct)
	admin.GET("/taxonomy", adminHandler.Taxonomy)
	admin.GET("/species", adminHandler.Taxonomy)
	admin.POST("/species", adminHandler.CreateSpecies)
	admin.GET("/breeds", adminHandler.Taxonomy)
	admin.POST("/breeds", adminHandler.CreateBreed)
	admin.GET("/users", adminHandler.Users)
	admin.POST("/users/:id/role", adminHandler.UpdateUserRole)
	admin.POST("/users/:id/active", adminHandler.SetUserActive)

	return e, nil
}
