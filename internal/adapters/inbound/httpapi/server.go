// Package httpapi serves the storefront and back-office JSON API over fiber.
package httpapi

import (
	"context"
	"time"

	"github.com/abdidvp/kraftstore/internal/application"
	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services are the application services the API exposes.
type Services struct {
	Catalog  *application.CatalogService
	Orders   *application.OrderService
	Identity *application.IdentityService
	Admin    *application.AdminService
}

// Options tune the server. Zero values are usable.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
	Commit       string
	// Ping reports whether the backing store is reachable; nil means always.
	Ping func(ctx context.Context) error
	// AccessLog enables the per-request log line.
	AccessLog bool
}

type Server struct {
	app  *fiber.App
	svc  Services
	opts Options
}

// New builds the fiber app and registers every route.
func New(svc Services, opts Options) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "kraftstore",
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${latency} ${method} ${path}\n",
		}))
	}

	s := &Server{app: app, svc: svc, opts: opts}
	s.routes()
	return s
}

func (s *Server) routes() {
	auth := s.authenticate()
	session := requireSession()
	admin := requireRole(domain.RoleAdmin)

	s.app.Get("/healthz", s.health)

	s.app.Post("/auth/register", s.register)
	s.app.Post("/auth/login", s.login)
	s.app.Post("/auth/refresh", auth, session, s.refresh)

	s.app.Get("/products", s.listProducts)
	s.app.Get("/products/:id", s.getProduct)
	s.app.Get("/categories", s.categories)
	s.app.Post("/products", auth, admin, s.createProduct)
	s.app.Put("/products/:id", auth, admin, s.updateProduct)
	s.app.Delete("/products/:id", auth, admin, s.deleteProduct)

	orders := s.app.Group("/orders", auth, session)
	orders.Get("/", s.listOrders)
	orders.Post("/", s.placeOrder)
	orders.Get("/:id", s.getOrder)
	orders.Put("/:id", admin, s.updateOrderStatus)

	s.app.Get("/profile", auth, session, s.profile)
	s.app.Put("/profile", auth, session, s.updateProfile)

	users := s.app.Group("/admin/users", auth, admin)
	users.Get("/", s.listUsers)
	users.Post("/", s.createUser)
	users.Get("/:id", s.getUser)
	users.Put("/:id", s.updateUser)
	users.Delete("/:id", s.deleteUser)
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
