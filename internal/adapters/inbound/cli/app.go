package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/auth"
	"github.com/abdidvp/kraftstore/internal/adapters/outbound/config"
	"github.com/abdidvp/kraftstore/internal/adapters/outbound/storage/memory"
	"github.com/abdidvp/kraftstore/internal/adapters/outbound/storage/mongostore"
	"github.com/abdidvp/kraftstore/internal/adapters/outbound/storage/pgstore"
	"github.com/abdidvp/kraftstore/internal/application"
	"github.com/abdidvp/kraftstore/internal/domain"
)

// operator is the identity CLI commands act with when they touch the stores
// directly. It can never match a stored user, so self-modification rules do
// not get in the way.
var operator = domain.SessionClaims{ID: "kraftstore-cli", Name: "operator", Role: domain.RoleAdmin}

func loadConfig(dir string) (domain.Config, error) {
	cfg, err := config.New().Load(dir)
	if err != nil {
		return domain.Config{}, err
	}
	setLogLevel(cfg.Log.Level)
	return cfg, nil
}

func setLogLevel(level string) {
	switch level {
	case "trace":
		log.SetLevel(log.LevelTrace)
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}

// resolve makes a config-relative path absolute against dir.
func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// stores bundles the three repositories of one backend.
type stores struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	users    domain.UserRepository
	ping     func(ctx context.Context) error
	close    func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg domain.Config) (*stores, error) {
	switch cfg.Storage.Driver {
	case domain.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &stores{
			products: s.Products, orders: s.Orders, users: s.Users,
			ping: s.Ping, close: s.Close,
		}, nil
	case domain.DriverPostgres:
		s, err := pgstore.Open(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			products: s.Products, orders: s.Orders, users: s.Users,
			ping:  s.Ping,
			close: func(context.Context) error { s.Close(); return nil },
		}, nil
	default:
		return &stores{
			products: memory.NewProductStore(),
			orders:   memory.NewOrderStore(),
			users:    memory.NewUserStore(),
			ping:     func(context.Context) error { return nil },
			close:    func(context.Context) error { return nil },
		}, nil
	}
}

// signingSecret returns the configured JWT secret. The memory driver may run
// without one; it then gets a random secret that dies with the process.
func signingSecret(cfg domain.Config) (string, error) {
	if cfg.Auth.JWTSecret != "" {
		return cfg.Auth.JWTSecret, nil
	}
	if cfg.Storage.Driver != domain.DriverMemory {
		return "", fmt.Errorf("auth.jwt_secret is required with the %s driver", cfg.Storage.Driver)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating signing secret: %w", err)
	}
	log.Warn("no JWT_SECRET configured; using an ephemeral secret, tokens will not survive a restart")
	return hex.EncodeToString(buf), nil
}

// services is the application layer wired against one set of stores.
type services struct {
	catalog  *application.CatalogService
	orders   *application.OrderService
	identity *application.IdentityService
	admin    *application.AdminService
}

func newServices(cfg domain.Config, st *stores, secret string) (*services, error) {
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	var tokens domain.TokenIssuer
	if secret != "" {
		issuer, err := auth.NewJWTIssuer(secret, cfg.Auth.TokenTTL)
		if err != nil {
			return nil, err
		}
		tokens = issuer
	}
	return &services{
		catalog:  application.NewCatalogService(st.products),
		orders:   application.NewOrderService(st.products, st.orders, st.users),
		identity: application.NewIdentityService(st.users, hasher, tokens, cfg.Auth.AdminEmail),
		admin:    application.NewAdminService(st.users, st.orders, hasher),
	}, nil
}
