package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/apiclient"
	"github.com/abdidvp/kraftstore/internal/adapters/outbound/cartstore"
	"github.com/abdidvp/kraftstore/internal/application"
	"github.com/abdidvp/kraftstore/internal/domain"
)

var errNotLoggedIn = errors.New("not logged in; run `kraftstore login` first")

// terminal is the client side of the CLI: the API, the saved session and the
// local cart.
type terminal struct {
	api      *apiclient.Client
	sessions *apiclient.TokenFile
	cart     *application.CartService
}

func openTerminal(dir string) (*terminal, error) {
	cfg, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}
	cartPath := resolve(dir, cfg.Cart.Path)
	return &terminal{
		api:      apiclient.New(cfg.Server.BaseURL),
		sessions: apiclient.NewTokenFile(filepath.Join(filepath.Dir(cartPath), "session.json")),
		cart:     application.NewCartService(cartstore.NewFile(cartPath)),
	}, nil
}

// authed returns a client carrying the saved session token.
func (t *terminal) authed() (*apiclient.Client, *apiclient.Session, error) {
	s, err := t.sessions.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("reading session: %w", err)
	}
	if s == nil || s.Token == "" {
		return nil, nil, errNotLoggedIn
	}
	return t.api.WithToken(s.Token), s, nil
}

// sessionExpired turns a 401 from the API into a hint to log in again.
func sessionExpired(err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return fmt.Errorf("%w; your session may have expired, run `kraftstore login`", err)
	}
	return err
}
