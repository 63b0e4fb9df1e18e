package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/abdidvp/kraftstore/internal/adapters/inbound/httpapi"
	"github.com/abdidvp/kraftstore/internal/domain"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(dir *string) *cobra.Command {
	var (
		addr      string
		withSeed  bool
		accessLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Open the configured store and serve the storefront and back-office API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := st.close(context.Background()); err != nil {
					log.Errorw("closing store", "err", err)
				}
			}()

			secret, err := signingSecret(cfg)
			if err != nil {
				return err
			}
			svc, err := newServices(cfg, st, secret)
			if err != nil {
				return err
			}

			if withSeed {
				if cfg.Storage.Driver != domain.DriverMemory {
					return fmt.Errorf("--seed only applies to the memory driver; run `kraftstore seed`")
				}
				if err := seed(ctx, svc, cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			srv := httpapi.New(httpapi.Services{
				Catalog:  svc.catalog,
				Orders:   svc.orders,
				Identity: svc.identity,
				Admin:    svc.admin,
			}, httpapi.Options{
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				Version:      version,
				Commit:       buildCommit(*dir),
				Ping:         st.ping,
				AccessLog:    accessLog,
			})

			errCh := make(chan error, 1)
			go func() {
				log.Infow("listening", "addr", cfg.Server.Addr, "driver", cfg.Storage.Driver)
				errCh <- srv.Listen(cfg.Server.Addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&withSeed, "seed", false, "Load the sample catalog on start (memory driver only)")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "Log one line per request")

	return cmd
}
