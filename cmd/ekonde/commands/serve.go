package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ekonde"
	"github.com/goliatone/go-ekonde/components/districts"
	"github.com/goliatone/go-ekonde/internal/logging"
	"github.com/goliatone/go-ekonde/internal/metrics"
	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/server"
	"github.com/goliatone/go-ekonde/pkg/session"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

			cat, err := loadCatalog(cfg.Catalog)
			if err != nil {
				return err
			}
			th, err := resolveTheme(cfg.Theme)
			if err != nil {
				return err
			}
			dist, err := districts.New()
			if err != nil {
				return err
			}

			sessions := session.NewManager(
				session.WithCookieName(cfg.Session.CookieName),
				session.WithTTL(cfg.Session.TTL),
				session.WithSecureCookie(cfg.Session.Secure),
				session.WithSessionOptions(sessionOptions(cfg, cat)...),
			)

			srv, err := server.New(
				server.WithLogger(logger),
				server.WithMetrics(metrics.New()),
				server.WithAuth(auth.NewMemory(auth.WithSignInLimit(cfg.Auth.SignInRate, cfg.Auth.SignInBurst))),
				server.WithSessions(sessions),
				server.WithCatalog(cat),
				server.WithTheme(th),
				server.WithDistricts(dist),
				server.WithAssets(ekonde.AssetsFS()),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting",
				slog.String("addr", cfg.Server.Addr),
				slog.String("theme", th.Name),
				slog.Bool("step_gate", cfg.Wizard.StepGate),
			)
			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

