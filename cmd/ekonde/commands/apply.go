package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ekonde/components/districts"
	"github.com/goliatone/go-ekonde/internal/logging"
	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/location"
	"github.com/goliatone/go-ekonde/pkg/prompt"
	"github.com/goliatone/go-ekonde/pkg/session"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

func applyCmd() *cobra.Command {
	var (
		gps     string
		account bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Fill in and submit a land title application in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(os.Stderr, "warn", "text")

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

			opts := []prompt.Option{
				prompt.WithLogger(logger),
				prompt.WithTheme(prompt.ThemeFromTokens(th.Tokens)),
				prompt.WithOutput(cmd.OutOrStdout()),
				prompt.WithDistrictSuggest(func(q string) []string {
					return dist.Suggest(q, 0)
				}),
			}
			if gps = strings.TrimSpace(gps); gps != "" {
				g, err := parseGPS(gps)
				if err != nil {
					return err
				}
				opts = append(opts, prompt.WithGeolocator(g))
			}

			if account {
				opts = append(opts, prompt.WithAccounts(auth.NewMemory()))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sess := session.New("terminal", sessionOptions(cfg, cat)...)
			result, err := prompt.New(opts...).Run(ctx, sess)
			switch {
			case errors.Is(err, prompt.ErrCancelled), errors.Is(err, prompt.ErrAborted):
				fmt.Fprintln(cmd.ErrOrStderr(), "Application not submitted.")
				return nil
			case err != nil:
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Confirmation: %s\n", result.ConfirmationID)
			return nil
		},
	}
	cmd.Flags().StringVar(&gps, "gps", "", `device position as "lat,lng" offered on the location step`)
	cmd.Flags().BoolVar(&account, "account", false, "offer sign in or sign up before the wizard to pre-fill identity fields")
	return cmd
}

func parseGPS(raw string) (location.Geolocator, error) {
	lat, lng, ok := strings.Cut(raw, ",")
	if !ok {
		return nil, fmt.Errorf("--gps: expected \"lat,lng\", got %q", raw)
	}
	pos, err := validation.ParseCoordinates(strings.TrimSpace(lat), strings.TrimSpace(lng))
	if err != nil {
		return nil, fmt.Errorf("--gps: %w", err)
	}
	return location.Static{Position: pos}, nil
}
