package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ekonde/internal/config"
	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/session"
	"github.com/goliatone/go-ekonde/pkg/submission"
	"github.com/goliatone/go-ekonde/pkg/theme"
)

var cfg config.Config

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "ekonde",
		Short:         "eKonde land title services: web front-end and terminal wizard",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.AddCommand(serveCmd(), applyCmd())
	return root.Execute()
}

// loadCatalog returns the embedded catalog unless catalog.path points at a
// replacement.
func loadCatalog(c config.CatalogConfig) (*catalog.Catalog, error) {
	if path := strings.TrimSpace(c.Path); path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Default()
}

// resolveTheme selects the configured brand theme and flattens it for the
// templates.
func resolveTheme(c config.ThemeConfig) (theme.Context, error) {
	selector, err := theme.Default("")
	if err != nil {
		return theme.Context{}, err
	}
	selection, err := selector.Select(c.Name, c.Variant)
	if err != nil {
		return theme.Context{}, fmt.Errorf("theme: %w", err)
	}
	return theme.TemplateContext(theme.RendererConfig(selection)), nil
}

// sessionOptions applies the wizard and submission settings every session
// is built with.
func sessionOptions(c config.Config, cat *catalog.Catalog) []session.Option {
	return []session.Option{
		session.WithCatalog(cat),
		session.WithStepGate(c.Wizard.StepGate),
		session.WithPipeline(
			submission.WithDelay(c.Submission.Delay),
			submission.WithConfirmationID(c.Submission.ConfirmationID),
			submission.WithRedirect(c.Submission.Redirect),
		),
	}
}
