// cmd/bydupdates/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bydupdates/internal/cms"
	"bydupdates/internal/config"
	"bydupdates/internal/logger"
)

const defaultConfigFile = "site.yaml"

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	configPath string
	verbose    bool

	log *logrus.Logger
	cfg config.SiteConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bydupdates",
		Short: "BYD Car Updates: news, reviews and EV tools served from a headless CMS",
		Long: `bydupdates renders the BYD Car Updates site from a WordPress GraphQL backend.
It serves pages on demand, exports the whole site as static files and runs
the charging cost and battery lifespan calculators from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "site config file (default ./site.yaml when present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.serveCmd(),
		a.buildCmd(),
		a.tocCmd(),
		a.calcCmd(),
		a.lifespanCmd(),
		a.initCmd(),
		a.newPageCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.log = logger.New(a.verbose, cmd.ErrOrStderr())

	path := a.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if path != "" {
		a.log.WithField("file", path).Debug("loaded site config")
	}
	a.cfg = cfg
	return nil
}

// client validates the CMS settings and returns a client for them.
func (a *app) client() (*cms.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	return cms.NewClient(cms.Options{
		Endpoint:          a.cfg.CMS.Endpoint,
		Timeout:           a.cfg.CMS.TimeoutDuration(),
		Logger:            a.log,
		FAQFields:         a.cfg.CMS.FAQFields,
		FactFields:        a.cfg.CMS.FactFields,
		RequestsPerSecond: a.cfg.CMS.RequestsPerSecond,
	})
}
