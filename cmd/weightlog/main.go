// Command weightlog records daily weight, calories and progress photos.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weightlog/internal/adapter/chart"
	"weightlog/internal/adapter/imaging"
	"weightlog/internal/app"
	"weightlog/internal/config"
	"weightlog/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	cfg     *config.Config
	backend string
	envFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "weightlog",
		Short:        "Track daily weight, calories and progress photos.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().StringVar(&c.backend, "backend", "", "storage backend: csv, sqlite, postgres or memory (overrides WEIGHTLOG_BACKEND)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "load environment from this file (default ./.env when present)")

	root.AddCommand(
		c.addCmd(),
		c.saveCmd(),
		c.editCmd(),
		c.deleteCmd(),
		c.showCmd(),
		c.listCmd(),
		c.graphCmd(),
		c.compareCmd(),
		c.importCmd(),
		c.exportCmd(),
		c.serveCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) setup() error {
	if err := config.LoadEnvFile(c.envFile); err != nil {
		return err
	}
	cfg := config.Load()
	if c.backend != "" {
		cfg.Backend = c.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)
	c.cfg = cfg
	return nil
}

type services struct {
	entries *app.EntryService
	charts  *app.ChartsService
	photos  *app.PhotoService
	close   func() error
}

func (c *cli) open() (*services, error) {
	repo, closeFn, err := openRepository(c.cfg)
	if err != nil {
		return nil, err
	}
	return &services{
		entries: app.NewEntryService(repo),
		charts:  app.NewChartsService(repo, chart.New(), c.cfg.Unit),
		photos:  app.NewPhotoService(repo, imaging.New()),
		close:   closeFn,
	}, nil
}

// withServices opens the store for the duration of fn.
func (c *cli) withServices(fn func(s *services) error) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()
	return fn(s)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of weightlog",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
