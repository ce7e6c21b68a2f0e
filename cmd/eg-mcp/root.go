package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/eg-mcp/internal/config"
	"github.com/ironsheep/eg-mcp/internal/icons"
	"github.com/ironsheep/eg-mcp/internal/logging"
	"github.com/ironsheep/eg-mcp/internal/registry"
	"github.com/ironsheep/eg-mcp/internal/server"
	"github.com/ironsheep/eg-mcp/internal/source"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds what every subcommand needs once configuration is resolved.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	log    *logrus.Logger
	reg    *registry.Registry
	reader *source.Reader
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "MCP server for the EG design system",
		Long: "eg-mcp serves the EG design system's component registry, sources,\n" +
			"theme tokens and chain/token icons to MCP clients over stdio.\n\n" +
			"Run without a subcommand to start the server. Configure it in your\n" +
			"MCP client (e.g., Claude Desktop) with the design system checkout as --root.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("root", ".", "Design system checkout that component paths are relative to")
	flags.String("assets", "assets", "Directory under root holding the chain/token logo mirror")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	flags.Bool("log-json", false, "Write logs as JSON")
	lo.Must0(a.v.BindPFlag(config.KeyRoot, flags.Lookup("root")))
	lo.Must0(a.v.BindPFlag(config.KeyAssets, flags.Lookup("assets")))
	lo.Must0(a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")))
	lo.Must0(a.v.BindPFlag(config.KeyLogJSON, flags.Lookup("log-json")))

	cmd.AddCommand(
		newVersionCmd(),
		newListCmd(a),
		newSearchCmd(a),
		newCheckCmd(a),
	)
	return cmd
}

// setup resolves configuration and builds the logger, registry and reader.
func (a *app) setup() error {
	if err := config.Setup(a.v); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel, cfg.LogJSON)

	reg, err := registry.Load()
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	a.reg = reg
	a.reader = source.NewOsReader(cfg.Root)
	return nil
}

// contentPaths lists every file the server may read at runtime, icons aside.
func (a *app) contentPaths() []string {
	return append(a.reg.Paths(), server.DocsPath, server.ThemePath)
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
		"root":       a.cfg.Root,
		"components": a.reg.Len(),
	}).Debug("Starting")

	// Missing files are not fatal: the matching tools report them per call.
	problems, err := a.reader.Verify(ctx, a.contentPaths())
	if err != nil {
		return err
	}
	for _, p := range problems {
		a.log.WithField("path", p.Path).WithError(p.Err).Warn("Content file unreadable")
	}

	renderer := icons.NewRenderer(icons.NewCache(a.reader), a.cfg.Assets)
	srv := server.New(a.reg, a.reader,
		server.WithLogger(a.log),
		server.WithVersion(Version),
		server.WithIcons(renderer),
	)

	a.log.Info("EG MCP Server running on stdio")
	err = srv.Run(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		a.log.Info("Shutting down")
		return nil
	}
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
