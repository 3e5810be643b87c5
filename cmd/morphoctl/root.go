package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"morphogen/internal/storage"
	"morphogen/pkg/morphogen"
)

type globalOptions struct {
	storeKind string
	dbPath    string
	logLevel  string
	workers   int
}

type app struct {
	out  io.Writer
	errw io.Writer
	opts globalOptions
}

func run(ctx context.Context, args []string) error {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(out, errw io.Writer) *cobra.Command {
	a := &app{out: out, errw: errw}
	root := &cobra.Command{
		Use:   "morphoctl",
		Short: "Map genotypes onto voxel-based soft robots",
		Long: `morphoctl builds mapping pipelines from stage descriptions such as
"fixedHomoDist-1<MLP-0.65-1" and maps genotypes onto robot bodies.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errw)

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.storeKind, "store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	flags.StringVar(&a.opts.dbPath, "db-path", "morphogen.db", "sqlite database path")
	flags.StringVar(&a.opts.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	flags.IntVar(&a.opts.workers, "workers", 1, "concurrent mapping workers")

	root.AddCommand(
		a.kindsCmd(),
		a.exampleCmd(),
		a.mapCmd(),
		a.showCmd(),
		a.targetsCmd(),
		a.runsCmd(),
		a.phenotypesCmd(),
		a.exportCmd(),
	)
	return root
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

func (a *app) logger() (*slog.Logger, error) {
	level, err := parseLevel(a.opts.logLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(a.errw, &slog.HandlerOptions{Level: level})), nil
}

// client opens and initializes the configured store; callers close it.
func (a *app) client(ctx context.Context) (*morphogen.Client, error) {
	logger, err := a.logger()
	if err != nil {
		return nil, err
	}
	c, err := morphogen.New(morphogen.Options{
		StoreKind: a.opts.storeKind,
		DBPath:    a.opts.dbPath,
		Workers:   a.opts.workers,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}
