package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"sellerconsole/internal/app"
	"sellerconsole/internal/config"
	"sellerconsole/internal/dataset"
	"sellerconsole/internal/leads"
	"sellerconsole/internal/logger"
	"sellerconsole/internal/storage"
	"sellerconsole/internal/ui"
	"sellerconsole/internal/workflow"
)

func main() {
	cliApp := &cli.App{
		Name:  "seller-console",
		Usage: "triage leads and convert them into opportunities",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "load leads from a .json or .csv file instead of the bundled dataset",
				EnvVars: []string{config.EnvPrefix + "_DATA_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{config.EnvPrefix + "_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "set the name shown in the header and save it to the config file",
			},
			&cli.BoolFlag{
				Name:  "reset-prefs",
				Usage: "forget the saved filters and pagination before starting",
			},
			&cli.BoolFlag{
				Name:  "show-prefs",
				Usage: "print the saved preferences and exit",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Println("program terminated:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgStore, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.IsSet("data") {
		cfgStore.Config.DataPath = c.String("data")
	}
	if c.IsSet("log-level") {
		cfgStore.Config.LogLevel = c.String("log-level")
	}
	if c.IsSet("name") {
		cfgStore.Config.Name = c.String("name")
		if err := cfgStore.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}

	zlog, err := logger.New(cfgStore.Config.LogLevel, cfgStore.Config.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Info("starting", zap.String("config", cfgStore.Path()), zap.String("data", cfgStore.Config.DataPath))

	db, err := storage.Open(ctx)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	zlog.Debug("storage ready", zap.String("path", db.Path()))

	prefs := storage.NewPreferences(db)
	if c.Bool("reset-prefs") {
		if err := prefs.Reset(ctx); err != nil {
			return fmt.Errorf("reset preferences: %w", err)
		}
		zlog.Info("preferences reset")
	}
	if c.Bool("show-prefs") {
		return showPreferences(ctx, c.App.Writer, db)
	}
	filters, pagination := restorePreferences(ctx, prefs, zlog)

	source := dataset.Embedded()
	if cfgStore.Config.DataPath != "" {
		source = dataset.File(cfgStore.Config.DataPath)
	}

	ids := leads.NewIDGenerator()
	zlog.Info("session", zap.String("id", ids.Session()))

	ctrl := app.New(app.Options{
		Loader: workflow.Delayed{
			Loader: reportingLoader{source: source, log: zlog},
			Delay:  cfgStore.LoadDelay(),
		},
		Gateway:     workflow.Simulated{Delay: cfgStore.ActionDelay()},
		Preferences: prefs,
		IDs:         ids,
		Filters:     filters,
		Pagination:  pagination,
		Logger:      zlog.Named("controller"),
		Context:     ctx,
	})

	program := ui.NewProgram(ctx, ctrl, cfgStore, zlog.Named("ui"))
	if err := program.Start(); err != nil {
		zlog.Error("program terminated", zap.Error(err))
		return err
	}
	zlog.Info("bye", zap.Int("opportunities", len(ctrl.Opportunities())))
	return nil
}

// showPreferences prints every stored preference sorted by key.
func showPreferences(ctx context.Context, w io.Writer, db *storage.Store) error {
	entries, err := db.List(ctx)
	if err != nil {
		return fmt.Errorf("list preferences: %w", err)
	}
	fmt.Fprintf(w, "Preferences in %s\n", db.Path())
	if len(entries) == 0 {
		fmt.Fprintln(w, "No saved preferences.")
		return nil
	}
	for _, e := range entries {
		updated := "-"
		if !e.UpdatedAt.IsZero() {
			updated = e.UpdatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%-26s %-19s %s\n", e.Key, updated, e.Value)
	}
	return nil
}

// restorePreferences reads the saved view state. Missing keys are silent;
// anything else is logged and replaced with the defaults.
func restorePreferences(ctx context.Context, prefs *storage.Preferences, zlog *zap.Logger) (leads.FilterState, leads.PaginationState) {
	filters, err := prefs.LoadFilters(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		zlog.Warn("saved filters ignored", zap.Error(err))
	}
	pagination, err := prefs.LoadPagination(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		zlog.Warn("saved pagination ignored", zap.Error(err))
	}
	return filters, pagination
}

// reportingLoader logs what a data file import skipped.
type reportingLoader struct {
	source *dataset.Source
	log    *zap.Logger
}

func (r reportingLoader) Load(ctx context.Context) ([]leads.Lead, error) {
	list, err := r.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	res := r.source.Result
	if res.Skipped > 0 {
		r.log.Warn("rows skipped during import",
			zap.String("path", r.source.Path()),
			zap.Int("loaded", res.Loaded),
			zap.Int("skipped", res.Skipped),
			zap.Strings("errors", res.Errors))
	}
	r.log.Info("dataset read", zap.String("path", r.source.Path()), zap.Int("leads", len(list)))
	return list, nil
}
