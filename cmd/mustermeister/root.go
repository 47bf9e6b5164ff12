package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tgienger/mustermeister/internal/config"
	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/logging"
	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
)

// app holds what every command needs once the database is open
type app struct {
	configPath string
	out        io.Writer

	cfg    *config.Config
	logger *slog.Logger
	db     *db.DB
	svc    *services.Service
	user   *models.User

	logFile *os.File
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	cmd := &cobra.Command{
		Use:           "mustermeister",
		Short:         "Projects, tasks and progress reports from the terminal",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	cmd.SetVersionTemplate("mustermeister {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mustermeister/config.yaml)")

	cmd.AddCommand(
		newTUICmd(a),
		newServeCmd(a),
		newProjectCmd(a),
		newTaskCmd(a),
		newStatusesCmd(a),
		newTagCmd(a),
		newBoardCmd(a),
		newReportCmd(a),
		newArchiveCmd(a),
		newRescheduleCmd(a),
		newReprioritizeCmd(a),
	)
	return cmd
}

// open loads the config, opens the database and resolves the acting user.
// Logs go to logOut, or to a file beside the database when logOut is nil.
func (a *app) open(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	path := cfg.Database.Path
	if path == "" {
		if path, err = db.DefaultPath(); err != nil {
			return err
		}
	}

	if logOut == nil {
		f, err := os.OpenFile(filepath.Join(filepath.Dir(path), "mustermeister.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		a.logFile = f
		logOut = f
	}
	logger, err := logging.New(logOut, cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger

	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.db = database

	user, err := database.EnsureUser(ctx, cfg.User.Name, cfg.User.Email)
	if err != nil {
		return fmt.Errorf("resolving user: %w", err)
	}
	a.user = user

	a.svc = services.New(database,
		services.WithLogger(logger),
		services.WithNotifier(services.LogNotifier{Logger: logger}),
	)
	logger.Debug("opened database", "path", path, "user", user.Email)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// withApp wraps a command body with open and close, logging to stderr
func (a *app) withApp(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		defer a.close()
		if err := a.open(ctx, cmd.ErrOrStderr()); err != nil {
			return err
		}
		a.out = cmd.OutOrStdout()
		return fn(ctx, args)
	}
}
