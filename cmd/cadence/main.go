package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/cadence/pkg/config"
	"github.com/stefanpenner/cadence/pkg/logging"
	"github.com/stefanpenner/cadence/pkg/planner"
	"github.com/stefanpenner/cadence/pkg/store"
	gitsync "github.com/stefanpenner/cadence/pkg/sync"
	"github.com/stefanpenner/cadence/pkg/tui"
	"github.com/stefanpenner/cadence/pkg/view"
)

var Version = "dev"

func main() {
	a := &app{now: time.Now}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}

// app carries what every command needs once the data directory is open.
type app struct {
	dataDir string
	jsonOut bool
	now     func() time.Time

	out      io.Writer
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	store    *store.Store
	ctrl     *planner.Controller
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "cadence",
		Short:         "A terminal planner for dated, recurring and nested tasks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	root.PersistentFlags().StringVar(&a.dataDir, "dir", "", "data directory (overrides config and "+store.EnvDataDir+")")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		listCmd(a),
		showCmd(a),
		addCmd(a),
		toggleCmd(a),
		completeCmd(a),
		reopenCmd(a),
		orderCmd(a),
		moveCmd(a),
		deleteCmd(a),
		nextCmd(a),
		startCmd(a),
		stopCmd(a),
		importCmd(a),
		initCmd(a),
		syncCmd(a),
	)
	return root
}

// open loads configuration and the task snapshot.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(config.DefaultDir())
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()

	logger, closeLog, err := logging.Open(cfg.DataDir, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	a.log, a.closeLog = logger, closeLog

	s, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	a.store = s
	a.ctrl = planner.New(s, planner.Options{Logger: logger, Step: cfg.OrderStep, Now: a.now})
	a.log.Debug("opened", "dir", cfg.DataDir, "command", cmd.Name())
	return a.ctrl.Load()
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

func (a *app) author() gitsync.Author {
	return gitsync.Author{Name: a.cfg.Sync.AuthorName, Email: a.cfg.Sync.AuthorEmail}
}

func (a *app) runTUI() error {
	status, err := view.ParseStatus(a.cfg.View.Status)
	if err != nil {
		return err
	}
	return tui.Run(a.ctrl, a.store, tui.Options{
		DataDir:       a.cfg.DataDir,
		Author:        a.author(),
		Range:         a.cfg.View.Range,
		Status:        status,
		ExcludeSystem: a.cfg.View.ExcludeSystem,
		Now:           a.now,
	})
}
