package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/cadence/pkg/legacy"
	gitsync "github.com/stefanpenner/cadence/pkg/sync"
)

func importCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON export of the old planner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := legacy.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", yellow("warning:"), w)
			}
			if !dryRun {
				if err := a.store.Put(res.Tasks...); err != nil {
					return err
				}
				if err := a.ctrl.Load(); err != nil {
					return err
				}
			}
			a.log.Info("imported", "file", args[0], "tasks", len(res.Tasks), "warnings", len(res.Warnings), "dry_run", dryRun)

			if a.jsonOut {
				return outputJSON(a.out, map[string]any{"imported": len(res.Tasks), "warnings": res.Warnings, "dryRun": dryRun})
			}
			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			fmt.Fprintf(a.out, "%s %d tasks\n", verb, len(res.Tasks))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without writing")
	return cmd
}

func initCmd(a *app) *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Turn the data directory into a git repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remote == "" {
				remote = a.cfg.Sync.Remote
			}
			if err := gitsync.Init(a.cfg.DataDir, remote); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Initialized %s\n", a.cfg.DataDir)
			if remote != "" {
				fmt.Fprintf(a.out, "Remote %s → %s\n", gitsync.RemoteName, remote)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "remote URL (default: sync.remote from config)")
	return cmd
}

func syncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Commit local changes, pull and push",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := gitsync.Sync(a.cfg.DataDir, a.author(), a.now(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, green("Synced"))
			return nil
		},
	}
}
