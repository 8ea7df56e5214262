package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/cadence/pkg/planner"
	"github.com/stefanpenner/cadence/pkg/reorder"
	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stefanpenner/cadence/pkg/task"
	"github.com/stefanpenner/cadence/pkg/view"
)

// viewFlags are the filter flags shared by list and move.
type viewFlags struct {
	date   string
	from   string
	to     string
	week   bool
	all    bool
	tags   []string
	status string
	folder string
	system bool

	cmd *cobra.Command
}

func (f *viewFlags) register(cmd *cobra.Command) {
	f.cmd = cmd
	cmd.Flags().StringVar(&f.date, "date", "", "single day: YYYY-MM-DD, today, tomorrow or yesterday")
	cmd.Flags().StringVar(&f.from, "from", "", "first day of a range")
	cmd.Flags().StringVar(&f.to, "to", "", "last day of a range")
	cmd.Flags().BoolVar(&f.week, "week", false, "the seven days starting today")
	cmd.Flags().BoolVar(&f.all, "all", false, "ignore dates")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "require tag (repeatable)")
	cmd.Flags().StringVar(&f.status, "status", "", "all, pending or completed")
	cmd.Flags().StringVar(&f.folder, "folder", "", "only this folder and its contents")
	cmd.Flags().BoolVar(&f.system, "system", false, "include notes and timeline comments")
}

// context builds the filter, falling back to the configured defaults.
func (f *viewFlags) context(a *app) (view.Context, error) {
	now := a.now()
	ctx := view.Context{Tags: f.tags, ExcludeSystem: a.cfg.View.ExcludeSystem}
	if f.cmd != nil && f.cmd.Flags().Changed("system") {
		ctx.ExcludeSystem = !f.system
	}

	status := f.status
	if status == "" {
		status = a.cfg.View.Status
	}
	s, err := view.ParseStatus(status)
	if err != nil {
		return ctx, err
	}
	ctx.Status = s

	if f.folder != "" {
		folder, err := a.ctrl.Resolve(f.folder)
		if err != nil {
			return ctx, err
		}
		ctx.Folder = folder.ID
	}

	switch {
	case f.all:
		ctx.Range = view.AllDates()
	case f.week:
		ctx.Range = view.Week(now)
	case f.from != "" || f.to != "":
		from, to := schedule.Today(now), schedule.Today(now)
		if f.from != "" {
			if from, err = parseDay(f.from, now); err != nil {
				return ctx, err
			}
		}
		if f.to != "" {
			if to, err = parseDay(f.to, now); err != nil {
				return ctx, err
			}
		} else {
			to = from
		}
		ctx.Range = view.Days(from, to)
	case f.date != "":
		d, err := parseDay(f.date, now)
		if err != nil {
			return ctx, err
		}
		ctx.Range = view.On(d)
	default:
		switch a.cfg.View.Range {
		case "week":
			ctx.Range = view.Week(now)
		case "all":
			ctx.Range = view.AllDates()
		default:
			ctx.Range = view.Today(now)
		}
	}
	return ctx, nil
}

func listCmd(a *app) *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks in a date range as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := f.context(a)
			if err != nil {
				return err
			}
			rows := view.Tree(a.ctrl.Visible(ctx), nil)

			if a.jsonOut {
				out := make([]rowJSON, len(rows))
				for i, r := range rows {
					out[i] = rowJSON{Task: r.Task, Depth: r.Depth}
				}
				return outputJSON(a.out, out)
			}
			if len(rows) == 0 {
				fmt.Fprintf(a.out, "Nothing for %s.\n", ctx.Range)
				return nil
			}
			fmt.Fprintln(a.out, dim(ctx.Range.String()))
			printRows(a.out, rows)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.ctrl.Resolve(args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return outputJSON(a.out, t)
			}
			printTask(a.out, t, a.now())
			return nil
		},
	}
}

func addCmd(a *app) *cobra.Command {
	var (
		date, end, repeat, days string
		parent, kind, notes     string
		tags                    []string
		folder                  bool
	)
	cmd := &cobra.Command{
		Use:   "add <title>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			t := &task.Task{
				Title: strings.Join(args, " "),
				Notes: notes,
				Tags:  tags,
				Kind:  task.Kind(kind),
			}
			if folder {
				t.Kind = task.KindFolder
			}
			switch t.Kind {
			case task.KindTask, task.KindFolder, task.KindNote, task.KindComment:
			default:
				return fmt.Errorf("invalid kind: %s (use task, folder, note or comment)", kind)
			}

			if date != "" {
				d, err := parseDay(date, now)
				if err != nil {
					return err
				}
				t.Date = &d
			}
			if end != "" {
				if t.Date == nil {
					return errors.New("--end needs --date")
				}
				d, err := parseDay(end, now)
				if err != nil {
					return err
				}
				if d.Before(*t.Date) {
					return fmt.Errorf("--end %s is before --date %s", d, t.Date)
				}
				t.EndDate = &d
			}

			rec, err := schedule.ParseKind(repeat)
			if err != nil {
				return err
			}
			t.Recurrence = rec
			if days != "" {
				if t.RecurrenceDays, err = schedule.ParseDays(days); err != nil {
					return err
				}
				if rec == schedule.None {
					t.Recurrence = schedule.Custom
				}
			}
			if t.IsRecurring() && t.Date == nil {
				t.Date = ptr(schedule.Today(now))
			}

			if parent != "" {
				p, err := a.ctrl.Resolve(parent)
				if err != nil {
					return err
				}
				t.ParentID = p.ID
			}

			created, err := a.ctrl.Add(t)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return outputJSON(a.out, created)
			}
			fmt.Fprintf(a.out, "%s %s %s\n", green("Added"), created.Title, dim(shortID(created.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day the task is planned for")
	cmd.Flags().StringVar(&end, "end", "", "last day of a multi-day task or of a recurrence")
	cmd.Flags().StringVar(&repeat, "repeat", "", "none, daily, weekly, monthly or custom")
	cmd.Flags().StringVar(&days, "days", "", "weekdays for custom recurrence, e.g. mon,wed,fri")
	cmd.Flags().StringVar(&parent, "parent", "", "nest under this task")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&kind, "kind", string(task.KindTask), "task, folder, note or comment")
	cmd.Flags().BoolVar(&folder, "folder", false, "shorthand for --kind folder")
	cmd.Flags().StringVar(&notes, "notes", "", "markdown notes")
	return cmd
}

func ptr[T any](v T) *T { return &v }

// statusCmd builds toggle, complete and reopen.
func statusCmd(a *app, use, short string, apply func(id string) (planner.Outcome, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.ctrl.Resolve(args[0])
			if err != nil {
				return err
			}
			out, err := apply(t.ID)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return outputJSON(a.out, out)
			}
			switch {
			case out.RolledForward():
				fmt.Fprintf(a.out, "%s %s, next on %s\n", green("✓"), t.Title, cyan(out.Task.Date.String()))
			case out.Task.IsCompleted():
				fmt.Fprintf(a.out, "%s %s\n", green("✓"), t.Title)
			default:
				fmt.Fprintf(a.out, "○ %s\n", t.Title)
			}
			return nil
		},
	}
}

func toggleCmd(a *app) *cobra.Command {
	return statusCmd(a, "toggle", "Complete a pending task or reopen a completed one",
		func(id string) (planner.Outcome, error) { return a.ctrl.Toggle(id) })
}

func completeCmd(a *app) *cobra.Command {
	return statusCmd(a, "complete", "Complete a task; recurring tasks move to their next date",
		func(id string) (planner.Outcome, error) { return a.ctrl.Complete(id) })
}

func reopenCmd(a *app) *cobra.Command {
	return statusCmd(a, "reopen", "Mark a completed task pending again",
		func(id string) (planner.Outcome, error) { return a.ctrl.Reopen(id) })
}

func orderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>...",
		Short: "Put the given tasks in this relative order, leaving all others in place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.resolveAll(args)
			if err != nil {
				return err
			}
			n, err := a.ctrl.Reorder(ids)
			if err != nil {
				return staleHint(err)
			}
			return a.reportReorder(n)
		},
	}
}

func moveCmd(a *app) *cobra.Command {
	var (
		f      viewFlags
		before string
	)
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a task before another within a view, or to the end of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := f.context(a)
			if err != nil {
				return err
			}
			t, err := a.ctrl.Resolve(args[0])
			if err != nil {
				return err
			}
			beforeID := ""
			if before != "" {
				b, err := a.ctrl.Resolve(before)
				if err != nil {
					return err
				}
				beforeID = b.ID
			}
			n, err := a.ctrl.Move(t.ID, beforeID, ctx)
			if err != nil {
				return staleHint(err)
			}
			return a.reportReorder(n)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&before, "before", "", "task to place it before (default: end of the view)")
	return cmd
}

func (a *app) resolveAll(refs []string) ([]string, error) {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		t, err := a.ctrl.Resolve(ref)
		if err != nil {
			return nil, err
		}
		ids[i] = t.ID
	}
	return ids, nil
}

func (a *app) reportReorder(n int) error {
	if a.jsonOut {
		return outputJSON(a.out, map[string]int{"updated": n})
	}
	fmt.Fprintf(a.out, "Reordered %d tasks\n", n)
	return nil
}

func staleHint(err error) error {
	if errors.Is(err, reorder.ErrStaleSnapshot) {
		return fmt.Errorf("%w; list the view again and retry", err)
	}
	return err
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task and everything nested under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.ctrl.Resolve(args[0])
			if err != nil {
				return err
			}
			ids, err := a.ctrl.Delete(t.ID)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return outputJSON(a.out, map[string][]string{"deleted": ids})
			}
			fmt.Fprintf(a.out, "%s %s", red("Deleted"), t.Title)
			if len(ids) > 1 {
				fmt.Fprintf(a.out, " and %d nested tasks", len(ids)-1)
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
}

func nextCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "next <id>",
		Short: "Show the upcoming occurrences of a recurring task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.ctrl.Resolve(args[0])
			if err != nil {
				return err
			}
			if t.Date == nil {
				return fmt.Errorf("%s has no date", t.Title)
			}
			var dates []string
			cur := *t.Date
			for len(dates) < count {
				next, ok := schedule.Next(cur, t.Rule())
				if !ok || (t.EndDate != nil && next.After(*t.EndDate)) {
					break
				}
				dates = append(dates, next.String())
				cur = next
			}

			if a.jsonOut {
				return outputJSON(a.out, map[string]any{"id": t.ID, "next": dates})
			}
			if len(dates) == 0 {
				fmt.Fprintf(a.out, "%s does not repeat\n", t.Title)
				return nil
			}
			for _, d := range dates {
				fmt.Fprintln(a.out, d)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of occurrences")
	return cmd
}

func sessionCmd(a *app, use, short, verb string, apply func(id string) (*task.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.ctrl.Resolve(args[0])
			if err != nil {
				return err
			}
			updated, err := apply(t.ID)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return outputJSON(a.out, updated)
			}
			fmt.Fprintf(a.out, "%s %s (%s tracked)\n", verb, updated.Title, task.Tracked(updated, a.now()).Round(time.Second))
			return nil
		},
	}
}

func startCmd(a *app) *cobra.Command {
	return sessionCmd(a, "start", "Start tracking time on a task", "Started",
		func(id string) (*task.Task, error) { return a.ctrl.StartSession(id) })
}

func stopCmd(a *app) *cobra.Command {
	return sessionCmd(a, "stop", "Stop tracking time on a task", "Stopped",
		func(id string) (*task.Task, error) { return a.ctrl.StopSession(id) })
}
