package view

import "github.com/stefanpenner/cadence/pkg/task"

// Row is one line of a flattened task tree.
type Row struct {
	Task        *task.Task
	Depth       int // 0 for roots
	HasChildren bool
	IsCollapsed bool
}

// Tree flattens a visible set into display rows: each task is followed by its
// visible children. Tasks whose parent is not visible are shown as roots.
// Children of a collapsed task are omitted.
func Tree(visible []*task.Task, collapsed map[string]bool) []Row {
	inView := make(map[string]bool, len(visible))
	for _, t := range visible {
		inView[t.ID] = true
	}
	children := make(map[string][]*task.Task)
	var roots []*task.Task
	for _, t := range visible {
		if t.ParentID != "" && t.ParentID != t.ID && inView[t.ParentID] {
			children[t.ParentID] = append(children[t.ParentID], t)
			continue
		}
		roots = append(roots, t)
	}

	var rows []Row
	seen := make(map[string]bool, len(visible))
	var walk func(ts []*task.Task, depth int)
	walk = func(ts []*task.Task, depth int) {
		for _, t := range ts {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			kids := children[t.ID]
			if depth >= task.MaxDepth-1 {
				kids = nil
			}
			row := Row{
				Task:        t,
				Depth:       depth,
				HasChildren: len(kids) > 0,
				IsCollapsed: collapsed[t.ID],
			}
			rows = append(rows, row)
			if row.HasChildren && !row.IsCollapsed {
				walk(kids, depth+1)
			}
		}
	}
	walk(roots, 0)
	return rows
}

// IDs returns the task ids of rows in display order.
func IDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Task.ID
	}
	return ids
}
