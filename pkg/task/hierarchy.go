package task

// MaxDepth is the deepest nesting consumers honour: root, child, grandchild.
const MaxDepth = 3

// Index provides parent/child lookups over a task snapshot.
// Parent references are followed at read time only, never validated on
// write, so every walk is bounded by MaxDepth.
type Index struct {
	byID     map[string]*Task
	children map[string][]*Task
}

// NewIndex indexes tasks by id and by parent. Children keep slice order.
func NewIndex(tasks []*Task) *Index {
	ix := &Index{
		byID:     make(map[string]*Task, len(tasks)),
		children: make(map[string][]*Task),
	}
	for _, t := range tasks {
		ix.byID[t.ID] = t
	}
	for _, t := range tasks {
		if t.ParentID != "" {
			ix.children[t.ParentID] = append(ix.children[t.ParentID], t)
		}
	}
	return ix
}

// Get looks up a task by id.
func (ix *Index) Get(id string) (*Task, bool) {
	t, ok := ix.byID[id]
	return t, ok
}

// Parent returns t's parent, or nil for roots and orphans.
func (ix *Index) Parent(t *Task) *Task {
	if t.ParentID == "" || t.ParentID == t.ID {
		return nil
	}
	return ix.byID[t.ParentID]
}

// Children returns the direct children of id.
func (ix *Index) Children(id string) []*Task {
	return ix.children[id]
}

// Depth returns 1 for a root, 2 for a child and 3 for a grandchild. Anything
// nested deeper, including parent cycles, reports MaxDepth+1.
func (ix *Index) Depth(t *Task) int {
	depth := 1
	for p := ix.Parent(t); p != nil; p = ix.Parent(p) {
		depth++
		if depth > MaxDepth {
			return MaxDepth + 1
		}
	}
	return depth
}

// Ancestors returns t's parent chain, nearest first, stopping at MaxDepth.
func (ix *Index) Ancestors(t *Task) []*Task {
	var out []*Task
	for p := ix.Parent(t); p != nil && len(out) < MaxDepth-1; p = ix.Parent(p) {
		out = append(out, p)
	}
	return out
}

// IsWithin reports whether t is the task rootID or one of its descendants.
func (ix *Index) IsWithin(t *Task, rootID string) bool {
	if t.ID == rootID {
		return true
	}
	for _, a := range ix.Ancestors(t) {
		if a.ID == rootID {
			return true
		}
	}
	return false
}

// Descendants returns every task below id, parents before children. Cycles
// are cut by tracking visited ids; depth is not capped so cascades reach
// everything that references the subtree.
func (ix *Index) Descendants(id string) []*Task {
	var out []*Task
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range ix.children[cur] {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
			queue = append(queue, c.ID)
		}
	}
	return out
}
