package reorder

import (
	"fmt"
	"slices"

	"github.com/stefanpenner/cadence/pkg/view"
)

// UnitAt returns the half-open row span [start, end) that moves together
// when row i is dragged: the row and its displayed subtree.
func UnitAt(rows []view.Row, i int) (start, end int) {
	if i < 0 || i >= len(rows) {
		return 0, 0
	}
	end = i + 1
	for end < len(rows) && rows[end].Depth > rows[i].Depth {
		end++
	}
	return i, end
}

// MoveUnit shifts rows[start:end] past its neighbouring sibling unit. A
// negative delta moves up, a positive one down. It returns the new rows and
// the unit's new start; a unit already first or last among its siblings
// stays put.
func MoveUnit(rows []view.Row, start, end, delta int) ([]view.Row, int, error) {
	if start < 0 || end > len(rows) || start >= end {
		return nil, 0, fmt.Errorf("invalid span [%d, %d) of %d rows", start, end, len(rows))
	}
	out := slices.Clone(rows)
	unit := slices.Clone(rows[start:end])
	depth := rows[start].Depth

	switch {
	case delta < 0:
		if start == 0 {
			return out, start, nil
		}
		prev := neighbourStart(rows, start, depth)
		if prev < 0 {
			return out, start, nil
		}
		out = slices.Delete(out, start, end)
		out = slices.Insert(out, prev, unit...)
		return out, prev, nil
	case delta > 0:
		if end >= len(rows) {
			return out, start, nil
		}
		nextEnd := neighbourEnd(rows, end, depth)
		if nextEnd < 0 {
			return out, start, nil
		}
		out = slices.Delete(out, start, end)
		at := nextEnd - (end - start)
		out = slices.Insert(out, at, unit...)
		return out, at, nil
	default:
		return out, start, nil
	}
}

// neighbourStart finds where the preceding sibling unit begins, or -1 when
// the unit is first among its siblings.
func neighbourStart(rows []view.Row, start, depth int) int {
	for i := start - 1; i >= 0; i-- {
		switch {
		case rows[i].Depth == depth:
			return i
		case rows[i].Depth < depth:
			return -1
		}
	}
	return -1
}

// neighbourEnd finds where the following sibling unit ends, or -1 when the
// unit is last among its siblings.
func neighbourEnd(rows []view.Row, end, depth int) int {
	if end >= len(rows) || rows[end].Depth != depth {
		return -1
	}
	i := end + 1
	for i < len(rows) && rows[i].Depth > depth {
		i++
	}
	return i
}
