// Package viewport tracks the selector cursor and the slice of a long list
// that fits in a fixed number of terminal rows.
package viewport

import "strings"

const (
	selectedMarker = ">> "
	blankMarker    = "   "
)

// ComputeWindow returns the half-open range [from, upto) of a list of total
// rows to show in size rows. The selected row is the first visible row
// unless the window would run past the end of the list, in which case the
// window is pinned to the end.
func ComputeWindow(total, selected, size int) (from, upto int) {
	if total <= size {
		return 0, total
	}

	if total-selected < size {
		from = total - size
	} else {
		from = selected
	}

	if selected+size < total {
		upto = selected + size
	} else {
		upto = total
	}
	return from, upto
}

// Selection is the cursor into the currently filtered list.
type Selection struct {
	Cursor int
	Rows   int
}

func NewSelection(rows int) Selection {
	if rows < 1 {
		rows = 1
	}
	return Selection{Rows: rows}
}

// Next moves down one row, stopping at the last row.
func (s *Selection) Next(total int) {
	if s.Cursor < total-1 {
		s.Cursor++
	}
}

// Previous moves up one row, stopping at the first row.
func (s *Selection) Previous() {
	if s.Cursor > 0 {
		s.Cursor--
	}
}

// Reset puts the cursor back on the first row. Call it whenever the filter
// changes.
func (s *Selection) Reset() {
	s.Cursor = 0
}

// Clamp keeps the cursor inside a list of total rows.
func (s *Selection) Clamp(total int) {
	if s.Cursor >= total {
		s.Cursor = total - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

func (s Selection) Window(total int) (from, upto int) {
	return ComputeWindow(total, s.Cursor, s.Rows)
}

// Render formats names[from:upto], one per line without a trailing
// newline. With marker set, the selected row is prefixed with ">> " and
// the others are indented to match.
func Render(names []string, cursor, from, upto int, marker bool) string {
	var b strings.Builder
	for i := from; i < upto; i++ {
		if marker {
			if i == cursor {
				b.WriteString(selectedMarker)
			} else {
				b.WriteString(blankMarker)
			}
		}
		b.WriteString(names[i])
		if i < upto-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// View renders the window that the selection currently shows.
func (s Selection) View(names []string) string {
	from, upto := s.Window(len(names))
	return Render(names, s.Cursor, from, upto, true)
}
