package domain

import "strings"

// SortDirection orders a sorted list.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortColumns lists the Issue fields the backend knows how to sort by,
// in the order the list view cycles through them.
var SortColumns = []string{"updatedAt", "createdAt", "title", "status", "priority", "assignee"}

// ParseSortDirection accepts asc/desc in any case. Anything else is desc.
func ParseSortDirection(raw string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(raw), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// Arrow renders the direction as a single glyph.
func (d SortDirection) Arrow() string {
	if d == SortAsc {
		return "↑"
	}
	return "↓"
}

// IsSortColumn reports whether column is a known Issue field.
func IsSortColumn(column string) bool {
	for _, c := range SortColumns {
		if c == column {
			return true
		}
	}
	return false
}

// NextSortColumn returns the column after current in SortColumns,
// wrapping around. Unknown columns restart at the first entry.
func NextSortColumn(current string) string {
	for i, c := range SortColumns {
		if c == current {
			return SortColumns[(i+1)%len(SortColumns)]
		}
	}
	return SortColumns[0]
}
