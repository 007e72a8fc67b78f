package domain

import (
	"strconv"
	"strings"
)

// Row is a single spreadsheet record keyed by header name. Values arrive as
// loosely-typed strings; all coercion happens here, at the boundary, so the
// rest of the engine never touches raw cell text.
type Row map[string]string

// Get returns the trimmed value for a header, "" when absent.
func (r Row) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// HP coerces the HP cell to an integer. Empty and non-numeric cells count
// as zero, never as an error.
func (r Row) HP() int {
	raw := r.Get("HP")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// Matches reports whether the row belongs to the given alliance and group.
func (r Row) Matches(alliance, group string) bool {
	return r.Get("Alliance") == alliance && r.Get("Group") == group
}

// Key is the compound (alliance, group, game) identity of a row. It is the
// de-facto primary key of ledger rows.
func (r Row) Key() string {
	return JoinKey(r.Get("Alliance"), r.Get("Group"), r.Get("Game"))
}

// JoinKey builds the lookup key used to join day-sheet rows against the
// ledger.
func JoinKey(alliance, group, game string) string {
	return alliance + "|" + group + "|" + game
}

// Table is a full worksheet read: the header row in sheet order plus one Row
// per data line. Header order is kept so writes can address cells by column.
type Table struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Column returns the 1-based sheet column index of a header.
func (t Table) Column(name string) (int, bool) {
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i + 1, true
		}
	}
	return 0, false
}

// SheetRow returns the 1-based sheet row index of the i-th data row
// (row 1 is the header).
func (t Table) SheetRow(i int) int {
	return i + 2
}
