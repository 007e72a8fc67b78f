package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowHP(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want int
	}{
		{name: "plain number", row: Row{"HP": "5"}, want: 5},
		{name: "padded number", row: Row{"HP": "  12 "}, want: 12},
		{name: "empty string", row: Row{"HP": ""}, want: 0},
		{name: "missing field", row: Row{}, want: 0},
		{name: "non-numeric", row: Row{"HP": "n/a"}, want: 0},
		{name: "decimal is not coerced", row: Row{"HP": "3.5"}, want: 0},
		{name: "negative parses", row: Row{"HP": "-2"}, want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.HP())
		})
	}
}

func TestRowMatchesTrimsFields(t *testing.T) {
	row := Row{"Alliance": " Gaia ", "Group": "G1"}
	assert.True(t, row.Matches("Gaia", "G1"))
	assert.False(t, row.Matches("Gaia", "G2"))
	assert.False(t, row.Matches("Hydro", "G1"))
}

func TestNaturalLess(t *testing.T) {
	groups := []string{"G1", "G2", "G10", "G3"}
	sort.Slice(groups, func(i, j int) bool { return NaturalLess(groups[i], groups[j]) })
	assert.Equal(t, []string{"G1", "G2", "G3", "G10"}, groups)
}

func TestNaturalLessMixed(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"G2", "G10", true},
		{"G10", "G2", false},
		{"G2", "G2", false},
		{"A9", "B1", true},
		{"G02", "G2a", true},
		{"", "G1", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NaturalLess(tt.a, tt.b), "%q < %q", tt.a, tt.b)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"09:00", 540, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{" 10:30 ", 630, true},
		{"", 0, false},
		{"morning", 0, false},
		{"25:00", 0, false},
		{"10:61", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseClock(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotStart(t *testing.T) {
	assert.Equal(t, 540, SlotStart("09:00-09:30"))
	assert.Equal(t, 0, SlotStart("??-09:30"))
	assert.Equal(t, 0, SlotStart(""))
}

func TestHeartFor(t *testing.T) {
	tests := []struct {
		hp   int
		want string
	}{
		{100, "💚"},
		{81, "💚"},
		{80, "💛"},
		{61, "💛"},
		{60, "🧡"},
		{41, "🧡"},
		{40, "❤️"},
		{21, "❤️"},
		{20, "🖤"},
		{0, "🖤"},
		{-5, "🖤"},
		{1000, "💚"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HeartFor(tt.hp), "hp=%d", tt.hp)
	}
}

func TestTableColumn(t *testing.T) {
	table := Table{Headers: []string{"Alliance", "Group", "Game", "Category", "HP"}}

	col, ok := table.Column("HP")
	assert.True(t, ok)
	assert.Equal(t, 5, col)

	col, ok = table.Column("hp")
	assert.True(t, ok, "column lookup is case-insensitive")
	assert.Equal(t, 5, col)

	_, ok = table.Column("Missing")
	assert.False(t, ok)
}

func TestTableSheetRow(t *testing.T) {
	var table Table
	assert.Equal(t, 2, table.SheetRow(0), "first data row sits under the header")
	assert.Equal(t, 7, table.SheetRow(5))
}
