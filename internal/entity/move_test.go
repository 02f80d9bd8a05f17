package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMove_InBounds(t *testing.T) {
	for _, tc := range []struct {
		name        string
		row, column int
		want        bool
	}{
		{"top left corner", 0, 0, true},
		{"bottom right corner", 2, 2, true},
		{"negative row", -1, 0, false},
		{"negative column", 0, -1, false},
		{"row past the edge", 3, 0, false},
		{"column past the edge", 0, 3, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			move := Move{Row: tc.row, Column: tc.column}
			assert.Equal(t, tc.want, move.InBounds())
		})
	}
}
