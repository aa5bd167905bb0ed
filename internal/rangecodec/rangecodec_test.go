package rangecodec

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name        string
		text        string
		wantIDs     []int
		wantSkipped []string
	}{
		{
			name:    "bare integers",
			text:    "12, 20, 7",
			wantIDs: []int{12, 20, 7},
		},
		{
			name:    "dash range",
			text:    "12-15",
			wantIDs: []int{12, 13, 14, 15},
		},
		{
			name:    "mixed list and range",
			text:    "12-15, 20",
			wantIDs: []int{12, 13, 14, 15, 20},
		},
		{
			name:    "slash path token",
			text:    "Admin/WS/F-9/031",
			wantIDs: []int{31},
		},
		{
			name:    "legacy to form",
			text:    "Dept/WS/F-5/001 to Dept/WS/F-5/098",
			wantIDs: spanOf(1, 98),
		},
		{
			name:    "legacy to form with bare numbers",
			text:    "100 to 103",
			wantIDs: []int{100, 101, 102, 103},
		},
		{
			name:    "duplicates collapse",
			text:    "5, 5, 4-6",
			wantIDs: []int{5, 4, 6},
		},
		{
			name:        "malformed tokens skipped not fatal",
			text:        "10, abc, 12-x, 15",
			wantIDs:     []int{10, 15},
			wantSkipped: []string{"abc", "12-x"},
		},
		{
			name:        "reversed range skipped",
			text:        "9-3",
			wantSkipped: []string{"9-3"},
		},
		{
			name:        "non numeric path tail skipped",
			text:        "Admin/WS/F-9/xyz",
			wantSkipped: []string{"Admin/WS/F-9/xyz"},
		},
		{
			name: "empty input",
			text: "  , ,",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Parse(tc.text)
			assert.ElementsMatch(t, tc.wantIDs, res.IDs)
			assert.Equal(t, tc.wantSkipped, res.Skipped)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "3, 7, 12", Format([]int{12, 3, 7}))
	assert.Equal(t, "4, 5", Format([]int{5, 4, 5}))
	assert.Equal(t, "", Format(nil))
}

// Round-trip property: Parse(Format(ids)) equals sort(dedupe(ids)).
func TestParseFormatRoundTrip(t *testing.T) {
	inputs := [][]int{
		{1, 2, 3},
		{30, 10, 20, 10},
		{100},
		{7, 7, 7},
	}
	for _, ids := range inputs {
		res := Parse(Format(ids))
		assert.Empty(t, res.Skipped)

		want := dedupeSorted(ids)
		got := append([]int(nil), res.IDs...)
		sort.Ints(got)
		assert.Equal(t, want, got)
	}
}

func TestSeatIdentifiers(t *testing.T) {
	ids := SeatIdentifiers("100-109", 10)
	assert.Equal(t, spanOf(100, 109), ids)

	// The sequence always has labTotal entries, even when the range is
	// shorter than the lab.
	ids = SeatIdentifiers("100-104", 10)
	assert.Len(t, ids, 10)
	assert.Equal(t, 109, ids[9])

	assert.Nil(t, SeatIdentifiers("", 10))
	assert.Nil(t, SeatIdentifiers("garbage", 10))
	assert.Nil(t, SeatIdentifiers("100-109", 0))
}

// Bijection: identifier(position) == start + position - 1 and
// PositionOf inverts IdentifierAt for every position in the lab.
func TestPositionIdentifierBijection(t *testing.T) {
	const rangeText = "100-109"
	const total = 10
	for pos := 1; pos <= total; pos++ {
		id, ok := IdentifierAt(rangeText, pos)
		assert.True(t, ok)
		assert.Equal(t, 100+pos-1, id)

		back, ok := PositionOf(rangeText, total, id)
		assert.True(t, ok)
		assert.Equal(t, pos, back)
	}

	// Outside the block in either direction.
	_, ok := IdentifierAt(rangeText, 11)
	assert.False(t, ok)
	_, ok = PositionOf(rangeText, total, 99)
	assert.False(t, ok)
	_, ok = PositionOf(rangeText, total, 110)
	assert.False(t, ok)
}

func spanOf(a, b int) []int {
	out := make([]int, 0, b-a+1)
	for v := a; v <= b; v++ {
		out = append(out, v)
	}
	return out
}

func dedupeSorted(ids []int) []int {
	seen := map[int]struct{}{}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
