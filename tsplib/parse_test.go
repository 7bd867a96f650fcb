package tsplib

import (
	"bufio"
	"strings"
	"testing"

	"github.com/hupe1980/tspcache/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScratch(t *testing.T) *arena.ScratchArena {
	t.Helper()
	s, err := arena.NewScratch(1 << 16)
	require.NoError(t, err)
	t.Cleanup(s.Destroy)
	return s
}

func TestCountAndLoad_SingleRecord(t *testing.T) {
	text := "NODE_COORD_SECTION\n1 42150.0 82966.6667\nEOF\n"

	count, err := CountEntries(strings.NewReader(text), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	pts, err := LoadCoordinates(newScratch(t), strings.NewReader(text), count, Options{})
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, float32(42150.0), pts[0].X)
	assert.Equal(t, float32(82966.6667), pts[0].Y)
}

func TestCountEntries(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"no section", "NAME : x\n1 1 1\n", 0},
		{"header ignored", "NAME : x\nDIMENSION : 2\nNODE_COORD_SECTION\n1 0 0\n2 1 1\nEOF\n", 2},
		{"no end marker", "NODE_COORD_SECTION\n1 0 0\n2 1 1\n3 2 2", 3},
		{"lines after end ignored", "NODE_COORD_SECTION\n1 0 0\nEOF\n2 1 1\n", 1},
		{"malformed counted", "NODE_COORD_SECTION\n1 0 0\ngarbage\nEOF\n", 2},
		{"blank lines skipped", "NODE_COORD_SECTION\n\n1 0 0\n   \n2 1 1\nEOF\n", 2},
		{"crlf and indent", "NODE_COORD_SECTION\r\n  1 0 0\r\n  2 1 1\r\nEOF\r\n", 2},
		{"indented end marker is a record", "NODE_COORD_SECTION\n1 0 0\n  EOF\n2 1 1\nEOF\n", 3},
		{"indented start marker ignored", "  NODE_COORD_SECTION\n1 0 0\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountEntries(strings.NewReader(tt.text), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountEntries_LineTooLong(t *testing.T) {
	text := "NODE_COORD_SECTION\n1 " + strings.Repeat("9", 200) + " 0\nEOF\n"
	opts := Options{MaxLineLen: 64}

	_, err := CountEntries(strings.NewReader(text), opts)
	assert.ErrorIs(t, err, bufio.ErrTooLong)

	_, err = LoadCoordinates(newScratch(t), strings.NewReader(text), 1, opts)
	assert.ErrorIs(t, err, bufio.ErrTooLong)

	// Lines under the limit still parse with a small buffer.
	count, err := CountEntries(strings.NewReader("NODE_COORD_SECTION\n1 2 3\nEOF\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoadCoordinates_IndentedEndMarker(t *testing.T) {
	text := "NODE_COORD_SECTION\n1 0 0\n  EOF\n2 3 4\nEOF\n"

	var skipped []*RecordError
	opts := Options{OnMalformed: func(e *RecordError) { skipped = append(skipped, e) }}

	pts, err := LoadCoordinates(newScratch(t), strings.NewReader(text), 2, opts)
	require.NoError(t, err)
	assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 3, Y: 4}}, pts)

	require.Len(t, skipped, 1)
	assert.Equal(t, 3, skipped[0].Line)
	assert.Equal(t, "EOF", skipped[0].Text)
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		line    string
		index   int
		p       Point
		wantErr bool
	}{
		{"1 0 0", 1, Point{}, false},
		{"3 3.5 -4", 3, Point{X: 3.5, Y: -4}, false},
		{"7 1e3 0.25 extra", 7, Point{X: 1000, Y: 0.25}, false},
		{"2\t10\t20", 2, Point{X: 10, Y: 20}, false},
		{"1 2", 0, Point{}, true},
		{"x 1 2", 0, Point{}, true},
		{"1 x 2", 0, Point{}, true},
		{"1 2 y", 0, Point{}, true},
		{"1.5 2 3", 0, Point{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			index, p, err := ParseRecord(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.p, p)
		})
	}
}

func TestLoadCoordinates_SkipsBadRecords(t *testing.T) {
	text := strings.Join([]string{
		"NAME : mixed",
		"NODE_COORD_SECTION",
		"2 3 0",
		"1 0 0",
		"not a record",
		"9 5 5",
		"0 5 5",
		"3 3 4",
		"EOF",
		"",
	}, "\n")

	count, err := CountEntries(strings.NewReader(text), Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	var skipped []*RecordError
	opts := Options{OnMalformed: func(e *RecordError) { skipped = append(skipped, e) }}

	pts, err := LoadCoordinates(newScratch(t), strings.NewReader(text), 3, opts)
	require.NoError(t, err)
	assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}, pts)

	require.Len(t, skipped, 3)
	assert.Equal(t, 5, skipped[0].Line)
	assert.Equal(t, "not a record", skipped[0].Text)
	assert.Equal(t, 6, skipped[1].Line)
	assert.Contains(t, skipped[1].Reason, "outside [1, 3]")
	assert.Equal(t, 7, skipped[2].Line)
	for _, e := range skipped {
		assert.ErrorIs(t, e, ErrMalformedRecord)
	}
}

func TestLoadCoordinates_MissingSlotsStayZero(t *testing.T) {
	s := newScratch(t)

	// Dirty the arena so zeroing is observable.
	s.Checkpoint()
	junk, err := s.Alloc(256, arena.Align8)
	require.NoError(t, err)
	for i := range junk {
		junk[i] = 0xFF
	}
	s.Restore()

	text := "NODE_COORD_SECTION\n3 1 1\nEOF\n"
	pts, err := LoadCoordinates(s, strings.NewReader(text), 3, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Point{{}, {}, {X: 1, Y: 1}}, pts)
}

func TestLoadCoordinates_ArenaTooSmall(t *testing.T) {
	s, err := arena.NewScratch(16)
	require.NoError(t, err)
	defer s.Destroy()

	_, err = LoadCoordinates(s, strings.NewReader(""), 100, Options{})
	assert.ErrorIs(t, err, arena.ErrOverflow)
}

func TestRecordError(t *testing.T) {
	e := &RecordError{Line: 4, Text: "a b", Reason: "want 3 fields, got 2"}
	assert.Equal(t, `tsplib: line 4: want 3 fields, got 2: "a b"`, e.Error())
	assert.ErrorIs(t, e, ErrMalformedRecord)
}
