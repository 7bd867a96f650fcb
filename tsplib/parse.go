package tsplib

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/tspcache/arena"
)

const (
	// SectionStart opens the coordinate section.
	SectionStart = "NODE_COORD_SECTION"
	// SectionEnd closes the coordinate section.
	SectionEnd = "EOF"

	// DefaultMaxLineLen bounds the length of a single line.
	DefaultMaxLineLen = 64 << 10

	initialLineBuf = 1 << 10
)

// Point is a city coordinate.
type Point struct {
	X, Y float32
}

// Options tunes parsing.
type Options struct {
	// MaxLineLen bounds a single line. Defaults to DefaultMaxLineLen.
	MaxLineLen int
	// OnMalformed, if set, is called for every skipped record.
	OnMalformed func(*RecordError)
}

func (o Options) maxLineLen() int {
	if o.MaxLineLen <= 0 {
		return DefaultMaxLineLen
	}
	return o.MaxLineLen
}

func (o Options) malformed(e *RecordError) {
	if o.OnMalformed != nil {
		o.OnMalformed(e)
	}
}

// section walks the lines of the coordinate section, calling fn with the
// 1-based line number and the trimmed line. Blank lines are skipped.
// Markers only count at the start of a line; an indented "EOF" is a record.
func section(sc *bufio.Scanner, fn func(lineNo int, line string)) error {
	inside := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		if !inside {
			inside = strings.HasPrefix(raw, SectionStart)
			continue
		}
		if strings.HasPrefix(raw, SectionEnd) {
			break
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		fn(lineNo, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("tsplib: read line %d: %w", lineNo+1, err)
	}
	return nil
}

// CountEntries returns the number of non-blank lines in the coordinate
// section of r. Malformed lines are counted too.
func CountEntries(r io.Reader, opts Options) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(initialLineBuf, opts.maxLineLen())), opts.maxLineLen())

	count := 0
	err := section(sc, func(int, string) { count++ })
	return count, err
}

// ParseRecord parses "<index> <x> <y>". Tokens after the third are ignored.
func ParseRecord(line string) (index int, p Point, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, Point{}, fmt.Errorf("want 3 fields, got %d", len(fields))
	}
	index, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, Point{}, fmt.Errorf("index: %w", err)
	}
	x, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return 0, Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(fields[2], 32)
	if err != nil {
		return 0, Point{}, fmt.Errorf("y: %w", err)
	}
	return index, Point{X: float32(x), Y: float32(y)}, nil
}

// LoadCoordinates allocates count points from a and fills them from the
// coordinate section of r. Record i lands at slot i-1; slots without a record
// stay zero.
func LoadCoordinates(a arena.Allocator, r io.Reader, count int, opts Options) ([]Point, error) {
	points, err := arena.AllocSlice[Point](a, count, arena.Align8)
	if err != nil {
		return nil, fmt.Errorf("tsplib: allocate %d points: %w", count, err)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(initialLineBuf, opts.maxLineLen())), opts.maxLineLen())

	err = section(sc, func(lineNo int, line string) {
		index, p, perr := ParseRecord(line)
		switch {
		case perr != nil:
			opts.malformed(&RecordError{Line: lineNo, Text: line, Reason: perr.Error()})
		case index < 1 || index > count:
			opts.malformed(&RecordError{
				Line:   lineNo,
				Text:   line,
				Reason: fmt.Sprintf("index %d outside [1, %d]", index, count),
			})
		default:
			points[index-1] = p
		}
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}
