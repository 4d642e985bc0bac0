// Package paths enumerates the 1-D scan paths used by Semi-Global Matching.
//
// A direction is a fixed compass step (DX, DY). Following it from every pixel
// whose predecessor lies outside the image yields a set of disjoint chains that
// together visit each pixel exactly once. The start pixels are derived from the
// direction vector and the image shape instead of being listed per border.
package paths

import (
	"fmt"

	"sgmstereo/internal/models"
)

// Direction is a step vector along a path: DX columns, DY rows
type Direction struct {
	DX, DY int
}

// String formats the direction as "(dx,dy)"
func (d Direction) String() string {
	return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
}

// IsZero reports whether the direction does not move. Such a direction has
// no path starts and cannot be aggregated.
func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

// Point is a pixel position: U is the column, V the row
type Point struct {
	U, V int
}

// PathSet holds the start pixels of every path following one direction
type PathSet struct {
	Direction Direction

	// Starts lists one start pixel per path in row-major order
	Starts []Point

	// Width and Height are the dimensions of the grid the paths cover
	Width, Height int
}

var (
	horizontal = []Direction{{1, 0}, {-1, 0}}
	vertical   = []Direction{{0, 1}, {0, -1}}
	diagonal   = []Direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	knight     = []Direction{
		{1, 2}, {2, 1}, {-1, 2}, {-2, 1},
		{1, -2}, {2, -1}, {-1, -2}, {-2, -1},
	}
)

// ValidCounts lists the supported direction counts
var ValidCounts = []int{1, 2, 4, 8, 16}

// Directions returns the compass directions used for a direction count:
//
//	1  west to east
//	2  both horizontal directions
//	4  horizontal and vertical
//	8  axes and diagonals
//	16 axes, diagonals and the eight knight moves
func Directions(count int) ([]Direction, error) {
	var dirs []Direction
	switch count {
	case 1:
		dirs = append(dirs, horizontal[0])
	case 2:
		dirs = append(dirs, horizontal...)
	case 4:
		dirs = append(append(dirs, horizontal...), vertical...)
	case 8:
		dirs = append(append(append(dirs, horizontal...), vertical...), diagonal...)
	case 16:
		dirs = append(append(append(append(dirs, horizontal...), vertical...), diagonal...), knight...)
	default:
		return nil, fmt.Errorf("%w: %d (must be one of %v)", models.ErrInvalidDirectionCount, count, ValidCounts)
	}
	return dirs, nil
}

// Generate returns one PathSet per direction for a grid of the given size
func Generate(height, width, count int) ([]PathSet, error) {
	dirs, err := Directions(count)
	if err != nil {
		return nil, err
	}

	sets := make([]PathSet, len(dirs))
	for i, dir := range dirs {
		sets[i] = NewPathSet(dir, height, width)
	}
	return sets, nil
}

// NewPathSet computes the start pixels for one direction. A pixel starts a
// path when stepping back along the direction leaves the grid; for axis
// directions that is one border, for diagonals and knight moves it is a border
// row (or two rows for |DY| = 2) joined with part of a side column.
func NewPathSet(dir Direction, height, width int) PathSet {
	ps := PathSet{Direction: dir, Width: width, Height: height}
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			if !ps.Contains(Point{U: u - dir.DX, V: v - dir.DY}) {
				ps.Starts = append(ps.Starts, Point{U: u, V: v})
			}
		}
	}
	return ps
}

// Contains reports whether p lies inside the grid
func (ps PathSet) Contains(p Point) bool {
	return p.U >= 0 && p.U < ps.Width && p.V >= 0 && p.V < ps.Height
}

// Walk calls fn for every pixel of the path beginning at start, in path
// order. prev is the predecessor on the path; first is true for start itself.
func (ps PathSet) Walk(start Point, fn func(p, prev Point, first bool)) {
	fn(start, start, true)
	prev := start
	for p := ps.next(start); ps.Contains(p); p = ps.next(p) {
		fn(p, prev, false)
		prev = p
	}
}

func (ps PathSet) next(p Point) Point {
	return Point{U: p.U + ps.Direction.DX, V: p.V + ps.Direction.DY}
}
