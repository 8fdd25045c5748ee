package geo

import "fmt"

// Rect is an axis-aligned rectangle with its top-left corner at (X, Y).
// The right and bottom edges are exclusive.
type Rect[T Scalar] struct {
	X, Y          T
	Width, Height T
}

type (
	Recti = Rect[int]
	Rectf = Rect[float64]
)

// NewRect returns the rectangle at (x, y) with the given size.
func NewRect[T Scalar](x, y, w, h T) Rect[T] {
	return Rect[T]{X: x, Y: y, Width: w, Height: h}
}

// RectFromCorners returns the rectangle spanning [x1, x2) x [y1, y2).
func RectFromCorners[T Scalar](x1, y1, x2, y2 T) Rect[T] {
	return Rect[T]{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (r Rect[T]) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

// Area returns Width*Height.
func (r Rect[T]) Area() T { return r.Width * r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect[T]) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// TL returns the top-left corner.
func (r Rect[T]) TL() Point[T] { return Point[T]{r.X, r.Y} }

// BR returns the bottom-right corner (exclusive).
func (r Rect[T]) BR() Point[T] { return Point[T]{r.X + r.Width, r.Y + r.Height} }

// Contains reports whether p lies inside r.
func (r Rect[T]) Contains(p Point[T]) bool {
	return r.X <= p.X && p.X < r.X+r.Width &&
		r.Y <= p.Y && p.Y < r.Y+r.Height
}

// ContainsRect reports whether s lies entirely inside r.
func (r Rect[T]) ContainsRect(s Rect[T]) bool {
	return s.X >= r.X && s.Y >= r.Y &&
		s.X+s.Width <= r.X+r.Width && s.Y+s.Height <= r.Y+r.Height
}

// Intersect returns the overlap of r and s. When they do not overlap the
// result is an empty rectangle anchored at the would-be top-left corner.
func (r Rect[T]) Intersect(s Rect[T]) Rect[T] {
	x0 := max(r.X, s.X)
	y0 := max(r.Y, s.Y)
	x1 := min(r.X+r.Width, s.X+s.Width)
	y1 := min(r.Y+r.Height, s.Y+s.Height)
	if x0 > x1 || y0 > y1 {
		return Rect[T]{X: x0, Y: y0}
	}
	return Rect[T]{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
