// Package geo provides the small point and rectangle types used by the
// geometry packages.
package geo

import "fmt"

// Scalar is the coordinate type of points and rectangles.
type Scalar interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Point is a 2D point or vector.
type Point[T Scalar] struct {
	X, Y T
}

// Pointi and Pointf are the integer and floating-point instantiations.
type (
	Pointi = Point[int]
	Pointf = Point[float64]
)

// Pt is shorthand for Point[T]{x, y}.
func Pt[T Scalar](x, y T) Point[T] {
	return Point[T]{X: x, Y: y}
}

func (p Point[T]) String() string {
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}

// Add returns p+q.
func (p Point[T]) Add(q Point[T]) Point[T] { return Point[T]{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point[T]) Sub(q Point[T]) Point[T] { return Point[T]{p.X - q.X, p.Y - q.Y} }

// Neg returns -p.
func (p Point[T]) Neg() Point[T] { return Point[T]{-p.X, -p.Y} }

// Mul returns p scaled by k.
func (p Point[T]) Mul(k T) Point[T] { return Point[T]{p.X * k, p.Y * k} }

// Div returns p divided by k.
func (p Point[T]) Div(k T) Point[T] { return Point[T]{p.X / k, p.Y / k} }
