// Package affine estimates and applies 2D affine transforms.
//
// An Affine2D carries its forward matrix together with the inverse, which
// is computed once when the transform is built. Transforms that cannot be
// inverted are rejected at construction, so every Affine2D maps both ways.
package affine

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/raster-tools-mcp/internal/geo"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
	"gonum.org/v1/gonum/mat"
)

// ErrNotEnoughPoints is returned by the estimators when the point sets
// differ in length or are too small to determine a transform.
var ErrNotEnoughPoints = errors.New("affine: not enough point pairs")

// Mat3 is a row-major 3x3 matrix acting on column vectors [x y 1].
type Mat3 [3][3]float64

// Mul returns m*n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return r
}

func (m Mat3) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
}

// Affine2D is a forward matrix T and its inverse TInv.
type Affine2D struct {
	T    Mat3
	TInv Mat3
}

// FromMat builds a transform from t, computing its inverse.
// It returns raster.ErrSingularTransform if t has no inverse. Matrices that
// are merely ill-conditioned, such as a large translation, are accepted.
func FromMat(t Mat3) (*Affine2D, error) {
	d := t.dense()
	if mat.Det(d) == 0 {
		return nil, fmt.Errorf("invert %v: zero determinant: %w", t, raster.ErrSingularTransform)
	}
	var inv mat.Dense
	if err := invert(&inv, d); err != nil {
		return nil, fmt.Errorf("invert %v: %v: %w", t, err, raster.ErrSingularTransform)
	}
	a := &Affine2D{T: t}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.TInv[i][j] = inv.At(i, j)
		}
	}
	return a, nil
}

// Identity returns the identity transform.
func Identity() *Affine2D {
	id := Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	return &Affine2D{T: id, TInv: id}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) *Affine2D {
	return &Affine2D{
		T:    Mat3{{1, 0, tx}, {0, 1, ty}, {0, 0, 1}},
		TInv: Mat3{{1, 0, -tx}, {0, 1, -ty}, {0, 0, 1}},
	}
}

// Scale returns a scaling about the origin. Either factor being zero yields
// raster.ErrSingularTransform.
func Scale(sx, sy float64) (*Affine2D, error) {
	if sx == 0 || sy == 0 {
		return nil, fmt.Errorf("scale by (%v, %v): %w", sx, sy, raster.ErrSingularTransform)
	}
	return &Affine2D{
		T:    Mat3{{sx, 0, 0}, {0, sy, 0}, {0, 0, 1}},
		TInv: Mat3{{1 / sx, 0, 0}, {0, 1 / sy, 0}, {0, 0, 1}},
	}, nil
}

// Rotate returns a rotation by angle radians about the origin. With y
// pointing down, positive angles turn clockwise on screen.
func Rotate(angle float64) *Affine2D {
	s, c := math.Sincos(angle)
	return &Affine2D{
		T:    Mat3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}},
		TInv: Mat3{{c, s, 0}, {-s, c, 0}, {0, 0, 1}},
	}
}

// RotateAbout returns a rotation by angle radians about center.
func RotateAbout(angle float64, center geo.Pointf) *Affine2D {
	return Compose(Translate(-center.X, -center.Y), Rotate(angle), Translate(center.X, center.Y))
}

// Compose returns the transform that applies ts in order: the first
// element is applied first.
func Compose(ts ...*Affine2D) *Affine2D {
	out := Identity()
	for _, t := range ts {
		out.T = t.T.Mul(out.T)
		out.TInv = out.TInv.Mul(t.TInv)
	}
	return out
}

// FromPoints estimates the affine transform mapping src onto dst in the
// least-squares sense. It needs at least three pairs.
//
// Errors:
//   - ErrNotEnoughPoints if len(src) != len(dst) or fewer than 3 pairs
//   - raster.ErrSingularTransform if the points are degenerate (collinear)
func FromPoints(src, dst []geo.Pointf) (*Affine2D, error) {
	n := len(src)
	if n != len(dst) || n < 3 {
		return nil, fmt.Errorf("affine from %d/%d points: %w", len(src), len(dst), ErrNotEnoughPoints)
	}

	c := centroid(src)
	a := mat.NewDense(2*n, 6, nil)
	b := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		p := src[i].Sub(c)
		a.Set(i, 0, p.X)
		a.Set(i, 1, p.Y)
		a.Set(i, 2, 1)
		a.Set(n+i, 3, p.X)
		a.Set(n+i, 4, p.Y)
		a.Set(n+i, 5, 1)
		b.SetVec(i, dst[i].X)
		b.SetVec(n+i, dst[i].Y)
	}

	x, err := solve(a, b)
	if err != nil {
		raster.Logger().Debug("affine estimate failed", "points", n, "err", err)
		return nil, err
	}
	m00, m01, m10, m11 := x.AtVec(0), x.AtVec(1), x.AtVec(3), x.AtVec(4)
	return FromMat(Mat3{
		{m00, m01, x.AtVec(2) - m00*c.X - m01*c.Y},
		{m10, m11, x.AtVec(5) - m10*c.X - m11*c.Y},
		{0, 0, 1},
	})
}

// SimilarityFromPoints estimates the non-reflective similarity (rotation,
// uniform scale and translation) mapping src onto dst in the least-squares
// sense. It needs at least two pairs.
//
// The fitted transform has the form
//
//	| a   b  tx |
//	| -b  a  ty |
//	| 0   0   1 |
//
// Errors are the same as for FromPoints, with a minimum of 2 pairs.
func SimilarityFromPoints(src, dst []geo.Pointf) (*Affine2D, error) {
	n := len(src)
	if n != len(dst) || n < 2 {
		return nil, fmt.Errorf("similarity from %d/%d points: %w", len(src), len(dst), ErrNotEnoughPoints)
	}

	c := centroid(src)
	a := mat.NewDense(2*n, 4, nil)
	b := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		p := src[i].Sub(c)
		a.Set(i, 0, p.X)
		a.Set(i, 1, p.Y)
		a.Set(i, 2, 1)
		a.Set(n+i, 0, p.Y)
		a.Set(n+i, 1, -p.X)
		a.Set(n+i, 3, 1)
		b.SetVec(i, dst[i].X)
		b.SetVec(n+i, dst[i].Y)
	}

	x, err := solve(a, b)
	if err != nil {
		raster.Logger().Debug("similarity estimate failed", "points", n, "err", err)
		return nil, err
	}
	ca, cb := x.AtVec(0), x.AtVec(1)
	return FromMat(Mat3{
		{ca, cb, x.AtVec(2) - ca*c.X - cb*c.Y},
		{-cb, ca, x.AtVec(3) + cb*c.X - ca*c.Y},
		{0, 0, 1},
	})
}

// centroid returns the mean of pts. The estimators solve in coordinates
// relative to the centroid of src.
func centroid(pts []geo.Pointf) geo.Pointf {
	var c geo.Pointf
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(pts))
	return geo.Pt(c.X/n, c.Y/n)
}

// invert stores the inverse of m in dst. gonum reports poor conditioning
// as an error; only an infinite condition number or a non-finite result
// counts as singular here.
func invert(dst *mat.Dense, m mat.Matrix) error {
	err := dst.Inverse(m)
	var cond mat.Condition
	if errors.As(err, &cond) && !math.IsInf(float64(cond), 1) {
		err = nil
	}
	if err != nil {
		return err
	}
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := dst.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return mat.ErrSingular
			}
		}
	}
	return nil
}

// solve returns x minimising |Ax - b|. Overdetermined systems go through
// the normal equations (AᵗA)⁻¹Aᵗb; square systems are solved as A⁻¹b.
func solve(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	rows, cols := a.Dims()

	var m mat.Dense
	var rhs mat.VecDense
	if rows > cols {
		m.Mul(a.T(), a)
		rhs.MulVec(a.T(), b)
	} else {
		m.CloneFrom(a)
		rhs.CloneFromVec(b)
	}

	var inv mat.Dense
	if err := invert(&inv, &m); err != nil {
		return nil, fmt.Errorf("solve %dx%d system: %v: %w", rows, cols, err, raster.ErrSingularTransform)
	}
	var x mat.VecDense
	x.MulVec(&inv, &rhs)
	return &x, nil
}

// MapPoint applies the forward transform to p.
func (a *Affine2D) MapPoint(p geo.Pointf) geo.Pointf {
	return mapPoint(&a.T, p)
}

// MapPointInv applies the inverse transform to p.
func (a *Affine2D) MapPointInv(p geo.Pointf) geo.Pointf {
	return mapPoint(&a.TInv, p)
}

// Apply multiplies the homogeneous vector v by T.
func (a *Affine2D) Apply(v [3]float64) [3]float64 {
	return apply(&a.T, v)
}

// ApplyInv multiplies the homogeneous vector v by TInv.
func (a *Affine2D) ApplyInv(v [3]float64) [3]float64 {
	return apply(&a.TInv, v)
}

func mapPoint(m *Mat3, p geo.Pointf) geo.Pointf {
	return geo.Pointf{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2],
	}
}

func apply(m *Mat3, v [3]float64) [3]float64 {
	var r [3]float64
	for i := 0; i < 3; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return r
}
