package forecast

import "sort"

// Spline is a natural cubic spline through a set of points
type Spline struct {
	xs, ys []float64
	m      []float64 // second derivatives at the knots
}

// NewSpline fits a natural cubic spline. xs must be strictly increasing.
func NewSpline(xs, ys []float64) (*Spline, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	n := len(xs)
	if n < 2 {
		return nil, ErrNotEnoughData
	}
	for i := 1; i < n; i++ {
		if xs[i] <= xs[i-1] {
			return nil, ErrUnsortedKnots
		}
	}

	m := make([]float64, n)
	if n > 2 {
		// Tridiagonal system for the interior second derivatives
		size := n - 2
		lower := make([]float64, size)
		diag := make([]float64, size)
		upper := make([]float64, size)
		rhs := make([]float64, size)
		for i := 1; i < n-1; i++ {
			h0 := xs[i] - xs[i-1]
			h1 := xs[i+1] - xs[i]
			lower[i-1] = h0
			diag[i-1] = 2 * (h0 + h1)
			upper[i-1] = h1
			rhs[i-1] = 6 * ((ys[i+1]-ys[i])/h1 - (ys[i]-ys[i-1])/h0)
		}

		// Thomas algorithm
		for i := 1; i < size; i++ {
			w := lower[i] / diag[i-1]
			diag[i] -= w * upper[i-1]
			rhs[i] -= w * rhs[i-1]
		}
		m[size] = rhs[size-1] / diag[size-1]
		for i := size - 2; i >= 0; i-- {
			m[i+1] = (rhs[i] - upper[i]*m[i+2]) / diag[i]
		}
	}

	return &Spline{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
		m:  m,
	}, nil
}

// At evaluates the spline. Outside the knots the end segment is extended.
func (s *Spline) At(x float64) float64 {
	n := len(s.xs)
	i := sort.SearchFloat64s(s.xs, x) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}

	x0, x1 := s.xs[i], s.xs[i+1]
	y0, y1 := s.ys[i], s.ys[i+1]
	m0, m1 := s.m[i], s.m[i+1]
	h := x1 - x0
	a := x1 - x
	b := x - x0

	return m0*a*a*a/(6*h) + m1*b*b*b/(6*h) +
		(y0/h-m0*h/6)*a + (y1/h-m1*h/6)*b
}
