package forecast

import (
	"math"
)

// Polyfit returns least-squares polynomial coefficients, highest power first.
// Inputs are centered and scaled before solving the normal equations so that
// calendar years do not blow up the conditioning.
func Polyfit(xs, ys []float64, degree int) ([]float64, error) {
	if degree < 0 {
		return nil, ErrInvalidDegree
	}
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	if len(xs) < degree+1 {
		return nil, ErrNotEnoughData
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	scale := 0.0
	for _, x := range xs {
		scale = math.Max(scale, math.Abs(x-mean))
	}
	if scale == 0 {
		scale = 1
	}

	size := degree + 1
	a := make([][]float64, size)
	for i := range a {
		a[i] = make([]float64, size+1)
	}
	for i, x := range xs {
		t := (x - mean) / scale
		powers := make([]float64, 2*degree+1)
		powers[0] = 1
		for p := 1; p < len(powers); p++ {
			powers[p] = powers[p-1] * t
		}
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				a[r][c] += powers[r+c]
			}
			a[r][size] += ys[i] * powers[r]
		}
	}

	scaled, err := solve(a)
	if err != nil {
		return nil, err
	}

	// Expand sum(scaled[k] * ((x-mean)/scale)^k) back into powers of x
	u := []float64{-mean / scale, 1 / scale}
	coeffs := []float64{scaled[degree]}
	for k := degree - 1; k >= 0; k-- {
		coeffs = polyMul(coeffs, u)
		coeffs[0] += scaled[k]
	}
	for len(coeffs) < size {
		coeffs = append(coeffs, 0)
	}

	// ascending -> highest first
	for i, j := 0, len(coeffs)-1; i < j; i, j = i+1, j-1 {
		coeffs[i], coeffs[j] = coeffs[j], coeffs[i]
	}
	return coeffs, nil
}

// Polyval evaluates coefficients (highest power first) at x
func Polyval(coeffs []float64, x float64) float64 {
	y := 0.0
	for _, c := range coeffs {
		y = y*x + c
	}
	return y
}

// polyMul multiplies two ascending coefficient slices
func polyMul(p, q []float64) []float64 {
	out := make([]float64, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out
}

// solve runs Gaussian elimination with partial pivoting on an augmented matrix
func solve(a [][]float64) ([]float64, error) {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c <= n; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := a[r][n]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}
