// Package jones implements 2x2 complex Jones matrices.
//
// A Jones value stores its elements row-major as [J00, J01, J10, J11],
// which for a dipole pair is [XX, XY, YX, YY]. Components flattens the
// same order into real and imaginary parts. All operations return new
// values.
package jones

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrSingularMatrix is returned when inverting a matrix whose determinant
// is too small to divide by.
var ErrSingularMatrix = errors.New("singular jones matrix")

// SingularMatrixError carries the matrix that could not be inverted.
type SingularMatrixError struct {
	Matrix      Jones
	Determinant complex128
	Epsilon     float64
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("%s: |det| %.3e <= %.3e for %v", ErrSingularMatrix, cmplx.Abs(e.Determinant), e.Epsilon, e.Matrix)
}

func (e *SingularMatrixError) Unwrap() error { return ErrSingularMatrix }

// Jones is a 2x2 complex matrix [J00, J01, J10, J11].
type Jones [4]complex128

// Vec2 is a complex column vector (Ex, Ey).
type Vec2 [2]complex128

// Identity returns the identity matrix.
func Identity() Jones { return Jones{1, 0, 0, 1} }

// Zero returns the zero matrix.
func Zero() Jones { return Jones{} }

// New returns the matrix [[j00, j01], [j10, j11]].
func New(j00, j01, j10, j11 complex128) Jones { return Jones{j00, j01, j10, j11} }

// Diagonal returns a gain-only matrix.
func Diagonal(gx, gy complex128) Jones { return Jones{gx, 0, 0, gy} }

// Rotation returns the real rotation by theta radians, taking (1, 0) to
// (cos theta, sin theta).
func Rotation(theta float64) Jones {
	s, c := math.Sincos(theta)
	return Jones{complex(c, 0), complex(-s, 0), complex(s, 0), complex(c, 0)}
}

// Outer returns a·bᴴ.
func Outer(a, b Vec2) Jones {
	return Jones{
		a[0] * cmplx.Conj(b[0]), a[0] * cmplx.Conj(b[1]),
		a[1] * cmplx.Conj(b[0]), a[1] * cmplx.Conj(b[1]),
	}
}

// Mul returns j·o.
func (j Jones) Mul(o Jones) Jones {
	return Jones{
		j[0]*o[0] + j[1]*o[2],
		j[0]*o[1] + j[1]*o[3],
		j[2]*o[0] + j[3]*o[2],
		j[2]*o[1] + j[3]*o[3],
	}
}

// MulH returns j·oᴴ.
func (j Jones) MulH(o Jones) Jones {
	return Jones{
		j[0]*cmplx.Conj(o[0]) + j[1]*cmplx.Conj(o[1]),
		j[0]*cmplx.Conj(o[2]) + j[1]*cmplx.Conj(o[3]),
		j[2]*cmplx.Conj(o[0]) + j[3]*cmplx.Conj(o[1]),
		j[2]*cmplx.Conj(o[2]) + j[3]*cmplx.Conj(o[3]),
	}
}

// HMul returns jᴴ·o.
func (j Jones) HMul(o Jones) Jones {
	return Jones{
		cmplx.Conj(j[0])*o[0] + cmplx.Conj(j[2])*o[2],
		cmplx.Conj(j[0])*o[1] + cmplx.Conj(j[2])*o[3],
		cmplx.Conj(j[1])*o[0] + cmplx.Conj(j[3])*o[2],
		cmplx.Conj(j[1])*o[1] + cmplx.Conj(j[3])*o[3],
	}
}

// Add returns j+o.
func (j Jones) Add(o Jones) Jones {
	return Jones{j[0] + o[0], j[1] + o[1], j[2] + o[2], j[3] + o[3]}
}

// Sub returns j-o.
func (j Jones) Sub(o Jones) Jones {
	return Jones{j[0] - o[0], j[1] - o[1], j[2] - o[2], j[3] - o[3]}
}

// Scale returns f·j.
func (j Jones) Scale(f complex128) Jones {
	return Jones{f * j[0], f * j[1], f * j[2], f * j[3]}
}

// H returns the Hermitian conjugate.
func (j Jones) H() Jones {
	return Jones{cmplx.Conj(j[0]), cmplx.Conj(j[2]), cmplx.Conj(j[1]), cmplx.Conj(j[3])}
}

// Det returns the determinant.
func (j Jones) Det() complex128 { return j[0]*j[3] - j[1]*j[2] }

// Trace returns J00 + J11.
func (j Jones) Trace() complex128 { return j[0] + j[3] }

// NormSqr returns the squared Frobenius norm.
func (j Jones) NormSqr() float64 {
	var s float64
	for _, v := range j {
		s += real(v)*real(v) + imag(v)*imag(v)
	}
	return s
}

// ApproxEqual reports whether every element of j is within tol of o.
func (j Jones) ApproxEqual(o Jones, tol float64) bool {
	for i := range j {
		if cmplx.Abs(j[i]-o[i]) > tol {
			return false
		}
	}
	return true
}

// IsFinite reports whether no element is NaN or infinite.
func (j Jones) IsFinite() bool {
	for _, v := range j {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

// DefaultEpsilon is the determinant magnitude at or below which j is
// treated as singular: sixteen machine epsilons scaled by the squared
// Frobenius norm, the size of rounding error in the determinant itself.
func DefaultEpsilon(j Jones) float64 {
	const eps = 0x1p-52
	return 16 * eps * j.NormSqr()
}

// Inverse returns j⁻¹, or a *SingularMatrixError when |det j| is at or
// below DefaultEpsilon(j).
func (j Jones) Inverse() (Jones, error) {
	return j.InverseWithEpsilon(DefaultEpsilon(j))
}

// InverseWithEpsilon is Inverse with an explicit singularity threshold.
func (j Jones) InverseWithEpsilon(eps float64) (Jones, error) {
	det := j.Det()
	if !j.IsFinite() || cmplx.Abs(det) <= eps {
		return Jones{}, &SingularMatrixError{Matrix: j, Determinant: det, Epsilon: eps}
	}
	inv := 1 / det
	return Jones{j[3] * inv, -j[1] * inv, -j[2] * inv, j[0] * inv}, nil
}

// Apply returns j·v.
func (j Jones) Apply(v Vec2) Vec2 {
	return Vec2{j[0]*v[0] + j[1]*v[1], j[2]*v[0] + j[3]*v[1]}
}

// Corrupt applies the instrument response of antennas 1 and 2 to a
// coherency matrix: j1·vis·j2ᴴ.
func Corrupt(vis, j1, j2 Jones) Jones {
	return j1.Mul(vis).MulH(j2)
}

// Correct removes the instrument response from a measured visibility:
// j1⁻¹·vis·j2⁻ᴴ. It fails if either Jones matrix is singular.
func Correct(vis, j1, j2 Jones) (Jones, error) {
	inv1, err := j1.Inverse()
	if err != nil {
		return Jones{}, fmt.Errorf("antenna 1: %w", err)
	}
	inv2, err := j2.Inverse()
	if err != nil {
		return Jones{}, fmt.Errorf("antenna 2: %w", err)
	}
	return inv1.Mul(vis).MulH(inv2), nil
}

// CorrectAll corrects a run of visibilities that share one pair of antenna
// responses, inverting each response once. The result is a new slice.
func CorrectAll(vis []Jones, j1, j2 Jones) ([]Jones, error) {
	inv1, err := j1.Inverse()
	if err != nil {
		return nil, fmt.Errorf("antenna 1: %w", err)
	}
	inv2, err := j2.Inverse()
	if err != nil {
		return nil, fmt.Errorf("antenna 2: %w", err)
	}
	out := make([]Jones, len(vis))
	for i, v := range vis {
		out[i] = inv1.Mul(v).MulH(inv2)
	}
	return out, nil
}

func (j Jones) String() string {
	return fmt.Sprintf("[[%v %v] [%v %v]]", j[0], j[1], j[2], j[3])
}
