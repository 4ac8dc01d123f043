package jones

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Components flattens j as [re00, im00, re01, im01, re10, im10, re11, im11].
func (j Jones) Components() [8]float64 {
	var out [8]float64
	for i, v := range j {
		out[2*i] = real(v)
		out[2*i+1] = imag(v)
	}
	return out
}

// FromComponents inverts Components.
func FromComponents(c [8]float64) Jones {
	var j Jones
	for i := range j {
		j[i] = complex(c[2*i], c[2*i+1])
	}
	return j
}

// FromFloat32Components is FromComponents for single-precision archives.
func FromFloat32Components(c [8]float32) Jones {
	var j Jones
	for i := range j {
		j[i] = complex(float64(c[2*i]), float64(c[2*i+1]))
	}
	return j
}

// CDense returns j as a gonum 2x2 complex matrix.
func (j Jones) CDense() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{j[0], j[1], j[2], j[3]})
}

// FromCMatrix copies a 2x2 gonum complex matrix.
func FromCMatrix(m mat.CMatrix) (Jones, error) {
	if r, c := m.Dims(); r != 2 || c != 2 {
		return Jones{}, fmt.Errorf("jones: need a 2x2 matrix, got %dx%d", r, c)
	}
	return Jones{m.At(0, 0), m.At(0, 1), m.At(1, 0), m.At(1, 1)}, nil
}
