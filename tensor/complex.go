package tensor

import "math"

func abs(x float64) float64  { return math.Abs(x) }
func sqrt(x float64) float64 { return math.Sqrt(x) }

// CMatrix is a full complex 3x3 tensor in row-major order. The dispersive
// evaluation path works on full tensors because the frequency-dependent
// terms break the real-symmetric structure.
type CMatrix [9]complex128

func (t CMatrix) At(i, j int) complex128 { return t[i*3+j] }

func (t CMatrix) Trace() complex128 { return t[0] + t[4] + t[8] }

// Invert returns the cofactor inverse of t.
func (t CMatrix) Invert() CMatrix {
	m := func(i, j int) complex128 { return t[i*3+j] }
	det := m(0, 0)*(m(1, 1)*m(2, 2)-m(2, 1)*m(1, 2)) -
		m(0, 1)*(m(1, 0)*m(2, 2)-m(1, 2)*m(2, 0)) +
		m(0, 2)*(m(1, 0)*m(2, 1)-m(1, 1)*m(2, 0))
	inv := 1 / det
	return CMatrix{
		(m(1, 1)*m(2, 2) - m(2, 1)*m(1, 2)) * inv,
		(m(0, 2)*m(2, 1) - m(0, 1)*m(2, 2)) * inv,
		(m(0, 1)*m(1, 2) - m(0, 2)*m(1, 1)) * inv,
		(m(1, 2)*m(2, 0) - m(1, 0)*m(2, 2)) * inv,
		(m(0, 0)*m(2, 2) - m(0, 2)*m(2, 0)) * inv,
		(m(1, 0)*m(0, 2) - m(0, 0)*m(1, 2)) * inv,
		(m(1, 0)*m(2, 1) - m(2, 0)*m(1, 1)) * inv,
		(m(2, 0)*m(0, 1) - m(0, 0)*m(2, 1)) * inv,
		(m(0, 0)*m(1, 1) - m(1, 0)*m(0, 1)) * inv,
	}
}

// Row returns row i of the tensor.
func (t CMatrix) Row(i int) [3]complex128 {
	return [3]complex128{t[i*3], t[i*3+1], t[i*3+2]}
}
