// Package tensor provides the small dense linear algebra the material
// averaging engine needs: closed-form operations on real-symmetric 3x3
// matrices and inversion of full complex 3x3 tensors.
package tensor

// SymMatrix is a real-symmetric 3x3 matrix stored as its six independent
// entries. It is passed by value; equality is exact comparison.
type SymMatrix struct {
	M00, M11, M22 float64
	M01, M02, M12 float64
}

// Diagonal returns the symmetric matrix diag(a, b, c).
func Diagonal(a, b, c float64) SymMatrix {
	return SymMatrix{M00: a, M11: b, M22: c}
}

func (m SymMatrix) Trace() float64 { return m.M00 + m.M11 + m.M22 }

func (m SymMatrix) IsDiagonal() bool { return m.M01 == 0 && m.M02 == 0 && m.M12 == 0 }

// Row returns row i as a dense 3-vector.
func (m SymMatrix) Row(i int) [3]float64 {
	switch i {
	case 0:
		return [3]float64{m.M00, m.M01, m.M02}
	case 1:
		return [3]float64{m.M01, m.M11, m.M12}
	default:
		return [3]float64{m.M02, m.M12, m.M22}
	}
}

// Invert returns the inverse by the cofactor formula, with a reciprocal
// fast path for diagonal input that yields bit-identical results. It
// panics on an exactly singular matrix: a singular permittivity tensor is
// an unrecoverable setup error, not a numeric condition to soften.
func (m SymMatrix) Invert() SymMatrix {
	if m.IsDiagonal() {
		return SymMatrix{M00: 1 / m.M00, M11: 1 / m.M11, M22: 1 / m.M22}
	}
	det := m.M00*m.M11*m.M22 - m.M02*m.M11*m.M02 + 2*m.M01*m.M12*m.M02 -
		m.M01*m.M01*m.M22 - m.M12*m.M12*m.M00
	if det == 0 {
		panic("tensor: singular 3x3 matrix")
	}
	inv := 1 / det
	return SymMatrix{
		M00: inv * (m.M11*m.M22 - m.M12*m.M12),
		M11: inv * (m.M00*m.M22 - m.M02*m.M02),
		M22: inv * (m.M11*m.M00 - m.M01*m.M01),
		M02: inv * (m.M01*m.M12 - m.M11*m.M02),
		M01: inv * (m.M12*m.M02 - m.M01*m.M22),
		M12: inv * (m.M01*m.M02 - m.M00*m.M12),
	}
}

// Rotation is a 3x3 rotation matrix in row-major order.
type Rotation [3][3]float64

func (r Rotation) Transpose() Rotation {
	return Rotation{
		{r[0][0], r[1][0], r[2][0]},
		{r[0][1], r[1][1], r[2][1]},
		{r[0][2], r[1][2], r[2][2]},
	}
}

// Rotate conjugates m by the rotation: Rᵀ m R.
func (m SymMatrix) Rotate(r Rotation) SymMatrix {
	var a, ar [3][3]float64
	a[0][0], a[1][1], a[2][2] = m.M00, m.M11, m.M22
	a[0][1], a[1][0] = m.M01, m.M01
	a[0][2], a[2][0] = m.M02, m.M02
	a[1][2], a[2][1] = m.M12, m.M12
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ar[i][j] = a[i][0]*r[0][j] + a[i][1]*r[1][j] + a[i][2]*r[2][j]
		}
	}
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			a[i][j] = r[0][i]*ar[0][j] + r[1][i]*ar[1][j] + r[2][i]*ar[2][j]
		}
	}
	return SymMatrix{
		M00: a[0][0], M11: a[1][1], M22: a[2][2],
		M01: a[0][1], M02: a[0][2], M12: a[1][2],
	}
}

// PositiveDefinite applies Sylvester's criterion to the three leading
// principal minors.
func (m SymMatrix) PositiveDefinite() bool {
	det2 := m.M00*m.M11 - m.M01*m.M01
	det3 := det2*m.M22 - m.M02*m.M11*m.M02 + 2*m.M01*m.M12*m.M02 - m.M12*m.M12*m.M00
	return m.M00 > 0 && det2 > 0 && det3 > 0
}

// RotationFromNormal builds a rotation whose first column is the unit
// vector (nx, ny, nz). The second axis choice switches basis when the
// normal is nearly parallel to z; the 1e-2 threshold is the historical
// tie-break and is kept as-is.
func RotationFromNormal(nx, ny, nz float64) Rotation {
	var rot Rotation
	rot[0][0], rot[1][0], rot[2][0] = nx, ny, nz
	if abs(nx) > 1e-2 || abs(ny) > 1e-2 {
		rot[0][2], rot[1][2], rot[2][2] = ny, -nx, 0
	} else {
		// n is nearly parallel to z, use x cross n instead
		rot[0][2], rot[1][2], rot[2][2] = 0, -nz, ny
	}
	s := rot[0][2]*rot[0][2] + rot[1][2]*rot[1][2] + rot[2][2]*rot[2][2]
	s = 1 / sqrt(s)
	rot[0][2] *= s
	rot[1][2] *= s
	rot[2][2] *= s
	// middle column is the cross product of the outer two
	rot[0][1] = rot[1][2]*rot[2][0] - rot[2][2]*rot[1][0]
	rot[1][1] = rot[2][2]*rot[0][0] - rot[0][2]*rot[2][0]
	rot[2][1] = rot[0][2]*rot[1][0] - rot[1][2]*rot[0][0]
	return rot
}
