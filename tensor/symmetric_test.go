package tensor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func toDense(m SymMatrix) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m.M00, m.M01, m.M02,
		m.M01, m.M11, m.M12,
		m.M02, m.M12, m.M22,
	})
}

func TestInvertAgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		// random SPD matrix: A = B Bᵀ + I
		b := mat.NewDense(3, 3, nil)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				b.Set(i, j, rng.NormFloat64())
			}
		}
		var a mat.Dense
		a.Mul(b, b.T())
		m := SymMatrix{
			M00: a.At(0, 0) + 1, M11: a.At(1, 1) + 1, M22: a.At(2, 2) + 1,
			M01: a.At(0, 1), M02: a.At(0, 2), M12: a.At(1, 2),
		}

		var want mat.Dense
		err := want.Inverse(toDense(m))
		if err != nil {
			t.Fatalf("gonum inverse failed: %v", err)
		}
		got := toDense(m.Invert())
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-10)
			}
		}
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := SymMatrix{M00: 4, M11: 5, M22: 6, M01: 1, M02: 0.5, M12: -0.25}
	back := m.Invert().Invert()
	assert.InDelta(t, m.M00, back.M00, 1e-12)
	assert.InDelta(t, m.M11, back.M11, 1e-12)
	assert.InDelta(t, m.M22, back.M22, 1e-12)
	assert.InDelta(t, m.M01, back.M01, 1e-12)
	assert.InDelta(t, m.M02, back.M02, 1e-12)
	assert.InDelta(t, m.M12, back.M12, 1e-12)
}

func TestInvertDiagonalFastPath(t *testing.T) {
	m := Diagonal(2, 4, 8)
	inv := m.Invert()
	assert.Equal(t, Diagonal(0.5, 0.25, 0.125), inv)
}

func TestInvertSingularPanics(t *testing.T) {
	assert.Panics(t, func() { Diagonal(1, 0, 1).Invert() })
}

func TestRotationFromNormalIsOrthonormal(t *testing.T) {
	normals := [][3]float64{
		{1, 0, 0},
		{0, 0, 1}, // takes the near-z branch of the tie-break
		{0.6, 0.8, 0},
		{1e-3, 1e-3, 0.999999},
		{-0.267261, 0.534522, 0.801784},
	}
	for _, n := range normals {
		r := RotationFromNormal(n[0], n[1], n[2])
		for ci := 0; ci < 3; ci++ {
			for cj := 0; cj < 3; cj++ {
				dot := r[0][ci]*r[0][cj] + r[1][ci]*r[1][cj] + r[2][ci]*r[2][cj]
				want := 0.0
				if ci == cj {
					want = 1
				}
				assert.InDelta(t, want, dot, 1e-9, "normal %v columns %d,%d", n, ci, cj)
			}
		}
		// first column is the normal itself
		assert.InDelta(t, n[0], r[0][0], 1e-12)
		assert.InDelta(t, n[1], r[1][0], 1e-12)
		assert.InDelta(t, n[2], r[2][0], 1e-12)
	}
}

func TestRotatePreservesTraceAndEigen(t *testing.T) {
	m := SymMatrix{M00: 3, M11: 2, M22: 1, M01: 0.3, M02: -0.1, M12: 0.2}
	r := RotationFromNormal(0.6, 0.8, 0)
	rot := m.Rotate(r)
	assert.InDelta(t, m.Trace(), rot.Trace(), 1e-12)

	// rotating back must restore the original matrix
	back := rot.Rotate(r.Transpose())
	assert.InDelta(t, m.M00, back.M00, 1e-12)
	assert.InDelta(t, m.M12, back.M12, 1e-12)
}

func TestRotateDiagonalByNormal(t *testing.T) {
	// for a diagonal isotropic tensor any rotation is a no-op
	m := Diagonal(2.5, 2.5, 2.5)
	r := RotationFromNormal(1/math.Sqrt(3), 1/math.Sqrt(3), 1/math.Sqrt(3))
	rot := m.Rotate(r)
	assert.InDelta(t, 2.5, rot.M00, 1e-12)
	assert.InDelta(t, 0, rot.M01, 1e-12)
}

func TestPositiveDefinite(t *testing.T) {
	assert.True(t, Diagonal(1, 2, 3).PositiveDefinite())
	assert.False(t, Diagonal(1, -2, 3).PositiveDefinite())
	assert.False(t, SymMatrix{M00: 1, M11: 1, M22: 1, M01: 2}.PositiveDefinite())
}

func TestCMatrixInvert(t *testing.T) {
	tm := CMatrix{
		complex(2, 0.1), 0.5, 0,
		0.5, complex(3, -0.2), 0.25,
		0, 0.25, complex(4, 0),
	}
	inv := tm.Invert()
	// t * inv = I
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum complex128
			for k := 0; k < 3; k++ {
				sum += tm.At(i, k) * inv.At(k, j)
			}
			want := complex128(0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, real(want), real(sum), 1e-12)
			assert.InDelta(t, imag(want), imag(sum), 1e-12)
		}
	}
}
