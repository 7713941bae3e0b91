package inverse

import "gonum.org/v1/gonum/mat"

// colOf returns column j of m as a freshly allocated slice.
func colOf(m *mat.Dense, j int) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = m.At(i, j)
	}
	return out
}

// rowOf returns row i of m as a freshly allocated slice.
func rowOf(m *mat.Dense, i int) []float64 {
	_, c := m.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		out[j] = m.At(i, j)
	}
	return out
}
