// Package num collects the dense-linear-algebra primitives shared by the
// rest of the ESI pipeline: analytic 3x3 symmetric eigendecomposition,
// SPD pseudo-inverse, the average-reference centering matrix, and the
// per-dimension LU solve used to avoid materializing Kronecker products.
//
// The N x N primitives are built on gonum.org/v1/gonum/mat; the 3x3
// eigensolver is a closed-form formula using only the standard library.
// Nothing in this package reimplements BLAS/LAPACK.
package num
