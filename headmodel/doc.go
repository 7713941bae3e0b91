// Package headmodel implements the lead-field builder (C5, §4.5): from
// an N-shell spherical head model preset, assemble the dense forward
// operator K mapping 3-component current dipoles at each solution
// point to electrode potentials, via one of three forward-model
// families (1-shell analytic, 3-shell Ary approximation, N-shell
// Legendre series) with LSMAC per-electrode radial scaling.
package headmodel
