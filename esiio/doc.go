// Package esiio implements the on-disk inverse-solution container
// (§6 C9): a fixed 17-byte header, a variable header of electrode/
// solution-point names and per-regularization values/names, and a
// body of row-major float32 matrices written back to back in
// increasing regularization order.
package esiio
