// Package esicore wires the leaf components (§2 C1-C9) into the §4
// end-to-end build: fuse the inverse center (C4), translate every
// point set into the fused frame, build the solution-point
// neighborhood graph and reject unusable points (C6), assemble the
// lead field (C5), build the requested inverse operators over their
// regularization sweep (C7/C8), and serialize the result (C9).
package esicore
