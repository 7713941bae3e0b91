// Package reg implements the regularization schedule and resolution
// analysis of §4.8 (C8): the per-method λ schedule derived from the
// pivotal SPD matrix's largest eigenvalue, and the point-spread-based
// resolution summary used to report how focal an inverse solution is.
package reg
