// Package distance provides state-space distance functions for the planner.
//
// All functions operate on raw float64 state vectors. Dimensions flagged as
// circular are measured along the shorter arc of their period, so an angle
// of -π+ε and one of π-ε are close rather than 2π apart.
//
// # Supported Metrics
//
//   - Euclidean: plain L2 distance
//   - SquaredEuclidean: squared L2 distance (monotone, cheaper)
//   - Wrapped: L2 distance with per-dimension wraparound periods
//
// # Usage
//
//	d := distance.Euclidean(a, b)
//	fn := distance.Wrapped([]float64{2 * math.Pi, 0}) // angle, velocity
//	m, err := distance.NewMetric(fn, 2)
//	d = m.Distance(a, b)
package distance
