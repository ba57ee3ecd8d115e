// Package index defines the proximity index contract used by the planner.
//
// A proximity index stores points (state vectors) together with a payload and
// answers nearest and radius queries under a distance function fixed at
// construction time. Entries are addressed by a Handle returned from Insert,
// which stays valid until the entry is removed.
//
// # Index Interface
//
//	type Index[T any] interface {
//	    Insert(point []float64, payload T) (Handle, error)
//	    Remove(h Handle) error
//	    Nearest(query []float64) (Neighbor[T], error)
//	    DeltaNear(query []float64, radius float64) ([]Neighbor[T], error)
//	    Len() int
//	}
//
// Inserts and removals may be interleaved freely with queries; no rebuild is
// ever required. Wraparound of circular dimensions is the distance function's
// responsibility, not the index's.
//
// # Implementations
//
//   - flat: exact brute-force search over a dense slot table
//
// Implementations are not safe for concurrent use; the planner is the single
// writer of every index it owns.
package index
