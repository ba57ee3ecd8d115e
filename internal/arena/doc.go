// Package arena provides a generational slot allocator for graph nodes.
//
// Values live in a dense slice of slots. Freed slots are pushed onto a free
// list and reused by later allocations; every reuse bumps the slot
// generation so a stale Ref can be detected instead of silently aliasing the
// new occupant.
//
// # Features
//
//   - Stable references (Ref) that survive growth of the backing slice
//   - O(1) Alloc, Free and Get
//   - Deterministic slot reuse (LIFO free list)
//
// # Safety
//
// Methods never panic on bad input. Get returns nil for stale or out of
// range references and Free reports ErrStaleRef.
//
// An Arena is not safe for concurrent use.
package arena
