package flat

// Stats summarizes the occupancy of a flat index.
type Stats struct {
	Dimension int // Configured point dimension
	Live      int // Entries currently indexed
	Slots     int // Slots ever allocated
	Free      int // Slots waiting for reuse
}

// Stats returns statistics about the flat index.
func (f *Flat[T]) Stats() Stats {
	return Stats{
		Dimension: f.opts.Dimension,
		Live:      f.Len(),
		Slots:     len(f.payloads),
		Free:      len(f.freeList),
	}
}
