package sst

// Outcome classifies the effect of one Step or AddToTree call.
type Outcome int

const (
	// OutcomeInfeasible means propagation failed; nothing changed.
	OutcomeInfeasible Outcome = iota

	// OutcomeRejected means the candidate lost to its witness
	// representative or to the best solution; nothing but possibly a new
	// witness was added.
	OutcomeRejected

	// OutcomeInserted means a node was added to the tree.
	OutcomeInserted

	// OutcomeImproved means a node was added and became the new best goal.
	OutcomeImproved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInfeasible:
		return "infeasible"
	case OutcomeRejected:
		return "rejected"
	case OutcomeInserted:
		return "inserted"
	case OutcomeImproved:
		return "improved"
	default:
		return "unknown"
	}
}

// Stats holds engine counters.
type Stats struct {
	// Current
	Nodes       int
	ActiveNodes int
	Witnesses   int

	// Historical
	Steps      uint64
	Infeasible uint64
	Rejected   uint64
	Inserted   uint64
	Improved   uint64
	Pruned     uint64 // leaves removed by branch-and-bound
	Drained    uint64 // inactive leaves removed after losing their witness
}
