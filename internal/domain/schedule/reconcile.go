package schedule

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// ReconciliationKind tags how a candidate list relates to the target capacity.
type ReconciliationKind int

const (
	// Exact means the candidate count already equals the capacity.
	Exact ReconciliationKind = iota
	// Shortfall means blocks must be duplicated to reach capacity.
	Shortfall
	// Overflow means trailing blocks must be dropped.
	Overflow
)

// String implements fmt.Stringer.
func (k ReconciliationKind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Shortfall:
		return "shortfall"
	case Overflow:
		return "overflow"
	default:
		return fmt.Sprintf("ReconciliationKind(%d)", int(k))
	}
}

// Reconciliation describes the adjustment needed to bring a candidate list
// to exactly Target blocks. Delta is always non-negative.
type Reconciliation struct {
	Kind   ReconciliationKind
	Target int
	Delta  int
}

// Reconcile classifies a candidate count against the target capacity.
func Reconcile(generated, target int) Reconciliation {
	switch {
	case generated < target:
		return Reconciliation{Kind: Shortfall, Target: target, Delta: target - generated}
	case generated > target:
		return Reconciliation{Kind: Overflow, Target: target, Delta: generated - target}
	default:
		return Reconciliation{Kind: Exact, Target: target}
	}
}

// Apply returns a list of exactly r.Target blocks.
//
// On Shortfall it walks blocks in order, wrapping around, appending copies.
// Each copy gets a fresh ID from newID and the next block number for its
// subject. On Overflow it keeps the first r.Target blocks. The input slice is
// not modified.
func (r Reconciliation) Apply(blocks []*domain.StudyBlock, newID func() uuid.UUID) []*domain.StudyBlock {
	switch r.Kind {
	case Overflow:
		out := make([]*domain.StudyBlock, r.Target)
		copy(out, blocks[:r.Target])
		return out

	case Shortfall:
		out := make([]*domain.StudyBlock, 0, r.Target)
		out = append(out, blocks...)
		if len(blocks) == 0 {
			return out
		}

		next := make(map[uuid.UUID]int, len(blocks))
		for _, b := range blocks {
			if b.BlockNumber >= next[b.SubjectID] {
				next[b.SubjectID] = b.BlockNumber + 1
			}
		}

		for i := 0; len(out) < r.Target; i++ {
			src := blocks[i%len(blocks)]
			dup := *src
			dup.ID = newID()
			dup.BlockNumber = next[src.SubjectID]
			next[src.SubjectID]++
			out = append(out, &dup)
		}
		return out

	default:
		out := make([]*domain.StudyBlock, len(blocks))
		copy(out, blocks)
		return out
	}
}
