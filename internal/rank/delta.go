package rank

import "lp-tracker/internal/domain"

type Delta struct {
	Points int
	// LowConfidence marks a transition to or from Unranked, where the scalar
	// difference swings by a whole placement and does not reflect a real LP change.
	LowConfidence bool
}

// ComputeDelta returns the points change from prev to cur, or nil when prev is
// unknown. A nil result must be shown as unknown, never as zero.
func ComputeDelta(prev *domain.Snapshot, cur domain.Snapshot) *Delta {
	if prev == nil {
		return nil
	}
	ps, prevUnranked := ToScalar(*prev)
	cs, curUnranked := ToScalar(cur)
	return &Delta{
		Points:        cs - ps,
		LowConfidence: prevUnranked != curUnranked,
	}
}

// PointsPtr returns the delta value as a nullable int for records and events.
func (d *Delta) PointsPtr() *int {
	if d == nil {
		return nil
	}
	v := d.Points
	return &v
}

func (d *Delta) IsLowConfidence() bool {
	return d != nil && d.LowConfidence
}
