package rank

import (
	"testing"

	"lp-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(t domain.Tier, d domain.Division, p int) domain.Snapshot {
	return domain.Snapshot{Tier: t, Division: d, Points: p}
}

func TestToScalar(t *testing.T) {
	tests := []struct {
		name     string
		in       domain.Snapshot
		want     int
		unranked bool
	}{
		{"iron iv zero", snap(domain.TierIron, domain.DivisionIV, 0), 0, false},
		{"silver i 95", snap(domain.TierSilver, domain.DivisionI, 95), 1195, false},
		{"gold iv 10", snap(domain.TierGold, domain.DivisionIV, 10), 1210, false},
		{"master ignores division", snap(domain.TierMaster, domain.DivisionI, 250), 2650, false},
		{"challenger", snap(domain.TierChallenger, domain.DivisionIV, 1200), 4400, false},
		{"unranked", domain.UnrankedSnapshot(), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unranked := ToScalar(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.unranked, unranked)
		})
	}
}

func TestToScalar_MonotonicAcrossTiers(t *testing.T) {
	for t1 := domain.TierIron; t1 < domain.TierChallenger; t1++ {
		for t2 := t1 + 1; t2 <= domain.TierChallenger; t2++ {
			for d1 := domain.DivisionIV; d1 <= domain.DivisionI; d1++ {
				for d2 := domain.DivisionIV; d2 <= domain.DivisionI; d2++ {
					for _, p1 := range []int{0, 50, 99} {
						for _, p2 := range []int{0, 50, 99} {
							lo, _ := ToScalar(snap(t1, d1, p1))
							hi, _ := ToScalar(snap(t2, d2, p2))
							require.Less(t, lo, hi, "%v %v %d vs %v %v %d", t1, d1, p1, t2, d2, p2)
						}
					}
				}
			}
		}
	}
}

func TestComputeDelta_Promotion(t *testing.T) {
	prev := snap(domain.TierSilver, domain.DivisionI, 95)
	d := ComputeDelta(&prev, snap(domain.TierGold, domain.DivisionIV, 10))
	require.NotNil(t, d)
	assert.Equal(t, 15, d.Points)
	assert.False(t, d.LowConfidence)
}

func TestComputeDelta_Demotion(t *testing.T) {
	prev := snap(domain.TierGold, domain.DivisionIV, 5)
	d := ComputeDelta(&prev, snap(domain.TierSilver, domain.DivisionI, 92))
	require.NotNil(t, d)
	assert.Equal(t, -13, d.Points)
}

func TestComputeDelta_DivisionPromotion(t *testing.T) {
	prev := snap(domain.TierPlatinum, domain.DivisionIII, 95)
	d := ComputeDelta(&prev, snap(domain.TierPlatinum, domain.DivisionII, 10))
	require.NotNil(t, d)
	assert.Equal(t, 15, d.Points)
}

func TestComputeDelta_FirstObservation(t *testing.T) {
	assert.Nil(t, ComputeDelta(nil, snap(domain.TierGold, domain.DivisionII, 40)))
	assert.Nil(t, ComputeDelta(nil, domain.UnrankedSnapshot()))

	var d *Delta
	assert.Nil(t, d.PointsPtr())
	assert.False(t, d.IsLowConfidence())
}

func TestComputeDelta_Idempotent(t *testing.T) {
	prev := snap(domain.TierDiamond, domain.DivisionI, 80)
	cur := snap(domain.TierMaster, domain.DivisionIV, 12)
	first := ComputeDelta(&prev, cur)
	second := ComputeDelta(&prev, cur)
	assert.Equal(t, first, second)
	assert.Equal(t, 32, first.Points)
}

func TestComputeDelta_UnrankedTransitions(t *testing.T) {
	unranked := domain.UnrankedSnapshot()
	placed := snap(domain.TierSilver, domain.DivisionII, 20)

	up := ComputeDelta(&unranked, placed)
	require.NotNil(t, up)
	assert.Equal(t, 1020, up.Points)
	assert.True(t, up.LowConfidence)

	down := ComputeDelta(&placed, unranked)
	require.NotNil(t, down)
	assert.Equal(t, -1020, down.Points)
	assert.True(t, down.LowConfidence)

	both := ComputeDelta(&unranked, unranked)
	require.NotNil(t, both)
	assert.Equal(t, 0, both.Points)
	assert.False(t, both.LowConfidence)
}

func TestCompare(t *testing.T) {
	iron := snap(domain.TierIron, domain.DivisionIV, 0)
	assert.Equal(t, 1, Compare(iron, domain.UnrankedSnapshot()))
	assert.Equal(t, -1, Compare(domain.UnrankedSnapshot(), iron))
	assert.Equal(t, 0, Compare(domain.UnrankedSnapshot(), domain.UnrankedSnapshot()))
	assert.Equal(t, -1, Compare(iron, snap(domain.TierIron, domain.DivisionIV, 1)))
}

func TestParseSnapshot(t *testing.T) {
	s, err := ParseSnapshot("GOLD", "II", 44)
	require.NoError(t, err)
	assert.Equal(t, snap(domain.TierGold, domain.DivisionII, 44), s)
	assert.Equal(t, "Gold II 44 LP", s.String())

	s, err = ParseSnapshot("GRANDMASTER", "I", 310)
	require.NoError(t, err)
	assert.Equal(t, snap(domain.TierGrandmaster, domain.DivisionIV, 310), s)
	assert.Equal(t, "Grandmaster 310 LP", s.String())

	s, err = ParseSnapshot("", "", 0)
	require.NoError(t, err)
	assert.True(t, s.IsUnranked())

	_, err = ParseSnapshot("WOOD", "IV", 0)
	assert.Error(t, err)

	_, err = ParseSnapshot("SILVER", "V", 0)
	assert.Error(t, err)
}
