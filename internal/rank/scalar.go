// Package rank converts tier/division/points readings into a single ordered
// scalar and computes point deltas between readings.
package rank

import (
	"fmt"
	"strings"

	"lp-tracker/internal/domain"
)

const (
	pointsPerTier     = 400
	pointsPerDivision = 100
)

// ToScalar maps a snapshot onto one increasing integer so that any promotion
// yields a larger value and any demotion a smaller one. Unranked maps to 0 and
// is reported through the second return value, since Iron IV 0 LP is also 0.
func ToScalar(s domain.Snapshot) (scalar int, unranked bool) {
	if s.IsUnranked() {
		return 0, true
	}
	if !s.Tier.HasDivisions() {
		return int(s.Tier)*pointsPerTier + s.Points, false
	}
	return int(s.Tier)*pointsPerTier + int(s.Division)*pointsPerDivision + s.Points, false
}

// Compare orders two snapshots by scalar, Unranked below every placement.
func Compare(a, b domain.Snapshot) int {
	if a.IsUnranked() || b.IsUnranked() {
		switch {
		case a.IsUnranked() && b.IsUnranked():
			return 0
		case a.IsUnranked():
			return -1
		default:
			return 1
		}
	}
	sa, _ := ToScalar(a)
	sb, _ := ToScalar(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

// ParseTier maps an API tier name such as "GOLD" to a Tier. Empty means Unranked.
func ParseTier(s string) (domain.Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "UNRANKED":
		return domain.TierUnranked, nil
	case "IRON":
		return domain.TierIron, nil
	case "BRONZE":
		return domain.TierBronze, nil
	case "SILVER":
		return domain.TierSilver, nil
	case "GOLD":
		return domain.TierGold, nil
	case "PLATINUM":
		return domain.TierPlatinum, nil
	case "DIAMOND":
		return domain.TierDiamond, nil
	case "MASTER":
		return domain.TierMaster, nil
	case "GRANDMASTER":
		return domain.TierGrandmaster, nil
	case "CHALLENGER":
		return domain.TierChallenger, nil
	}
	return domain.TierUnranked, fmt.Errorf("unknown tier %q", s)
}

// ParseDivision maps a roman numeral division ("IV" to "I").
func ParseDivision(s string) (domain.Division, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IV":
		return domain.DivisionIV, nil
	case "III":
		return domain.DivisionIII, nil
	case "II":
		return domain.DivisionII, nil
	case "I":
		return domain.DivisionI, nil
	}
	return domain.DivisionIV, fmt.Errorf("unknown division %q", s)
}

// ParseSnapshot builds a snapshot from league entry fields. Apex tiers ignore the division.
func ParseSnapshot(tier, division string, points int) (domain.Snapshot, error) {
	t, err := ParseTier(tier)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if t == domain.TierUnranked {
		return domain.UnrankedSnapshot(), nil
	}
	s := domain.Snapshot{Tier: t, Points: points}
	if t.HasDivisions() {
		d, err := ParseDivision(division)
		if err != nil {
			return domain.Snapshot{}, err
		}
		s.Division = d
	}
	return s, nil
}
