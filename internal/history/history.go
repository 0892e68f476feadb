// Package history keeps the bounded, oldest-first log of rank records per account.
package history

import "lp-tracker/internal/domain"

const DefaultCapacity = 100

// Append returns a new history with r added at the end. When the result would
// exceed capacity the oldest records are evicted. h is never modified.
func Append(h []domain.RankRecord, r domain.RankRecord, capacity int) []domain.RankRecord {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	start := 0
	if len(h)+1 > capacity {
		start = len(h) + 1 - capacity
	}
	out := make([]domain.RankRecord, 0, len(h)-start+1)
	out = append(out, h[start:]...)
	return append(out, r)
}

// Recent returns a copy of the last n records, oldest first.
func Recent(h []domain.RankRecord, n int) []domain.RankRecord {
	if n <= 0 || len(h) == 0 {
		return []domain.RankRecord{}
	}
	if n > len(h) {
		n = len(h)
	}
	out := make([]domain.RankRecord, n)
	copy(out, h[len(h)-n:])
	return out
}

// Last returns the most recent record.
func Last(h []domain.RankRecord) (domain.RankRecord, bool) {
	if len(h) == 0 {
		return domain.RankRecord{}, false
	}
	return h[len(h)-1], true
}
