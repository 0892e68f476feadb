package db

import "time"

type Account struct {
	ID               string
	AccountRef       string
	SummonerID       string
	OwnerID          string
	Region           string
	GameName         string
	TagLine          string
	CursorMatchID    *string
	SnapshotTier     *int64
	SnapshotDivision *int64
	SnapshotPoints   *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type RankRecord struct {
	ID            string
	AccountID     string
	Seq           int64
	Tier          int64
	Division      int64
	Points        int64
	MatchID       *string
	PointsDelta   *int64
	LowConfidence bool
	RecordedAt    time.Time
}
