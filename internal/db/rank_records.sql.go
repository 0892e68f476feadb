package db

import (
	"context"
)

const rankRecordColumns = `id, account_id, seq, tier, division, points, match_id, points_delta, low_confidence, recorded_at`

func scanRankRecord(row rowScanner) (RankRecord, error) {
	var i RankRecord
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Seq,
		&i.Tier,
		&i.Division,
		&i.Points,
		&i.MatchID,
		&i.PointsDelta,
		&i.LowConfidence,
		&i.RecordedAt,
	)
	return i, err
}

const insertRankRecord = `INSERT INTO rank_records (` + rankRecordColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertRankRecordParams RankRecord

func (q *Queries) InsertRankRecord(ctx context.Context, arg InsertRankRecordParams) error {
	_, err := q.db.ExecContext(ctx, insertRankRecord,
		arg.ID,
		arg.AccountID,
		arg.Seq,
		arg.Tier,
		arg.Division,
		arg.Points,
		arg.MatchID,
		arg.PointsDelta,
		arg.LowConfidence,
		arg.RecordedAt,
	)
	return err
}

const deleteRankRecordsByAccount = `DELETE FROM rank_records WHERE account_id = ?`

func (q *Queries) DeleteRankRecordsByAccount(ctx context.Context, accountID string) error {
	_, err := q.db.ExecContext(ctx, deleteRankRecordsByAccount, accountID)
	return err
}

const listRankRecordsByAccount = `SELECT ` + rankRecordColumns + ` FROM rank_records
WHERE account_id = ? ORDER BY seq`

func (q *Queries) ListRankRecordsByAccount(ctx context.Context, accountID string) ([]RankRecord, error) {
	return q.listRankRecords(ctx, listRankRecordsByAccount, accountID)
}

const listAllRankRecords = `SELECT ` + rankRecordColumns + ` FROM rank_records ORDER BY account_id, seq`

func (q *Queries) ListAllRankRecords(ctx context.Context) ([]RankRecord, error) {
	return q.listRankRecords(ctx, listAllRankRecords)
}

func (q *Queries) listRankRecords(ctx context.Context, query string, args ...interface{}) ([]RankRecord, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RankRecord
	for rows.Next() {
		i, err := scanRankRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
