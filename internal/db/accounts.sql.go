package db

import (
	"context"
	"time"
)

const accountColumns = `id, account_ref, summoner_id, owner_id, region, game_name, tag_line,
    cursor_match_id, snapshot_tier, snapshot_division, snapshot_points, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (Account, error) {
	var i Account
	err := row.Scan(
		&i.ID,
		&i.AccountRef,
		&i.SummonerID,
		&i.OwnerID,
		&i.Region,
		&i.GameName,
		&i.TagLine,
		&i.CursorMatchID,
		&i.SnapshotTier,
		&i.SnapshotDivision,
		&i.SnapshotPoints,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertAccount = `INSERT INTO accounts (` + accountColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertAccountParams Account

func (q *Queries) InsertAccount(ctx context.Context, arg InsertAccountParams) error {
	_, err := q.db.ExecContext(ctx, insertAccount,
		arg.ID,
		arg.AccountRef,
		arg.SummonerID,
		arg.OwnerID,
		arg.Region,
		arg.GameName,
		arg.TagLine,
		arg.CursorMatchID,
		arg.SnapshotTier,
		arg.SnapshotDivision,
		arg.SnapshotPoints,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getAccount = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

func (q *Queries) GetAccount(ctx context.Context, id string) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccount, id))
}

const getAccountByIdentity = `SELECT ` + accountColumns + ` FROM accounts
WHERE owner_id = ? AND account_ref = ? AND region = ?`

type GetAccountByIdentityParams struct {
	OwnerID    string
	AccountRef string
	Region     string
}

func (q *Queries) GetAccountByIdentity(ctx context.Context, arg GetAccountByIdentityParams) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByIdentity, arg.OwnerID, arg.AccountRef, arg.Region))
}

const getAccountByRiotID = `SELECT ` + accountColumns + ` FROM accounts
WHERE owner_id = ? AND game_name = ? COLLATE NOCASE AND tag_line = ? COLLATE NOCASE AND region = ?`

type GetAccountByRiotIDParams struct {
	OwnerID  string
	GameName string
	TagLine  string
	Region   string
}

func (q *Queries) GetAccountByRiotID(ctx context.Context, arg GetAccountByRiotIDParams) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByRiotID, arg.OwnerID, arg.GameName, arg.TagLine, arg.Region))
}

const listAccounts = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		i, err := scanAccount(rows)
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

const updateAccountState = `UPDATE accounts
SET cursor_match_id = ?, snapshot_tier = ?, snapshot_division = ?, snapshot_points = ?, updated_at = ?
WHERE id = ?`

type UpdateAccountStateParams struct {
	CursorMatchID    *string
	SnapshotTier     *int64
	SnapshotDivision *int64
	SnapshotPoints   *int64
	UpdatedAt        time.Time
	ID               string
}

func (q *Queries) UpdateAccountState(ctx context.Context, arg UpdateAccountStateParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccountState,
		arg.CursorMatchID,
		arg.SnapshotTier,
		arg.SnapshotDivision,
		arg.SnapshotPoints,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAccount = `DELETE FROM accounts WHERE id = ?`

func (q *Queries) DeleteAccount(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAccount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAccountsByOwner = `DELETE FROM accounts WHERE owner_id = ?`

func (q *Queries) DeleteAccountsByOwner(ctx context.Context, ownerID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAccountsByOwner, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
