package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lp-tracker/internal/db"
	"lp-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrAlreadyTracked = errors.New("account already tracked")

type AccountRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
	now     func() time.Time
}

func NewAccountRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *AccountRepository {
	return &AccountRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
		now:     time.Now,
	}
}

// ListTracked loads every account with its history, oldest record first.
func (r *AccountRepository) ListTracked(ctx context.Context) ([]domain.TrackedAccount, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	records, err := r.queries.ListAllRankRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rank records: %w", err)
	}

	byAccount := make(map[string][]domain.RankRecord, len(rows))
	for _, rec := range records {
		byAccount[rec.AccountID] = append(byAccount[rec.AccountID], toDomainRecord(rec))
	}

	accounts := make([]domain.TrackedAccount, len(rows))
	for i, row := range rows {
		accounts[i] = toDomainAccount(row)
		accounts[i].History = byAccount[row.ID]
	}

	r.logger.Debug().Int("count", len(accounts)).Msg("loaded tracked accounts")
	return accounts, nil
}

func (r *AccountRepository) Get(ctx context.Context, id string) (*domain.TrackedAccount, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.withHistory(ctx, row)
}

func (r *AccountRepository) FindByRiotID(ctx context.Context, ownerID, gameName, tagLine string, region domain.Region) (*domain.TrackedAccount, error) {
	row, err := r.queries.GetAccountByRiotID(ctx, db.GetAccountByRiotIDParams{
		OwnerID:  ownerID,
		GameName: gameName,
		TagLine:  tagLine,
		Region:   string(region),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s#%s: %w", gameName, tagLine, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.withHistory(ctx, row)
}

func (r *AccountRepository) withHistory(ctx context.Context, row db.Account) (*domain.TrackedAccount, error) {
	records, err := r.queries.ListRankRecordsByAccount(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("list rank records: %w", err)
	}
	acc := toDomainAccount(row)
	for _, rec := range records {
		acc.History = append(acc.History, toDomainRecord(rec))
	}
	return &acc, nil
}

// Create registers a new account and assigns its ID.
func (r *AccountRepository) Create(ctx context.Context, acc *domain.TrackedAccount) error {
	_, err := r.queries.GetAccountByIdentity(ctx, db.GetAccountByIdentityParams{
		OwnerID:    acc.OwnerID,
		AccountRef: acc.AccountRef,
		Region:     string(acc.Region),
	})
	if err == nil {
		return ErrAlreadyTracked
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup account: %w", err)
	}

	if acc.ID == "" {
		if acc.ID, err = gonanoid.New(); err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}
	now := r.now()
	acc.CreatedAt, acc.UpdatedAt = now, now

	row := fromDomainAccount(*acc)
	if err := r.queries.InsertAccount(ctx, db.InsertAccountParams(row)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyTracked
		}
		return fmt.Errorf("insert account: %w", err)
	}

	r.logger.Info().Str("account_id", acc.ID).Str("riot_id", acc.RiotID()).Str("region", string(acc.Region)).Msg("account registered")
	return nil
}

// Save persists cursor, snapshot and history of acc in one transaction.
// Any failure is reported as domain.ErrPersistence and leaves the stored state untouched.
func (r *AccountRepository) Save(ctx context.Context, acc domain.TrackedAccount) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	row := fromDomainAccount(acc)

	affected, err := qtx.UpdateAccountState(ctx, db.UpdateAccountStateParams{
		CursorMatchID:    row.CursorMatchID,
		SnapshotTier:     row.SnapshotTier,
		SnapshotDivision: row.SnapshotDivision,
		SnapshotPoints:   row.SnapshotPoints,
		UpdatedAt:        r.now(),
		ID:               acc.ID,
	})
	if err != nil {
		return fmt.Errorf("update account %s: %w: %v", acc.ID, domain.ErrPersistence, err)
	}
	if affected == 0 {
		// removed while the cycle was running
		return fmt.Errorf("update account %s: %w: %w", acc.ID, domain.ErrPersistence, domain.ErrNotFound)
	}

	if err := qtx.DeleteRankRecordsByAccount(ctx, acc.ID); err != nil {
		return fmt.Errorf("clear history %s: %w: %v", acc.ID, domain.ErrPersistence, err)
	}
	for i, rec := range acc.History {
		id := rec.ID
		if id == "" {
			if id, err = gonanoid.New(); err != nil {
				return fmt.Errorf("failed to generate nanoid: %w: %v", domain.ErrPersistence, err)
			}
		}
		err := qtx.InsertRankRecord(ctx, db.InsertRankRecordParams{
			ID:            id,
			AccountID:     acc.ID,
			Seq:           int64(i),
			Tier:          int64(rec.Tier),
			Division:      int64(rec.Division),
			Points:        int64(rec.Points),
			MatchID:       nullableString(rec.MatchID),
			PointsDelta:   nullableInt(rec.PointsDelta),
			LowConfidence: rec.LowConfidence,
			RecordedAt:    rec.Timestamp,
		})
		if err != nil {
			return fmt.Errorf("insert rank record %s: %w: %v", acc.ID, domain.ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit account %s: %w: %v", acc.ID, domain.ErrPersistence, err)
	}

	r.logger.Debug().
		Str("account_id", acc.ID).
		Str("cursor", acc.CursorMatchID).
		Int("history", len(acc.History)).
		Msg("account state saved")
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete account %s: %w", id, err)
	}
	return n > 0, nil
}

func (r *AccountRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	n, err := r.queries.DeleteAccountsByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete accounts of %s: %w", ownerID, err)
	}
	r.logger.Info().Str("owner_id", ownerID).Int64("count", n).Msg("accounts cleared")
	return n, nil
}

func toDomainAccount(row db.Account) domain.TrackedAccount {
	acc := domain.TrackedAccount{
		ID:         row.ID,
		AccountRef: row.AccountRef,
		SummonerID: row.SummonerID,
		OwnerID:    row.OwnerID,
		Region:     domain.Region(row.Region),
		GameName:   row.GameName,
		TagLine:    row.TagLine,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.CursorMatchID != nil {
		acc.CursorMatchID = *row.CursorMatchID
	}
	if row.SnapshotTier != nil {
		s := domain.Snapshot{Tier: domain.Tier(*row.SnapshotTier)}
		if row.SnapshotDivision != nil {
			s.Division = domain.Division(*row.SnapshotDivision)
		}
		if row.SnapshotPoints != nil {
			s.Points = int(*row.SnapshotPoints)
		}
		acc.LastSnapshot = &s
	}
	return acc
}

func fromDomainAccount(acc domain.TrackedAccount) db.Account {
	row := db.Account{
		ID:            acc.ID,
		AccountRef:    acc.AccountRef,
		SummonerID:    acc.SummonerID,
		OwnerID:       acc.OwnerID,
		Region:        string(acc.Region),
		GameName:      acc.GameName,
		TagLine:       acc.TagLine,
		CursorMatchID: nullableString(acc.CursorMatchID),
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
	if s := acc.LastSnapshot; s != nil {
		tier, div, pts := int64(s.Tier), int64(s.Division), int64(s.Points)
		row.SnapshotTier, row.SnapshotDivision, row.SnapshotPoints = &tier, &div, &pts
	}
	return row
}

func toDomainRecord(rec db.RankRecord) domain.RankRecord {
	out := domain.RankRecord{
		ID:            rec.ID,
		Tier:          domain.Tier(rec.Tier),
		Division:      domain.Division(rec.Division),
		Points:        int(rec.Points),
		Timestamp:     rec.RecordedAt,
		LowConfidence: rec.LowConfidence,
	}
	if rec.MatchID != nil {
		out.MatchID = *rec.MatchID
	}
	if rec.PointsDelta != nil {
		d := int(*rec.PointsDelta)
		out.PointsDelta = &d
	}
	return out
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
