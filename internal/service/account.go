package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"lp-tracker/internal/api"
	"lp-tracker/internal/config"
	"lp-tracker/internal/constants"
	"lp-tracker/internal/domain"
	"lp-tracker/internal/history"
	"lp-tracker/internal/notify"
	"lp-tracker/internal/rank"
	"lp-tracker/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidRegion  = errors.New("invalid region")
	ErrInvalidRequest = errors.New("invalid request")
)

// AccountResolver looks up a player on the game API at registration time.
type AccountResolver interface {
	GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*api.AccountDTO, error)
	GetSummonerByPUUID(ctx context.Context, puuid string, region domain.Region) (*api.SummonerDTO, error)
	GetCurrentRank(ctx context.Context, summonerID string, region domain.Region) (domain.Snapshot, error)
}

type AccountService struct {
	riot   AccountResolver
	repo   *repository.AccountRepository
	cfg    *config.Config
	logger zerolog.Logger
}

func NewAccountService(riot *api.RiotClient, repo *repository.AccountRepository, cfg *config.Config, logger zerolog.Logger) *AccountService {
	return NewAccountServiceWith(riot, repo, cfg, logger)
}

func NewAccountServiceWith(riot AccountResolver, repo *repository.AccountRepository, cfg *config.Config, logger zerolog.Logger) *AccountService {
	return &AccountService{riot: riot, repo: repo, cfg: cfg, logger: logger}
}

type RegisterRequest struct {
	OwnerID  string `json:"owner_id"`
	GameName string `json:"game_name"`
	TagLine  string `json:"tag_line"`
	Region   string `json:"region"`
}

// Register starts tracking a player for an owner. The current rank is stored
// as the baseline snapshot; the cursor stays unset so the first cycle backfills
// one page of matches.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*domain.TrackedAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	region, err := s.parseRegion(req.Region)
	if err != nil {
		return nil, err
	}
	gameName, tagLine := strings.TrimSpace(req.GameName), strings.TrimSpace(req.TagLine)
	if req.OwnerID == "" || gameName == "" || tagLine == "" {
		return nil, fmt.Errorf("%w: owner, game name and tag line are required", ErrInvalidRequest)
	}

	s.logger.Info().Str("owner_id", req.OwnerID).Str("name", gameName).Str("tag", tagLine).Str("region", string(region)).Msg("registering account")

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	riotAccount, err := s.riot.GetAccountByRiotID(apiCtx, gameName, tagLine)
	if err != nil {
		s.logger.Error().Err(err).Str("name", gameName).Str("tag", tagLine).Msg("failed to fetch account")
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	summoner, err := s.riot.GetSummonerByPUUID(apiCtx, riotAccount.PUUID, region)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", riotAccount.PUUID).Msg("failed to fetch summoner")
		return nil, fmt.Errorf("failed to fetch summoner: %w", err)
	}

	current, err := s.riot.GetCurrentRank(apiCtx, summoner.ID, region)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", riotAccount.PUUID).Msg("failed to fetch rank")
		return nil, fmt.Errorf("failed to fetch rank: %w", err)
	}

	acc := &domain.TrackedAccount{
		AccountRef:   riotAccount.PUUID,
		SummonerID:   summoner.ID,
		OwnerID:      req.OwnerID,
		Region:       region,
		GameName:     firstNonEmpty(riotAccount.GameName, gameName),
		TagLine:      firstNonEmpty(riotAccount.TagLine, tagLine),
		LastSnapshot: &current,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Remove stops tracking the owner's account identified by Riot ID and region.
func (s *AccountService) Remove(ctx context.Context, ownerID, gameName, tagLine, regionCode string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	region, err := s.parseRegion(regionCode)
	if err != nil {
		return err
	}
	acc, err := s.repo.FindByRiotID(ctx, ownerID, gameName, tagLine, region)
	if err != nil {
		return err
	}
	removed, err := s.repo.Delete(ctx, acc.ID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("account %s: %w", acc.RiotID(), domain.ErrNotFound)
	}
	s.logger.Info().Str("account_id", acc.ID).Str("riot_id", acc.RiotID()).Msg("account removed")
	return nil
}

// ClearOwner removes every account registered by ownerID.
func (s *AccountService) ClearOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.DeleteByOwner(ctx, ownerID)
}

type LeaderboardEntry struct {
	Position  int             `json:"position"`
	AccountID string          `json:"account_id"`
	RiotID    string          `json:"riot_id"`
	Region    domain.Region   `json:"region"`
	Rank      string          `json:"rank"`
	Snapshot  domain.Snapshot `json:"snapshot"`
	// LastChange is the LP change of the newest history record, empty without history.
	LastChange string `json:"last_change,omitempty"`
}

// Leaderboard ranks all tracked accounts by their last committed snapshot,
// unranked and never-observed accounts last.
func (s *AccountService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	accounts, err := s.repo.ListTracked(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load accounts for leaderboard")
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(accounts))
	for _, acc := range accounts {
		snap := domain.UnrankedSnapshot()
		if acc.LastSnapshot != nil {
			snap = *acc.LastSnapshot
		}
		entry := LeaderboardEntry{
			AccountID: acc.ID,
			RiotID:    acc.RiotID(),
			Region:    acc.Region,
			Rank:      snap.String(),
			Snapshot:  snap,
		}
		if last, ok := history.Last(acc.History); ok {
			entry.LastChange = notify.FormatDelta(last.PointsDelta, last.LowConfidence)
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if c := rank.Compare(entries[i].Snapshot, entries[j].Snapshot); c != 0 {
			return c > 0
		}
		return entries[i].RiotID < entries[j].RiotID
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries, nil
}

// History returns the last n rank records of an account, oldest first.
func (s *AccountService) History(ctx context.Context, accountID string, n int) ([]domain.RankRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if n <= 0 {
		n = constants.DefaultHistoryView
	}
	if n > constants.MaxHistoryView {
		n = constants.MaxHistoryView
	}

	acc, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return history.Recent(acc.History, n), nil
}

func (s *AccountService) parseRegion(code string) (domain.Region, error) {
	region, err := domain.ParseRegion(code)
	if err != nil || !s.cfg.RegionAllowed(region) {
		return "", fmt.Errorf("%w %q", ErrInvalidRegion, code)
	}
	return region, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
