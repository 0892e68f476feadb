package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"lp-tracker/internal/config"
	"lp-tracker/internal/constants"
	"lp-tracker/internal/domain"
	"lp-tracker/internal/rank"

	"github.com/valyala/fasthttp"
)

type RiotClient struct {
	apiKey     string
	scheme     string
	rankedType string
	client     *fasthttp.Client

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	AppLimit    string `json:"app_limit"`
	AppCount    string `json:"app_count"`
	MethodLimit string `json:"method_limit"`
	MethodCount string `json:"method_count"`

	// seconds, set on 429
	RetryAfter int `json:"retry_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRiotClient(cfg *config.Config) *RiotClient {
	return NewRiotClientWith(cfg.RiotAPIKey, cfg.RankedQueueType, "https", &fasthttp.Client{
		MaxConnsPerHost:     constants.APIMaxConnsPerHost,
		ReadTimeout:         constants.ExternalAPITimeout,
		WriteTimeout:        constants.ExternalAPITimeout,
		MaxIdleConnDuration: 1 * time.Minute,
	})
}

// NewRiotClientWith builds a client over an existing fasthttp client, scheme is "http" or "https".
func NewRiotClientWith(apiKey, rankedQueueType, scheme string, client *fasthttp.Client) *RiotClient {
	return &RiotClient{
		apiKey:     apiKey,
		scheme:     scheme,
		rankedType: rankedQueueType,
		client:     client,
		rateLimit:  RateLimitInfo{UpdatedAt: time.Now()},
	}
}

func (c *RiotClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v := string(resp.Header.Peek("X-App-Rate-Limit")); v != "" {
		c.rateLimit.AppLimit = v
	}
	if v := string(resp.Header.Peek("X-App-Rate-Limit-Count")); v != "" {
		c.rateLimit.AppCount = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit")); v != "" {
		c.rateLimit.MethodLimit = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit-Count")); v != "" {
		c.rateLimit.MethodCount = v
	}
	c.rateLimit.RetryAfter = 0
	if v := string(resp.Header.Peek("Retry-After")); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			c.rateLimit.RetryAfter = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *RiotClient) url(host, path string) string {
	return c.scheme + "://" + host + path
}

func (c *RiotClient) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*AccountDTO, error) {
	u := c.url(domain.RegionNA.RegionalHost(), fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(gameName), url.PathEscape(tagLine)))
	return doRequest[AccountDTO](ctx, c, u)
}

func (c *RiotClient) GetSummonerByPUUID(ctx context.Context, puuid string, region domain.Region) (*SummonerDTO, error) {
	u := c.url(region.PlatformHost(), "/lol/summoner/v4/summoners/by-puuid/"+url.PathEscape(puuid))
	return doRequest[SummonerDTO](ctx, c, u)
}

// ListRecentMatchIDs returns match ids newest first.
func (c *RiotClient) ListRecentMatchIDs(ctx context.Context, puuid string, region domain.Region, filter domain.MatchFilter) ([]string, error) {
	q := url.Values{}
	if filter.QueueID > 0 {
		q.Set("queue", strconv.Itoa(filter.QueueID))
	}
	if filter.Count > 0 {
		q.Set("count", strconv.Itoa(filter.Count))
	}
	u := c.url(region.RegionalHost(), "/lol/match/v5/matches/by-puuid/"+url.PathEscape(puuid)+"/ids")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	ids, err := doRequest[[]string](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *RiotClient) GetMatchDetail(ctx context.Context, matchID string, region domain.Region) (*domain.MatchDetail, error) {
	u := c.url(region.RegionalHost(), "/lol/match/v5/matches/"+url.PathEscape(matchID))
	dto, err := doRequest[MatchDTO](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return dto.toDomain()
}

func (c *RiotClient) GetLeagueEntries(ctx context.Context, summonerID string, region domain.Region) ([]LeagueEntryDTO, error) {
	u := c.url(region.PlatformHost(), "/lol/league/v4/entries/by-summoner/"+url.PathEscape(summonerID))
	entries, err := doRequest[[]LeagueEntryDTO](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// GetCurrentRank returns the ranked solo snapshot, or Unranked when the
// summoner has no entry for the configured queue type.
func (c *RiotClient) GetCurrentRank(ctx context.Context, summonerID string, region domain.Region) (domain.Snapshot, error) {
	entries, err := c.GetLeagueEntries(ctx, summonerID, region)
	if err != nil {
		return domain.Snapshot{}, err
	}
	for _, e := range entries {
		if e.QueueType != c.rankedType {
			continue
		}
		s, err := rank.ParseSnapshot(e.Tier, e.Rank, e.LeaguePoints)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("league entry for %s: %w: %v", summonerID, domain.ErrMalformed, err)
		}
		return s, nil
	}
	return domain.UnrankedSnapshot(), nil
}

func doRequest[T any](ctx context.Context, client *RiotClient, url string) (*T, error) {
	// fasthttp does not observe ctx cancellation
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("request %s: %w: %w", url, domain.ErrTransient, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)

	var err error
	deadline, ok := ctx.Deadline()
	if ok {
		err = client.client.DoDeadline(req, resp, deadline)
	} else {
		err = client.client.Do(req, resp)
	}
	if err != nil {
		return nil, fmt.Errorf("request %s: %w: %v", req.URI().Path(), domain.ErrTransient, err)
	}

	client.updateRateLimit(resp)

	if err := classifyStatus(resp.StatusCode()); err != nil {
		return nil, fmt.Errorf("API error %d on %s: %w", resp.StatusCode(), req.URI().Path(), err)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", req.URI().Path(), domain.ErrMalformed, err)
	}
	return &result, nil
}

func classifyStatus(code int) error {
	switch {
	case code == fasthttp.StatusOK:
		return nil
	case code == fasthttp.StatusNotFound:
		return domain.ErrNotFound
	case code == fasthttp.StatusUnauthorized || code == fasthttp.StatusForbidden:
		return domain.ErrUnauthorized
	case code == fasthttp.StatusTooManyRequests || code >= 500:
		return domain.ErrTransient
	case code == fasthttp.StatusBadRequest:
		return domain.ErrMalformed
	}
	return errors.Join(domain.ErrTransient, fmt.Errorf("unexpected status %d", code))
}
