package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lp-tracker/internal/api"
	"lp-tracker/internal/config"
	"lp-tracker/internal/database"
	"lp-tracker/internal/db"
	"lp-tracker/internal/domain"
	"lp-tracker/internal/repository"
	"lp-tracker/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct{}

func (stubResolver) GetAccountByRiotID(_ context.Context, gameName, tagLine string) (*api.AccountDTO, error) {
	if gameName == "Ghost" {
		return nil, domain.ErrNotFound
	}
	return &api.AccountDTO{PUUID: "puuid-" + gameName, GameName: gameName, TagLine: tagLine}, nil
}

func (stubResolver) GetSummonerByPUUID(_ context.Context, puuid string, _ domain.Region) (*api.SummonerDTO, error) {
	return &api.SummonerDTO{ID: "summ-" + puuid, PUUID: puuid}, nil
}

func (stubResolver) GetCurrentRank(_ context.Context, summonerID string, _ domain.Region) (domain.Snapshot, error) {
	if strings.HasSuffix(summonerID, "Top") {
		return domain.Snapshot{Tier: domain.TierDiamond, Division: domain.DivisionI, Points: 75}, nil
	}
	return domain.Snapshot{Tier: domain.TierSilver, Division: domain.DivisionIII, Points: 20}, nil
}

type stubTrigger struct{ calls int }

func (s *stubTrigger) TriggerNow() bool {
	s.calls++
	return s.calls == 1
}

type stubLimits struct{}

func (stubLimits) GetRateLimitInfo() api.RateLimitInfo {
	return api.RateLimitInfo{AppLimit: "20:1,100:120", AppCount: "3:1,10:120"}
}

type testEnv struct {
	handler http.Handler
	repo    *repository.AccountRepository
	trigger *stubTrigger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "server.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := repository.NewAccountRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
	cfg := &config.Config{Regions: domain.AllRegions()}
	accounts := service.NewAccountServiceWith(stubResolver{}, repo, cfg, zerolog.Nop())
	trigger := &stubTrigger{}

	srv := NewTrackerServer(accounts, trigger, stubLimits{}, zerolog.Nop())
	return &testEnv{handler: srv.Handler(), repo: repo, trigger: trigger}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRegisterAndLeaderboard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, APIPrefix+"/accounts", `{"owner_id":"u1","game_name":"Mid","tag_line":"EUW","region":"euw"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[accountResponse](t, rec)
	assert.Equal(t, "Mid#EUW", created.RiotID)
	assert.Equal(t, "Silver III 20 LP", created.Rank)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = env.do(t, http.MethodPost, APIPrefix+"/accounts", `{"owner_id":"u1","game_name":"Top","tag_line":"EUW","region":"euw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, APIPrefix+"/accounts", `{"owner_id":"u1","game_name":"Top","tag_line":"EUW","region":"euw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, APIPrefix+"/leaderboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[struct {
		Entries []service.LeaderboardEntry `json:"entries"`
	}](t, rec)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "Top#EUW", board.Entries[0].RiotID)
	assert.Equal(t, 1, board.Entries[0].Position)
	assert.Equal(t, "Mid#EUW", board.Entries[1].RiotID)
}

func TestRegister_Errors(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown region", `{"owner_id":"u1","game_name":"A","tag_line":"B","region":"moon"}`, http.StatusBadRequest},
		{"missing fields", `{"owner_id":"u1","region":"euw"}`, http.StatusBadRequest},
		{"unknown player", `{"owner_id":"u1","game_name":"Ghost","tag_line":"B","region":"euw"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, APIPrefix+"/accounts", tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec := env.do(t, http.MethodPost, APIPrefix+"/accounts", `{"owner_id":"u1","game_name":"Mid","tag_line":"EUW","region":"euw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[accountResponse](t, rec)

	acc, err := env.repo.Get(ctx, created.ID)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		acc.History = append(acc.History, domain.RankRecord{
			ID:        "r" + string(rune('a'+i)),
			Tier:      domain.TierSilver,
			Points:    i * 10,
			Timestamp: time.Now().UTC(),
		})
	}
	require.NoError(t, env.repo.Save(ctx, *acc))

	rec = env.do(t, http.MethodGet, APIPrefix+"/accounts/"+created.ID+"/history?n=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	hist := decode[struct {
		Records []domain.RankRecord `json:"records"`
	}](t, rec)
	require.Len(t, hist.Records, 2)
	assert.Equal(t, 30, hist.Records[0].Points)
	assert.Equal(t, 40, hist.Records[1].Points)

	rec = env.do(t, http.MethodGet, APIPrefix+"/accounts/"+created.ID+"/history?n=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, APIPrefix+"/accounts/missing/history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveAndClear(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"One", "Two"} {
		rec := env.do(t, http.MethodPost, APIPrefix+"/accounts", `{"owner_id":"u1","game_name":"`+name+`","tag_line":"EUW","region":"euw"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodDelete, APIPrefix+"/owners/u1/accounts/euw/One/EUW", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, APIPrefix+"/owners/u1/accounts/euw/One/EUW", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, APIPrefix+"/owners/u1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":1}`, rec.Body.String())
}

func TestTriggerCycleAndStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, APIPrefix+"/cycles", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"queued":true}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, APIPrefix+"/cycles", "")
	assert.JSONEq(t, `{"queued":false}`, rec.Body.String())
	assert.Equal(t, 2, env.trigger.calls)

	rec = env.do(t, http.MethodGet, APIPrefix+"/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[struct {
		RateLimit api.RateLimitInfo `json:"rate_limit"`
	}](t, rec)
	assert.Equal(t, "20:1,100:120", status.RateLimit.AppLimit)
}
