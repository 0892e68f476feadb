package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"lp-tracker/internal/api"
	"lp-tracker/internal/domain"
	"lp-tracker/internal/middleware"
	"lp-tracker/internal/repository"
	"lp-tracker/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const APIPrefix = "/api/v1"

type CycleTrigger interface {
	TriggerNow() bool
}

type RateLimitReporter interface {
	GetRateLimitInfo() api.RateLimitInfo
}

type TrackerServer struct {
	accounts *service.AccountService
	cycles   CycleTrigger
	limits   RateLimitReporter
	logger   zerolog.Logger
}

func NewTrackerServer(accounts *service.AccountService, cycles CycleTrigger, limits RateLimitReporter, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{accounts: accounts, cycles: cycles, limits: limits, logger: logger}
}

// Handler returns the routed API wrapped in CORS and request id middleware.
func (s *TrackerServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+APIPrefix+"/leaderboard", s.leaderboard)
	mux.HandleFunc("POST "+APIPrefix+"/accounts", s.register)
	mux.HandleFunc("GET "+APIPrefix+"/accounts/{id}/history", s.history)
	mux.HandleFunc("DELETE "+APIPrefix+"/owners/{owner}/accounts", s.clearOwner)
	mux.HandleFunc("DELETE "+APIPrefix+"/owners/{owner}/accounts/{region}/{name}/{tag}", s.remove)
	mux.HandleFunc("POST "+APIPrefix+"/cycles", s.triggerCycle)
	mux.HandleFunc("GET "+APIPrefix+"/status", s.status)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return middleware.RequestID(s.logger)(c.Handler(mux))
}

func (s *TrackerServer) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.accounts.Leaderboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *TrackerServer) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	acc, err := s.accounts.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(acc))
}

func (s *TrackerServer) history(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "n must be a non-negative integer"})
			return
		}
		n = v
	}

	records, err := s.accounts.History(r.Context(), r.PathValue("id"), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []domain.RankRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *TrackerServer) remove(w http.ResponseWriter, r *http.Request) {
	err := s.accounts.Remove(r.Context(), r.PathValue("owner"), r.PathValue("name"), r.PathValue("tag"), r.PathValue("region"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *TrackerServer) clearOwner(w http.ResponseWriter, r *http.Request) {
	removed, err := s.accounts.ClearOwner(r.Context(), r.PathValue("owner"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *TrackerServer) triggerCycle(w http.ResponseWriter, r *http.Request) {
	queued := s.cycles.TriggerNow()
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": queued})
}

func (s *TrackerServer) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rate_limit": s.limits.GetRateLimitInfo()})
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type accountResponse struct {
	ID       string           `json:"id"`
	OwnerID  string           `json:"owner_id"`
	RiotID   string           `json:"riot_id"`
	Region   domain.Region    `json:"region"`
	Snapshot *domain.Snapshot `json:"snapshot"`
	Rank     string           `json:"rank"`
}

func toAccountResponse(acc *domain.TrackedAccount) accountResponse {
	resp := accountResponse{
		ID:       acc.ID,
		OwnerID:  acc.OwnerID,
		RiotID:   acc.RiotID(),
		Region:   acc.Region,
		Snapshot: acc.LastSnapshot,
		Rank:     domain.UnrankedSnapshot().String(),
	}
	if acc.LastSnapshot != nil {
		resp.Rank = acc.LastSnapshot.String()
	}
	return resp
}

func (s *TrackerServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Msg("request rejected")
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Kind: domain.ErrorKind(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRegion):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrAlreadyTracked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrMalformed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
