package in

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	catalogin "profithopper/internal/modules/catalog/port/in"
	dashboarddto "profithopper/internal/modules/dashboard/dto"
	dashboardin "profithopper/internal/modules/dashboard/port/in"
	ledgerdto "profithopper/internal/modules/ledger/dto"
	ledgerin "profithopper/internal/modules/ledger/port/in"
	recommenddto "profithopper/internal/modules/recommend/dto"
	recommendin "profithopper/internal/modules/recommend/port/in"
	apperrors "profithopper/internal/platform/errors"
	"profithopper/internal/platform/id"
)

const maxBodyBytes = 1 << 20

type HTTPHandler struct {
	dashboard dashboardin.Usecase
	ledger    ledgerin.Usecase
	recommend recommendin.Usecase
	catalog   catalogin.Usecase
	ids       id.Generator
	log       logrus.FieldLogger
}

func NewHTTPHandler(
	dashboard dashboardin.Usecase,
	ledger ledgerin.Usecase,
	recommend recommendin.Usecase,
	catalog catalogin.Usecase,
	ids id.Generator,
	log logrus.FieldLogger,
) *HTTPHandler {
	return &HTTPHandler{dashboard: dashboard, ledger: ledger, recommend: recommend, catalog: catalog, ids: ids, log: log}
}

// Routes builds the JSON API. Every /api route is scoped to the caller's
// client id.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", ClientHeader},
		ExposedHeaders:   []string{ClientHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(withOwner(h.ids))
		api.Get("/dashboard", h.Dashboard)
		api.Route("/trips", func(rr chi.Router) {
			rr.Post("/", h.StartTrip)
			rr.Get("/", h.Trips)
			rr.Patch("/current", h.UpdateSettings)
			rr.Delete("/current", h.EndTrip)
			rr.Delete("/{tripID}", h.EndTrip)
		})
		api.Route("/sessions", func(rr chi.Router) {
			rr.Post("/", h.RecordSession)
			rr.Get("/", h.Sessions)
		})
		api.Post("/casinos", h.AddCasino)
		api.Post("/blacklist", h.Blacklist)
		api.Get("/games", h.Games)
		api.Post("/catalog/reload", h.ReloadCatalog)
		api.Route("/export", func(rr chi.Router) {
			rr.Get("/sessions.csv", h.export(h.ledger.ExportSessionsCSV))
			rr.Get("/trips.csv", h.export(h.ledger.ExportSummariesCSV))
			rr.Get("/report.md", h.export(h.ledger.ExportReport))
		})
	})
	return r
}

func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	snap, err := h.dashboard.Snapshot(r.Context(), dashboarddto.SnapshotInput{Owner: ownerFrom(r.Context()), Criteria: criteria})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardView(snap))
}

type startTripRequest struct {
	Casino           string          `json:"casino"`
	StartingBankroll decimal.Decimal `json:"starting_bankroll"`
	PlannedSessions  int             `json:"num_sessions"`
}

func (h *HTTPHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	var req startTripRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	owner := ownerFrom(r.Context())
	if _, err := h.ledger.StartTrip(r.Context(), ledgerdto.StartTripInput{
		Owner:            owner,
		Casino:           req.Casino,
		StartingBankroll: req.StartingBankroll,
		PlannedSessions:  req.PlannedSessions,
	}); err != nil {
		h.writeError(w, err)
		return
	}
	current, err := h.ledger.Current(r.Context(), owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripView(current))
}

func (h *HTTPHandler) Trips(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.ledger.Summaries(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryViews(summaries))
}

type settingsRequest struct {
	StartingBankroll decimal.Decimal `json:"starting_bankroll"`
	PlannedSessions  int             `json:"num_sessions"`
}

func (h *HTTPHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	current, err := h.ledger.UpdateSettings(r.Context(), ledgerdto.UpdateSettingsInput{
		Owner:            ownerFrom(r.Context()),
		StartingBankroll: req.StartingBankroll,
		PlannedSessions:  req.PlannedSessions,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripView(current))
}

type endTripResponse struct {
	EndedTripID   int `json:"ended_trip_id"`
	CurrentTripID int `json:"current_trip_id"`
	Discarded     int `json:"discarded_sessions"`
}

func (h *HTTPHandler) EndTrip(w http.ResponseWriter, r *http.Request) {
	tripID := 0
	if raw := chi.URLParam(r, "tripID"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, fmt.Errorf("trip id %q: %w", raw, apperrors.ErrInvalidInput))
			return
		}
		tripID = n
	}
	out, err := h.ledger.EndTrip(r.Context(), ledgerdto.EndTripInput{Owner: ownerFrom(r.Context()), TripID: tripID})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, endTripResponse{EndedTripID: out.EndedTripID, CurrentTripID: out.CurrentTripID, Discarded: out.Discarded})
}

type sessionRequest struct {
	Date     string          `json:"date"`
	Game     string          `json:"game"`
	MoneyIn  decimal.Decimal `json:"money_in"`
	MoneyOut decimal.Decimal `json:"money_out"`
	Notes    string          `json:"notes"`
}

func (h *HTTPHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			h.writeError(w, fmt.Errorf("date %q: %w", req.Date, apperrors.ErrInvalidInput))
			return
		}
		date = parsed
	}
	session, err := h.ledger.RecordSession(r.Context(), ledgerdto.RecordSessionInput{
		Owner:    ownerFrom(r.Context()),
		Date:     date,
		Game:     req.Game,
		MoneyIn:  req.MoneyIn,
		MoneyOut: req.MoneyOut,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionViews([]ledgerdto.SessionOutput{session})[0])
}

func (h *HTTPHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	input := ledgerdto.SessionsInput{Owner: ownerFrom(r.Context())}
	q := r.URL.Query()
	if q.Get("all") == "true" || q.Get("all") == "1" {
		input.All = true
	}
	if raw := q.Get("trip_id"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, fmt.Errorf("trip_id %q: %w", raw, apperrors.ErrInvalidInput))
			return
		}
		input.TripID = n
	}
	sessions, err := h.ledger.Sessions(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionViews(sessions))
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *HTTPHandler) AddCasino(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	casinos, err := h.ledger.AddCasino(r.Context(), ledgerdto.AddCasinoInput{Owner: ownerFrom(r.Context()), Name: req.Name})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"casinos": nonNil(casinos)})
}

func (h *HTTPHandler) Blacklist(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	games, err := h.ledger.BlacklistGame(r.Context(), ledgerdto.BlacklistInput{Owner: ownerFrom(r.Context()), Game: req.Name})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"blacklist": nonNil(games)})
}

func (h *HTTPHandler) Games(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	plan, err := h.recommend.Recommend(r.Context(), recommenddto.RecommendInput{Owner: ownerFrom(r.Context()), Criteria: criteria})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanView(plan))
}

type catalogResponse struct {
	Source    string    `json:"source"`
	Available bool      `json:"available"`
	Games     int       `json:"games"`
	Dropped   int       `json:"dropped_rows"`
	Types     []string  `json:"types"`
	Message   string    `json:"message,omitempty"`
	LoadedAt  time.Time `json:"loaded_at"`
}

func (h *HTTPHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	out, err := h.catalog.Reload(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Source:    out.Source,
		Available: out.Available,
		Games:     len(out.Games),
		Dropped:   out.Dropped,
		Types:     nonNil(out.Types),
		Message:   out.Message,
		LoadedAt:  out.LoadedAt,
	})
}

func (h *HTTPHandler) export(fn func(ctx context.Context, owner string) (ledgerdto.ExportOutput, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context(), ownerFrom(r.Context()))
		if err != nil {
			h.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", out.ContentType+"; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out.Body)
	}
}

// criteriaFromQuery starts from the default game plan filters and applies
// min_rtp, max_min_bet, cap, type, advantage, volatility and q.
func criteriaFromQuery(r *http.Request) (recommenddto.CriteriaInput, error) {
	c := recommenddto.DefaultCriteria()
	q := r.URL.Query()
	if raw := q.Get("min_rtp"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, fmt.Errorf("min_rtp %q: %w", raw, apperrors.ErrInvalidInput)
		}
		c.MinRTP = v
	}
	if raw := q.Get("max_min_bet"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return c, fmt.Errorf("max_min_bet %q: %w", raw, apperrors.ErrInvalidInput)
		}
		c.MaxMinBet = decimal.NewNullDecimal(v)
	}
	if raw := q.Get("cap"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c, fmt.Errorf("cap %q: %w", raw, apperrors.ErrInvalidInput)
		}
		c.CapToMaxBet = v
	}
	c.GameType = q.Get("type")
	c.Advantage = q.Get("advantage")
	c.Volatility = q.Get("volatility")
	c.Search = q.Get("q")
	return c, nil
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request: %v: %w", err, apperrors.ErrInvalidInput)
	}
	return nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	default:
		h.log.WithError(err).Error("request error")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
