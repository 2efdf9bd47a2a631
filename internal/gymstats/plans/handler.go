package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/gymplanner/internal/auth"
	"github.com/2beens/gymplanner/internal/telemetry/tracing"
	"github.com/2beens/gymplanner/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=plans_test

const FingerprintHeader = "X-Device-Fingerprint"

type planService interface {
	Create(ctx context.Context, params NewPlanParams) (*Plan, error)
	Get(ctx context.Context, userID, planID string) (*Plan, error)
	GetDay(ctx context.Context, userID, dayID string) (*Day, error)
	Edit(ctx context.Context, req EditRequest) (*EditResult, error)
	ApplyProgression(ctx context.Context, req ProgressionRequest) (*Plan, ProgressionReport, error)
}

type CreatePlanRequest struct {
	Name                 string               `json:"name"`
	BlockLength          int                  `json:"blockLength"`
	Frequency            int                  `json:"frequency"`
	WeightRecommendation WeightRecommendation `json:"weightRecommendation"`
}

type EditDayRequest struct {
	Diff    Diff `json:"diff"`
	Version int  `json:"version"`
}

type ProgressionBody struct {
	RPEIncrement float64 `json:"rpeIncrement"`
	WithDeload   bool    `json:"withDeload"`
	Version      int     `json:"version"`
}

type ProgressionResponse struct {
	Plan   *Plan             `json:"plan"`
	Report ProgressionReport `json:"report"`
}

type Handler struct {
	service planService
}

func NewHandler(service planService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.create")
	defer span.End()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create plan, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.service.Create(ctx, NewPlanParams{
		UserID:               userID,
		Name:                 req.Name,
		BlockLength:          req.BlockLength,
		Frequency:            req.Frequency,
		WeightRecommendation: req.WeightRecommendation,
	})
	if err != nil {
		writeServiceError(w, "create plan", err)
		return
	}

	pkg.WriteJSON(w, plan, http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
	defer span.End()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	plan, err := h.service.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "get plan", err)
		return
	}

	pkg.WriteJSON(w, plan, http.StatusOK)
}

func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.getday")
	defer span.End()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	day, err := h.service.GetDay(ctx, userID, mux.Vars(r)["dayId"])
	if err != nil {
		writeServiceError(w, "get day", err)
		return
	}

	pkg.WriteJSON(w, day, http.StatusOK)
}

func (h *Handler) HandleEditDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.editday")
	defer span.End()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	weekIndex, err := strconv.Atoi(vars["week"])
	if err != nil {
		http.Error(w, "parse form error, parameter <week>", http.StatusBadRequest)
		return
	}
	dayIndex, err := strconv.Atoi(vars["day"])
	if err != nil {
		http.Error(w, "parse form error, parameter <day>", http.StatusBadRequest)
		return
	}

	var req EditDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("edit day, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Diff) == 0 {
		http.Error(w, "diff empty", http.StatusBadRequest)
		return
	}

	result, err := h.service.Edit(ctx, EditRequest{
		UserID:      userID,
		PlanID:      vars["id"],
		WeekIndex:   weekIndex,
		DayIndex:    dayIndex,
		Diff:        req.Diff,
		Version:     req.Version,
		Fingerprint: r.Header.Get(FingerprintHeader),
	})
	if err != nil {
		writeServiceError(w, "edit day", err)
		return
	}

	pkg.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.progression")
	defer span.End()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body ProgressionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Errorf("progression, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.RPEIncrement < 0 {
		http.Error(w, "rpe increment must not be negative", http.StatusBadRequest)
		return
	}

	plan, report, err := h.service.ApplyProgression(ctx, ProgressionRequest{
		UserID:       userID,
		PlanID:       mux.Vars(r)["id"],
		RPEIncrement: body.RPEIncrement,
		WithDeload:   body.WithDeload,
		Version:      body.Version,
	})
	if err != nil {
		writeServiceError(w, "progression", err)
		return
	}

	pkg.WriteJSON(w, ProgressionResponse{Plan: plan, Report: report}, http.StatusOK)
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrDayNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrStaleVersion):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidPlan):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
