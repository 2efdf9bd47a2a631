package records

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymplanner/internal/auth"
	"github.com/2beens/gymplanner/internal/telemetry/tracing"
	"github.com/2beens/gymplanner/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=records_test

type recordsLister interface {
	Get(ctx context.Context, userID, exerciseName string) (*BestPerformance, error)
	List(ctx context.Context, userID string) ([]BestPerformance, error)
}

type Handler struct {
	repo recordsLister
}

func NewHandler(repo recordsLister) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.list")
	defer span.End()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	bps, err := h.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list records for [%s]: %s", userID, err)
		http.Error(w, "failed to list records", http.StatusInternalServerError)
		return
	}

	bpsJson, err := json.Marshal(bps)
	if err != nil {
		log.Errorf("marshal records: %s", err)
		http.Error(w, "failed to list records", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, bpsJson)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.get")
	defer span.End()

	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	exercise := NormalizeExerciseName(mux.Vars(r)["exercise"])
	if exercise == "" {
		http.Error(w, "exercise name missing", http.StatusBadRequest)
		return
	}

	bp, err := h.repo.Get(ctx, userID, exercise)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		log.Errorf("get record [%s] for [%s]: %s", exercise, userID, err)
		http.Error(w, "failed to get record", http.StatusInternalServerError)
		return
	}

	bpJson, err := json.Marshal(bp)
	if err != nil {
		log.Errorf("marshal record: %s", err)
		http.Error(w, "failed to get record", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, bpJson)
}
