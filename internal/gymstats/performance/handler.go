package performance

import (
	"net/http"
	"strconv"

	"github.com/2beens/gymplanner/internal/telemetry/tracing"
	"github.com/2beens/gymplanner/pkg"

	"go.opentelemetry.io/otel/attribute"
)

type EstimatedMaxResponse struct {
	EstimatedMax float64 `json:"estimatedMax"`
}

type BackoffResponse struct {
	Percentage float64 `json:"percentage"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
}

// Handler exposes the calculators over HTTP. It is stateless.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// HandleEstimatedMax: GET /calc/estimated-max?weight=100&reps=5&rpe=8
// weight and rpe may be per-set values like "100;102.5", sets tells how many are expected.
func (h *Handler) HandleEstimatedMax(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calc.estimatedmax")
	defer span.End()

	q := r.URL.Query()
	sets := 1
	if setsStr := q.Get("sets"); setsStr != "" {
		var err error
		sets, err = strconv.Atoi(setsStr)
		if err != nil || sets < 1 {
			http.Error(w, "invalid <sets> param", http.StatusBadRequest)
			return
		}
	}

	est, ok := EstimateFromText(q.Get("weight"), q.Get("reps"), q.Get("rpe"), sets)
	if !ok {
		http.Error(w, "cannot estimate max from given weight, reps and rpe", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Float64("estimated-max", est))

	pkg.WriteJSON(w, EstimatedMaxResponse{EstimatedMax: est}, http.StatusOK)
}

// HandleBackoff: GET /calc/backoff?reps=8&rpe=7&topSetMax=125
func (h *Handler) HandleBackoff(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calc.backoff")
	defer span.End()

	q := r.URL.Query()
	reps, err := strconv.Atoi(q.Get("reps"))
	if err != nil || reps < 1 {
		http.Error(w, "invalid <reps> param", http.StatusBadRequest)
		return
	}
	rpe, err := ParseNumber(q.Get("rpe"))
	if err != nil {
		http.Error(w, "invalid <rpe> param", http.StatusBadRequest)
		return
	}
	topSetMax, err := ParseNumber(q.Get("topSetMax"))
	if err != nil || topSetMax <= 0 {
		http.Error(w, "invalid <topSetMax> param", http.StatusBadRequest)
		return
	}

	low, high := BackoffRange(reps, rpe, topSetMax)
	pkg.WriteJSON(w, BackoffResponse{
		Percentage: BackoffPercentage(reps, rpe),
		Low:        low,
		High:       high,
	}, http.StatusOK)
}
