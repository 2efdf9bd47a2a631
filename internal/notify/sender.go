package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/gymplanner/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Payload is the training summary sent to a user's device.
type Payload struct {
	Title             string    `json:"title"`
	Body              string    `json:"body"`
	DayID             string    `json:"dayId"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	DurationInMinutes int       `json:"durationInMinutes"`
}

func NewSessionSummary(dayID string, start, end time.Time, durationMinutes int) Payload {
	return Payload{
		Title:             "Training finished",
		Body:              fmt.Sprintf("Nice work! You trained for %d minutes.", durationMinutes),
		DayID:             dayID,
		StartTime:         start,
		EndTime:           end,
		DurationInMinutes: durationMinutes,
	}
}

type Sender interface {
	Send(ctx context.Context, userID, fingerprint string, payload Payload) error
}

type pushRequest struct {
	UserID      string  `json:"userId"`
	Fingerprint string  `json:"fingerprint"`
	Payload     Payload `json:"payload"`
}

// PushGatewaySender posts notifications to an external push gateway.
type PushGatewaySender struct {
	gatewayUrl string
	httpClient *http.Client
}

func NewPushGatewaySender(gatewayUrl string, httpClient *http.Client) *PushGatewaySender {
	return &PushGatewaySender{
		gatewayUrl: gatewayUrl,
		httpClient: httpClient,
	}
}

func (s *PushGatewaySender) Send(ctx context.Context, userID, fingerprint string, payload Payload) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notify.pushgateway.send")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("day-id", payload.DayID))

	reqBody, err := json.Marshal(pushRequest{
		UserID:      userID,
		Fingerprint: fingerprint,
		Payload:     payload,
	})
	if err != nil {
		return fmt.Errorf("marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayUrl, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push gateway responded with %d: %s", resp.StatusCode, respBytes)
	}

	log.Debugf("notify: summary for day [%s] sent to [%s]", payload.DayID, userID)
	return nil
}

// LogSender only logs notifications. Used when no push gateway is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, userID, fingerprint string, payload Payload) error {
	log.Infof("notify [%s/%s]: %s - %s", userID, fingerprint, payload.Title, payload.Body)
	return nil
}
