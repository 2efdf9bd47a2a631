package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/gymplanner/internal/telemetry/tracing"
	"github.com/2beens/gymplanner/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

const AdminSecretHeader = "X-Admin-Secret"

type tokenIssuer interface {
	IssueToken(ctx context.Context, userID string) (string, error)
	RevokeAll(ctx context.Context, userID string) (int, error)
}

type TokenRequest struct {
	UserID string `json:"userId"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type RevokeResponse struct {
	Revoked int `json:"revoked"`
}

// Handler lets an operator holding the admin secret issue and revoke device tokens.
type Handler struct {
	issuer      tokenIssuer
	adminSecret string
}

func NewHandler(issuer tokenIssuer, adminSecret string) *Handler {
	return &Handler{
		issuer:      issuer,
		adminSecret: adminSecret,
	}
}

func (h *Handler) isAdmin(r *http.Request) bool {
	if h.adminSecret == "" {
		return false
	}
	given := r.Header.Get(AdminSecretHeader)
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.adminSecret)) == 1
}

func (h *Handler) readUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.isAdmin(r) {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return "", false
	}
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("token request, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return "", false
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		http.Error(w, "user id empty", http.StatusBadRequest)
		return "", false
	}
	return userID, true
}

// HandleIssueToken: POST /a/token {"userId": "..."}
func (h *Handler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.issue")
	defer span.End()

	userID, ok := h.readUserID(w, r)
	if !ok {
		return
	}

	token, err := h.issuer.IssueToken(ctx, userID)
	if err != nil {
		log.Errorf("issue token for [%s]: %s", userID, err)
		http.Error(w, "issue token failed", http.StatusInternalServerError)
		return
	}

	log.Infof("issued new token for user [%s]", userID)
	pkg.WriteJSON(w, TokenResponse{Token: token}, http.StatusCreated)
}

// HandleRevoke: POST /a/revoke {"userId": "..."}
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.revoke")
	defer span.End()

	userID, ok := h.readUserID(w, r)
	if !ok {
		return
	}

	revoked, err := h.issuer.RevokeAll(ctx, userID)
	if err != nil {
		log.Errorf("revoke tokens for [%s]: %s", userID, err)
		http.Error(w, "revoke failed", http.StatusInternalServerError)
		return
	}

	log.Infof("revoked %d tokens of user [%s]", revoked, userID)
	pkg.WriteJSON(w, RevokeResponse{Revoked: revoked}, http.StatusOK)
}
