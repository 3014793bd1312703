package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/smartmarks/smartmarks-api/internal/service"
)

// IdentityWebhookHandler handles identity-provider webhook events. The
// provider signs payloads with svix; user auth does not apply here.
type IdentityWebhookHandler struct {
	secret      string
	bookmarkSvc *service.BookmarkService
	logger      *slog.Logger
}

// NewIdentityWebhookHandler creates a new identity webhook handler.
func NewIdentityWebhookHandler(secret string, bookmarkSvc *service.BookmarkService, logger *slog.Logger) *IdentityWebhookHandler {
	return &IdentityWebhookHandler{
		secret:      secret,
		bookmarkSvc: bookmarkSvc,
		logger:      logger,
	}
}

// identityEvent represents an identity-provider webhook event.
type identityEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleWebhook verifies and processes an incoming identity webhook.
func (h *IdentityWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodySize = 65536 // 64KB

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	headers := http.Header{}
	headers.Set("svix-id", r.Header.Get("svix-id"))
	headers.Set("svix-timestamp", r.Header.Get("svix-timestamp"))
	headers.Set("svix-signature", r.Header.Get("svix-signature"))

	wh, err := svix.NewWebhook(h.secret)
	if err != nil {
		h.logger.Error("failed to create webhook verifier", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := wh.Verify(payload, headers); err != nil {
		h.logger.Error("failed to verify webhook signature", "error", err)
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	var event identityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("failed to parse webhook event", "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.handleEvent(r.Context(), event); err != nil {
		h.logger.Error("failed to handle webhook event", "type", event.Type, "error", err)
		// Return 200 to prevent retries for business logic errors
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleEvent routes events to appropriate handlers.
func (h *IdentityWebhookHandler) handleEvent(ctx context.Context, event identityEvent) error {
	h.logger.Info("received identity webhook", "type", event.Type)

	switch event.Type {
	case "user.deleted":
		return h.handleUserDeleted(ctx, event.Data)
	default:
		h.logger.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}
}

// handleUserDeleted purges the deleted user's bookmarks.
func (h *IdentityWebhookHandler) handleUserDeleted(ctx context.Context, data json.RawMessage) error {
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}
	if user.ID == "" {
		h.logger.Warn("user.deleted event without user id")
		return nil
	}

	return h.bookmarkSvc.PurgeUser(ctx, user.ID)
}
