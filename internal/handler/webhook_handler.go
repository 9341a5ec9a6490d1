package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wapio/backend/internal/whatsapp"
)

// WebhookHandler implements the WhatsApp Cloud API webhook surface: the
// subscription handshake and inbound event delivery.
type WebhookHandler struct {
	verifyToken string
}

func NewWebhookHandler(verifyToken string) *WebhookHandler {
	return &WebhookHandler{verifyToken: verifyToken}
}

// Verify handles GET /api/webhook, the hub.challenge handshake Meta performs
// when the webhook is subscribed. The challenge is echoed back as plain text.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		slog.Info("webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	w.WriteHeader(http.StatusForbidden)
}

// Receive handles POST /api/webhook. Events are decoded and logged; Meta
// only requires a 200 acknowledgement.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var event whatsapp.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if event.Object != whatsapp.BusinessAccountObject {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for i := range change.Value.Messages {
				logIncomingMessage(&change.Value.Messages[i])
			}
			for _, status := range change.Value.Statuses {
				slog.Info("message status update",
					"message_id", status.ID,
					"status", status.Status,
					"recipient", status.RecipientID,
				)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}

func logIncomingMessage(msg *whatsapp.Message) {
	attrs := []any{"from", msg.From, "message_id", msg.ID, "type", msg.Type}

	switch {
	case msg.Type == "text" && msg.Text != nil:
		attrs = append(attrs, "body", msg.Text.Body)
	case msg.Type == "location" && msg.Location != nil:
		attrs = append(attrs, "latitude", msg.Location.Latitude, "longitude", msg.Location.Longitude)
	case msg.Type == "interactive" && msg.Interactive != nil:
		if reply := msg.Interactive.ButtonReply; reply != nil {
			attrs = append(attrs, "reply_id", reply.ID, "reply_title", reply.Title)
		} else if reply := msg.Interactive.ListReply; reply != nil {
			attrs = append(attrs, "reply_id", reply.ID, "reply_title", reply.Title)
		}
	default:
		if media := msg.MediaPayload(); media != nil {
			attrs = append(attrs, "media_id", media.ID, "mime_type", media.MimeType)
		}
	}

	slog.Info("incoming message", attrs...)
}

type sendMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Send handles POST /api/webhook/send. Outbound delivery through the Cloud
// API is not wired up yet; the endpoint validates and acknowledges.
func (h *WebhookHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.To == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "Phone number and message are required")
		return
	}
	if req.Type == "" {
		req.Type = "text"
	}

	slog.Info("outbound message queued", "to", req.To, "type", req.Type)

	respondData(w, http.StatusOK, "Message sent successfully (not implemented yet)", map[string]string{
		"to":      req.To,
		"message": req.Message,
		"type":    req.Type,
	})
}
