package whatsapp

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pensionworks/support-bot/internal/bot"
	"github.com/pensionworks/support-bot/internal/observability/metrics"
	"github.com/pensionworks/support-bot/internal/queue"
	"github.com/pensionworks/support-bot/pkg/logging"
)

// webhookPayload mirrors the Meta webhook envelope for inbound messages.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string      `json:"field"`
			Value changeValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type changeValue struct {
	Contacts []struct {
		WaID    string `json:"wa_id"`
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	} `json:"contacts"`
	Messages []struct {
		From string `json:"from"`
		Type string `json:"type"`
		Text struct {
			Body string `json:"body"`
		} `json:"text"`
	} `json:"messages"`
}

// WebhookHandler terminates the Meta webhook: GET verification and POST
// inbound decode. Decoded turns are published to the queue; the worker
// replies asynchronously.
type WebhookHandler struct {
	verifyToken string
	turns       queue.Client
	metrics     *metrics.BotMetrics
	logger      *logging.Logger
}

// NewWebhookHandler builds the webhook endpoint pair.
func NewWebhookHandler(verifyToken string, turns queue.Client, m *metrics.BotMetrics, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		turns:       turns,
		metrics:     m,
		logger:      logger,
	}
}

// Verify answers Meta's subscription handshake by echoing hub.challenge.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// Receive decodes inbound messages and queues one turn job per message.
// Always returns 200 for recognized payloads so Meta does not re-deliver.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveWebhookLatency("message", time.Since(start).Seconds())
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read failed", http.StatusBadRequest)
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn("webhook decode failed", "error", err)
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if payload.Object != "whatsapp_business_account" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			h.publishTurns(r, change.Value)
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *WebhookHandler) publishTurns(r *http.Request, value changeValue) {
	names := make(map[string]string, len(value.Contacts))
	for _, contact := range value.Contacts {
		names[contact.WaID] = contact.Profile.Name
	}

	for _, msg := range value.Messages {
		text := strings.TrimSpace(msg.Text.Body)
		if msg.Type != "" && msg.Type != "text" {
			h.logger.Info("skipping non-text message", "from", msg.From, "type", msg.Type)
			continue
		}
		if text == "" {
			continue
		}

		req := bot.TurnRequest{
			CustomerID:  msg.From,
			DisplayName: names[msg.From],
			Text:        text,
		}
		job, body, err := bot.EncodeTurnJob(req, time.Now())
		if err != nil {
			h.logger.Error("turn job encode failed", "error", err, "from", msg.From)
			continue
		}
		if err := h.turns.Send(r.Context(), body); err != nil {
			h.logger.Error("turn job publish failed", "error", err, "from", msg.From, "job_id", job.ID)
			continue
		}
		h.logger.Info("turn queued", "from", msg.From, "job_id", job.ID)
	}
}
