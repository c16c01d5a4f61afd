package bot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pensionworks/support-bot/pkg/logging"
)

// TurnEvent represents a structured event in the conversation lifecycle.
// All events share the same base fields for easy filtering/grep.
type TurnEvent struct {
	Time       string         `json:"time"`
	Event      string         `json:"event"`
	CustomerID string         `json:"customer_id"`
	SessionID  string         `json:"session_id"`
	TicketID   string         `json:"ticket_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// EventLogger emits structured JSON events at each decision point in the
// dialogue flow. Designed for fast grep/filter debugging:
//
//	grep '"event":"ticket_created"' /var/log/app.log
//	grep '"customer_id":"4477..."' /var/log/app.log
type EventLogger struct {
	logger *logging.Logger
}

// NewEventLogger creates a new turn event logger.
func NewEventLogger(logger *logging.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Log emits a structured turn event.
func (e *EventLogger) Log(_ context.Context, event, customerID, sessionID, ticketID string, data map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	evt := TurnEvent{
		Time:       time.Now().UTC().Format(time.RFC3339Nano),
		Event:      event,
		CustomerID: customerID,
		SessionID:  sessionID,
		TicketID:   ticketID,
		Data:       data,
	}
	b, _ := json.Marshal(evt)
	e.logger.Info(string(b))
}

// Convenience methods for common events:

func (e *EventLogger) TurnReceived(ctx context.Context, customerID, sessionID, step, message string) {
	msg := message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	e.Log(ctx, "turn_received", customerID, sessionID, "", map[string]any{
		"step":    step,
		"message": msg,
	})
}

func (e *EventLogger) MenuInterrupt(ctx context.Context, customerID, sessionID, fromStep string) {
	e.Log(ctx, "menu_interrupt", customerID, sessionID, "", map[string]any{
		"from_step": fromStep,
	})
}

func (e *EventLogger) StepChanged(ctx context.Context, customerID, sessionID, from, to string) {
	e.Log(ctx, "step_changed", customerID, sessionID, "", map[string]any{
		"from": from,
		"to":   to,
	})
}

func (e *EventLogger) SessionRecovered(ctx context.Context, customerID, sessionID, badStep string) {
	e.Log(ctx, "session_recovered", customerID, sessionID, "", map[string]any{
		"bad_step": badStep,
	})
}

func (e *EventLogger) AgentRequested(ctx context.Context, customerID, sessionID, ticketID string) {
	e.Log(ctx, "agent_requested", customerID, sessionID, ticketID, nil)
}

func (e *EventLogger) ReplySent(ctx context.Context, customerID, sessionID string, replyLen int, durationMs int64) {
	e.Log(ctx, "reply_sent", customerID, sessionID, "", map[string]any{
		"reply_len":   replyLen,
		"duration_ms": durationMs,
	})
}

func (e *EventLogger) ErrorOccurred(ctx context.Context, customerID, sessionID, stage string, err error) {
	e.Log(ctx, "error", customerID, sessionID, "", map[string]any{
		"stage": stage,
		"error": err.Error(),
	})
}
