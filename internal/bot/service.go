package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pensionworks/support-bot/internal/dialogue"
	"github.com/pensionworks/support-bot/internal/interaction"
	"github.com/pensionworks/support-bot/internal/observability/metrics"
	"github.com/pensionworks/support-bot/internal/routing"
	"github.com/pensionworks/support-bot/internal/session"
	"github.com/pensionworks/support-bot/pkg/logging"
)

// ErrTurnInFlight signals that another turn for the same customer is still
// being processed. Callers treat it as transient and retry after the
// current turn completes.
var ErrTurnInFlight = errors.New("bot: turn already in flight for customer")

// TurnRequest is one inbound customer message.
type TurnRequest struct {
	CustomerID  string `json:"customer_id"`
	DisplayName string `json:"display_name,omitempty"`
	Text        string `json:"text"`
}

// TurnResponse is the reply produced for a turn, along with the session
// position after the transition.
type TurnResponse struct {
	Reply    string       `json:"reply"`
	Step     session.Step `json:"step"`
	TicketID string       `json:"ticket_id,omitempty"`
}

// Service processes customer turns. Recoverable dialogue faults degrade to
// a recovery reply; an error return means the turn could not run at all
// (bad input, store failure, or a concurrent turn for the same customer).
type Service interface {
	HandleTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error)
}

type service struct {
	sessions     session.Store
	engine       *dialogue.Engine
	coordinator  *routing.Coordinator
	interactions *interaction.Log
	events       *EventLogger
	metrics      *metrics.BotMetrics
	logger       *logging.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New wires the bot service. Events and metrics may be nil.
func New(sessions session.Store, engine *dialogue.Engine, coordinator *routing.Coordinator, interactions *interaction.Log, events *EventLogger, m *metrics.BotMetrics, logger *logging.Logger) Service {
	if logger == nil {
		logger = logging.Default()
	}
	if interactions == nil {
		interactions = interaction.NewLog(0)
	}
	return &service{
		sessions:     sessions,
		engine:       engine,
		coordinator:  coordinator,
		interactions: interactions,
		events:       events,
		metrics:      m,
		logger:       logger,
		inFlight:     make(map[string]struct{}),
	}
}

// HandleTurn runs one customer message through the state machine and
// returns the reply. Turns for the same customer are serialized: the
// read-transition-save section runs under a per-customer guard.
func (s *service) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	if req.CustomerID == "" {
		return nil, errors.New("bot: customer id is required")
	}

	if !s.begin(req.CustomerID) {
		return nil, ErrTurnInFlight
	}
	defer s.end(req.CustomerID)

	start := time.Now()

	sess, err := s.sessions.GetOrCreate(ctx, req.CustomerID, req.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("bot: load session: %w", err)
	}

	stepBefore := sess.Step
	s.events.TurnReceived(ctx, sess.CustomerID, sess.SessionID, string(stepBefore), req.Text)

	reply := s.transition(ctx, sess, req.Text)
	reply = dialogue.EnsureMenuHint(reply)

	if err := s.sessions.Save(ctx, sess); err != nil {
		s.events.ErrorOccurred(ctx, sess.CustomerID, sess.SessionID, "save_session", err)
		return nil, fmt.Errorf("bot: save session: %w", err)
	}

	elapsed := time.Since(start)
	if stepBefore != sess.Step {
		s.events.StepChanged(ctx, sess.CustomerID, sess.SessionID, string(stepBefore), string(sess.Step))
	}
	s.events.ReplySent(ctx, sess.CustomerID, sess.SessionID, len(reply), elapsed.Milliseconds())
	s.metrics.ObserveTurn(string(sess.Step), "ok")

	s.interactions.Append(interaction.Record{
		Timestamp:      start,
		CustomerID:     sess.CustomerID,
		InboundText:    req.Text,
		OutboundText:   reply,
		Step:           string(sess.Step),
		DetectedType:   interaction.DetectType(req.Text),
		ResponseTimeMS: elapsed.Milliseconds(),
		SessionID:      sess.SessionID,
	})

	return &TurnResponse{
		Reply:    reply,
		Step:     sess.Step,
		TicketID: sess.ActiveTicketID,
	}, nil
}

// transition applies the global menu interrupt, then dispatches to the
// dialogue engine or the routing coordinator by step ownership.
func (s *service) transition(ctx context.Context, sess *session.Session, text string) string {
	if dialogue.IsMenuInterrupt(text) && sess.Step.Interruptible() && sess.Step != session.StepWelcome {
		s.events.MenuInterrupt(ctx, sess.CustomerID, sess.SessionID, string(sess.Step))
		sess.Step = session.StepMainMenu
		sess.Scratch.Clear()
		return dialogue.MenuText()
	}

	if s.coordinator.Owns(sess.Step) {
		return s.coordinator.Handle(ctx, sess, text)
	}

	stepBefore := sess.Step
	res := s.engine.Handle(sess, text)
	if res.Recovered {
		s.events.SessionRecovered(ctx, sess.CustomerID, sess.SessionID, string(stepBefore))
	}
	if res.RequestAgent {
		reply := s.coordinator.HandleAgentRequest(ctx, sess, text)
		s.events.AgentRequested(ctx, sess.CustomerID, sess.SessionID, sess.ActiveTicketID)
		return reply
	}
	return res.Reply
}

func (s *service) begin(customerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[customerID]; busy {
		return false
	}
	s.inFlight[customerID] = struct{}{}
	return true
}

func (s *service) end(customerID string) {
	s.mu.Lock()
	delete(s.inFlight, customerID)
	s.mu.Unlock()
}
