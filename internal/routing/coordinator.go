package routing

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/pensionworks/support-bot/internal/agent"
	"github.com/pensionworks/support-bot/internal/dialogue"
	"github.com/pensionworks/support-bot/internal/observability/metrics"
	"github.com/pensionworks/support-bot/internal/session"
	"github.com/pensionworks/support-bot/internal/ticket"
	"github.com/pensionworks/support-bot/pkg/logging"
)

// Coordinator owns the agent-routing family of dialogue steps: department
// selection, the agent relay, the guided complaint form, and the closing
// feedback form. It is the only component that mutates tickets.
type Coordinator struct {
	registry  *ticket.Registry
	directory *agent.Directory
	estimator agent.WaitEstimator
	archiver  ticket.Archiver
	metrics   *metrics.BotMetrics
	logger    *logging.Logger

	// pickReply selects among the canned agent replies for a category.
	pickReply func(n int) int
}

// NewCoordinator wires the routing coordinator. A nil estimator gets the
// illustrative defaults, a nil archiver becomes a no-op, nil metrics are
// skipped.
func NewCoordinator(registry *ticket.Registry, directory *agent.Directory, estimator agent.WaitEstimator, archiver ticket.Archiver, m *metrics.BotMetrics, logger *logging.Logger) *Coordinator {
	if estimator == nil {
		estimator = agent.IllustrativeEstimator{}
	}
	if archiver == nil {
		archiver = ticket.NopArchiver{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Coordinator{
		registry:  registry,
		directory: directory,
		estimator: estimator,
		archiver:  archiver,
		metrics:   m,
		logger:    logger,
		pickReply: rand.IntN,
	}
}

// Owns reports whether the coordinator handles the given step.
func (c *Coordinator) Owns(step session.Step) bool {
	return step.InAgentFlow()
}

// HandleAgentRequest opens a ticket for the customer and moves the session
// into department selection.
func (c *Coordinator) HandleAgentRequest(ctx context.Context, s *session.Session, text string) string {
	t := c.registry.Create(s.CustomerID, s.DisplayName, text)
	s.ActiveTicketID = t.ID
	s.Step = session.StepAgentSelection
	c.metrics.ObserveTicket(string(t.Category), string(t.Status))
	return agentSelectionPrompt(t.ID)
}

// Handle advances one turn within the agent flow. Recoverable faults (a
// ticket reference the registry no longer knows) reset the session to the
// main menu rather than fail the turn.
func (c *Coordinator) Handle(ctx context.Context, s *session.Session, text string) string {
	switch s.Step {
	case session.StepAgentSelection:
		return c.handleSelection(ctx, s, text)
	case session.StepWithAgent:
		return c.handleRelay(ctx, s, text)
	case session.StepComplaintForm:
		return c.handleComplaintForm(ctx, s, text)
	case session.StepFeedbackForm:
		return c.handleFeedback(s, text)
	default:
		return c.recover(s)
	}
}

func (c *Coordinator) handleSelection(ctx context.Context, s *session.Session, text string) string {
	t, err := c.registry.Get(s.ActiveTicketID)
	if err != nil {
		return c.recover(s)
	}

	category := ticket.ClassifySelection(text)
	if t, err = c.registry.Classify(t.ID, category); err != nil {
		return c.recover(s)
	}

	// Complaints skip agent assignment entirely: they go through the
	// guided form and land with the complaints team.
	if category == ticket.CategoryComplaints {
		s.Step = session.StepComplaintForm
		return c.handleComplaintForm(ctx, s, "start")
	}

	if ag, ok := c.directory.Assign(category); ok {
		if t, err = c.registry.MarkAssigned(t.ID, ag.ID, ag.Name); err != nil {
			return c.recover(s)
		}
		s.Step = session.StepWithAgent
		c.metrics.ObserveTicket(string(t.Category), string(t.Status))
		return connectedText(t.Department, ag.Name, t.ID)
	}

	if t, err = c.registry.MarkQueued(t.ID); err != nil {
		return c.recover(s)
	}
	s.Step = session.StepWithAgent
	c.metrics.ObserveTicket(string(t.Category), string(t.Status))
	position := c.estimator.QueuePosition(category)
	wait := c.estimator.EstimatedWait(category)
	return queuedText(t.Department, t.ID, t.Priority, position, wait)
}

func (c *Coordinator) handleRelay(ctx context.Context, s *session.Session, text string) string {
	t, err := c.registry.Get(s.ActiveTicketID)
	if err != nil {
		return c.recover(s)
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "end":
		return c.endSession(ctx, s, t)
	case "summary":
		summary, err := c.registry.Summary(t.ID)
		if err != nil {
			return c.recover(s)
		}
		return summary
	}

	if err := c.registry.AppendMessage(t.ID, ticket.SenderCustomer, "", text); err != nil {
		return c.recover(s)
	}

	// Queued tickets have no agent to answer yet; acknowledge and restate
	// the queue estimate.
	if t.Status == ticket.StatusQueued {
		position := c.estimator.QueuePosition(t.Category)
		wait := c.estimator.EstimatedWait(t.Category)
		return queuedAckText(position, wait)
	}

	reply := c.agentReply(t.Category)
	if err := c.registry.AppendMessage(t.ID, ticket.SenderAgent, t.AssignedAgentID, reply); err != nil {
		return c.recover(s)
	}
	return agentRelayText(t.AgentName, reply)
}

func (c *Coordinator) endSession(ctx context.Context, s *session.Session, t *ticket.Ticket) string {
	closed, err := c.registry.Close(t.ID)
	if err != nil {
		return c.recover(s)
	}
	if err := c.archiver.ArchiveTicket(ctx, closed); err != nil {
		c.logger.Error("ticket archive failed", "error", err, "ticket_id", closed.ID)
	}
	c.metrics.ObserveTicket(string(closed.Category), string(closed.Status))

	s.Step = session.StepFeedbackForm
	agentName := closed.AgentName
	if agentName == "" {
		agentName = "Unassigned"
	}
	return sessionEndedText(closed.ID, agentName, formatDuration(closed.CreatedAt, closed.ClosedAt))
}

func (c *Coordinator) handleComplaintForm(ctx context.Context, s *session.Session, text string) string {
	if s.Scratch.Complaint == nil {
		s.Scratch.Complaint = &session.ComplaintDraft{Stage: 1}
	}
	draft := s.Scratch.Complaint

	switch draft.Stage {
	case 1:
		draft.Stage = 2
		return complaintStep1Text
	case 2:
		draft.Type = text
		draft.Stage = 3
		return complaintStep2Text
	case 3:
		draft.DateTime = text
		draft.Stage = 4
		return complaintStep3Text
	case 4:
		draft.Details = text
		draft.Stage = 5
		complaint := c.registry.FileComplaint(s.CustomerID, draft.Type, draft.DateTime, draft.Details)
		if err := c.archiver.ArchiveComplaint(ctx, complaint); err != nil {
			c.logger.Error("complaint archive failed", "error", err, "complaint_id", complaint.ID)
		}
		c.metrics.ObserveComplaint()
		// The routing ticket is superseded by the complaint record.
		if closed, err := c.registry.Close(s.ActiveTicketID); err == nil {
			if err := c.archiver.ArchiveTicket(ctx, closed); err != nil {
				c.logger.Error("ticket archive failed", "error", err, "ticket_id", closed.ID)
			}
		}
		return complaintConfirmationText(complaint.ID)
	default:
		s.Step = session.StepMainMenu
		s.ActiveTicketID = ""
		s.Scratch.Clear()
		return complaintDoneText
	}
}

func (c *Coordinator) handleFeedback(s *session.Session, text string) string {
	ticketID := s.ActiveTicketID
	s.Step = session.StepMainMenu
	s.ActiveTicketID = ""
	s.Scratch.Clear()

	if rating, ok := parseRating(text); ok {
		if err := c.registry.SetSatisfaction(ticketID, rating); err != nil {
			c.logger.Warn("satisfaction not recorded", "error", err, "ticket_id", ticketID)
		}
	}
	return feedbackThanksText
}

// recover resets a desynchronized session back to the main menu. The stale
// ticket reference is dropped, never recreated.
func (c *Coordinator) recover(s *session.Session) string {
	c.logger.Warn("session desync, resetting to main menu",
		"customer_id", s.CustomerID, "step", string(s.Step), "ticket_id", s.ActiveTicketID)
	s.Step = session.StepMainMenu
	s.ActiveTicketID = ""
	s.Scratch.Clear()
	return "⚠️ Sorry, I lost track of that conversation. Let's start again.\n\n" + dialogue.MenuText()
}

func (c *Coordinator) agentReply(category ticket.Category) string {
	pool, ok := cannedAgentReplies[category]
	if !ok {
		pool = cannedAgentReplies[ticket.CategoryAccountIssues]
	}
	return pool[c.pickReply(len(pool))]
}

func parseRating(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}
