package ticket

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pensionworks/support-bot/pkg/logging"
)

// ErrTicketNotFound indicates the requested ticket ID does not exist.
var ErrTicketNotFound = errors.New("ticket: ticket not found")

// ErrBackwardTransition indicates an attempt to move a ticket to an earlier
// lifecycle status.
var ErrBackwardTransition = errors.New("ticket: backward status transition")

// Registry exclusively owns Ticket and Complaint records and their lifecycle
// transitions. Sessions hold only ID references into it.
type Registry struct {
	mu         sync.RWMutex
	tickets    map[string]*Ticket
	byCustomer map[string][]string
	complaints []*Complaint
	logger     *logging.Logger
	now        func() time.Time
}

// NewRegistry creates an empty ticket registry.
func NewRegistry(logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{
		tickets:    make(map[string]*Ticket),
		byCustomer: make(map[string][]string),
		logger:     logger,
		now:        time.Now,
	}
}

// Create opens a new ticket for a customer. The ticket starts unclassified:
// status new, category general, priority normal.
func (r *Registry) Create(customerID, customerName, initialText string) *Ticket {
	t := &Ticket{
		ID:             NewTicketID(),
		CustomerID:     customerID,
		CustomerName:   customerName,
		Status:         StatusNew,
		Category:       CategoryGeneral,
		Priority:       PriorityNormal,
		InitialMessage: initialText,
		CreatedAt:      r.now(),
	}
	_, t.Department = t.Category.Info()

	r.mu.Lock()
	r.tickets[t.ID] = t
	r.byCustomer[customerID] = append(r.byCustomer[customerID], t.ID)
	r.mu.Unlock()

	r.logger.Info("ticket created", "ticket_id", t.ID, "customer_id", customerID)
	return copyTicket(t)
}

// Get returns a snapshot of the ticket, or ErrTicketNotFound.
func (r *Registry) Get(ticketID string) (*Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	return copyTicket(t), nil
}

// Classify fixes the ticket's category, priority and department label. The
// category is assigned once; re-classifying an already-routed ticket is
// rejected as a backward transition.
func (r *Registry) Classify(ticketID string, category Category) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	if t.Status != StatusNew {
		return nil, fmt.Errorf("%w: classify on %s ticket", ErrBackwardTransition, t.Status)
	}

	t.Category = category
	t.Priority, t.Department = category.Info()
	return copyTicket(t), nil
}

// MarkAssigned records the selected agent and advances the ticket to assigned.
func (r *Registry) MarkAssigned(ticketID, agentID, agentName string) (*Ticket, error) {
	return r.advance(ticketID, StatusAssigned, func(t *Ticket) {
		t.AssignedAgentID = agentID
		t.AgentName = agentName
	})
}

// MarkQueued advances the ticket to queued when no agent pool exists for its
// category.
func (r *Registry) MarkQueued(ticketID string) (*Ticket, error) {
	return r.advance(ticketID, StatusQueued, nil)
}

// AppendMessage appends to the ticket's agent-relay transcript.
func (r *Registry) AppendMessage(ticketID string, sender Sender, agentID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[ticketID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	t.Messages = append(t.Messages, Message{
		Sender:    sender,
		AgentID:   agentID,
		Text:      text,
		Timestamp: r.now(),
	})
	return nil
}

// Close resolves the ticket and stamps ClosedAt exactly once. Closing an
// already-resolved ticket is a no-op returning the current state.
func (r *Registry) Close(ticketID string) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	if t.Status == StatusResolved {
		return copyTicket(t), nil
	}
	t.Status = StatusResolved
	t.ClosedAt = r.now()

	r.logger.Info("ticket resolved", "ticket_id", t.ID, "customer_id", t.CustomerID)
	return copyTicket(t), nil
}

// SetSatisfaction records the customer's 1-5 rating collected on the
// feedback form.
func (r *Registry) SetSatisfaction(ticketID string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("ticket: satisfaction rating %d out of range", rating)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[ticketID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	t.Satisfaction = rating
	return nil
}

// Summary renders the ticket overview shown to the customer.
func (r *Registry) Summary(ticketID string) (string, error) {
	t, err := r.Get(ticketID)
	if err != nil {
		return "", err
	}

	agentName := t.AgentName
	if agentName == "" {
		agentName = "Unassigned"
	}
	latest := ""
	if len(t.Messages) > 0 {
		latest = truncate(t.Messages[len(t.Messages)-1].Text, 100)
	}

	return fmt.Sprintf(`📋 *Ticket Summary*

🎫 **ID:** %s
👤 **Agent:** %s
📅 **Created:** %s
📊 **Status:** %s
🏷️ **Category:** %s
💬 **Messages:** %d

**Latest Update:** %s

Type anything to continue conversation or "end" to close.`,
		t.ID,
		agentName,
		t.CreatedAt.Format("02/01/2006 15:04"),
		strings.ToUpper(string(t.Status)),
		t.Category.Label(),
		len(t.Messages),
		latest,
	), nil
}

// FileComplaint assembles and stores a Complaint record from the completed
// form data.
func (r *Registry) FileComplaint(customerID, cType, dateTime, details string) *Complaint {
	now := r.now()
	c := &Complaint{
		ID:           NewComplaintID(),
		CustomerID:   customerID,
		Type:         cType,
		DateTime:     dateTime,
		Details:      details,
		Severity:     "medium",
		Status:       "open",
		AssignedTo:   "complaints_team",
		CreatedAt:    now,
		FollowUpDate: now.Add(48 * time.Hour),
	}

	r.mu.Lock()
	r.complaints = append(r.complaints, c)
	r.mu.Unlock()

	r.logger.Info("complaint filed", "complaint_id", c.ID, "customer_id", customerID)
	out := *c
	return &out
}

// All returns snapshots of every ticket, for reporting.
func (r *Registry) All() []*Ticket {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, copyTicket(t))
	}
	return out
}

// Complaints returns snapshots of every filed complaint, for reporting.
func (r *Registry) Complaints() []*Complaint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Complaint, 0, len(r.complaints))
	for _, c := range r.complaints {
		cc := *c
		out = append(out, &cc)
	}
	return out
}

// Count returns the number of tickets held by the registry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets)
}

func (r *Registry) advance(ticketID string, to Status, apply func(*Ticket)) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	if statusRank[to] < statusRank[t.Status] || (statusRank[to] == statusRank[t.Status] && to != t.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBackwardTransition, t.Status, to)
	}
	t.Status = to
	if apply != nil {
		apply(t)
	}
	return copyTicket(t), nil
}

func copyTicket(t *Ticket) *Ticket {
	out := *t
	out.Messages = append([]Message(nil), t.Messages...)
	return &out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
