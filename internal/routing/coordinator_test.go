package routing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pensionworks/support-bot/internal/agent"
	"github.com/pensionworks/support-bot/internal/session"
	"github.com/pensionworks/support-bot/internal/ticket"
	"github.com/pensionworks/support-bot/pkg/logging"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *ticket.Registry) {
	t.Helper()
	registry := ticket.NewRegistry(logging.Default())
	directory := agent.NewDefaultDirectory(agent.FixedPolicy{Index: 0})
	estimator := agent.FixedEstimator{Position: 3, Wait: "2-5 minutes"}
	c := NewCoordinator(registry, directory, estimator, nil, nil, logging.Default())
	c.pickReply = func(int) int { return 0 }
	return c, registry
}

func startAgentFlow(t *testing.T, c *Coordinator) *session.Session {
	t.Helper()
	s := session.New("4477001122", "Amara")
	s.Step = session.StepMainMenu
	reply := c.HandleAgentRequest(context.Background(), s, "I need help")
	require.Contains(t, reply, "Connect with an Agent")
	return s
}

func TestHandleAgentRequestOpensTicket(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)

	require.Equal(t, session.StepAgentSelection, s.Step)
	require.NotEmpty(t, s.ActiveTicketID)
	require.True(t, s.CheckTicketLink())

	tk, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Equal(t, ticket.StatusNew, tk.Status)
	require.Equal(t, ticket.CategoryGeneral, tk.Category)
	require.Equal(t, "I need help", tk.InitialMessage)
}

func TestSelectionAssignsAgent(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)

	reply := c.Handle(context.Background(), s, "3")

	require.Equal(t, session.StepWithAgent, s.Step)
	require.Contains(t, reply, "Connected to Technical Support Team")
	require.Contains(t, reply, "Alex Kumar")

	tk, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Equal(t, ticket.StatusAssigned, tk.Status)
	require.Equal(t, "AG005", tk.AssignedAgentID)
	require.Equal(t, ticket.PriorityNormal, tk.Priority)
}

func TestSelectionComplaintDivertsToForm(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)

	reply := c.Handle(context.Background(), s, "2")

	require.Equal(t, session.StepComplaintForm, s.Step)
	require.Contains(t, reply, "Complaint Registration")
	require.NotNil(t, s.Scratch.Complaint)
	require.Equal(t, 2, s.Scratch.Complaint.Stage)

	tk, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Equal(t, ticket.StatusNew, tk.Status, "no assignment for complaints")
	require.Equal(t, ticket.CategoryComplaints, tk.Category)
	require.Equal(t, ticket.PriorityHigh, tk.Priority)
}

func TestSelectionQueuesWhenPoolEmpty(t *testing.T) {
	registry := ticket.NewRegistry(logging.Default())
	directory := agent.NewDirectory(nil, agent.FixedPolicy{})
	c := NewCoordinator(registry, directory, agent.FixedEstimator{Position: 2, Wait: "10-15 minutes"}, nil, nil, logging.Default())
	s := startAgentFlow(t, c)

	reply := c.Handle(context.Background(), s, "3")

	require.Equal(t, session.StepWithAgent, s.Step)
	require.Contains(t, reply, "Queued for Technical Support Team")
	require.Contains(t, reply, "Queue Position:** 2")
	require.Contains(t, reply, "10-15 minutes")

	tk, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Equal(t, ticket.StatusQueued, tk.Status)

	// Messages while queued append to the ticket without a fake agent reply.
	ack := c.Handle(context.Background(), s, "some more details")
	require.Contains(t, ack, "added that to your ticket")
	tk, err = registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Len(t, tk.Messages, 1)
	require.Equal(t, ticket.SenderCustomer, tk.Messages[0].Sender)
}

func TestRelayAppendsBothSides(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)
	c.Handle(context.Background(), s, "1")

	reply := c.Handle(context.Background(), s, "I cannot log in to my account")

	require.Contains(t, reply, "Sarah Mitchell:")
	tk, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Len(t, tk.Messages, 2)
	require.Equal(t, ticket.SenderCustomer, tk.Messages[0].Sender)
	require.Equal(t, ticket.SenderAgent, tk.Messages[1].Sender)
	require.Equal(t, "AG001", tk.Messages[1].AgentID)
}

func TestRelaySummaryDoesNotMutate(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)
	c.Handle(context.Background(), s, "1")
	c.Handle(context.Background(), s, "first message")

	before, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)

	reply := c.Handle(context.Background(), s, "summary")

	require.Contains(t, reply, "Ticket Summary")
	require.Contains(t, reply, before.ID)
	require.Equal(t, session.StepWithAgent, s.Step)

	after, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Len(t, after.Messages, len(before.Messages))
	require.Equal(t, before.Status, after.Status)
}

func TestEndResolvesAndAsksForFeedback(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)
	c.Handle(context.Background(), s, "1")

	reply := c.Handle(context.Background(), s, "end")

	require.Equal(t, session.StepFeedbackForm, s.Step)
	require.Contains(t, reply, "Session Ended")
	require.Contains(t, reply, "Quick Feedback")

	tk, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Equal(t, ticket.StatusResolved, tk.Status)
	require.False(t, tk.ClosedAt.IsZero())
	require.True(t, s.CheckTicketLink(), "ticket stays linked through feedback")
}

func TestFeedbackRecordsRatingAndReturnsToMenu(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)
	c.Handle(context.Background(), s, "1")
	c.Handle(context.Background(), s, "end")
	ticketID := s.ActiveTicketID

	reply := c.Handle(context.Background(), s, "4")

	require.Contains(t, reply, "Thank you for your feedback")
	require.Equal(t, session.StepMainMenu, s.Step)
	require.Empty(t, s.ActiveTicketID)
	require.True(t, s.CheckTicketLink())

	tk, err := registry.Get(ticketID)
	require.NoError(t, err)
	require.Equal(t, 4, tk.Satisfaction)
}

func TestFeedbackSkipLeavesNoRating(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)
	c.Handle(context.Background(), s, "1")
	c.Handle(context.Background(), s, "end")
	ticketID := s.ActiveTicketID

	c.Handle(context.Background(), s, "skip")

	require.Equal(t, session.StepMainMenu, s.Step)
	tk, err := registry.Get(ticketID)
	require.NoError(t, err)
	require.Zero(t, tk.Satisfaction)
}

func TestComplaintFormFullWalk(t *testing.T) {
	c, registry := newTestCoordinator(t)
	s := startAgentFlow(t, c)

	c.Handle(context.Background(), s, "2")
	step2 := c.Handle(context.Background(), s, "1") // service quality
	require.Contains(t, step2, "Step 2 of 4")

	step3 := c.Handle(context.Background(), s, "15/07/2025, around 2 PM")
	require.Contains(t, step3, "Step 3 of 4")

	confirmation := c.Handle(context.Background(), s, "Payment delayed three times, want a refund")
	require.Contains(t, confirmation, "Complaint Registered Successfully")
	require.Contains(t, confirmation, "Step 4 of 4")

	complaints := registry.Complaints()
	require.Len(t, complaints, 1)
	cp := complaints[0]
	require.True(t, strings.HasPrefix(cp.ID, "CP"))
	require.Equal(t, "1", cp.Type)
	require.Equal(t, "15/07/2025, around 2 PM", cp.DateTime)
	require.Equal(t, "Payment delayed three times, want a refund", cp.Details)

	// The routing ticket is closed once the complaint record exists.
	tk, err := registry.Get(s.ActiveTicketID)
	require.NoError(t, err)
	require.Equal(t, ticket.StatusResolved, tk.Status)

	// The message after the confirmation lands back at the main menu.
	done := c.Handle(context.Background(), s, "1")
	require.Contains(t, done, "Thank you for your complaint")
	require.Equal(t, session.StepMainMenu, s.Step)
	require.Empty(t, s.ActiveTicketID)
	require.Nil(t, s.Scratch.Complaint)
}

func TestDesyncRecoversToMainMenu(t *testing.T) {
	c, _ := newTestCoordinator(t)
	s := session.New("c", "n")
	s.Step = session.StepWithAgent
	s.ActiveTicketID = "TK000000XXX"

	reply := c.Handle(context.Background(), s, "hello?")

	require.Equal(t, session.StepMainMenu, s.Step)
	require.Empty(t, s.ActiveTicketID)
	require.True(t, s.CheckTicketLink())
	require.Contains(t, reply, "Please choose")
}

func TestOwnsAgentFamilyOnly(t *testing.T) {
	c, _ := newTestCoordinator(t)
	for _, step := range session.AllSteps {
		require.Equal(t, step.InAgentFlow(), c.Owns(step), "step %s", step)
	}
}
