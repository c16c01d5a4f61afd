package session

import "github.com/google/uuid"

// Step is the discrete position of a customer in the dialogue state machine.
type Step string

const (
	StepWelcome              Step = "welcome"
	StepMainMenu             Step = "main_menu"
	StepPensionInfo          Step = "pension_info"
	StepBalanceVerification  Step = "balance_verification"
	StepScheduleConsultation Step = "schedule_consultation"
	StepContributionHelp     Step = "contribution_help"
	StepAgentSelection       Step = "agent_selection"
	StepWithAgent            Step = "with_agent"
	StepComplaintForm        Step = "complaint_form"
	StepFeedbackForm         Step = "feedback_form"
)

// AllSteps enumerates every valid dialogue position.
var AllSteps = []Step{
	StepWelcome,
	StepMainMenu,
	StepPensionInfo,
	StepBalanceVerification,
	StepScheduleConsultation,
	StepContributionHelp,
	StepAgentSelection,
	StepWithAgent,
	StepComplaintForm,
	StepFeedbackForm,
}

// Valid reports whether the step belongs to the closed dialogue set.
func (s Step) Valid() bool {
	for _, known := range AllSteps {
		if s == known {
			return true
		}
	}
	return false
}

// InAgentFlow reports whether the step belongs to the agent-routing family.
// A session in this family must hold an active ticket reference.
func (s Step) InAgentFlow() bool {
	switch s {
	case StepAgentSelection, StepWithAgent, StepComplaintForm, StepFeedbackForm:
		return true
	}
	return false
}

// Interruptible reports whether the "menu" keyword may yank the session back
// to the main menu. Agent-flow steps are not interruptible: a ticket is in
// progress.
func (s Step) Interruptible() bool {
	return !s.InAgentFlow()
}

// ComplaintDraft accumulates the complaint form answers across its four
// prompts. Stage counts the prompt the customer is about to answer.
type ComplaintDraft struct {
	Stage    int    `json:"stage"`
	Type     string `json:"type,omitempty"`
	DateTime string `json:"date_time,omitempty"`
	Details  string `json:"details,omitempty"`
}

// Scratch holds partially-entered data for the topic the session is working
// through. Each multi-turn topic gets its own typed field; completing or
// abandoning the topic clears it. The complaint form is the only multi-turn
// topic in the current dialogue.
type Scratch struct {
	Complaint *ComplaintDraft `json:"complaint,omitempty"`
}

// Clear discards all accumulated topic data.
func (s *Scratch) Clear() {
	s.Complaint = nil
}

// Session is the per-customer conversational state.
type Session struct {
	CustomerID     string  `json:"customer_id"`
	SessionID      string  `json:"session_id"`
	Step           Step    `json:"step"`
	DisplayName    string  `json:"display_name"`
	Scratch        Scratch `json:"scratch"`
	ActiveTicketID string  `json:"active_ticket_id,omitempty"`
}

// New builds a fresh session positioned at the welcome step.
func New(customerID, displayName string) *Session {
	if displayName == "" {
		displayName = "there"
	}
	return &Session{
		CustomerID:  customerID,
		SessionID:   uuid.NewString(),
		Step:        StepWelcome,
		DisplayName: displayName,
	}
}

// CheckTicketLink verifies the invariant that an active ticket reference is
// held exactly while the session is inside the agent-routing family.
func (s *Session) CheckTicketLink() bool {
	return (s.ActiveTicketID != "") == s.Step.InAgentFlow()
}
