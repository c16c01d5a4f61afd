package ticket

import (
	"strings"
	"time"
)

// Status represents the lifecycle position of a ticket. Transitions are
// strictly forward: new -> assigned|queued -> resolved.
type Status string

const (
	StatusNew      Status = "new"
	StatusAssigned Status = "assigned"
	StatusQueued   Status = "queued"
	StatusResolved Status = "resolved"
)

// statusRank orders statuses so backward transitions can be rejected.
var statusRank = map[Status]int{
	StatusNew:      0,
	StatusAssigned: 1,
	StatusQueued:   1,
	StatusResolved: 2,
}

// Category is the department bucket a ticket is routed to.
type Category string

const (
	CategoryAccountIssues   Category = "account_issues"
	CategoryComplaints      Category = "complaints"
	CategoryTechnical       Category = "technical"
	CategoryPensionPlanning Category = "pension_planning"
	CategoryContributions   Category = "contributions"
	CategoryGeneral         Category = "general"
)

// Priority is derived from the category at classification time.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// categoryInfo fixes the priority and display department label per category.
type categoryInfo struct {
	Priority   Priority
	Department string
}

var categories = map[Category]categoryInfo{
	CategoryAccountIssues:   {PriorityHigh, "Account Services Team"},
	CategoryComplaints:      {PriorityHigh, "Customer Relations Team"},
	CategoryTechnical:       {PriorityNormal, "Technical Support Team"},
	CategoryPensionPlanning: {PriorityNormal, "Pension Advisory Team"},
	CategoryContributions:   {PriorityNormal, "Contributions Team"},
	CategoryGeneral:         {PriorityNormal, "General Support Team"},
}

// Info returns the fixed priority and department label for a category.
func (c Category) Info() (Priority, string) {
	info, ok := categories[c]
	if !ok {
		info = categories[CategoryGeneral]
	}
	return info.Priority, info.Department
}

// Label renders the category for customer-facing text, e.g. "ACCOUNT ISSUES".
func (c Category) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(c), "_", " "))
}

// ClassifySelection maps the customer's department selection (a number or a
// keyword) onto a category. Unrecognized input lands in general.
func ClassifySelection(text string) Category {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "1", "account"):
		return CategoryAccountIssues
	case containsAny(t, "2", "complaint"):
		return CategoryComplaints
	case containsAny(t, "3", "technical"):
		return CategoryTechnical
	case containsAny(t, "4", "planning"):
		return CategoryPensionPlanning
	case containsAny(t, "5", "contribution"):
		return CategoryContributions
	default:
		return CategoryGeneral
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Sender identifies who wrote a ticket message.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAgent    Sender = "agent"
)

// Message is one entry in a ticket's agent-relay transcript.
type Message struct {
	Sender    Sender    `json:"sender"`
	AgentID   string    `json:"agent_id,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Ticket records a customer's request for human assistance, tracked from
// creation through assignment to resolution.
type Ticket struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	Status          Status    `json:"status"`
	Category        Category  `json:"category"`
	Priority        Priority  `json:"priority"`
	Department      string    `json:"department"`
	AssignedAgentID string    `json:"assigned_agent_id,omitempty"`
	AgentName       string    `json:"agent_name,omitempty"`
	InitialMessage  string    `json:"initial_message"`
	Messages        []Message `json:"messages"`
	Satisfaction    int       `json:"satisfaction,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ClosedAt        time.Time `json:"closed_at,omitempty"`
}

// Complaint is a specially-tracked sub-case captured through the 4-step
// guided form. Its IDs live in a separate CP identity space.
type Complaint struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	Type         string    `json:"type"`
	DateTime     string    `json:"date_time"`
	Details      string    `json:"details"`
	Severity     string    `json:"severity"`
	Status       string    `json:"status"`
	AssignedTo   string    `json:"assigned_to"`
	CreatedAt    time.Time `json:"created_at"`
	FollowUpDate time.Time `json:"follow_up_date"`
}
