package agent

import (
	"github.com/pensionworks/support-bot/internal/ticket"
)

// Agent is a static directory entry. Agents carry no availability state in
// this design; selection draws from the whole category pool.
type Agent struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Speciality string          `json:"speciality"`
	Category   ticket.Category `json:"category"`
}

// Directory groups agents by department category and owns the assignment
// policy.
type Directory struct {
	agents []Agent
	pools  map[ticket.Category][]Agent
	policy SelectionPolicy
}

// NewDirectory builds a directory over the given agents, grouped by category.
func NewDirectory(agents []Agent, policy SelectionPolicy) *Directory {
	if policy == nil {
		policy = RandomPolicy{}
	}
	pools := make(map[ticket.Category][]Agent)
	for _, a := range agents {
		pools[a.Category] = append(pools[a.Category], a)
	}
	return &Directory{agents: append([]Agent(nil), agents...), pools: pools, policy: policy}
}

// NewDefaultDirectory builds the standard support roster.
func NewDefaultDirectory(policy SelectionPolicy) *Directory {
	return NewDirectory(defaultRoster, policy)
}

// defaultRoster is the fixed support staff catalog.
var defaultRoster = []Agent{
	{ID: "AG001", Name: "Sarah Mitchell", Speciality: "Account Services", Category: ticket.CategoryAccountIssues},
	{ID: "AG002", Name: "David Chen", Speciality: "Payment Issues", Category: ticket.CategoryAccountIssues},
	{ID: "AG003", Name: "Emma Johnson", Speciality: "Customer Relations", Category: ticket.CategoryComplaints},
	{ID: "AG004", Name: "Michael Brown", Speciality: "Complaint Resolution", Category: ticket.CategoryComplaints},
	{ID: "AG005", Name: "Alex Kumar", Speciality: "Technical Support", Category: ticket.CategoryTechnical},
	{ID: "AG006", Name: "Lisa Wang", Speciality: "System Issues", Category: ticket.CategoryTechnical},
	{ID: "AG007", Name: "Robert Taylor", Speciality: "Pension Advisor", Category: ticket.CategoryPensionPlanning},
	{ID: "AG008", Name: "Jennifer Davis", Speciality: "Retirement Planning", Category: ticket.CategoryPensionPlanning},
	{ID: "AG009", Name: "Mark Wilson", Speciality: "Contributions Specialist", Category: ticket.CategoryContributions},
	{ID: "AG010", Name: "Anna Garcia", Speciality: "Payment Processing", Category: ticket.CategoryContributions},
	{ID: "AG011", Name: "Tom Anderson", Speciality: "General Support", Category: ticket.CategoryGeneral},
}

// Assign selects an agent for the category via the directory's policy. The
// general pool backs any category without dedicated agents. ok is false only
// when no pool at all can serve the category (directory misconfiguration);
// the caller then queues the ticket.
func (d *Directory) Assign(category ticket.Category) (Agent, bool) {
	pool := d.pools[category]
	if len(pool) == 0 {
		pool = d.pools[ticket.CategoryGeneral]
	}
	if len(pool) == 0 {
		return Agent{}, false
	}
	return pool[d.policy.Pick(len(pool))], true
}

// Pool returns the agents registered for a category, for reporting.
func (d *Directory) Pool(category ticket.Category) []Agent {
	return append([]Agent(nil), d.pools[category]...)
}

// All returns every agent in the directory, in registration order.
func (d *Directory) All() []Agent {
	return append([]Agent(nil), d.agents...)
}
