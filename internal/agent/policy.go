package agent

import (
	"math/rand/v2"

	"github.com/pensionworks/support-bot/internal/ticket"
)

// SelectionPolicy picks an index into a category pool. The production policy
// is a uniform random draw with no capacity or busy tracking: the same agent
// may carry multiple concurrent tickets. Tests inject a deterministic policy.
type SelectionPolicy interface {
	Pick(poolSize int) int
}

// RandomPolicy draws uniformly among all agents in the pool.
type RandomPolicy struct{}

func (RandomPolicy) Pick(poolSize int) int {
	return rand.IntN(poolSize)
}

// FixedPolicy always picks the same index, clamped to the pool. Deterministic
// selection for tests.
type FixedPolicy struct {
	Index int
}

func (p FixedPolicy) Pick(poolSize int) int {
	if p.Index >= poolSize {
		return poolSize - 1
	}
	return p.Index
}

// WaitEstimator produces the queue position and estimated wait shown when a
// ticket is queued. The figures are illustrative placeholders, not live
// queue metrics or an SLA.
type WaitEstimator interface {
	QueuePosition(category ticket.Category) int
	EstimatedWait(category ticket.Category) string
}

// waitTimes is the static per-category wait table.
var waitTimes = map[ticket.Category]string{
	ticket.CategoryAccountIssues:   "5-10 minutes",
	ticket.CategoryComplaints:      "2-5 minutes",
	ticket.CategoryTechnical:       "10-15 minutes",
	ticket.CategoryPensionPlanning: "15-20 minutes",
	ticket.CategoryContributions:   "5-10 minutes",
	ticket.CategoryGeneral:         "3-8 minutes",
}

// IllustrativeEstimator serves the static wait table with a random queue
// position between 1 and 6.
type IllustrativeEstimator struct{}

func (IllustrativeEstimator) QueuePosition(ticket.Category) int {
	return 1 + rand.IntN(6)
}

func (IllustrativeEstimator) EstimatedWait(category ticket.Category) string {
	if wait, ok := waitTimes[category]; ok {
		return wait
	}
	return "5-10 minutes"
}

// FixedEstimator returns constant figures for tests.
type FixedEstimator struct {
	Position int
	Wait     string
}

func (e FixedEstimator) QueuePosition(ticket.Category) int    { return e.Position }
func (e FixedEstimator) EstimatedWait(ticket.Category) string { return e.Wait }
