package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/pensionworks/support-bot/internal/agent"
	"github.com/pensionworks/support-bot/internal/interaction"
	"github.com/pensionworks/support-bot/internal/ticket"
	"github.com/pensionworks/support-bot/pkg/logging"
)

// SessionCounter reports how many customer sessions currently exist.
type SessionCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Handler serves the read-only reporting views over the interaction log,
// the ticket registry and the agent directory. Snapshots reflect state at
// call time; nothing here mutates the dialogue core.
type Handler struct {
	interactions *interaction.Log
	registry     *ticket.Registry
	directory    *agent.Directory
	sessions     SessionCounter
	sampler      MetricSampler
	logger       *logging.Logger
}

// NewHandler wires the analytics surface. A nil sampler gets random draws.
func NewHandler(interactions *interaction.Log, registry *ticket.Registry, directory *agent.Directory, sessions SessionCounter, sampler MetricSampler, logger *logging.Logger) *Handler {
	if sampler == nil {
		sampler = RandomSampler{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		interactions: interactions,
		registry:     registry,
		directory:    directory,
		sessions:     sessions,
		sampler:      sampler,
		logger:       logger,
	}
}

// Interactions dumps the bounded interaction window.
func (h *Handler) Interactions(w http.ResponseWriter, r *http.Request) {
	records := h.interactions.Snapshot()
	h.writeJSON(w, map[string]any{
		"data":         records,
		"lastUpdated":  time.Now().UTC().Format(time.RFC3339),
		"totalRecords": len(records),
	})
}

type ticketView struct {
	*ticket.Ticket
	ResponseTimeMinutes  *int `json:"responseTimeMinutes"`
	ResolutionTimeHours  *int `json:"resolutionTimeHours"`
	CustomerSatisfaction *int `json:"customerSatisfaction"`
}

// Tickets renders every ticket with summary counts. Response and
// resolution figures are illustrative samples until a real desk feeds them.
func (h *Handler) Tickets(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()

	views := make([]ticketView, 0, len(all))
	var open, resolved int
	for _, t := range all {
		v := ticketView{Ticket: t}
		if len(t.Messages) > 0 {
			minutes := h.sampler.IntBetween(0, 30)
			v.ResponseTimeMinutes = &minutes
		}
		if t.Status == ticket.StatusResolved {
			resolved++
			hours := h.sampler.IntBetween(0, 48)
			v.ResolutionTimeHours = &hours
			satisfaction := t.Satisfaction
			if satisfaction == 0 {
				satisfaction = h.sampler.IntBetween(1, 5)
			}
			v.CustomerSatisfaction = &satisfaction
		} else {
			open++
		}
		views = append(views, v)
	}

	h.writeJSON(w, map[string]any{
		"data": views,
		"summary": map[string]any{
			"total":             len(views),
			"open":              open,
			"resolved":          resolved,
			"avgResolutionTime": 24,
		},
	})
}

type agentPerformance struct {
	AgentID        string          `json:"agentId"`
	AgentName      string          `json:"agentName"`
	TicketsHandled int             `json:"ticketsHandled"`
	AvgResponseMin int             `json:"avgResponseTime"`
	CustomerRating string          `json:"customerRating"`
	ResolutionRate string          `json:"resolutionRate"`
	Category       ticket.Category `json:"category"`
}

// AgentPerformance reports per-agent figures: handled counts come from the
// registry, the quality metrics are sampled.
func (h *Handler) AgentPerformance(w http.ResponseWriter, r *http.Request) {
	handled := make(map[string]int)
	for _, t := range h.registry.All() {
		if t.AssignedAgentID != "" {
			handled[t.AssignedAgentID]++
		}
	}

	agents := h.directory.All()
	rows := make([]agentPerformance, 0, len(agents))
	for _, ag := range agents {
		rows = append(rows, agentPerformance{
			AgentID:        ag.ID,
			AgentName:      ag.Name,
			TicketsHandled: handled[ag.ID],
			AvgResponseMin: h.sampler.IntBetween(1, 5),
			CustomerRating: fmt.Sprintf("%.1f", h.sampler.FloatBetween(3.0, 5.0)),
			ResolutionRate: fmt.Sprintf("%.1f", h.sampler.FloatBetween(80.0, 100.0)),
			Category:       ag.Category,
		})
	}

	h.writeJSON(w, map[string]any{
		"data":         rows,
		"reportPeriod": "last_30_days",
		"generatedAt":  time.Now().UTC().Format(time.RFC3339),
	})
}

type issueCount struct {
	Issue      string `json:"issue"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

type hourCount struct {
	Hour         string `json:"hour"`
	Interactions int    `json:"interactions"`
}

// ConversationAnalytics aggregates the interaction window: issue
// distribution, peak hours, and satisfaction across resolved tickets.
func (h *Handler) ConversationAnalytics(w http.ResponseWriter, r *http.Request) {
	records := h.interactions.Snapshot()

	byType := make(map[string]int)
	byHour := make(map[int]int)
	for _, rec := range records {
		byType[rec.DetectedType]++
		byHour[rec.Timestamp.Hour()]++
	}

	issues := make([]issueCount, 0, len(byType))
	for detected, count := range byType {
		pct := 0
		if len(records) > 0 {
			pct = count * 100 / len(records)
		}
		issues = append(issues, issueCount{
			Issue:      detected,
			Count:      count,
			Percentage: fmt.Sprintf("%d%%", pct),
		})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Count != issues[j].Count {
			return issues[i].Count > issues[j].Count
		}
		return issues[i].Issue < issues[j].Issue
	})

	hours := make([]hourCount, 0, len(byHour))
	for hour, count := range byHour {
		hours = append(hours, hourCount{
			Hour:         fmt.Sprintf("%02d:00", hour),
			Interactions: count,
		})
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Hour < hours[j].Hour })

	var ratedTotal, ratedCount int
	distribution := map[string]int{"excellent": 0, "good": 0, "average": 0, "poor": 0, "veryPoor": 0}
	labels := map[int]string{1: "excellent", 2: "good", 3: "average", 4: "poor", 5: "veryPoor"}
	for _, t := range h.registry.All() {
		if t.Satisfaction > 0 {
			ratedTotal += t.Satisfaction
			ratedCount++
			distribution[labels[t.Satisfaction]]++
		}
	}
	average := 0.0
	if ratedCount > 0 {
		average = float64(ratedTotal) / float64(ratedCount)
	}

	h.writeJSON(w, map[string]any{
		"totalConversations": len(records),
		"commonIssues":       issues,
		"peakHours":          hours,
		"customerSatisfaction": map[string]any{
			"average":      average,
			"ratedTickets": ratedCount,
			"distribution": distribution,
		},
	})
}

// Health reports process liveness along with live entity counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	var sessionCount int64
	if h.sessions != nil {
		count, err := h.sessions.Count(r.Context())
		if err != nil {
			h.logger.Warn("session count failed", "error", err)
		} else {
			sessionCount = count
		}
	}

	h.writeJSON(w, map[string]any{
		"status":       "ok",
		"sessions":     sessionCount,
		"tickets":      h.registry.Count(),
		"interactions": h.interactions.Len(),
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("analytics response encode failed", "error", err)
	}
}
