package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pensionworks/support-bot/internal/agent"
	"github.com/pensionworks/support-bot/internal/interaction"
	"github.com/pensionworks/support-bot/internal/session"
	"github.com/pensionworks/support-bot/internal/ticket"
	"github.com/pensionworks/support-bot/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *ticket.Registry, *interaction.Log) {
	t.Helper()
	logger := logging.Default()
	log := interaction.NewLog(100)
	registry := ticket.NewRegistry(logger)
	directory := agent.NewDefaultDirectory(agent.FixedPolicy{})
	h := NewHandler(log, registry, directory, session.NewMemoryStore(), FixedSampler{Int: 7, Float: 4.5}, logger)
	return h, registry, log
}

func getJSON(t *testing.T, handler http.HandlerFunc, path string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestInteractionsSnapshot(t *testing.T) {
	h, _, log := newTestHandler(t)
	log.Append(interaction.Record{CustomerID: "c1", InboundText: "hi", DetectedType: "general_inquiry"})

	body := getJSON(t, h.Interactions, "/api/analytics/interactions")

	require.EqualValues(t, 1, body["totalRecords"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
	rec := data[0].(map[string]any)
	require.Equal(t, "c1", rec["customer_id"])
}

func TestTicketsSummaryCounts(t *testing.T) {
	h, registry, _ := newTestHandler(t)
	open := registry.Create("c1", "A", "help")
	closedTicket := registry.Create("c2", "B", "help")
	_, err := registry.Close(closedTicket.ID)
	require.NoError(t, err)

	body := getJSON(t, h.Tickets, "/api/analytics/tickets")

	summary := body["summary"].(map[string]any)
	require.EqualValues(t, 2, summary["total"])
	require.EqualValues(t, 1, summary["open"])
	require.EqualValues(t, 1, summary["resolved"])

	data := body["data"].([]any)
	require.Len(t, data, 2)
	for _, raw := range data {
		row := raw.(map[string]any)
		if row["id"] == open.ID {
			require.Nil(t, row["resolutionTimeHours"])
		}
		if row["id"] == closedTicket.ID {
			require.EqualValues(t, 7, row["resolutionTimeHours"])
			require.EqualValues(t, 7, row["customerSatisfaction"], "unrated resolved ticket gets sampled score")
		}
	}
}

func TestAgentPerformanceCountsHandledTickets(t *testing.T) {
	h, registry, _ := newTestHandler(t)
	tk := registry.Create("c1", "A", "help")
	_, err := registry.Classify(tk.ID, ticket.CategoryTechnical)
	require.NoError(t, err)
	_, err = registry.MarkAssigned(tk.ID, "AG005", "Alex Kumar")
	require.NoError(t, err)

	body := getJSON(t, h.AgentPerformance, "/api/analytics/agent-performance")

	data := body["data"].([]any)
	require.Len(t, data, 11)
	var found bool
	for _, raw := range data {
		row := raw.(map[string]any)
		if row["agentId"] == "AG005" {
			found = true
			require.EqualValues(t, 1, row["ticketsHandled"])
			require.Equal(t, "4.5", row["customerRating"])
		}
	}
	require.True(t, found)
}

func TestConversationAnalyticsAggregates(t *testing.T) {
	h, registry, log := newTestHandler(t)
	at := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	log.Append(interaction.Record{Timestamp: at, DetectedType: "account_inquiry"})
	log.Append(interaction.Record{Timestamp: at, DetectedType: "account_inquiry"})
	log.Append(interaction.Record{Timestamp: at.Add(2 * time.Hour), DetectedType: "complaint"})

	tk := registry.Create("c1", "A", "help")
	_, err := registry.Close(tk.ID)
	require.NoError(t, err)
	require.NoError(t, registry.SetSatisfaction(tk.ID, 2))

	body := getJSON(t, h.ConversationAnalytics, "/api/analytics/conversation-analytics")

	require.EqualValues(t, 3, body["totalConversations"])

	issues := body["commonIssues"].([]any)
	top := issues[0].(map[string]any)
	require.Equal(t, "account_inquiry", top["issue"])
	require.EqualValues(t, 2, top["count"])
	require.Equal(t, "66%", top["percentage"])

	hours := body["peakHours"].([]any)
	require.Len(t, hours, 2)
	first := hours[0].(map[string]any)
	require.Equal(t, "14:00", first["hour"])
	require.EqualValues(t, 2, first["interactions"])

	sat := body["customerSatisfaction"].(map[string]any)
	require.EqualValues(t, 2.0, sat["average"])
	dist := sat["distribution"].(map[string]any)
	require.EqualValues(t, 1, dist["good"])
}

func TestHealthReportsCounts(t *testing.T) {
	h, registry, log := newTestHandler(t)
	registry.Create("c1", "A", "help")
	log.Append(interaction.Record{})

	body := getJSON(t, h.Health, "/health")

	require.Equal(t, "ok", body["status"])
	require.EqualValues(t, 1, body["tickets"])
	require.EqualValues(t, 1, body["interactions"])
}
