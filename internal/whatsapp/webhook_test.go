package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pensionworks/support-bot/internal/bot"
	"github.com/pensionworks/support-bot/internal/queue"
	"github.com/pensionworks/support-bot/pkg/logging"
)

const samplePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "field": "messages",
      "value": {
        "contacts": [{"wa_id": "4477001122", "profile": {"name": "Amara"}}],
        "messages": [{"from": "4477001122", "type": "text", "text": {"body": " hi "}}]
      }
    }]
  }]
}`

func TestVerifyEchoesChallenge(t *testing.T) {
	h := NewWebhookHandler("secret", queue.NewMemoryQueue(1), nil, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "12345", rec.Body.String())
}

func TestVerifyRejectsBadToken(t *testing.T) {
	h := NewWebhookHandler("secret", queue.NewMemoryQueue(1), nil, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReceiveQueuesTurn(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	h := NewWebhookHandler("secret", q, nil, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(samplePayload))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	msgs, err := q.Receive(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	job, err := bot.DecodeTurnJob(msgs[0].Body)
	require.NoError(t, err)
	require.Equal(t, "4477001122", job.Turn.CustomerID)
	require.Equal(t, "Amara", job.Turn.DisplayName)
	require.Equal(t, "hi", job.Turn.Text)
	require.NotEmpty(t, job.ID)
}

func TestReceiveIgnoresUnknownObject(t *testing.T) {
	h := NewWebhookHandler("secret", queue.NewMemoryQueue(1), nil, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object":"something_else"}`))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReceiveSkipsNonText(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	h := NewWebhookHandler("secret", q, nil, logging.Default())

	payload := `{
	  "object": "whatsapp_business_account",
	  "entry": [{
	    "changes": [{
	      "field": "messages",
	      "value": {
	        "contacts": [{"wa_id": "4477001122", "profile": {"name": "Amara"}}],
	        "messages": [{"from": "4477001122", "type": "image", "text": {"body": ""}}]
	      }
	    }]
	  }]
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	msgs, err := q.Receive(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Empty(t, msgs)
}
