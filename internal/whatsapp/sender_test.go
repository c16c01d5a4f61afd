package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pensionworks/support-bot/pkg/logging"
)

func testSender(t *testing.T, baseURL string, retryMax int) *GraphSender {
	t.Helper()
	return NewGraphSender(GraphSenderConfig{
		BaseURL:       baseURL,
		Token:         "token",
		PhoneNumberID: "12345",
		Timeout:       2 * time.Second,
		RetryMax:      retryMax,
		RetryBase:     time.Millisecond,
	}, logging.Default())
}

func TestSendTextPostsGraphPayload(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := testSender(t, srv.URL, 1)
	require.NoError(t, s.SendText(context.Background(), "4477001122", "hello"))

	require.Equal(t, "/12345/messages", gotPath)
	require.Equal(t, "Bearer token", gotAuth)
	require.Equal(t, "whatsapp", gotBody["messaging_product"])
	require.Equal(t, "4477001122", gotBody["to"])
	text := gotBody["text"].(map[string]any)
	require.Equal(t, "hello", text["body"])
}

func TestSendTextRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := testSender(t, srv.URL, 3)
	require.NoError(t, s.SendText(context.Background(), "4477001122", "hello"))
	require.EqualValues(t, 3, calls.Load())
}

func TestSendTextDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := testSender(t, srv.URL, 3)
	err := s.SendText(context.Background(), "4477001122", "hello")
	require.Error(t, err)
	require.EqualValues(t, 1, calls.Load())
}

func TestSendTextValidatesInput(t *testing.T) {
	s := testSender(t, "http://unused", 1)

	require.Error(t, s.SendText(context.Background(), "", "hello"))
	require.Error(t, s.SendText(context.Background(), "4477001122", "   "))

	s.token = ""
	require.Error(t, s.SendText(context.Background(), "4477001122", "hello"))
}
