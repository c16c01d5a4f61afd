package turnworker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pensionworks/support-bot/internal/bot"
	"github.com/pensionworks/support-bot/internal/queue"
	"github.com/pensionworks/support-bot/internal/session"
	"github.com/pensionworks/support-bot/pkg/logging"
)

type stubBot struct {
	mu    sync.Mutex
	turns []bot.TurnRequest
	err   error
}

func (s *stubBot) HandleTurn(_ context.Context, req bot.TurnRequest) (*bot.TurnResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, err
	}
	s.turns = append(s.turns, req)
	return &bot.TurnResponse{Reply: "reply to " + req.Text, Step: session.StepMainMenu}, nil
}

func (s *stubBot) handled() []bot.TurnRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bot.TurnRequest(nil), s.turns...)
}

type stubSender struct {
	mu    sync.Mutex
	sends []string
}

func (s *stubSender) SendText(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, to+": "+body)
	return nil
}

func (s *stubSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sends...)
}

func publishTurn(t *testing.T, q queue.Client, customerID, text string) {
	t.Helper()
	_, body, err := bot.EncodeTurnJob(bot.TurnRequest{CustomerID: customerID, Text: text}, time.Now())
	require.NoError(t, err)
	require.NoError(t, q.Send(context.Background(), body))
}

func runBriefly(w *Worker) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_ = w.Run(ctx)
}

func TestWorkerProcessesTurnAndSendsReply(t *testing.T) {
	q := queue.NewMemoryQueue(8)
	svc := &stubBot{}
	sender := &stubSender{}
	w := New(q, svc, sender, 2, logging.Default())

	publishTurn(t, q, "c1", "hi")
	runBriefly(w)

	require.Len(t, svc.handled(), 1)
	require.Equal(t, "hi", svc.handled()[0].Text)
	require.Equal(t, []string{"c1: reply to hi"}, sender.sent())
}

func TestWorkerRequeuesInFlightTurn(t *testing.T) {
	q := queue.NewMemoryQueue(8)
	svc := &stubBot{err: bot.ErrTurnInFlight}
	sender := &stubSender{}
	w := New(q, svc, sender, 1, logging.Default())

	publishTurn(t, q, "c1", "hi")
	runBriefly(w)

	// First delivery hit the in-flight guard; the requeued copy succeeded.
	require.Len(t, svc.handled(), 1)
	require.Len(t, sender.sent(), 1)
}

func TestWorkerDropsPoisonMessage(t *testing.T) {
	q := queue.NewMemoryQueue(8)
	svc := &stubBot{}
	sender := &stubSender{}
	w := New(q, svc, sender, 1, logging.Default())

	require.NoError(t, q.Send(context.Background(), "not json"))
	publishTurn(t, q, "c1", "hi")
	runBriefly(w)

	require.Len(t, svc.handled(), 1)
}
