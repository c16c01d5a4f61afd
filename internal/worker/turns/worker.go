package turnworker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pensionworks/support-bot/internal/bot"
	"github.com/pensionworks/support-bot/internal/queue"
	"github.com/pensionworks/support-bot/internal/whatsapp"
	"github.com/pensionworks/support-bot/pkg/logging"
)

const (
	receiveBatchSize   = 5
	receiveWaitSeconds = 10
)

// Worker drains the turn queue, runs each turn through the bot service and
// delivers the reply. Several consumer loops may run concurrently; the bot
// service serializes turns per customer.
type Worker struct {
	turns       queue.Client
	bot         bot.Service
	sender      whatsapp.Sender
	concurrency int
	logger      *logging.Logger
}

// New builds a worker with the given number of consumer loops.
func New(turns queue.Client, svc bot.Service, sender whatsapp.Sender, concurrency int, logger *logging.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Worker{
		turns:       turns,
		bot:         svc,
		sender:      sender,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run blocks until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}
	wg.Wait()
	return ctx.Err()
}

func (w *Worker) loop(ctx context.Context, id int) {
	w.logger.Info("turn worker loop started", "loop", id)
	for {
		msgs, err := w.turns.Receive(ctx, receiveBatchSize, receiveWaitSeconds)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("turn worker loop stopped", "loop", id)
				return
			}
			w.logger.Error("queue receive failed", "error", err, "loop", id)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, msg := range msgs {
			w.process(ctx, msg)
		}
	}
}

func (w *Worker) process(ctx context.Context, msg queue.Message) {
	job, err := bot.DecodeTurnJob(msg.Body)
	if err != nil {
		// Poison message: drop it, redelivery cannot fix it.
		w.logger.Error("turn job decode failed", "error", err, "message_id", msg.ID)
		w.ack(ctx, msg)
		return
	}

	resp, err := w.bot.HandleTurn(ctx, job.Turn)
	if err != nil {
		if errors.Is(err, bot.ErrTurnInFlight) {
			// Another turn for this customer is running; put the job back.
			w.logger.Info("turn requeued", "job_id", job.ID, "customer_id", job.Turn.CustomerID)
			if err := w.turns.Send(ctx, msg.Body); err != nil {
				w.logger.Error("turn requeue failed", "error", err, "job_id", job.ID)
				return
			}
			w.ack(ctx, msg)
			return
		}
		w.logger.Error("turn processing failed", "error", err, "job_id", job.ID, "customer_id", job.Turn.CustomerID)
		w.ack(ctx, msg)
		return
	}

	if err := w.sender.SendText(ctx, job.Turn.CustomerID, resp.Reply); err != nil {
		// Delivery failures are logged, not retried here: the session state
		// is already saved and a redelivered job would re-run the turn.
		w.logger.Error("reply delivery failed", "error", err, "job_id", job.ID, "customer_id", job.Turn.CustomerID)
	}
	w.ack(ctx, msg)
}

func (w *Worker) ack(ctx context.Context, msg queue.Message) {
	if err := w.turns.Delete(ctx, msg.ReceiptHandle); err != nil {
		w.logger.Error("queue delete failed", "error", err, "message_id", msg.ID)
	}
}
