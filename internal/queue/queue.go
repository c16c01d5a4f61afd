package queue

import "context"

// Message is one unit of work pulled from a queue. ReceiptHandle is the
// token used to acknowledge (delete) the message after processing.
type Message struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// Client abstracts the turn queue so the webhook producer and the worker
// consumer do not care whether SQS or the in-memory queue backs them.
type Client interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}
