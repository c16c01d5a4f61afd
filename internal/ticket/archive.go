package ticket

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/pensionworks/support-bot/pkg/logging"
)

const archiveTTL = 90 * 24 * time.Hour

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Archiver writes a durable copy of resolved tickets and filed complaints.
// Archival is a boundary call made after the core transition: failures are
// logged and never surfaced to the customer.
type Archiver interface {
	ArchiveTicket(ctx context.Context, t *Ticket) error
	ArchiveComplaint(ctx context.Context, c *Complaint) error
}

// archiveRecord is the DynamoDB row shape shared by both record kinds.
type archiveRecord struct {
	RecordID   string     `dynamodbav:"recordId"`
	Kind       string     `dynamodbav:"kind"`
	CustomerID string     `dynamodbav:"customerId"`
	Ticket     *Ticket    `dynamodbav:"ticket,omitempty"`
	Complaint  *Complaint `dynamodbav:"complaint,omitempty"`
	ArchivedAt string     `dynamodbav:"archivedAt"`
	ExpiresAt  int64      `dynamodbav:"expiresAt"`
}

// DynamoArchiver persists archive records to a DynamoDB table with a TTL
// attribute.
type DynamoArchiver struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

// NewDynamoArchiver builds an archiver backed by the provided DynamoDB client.
func NewDynamoArchiver(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoArchiver {
	if client == nil {
		panic("ticket: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("ticket: archive table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoArchiver{client: client, tableName: tableName, logger: logger}
}

var _ Archiver = (*DynamoArchiver)(nil)

// ArchiveTicket stores a resolved ticket.
func (a *DynamoArchiver) ArchiveTicket(ctx context.Context, t *Ticket) error {
	return a.put(ctx, archiveRecord{
		RecordID:   t.ID,
		Kind:       "ticket",
		CustomerID: t.CustomerID,
		Ticket:     t,
	})
}

// ArchiveComplaint stores a filed complaint.
func (a *DynamoArchiver) ArchiveComplaint(ctx context.Context, c *Complaint) error {
	return a.put(ctx, archiveRecord{
		RecordID:   c.ID,
		Kind:       "complaint",
		CustomerID: c.CustomerID,
		Complaint:  c,
	})
}

func (a *DynamoArchiver) put(ctx context.Context, rec archiveRecord) error {
	now := time.Now().UTC()
	rec.ArchivedAt = now.Format(time.RFC3339)
	rec.ExpiresAt = now.Add(archiveTTL).Unix()

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		a.logger.Error("failed to marshal archive record", "error", err, "record_id", rec.RecordID)
		return err
	}

	_, err = a.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(a.tableName),
		Item:      item,
	})
	if err != nil {
		a.logger.Error("failed to archive record", "error", err, "record_id", rec.RecordID, "kind", rec.Kind)
		return err
	}
	return nil
}

// NopArchiver discards archive records. Used when no archive table is
// configured.
type NopArchiver struct{}

func (NopArchiver) ArchiveTicket(context.Context, *Ticket) error       { return nil }
func (NopArchiver) ArchiveComplaint(context.Context, *Complaint) error { return nil }
