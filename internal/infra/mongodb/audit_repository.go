package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "escrow_audit_logs"

// AuditLog is one escrow event as stored in Mongo. The event id is the
// document id, which makes redelivered events collide instead of duplicate.
type AuditLog struct {
	ID            string    `bson:"_id"`
	RoutingKey    string    `bson:"routing_key"`
	TransactionID string    `bson:"transaction_id"`
	JobID         string    `bson:"job_id,omitempty"`
	ClientID      string    `bson:"client_id,omitempty"`
	WorkerID      string    `bson:"worker_id,omitempty"`
	Type          string    `bson:"type,omitempty"`
	Status        string    `bson:"status,omitempty"`
	Resolution    string    `bson:"resolution,omitempty"`
	Amount        string    `bson:"amount"`
	Currency      string    `bson:"currency"`
	Operator      string    `bson:"operator,omitempty"`
	Reason        string    `bson:"reason,omitempty"`
	OccurredAt    time.Time `bson:"occurred_at"`
	ProcessedAt   time.Time `bson:"processed_at"`
}

type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &AuditRepository{collection: collection}
}

// EnsureIndexes creates the lookup index used when tracing a transaction.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_id", Value: 1}, {Key: "occurred_at", Value: 1}},
		Options: options.Index().SetName("transaction_occurred"),
	})
	if err != nil {
		return fmt.Errorf("failed to create audit index: %w", err)
	}
	return nil
}

func (r *AuditRepository) Save(ctx context.Context, routingKey string, event domain.TransactionEvent) error {
	_, err := r.collection.InsertOne(ctx, toAuditLog(routingKey, event, time.Now().UTC()))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func toAuditLog(routingKey string, event domain.TransactionEvent, processedAt time.Time) AuditLog {
	log := AuditLog{
		ID:            event.EventID.String(),
		RoutingKey:    routingKey,
		TransactionID: event.TransactionID.String(),
		Type:          string(event.Type),
		Status:        string(event.Status),
		Resolution:    string(event.Resolution),
		Amount:        event.Amount.Amount.String(),
		Currency:      event.Amount.Currency,
		Operator:      event.Operator,
		Reason:        event.Reason,
		OccurredAt:    event.OccurredAt,
		ProcessedAt:   processedAt,
	}
	if event.JobID != nil {
		log.JobID = event.JobID.String()
	}
	if event.ClientID != nil {
		log.ClientID = event.ClientID.String()
	}
	if event.WorkerID != nil {
		log.WorkerID = event.WorkerID.String()
	}
	return log
}
