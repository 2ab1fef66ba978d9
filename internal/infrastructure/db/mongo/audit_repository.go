package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
)

const collectionAudit = "payment_audit"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(collectionAudit)}
}

// InsertEvent persists one lifecycle event to the payment_audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	doc := bson.M{
		"payment_id":  event.PaymentID,
		"status":      string(event.Status),
		"actor_id":    event.ActorID,
		"actor_kind":  string(event.ActorKind),
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Note != "" {
		doc["note"] = event.Note
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
