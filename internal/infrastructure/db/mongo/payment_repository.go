package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
)

const collectionPayments = "payments"

type PaymentRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewPaymentRepository(client *mongo.Client, db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{client: client, coll: db.Collection(collectionPayments)}
}

// paymentDoc is the storage representation. Amount is stored as its exact
// decimal string, never as a float.
type paymentDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID      string             `bson:"customer_id"`
	Amount          string             `bson:"amount"`
	Currency        string             `bson:"currency"`
	Provider        string             `bson:"provider"`
	PayeeAccount    string             `bson:"payee_account"`
	SwiftCode       string             `bson:"swift_code"`
	Status          string             `bson:"status"`
	ReviewedBy      string             `bson:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time         `bson:"reviewed_at,omitempty"`
	SubmittedBy     string             `bson:"submitted_by,omitempty"`
	SubmittedAt     *time.Time         `bson:"submitted_at,omitempty"`
	RejectionReason string             `bson:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d paymentDoc) toDomain() (*domain.Payment, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("decode payment amount %q: %w", d.Amount, err)
	}
	return &domain.Payment{
		ID:              d.ID.Hex(),
		CustomerID:      d.CustomerID,
		Amount:          amount,
		Currency:        d.Currency,
		Provider:        d.Provider,
		PayeeAccount:    d.PayeeAccount,
		SwiftCode:       d.SwiftCode,
		Status:          domain.PaymentStatus(d.Status),
		ReviewedBy:      d.ReviewedBy,
		ReviewedAt:      d.ReviewedAt,
		SubmittedBy:     d.SubmittedBy,
		SubmittedAt:     d.SubmittedAt,
		RejectionReason: d.RejectionReason,
		CreatedAt:       d.CreatedAt,
	}, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	doc := paymentDoc{
		CustomerID:   p.CustomerID,
		Amount:       p.Amount.String(),
		Currency:     p.Currency,
		Provider:     p.Provider,
		PayeeAccount: p.PayeeAccount,
		SwiftCode:    p.SwiftCode,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	created := *p
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}

	var doc paymentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return doc.toDomain()
}

// List returns payments newest-created-first, optionally filtered by owner
// and status.
func (r *PaymentRepository) List(ctx context.Context, customerID string, status domain.PaymentStatus) ([]*domain.Payment, error) {
	filter := bson.M{}
	if customerID != "" {
		filter["customer_id"] = customerID
	}
	if status != "" {
		filter["status"] = string(status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer cursor.Close(ctx)

	payments := make([]*domain.Payment, 0)
	for cursor.Next(ctx) {
		var doc paymentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode payment: %w", err)
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, cursor.Err()
}

// MarkReviewed transitions a payment out of pending. The filter includes the
// pending precondition, so a concurrent review that already won leaves
// nothing to match and the loser sees ErrInvalidTransition.
func (r *PaymentRepository) MarkReviewed(ctx context.Context, id string, update ports.ReviewUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPaymentNotFound
	}

	set := bson.M{
		"status":      string(update.Status),
		"reviewed_by": update.ReviewerID,
		"reviewed_at": update.ReviewedAt.UTC(),
	}
	if update.Reason != "" {
		set["rejection_reason"] = update.Reason
	}

	filter := bson.M{"_id": oid, "status": string(domain.StatusPending)}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mark reviewed: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing payment from one no longer pending.
		if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrPaymentNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// SubmitBatch selects the verified subset of ids and completes all of them
// inside a multi-document transaction: either every selected payment moves to
// completed or none does.
func (r *PaymentRepository) SubmitBatch(ctx context.Context, ids []string, submitterID string, at time.Time) ([]string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue // unknown ids are silently excluded
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, domain.ErrNothingToSubmit
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"_id": bson.M{"$in": oids}, "status": string(domain.StatusVerified)}

		cursor, err := r.coll.Find(sc, filter)
		if err != nil {
			return nil, fmt.Errorf("select verified payments: %w", err)
		}
		var selected []paymentDoc
		if err := cursor.All(sc, &selected); err != nil {
			return nil, fmt.Errorf("decode verified payments: %w", err)
		}
		if len(selected) == 0 {
			return nil, domain.ErrNothingToSubmit
		}

		update := bson.M{"$set": bson.M{
			"status":       string(domain.StatusCompleted),
			"submitted_by": submitterID,
			"submitted_at": at.UTC(),
		}}
		res, err := r.coll.UpdateMany(sc, filter, update)
		if err != nil {
			return nil, fmt.Errorf("complete payments: %w", err)
		}
		if res.ModifiedCount != int64(len(selected)) {
			// A payment changed status between select and update; abort so
			// nothing in the batch is left half-submitted.
			return nil, fmt.Errorf("batch submit: expected %d updates, got %d: %w",
				len(selected), res.ModifiedCount, domain.ErrInvalidTransition)
		}

		completed := make([]string, len(selected))
		for i, doc := range selected {
			completed[i] = doc.ID.Hex()
		}
		return completed, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// CountByStatus groups payments by status.
func (r *PaymentRepository) CountByStatus(ctx context.Context) (map[domain.PaymentStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[domain.PaymentStatus]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode count: %w", err)
		}
		counts[domain.PaymentStatus(row.Status)] = row.Count
	}
	return counts, cursor.Err()
}

// EnsureIndexes creates the indexes used by the listing queries.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
