package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paylink/payment-portal/internal/infrastructure/config"
)

const dialTimeout = 10 * time.Second

// Connect dials MongoDB and verifies the deployment is reachable before any
// repository is built on top of it. Mongo is the portal's hard dependency:
// every credential and payment lives here, so a failed ping aborts startup
// instead of letting the server come up without a store.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Bootstrap creates the indexes behind every collection, so the identity
// constraints (unique username, account number, id number, employee code and
// email) hold from the first document. The server runs it before accepting
// traffic.
func Bootstrap(ctx context.Context, db *mongo.Database) error {
	for name, ensure := range map[string]func(context.Context) error{
		collectionCustomers: NewCustomerRepository(db).EnsureIndexes,
		collectionEmployees: NewEmployeeRepository(db).EnsureIndexes,
		collectionPayments:  NewPaymentRepository(db.Client(), db).EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}
