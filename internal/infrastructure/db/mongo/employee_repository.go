package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paylink/payment-portal/internal/core/domain"
)

const collectionEmployees = "employees"

type EmployeeRepository struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{coll: db.Collection(collectionEmployees)}
}

type employeeDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FullName     string             `bson:"full_name"`
	EmployeeCode string             `bson:"employee_code"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	Department   string             `bson:"department"`
	Active       bool               `bson:"active"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d employeeDoc) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:           d.ID.Hex(),
		FullName:     d.FullName,
		EmployeeCode: d.EmployeeCode,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Department:   d.Department,
		Active:       d.Active,
		CreatedAt:    d.CreatedAt,
	}
}

// FindByCodeAndEmail looks an employee up by the pair presented at login.
// Active status is NOT filtered here; the auth service decides how inactive
// employees fail.
func (r *EmployeeRepository) FindByCodeAndEmail(ctx context.Context, employeeCode, email string) (*domain.Employee, error) {
	var doc employeeDoc
	filter := bson.M{"employee_code": employeeCode, "email": email}
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEmployeeNotFound
	}

	var doc employeeDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

// SetActive flips an employee's active flag. The change takes effect on the
// employee's next request, independent of any outstanding token.
func (r *EmployeeRepository) SetActive(ctx context.Context, id string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEmployeeNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"active": active}})
	if err != nil {
		return fmt.Errorf("set employee active: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// Insert provisions one employee; used by cmd/seed only.
func (r *EmployeeRepository) Insert(ctx context.Context, e *domain.Employee) error {
	doc := employeeDoc{
		FullName:     e.FullName,
		EmployeeCode: e.EmployeeCode,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         e.Role,
		Department:   e.Department,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// DeleteAll clears the collection before reseeding; used by cmd/seed only.
func (r *EmployeeRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

// EnsureIndexes creates the unique indexes backing the identity constraints.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee_code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
