package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Myphz/wwwallet-be/internal/models"
	"github.com/Myphz/wwwallet-be/internal/repositories"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

// MongoUserRepository implements UserRepository using MongoDB. Decimal
// fields are stored as strings so they round-trip at full precision; the
// conversion to and from BSON happens here, not in the models.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new MongoDB user repository
func NewUserRepository(db *mongo.Database) repositories.UserRepository {
	return &MongoUserRepository{
		collection: db.Collection("users"),
	}
}

// Create inserts a new user document
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Transactions == nil {
		user.Transactions = models.Ledger{}
	}

	doc := bson.M{
		"_id":          user.ID,
		"email":        user.Email,
		"password":     user.PasswordHash,
		"is_verified":  user.IsVerified,
		"transactions": ledgerToBSON(user.Transactions),
		"created_at":   user.CreatedAt,
		"updated_at":   user.UpdatedAt,
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailRegistered
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by its ID
func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a user by email
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) getOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var rawDoc bson.M
	err := r.collection.FindOne(ctx, filter).Decode(&rawDoc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user, err := bsonToUser(rawDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert BSON to user: %w", err)
	}

	return user, nil
}

// UpdatePassword replaces the stored password hash
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	update := bson.M{
		"$set": bson.M{
			"password":   passwordHash,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateTransactions replaces the user's whole ledger in one atomic write
func (r *MongoUserRepository) UpdateTransactions(ctx context.Context, id primitive.ObjectID, ledger models.Ledger) error {
	update := bson.M{
		"$set": bson.M{
			"transactions": ledgerToBSON(ledger),
			"updated_at":   time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update transactions: %w", err)
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Delete removes a user document and with it the user's whole ledger
func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// ledgerToBSON converts a ledger into its storage form, with decimal fields
// rendered as exact strings.
func ledgerToBSON(ledger models.Ledger) bson.M {
	out := bson.M{}
	for symbol, bucket := range ledger {
		transactions := make([]bson.M, len(bucket))
		for i, tx := range bucket {
			doc := bson.M{
				"_id":      tx.ID,
				"crypto":   tx.Symbol,
				"base":     tx.CounterAsset,
				"is_buy":   tx.IsBuy,
				"price":    tx.Price.String(),
				"quantity": tx.Quantity.String(),
				"date":     tx.Timestamp,
			}
			if tx.Notes != "" {
				doc["notes"] = tx.Notes
			}
			transactions[i] = doc
		}
		out[symbol] = transactions
	}
	return out
}

// bsonToUser converts a raw user document to the User model
func bsonToUser(doc bson.M) (*models.User, error) {
	user := &models.User{Transactions: models.Ledger{}}

	if v, ok := doc["_id"]; ok {
		if oid, ok := v.(primitive.ObjectID); ok {
			user.ID = oid
		}
	}

	if v, ok := doc["email"]; ok {
		if str, ok := v.(string); ok {
			user.Email = str
		}
	}

	if v, ok := doc["password"]; ok {
		if str, ok := v.(string); ok {
			user.PasswordHash = str
		}
	}

	if v, ok := doc["is_verified"]; ok {
		if b, ok := v.(bool); ok {
			user.IsVerified = b
		}
	}

	if v, ok := doc["created_at"]; ok {
		if t, ok := v.(primitive.DateTime); ok {
			user.CreatedAt = t.Time()
		}
	}

	if v, ok := doc["updated_at"]; ok {
		if t, ok := v.(primitive.DateTime); ok {
			user.UpdatedAt = t.Time()
		}
	}

	if v, ok := doc["transactions"]; ok {
		if ledgerDoc, ok := v.(bson.M); ok {
			ledger, err := bsonToLedger(ledgerDoc)
			if err != nil {
				return nil, err
			}
			user.Transactions = ledger
		}
	}

	return user, nil
}

func bsonToLedger(doc bson.M) (models.Ledger, error) {
	ledger := models.Ledger{}

	for symbol, v := range doc {
		arr, ok := v.(primitive.A)
		if !ok {
			continue
		}

		bucket := make([]models.Transaction, 0, len(arr))
		for _, item := range arr {
			txDoc, ok := item.(bson.M)
			if !ok {
				continue
			}

			tx := models.Transaction{Symbol: symbol}

			if v, ok := txDoc["_id"]; ok {
				if oid, ok := v.(primitive.ObjectID); ok {
					tx.ID = oid
				}
			}

			if v, ok := txDoc["base"]; ok {
				if str, ok := v.(string); ok {
					tx.CounterAsset = str
				}
			}

			if v, ok := txDoc["is_buy"]; ok {
				if b, ok := v.(bool); ok {
					tx.IsBuy = b
				}
			}

			var err error
			if tx.Price, err = parseDecimalField(txDoc, "price"); err != nil {
				return nil, fmt.Errorf("transaction %s: %w", tx.ID.Hex(), err)
			}
			if tx.Quantity, err = parseDecimalField(txDoc, "quantity"); err != nil {
				return nil, fmt.Errorf("transaction %s: %w", tx.ID.Hex(), err)
			}

			if v, ok := txDoc["date"]; ok {
				switch val := v.(type) {
				case int64:
					tx.Timestamp = val
				case int32:
					tx.Timestamp = int64(val)
				case int:
					tx.Timestamp = int64(val)
				}
			}

			if v, ok := txDoc["notes"]; ok {
				if str, ok := v.(string); ok {
					tx.Notes = str
				}
			}

			bucket = append(bucket, tx)
		}

		if len(bucket) > 0 {
			ledger[symbol] = bucket
		}
	}

	return ledger, nil
}

// parseDecimalField parses a decimal field stored as a string
func parseDecimalField(doc bson.M, fieldName string) (decimal.Decimal, error) {
	v, ok := doc[fieldName]
	if !ok {
		return decimal.Zero, fmt.Errorf("missing %s field", fieldName)
	}

	str, ok := v.(string)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s is not stored as a string", fieldName)
	}

	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value %q: %w", fieldName, str, err)
	}

	return d, nil
}
