package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Myphz/wwwallet-be/internal/models"
)

// UserRepository persists users and their ledgers. The whole transactions
// document is replaced atomically on UpdateTransactions; that per-document
// write atomicity is the only guard against concurrent mutations to the same
// user, so two concurrent writers race as last-write-wins.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateTransactions(ctx context.Context, id primitive.ObjectID, ledger models.Ledger) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
