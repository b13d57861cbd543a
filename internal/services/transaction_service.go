package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Myphz/wwwallet-be/internal/dto"
	"github.com/Myphz/wwwallet-be/internal/engine"
	"github.com/Myphz/wwwallet-be/internal/repositories"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

// TransactionService orchestrates ledger mutations: it loads the caller's
// full ledger, runs the engine against the in-memory copy, and persists the
// whole ledger only when the mutation was accepted. A storage failure is
// surfaced as-is and never retried here; a validation rejection never
// reaches the store at all.
type TransactionService interface {
	ListTransactions(ctx context.Context, userID primitive.ObjectID) (map[string][]dto.TransactionResponse, error)
	CreateTransaction(ctx context.Context, userID primitive.ObjectID, req *dto.TransactionRequest) (string, error)
	UpdateTransaction(ctx context.Context, userID primitive.ObjectID, id string, req *dto.TransactionRequest) (string, error)
	DeleteTransaction(ctx context.Context, userID primitive.ObjectID, id string) error
	ClearTransactions(ctx context.Context, userID primitive.ObjectID) error
}

type transactionService struct {
	userRepo repositories.UserRepository
	engine   engine.LedgerEngine
}

func NewTransactionService(userRepo repositories.UserRepository, ledgerEngine engine.LedgerEngine) TransactionService {
	return &transactionService{
		userRepo: userRepo,
		engine:   ledgerEngine,
	}
}

func (s *transactionService) ListTransactions(ctx context.Context, userID primitive.ObjectID) (map[string][]dto.TransactionResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.ToLedgerResponse(user.Transactions), nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, userID primitive.ObjectID, req *dto.TransactionRequest) (string, error) {
	fields, err := toEngineFields(req)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	id, err := s.engine.Insert(user.Transactions, fields)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateTransactions(ctx, userID, user.Transactions); err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID.Hex(),
		"transaction_id": id.Hex(),
		"crypto":         fields.Symbol,
	}).Info("transaction created")

	return id.Hex(), nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID primitive.ObjectID, id string, req *dto.TransactionRequest) (string, error) {
	txID, err := parseTransactionID(id)
	if err != nil {
		return "", err
	}

	fields, err := toEngineFields(req)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	newID, err := s.engine.Update(user.Transactions, txID, fields)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateTransactions(ctx, userID, user.Transactions); err != nil {
		return "", err
	}

	return newID.Hex(), nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID primitive.ObjectID, id string) error {
	txID, err := parseTransactionID(id)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.engine.Delete(user.Transactions, txID); err != nil {
		return err
	}

	return s.userRepo.UpdateTransactions(ctx, userID, user.Transactions)
}

func (s *transactionService) ClearTransactions(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	s.engine.ClearAll(user.Transactions)

	return s.userRepo.UpdateTransactions(ctx, userID, user.Transactions)
}

func toEngineFields(req *dto.TransactionRequest) (*engine.TransactionFields, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Invalid price format: %q", req.Price))
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Invalid quantity format: %q", req.Quantity))
	}

	return &engine.TransactionFields{
		Symbol:       req.Crypto,
		CounterAsset: req.Base,
		IsBuy:        *req.IsBuy,
		Price:        price,
		Quantity:     quantity,
		Timestamp:    *req.Date,
		Notes:        req.Notes,
	}, nil
}

// parseTransactionID maps malformed ids to not-found: an id that cannot
// exist cannot be located either.
func parseTransactionID(id string) (primitive.ObjectID, error) {
	txID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrTransactionNotFound
	}
	return txID, nil
}
