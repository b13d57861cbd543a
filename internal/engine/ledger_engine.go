package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Myphz/wwwallet-be/internal/models"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

// LedgerEngine applies mutations to a user's in-memory ledger while
// guaranteeing that, for every symbol bucket, the running balance over the
// time-sorted transactions never goes negative at any prefix. A rejected
// mutation leaves the ledger exactly as it was; persistence is the caller's
// responsibility, so nothing invalid can ever reach the store.
//
// The engine does not coordinate concurrent mutations against the same
// ledger. Each request reads the full document, mutates it in memory and
// writes it back whole; two concurrent writers to the same user race as
// last-write-wins. Serializing per-user writes belongs to the persistence
// layer, not here.
type LedgerEngine interface {
	Insert(ledger models.Ledger, fields *TransactionFields) (primitive.ObjectID, error)
	Update(ledger models.Ledger, id primitive.ObjectID, fields *TransactionFields) (primitive.ObjectID, error)
	Delete(ledger models.Ledger, id primitive.ObjectID) error
	ClearAll(ledger models.Ledger)
}

// TransactionFields carries the validated request fields for an insert or
// update. Presence and primitive format are checked upstream by the request
// binding; the engine still enforces positivity, magnitude and timestamp
// range on its own.
type TransactionFields struct {
	Symbol       string
	CounterAsset string
	IsBuy        bool
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	Timestamp    int64
	Notes        string
}

// Magnitude bounds for price and quantity. Values at or above 10^12, or
// below 10^-5, lose precision downstream and are rejected outright.
var (
	maxMagnitude = decimal.New(1, 12)
	minMagnitude = decimal.New(1, -5)
)

type ledgerEngine struct {
	now func() time.Time
}

func NewLedgerEngine() LedgerEngine {
	return &ledgerEngine{now: time.Now}
}

// Insert appends a new transaction with a freshly generated id to the target
// symbol's bucket, creating the bucket if absent, and commits only if the
// bucket still satisfies the balance invariant.
func (e *ledgerEngine) Insert(ledger models.Ledger, fields *TransactionFields) (primitive.ObjectID, error) {
	if err := e.validateFields(fields); err != nil {
		return primitive.NilObjectID, err
	}

	tx := e.newTransaction(primitive.NewObjectID(), fields)

	candidate := append(copyBucket(ledger[fields.Symbol]), tx)
	if err := validateBucket(candidate); err != nil {
		return primitive.NilObjectID, err
	}

	ledger[fields.Symbol] = candidate
	return tx.ID, nil
}

// Update replaces the fields of an existing transaction. When the symbol is
// unchanged the transaction is replaced in place; when it changes the
// transaction moves buckets, keeping its original id. Both affected buckets
// are re-validated and either one failing rolls back the whole update.
func (e *ledgerEngine) Update(ledger models.Ledger, id primitive.ObjectID, fields *TransactionFields) (primitive.ObjectID, error) {
	if err := e.validateFields(fields); err != nil {
		return primitive.NilObjectID, err
	}

	oldSymbol, idx, found := ledger.FindByID(id)
	if !found {
		return primitive.NilObjectID, apperrors.ErrTransactionNotFound
	}

	updated := e.newTransaction(id, fields)

	if oldSymbol == fields.Symbol {
		candidate := copyBucket(ledger[oldSymbol])
		candidate[idx] = updated
		if err := validateBucket(candidate); err != nil {
			return primitive.NilObjectID, err
		}
		ledger[oldSymbol] = candidate
		return id, nil
	}

	oldCandidate := removeAt(copyBucket(ledger[oldSymbol]), idx)
	newCandidate := append(copyBucket(ledger[fields.Symbol]), updated)

	// Validate both buckets before touching the ledger: the move is
	// all-or-nothing.
	if err := validateBucket(newCandidate); err != nil {
		return primitive.NilObjectID, err
	}
	if err := validateBucket(oldCandidate); err != nil {
		return primitive.NilObjectID, err
	}

	if len(oldCandidate) == 0 {
		delete(ledger, oldSymbol)
	} else {
		ledger[oldSymbol] = oldCandidate
	}
	ledger[fields.Symbol] = newCandidate

	return id, nil
}

// Delete removes a transaction from its bucket if and only if the remaining
// bucket still satisfies the invariant (removing a buy can strand a later
// sell). The bucket key is dropped when the bucket empties.
func (e *ledgerEngine) Delete(ledger models.Ledger, id primitive.ObjectID) error {
	symbol, idx, found := ledger.FindByID(id)
	if !found {
		return apperrors.ErrTransactionNotFound
	}

	candidate := removeAt(copyBucket(ledger[symbol]), idx)
	if err := validateBucket(candidate); err != nil {
		return err
	}

	if len(candidate) == 0 {
		delete(ledger, symbol)
	} else {
		ledger[symbol] = candidate
	}
	return nil
}

// ClearAll empties the whole ledger. The empty ledger trivially satisfies
// the invariant, so there is nothing to validate.
func (e *ledgerEngine) ClearAll(ledger models.Ledger) {
	for symbol := range ledger {
		delete(ledger, symbol)
	}
}

func (e *ledgerEngine) newTransaction(id primitive.ObjectID, fields *TransactionFields) models.Transaction {
	return models.Transaction{
		ID:           id,
		Symbol:       fields.Symbol,
		CounterAsset: fields.CounterAsset,
		IsBuy:        fields.IsBuy,
		Price:        fields.Price,
		Quantity:     fields.Quantity,
		Timestamp:    fields.Timestamp,
		Notes:        fields.Notes,
	}
}

func (e *ledgerEngine) validateFields(fields *TransactionFields) error {
	if fields.Symbol == "" {
		return apperrors.NewValidationError("Symbol is required")
	}
	if err := validateAmount("price", fields.Price); err != nil {
		return err
	}
	if err := validateAmount("quantity", fields.Quantity); err != nil {
		return err
	}
	if fields.Timestamp < 0 || fields.Timestamp > e.now().UnixMilli() {
		return apperrors.NewUnprocessableError("Date must be between 0 and the current time")
	}
	return nil
}

func validateAmount(name string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return apperrors.NewUnprocessableError(fmt.Sprintf("Invalid %s: must be strictly positive", name))
	}
	if value.GreaterThanOrEqual(maxMagnitude) || value.LessThan(minMagnitude) {
		return apperrors.NewUnprocessableError(fmt.Sprintf("Invalid %s: magnitude out of range", name))
	}
	return nil
}

func copyBucket(bucket []models.Transaction) []models.Transaction {
	copied := make([]models.Transaction, len(bucket))
	copy(copied, bucket)
	return copied
}

func removeAt(bucket []models.Transaction, idx int) []models.Transaction {
	return append(bucket[:idx], bucket[idx+1:]...)
}
