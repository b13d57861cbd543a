package models

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction represents a single buy or sell event inside a user's ledger.
// Price and Quantity are arbitrary-precision decimals; they are stored as
// strings in MongoDB and must round-trip exactly.
type Transaction struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Symbol       string             `bson:"crypto" json:"crypto"`
	CounterAsset string             `bson:"base" json:"base"`
	IsBuy        bool               `bson:"is_buy" json:"isBuy"`
	Price        decimal.Decimal    `bson:"price" json:"price"`
	Quantity     decimal.Decimal    `bson:"quantity" json:"quantity"`
	Timestamp    int64              `bson:"date" json:"date"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// SignedQuantity returns the quantity with its direction applied: positive
// for buys, negative for sells.
func (t *Transaction) SignedQuantity() decimal.Decimal {
	if t.IsBuy {
		return t.Quantity
	}
	return t.Quantity.Neg()
}

// Ledger maps an asset symbol to the ordered set of transactions for that
// asset. A symbol key with an empty transaction list must never exist: the
// key is removed the moment its last transaction is deleted and recreated
// when a transaction for the symbol is added again.
type Ledger map[string][]Transaction

// FindByID locates a transaction across all buckets and returns its symbol
// and index. Per-user ledgers are small, so a linear scan is fine here.
func (l Ledger) FindByID(id primitive.ObjectID) (string, int, bool) {
	for symbol, bucket := range l {
		for i, tx := range bucket {
			if tx.ID == id {
				return symbol, i, true
			}
		}
	}
	return "", 0, false
}

// Count returns the total number of transactions across all buckets.
func (l Ledger) Count() int {
	total := 0
	for _, bucket := range l {
		total += len(bucket)
	}
	return total
}

// Clone returns a deep copy of the ledger. Buckets are copied so mutations
// on the clone never alias the original slices.
func (l Ledger) Clone() Ledger {
	cloned := make(Ledger, len(l))
	for symbol, bucket := range l {
		copied := make([]Transaction, len(bucket))
		copy(copied, bucket)
		cloned[symbol] = copied
	}
	return cloned
}
