package dto

import (
	"github.com/Myphz/wwwallet-be/internal/models"
)

// TransactionRequest carries the body of an insert or update. IsBuy and Date
// are pointers so that false and 0 survive the required check. Price and
// quantity arrive as strings and are parsed into exact decimals by the
// service layer; binding only guarantees presence and primitive shape here.
type TransactionRequest struct {
	Crypto   string `json:"crypto" binding:"required"`
	Base     string `json:"base" binding:"required"`
	IsBuy    *bool  `json:"isBuy" binding:"required"`
	Price    string `json:"price" binding:"required,decimal"`
	Quantity string `json:"quantity" binding:"required,decimal"`
	Date     *int64 `json:"date" binding:"required"`
	Notes    string `json:"notes"`
}

// TransactionResponse renders a transaction for the API. Decimal fields are
// emitted as their exact string form, never as floats.
type TransactionResponse struct {
	ID       string `json:"id"`
	Crypto   string `json:"crypto"`
	Base     string `json:"base"`
	IsBuy    bool   `json:"isBuy"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Date     int64  `json:"date"`
	Notes    string `json:"notes,omitempty"`
}

type TransactionIDResponse struct {
	ID string `json:"id"`
}

func ToTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:       tx.ID.Hex(),
		Crypto:   tx.Symbol,
		Base:     tx.CounterAsset,
		IsBuy:    tx.IsBuy,
		Price:    tx.Price.String(),
		Quantity: tx.Quantity.String(),
		Date:     tx.Timestamp,
		Notes:    tx.Notes,
	}
}

// ToLedgerResponse converts a ledger into its grouped API form. An empty
// ledger becomes an empty mapping, never null.
func ToLedgerResponse(ledger models.Ledger) map[string][]TransactionResponse {
	out := make(map[string][]TransactionResponse, len(ledger))
	for symbol, bucket := range ledger {
		transactions := make([]TransactionResponse, len(bucket))
		for i := range bucket {
			transactions[i] = ToTransactionResponse(&bucket[i])
		}
		out[symbol] = transactions
	}
	return out
}
