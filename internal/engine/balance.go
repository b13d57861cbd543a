package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Myphz/wwwallet-be/internal/models"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

// sortedByTimestamp returns a copy of the bucket sorted ascending by
// timestamp. The sort is stable, so transactions with equal timestamps keep
// their insertion order.
func sortedByTimestamp(bucket []models.Transaction) []models.Transaction {
	sorted := make([]models.Transaction, len(bucket))
	copy(sorted, bucket)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// firstViolation folds the running signed quantity sum over a time-sorted
// bucket (buys add, sells subtract) and returns the index of the first
// transaction at which the balance drops below zero, or -1 when every prefix
// balance is non-negative. All arithmetic is exact decimal arithmetic; the
// check is shared verbatim by insert, update and delete so the invariant
// cannot drift between operations.
func firstViolation(sorted []models.Transaction) int {
	balance := decimal.Zero
	for i := range sorted {
		balance = balance.Add(sorted[i].SignedQuantity())
		if balance.IsNegative() {
			return i
		}
	}
	return -1
}

func validateBucket(bucket []models.Transaction) error {
	if firstViolation(sortedByTimestamp(bucket)) >= 0 {
		return apperrors.ErrBalanceNegative
	}
	return nil
}
