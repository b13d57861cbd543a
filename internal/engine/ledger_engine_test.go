package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Myphz/wwwallet-be/internal/models"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

func newTestEngine() *ledgerEngine {
	// Frozen clock so timestamp range checks are deterministic.
	now := time.UnixMilli(1_700_000_000_000)
	return &ledgerEngine{now: func() time.Time { return now }}
}

func fields(symbol string, isBuy bool, price, quantity string, timestamp int64) *TransactionFields {
	return &TransactionFields{
		Symbol:       symbol,
		CounterAsset: "USD",
		IsBuy:        isBuy,
		Price:        decimal.RequireFromString(price),
		Quantity:     decimal.RequireFromString(quantity),
		Timestamp:    timestamp,
	}
}

func TestLedgerEngine_Insert(t *testing.T) {
	t.Run("buy into a fresh ledger creates the bucket and returns an id", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}

		id, err := e.Insert(ledger, fields("BTC", true, "24323.2342", "1.430000002", 100))

		require.NoError(t, err)
		assert.False(t, id.IsZero())
		require.Len(t, ledger["BTC"], 1)
		assert.Equal(t, "1.430000002", ledger["BTC"][0].Quantity.String())
		assert.Equal(t, "24323.2342", ledger["BTC"][0].Price.String())
		assert.Equal(t, id, ledger["BTC"][0].ID)
	})

	t.Run("sell fractionally larger than the buy is rejected", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}

		_, err := e.Insert(ledger, fields("BTC", true, "100", "1.0000000000000000000001", 100))
		require.NoError(t, err)

		_, err = e.Insert(ledger, fields("BTC", false, "100", "1.00000000000000000000011", 200))

		assert.ErrorIs(t, err, apperrors.ErrBalanceNegative)
		require.Len(t, ledger["BTC"], 1)
	})

	t.Run("sell dated before the covering buy is rejected", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}

		_, err := e.Insert(ledger, fields("BTC", true, "100", "1", 100))
		require.NoError(t, err)

		_, err = e.Insert(ledger, fields("BTC", false, "100", "1", 1))

		assert.ErrorIs(t, err, apperrors.ErrBalanceNegative)
	})

	t.Run("buy and equal sell both succeed with final balance zero", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}

		_, err := e.Insert(ledger, fields("BTC", true, "100", "2.5", 100))
		require.NoError(t, err)
		_, err = e.Insert(ledger, fields("BTC", false, "100", "2.5", 200))
		require.NoError(t, err)

		require.Len(t, ledger["BTC"], 2)
	})

	t.Run("rejected insert leaves the ledger untouched", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}
		_, err := e.Insert(ledger, fields("BTC", true, "100", "1", 100))
		require.NoError(t, err)
		before := ledger.Clone()

		_, err = e.Insert(ledger, fields("BTC", false, "100", "5", 200))

		assert.ErrorIs(t, err, apperrors.ErrBalanceNegative)
		assert.Equal(t, before, ledger)
	})

	t.Run("magnitude and range validation", func(t *testing.T) {
		e := newTestEngine()
		nowMillis := e.now().UnixMilli()

		cases := []struct {
			name string
			req  *TransactionFields
		}{
			{"zero price", fields("BTC", true, "0", "1", 100)},
			{"negative quantity", fields("BTC", true, "1", "-1", 100)},
			{"price too large", fields("BTC", true, "1000000000000", "1", 100)},
			{"quantity too small", fields("BTC", true, "1", "0.000001", 100)},
			{"negative timestamp", fields("BTC", true, "1", "1", -1)},
			{"future timestamp", fields("BTC", true, "1", "1", nowMillis + 1)},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				ledger := models.Ledger{}
				_, err := e.Insert(ledger, tc.req)
				require.Error(t, err)
				assert.Empty(t, ledger)
			})
		}

		t.Run("bounds are exclusive on the valid side", func(t *testing.T) {
			ledger := models.Ledger{}
			_, err := e.Insert(ledger, fields("BTC", true, "999999999999.99", "0.00001", 100))
			assert.NoError(t, err)
		})
	})
}

func TestLedgerEngine_Update(t *testing.T) {
	t.Run("unknown id is rejected", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}

		_, err := e.Update(ledger, newObjectID(t), fields("BTC", true, "1", "1", 100))

		assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
	})

	t.Run("replaces fields in place when the symbol is unchanged", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}
		id, err := e.Insert(ledger, fields("BTC", true, "100", "1", 100))
		require.NoError(t, err)

		updated := fields("BTC", true, "250", "3", 150)
		updated.Notes = "rebought"
		newID, err := e.Update(ledger, id, updated)

		require.NoError(t, err)
		assert.Equal(t, id, newID)
		require.Len(t, ledger["BTC"], 1)
		assert.Equal(t, "250", ledger["BTC"][0].Price.String())
		assert.Equal(t, "3", ledger["BTC"][0].Quantity.String())
		assert.Equal(t, "rebought", ledger["BTC"][0].Notes)
	})

	t.Run("symbol change moves the transaction and keeps its id", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}
		id, err := e.Insert(ledger, fields("BTC", true, "100", "1", 100))
		require.NoError(t, err)

		newID, err := e.Update(ledger, id, fields("ETH", true, "200", "1", 100))

		require.NoError(t, err)
		assert.Equal(t, id, newID)
		assert.NotContains(t, ledger, "BTC")
		require.Len(t, ledger["ETH"], 1)
		assert.Equal(t, id, ledger["ETH"][0].ID)
	})

	t.Run("moving a covering buy out of its bucket is rejected", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}
		buyID, err := e.Insert(ledger, fields("BTC", true, "100", "1", 100))
		require.NoError(t, err)
		_, err = e.Insert(ledger, fields("BTC", false, "100", "1", 200))
		require.NoError(t, err)
		before := ledger.Clone()

		_, err = e.Update(ledger, buyID, fields("ETH", true, "100", "1", 100))

		assert.ErrorIs(t, err, apperrors.ErrBalanceNegative)
		assert.Equal(t, before, ledger)
	})

	t.Run("move failing in the destination bucket rolls back entirely", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}
		_, err := e.Insert(ledger, fields("ETH", true, "100", "1", 100))
		require.NoError(t, err)
		sellID, err := e.Insert(ledger, fields("ETH", false, "100", "1", 200))
		require.NoError(t, err)
		before := ledger.Clone()

		// Moving the ETH sell into BTC would overdraw the empty BTC bucket.
		_, err = e.Update(ledger, sellID, fields("BTC", false, "100", "1", 200))

		assert.ErrorIs(t, err, apperrors.ErrBalanceNegative)
		assert.Equal(t, before, ledger)
	})
}

func TestLedgerEngine_Delete(t *testing.T) {
	t.Run("unknown id is rejected", func(t *testing.T) {
		e := newTestEngine()
		assert.ErrorIs(t, e.Delete(models.Ledger{}, newObjectID(t)), apperrors.ErrTransactionNotFound)
	})

	t.Run("deleting the sole transaction removes the bucket key", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}
		id, err := e.Insert(ledger, fields("BTC", true, "100", "1", 100))
		require.NoError(t, err)

		require.NoError(t, e.Delete(ledger, id))

		assert.NotContains(t, ledger, "BTC")
		assert.Empty(t, ledger)
	})

	t.Run("deleting a sell-covering buy is rejected and restored", func(t *testing.T) {
		e := newTestEngine()
		ledger := models.Ledger{}
		buyID, err := e.Insert(ledger, fields("BTC", true, "100", "1", 100))
		require.NoError(t, err)
		_, err = e.Insert(ledger, fields("BTC", false, "100", "1", 200))
		require.NoError(t, err)
		before := ledger.Clone()

		err = e.Delete(ledger, buyID)

		assert.ErrorIs(t, err, apperrors.ErrBalanceNegative)
		assert.Equal(t, before, ledger)
	})
}

func TestLedgerEngine_ClearAll(t *testing.T) {
	e := newTestEngine()
	ledger := models.Ledger{}
	_, err := e.Insert(ledger, fields("BTC", true, "100", "1", 100))
	require.NoError(t, err)
	_, err = e.Insert(ledger, fields("ETH", true, "100", "2", 100))
	require.NoError(t, err)

	e.ClearAll(ledger)

	assert.Empty(t, ledger)
}

func TestLedgerEngine_InvariantAcrossOperations(t *testing.T) {
	// Every accepted mutation must leave every bucket valid; drive a mixed
	// sequence and re-check all buckets after each committed step.
	e := newTestEngine()
	ledger := models.Ledger{}

	checkAll := func(t *testing.T) {
		t.Helper()
		for symbol, bucket := range ledger {
			require.NotEmpty(t, bucket, "empty bucket left behind for %s", symbol)
			assert.Equal(t, -1, firstViolation(sortedByTimestamp(bucket)), "bucket %s violated", symbol)
		}
	}

	btcBuy, err := e.Insert(ledger, fields("BTC", true, "100", "10", 100))
	require.NoError(t, err)
	checkAll(t)

	_, err = e.Insert(ledger, fields("BTC", false, "110", "4", 200))
	require.NoError(t, err)
	checkAll(t)

	_, err = e.Insert(ledger, fields("ETH", true, "10", "3", 50))
	require.NoError(t, err)
	checkAll(t)

	_, err = e.Update(ledger, btcBuy, fields("BTC", true, "100", "5", 100))
	require.NoError(t, err)
	checkAll(t)

	// Shrinking the buy below the outstanding sell must fail and commit
	// nothing.
	_, err = e.Update(ledger, btcBuy, fields("BTC", true, "100", "3", 100))
	require.Error(t, err)
	checkAll(t)
}

func newObjectID(t *testing.T) primitive.ObjectID {
	t.Helper()
	return primitive.NewObjectID()
}
