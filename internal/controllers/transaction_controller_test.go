package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Myphz/wwwallet-be/internal/dto"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, userID primitive.ObjectID) (map[string][]dto.TransactionResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]dto.TransactionResponse), args.Error(1)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, userID primitive.ObjectID, req *dto.TransactionRequest) (string, error) {
	args := m.Called(ctx, userID, req)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, userID primitive.ObjectID, id string, req *dto.TransactionRequest) (string, error) {
	args := m.Called(ctx, userID, id, req)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, userID primitive.ObjectID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTransactionService) ClearTransactions(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type noopMetrics struct{}

func (noopMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
}
func (noopMetrics) RecordLedgerOperation(operation, status string, duration time.Duration) {}
func (noopMetrics) IncrementBalanceRejections(operation string)                            {}
func (noopMetrics) RecordExternalServiceCall(service string, success bool, duration time.Duration) {
}
func (noopMetrics) RecordSystemMetrics() {}

func setupTransactionRouter(service *MockTransactionService, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dto.RegisterCustomValidators()

	controller := NewTransactionController(service, noopMetrics{})

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})

	router.GET("/api/transactions", controller.ListTransactions)
	router.POST("/api/transactions", controller.CreateTransaction)
	router.PUT("/api/transactions/:id", controller.UpdateTransaction)
	router.DELETE("/api/transactions/:id", controller.DeleteTransaction)
	router.DELETE("/api/transactions", controller.ClearTransactions)

	return router
}

func validRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"crypto":   "BTC",
		"base":     "EUR",
		"isBuy":    true,
		"price":    "26100.50",
		"quantity": "0.5",
		"date":     1700000000000,
	}
}

func TestTransactionController_Create(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("returns id of accepted transaction", func(t *testing.T) {
		service := new(MockTransactionService)
		router := setupTransactionRouter(service, userID)

		newID := primitive.NewObjectID().Hex()
		service.On("CreateTransaction", mock.Anything, userID, mock.AnythingOfType("*dto.TransactionRequest")).
			Return(newID, nil).Once()

		body, _ := json.Marshal(validRequestBody())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/transactions", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.True(t, response["success"].(bool))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, newID, data["id"])
		service.AssertExpectations(t)
	})

	t.Run("balance violation maps to 422", func(t *testing.T) {
		service := new(MockTransactionService)
		router := setupTransactionRouter(service, userID)

		service.On("CreateTransaction", mock.Anything, userID, mock.Anything).
			Return("", apperrors.ErrBalanceNegative).Once()

		payload := validRequestBody()
		payload["isBuy"] = false
		body, _ := json.Marshal(payload)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/transactions", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.False(t, response["success"].(bool))
		assert.Contains(t, response["message"], "balance")
	})

	t.Run("missing required fields rejected before service", func(t *testing.T) {
		service := new(MockTransactionService)
		router := setupTransactionRouter(service, userID)

		payload := validRequestBody()
		delete(payload, "crypto")
		body, _ := json.Marshal(payload)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/transactions", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTransactionController_List(t *testing.T) {
	userID := primitive.NewObjectID()
	service := new(MockTransactionService)
	router := setupTransactionRouter(service, userID)

	ledger := map[string][]dto.TransactionResponse{
		"BTC": {
			{
				ID:       primitive.NewObjectID().Hex(),
				Crypto:   "BTC",
				Base:     "EUR",
				IsBuy:    true,
				Price:    "26100.5",
				Quantity: "0.5",
				Date:     1700000000000,
			},
		},
	}
	service.On("ListTransactions", mock.Anything, userID).Return(ledger, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/transactions", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Len(t, data["BTC"], 1)
	service.AssertExpectations(t)
}

func TestTransactionController_Delete(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("unknown id maps to 404", func(t *testing.T) {
		service := new(MockTransactionService)
		router := setupTransactionRouter(service, userID)

		id := primitive.NewObjectID().Hex()
		service.On("DeleteTransaction", mock.Anything, userID, id).
			Return(apperrors.ErrTransactionNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/transactions/"+id, nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("clear all succeeds", func(t *testing.T) {
		service := new(MockTransactionService)
		router := setupTransactionRouter(service, userID)

		service.On("ClearTransactions", mock.Anything, userID).Return(nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/transactions", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		service.AssertExpectations(t)
	})
}
