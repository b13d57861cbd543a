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

	"github.com/Myphz/wwwallet-be/internal/config"
	"github.com/Myphz/wwwallet-be/internal/models"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*models.CustomClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomClaims), args.Error(1)
}

func setupAuthRouter(authService *MockAuthService, tokenService *MockTokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	jwtConfig := &config.JWTConfig{
		SecretKey:  "test-secret",
		TokenTTL:   time.Hour,
		Issuer:     "test",
		CookieName: "jwt",
	}
	controller := NewAuthController(authService, tokenService, jwtConfig, false)

	router := gin.New()
	router.POST("/api/auth/register", controller.Register)
	router.POST("/api/auth/login", controller.Login)
	router.DELETE("/api/auth/logout", controller.Logout)

	return router
}

func TestAuthController_Register(t *testing.T) {
	t.Run("sets session cookie and returns token", func(t *testing.T) {
		authService := new(MockAuthService)
		tokenService := new(MockTokenService)
		router := setupAuthRouter(authService, tokenService)

		user := &models.User{ID: primitive.NewObjectID(), Email: "new@example.com"}
		authService.On("Register", mock.Anything, "new@example.com", "SecurePass123").Return(user, nil).Once()
		tokenService.On("GenerateToken", user).Return("signed.jwt.token", nil).Once()

		body, _ := json.Marshal(map[string]string{
			"email":    "new@example.com",
			"password": "SecurePass123",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 1)
		assert.Equal(t, "jwt", cookies[0].Name)
		assert.Equal(t, "signed.jwt.token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "signed.jwt.token", data["token"])
		authService.AssertExpectations(t)
	})

	t.Run("duplicate email maps to 409", func(t *testing.T) {
		authService := new(MockAuthService)
		tokenService := new(MockTokenService)
		router := setupAuthRouter(authService, tokenService)

		authService.On("Register", mock.Anything, "taken@example.com", "SecurePass123").
			Return(nil, apperrors.ErrEmailRegistered).Once()

		body, _ := json.Marshal(map[string]string{
			"email":    "taken@example.com",
			"password": "SecurePass123",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		tokenService.AssertNotCalled(t, "GenerateToken", mock.Anything)
	})
}

func TestAuthController_Login(t *testing.T) {
	t.Run("wrong credentials map to 401", func(t *testing.T) {
		authService := new(MockAuthService)
		tokenService := new(MockTokenService)
		router := setupAuthRouter(authService, tokenService)

		authService.On("Authenticate", mock.Anything, "user@example.com", "wrong").
			Return(nil, apperrors.ErrInvalidCredentials).Once()

		body, _ := json.Marshal(map[string]string{
			"email":    "user@example.com",
			"password": "wrong",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestAuthController_Logout(t *testing.T) {
	authService := new(MockAuthService)
	tokenService := new(MockTokenService)
	router := setupAuthRouter(authService, tokenService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/auth/logout", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
