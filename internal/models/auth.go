package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims are the JWT claims issued at login/registration.
type CustomClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
