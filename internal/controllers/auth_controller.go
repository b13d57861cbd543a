package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Myphz/wwwallet-be/internal/config"
	"github.com/Myphz/wwwallet-be/internal/dto"
	"github.com/Myphz/wwwallet-be/internal/middleware"
	"github.com/Myphz/wwwallet-be/internal/services"
	"github.com/Myphz/wwwallet-be/pkg/utils"
)

// AuthController issues and clears the session cookie. The token is also
// returned in the body so non-browser clients can use the Bearer header
// instead.
type AuthController struct {
	authService  services.AuthService
	tokenService services.TokenService
	jwtConfig    *config.JWTConfig
	secureCookie bool
}

func NewAuthController(authService services.AuthService, tokenService services.TokenService, jwtConfig *config.JWTConfig, secureCookie bool) *AuthController {
	return &AuthController{
		authService:  authService,
		tokenService: tokenService,
		jwtConfig:    jwtConfig,
		secureCookie: secureCookie,
	}
}

// Register creates a new account and logs it in immediately.
func (ac *AuthController) Register(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err)
		return
	}

	user, err := ac.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	token, err := ac.tokenService.GenerateToken(user)
	if err != nil {
		utils.SendInternalError(c, err)
		return
	}

	ac.setSessionCookie(c, token)
	utils.SendSuccessResponse(c, http.StatusCreated, "User created successfully", dto.AuthResponse{Token: token})
}

// Login authenticates the credentials and sets the session cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err)
		return
	}

	user, err := ac.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	token, err := ac.tokenService.GenerateToken(user)
	if err != nil {
		utils.SendInternalError(c, err)
		return
	}

	ac.setSessionCookie(c, token)
	utils.SendSuccessResponse(c, http.StatusOK, "Login successful", dto.AuthResponse{Token: token})
}

// Logout clears the session cookie. It is deliberately not authenticated:
// clearing an absent cookie is harmless.
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(ac.jwtConfig.CookieName, "", -1, "/", "", ac.secureCookie, true)
	utils.SendSuccessResponse(c, http.StatusOK, "Logout successful", nil)
}

// Verify confirms the session is valid and returns the account's email. It
// runs behind AuthMiddleware, so reaching it at all means the token checked
// out.
func (ac *AuthController) Verify(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	utils.SendSuccessResponse(c, http.StatusOK, "Token is valid", gin.H{
		"id":    userID.Hex(),
		"email": c.GetString("email"),
	})
}

func (ac *AuthController) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(ac.jwtConfig.TokenTTL.Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(ac.jwtConfig.CookieName, token, maxAge, "/", "", ac.secureCookie, true)
}
