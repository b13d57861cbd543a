package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Myphz/wwwallet-be/internal/dto"
	"github.com/Myphz/wwwallet-be/internal/middleware"
	"github.com/Myphz/wwwallet-be/internal/services"
	"github.com/Myphz/wwwallet-be/pkg/utils"
)

type AccountController struct {
	userService services.UserService
}

func NewAccountController(userService services.UserService) *AccountController {
	return &AccountController{
		userService: userService,
	}
}

// ChangePassword rotates the password after verifying the current one.
func (ac *AccountController) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := ac.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendSuccessResponse(c, http.StatusOK, "Password updated successfully", nil)
}

// DeleteAccount removes the account and its entire ledger.
func (ac *AccountController) DeleteAccount(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	if err := ac.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendSuccessResponse(c, http.StatusOK, "Account deleted successfully", nil)
}
