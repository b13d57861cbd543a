package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Myphz/wwwallet-be/internal/models"
	"github.com/Myphz/wwwallet-be/internal/repositories"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
	"github.com/Myphz/wwwallet-be/pkg/utils"
)

type UserService interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ChangePassword(ctx context.Context, id primitive.ObjectID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, id primitive.ObjectID) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

func (s *userService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) ChangePassword(ctx context.Context, id primitive.ObjectID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := utils.ValidatePassword(newPassword); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, id, hashedPassword)
}

// DeleteAccount removes the user document outright; the user's ledger is
// destroyed with it.
func (s *userService) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	return s.userRepo.Delete(ctx, id)
}
