package usecase

import (
	"context"
	"strings"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// UserAdminUseCase holds the account operations reserved to administrators.
type UserAdminUseCase struct {
	users *repository.UserRepository
	log   *logger.Logger
}

func NewUserAdminUseCase(ur *repository.UserRepository, l *logger.Logger) *UserAdminUseCase {
	return &UserAdminUseCase{users: ur, log: l}
}

func (uc *UserAdminUseCase) Search(ctx context.Context, query string) ([]domain.User, error) {
	return uc.users.Search(ctx, query)
}

func (uc *UserAdminUseCase) Update(ctx context.Context, id uuid.UUID, address string, active bool) (*domain.User, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if err := validate.Var(address, "required,email"); err != nil {
		return nil, domain.Invalid("email", "is not a valid address")
	}
	if err := uc.users.UpdateAccount(ctx, id, address, active); err != nil {
		return nil, err
	}
	return uc.users.GetByID(ctx, id)
}

// Delete removes an account. Administrators cannot delete themselves.
func (uc *UserAdminUseCase) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return domain.ErrForbidden
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info("user deleted", "user", id, "by", actor.UserID)
	return nil
}
