package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/config"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/security"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// Service exposes user operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	GetByID(ctx context.Context, id int64) (*UserDTO, error)
	GetByEmail(ctx context.Context, email string) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*UserDTO, error)
	Activate(ctx context.Context, id int64) (*UserDTO, error)
	Deactivate(ctx context.Context, id int64) (*UserDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// NewService builds a user service with the provided repository.
func NewService(repo userRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	if taken, err := s.repo.ExistsByEmail(ctx, email, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email uniqueness")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	if input.Phone != nil && *input.Phone != "" {
		if taken, err := s.repo.ExistsByPhone(ctx, *input.Phone, 0); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check phone uniqueness")
		} else if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
		}
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	role := enums.UserRoleCustomer
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = *input.Role
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		Country:      input.Country,
		ZipCode:      input.ZipCode,
		Role:         role,
		IsActive:     true,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(created), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return fromModels(users), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		if taken, err := s.repo.ExistsByEmail(ctx, email, id); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email uniqueness")
		} else if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		user.Email = email
	}
	if input.Phone != nil && *input.Phone != "" {
		if taken, err := s.repo.ExistsByPhone(ctx, *input.Phone, id); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check phone uniqueness")
		} else if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
		}
		user.Phone = input.Phone
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.City != nil {
		user.City = input.City
	}
	if input.State != nil {
		user.State = input.State
	}
	if input.Country != nil {
		user.Country = input.Country
	}
	if input.ZipCode != nil {
		user.ZipCode = input.ZipCode
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		user.Role = *input.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) Activate(ctx context.Context, id int64) (*UserDTO, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) Deactivate(ctx context.Context, id int64) (*UserDTO, error) {
	return s.setActive(ctx, id, false)
}

func (s *service) setActive(ctx context.Context, id int64, active bool) (*UserDTO, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user status")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}
