package users

import (
	"time"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID        int64          `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Phone     *string        `json:"phone,omitempty"`
	Address   *string        `json:"address,omitempty"`
	City      *string        `json:"city,omitempty"`
	State     *string        `json:"state,omitempty"`
	Country   *string        `json:"country,omitempty"`
	ZipCode   *string        `json:"zip_code,omitempty"`
	Role      enums.UserRole `json:"role"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateUserInput carries the fields accepted when registering a user. The
// plain password is hashed by the service and never stored.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     *string
	Address   *string
	City      *string
	State     *string
	Country   *string
	ZipCode   *string
	Role      *enums.UserRole
}

// UpdateUserInput captures the mutable user fields. Nil means unchanged.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Phone     *string
	Address   *string
	City      *string
	State     *string
	Country   *string
	ZipCode   *string
	Role      *enums.UserRole
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		City:      u.City,
		State:     u.State,
		Country:   u.Country,
		ZipCode:   u.ZipCode,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func fromModels(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *FromModel(&users[i]))
	}
	return out
}
