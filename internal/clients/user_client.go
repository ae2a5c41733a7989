package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/registry"
)

// User is the subset of the user record that other services consume.
type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	IsActive  bool    `json:"is_active"`
}

// UserClient calls the user service.
type UserClient struct {
	base *base
}

// NewUserClient builds a user service client.
func NewUserClient(resolver registry.Resolver, opts ...Option) (*UserClient, error) {
	b, err := newBase(registry.ServiceUser, resolver, opts...)
	if err != nil {
		return nil, err
	}
	return &UserClient{base: b}, nil
}

// GetUser fetches a user by id.
func (c *UserClient) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), "get_user", nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
