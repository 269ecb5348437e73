// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gatehouse/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
// Field rules mirror the user record constraints: name 3-50 characters,
// valid email, password 6-100 characters, role limited to the known enum.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AuthOutput returns the issued access token together with the account it
// belongs to. The delivery layer is responsible for serializing the user
// without its password hash.
type AuthOutput struct {
	Token string
	User  *entity.User
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new account and issues its first access token.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
}
