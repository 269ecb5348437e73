package response

import (
	"time"

	"gatehouse/internal/domain/entity"
	"gatehouse/internal/usecase"

	"github.com/google/uuid"
)

// UserView is the public shape of a user account. The password hash never
// leaves the domain layer, so it has no field here at all.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthView pairs an issued access token with the account it belongs to.
type AuthView struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// NewUserView maps a domain user to its public representation.
func NewUserView(user *entity.User) UserView {
	return UserView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewAuthView maps a usecase auth result to its public representation.
func NewAuthView(output *usecase.AuthOutput) AuthView {
	return AuthView{
		Token: output.Token,
		User:  NewUserView(output.User),
	}
}
