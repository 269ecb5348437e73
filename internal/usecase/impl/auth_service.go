// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/domain/service"
	"gatehouse/internal/usecase"

	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	users        repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(
	txManager repository.TransactionManager,
	users repository.UserRepository,
	hasher service.PasswordHasher,
	tokenService service.TokenService,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		txManager:    txManager,
		users:        users,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register orchestrates the complete user registration process:
// uniqueness check, password hashing, persistence and token issuance.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	srv.logger.Info("Starting user registration", "email", email)

	role, err := resolveRole(input.Role)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.logger.Error("Failed to hash password during registration", "error", err)

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("registration failed")
	}

	newUser := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	// Run the duplicate check and the insert in a single database transaction
	// so registration is atomic from the caller's perspective. The unique
	// index on email backs this up if two registrations race anyway.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// 1. Check if a user with this email already exists.
		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			// If no error, a matching user was found.
			return domainerrors.ErrUserAlreadyExists.WrapMessage("user registration failed")
		}
		// We expect a 'not found' error. If it's a different error, something went wrong.
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to find user by email")
		}

		// 2. Persist the new user with the hashed password.
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		srv.logger.Warn("Failed to execute user registration transaction", "error", err, "email", email)

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	// 3. Issue the first access token for the new account.
	token, err := srv.tokenService.Issue(newUser.ID, newUser.Role)
	if err != nil {
		srv.logger.Error("Failed to issue token after registration", "error", err, "userID", newUser.ID)

		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage("registration failed")
	}

	srv.logger.Debug("User registered successfully", "userID", newUser.ID)

	return &usecase.AuthOutput{Token: token, User: newUser}, nil
}

// Login orchestrates the user login process.
// An unknown email and a wrong password produce the same error so the
// response never reveals whether the account exists.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	srv.logger.Debug("Starting user login", "email", email)

	// 1. Find the user by email.
	user, err := srv.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// 2. Check the password.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	// 3. Issue a fresh access token.
	token, err := srv.tokenService.Issue(user.ID, user.Role)
	if err != nil {
		srv.logger.Error("Failed to issue token during login", "error", err, "userID", user.ID)

		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage("login failed")
	}

	srv.logger.Debug("User logged in successfully", "userID", user.ID)

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// normalizeEmail lowercases and trims the address so lookups and the unique
// index always see the same key.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// resolveRole maps the optional caller-supplied role onto the enum,
// defaulting to the regular user role.
//
// The caller-supplied role is accepted as-is, so any client can self-assign
// admin at registration. TODO: restrict self-assigned admin once the product
// decides on an admin invite flow.
func resolveRole(raw string) (entity.Role, error) {
	if raw == "" {
		return entity.DefaultRole, nil
	}

	role := entity.Role(raw)
	if !role.IsValid() {
		return "", domainerrors.ErrValidationFailed.WithDetails("unknown role: " + raw)
	}

	return role, nil
}
