package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vacekto/streamit-auth/internal/logger"
	"github.com/vacekto/streamit-auth/internal/model"
)

// dummyHash is compared against when the looked-up user does not exist so the
// missing-user path costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy password"), bcrypt.DefaultCost)

// Auth validates local and federated credentials against the user directory.
type Auth struct {
	directory model.Directory
	idp       model.IdentityProvider
	logger    *logger.Logger
}

func NewAuth(directory model.Directory, idp model.IdentityProvider, logger *logger.Logger) *Auth {
	return &Auth{
		directory: directory,
		idp:       idp,
		logger:    logger,
	}
}

func (a *Auth) Register(ctx context.Context, username, email, password string) (model.User, error) {
	a.logger.Debug("Auth service: registering user",
		"email", email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.directory.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateIdentity) {
			a.logger.Info("Auth service: email already registered",
				"email", email)
			return model.User{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"email", email)

	return user, nil
}

func (a *Auth) ValidateLocal(ctx context.Context, email, password string) (model.User, error) {
	user, err := a.directory.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Burn the same bcrypt work as the happy path.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			a.logger.Info("Auth service: login for unknown email",
				"email", email)
			return model.User{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID)
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

func (a *Auth) ValidateFederated(ctx context.Context, rawIDToken string) (model.User, error) {
	identity, err := a.idp.Verify(ctx, rawIDToken)
	if err != nil {
		a.logger.Info("Auth service: id token rejected",
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: %v", model.ErrInvalidCredentials, err)
	}

	user, err := a.directory.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: federated identity has no account",
				"subject", identity.Subject)
			return model.User{}, model.ErrNoSuchUser
		}
		a.logger.Error("Auth service: failed to get user by email",
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	a.logger.Debug("Auth service: federated identity resolved",
		"user_id", user.ID)

	return user, nil
}
