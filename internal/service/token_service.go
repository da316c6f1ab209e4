package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vacekto/streamit-auth/internal/logger"
	"github.com/vacekto/streamit-auth/internal/model"
)

// TokenService owns the refresh-token lifecycle: issuing pairs, rotating on
// refresh, and revoking sessions. It composes the TokenIssuer and the
// SessionRegistry; the registry entry is what makes a refresh token
// revocable before its signed expiry.
type TokenService struct {
	issuer    model.TokenIssuer
	registry  model.SessionRegistry
	directory model.Directory
	logger    *logger.Logger
}

func NewTokenService(issuer model.TokenIssuer, registry model.SessionRegistry, directory model.Directory, logger *logger.Logger) *TokenService {
	return &TokenService{
		issuer:    issuer,
		registry:  registry,
		directory: directory,
		logger:    logger,
	}
}

// Issue mints a new access/refresh pair and registers the refresh token-id.
// A pair whose registration failed is never returned: the refresh token
// would be dead on arrival.
func (s *TokenService) Issue(ctx context.Context, user model.User) (model.TokenPair, error) {
	_, access, err := s.issuer.SignAccess(user)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims, refresh, err := s.issuer.SignRefresh(user)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if err := s.registry.Register(ctx, user.ID, refreshClaims.TokenID); err != nil {
		s.logger.Error("Token service: failed to register session",
			"user_id", user.ID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to register session: %w", err)
	}

	// Opportunistic cleanup of index entries whose sessions already
	// expired. Never fails the issuance.
	if err := s.registry.Prune(ctx, user.ID); err != nil {
		s.logger.Warn("Token service: failed to prune session index",
			"user_id", user.ID,
			"error", err.Error())
	}

	s.logger.Debug("Token service: pair issued",
		"user_id", user.ID,
		"token_id", refreshClaims.TokenID)

	return model.TokenPair{
		AccessToken:   access,
		RefreshToken:  refresh,
		RefreshClaims: refreshClaims,
	}, nil
}

// Rotate redeems a verified refresh token for a new pair. The old token-id
// is claimed with an atomic delete-if-present: when two requests race on the
// same token, exactly one wins and the loser gets ErrTokenRevoked.
func (s *TokenService) Rotate(ctx context.Context, claims model.TokenClaims) (model.TokenPair, error) {
	existed, err := s.registry.Invalidate(ctx, claims.TokenID, claims.UserID)
	if err != nil {
		s.logger.Error("Token service: failed to invalidate session",
			"token_id", claims.TokenID,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to invalidate session: %w", err)
	}
	if !existed {
		s.logger.Warn("Token service: refresh replay on rotated token",
			"user_id", claims.UserID,
			"token_id", claims.TokenID)
		return model.TokenPair{}, model.ErrTokenRevoked
	}

	user, err := s.directory.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, model.ErrNoSuchUser
		}
		return model.TokenPair{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return s.Issue(ctx, user)
}

// Revoke ends the session behind a verified refresh token. Revoking an
// already-dead session is not an error; logout is idempotent.
func (s *TokenService) Revoke(ctx context.Context, claims model.TokenClaims) error {
	if _, err := s.registry.Invalidate(ctx, claims.TokenID, claims.UserID); err != nil {
		s.logger.Error("Token service: failed to invalidate session",
			"token_id", claims.TokenID,
			"error", err.Error())
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	s.logger.Info("Token service: session revoked",
		"user_id", claims.UserID,
		"token_id", claims.TokenID)

	return nil
}

// RevokeAll ends every live session of the user.
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.registry.InvalidateAll(ctx, userID); err != nil {
		s.logger.Error("Token service: failed to invalidate user sessions",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to invalidate user sessions: %w", err)
	}

	s.logger.Info("Token service: all sessions revoked",
		"user_id", userID)

	return nil
}
