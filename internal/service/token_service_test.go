package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacekto/streamit-auth/internal/logger"
	servermocks "github.com/vacekto/streamit-auth/internal/mocks"
	"github.com/vacekto/streamit-auth/internal/model"
)

func testUser() model.User {
	return model.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func refreshClaims(user model.User, tokenID string) model.TokenClaims {
	return model.TokenClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		TokenID:   tokenID,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	issuer.On("SignAccess", user).Return(model.TokenClaims{}, "access", nil).Once()
	issuer.On("SignRefresh", user).Return(refreshClaims(user, "tid-1"), "refresh", nil).Once()
	registry.On("Register", ctx, user.ID, "tid-1").Return(nil).Once()
	registry.On("Prune", ctx, user.ID).Return(nil).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken)
	assert.Equal(t, "refresh", pair.RefreshToken)
	assert.Equal(t, "tid-1", pair.RefreshClaims.TokenID)
}

func TestTokenService_Issue_RegisterError(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	issuer.On("SignAccess", user).Return(model.TokenClaims{}, "access", nil).Once()
	issuer.On("SignRefresh", user).Return(refreshClaims(user, "tid-1"), "refresh", nil).Once()
	registry.On("Register", ctx, user.ID, "tid-1").Return(model.ErrRegistryUnavailable).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	_, err := svc.Issue(ctx, user)
	require.ErrorIs(t, err, model.ErrRegistryUnavailable)
}

func TestTokenService_Issue_PruneFailureIgnored(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	issuer.On("SignAccess", user).Return(model.TokenClaims{}, "access", nil).Once()
	issuer.On("SignRefresh", user).Return(refreshClaims(user, "tid-1"), "refresh", nil).Once()
	registry.On("Register", ctx, user.ID, "tid-1").Return(nil).Once()
	registry.On("Prune", ctx, user.ID).Return(assert.AnError).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken)
}

func TestTokenService_Issue_SignError(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	issuer.On("SignAccess", user).Return(model.TokenClaims{}, "", assert.AnError).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	_, err := svc.Issue(ctx, user)
	require.Error(t, err)
}

func TestTokenService_Rotate_Success(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	old := refreshClaims(user, "tid-old")

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	registry.On("Invalidate", ctx, "tid-old", user.ID).Return(true, nil).Once()
	directory.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	issuer.On("SignAccess", user).Return(model.TokenClaims{}, "access-new", nil).Once()
	issuer.On("SignRefresh", user).Return(refreshClaims(user, "tid-new"), "refresh-new", nil).Once()
	registry.On("Register", ctx, user.ID, "tid-new").Return(nil).Once()
	registry.On("Prune", ctx, user.ID).Return(nil).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	pair, err := svc.Rotate(ctx, old)
	require.NoError(t, err)
	assert.Equal(t, "access-new", pair.AccessToken)
	assert.Equal(t, "refresh-new", pair.RefreshToken)
	assert.Equal(t, "tid-new", pair.RefreshClaims.TokenID)
}

func TestTokenService_Rotate_AlreadyRotated(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	old := refreshClaims(user, "tid-old")

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	registry.On("Invalidate", ctx, "tid-old", user.ID).Return(false, nil).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	_, err := svc.Rotate(ctx, old)
	require.ErrorIs(t, err, model.ErrTokenRevoked)
}

func TestTokenService_Rotate_RegistryDown(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	old := refreshClaims(user, "tid-old")

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	registry.On("Invalidate", ctx, "tid-old", user.ID).Return(false, model.ErrRegistryUnavailable).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	_, err := svc.Rotate(ctx, old)
	require.ErrorIs(t, err, model.ErrRegistryUnavailable)
}

func TestTokenService_Rotate_UserGone(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	old := refreshClaims(user, "tid-old")

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	registry.On("Invalidate", ctx, "tid-old", user.ID).Return(true, nil).Once()
	directory.On("GetByID", ctx, user.ID).Return(model.User{}, model.ErrNotFound).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	_, err := svc.Rotate(ctx, old)
	require.ErrorIs(t, err, model.ErrNoSuchUser)
}

func TestTokenService_Revoke_Idempotent(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	claims := refreshClaims(user, "tid")

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	registry.On("Invalidate", ctx, "tid", user.ID).Return(false, nil).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	require.NoError(t, svc.Revoke(ctx, claims))
}

func TestTokenService_RevokeAll(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	issuer := &servermocks.TokenIssuer{}
	registry := &servermocks.SessionRegistry{}
	directory := &servermocks.Directory{}

	registry.On("InvalidateAll", ctx, user.ID).Return(nil).Once()

	svc := NewTokenService(issuer, registry, directory, logger.New(0))

	require.NoError(t, svc.RevokeAll(ctx, user.ID))
}
