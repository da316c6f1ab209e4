package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vacekto/streamit-auth/internal/api/http/handler"
	"github.com/vacekto/streamit-auth/internal/logger"
	"github.com/vacekto/streamit-auth/internal/model"
)

// check is one guard-pipeline stage run against already-verified claims.
type check func(ctx context.Context, claims model.TokenClaims) error

// Guard authenticates requests with an explicit ordered check pipeline.
// Access routes run signature then expiry; refresh routes additionally
// consult the session registry, making revocation effective before the
// signed expiry. A registry failure rejects the request: correctness wins
// over availability here.
type Guard struct {
	issuer         model.TokenIssuer
	registry       model.SessionRegistry
	contextManager model.ContextManager
	cookieName     string
	logger         *logger.Logger
}

// NewGuard creates a new Guard middleware instance. cookieName is the
// refresh-token cookie to read on refresh routes.
func NewGuard(issuer model.TokenIssuer, registry model.SessionRegistry, contextManager model.ContextManager, cookieName string, logger *logger.Logger) *Guard {
	return &Guard{
		issuer:         issuer,
		registry:       registry,
		contextManager: contextManager,
		cookieName:     cookieName,
		logger:         logger,
	}
}

// RequireAccess guards routes authenticated by a bearer access token.
func (g *Guard) RequireAccess(next http.Handler) http.Handler {
	return g.pipeline(next, g.bearerToken, g.issuer.VerifyAccess, []check{g.checkExpiry})
}

// RequireRefresh guards routes authenticated by the refresh-token cookie.
func (g *Guard) RequireRefresh(next http.Handler) http.Handler {
	return g.pipeline(next, g.cookieToken, g.issuer.VerifyRefresh, []check{g.checkExpiry, g.checkRegistry})
}

func (g *Guard) pipeline(next http.Handler, extract func(*http.Request) (string, error), verify func(string) (model.TokenClaims, error), checks []check) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := extract(r)
		if err != nil {
			handler.WriteError(w, g.logger, err)
			return
		}

		// Signature and claim shape only; time and revocation are
		// separate stages so each rejection keeps its own reason.
		claims, err := verify(raw)
		if err != nil {
			handler.WriteError(w, g.logger, err)
			return
		}

		for _, c := range checks {
			if err := c(r.Context(), claims); err != nil {
				handler.WriteError(w, g.logger, err)
				return
			}
		}

		ctx := g.contextManager.SetClaimsToContext(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Guard) bearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return "", model.ErrMalformedToken
	}
	return token, nil
}

func (g *Guard) cookieToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return "", model.ErrMalformedToken
	}
	return cookie.Value, nil
}

func (g *Guard) checkExpiry(_ context.Context, claims model.TokenClaims) error {
	if time.Now().After(claims.ExpiresAt) {
		return model.ErrTokenExpired
	}
	return nil
}

func (g *Guard) checkRegistry(ctx context.Context, claims model.TokenClaims) error {
	live, err := g.registry.Exists(ctx, claims.TokenID)
	if err != nil {
		g.logger.Error("Guard: failed to check session registry",
			"token_id", claims.TokenID,
			"error", err.Error())
		return fmt.Errorf("failed to check session: %w", err)
	}
	if !live {
		return model.ErrTokenRevoked
	}
	return nil
}
