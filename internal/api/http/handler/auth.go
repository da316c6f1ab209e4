package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vacekto/streamit-auth/internal/logger"
	"github.com/vacekto/streamit-auth/internal/model"
)

// CredentialService validates local and federated credentials and creates
// directory entries.
type CredentialService interface {
	Register(ctx context.Context, username, email, password string) (model.User, error)
	ValidateLocal(ctx context.Context, email, password string) (model.User, error)
	ValidateFederated(ctx context.Context, rawIDToken string) (model.User, error)
}

// TokenService owns the token-pair lifecycle.
type TokenService interface {
	Issue(ctx context.Context, user model.User) (model.TokenPair, error)
	Rotate(ctx context.Context, claims model.TokenClaims) (model.TokenPair, error)
	Revoke(ctx context.Context, claims model.TokenClaims) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// Options carries the handler's wire-level settings.
type Options struct {
	// CookieName is the refresh-token cookie name.
	CookieName string
	// CookieSecure marks the refresh cookie Secure; on in production.
	CookieSecure bool
	// RefreshTTL bounds the refresh cookie Max-Age.
	RefreshTTL time.Duration
	// AppOrigin is the browser origin the federated callback page posts
	// the access token to.
	AppOrigin string
}

// Auth handles the HTTP authentication endpoints.
type Auth struct {
	credentials    CredentialService
	tokens         TokenService
	states         model.StateStore
	idp            model.IdentityProvider
	contextManager model.ContextManager
	opts           Options
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	credentials CredentialService,
	tokens TokenService,
	states model.StateStore,
	idp model.IdentityProvider,
	contextManager model.ContextManager,
	opts Options,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		credentials:    credentials,
		tokens:         tokens,
		states:         states,
		idp:            idp,
		contextManager: contextManager,
		opts:           opts,
		logger:         logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Register creates a new directory entry with a hashed password.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ReasonBadRequest})
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ReasonBadRequest})
		return
	}

	user, err := h.credentials.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login validates local credentials and issues a token pair. The access
// token travels in the body, the refresh token only as a cookie.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ReasonBadRequest})
		return
	}

	user, err := h.credentials.ValidateLocal(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	h.issuePair(w, r, user)
}

// Refresh rotates the verified refresh token for a new pair. The guard has
// already verified signature, expiry, and registry liveness; rotation itself
// claims the old token-id atomically.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, fmt.Errorf("no claims in context"))
		return
	}

	pair, err := h.tokens.Rotate(r.Context(), claims)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: pair.AccessToken})
}

// Logout revokes the presented session and clears the cookie.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, fmt.Errorf("no claims in context"))
		return
	}

	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll revokes every session of the principal.
func (h *Auth) LogoutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, fmt.Errorf("no claims in context"))
		return
	}

	if err := h.tokens.RevokeAll(r.Context(), claims.UserID); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the claims verified by the access guard.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, fmt.Errorf("no claims in context"))
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
	})
}

// GoogleRedirect stores a single-use state parameter and redirects the
// browser to the provider's consent page.
func (h *Auth) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	state, err := h.states.Create(r.Context())
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	http.Redirect(w, r, h.idp.AuthCodeURL(state), http.StatusFound)
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Signing in</title></head>
<body>
<script>
	window.opener.postMessage({accessToken: {{.AccessToken}}}, {{.Origin}});
	window.close();
</script>
</body>
</html>
`))

// GoogleCallback finishes a federated login: the state parameter is redeemed
// exactly once, the authorization code is exchanged and verified, and the
// access token is handed to the opener window via postMessage while the
// refresh token is set as a cookie on this response.
func (h *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ReasonBadRequest})
		return
	}

	live, err := h.states.Consume(r.Context(), state)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	if !live {
		h.logger.Warn("Auth handler: unknown or replayed state parameter")
		WriteError(w, h.logger, model.ErrInvalidCredentials)
		return
	}

	rawIDToken, err := h.idp.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Info("Auth handler: code exchange failed",
			"error", err.Error())
		WriteError(w, h.logger, model.ErrInvalidCredentials)
		return
	}

	user, err := h.credentials.ValidateFederated(r.Context(), rawIDToken)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	pair, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := callbackPage.Execute(w, map[string]string{
		"AccessToken": pair.AccessToken,
		"Origin":      h.opts.AppOrigin,
	}); err != nil {
		h.logger.Error("Auth handler: failed to render callback page",
			"error", err.Error())
	}
}

func (h *Auth) issuePair(w http.ResponseWriter, r *http.Request, user model.User) {
	pair, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: pair.AccessToken})
}

// The refresh cookie is scoped to /auth so it only travels on refresh,
// logout, and federated-callback requests.
func (h *Auth) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    token,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.opts.RefreshTTL.Seconds()),
	})
}

func (h *Auth) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
