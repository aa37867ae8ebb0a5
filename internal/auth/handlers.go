package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/algosync/pkg/http/errors"
)

const oauthStateCookie = "oauth_state"

// HTTPHandlers provides REST endpoints for authentication.
type HTTPHandlers struct {
	authSvc  *Service
	oauthSvc *OAuthService
	logger   zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints.
func NewHTTPHandlers(authSvc *Service, oauthSvc *OAuthService, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc:  authSvc,
		oauthSvc: oauthSvc,
		logger:   logger.With().Str("component", "auth_http").Logger(),
	}
}

// Register handles POST /v1/auth/register
func (h *HTTPHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, tokens, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeAlreadyExists, err.Error())
			return
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeRegistrationFailed, err.Error())
		return
	}

	h.respondSession(w, http.StatusCreated, user, tokens)
}

// Login handles POST /v1/auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, tokens, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, err.Error())
		return
	}

	h.respondSession(w, http.StatusOK, user, tokens)
}

// RefreshToken handles POST /v1/auth/refresh
func (h *HTTPHandlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	tokens, err := h.authSvc.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeRefreshFailed, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":         tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// Profile handles GET /v1/auth/profile (requires auth middleware)
func (h *HTTPHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Invalid or missing token")
		return
	}

	user, err := h.authSvc.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("profile lookup failed")
		httperrors.RespondInternalError(w, "Failed to load profile")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /v1/auth/profile (requires auth middleware)
func (h *HTTPHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Invalid or missing token")
		return
	}

	var req ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, tokens, err := h.authSvc.UpdateProfile(r.Context(), userID, req)
	switch {
	case err == nil:
	case errors.Is(err, ErrEmailTaken):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeUsernameTaken, err.Error())
		return
	case errors.Is(err, ErrUserNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, err.Error())
		return
	default:
		httperrors.RespondBadRequest(w, httperrors.ErrCodeProfileUpdateFailed, err.Error())
		return
	}

	h.respondSession(w, http.StatusOK, user, tokens)
}

// OAuthStart handles GET /v1/oauth/{provider}/start
func (h *HTTPHandlers) OAuthStart(w http.ResponseWriter, r *http.Request) {
	if h.oauthSvc == nil || !h.oauthSvc.Enabled() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	provider := r.PathValue("provider")
	if provider == "" {
		provider = OAuthProviderGoogle
	}

	// Generate CSRF state token
	state := uuid.New().String()

	authURL, err := h.oauthSvc.StartOAuthFlow(r.Context(), provider, state)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthStartFailed, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateTTL.Seconds()),
	})

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"auth_url": authURL,
		"state":    state,
	})
}

// OAuthCallback handles GET /v1/oauth/{provider}/callback
func (h *HTTPHandlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthSvc == nil || !h.oauthSvc.Enabled() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	provider := r.PathValue("provider")
	if provider == "" {
		provider = OAuthProviderGoogle
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthMissingCode, "Authorization code required")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value != state {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthInvalidState, "Invalid or missing state parameter")
		return
	}

	user, tokens, err := h.oauthSvc.CompleteOAuthFlow(r.Context(), provider, code, state)
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthInvalidState, err.Error())
			return
		}
		h.logger.Warn().Err(err).Str("provider", provider).Msg("oauth callback failed")
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthCallbackFailed, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.respondSession(w, http.StatusOK, user, tokens)
}

func (h *HTTPHandlers) respondSession(w http.ResponseWriter, status int, user *User, tokens *TokenPair) {
	h.respondJSON(w, status, map[string]interface{}{
		"user":          user,
		"token":         tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("encode response failed")
	}
}
