package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateTTL    = 10 * time.Minute
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	ErrOAuthNotConfigured = errors.New("oauth not configured")
	ErrInvalidState       = errors.New("invalid or expired oauth state")
)

// OAuthUserInfo contains user data from OAuth provider.
type OAuthUserInfo struct {
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// OAuthService handles OAuth flows with full token exchange.
type OAuthService struct {
	googleConfig *oauth2.Config
	redis        *redis.Client
	authSvc      *Service
	logger       zerolog.Logger
	httpClient   *http.Client
	userInfoURL  string
}

// NewOAuthService creates an OAuth service with provider credentials.
// States are kept in Redis so a callback can be served by any instance.
func NewOAuthService(googleClientID, googleClientSecret, googleRedirectURI string, redisClient *redis.Client, authSvc *Service, logger zerolog.Logger) *OAuthService {
	var cfg *oauth2.Config
	if googleClientID != "" {
		cfg = &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			RedirectURL:  googleRedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &OAuthService{
		googleConfig: cfg,
		redis:        redisClient,
		authSvc:      authSvc,
		logger:       logger.With().Str("component", "oauth").Logger(),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		userInfoURL:  googleUserInfoURL,
	}
}

// Enabled reports whether Google credentials were configured.
func (s *OAuthService) Enabled() bool {
	return s.googleConfig != nil
}

// StartOAuthFlow records state and returns the Google authorization URL.
func (s *OAuthService) StartOAuthFlow(ctx context.Context, provider, state string) (string, error) {
	if provider != OAuthProviderGoogle {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
	if !s.Enabled() {
		return "", ErrOAuthNotConfigured
	}

	if err := s.redis.Set(ctx, stateKey(state), provider, oauthStateTTL).Err(); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}

	return s.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// CompleteOAuthFlow validates state, exchanges the code and logs the user in.
func (s *OAuthService) CompleteOAuthFlow(ctx context.Context, provider, code, state string) (*User, *TokenPair, error) {
	if !s.Enabled() {
		return nil, nil, ErrOAuthNotConfigured
	}

	stored, err := s.redis.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(err, redis.Nil) || stored != provider {
		return nil, nil, ErrInvalidState
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load oauth state: %w", err)
	}

	info, err := s.exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if info.Email == "" {
		return nil, nil, fmt.Errorf("OAuth provider did not return email")
	}

	return s.authSvc.findOrCreateOAuthUser(ctx, provider, info)
}

func (s *OAuthService) exchange(ctx context.Context, code string) (*OAuthUserInfo, error) {
	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("OAuth token exchange failed")
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info API returned status %d", resp.StatusCode)
	}

	var googleUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &OAuthUserInfo{
		ProviderID: googleUser.ID,
		Email:      googleUser.Email,
		Name:       googleUser.Name,
		AvatarURL:  googleUser.Picture,
	}, nil
}

func stateKey(state string) string {
	return "oauth_state:" + state
}
