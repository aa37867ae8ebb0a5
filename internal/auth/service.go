package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/algosync/internal/auth/jwt"
	"github.com/gokatarajesh/algosync/internal/db/queries"
	"github.com/gokatarajesh/algosync/internal/db/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email or username already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type userRepository interface {
	Create(ctx context.Context, params queries.CreateUserParams) (queries.User, error)
	GetByEmail(ctx context.Context, email string) (queries.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (queries.User, error)
	UpdateProfile(ctx context.Context, params queries.UpdateUserProfileParams) (queries.User, error)
	UpdateLogin(ctx context.Context, userID uuid.UUID) error
}

// Service handles authentication and user management.
type Service struct {
	userRepo userRepository
	tokenMgr *jwt.Manager
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
}

// NewService creates an authentication service.
func NewService(userRepo userRepository, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new local account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, *TokenPair, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, nil, fmt.Errorf("valid email required")
	}
	if req.Username == "" {
		return nil, nil, fmt.Errorf("username required")
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	dbUser, err := s.userRepo.Create(ctx, queries.CreateUserParams{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: repository.Text(passwordHash),
		AuthProvider: ProviderLocal,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	user := toUser(dbUser)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("email", user.Email).Msg("user registered")

	return &user, tokens, nil
}

// Login authenticates a user with email/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	dbUser, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !dbUser.PasswordHash.Valid {
		return nil, nil, ErrInvalidCredentials
	}
	if err := VerifyPassword(dbUser.PasswordHash.String, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	user := toUser(dbUser)
	if err := s.userRepo.UpdateLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("update last login failed")
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return &user, tokens, nil
}

// Profile returns the account behind userID.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	dbUser, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user := toUser(dbUser)
	return &user, nil
}

// UpdateProfile rewrites profile fields and reissues tokens so claims carry the new identity.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req ProfileUpdate) (*User, *TokenPair, error) {
	current, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	params := queries.UpdateUserProfileParams{
		UserID:    repository.PGUUID(userID),
		FirstName: firstNonEmpty(req.FirstName, current.FirstName),
		LastName:  firstNonEmpty(req.LastName, current.LastName),
		Username:  firstNonEmpty(req.Username, current.Username),
		Email:     firstNonEmpty(req.Email, current.Email),
		Avatar:    repository.Text(firstNonEmpty(req.Avatar, current.Avatar)),
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, nil, fmt.Errorf("valid email required")
	}

	dbUser, err := s.userRepo.UpdateProfile(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("update profile: %w", err)
	}

	user := toUser(dbUser)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &user, tokens, nil
}

// RefreshToken generates a new token pair from a refresh token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// Fetch user to ensure still exists
	user, err := s.Profile(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.generateTokenPair(*user)
}

// ValidateToken validates an access token and returns user claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

// findOrCreateOAuthUser links an OAuth identity to an account, creating one on first login.
func (s *Service) findOrCreateOAuthUser(ctx context.Context, provider string, info *OAuthUserInfo) (*User, *TokenPair, error) {
	dbUser, err := s.userRepo.GetByEmail(ctx, info.Email)
	switch {
	case err == nil:
		if updateErr := s.userRepo.UpdateLogin(ctx, repository.UUID(dbUser.UserID)); updateErr != nil {
			s.logger.Warn().Err(updateErr).Msg("update last login failed")
		}
	case errors.Is(err, repository.ErrNotFound):
		first, last := splitName(info.Name)
		dbUser, err = s.userRepo.Create(ctx, queries.CreateUserParams{
			FirstName:    first,
			LastName:     last,
			Username:     usernameFromEmail(info.Email, info.ProviderID),
			Email:        info.Email,
			PasswordHash: pgtype.Text{},
			Avatar:       repository.Text(info.AvatarURL),
			AuthProvider: provider,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create OAuth user: %w", err)
		}
		s.logger.Info().Str("provider", provider).Str("email", info.Email).Msg("OAuth user created")
	default:
		return nil, nil, fmt.Errorf("lookup OAuth user: %w", err)
	}

	user := toUser(dbUser)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &user, tokens, nil
}

func (s *Service) generateTokenPair(user User) (*TokenPair, error) {
	jwtUser := jwt.User{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}

	accessToken, err := s.tokenMgr.GenerateAccessToken(jwtUser)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(jwtUser)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func toUser(u queries.User) User {
	return User{
		ID:           repository.UUID(u.UserID),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		Avatar:       u.Avatar.String,
		AuthProvider: u.AuthProvider,
		CreatedAt:    u.CreatedAt.Time,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func splitName(name string) (string, string) {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}

func usernameFromEmail(email, providerID string) string {
	local, _, _ := strings.Cut(email, "@")
	suffix := providerID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	if suffix == "" {
		return local
	}
	return local + "_" + suffix
}
