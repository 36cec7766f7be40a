package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"

	"github.com/gofrs/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Session is returned by register, login and refresh.
type Session struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
}

type AuthService interface {
	LoginUser(ctx context.Context, req LoginRequest) (*Session, error)
	IssueSession(ctx context.Context, user *models.User) (*Session, error)
	RefreshToken(ctx context.Context, req RefreshRequest) (*Session, error)
	Logout(ctx context.Context, userID uuid.UUID, claims *AccessClaims) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	VerifyAccessToken(ctx context.Context, token string) (*AccessClaims, error)
}

type AuthServiceImpl struct {
	users      UserStore
	tokens     TokenStore
	issuer     *TokenIssuer
	revoker    TokenRevoker
	refreshTTL time.Duration
	now        func() time.Time
}

// NewAuthService wires the token flows. revoker may be nil, in which case
// logout only drops refresh tokens.
func NewAuthService(users UserStore, tokens TokenStore, issuer *TokenIssuer, revoker TokenRevoker, refreshTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:      users,
		tokens:     tokens,
		issuer:     issuer,
		revoker:    revoker,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *AuthServiceImpl) LoginUser(ctx context.Context, req LoginRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := checkStruct(req).OrNil(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.IssueSession(ctx, user)
}

// IssueSession signs an access token and stores a new refresh token.
func (s *AuthServiceImpl) IssueSession(ctx context.Context, user *models.User) (*Session, error) {
	refresh, err := s.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, err
	}
	return s.session(user, refresh)
}

func (s *AuthServiceImpl) RefreshToken(ctx context.Context, req RefreshRequest) (*Session, error) {
	if err := checkStruct(req).OrNil(); err != nil {
		return nil, err
	}

	refreshID, err := uuid.FromString(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	current, err := s.tokens.FindByRefreshToken(ctx, refreshID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if current.IsExpired(s.now()) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	next, err := s.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Rotate(ctx, current, next); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	return s.session(user, next)
}

// Logout revokes the presented access token until it would have expired and
// drops every refresh token of the user.
func (s *AuthServiceImpl) Logout(ctx context.Context, userID uuid.UUID, claims *AccessClaims) error {
	if s.revoker != nil && claims != nil && claims.ExpiresAt != nil {
		if ttl := claims.ExpiresAt.Time.Sub(s.now()); ttl > 0 {
			if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
				return fmt.Errorf("revoke access token: %w", err)
			}
		}
	}
	return s.tokens.DeleteByUser(ctx, userID)
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

func (s *AuthServiceImpl) VerifyAccessToken(ctx context.Context, token string) (*AccessClaims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidAccessToken
		}
	}
	return claims, nil
}

func (s *AuthServiceImpl) newRefreshToken(userID uuid.UUID) (*models.Token, error) {
	value, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &models.Token{
		UserID:       userID,
		RefreshToken: value,
		ExpiresAt:    s.now().UTC().Add(s.refreshTTL),
	}, nil
}

func (s *AuthServiceImpl) session(user *models.User, refresh *models.Token) (*Session, error) {
	access, _, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh.RefreshToken.String(),
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.issuer.TTL().Seconds()),
	}, nil
}
