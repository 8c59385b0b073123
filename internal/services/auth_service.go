package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/epicevents/crm/internal/apperr"
	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/models"
)

// AuthService is the credential service: it verifies submitted passwords
// against stored hashes and issues/validates session tokens.
type AuthService struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenManager) *AuthService {
	return &AuthService{DB: db, Tokens: tokens}
}

// Login verifies the credentials and returns a signed session token.
// The failure message never distinguishes a wrong password from an unknown
// account.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, apperr.Validation("credentials", "email and password are required")
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
	}
	if err != nil {
		return "", nil, apperr.Persistence(err)
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", nil, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
	}

	token, err := s.Tokens.Issue(&user)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return token, &user, nil
}

// Identify validates a presented token and re-loads the actor from the
// store, so a token for a deleted account is rejected. An expired token
// forces re-login.
func (s *AuthService) Identify(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.Tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperr.New(apperr.KindAuthenticationExpired, "session expired, please log in again")
		}
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid session token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid session token")
	}

	var user models.User
	dbErr := s.DB.WithContext(ctx).First(&user, userID).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindUnauthenticated, "session refers to an unknown account")
	}
	if dbErr != nil {
		return nil, apperr.Persistence(dbErr)
	}
	return &user, nil
}
