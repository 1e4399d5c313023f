package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tastebook/backend/internal/models"
	"github.com/tastebook/backend/internal/types"
)

// TokenTTL is the session lifetime. Session records in the SessionStore
// expire together with the token.
const TokenTTL = 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	sessions  SessionStore
	jwtSecret string
	email     IEmailService
}

func NewAuthService(db *gorm.DB, sessions SessionStore, jwtSecret string, email IEmailService) *AuthService {
	return &AuthService{
		db:        db,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		email:     email,
	}
}

// Register creates a user with a bcrypt password hash and opens a session.
// Username and email collisions fail with ErrDuplicateIdentity whether they
// are caught by the lookup or by the unique index during the insert.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if l := len(username); l < 2 || l > 20 {
		return nil, "", newValidationError("username", "must be between 2 and 20 characters")
	}
	if email == "" {
		return nil, "", newValidationError("email", "must not be empty")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, "", err
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ? OR username = ?", email, username).First(&existing).Error
	if err == nil {
		return nil, "", ErrDuplicateIdentity
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Two concurrent registrations can both pass the lookup; the unique
		// index decides the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrDuplicateIdentity
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.openSession(ctx, &user)
	if err != nil {
		return nil, "", err
	}

	if s.email != nil {
		if err := s.email.SendWelcomeEmail(&user); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return &user, token, nil
}

// Login authenticates by email or username. Unknown identifier and wrong
// password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.User, string, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", strings.ToLower(identifier), identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, &user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Logout revokes the session behind the token. Tokens that no longer parse
// or have already been revoked are treated as logged out.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil
	}
	return s.sessions.Revoke(ctx, claims.SessionID)
}

// ValidateToken checks the signature, expiry, and the session record. A
// token whose session was revoked is rejected even before its expiry.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	live, err := s.sessions.Exists(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if !live {
		return nil, ErrUnauthenticated
	}

	return claims, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (string, error) {
	jti := uuid.New().String()

	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"jti":      jti,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.sessions.Create(ctx, jti, user.ID, TokenTTL); err != nil {
		return "", err
	}

	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	jti, ok := claims["jti"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	username, _ := claims["username"].(string)

	return &types.TokenClaims{
		UserID:    userID,
		Username:  username,
		SessionID: jti,
	}, nil
}

// ValidatePassword enforces the account password policy: 8 to 72 characters
// with at least one upper case letter, one lower case letter, one digit, and
// one special character. The binding-level strong_password rule reuses it.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return newValidationError("password", "must be at least 8 characters")
	}
	if len(password) > 72 {
		return newValidationError("password", "must be at most 72 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return newValidationError("password", "must contain upper and lower case letters, a digit, and a special character")
	}
	return nil
}
