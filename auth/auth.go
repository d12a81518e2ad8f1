// Package auth handles email/password accounts and the sessions behind the
// API's bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/bidaya-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUnknownGovernorate = errors.New("unknown governorate")
	errBadToken           = errors.New("invalid or expired token")
)

type Service struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration

	// Cost is the bcrypt cost for new passwords.
	Cost int
	now  func() time.Time
}

func NewService(db *gorm.DB, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{db: db, secret: []byte(secret), ttl: ttl, Cost: bcrypt.DefaultCost, now: time.Now}
}

// SignUp creates a PENDING trader. It never starts a session.
func (s *Service) SignUp(ctx context.Context, reg models.Registration) (*models.User, error) {
	email := normalizeEmail(reg.Email)
	governorate, ok := models.NormalizeGovernorate(reg.Governorate)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGovernorate, reg.Governorate)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, models.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.Cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		FullName:     strings.TrimSpace(reg.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(reg.Phone),
		Governorate:  governorate,
		Age:          reg.Age,
		Role:         models.RoleTrader,
		Status:       models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// SignIn checks the password and the account status, then opens a session.
// A banned or unapproved account gets its own error and no session row.
func (s *Service) SignIn(ctx context.Context, creds models.Credentials) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(creds.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	switch user.Status {
	case models.StatusApproved:
	case models.StatusBanned:
		return "", nil, models.ErrAccountBanned
	default:
		return "", nil, models.ErrAccountNotApproved
	}

	now := s.now()
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.issueJWT(&user, &sess)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// SignOut revokes the session. Revoking twice is not an error.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	now := s.now()
	err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", &now).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user and session id.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*models.User, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, "", fmt.Errorf("%w: %v", models.ErrUnauthenticated, errBadToken)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", models.ErrUnauthenticated
	}
	sid, _ := claims["sid"].(string)
	uid, _ := claims["user_id"].(float64)
	if sid == "" || uid <= 0 {
		return nil, "", models.ErrUnauthenticated
	}

	var sess models.Session
	if err := s.db.WithContext(ctx).Where("id = ?", sid).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", models.ErrUnauthenticated
		}
		return nil, "", fmt.Errorf("load session: %w", err)
	}
	if !sess.Active(s.now()) || sess.UserID != uint(uid) {
		return nil, "", models.ErrUnauthenticated
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", models.ErrUnauthenticated
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if user.Status == models.StatusBanned {
		return nil, "", models.ErrAccountBanned
	}
	return &user, sess.ID, nil
}

// RevokeAll ends every open session of userID, used when an admin bans.
func (s *Service) RevokeAll(ctx context.Context, userID uint) error {
	now := s.now()
	return s.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", &now).Error
}

func (s *Service) issueJWT(user *models.User, sess *models.Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"sid":     sess.ID,
		"exp":     sess.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
