package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/authcookie"
	"github.com/smarthr/portal/internal/events"
	"github.com/smarthr/portal/internal/hash"
	"github.com/smarthr/portal/internal/logging"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/tokens"
	"github.com/smarthr/portal/internal/transport"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
	resetTTL   = time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        events.Publisher
}

func (s *AuthService) CreateAccessToken(role, id string, exp time.Time) (string, error) {
	return tokens.NewAccessToken(role, id, exp, s.JWTSecret)
}

func (s *AuthService) CreateRefreshToken(id string, exp time.Time) (string, error) {
	return tokens.NewRefreshToken(id, authcookie.NewJTI(), exp, s.RefreshSecret)
}

func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if len(username) < 2 || !strings.Contains(email, "@") || len(password) < 8 {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("signup_error", "status", 409, "reason", "user already exist")
			return nil, ErrConflict
		}
		l.Error("signup_error", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_registered", user.Username, map[string]any{
		"type":     "user_registered",
		"username": user.Username,
	})
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.UserExist(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	res, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_logged_in", user.Username, map[string]any{
		"type":     "user_logged_in",
		"username": user.Username,
	})
	return res, nil
}

// Refresh rotates the long-lived token: the presented JTI is revoked and a
// new refresh token is stored, so a stolen cookie works at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil || claims == nil {
		return nil, ErrInvalidRefreshToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.Repo.FindRefreshByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if stored.Token != authcookie.Sha256Hex(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.GetUserByID(ctx, uint(userID))
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	accessExp := time.Now().Add(accessTTL)
	accessToken, err := s.CreateAccessToken(user.Role, claims.Subject, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	newRefresh, err := s.CreateRefreshToken(claims.Subject, refreshExp)
	if err != nil {
		return nil, err
	}
	newClaims, err := tokens.RefreshClaimsFromToken(newRefresh, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, &models.RefreshToken{
		Token:     authcookie.Sha256Hex(newRefresh),
		JTI:       newClaims.ID,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "rotation rejected", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	return &transport.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         user.Role,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshByValue(ctx, refreshToken)
}

// ForgotPassword issues a reset token for a known email. An unknown email is
// not an error, so the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	if email == "" {
		return ErrValidation
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token := authcookie.NewJTI()
	if err := s.Repo.CreateResetToken(ctx, &models.PasswordResetToken{
		Token:     authcookie.Sha256Hex(token),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTTL).Unix(),
	}); err != nil {
		l.Error("forgot_password_error", "status", 500, "error", err)
		return err
	}

	// The mail worker picks the token up from the event stream.
	s.publish(ctx, "password_reset_requested", user.Username, map[string]any{
		"type":  "password_reset_requested",
		"uid":   fmt.Sprintf("%d", user.ID),
		"token": token,
		"email": user.Email,
	})
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, uid, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrValidation
	}
	userID, err := strconv.ParseUint(uid, 10, 64)
	if err != nil {
		return ErrValidation
	}

	if err := s.Repo.UseResetToken(ctx, uint(userID), token); err != nil {
		return ErrInvalidCredentials
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, uint(userID), pwHash)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*transport.LoginResult, error) {
	sub := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := time.Now().Add(accessTTL)
	accessToken, err := s.CreateAccessToken(user.Role, sub, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := s.CreateRefreshToken(sub, refreshExp)
	if err != nil {
		return nil, err
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.AddRefresh(ctx, &models.RefreshToken{
		Token:     authcookie.Sha256Hex(refreshToken),
		JTI:       claims.ID,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, err
	}

	return &transport.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         user.Role,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, kind, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "kind", kind, "error", err)
	}
}
