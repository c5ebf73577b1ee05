package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"mailflow/internal/config"
	"mailflow/internal/features/credential"
	"mailflow/internal/features/email"
	"mailflow/internal/features/user"
	"mailflow/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidResetToken  = errors.New("token is invalid or has expired")
)

type AuthService interface {
	Register(ctx context.Context, name, emailAddr, password string) (*user.User, string, error)
	Login(ctx context.Context, emailAddr, password string) (*user.User, string, error)
	ForgotPassword(ctx context.Context, emailAddr string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*user.User, string, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
	Gateway  email.Gateway
	Config   *config.Config
	Logger   *zap.Logger
}

func NewAuthService(userRepo user.UserRepository, gateway email.Gateway, cfg *config.Config, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		UserRepo: userRepo,
		Gateway:  gateway,
		Config:   cfg,
		Logger:   logger,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, name, emailAddr, password string) (*user.User, string, error) {
	name = strings.TrimSpace(name)
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	if name == "" || emailAddr == "" || password == "" {
		return nil, "", errors.New("please provide name, email, and password")
	}
	if len(password) < 8 {
		return nil, "", errors.New("password must be at least 8 characters")
	}

	if _, err := s.UserRepo.FindByEmail(ctx, emailAddr); err == nil {
		return nil, "", errors.New("an account with that email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := &user.User{
		Name:     name,
		Email:    emailAddr,
		Password: string(hashed),
	}
	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(u.ID, u.Name, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, emailAddr, password string) (*user.User, string, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	u, err := s.UserRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.ID, u.Name, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ForgotPassword generates a reset token, stores its sha256 with a
// 10-minute expiry, and emails the reset link through the system sender.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, emailAddr string) error {
	u, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)

	expires := time.Now().Add(10 * time.Minute)
	u.PasswordResetToken = hashToken(token)
	u.PasswordResetExpires = &expires
	if err := s.UserRepo.Update(ctx, u); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.Config.FrontendURL, token)
	body := fmt.Sprintf("Forgot your password? Click the link below to reset your password:\n\n%s\n\nThis link is valid for 10 minutes.\nIf you didn't forget your password, please ignore this email!", resetURL)

	msg := email.OutboundEmail{
		From: credential.Sender{
			Email:    s.Config.SystemEmail,
			Password: s.Config.SystemSecret,
			Provider: credential.ProviderOther,
		},
		To:      u.Email,
		Subject: "Your password reset link (valid for 10 min)",
		Body:    body,
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.Config.SendTimeout)
	defer cancel()

	if _, err := s.Gateway.Send(sendCtx, msg); err != nil {
		// Roll back the token so a failed mail does not leave a live token
		// behind.
		u.PasswordResetToken = ""
		u.PasswordResetExpires = nil
		if rbErr := s.UserRepo.Update(ctx, u); rbErr != nil {
			s.Logger.Error("failed to clear reset token after send failure", zap.Error(rbErr))
		}
		return fmt.Errorf("there was an error sending the email: %w", err)
	}

	return nil
}

func (s *AuthServiceImpl) ValidateResetToken(ctx context.Context, token string) error {
	if _, err := s.UserRepo.FindByResetToken(ctx, hashToken(token)); err != nil {
		return ErrInvalidResetToken
	}
	return nil
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) (*user.User, string, error) {
	if len(newPassword) < 8 {
		return nil, "", errors.New("password must be at least 8 characters")
	}

	u, err := s.UserRepo.FindByResetToken(ctx, hashToken(token))
	if err != nil {
		return nil, "", ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u.Password = string(hashed)
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
	if err := s.UserRepo.Update(ctx, u); err != nil {
		return nil, "", err
	}

	jwtToken, err := utils.GenerateToken(u.ID, u.Name, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, jwtToken, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
