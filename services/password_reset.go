package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/email"
	"github.com/foodie-app/foodie/pkg/i18n"
)

const (
	resetTokenTTL = 20 * time.Minute
	// resetCooldown throttles repeated requests for the same account.
	resetCooldown = time.Minute
)

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *authService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	now := s.now()
	latest, err := s.resetRepo.GetLatestByUserID(ctx, user.ID)
	switch {
	case err == nil && now.Sub(latest.CreatedAt) < resetCooldown:
		s.log.Debug("password reset throttled", zap.String("user_id", user.ID))
		return nil
	case err != nil && !errors.Is(err, pkg.ErrNotFound):
		return err
	}

	token, err := randomToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	// One live token per user.
	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}
	if err := s.resetRepo.Create(ctx, &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: now.Add(resetTokenTTL),
	}); err != nil {
		return err
	}

	l := i18n.NewLocalizer(user.Language)
	msg := email.PasswordReset{
		To:      user.Email,
		Token:   token,
		Subject: l.T("email.reset_subject"),
		Heading: l.T("email.reset_heading"),
		Body:    l.T("email.reset_body"),
		Button:  l.T("email.reset_button"),
		Expiry:  l.T("email.reset_expiry"),
	}
	if err := s.mailer.SendPasswordReset(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	stored, err := s.resetRepo.GetByTokenHash(ctx, hashResetToken(req.Token))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrBadRequest)
		}
		return err
	}
	if s.now().After(stored.ExpiresAt) {
		_ = s.resetRepo.DeleteByUserID(ctx, stored.UserID)
		return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrBadRequest)
	}

	if err := s.setPassword(ctx, stored.UserID, req.NewPassword); err != nil {
		return err
	}
	if err := s.resetRepo.DeleteByUserID(ctx, stored.UserID); err != nil {
		return err
	}

	s.log.Info("password reset", zap.String("user_id", stored.UserID))
	return nil
}
