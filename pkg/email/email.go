// Package email sends transactional mail through Resend.
//
// Services depend on the Sender interface; main wires NewResendSender or,
// when no API key is configured, a NoopSender.
package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"
)

// Sender sends Foodie's emails.
type Sender interface {
	// SendPasswordReset mails a reset link carrying the plaintext token.
	SendPasswordReset(ctx context.Context, msg PasswordReset) error
	// SendShoppingList mails a rendered shopping list.
	SendShoppingList(ctx context.Context, msg ShoppingList) error
}

// PasswordReset holds the localized texts of a reset email.
type PasswordReset struct {
	To      string
	Token   string
	Subject string
	Heading string
	Body    string
	Button  string
	Expiry  string
}

// ShoppingList is a shopping list share.
type ShoppingList struct {
	To      string
	Subject string
	Intro   string
	// Text is the plain-text export of the list.
	Text string
}

type resendSender struct {
	client    *resend.Client
	fromEmail string
	appURL    string
}

// NewResendSender builds a Sender. fromEmail must belong to a domain
// verified in Resend; appURL prefixes reset links.
func NewResendSender(apiKey, fromEmail, appURL string) Sender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    strings.TrimRight(appURL, "/"),
	}
}

// ResetLink is the frontend page that accepts a reset token.
func ResetLink(appURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(appURL, "/"), token)
}

func (s *resendSender) SendPasswordReset(ctx context.Context, msg PasswordReset) error {
	link := ResetLink(s.appURL, msg.Token)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:24px;background:#fff8f0;font-family:Arial,Helvetica,sans-serif;">
  <h1 style="color:#e8590c;font-size:24px;margin:0 0 8px 0;">Foodie</h1>
  <h2 style="color:#343a40;font-size:18px;margin:0 0 24px 0;">%s</h2>
  <p style="color:#495057;font-size:15px;line-height:1.6;">%s</p>
  <p><a href="%s" style="background:#e8590c;color:#fff;padding:12px 32px;border-radius:6px;text-decoration:none;">%s</a></p>
  <p style="color:#868e96;font-size:13px;">%s</p>
  <p style="color:#868e96;font-size:13px;word-break:break-all;">%s</p>
</body>
</html>`,
		html.EscapeString(msg.Heading), html.EscapeString(msg.Body), link,
		html.EscapeString(msg.Button), html.EscapeString(msg.Expiry), link)

	return s.send(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("Foodie <%s>", s.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    body,
		Text:    link,
	})
}

func (s *resendSender) SendShoppingList(ctx context.Context, msg ShoppingList) error {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:24px;font-family:Arial,Helvetica,sans-serif;">
  <p style="color:#495057;font-size:15px;">%s</p>
  <pre style="font-size:14px;line-height:1.5;">%s</pre>
</body>
</html>`, html.EscapeString(msg.Intro), html.EscapeString(msg.Text))

	return s.send(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("Foodie <%s>", s.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    body,
		Text:    msg.Intro + "\n\n" + msg.Text,
	})
}

func (s *resendSender) send(ctx context.Context, req *resend.SendEmailRequest) error {
	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("failed to send email %q: %w", req.Subject, err)
	}
	return nil
}

// NoopSender logs instead of sending. It is used when RESEND_API_KEY is
// unset so local development works without an email provider.
type NoopSender struct{}

func (NoopSender) SendPasswordReset(_ context.Context, msg PasswordReset) error {
	zap.L().Named("email").Info("email disabled, password reset not sent", zap.String("to", msg.To))
	return nil
}

func (NoopSender) SendShoppingList(_ context.Context, msg ShoppingList) error {
	zap.L().Named("email").Info("email disabled, shopping list not sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
