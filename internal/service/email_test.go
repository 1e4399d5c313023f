package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tastebook/backend/internal/models"
)

// newUnconfiguredEmailService builds an EmailService that cannot find any
// SMTP secrets, which puts it in log-only mode.
func newUnconfiguredEmailService(t *testing.T) *EmailService {
	t.Helper()
	t.Setenv("SECRETS_DIR", t.TempDir())
	return NewEmailService()
}

func TestSendEmailWithoutSMTP(t *testing.T) {
	svc := newUnconfiguredEmailService(t)
	assert.NoError(t, svc.SendEmail("to@example.com", "Hello", "<p>Hello</p>"),
		"without SMTP the mail is logged, not sent")
}

func TestSendWelcomeEmail(t *testing.T) {
	svc := newUnconfiguredEmailService(t)
	user := &models.User{Username: "newcomer", Email: "newcomer@example.com"}
	assert.NoError(t, svc.SendWelcomeEmail(user))
}

func TestBuildWelcomeEmailBody(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://tastebook.example.com")
	svc := newUnconfiguredEmailService(t)

	body := svc.buildWelcomeEmailBody(&models.User{Username: "newcomer"})
	assert.Contains(t, body, "Welcome, newcomer!")
	assert.Contains(t, body, "https://tastebook.example.com")
}
