package service

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"github.com/tastebook/backend/config"
	"github.com/tastebook/backend/internal/models"
)

// EmailService sends account mail over SMTP. Without SMTP configuration it
// logs the message instead, which is the normal development mode.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

func NewEmailService() *EmailService {
	return &EmailService{
		host:     config.ReadSecret("smtp_host"),
		port:     config.ReadSecret("smtp_port"),
		username: config.ReadSecret("smtp_username"),
		password: config.ReadSecret("smtp_password"),
		from:     config.ReadSecret("email_from"),
		fromName: config.ReadSecret("email_from_name"),
	}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if s.host == "" || s.port == "" {
		log.Printf("SMTP not configured, logging email instead. To: %s Subject: %s", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"To: " + to,
		fmt.Sprintf("From: %s <%s>", s.fromName, s.from),
		"Subject: " + subject,
		"Content-Type: text/html; charset=UTF-8",
		"",
		body,
		"",
	}, "\r\n")

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	subject := "Welcome to Tastebook!"
	return s.SendEmail(user.Email, subject, s.buildWelcomeEmailBody(user))
}

func (s *EmailService) buildWelcomeEmailBody(user *models.User) string {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Welcome to Tastebook!</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2>Welcome, %s!</h2>
	<p>Your Tastebook account is ready. Start adding your own recipes, search the
	recipe library, and save the ones you want to cook later.</p>
	<p><a href="%s">Open Tastebook</a></p>
	<p style="color: #666; font-size: 12px;">If you didn't sign up for Tastebook, you can safely ignore this email.</p>
</body>
</html>
	`, user.Username, frontendURL)
}
