package email

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"rpe/internal/config"
	"rpe/pkg/validator"
)

// blockedDomains are placeholder domains seeded by fixtures; mail to them
// would bounce or leak into the void.
var blockedDomains = []string{"@example.com", "@empresa.com"}

// Service handles email operations
type Service struct {
	config *config.EmailConfig
}

// NewService creates a new email service
func NewService(cfg *config.EmailConfig) *Service {
	return &Service{
		config: cfg,
	}
}

// deliverable reports whether the address should receive mail at all.
// Invalid and fixture addresses are skipped with a log entry.
func (s *Service) deliverable(to string) bool {
	if !s.config.Enabled {
		slog.Debug("Email delivery disabled, skipping", "to", to)
		return false
	}
	if err := validator.ValidateEmail(to); err != nil {
		slog.Warn("Skipping email to invalid address", "to", to, "error", err)
		return false
	}
	lower := strings.ToLower(to)
	for _, domain := range blockedDomains {
		if strings.HasSuffix(lower, domain) {
			slog.Info("Skipping email to placeholder domain", "to", to)
			return false
		}
	}
	return true
}

// SendWelcomeEmail sends the first-access credentials to a newly created user
func (s *Service) SendWelcomeEmail(to, name, initialPassword string) error {
	if !s.deliverable(to) {
		return nil
	}

	subject := "Bem-vindo à Plataforma de Avaliação de Desempenho"

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Bem-vindo</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4a90e2;">Olá, %s!</h2>
        <p>Sua conta na plataforma de avaliação de desempenho foi criada.</p>
        <div style="background-color: #e3f2fd; border-left: 4px solid #2196f3; padding: 15px; margin: 20px 0;">
            <p style="margin: 5px 0;"><strong>Login:</strong> %s</p>
            <p style="margin: 5px 0;"><strong>Senha inicial:</strong> %s</p>
        </div>
        <p>Por segurança, altere sua senha no primeiro acesso.</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">Este é um email automático. Por favor, não responda.</p>
    </div>
</body>
</html>
`, name, to, initialPassword)

	return s.sendEmail(to, subject, body)
}

// SendBrutalFactsEmail sends the post-equalization talking points to a mentor
func (s *Service) SendBrutalFactsEmail(to, mentorName, menteeName, cycleName, facts string) error {
	if !s.deliverable(to) {
		return nil
	}

	subject := fmt.Sprintf("Pontos de feedback para %s - %s", menteeName, cycleName)

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Pontos de Feedback</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4a90e2;">Olá, %s!</h2>
        <p>A nota de <strong>%s</strong> no ciclo <strong>%s</strong> foi equalizada pelo comitê.</p>
        <p>Abaixo estão os principais pontos para a conversa de feedback com seu mentorado:</p>
        <div style="background-color: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; white-space: pre-wrap;">%s</div>
        <p>Este conteúdo é confidencial e destinado apenas ao mentor.</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">Este é um email automático. Por favor, não responda.</p>
    </div>
</body>
</html>
`, mentorName, menteeName, cycleName, facts)

	return s.sendEmail(to, subject, body)
}

// SendSummaryEmail sends the generated equalization summary to the committee
// member who requested it.
func (s *Service) SendSummaryEmail(to, requestorName, collaboratorName, cycleName, summary string) error {
	if !s.deliverable(to) {
		return nil
	}

	subject := fmt.Sprintf("Resumo de equalização: %s - %s", collaboratorName, cycleName)

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Resumo de Equalização</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4a90e2;">Olá, %s!</h2>
        <p>O resumo de equalização de <strong>%s</strong> no ciclo <strong>%s</strong> está pronto:</p>
        <div style="background-color: #e3f2fd; border-left: 4px solid #2196f3; padding: 15px; margin: 20px 0; white-space: pre-wrap;">%s</div>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">Este é um email automático. Por favor, não responda.</p>
    </div>
</body>
</html>
`, requestorName, collaboratorName, cycleName, summary)

	return s.sendEmail(to, subject, body)
}

// sendEmail sends an email using SMTP
func (s *Service) sendEmail(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.config.SMTPFrom
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message bytes.Buffer
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := net.JoinHostPort(s.config.SMTPHost, s.config.SMTPPort)
	slog.Debug("Attempting to connect to SMTP server",
		"address", addr,
		"host", s.config.SMTPHost,
		"port", s.config.SMTPPort,
	)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		slog.Error("Failed to connect to SMTP server",
			"address", addr,
			"error", err,
		)
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func(conn net.Conn) {
		err := conn.Close()
		if err != nil {
			slog.Error("Failed to close SMTP connection", "error", err)
		}
	}(conn)

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		slog.Error("Failed to create SMTP client", "error", err)
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func(client *smtp.Client) {
		err := client.Close()
		if err != nil {
			slog.Error("Failed to close SMTP client", "error", err)
		}
	}(client)

	// Authenticate only if credentials are provided and not empty
	// For development (e.g., Mailpit), no authentication is needed
	if s.config.SMTPUsername != "" && s.config.SMTPPassword != "" {
		auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
		// Try to authenticate, but don't fail if it's not supported (e.g., Mailpit)
		_ = client.Auth(auth)
	}

	if err := client.Mail(s.config.SMTPFrom); err != nil {
		slog.Error("Failed to set sender",
			"from", s.config.SMTPFrom,
			"error", err,
		)
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		slog.Error("Failed to set recipient",
			"to", to,
			"error", err,
		)
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		slog.Error("Failed to initiate data transfer", "error", err)
		return fmt.Errorf("failed to initiate data transfer: %w", err)
	}
	defer func(wc io.WriteCloser) {
		err := wc.Close()
		if err != nil {
			slog.Error("Failed to close write closer", "error", err)
		}
	}(wc)

	if _, err := wc.Write(message.Bytes()); err != nil {
		slog.Error("Failed to write message", "error", err)
		return fmt.Errorf("failed to write message: %w", err)
	}

	slog.Info("Email sent successfully", "to", to)

	return nil
}
