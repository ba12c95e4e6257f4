package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// StockLine is one item listed in a low-stock alert
type StockLine struct {
	Name         string
	Unit         string
	CurrentStock string
	ReorderLevel string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// Enabled reports whether an SMTP host is configured
func (s *EmailService) Enabled() bool {
	return s.config.SMTPHost != ""
}

// SendLowStockAlert mails the list of items at or below their reorder level
func (s *EmailService) SendLowStockAlert(toEmail, branchName string, items []StockLine) error {
	htmlContent, err := s.renderLowStockEmail(branchName, items)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Low stock alert - %s", branchName)
	if len(items) == 1 {
		subject = fmt.Sprintf("Low stock: %s - %s", items[0].Name, branchName)
	}
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

func (s *EmailService) renderLowStockEmail(branchName string, items []StockLine) (string, error) {
	tmpl, err := template.New("low_stock").Parse(lowStockTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		Branch  string
		Items   []StockLine
		AppName string
	}{
		Branch:  branchName,
		Items:   items,
		AppName: s.config.FromName,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const lowStockTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Low Stock Alert</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
                    <!-- Header -->
                    <tr>
                        <td style="background: linear-gradient(135deg, #e53e3e 0%, #c05621 100%); padding: 32px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 24px; font-weight: 600;">Low Stock Alert</h1>
                            <p style="color: #fed7d7; margin: 8px 0 0 0; font-size: 14px;">{{.Branch}}</p>
                        </td>
                    </tr>

                    <!-- Content -->
                    <tr>
                        <td style="padding: 30px;">
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">
                                The following items are at or below their reorder level:
                            </p>
                            <table role="presentation" style="width: 100%; border-collapse: collapse; font-size: 14px;">
                                <tr style="background-color: #f8fafc;">
                                    <th style="text-align: left; padding: 10px; border-bottom: 1px solid #e2e8f0;">Item</th>
                                    <th style="text-align: right; padding: 10px; border-bottom: 1px solid #e2e8f0;">In stock</th>
                                    <th style="text-align: right; padding: 10px; border-bottom: 1px solid #e2e8f0;">Reorder level</th>
                                </tr>
                                {{range .Items}}
                                <tr>
                                    <td style="padding: 10px; border-bottom: 1px solid #edf2f7;">{{.Name}}</td>
                                    <td style="padding: 10px; border-bottom: 1px solid #edf2f7; text-align: right; color: #c53030;">{{.CurrentStock}} {{.Unit}}</td>
                                    <td style="padding: 10px; border-bottom: 1px solid #edf2f7; text-align: right;">{{.ReorderLevel}} {{.Unit}}</td>
                                </tr>
                                {{end}}
                            </table>
                        </td>
                    </tr>

                    <!-- Footer -->
                    <tr>
                        <td style="background-color: #f8fafc; padding: 24px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 13px; margin: 0;">
                                This alert was sent by {{.AppName}}
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
