package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
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

// Attachment is a file sent along with an email
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StatementEmail is the data rendered into the statement email body
type StatementEmail struct {
	To           string
	CustomerName string
	ShopName     string
	Balance      string
	Currency     string
	Attachment   Attachment
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   sendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// SendStatement emails a customer their statement with the rendered file attached
func (s *EmailService) SendStatement(msg StatementEmail) error {
	body, err := renderStatementEmail(msg)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your statement from %s", msg.ShopName)
	raw, err := s.buildMessage(msg.To, subject, body, []Attachment{msg.Attachment})
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	return s.sendEmail(msg.To, raw)
}

// sendEmail sends an email using SMTP. Auth is skipped when no username is set
// (local relays such as MailHog).
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage builds a multipart/mixed message with an HTML body and attachments
func (s *EmailService) buildMessage(to, subject, htmlBody string, attachments []Attachment) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.config.FromName), s.config.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	htmlPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="UTF-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	for _, a := range attachments {
		if len(a.Data) == 0 {
			continue
		}
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
		})
		if err != nil {
			return nil, err
		}
		if _, err := part.Write([]byte(wrap76(base64.StdEncoding.EncodeToString(a.Data)))); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrap76 splits base64 text into RFC 2045 lines
func wrap76(s string) string {
	var b strings.Builder
	for len(s) > 76 {
		b.WriteString(s[:76])
		b.WriteString("\r\n")
		s = s[76:]
	}
	b.WriteString(s)
	return b.String()
}

var statementTmpl = template.Must(template.New("statement").Parse(statementTemplate))

func renderStatementEmail(msg StatementEmail) (string, error) {
	var buf bytes.Buffer
	if err := statementTmpl.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const statementTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Account statement</title></head>
<body style="font-family: Arial, sans-serif; color: #333; line-height: 1.5;">
  <h2 style="margin-bottom: 4px;">{{.ShopName}}</h2>
  <p>Hello {{.CustomerName}},</p>
  <p>Please find your account statement attached.</p>
  <p>Balance due: <strong>{{.Currency}} {{.Balance}}</strong></p>
  <p style="font-size: 12px; color: #888;">If you have questions about this statement, reply to this email.</p>
</body>
</html>
`
