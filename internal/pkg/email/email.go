package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendRegistrationReceipt(toEmail, toName string, receipt Receipt) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string // Base URL for the application
}

// ReceiptLine is one course on a receipt
type ReceiptLine struct {
	Code  string
	Name  string
	Units int
	Time  string
}

// Receipt is the content of a registration receipt mail
type Receipt struct {
	ReceiptID     string
	TransactionID string
	Semester      string
	Lines         []ReceiptLine
	TotalUnits    int
	Tuition       int64
	Currency      string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config   SMTPConfig
	logger   zerolog.Logger
	sendMail sendFunc
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	return &EmailServiceImpl{
		config:   config,
		logger:   logger,
		sendMail: smtp.SendMail,
	}
}

// SendRegistrationReceipt mails the receipt of a finalized registration
func (s *EmailServiceImpl) SendRegistrationReceipt(toEmail, toName string, receipt Receipt) error {
	// Without credentials the receipt is only logged (development mode)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("receiptID", receipt.ReceiptID).
			Str("transactionID", receipt.TransactionID).
			Msg("SMTP credentials not configured - receipt email not sent.")
		return nil
	}

	subject := fmt.Sprintf("Registration receipt %s - %s", receipt.ReceiptID, receipt.Semester)
	message := s.BuildMessage(toEmail, subject, ReceiptHTML(toName, receipt))
	return s.send(toEmail, message)
}

// BuildMessage renders headers and body in a stable header order
func (s *EmailServiceImpl) BuildMessage(toEmail, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// ReceiptHTML renders the receipt body
func ReceiptHTML(toName string, r Receipt) string {
	var rows strings.Builder
	for _, l := range r.Lines {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(l.Code), html.EscapeString(l.Name), l.Units, html.EscapeString(l.Time))
	}

	return fmt.Sprintf(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Registration confirmed</h2>
		<p>Hello %s,</p>
		<p>Your registration for semester %s is final.</p>
		<table>
			<tr><th>Code</th><th>Course</th><th>Units</th><th>Time</th></tr>
			%s
		</table>
		<p>Total units: <strong>%d</strong></p>
		<p>Tuition paid: <strong>%s %s</strong></p>
		<p>Receipt: %s<br>Transaction: %s</p>
	</div>
</body>
</html>`,
		html.EscapeString(toName), html.EscapeString(r.Semester), rows.String(),
		r.TotalUnits, FormatAmount(r.Tuition), html.EscapeString(r.Currency),
		html.EscapeString(r.ReceiptID), html.EscapeString(r.TransactionID))
}

// FormatAmount groups digits by thousands, 3500000 -> 3,500,000
func FormatAmount(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func (s *EmailServiceImpl) send(toEmail string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := s.sendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	return w.Close()
}
