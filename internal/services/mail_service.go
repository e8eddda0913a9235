package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

const resetMailTemplate = `<html>
<body>
<p>Hello,</p>
<p>Someone requested a password reset for your account. If this was
you, open the link below within {{.TTL}} to choose a new password:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not request a reset, ignore this message.</p>
</body>
</html>`

// MailService sends transactional mail over SMTP. With incomplete SMTP
// configuration it logs and drops sends instead of failing callers;
// delivery is always fire-and-forget.
type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool

	logger *zap.Logger
}

func NewMailService(host, port, user, pass, from string, logger *zap.Logger) *MailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		logger.Warn("mail service disabled: missing SMTP configuration")
	}
	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
		logger:   logger,
	}
}

func (s *MailService) sendAsync(to []string, subject, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Murmur <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			s.logger.Error("failed to send email",
				zap.Strings("to", to), zap.Error(err))
			return
		}
		s.logger.Info("email sent", zap.Strings("to", to), zap.String("subject", subject))
	}()
}

// SendPasswordResetEmail mails a reset link containing the signed
// token.
func (s *MailService) SendPasswordResetEmail(email, link, ttl string) {
	t, err := template.New("reset").Parse(resetMailTemplate)
	if err != nil {
		s.logger.Error("failed to parse reset mail template", zap.Error(err))
		return
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]string{"Link": link, "TTL": ttl}); err != nil {
		s.logger.Error("failed to render reset mail", zap.Error(err))
		return
	}
	s.sendAsync([]string{email}, "Reset your Murmur password", buf.String())
}
