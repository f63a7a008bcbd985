package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	SiteURL  string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("⚠️ MailService disabled: Missing SMTP environment variables.")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		SiteURL:  siteURL,
		Enabled:  enabled,
	}
}

// sendAsync 投递即返回，发送失败只记日志，不向上传播
func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: EchoBoard 通讯员 <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("❌ Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("✅ Email sent to %v: %s", to, subject)
		}
	}()
}

func (s *MailService) parseTemplate(templateName string, data interface{}) (string, error) {
	path := filepath.Join("web", "templates", "email", templateName)
	t, err := template.ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// SendConfirmEmail 发送带验证链接的邮件，注册和重发共用
func (s *MailService) SendConfirmEmail(email, token string) {
	link := fmt.Sprintf("%s/check-email-token?token=%s&email=%s",
		s.SiteURL, url.QueryEscape(token), url.QueryEscape(email))
	body, err := s.parseTemplate("confirm.html", map[string]string{
		"Link": link,
	})
	if err != nil {
		log.Printf("Error rendering confirm email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "欢迎加入 EchoBoard，请验证您的邮箱", body)
}

// SendTemporaryPasswordEmail 发送临时密码，用户登录后应立即修改
func (s *MailService) SendTemporaryPasswordEmail(email, password string) {
	body, err := s.parseTemplate("password.html", map[string]string{
		"Password": password,
	})
	if err != nil {
		log.Printf("Error rendering password email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "[EchoBoard]安全提醒：您的临时密码", body)
}
