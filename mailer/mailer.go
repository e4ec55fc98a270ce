// Package mailer delivers reports and failure alerts over SMTP.
package mailer

import (
	"bufio"
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"

	"stockanalyze/config"
)

// Mailer sends HTML mail through a single SMTP account using STARTTLS.
type Mailer struct {
	cfg config.SMTPConfig

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg config.SMTPConfig) (*Mailer, error) {
	if cfg.Server == "" || cfg.Sender == "" || cfg.Password == "" {
		return nil, fmt.Errorf("mailer: SMTP_SERVER, SENDER_EMAIL and SENDER_PASSWORD must be set")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}, nil
}

// ReadEmailList parses the recipients file: the first non-empty line is the
// comma-separated To list, the second the BCC list.
func ReadEmailList(path string) (to, bcc []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("mailer: open email list: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("mailer: read email list: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("mailer: email list %s is empty", path)
	}

	to = splitAddresses(lines[0])
	if len(lines) > 1 {
		bcc = splitAddresses(lines[1])
	}
	return to, bcc, nil
}

func splitAddresses(line string) []string {
	var out []string
	for _, a := range strings.Split(line, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Send delivers an HTML message. BCC recipients go on the envelope only,
// never in the headers.
func (m *Mailer) Send(to, bcc []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("mailer: no recipients")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.Sender)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Sender, m.cfg.Password, m.cfg.Server)
	all := append(append([]string{}, to...), bcc...)

	if err := m.send(addr, auth, m.cfg.Sender, all, []byte(msg.String())); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	log.Info().Int("to", len(to)).Int("bcc", len(bcc)).Str("subject", subject).Msg("mail sent")
	return nil
}

// SendReport delivers the day's report.
func (m *Mailer) SendReport(to, bcc []string, date, htmlBody string) error {
	return m.Send(to, bcc, fmt.Sprintf("Market Analysis Report (%s)", date), htmlBody)
}

// SendErrorAlert notifies the To list that a scheduled run failed.
func (m *Mailer) SendErrorAlert(to []string, runErr error) error {
	body := fmt.Sprintf(
		"<html><body><h2>Scheduled report run failed</h2><p>%s</p><pre>%v</pre></body></html>",
		time.Now().Format(time.RFC1123), runErr)
	return m.Send(to, nil, "Market analysis report FAILED", body)
}
